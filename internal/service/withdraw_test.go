package service

import (
	"context"
	"testing"

	"github.com/acmebank/account-service/internal/metrics"
	"github.com/acmebank/account-service/internal/models"
	"github.com/acmebank/account-service/internal/repository/mocks"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestWithdrawalService_PerformWithdrawal(t *testing.T) {
	t.Run("successful withdrawal without commission", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		mockTxRepo := mocks.NewMockTransactionRepository(t)
		service := NewWithdrawalService(nil, metrics.NewCollector())
		ctx := context.Background()

		account := &models.Account{
			ID:            uuid.New(),
			Number:        "ACC-100",
			Type:          models.AccountTypeCurrent,
			Balance:       decimal.RequireFromString("100.00"),
			MovementCount: 3,
			Status:        models.AccountStatusActive,
		}

		var recorded *models.Transaction
		mockAccountRepo.On("FindByNumberForUpdate", ctx, "ACC-100").Return(account, nil)
		mockAccountRepo.On("Update", ctx, account).Return(nil)
		mockTxRepo.On("Create", ctx, mock.AnythingOfType("*models.Transaction")).
			Run(func(args mock.Arguments) {
				recorded = args.Get(1).(*models.Transaction)
			}).
			Return(nil)

		result, err := service.performWithdrawal(ctx, mockAccountRepo, mockTxRepo, WithdrawalRequest{
			AccountNumber: "ACC-100",
			Amount:        decimal.RequireFromString("30.00"),
		})

		assert.NoError(t, err)
		assert.True(t, result.NewBalance.Equal(decimal.RequireFromString("70.00")))
		assert.True(t, result.Commission.IsZero())
		assert.Equal(t, 4, account.MovementCount)

		// The ledger records the withdrawal negatively signed
		if assert.NotNil(t, recorded) {
			assert.True(t, recorded.Amount.Equal(decimal.RequireFromString("-30.00")))
			assert.Equal(t, models.TransactionTypeWithdrawal, recorded.Type)
			assert.Equal(t, "Cash withdrawal", recorded.Description)
		}
	})

	t.Run("commission added to the debit past free movements", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		mockTxRepo := mocks.NewMockTransactionRepository(t)
		service := NewWithdrawalService(nil, metrics.NewCollector())
		ctx := context.Background()

		account := &models.Account{
			ID:            uuid.New(),
			Number:        "ACC-1",
			Type:          models.AccountTypeCurrent,
			Balance:       decimal.RequireFromString("100.00"),
			MovementCount: 20,
			Status:        models.AccountStatusActive,
		}

		mockAccountRepo.On("FindByNumberForUpdate", ctx, "ACC-1").Return(account, nil)
		mockAccountRepo.On("Update", ctx, account).Return(nil)
		mockTxRepo.On("Create", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil)

		result, err := service.performWithdrawal(ctx, mockAccountRepo, mockTxRepo, WithdrawalRequest{
			AccountNumber: "ACC-1",
			Amount:        decimal.RequireFromString("30.00"),
		})

		assert.NoError(t, err)
		assert.True(t, result.Commission.Equal(decimal.RequireFromString("1.50")))
		assert.True(t, result.NewBalance.Equal(decimal.RequireFromString("68.50")))
		assert.Equal(t, 21, account.MovementCount)
	})

	t.Run("insufficient funds including commission", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		mockTxRepo := mocks.NewMockTransactionRepository(t)
		service := NewWithdrawalService(nil, metrics.NewCollector())
		ctx := context.Background()

		// Balance covers the amount but not amount plus commission
		account := &models.Account{
			ID:            uuid.New(),
			Number:        "ACC-100",
			Type:          models.AccountTypeCurrent,
			Balance:       decimal.RequireFromString("31.00"),
			MovementCount: 20,
			Status:        models.AccountStatusActive,
		}

		mockAccountRepo.On("FindByNumberForUpdate", ctx, "ACC-100").Return(account, nil)

		result, err := service.performWithdrawal(ctx, mockAccountRepo, mockTxRepo, WithdrawalRequest{
			AccountNumber: "ACC-100",
			Amount:        decimal.RequireFromString("30.00"),
		})

		assert.Error(t, err)
		assert.Nil(t, result)

		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeInsufficientFunds, svcErr.Code)
		}
		assert.True(t, account.Balance.Equal(decimal.RequireFromString("31.00")))
		assert.Equal(t, 20, account.MovementCount)
		mockAccountRepo.AssertNotCalled(t, "Update")
		mockTxRepo.AssertNotCalled(t, "Create")
	})

	t.Run("fixed-term account already used its single movement", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		mockTxRepo := mocks.NewMockTransactionRepository(t)
		service := NewWithdrawalService(nil, metrics.NewCollector())
		ctx := context.Background()

		account := &models.Account{
			ID:            uuid.New(),
			Number:        "ACC-100",
			Type:          models.AccountTypeFixedTerm,
			Balance:       decimal.RequireFromString("500.00"),
			MovementCount: 1,
			Status:        models.AccountStatusActive,
		}

		mockAccountRepo.On("FindByNumberForUpdate", ctx, "ACC-100").Return(account, nil)

		result, err := service.performWithdrawal(ctx, mockAccountRepo, mockTxRepo, WithdrawalRequest{
			AccountNumber: "ACC-100",
			Amount:        decimal.RequireFromString("10.00"),
		})

		assert.Error(t, err)
		assert.Nil(t, result)

		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeMovementLimitExceeded, svcErr.Code)
			assert.Equal(t, "fixed-term account already used its single monthly movement", svcErr.Message)
		}
	})

	t.Run("account not found", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		mockTxRepo := mocks.NewMockTransactionRepository(t)
		service := NewWithdrawalService(nil, metrics.NewCollector())
		ctx := context.Background()

		mockAccountRepo.On("FindByNumberForUpdate", ctx, "ACC-404").Return(nil, models.ErrNotFound)

		result, err := service.performWithdrawal(ctx, mockAccountRepo, mockTxRepo, WithdrawalRequest{
			AccountNumber: "ACC-404",
			Amount:        decimal.RequireFromString("10.00"),
		})

		assert.Error(t, err)
		assert.Nil(t, result)

		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeAccountNotFound, svcErr.Code)
		}
	})
}

func TestWithdrawalService_Withdraw_InvalidAmount(t *testing.T) {
	service := NewWithdrawalService(nil, metrics.NewCollector())

	result, err := service.Withdraw(context.Background(), WithdrawalRequest{
		AccountNumber: "ACC-100",
		Amount:        decimal.Zero,
	})

	assert.Error(t, err)
	assert.Nil(t, result)

	var svcErr *ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, ErrCodeInvalidAmount, svcErr.Code)
	}
}
