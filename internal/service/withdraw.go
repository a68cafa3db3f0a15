package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/acmebank/account-service/internal/db"
	"github.com/acmebank/account-service/internal/metrics"
	"github.com/acmebank/account-service/internal/models"
	"github.com/acmebank/account-service/internal/policy"
	"github.com/acmebank/account-service/internal/repository"
	"github.com/google/uuid"
)

const defaultWithdrawalDescription = "Cash withdrawal"

// WithdrawalService applies withdrawals to accounts
type WithdrawalService struct {
	db      *db.DB
	metrics *metrics.Collector
}

// NewWithdrawalService creates a new WithdrawalService
func NewWithdrawalService(database *db.DB, collector *metrics.Collector) *WithdrawalService {
	return &WithdrawalService{
		db:      database,
		metrics: collector,
	}
}

// Withdraw debits an account by the requested amount plus any commission and
// appends a WITHDRAWAL record with the gross amount, negatively signed.
func (s *WithdrawalService) Withdraw(ctx context.Context, req WithdrawalRequest) (*MovementResult, error) {
	start := time.Now()
	result, err := s.withdraw(ctx, req)
	s.metrics.RecordOperation("withdrawal", outcomeOf(err), time.Since(start))
	return result, err
}

func (s *WithdrawalService) withdraw(ctx context.Context, req WithdrawalRequest) (*MovementResult, error) {
	if err := ValidateAmount(req.Amount); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidAmount, Message: err.Error()}
	}
	if err := ValidateAccountNumber(req.AccountNumber); err != nil {
		return nil, &ServiceError{Code: ErrCodeAccountNotFound, Message: err.Error()}
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to start transaction: %v", err),
		}
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	txAccountRepo := repository.NewAccountRepository(tx)
	txTransactionRepo := repository.NewTransactionRepository(tx)

	result, err := s.performWithdrawal(ctx, txAccountRepo, txTransactionRepo, req)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to commit transaction: %v", err),
		}
	}

	if result.Commission.IsPositive() {
		s.metrics.RecordCommission()
	}

	return result, nil
}

// performWithdrawal contains the core withdrawal business logic
func (s *WithdrawalService) performWithdrawal(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	req WithdrawalRequest,
) (*MovementResult, error) {
	account, err := accountRepo.FindByNumberForUpdate(ctx, req.AccountNumber)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: "account not found",
		}
	}
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to load account: %v", err),
		}
	}

	if !account.IsActive() {
		return nil, &ServiceError{
			Code:    ErrCodeAccountInactive,
			Message: "account is not active",
		}
	}

	if decision := policy.Evaluate(account.Type, account.MovementCount); !decision.Allowed {
		return nil, &ServiceError{
			Code:    ErrCodeMovementLimitExceeded,
			Message: decision.Reason,
		}
	}

	commission := policy.Commission(account.Type, account.MovementCount)
	totalDebit := req.Amount.Add(commission)

	if account.Balance.LessThan(totalDebit) {
		return nil, &ServiceError{
			Code:    ErrCodeInsufficientFunds,
			Message: "insufficient funds",
		}
	}

	account.Balance = account.Balance.Sub(totalDebit)
	account.MovementCount++

	if err := accountRepo.Update(ctx, account); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to update account: %v", err),
		}
	}

	txn := &models.Transaction{
		ID:            uuid.New(),
		AccountNumber: account.Number,
		Type:          models.TransactionTypeWithdrawal,
		Amount:        req.Amount.Neg(),
		Description:   descriptionOrDefault(req.Description, defaultWithdrawalDescription),
		CreatedAt:     time.Now(),
	}

	if err := transactionRepo.Create(ctx, txn); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to record transaction: %v", err),
		}
	}

	return &MovementResult{
		TransactionID: txn.ID,
		AccountNumber: account.Number,
		NewBalance:    account.Balance,
		Commission:    commission,
	}, nil
}
