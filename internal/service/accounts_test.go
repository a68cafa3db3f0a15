package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/acmebank/account-service/internal/customer"
	"github.com/acmebank/account-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stubLookup struct {
	customer *customer.Customer
	err      error
}

func (s *stubLookup) GetByDocument(_ context.Context, _ string) (*customer.Customer, error) {
	return s.customer, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAccountService_Create_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("empty account number", func(t *testing.T) {
		service := NewAccountService(nil, &stubLookup{}, nil, discardLogger())

		account, err := service.Create(ctx, CreateAccountRequest{
			CustomerDocument: "12345678",
			AccountNumber:    "",
			AccountType:      models.AccountTypeSavings,
		})

		assert.Error(t, err)
		assert.Nil(t, account)

		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeInvalidAccountNumber, svcErr.Code)
		}
	})

	t.Run("customer not found", func(t *testing.T) {
		service := NewAccountService(nil, &stubLookup{err: customer.ErrNotFound}, nil, discardLogger())

		account, err := service.Create(ctx, CreateAccountRequest{
			CustomerDocument: "12345678",
			AccountNumber:    "ACC-1",
			AccountType:      models.AccountTypeSavings,
		})

		assert.Error(t, err)
		assert.Nil(t, account)

		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeCustomerNotFound, svcErr.Code)
		}
	})

	t.Run("customer lookup failure", func(t *testing.T) {
		service := NewAccountService(nil, &stubLookup{err: errors.New("connection refused")}, nil, discardLogger())

		account, err := service.Create(ctx, CreateAccountRequest{
			CustomerDocument: "12345678",
			AccountNumber:    "ACC-1",
			AccountType:      models.AccountTypeSavings,
		})

		assert.Error(t, err)
		assert.Nil(t, account)

		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeInternalError, svcErr.Code)
		}
	})

	t.Run("initial balance below minimum", func(t *testing.T) {
		lookup := &stubLookup{customer: &customer.Customer{ID: "CUST-1", Type: "PERSONAL"}}
		service := NewAccountService(nil, lookup, nil, discardLogger())

		account, err := service.Create(ctx, CreateAccountRequest{
			CustomerDocument:     "12345678",
			AccountNumber:        "ACC-1",
			AccountType:          models.AccountTypeSavings,
			InitialBalance:       decimal.RequireFromString("50.00"),
			MinimumOpeningAmount: decimal.RequireFromString("100.00"),
		})

		assert.Error(t, err)
		assert.Nil(t, account)

		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeMinimumOpeningBalance, svcErr.Code)
		}
	})

	t.Run("account type not allowed for business customer", func(t *testing.T) {
		lookup := &stubLookup{customer: &customer.Customer{ID: "CUST-1", Type: "BUSINESS"}}
		service := NewAccountService(nil, lookup, nil, discardLogger())

		account, err := service.Create(ctx, CreateAccountRequest{
			CustomerDocument: "12345678",
			AccountNumber:    "ACC-1",
			AccountType:      models.AccountTypeSavings,
			InitialBalance:   decimal.RequireFromString("100.00"),
		})

		assert.Error(t, err)
		assert.Nil(t, account)

		var svcErr *ServiceError
		if assert.ErrorAs(t, err, &svcErr) {
			assert.Equal(t, ErrCodeAccountTypeNotAllowed, svcErr.Code)
		}
	})
}

func TestAccountTypeAllowed(t *testing.T) {
	tests := []struct {
		customerType string
		accountType  models.AccountType
		allowed      bool
	}{
		{"PERSONAL", models.AccountTypeSavings, true},
		{"PERSONAL", models.AccountTypeCurrent, true},
		{"PERSONAL", models.AccountTypeFixedTerm, true},
		{"BUSINESS", models.AccountTypeCurrent, true},
		{"BUSINESS", models.AccountTypeSavings, false},
		{"BUSINESS", models.AccountTypeFixedTerm, false},
		{"PYME", models.AccountTypeCurrent, true},
		{"PYME", models.AccountTypeSavings, false},
		{"VIP", models.AccountTypeSavings, true},
		{"VIP", models.AccountTypeCurrent, true},
		{"VIP", models.AccountTypeFixedTerm, false},
		{"personal", models.AccountTypeSavings, true},
		{"UNKNOWN", models.AccountTypeSavings, false},
	}

	for _, tt := range tests {
		t.Run(tt.customerType+"/"+string(tt.accountType), func(t *testing.T) {
			assert.Equal(t, tt.allowed, accountTypeAllowed(tt.customerType, tt.accountType))
		})
	}
}
