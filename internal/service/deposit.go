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

const defaultDepositDescription = "Cash deposit"

// DepositService applies deposits to accounts
type DepositService struct {
	db      *db.DB
	metrics *metrics.Collector
}

// NewDepositService creates a new DepositService
func NewDepositService(database *db.DB, collector *metrics.Collector) *DepositService {
	return &DepositService{
		db:      database,
		metrics: collector,
	}
}

// Deposit credits an account with the net amount after commission and
// appends a DEPOSIT record with the gross amount. The account write and the
// record append share one database transaction.
func (s *DepositService) Deposit(ctx context.Context, req DepositRequest) (*MovementResult, error) {
	start := time.Now()
	result, err := s.deposit(ctx, req)
	s.metrics.RecordOperation("deposit", outcomeOf(err), time.Since(start))
	return result, err
}

func (s *DepositService) deposit(ctx context.Context, req DepositRequest) (*MovementResult, error) {
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

	result, err := s.performDeposit(ctx, txAccountRepo, txTransactionRepo, req)
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

// performDeposit contains the core deposit business logic
func (s *DepositService) performDeposit(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	req DepositRequest,
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

	// Commission is evaluated on the pre-increment count and deducted from
	// the credited amount; the ledger records the gross amount. A deposit
	// smaller than the commission would be a net debit, which the balance
	// constraint does not allow.
	commission := policy.Commission(account.Type, account.MovementCount)
	if req.Amount.LessThan(commission) {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidAmount,
			Message: "deposit amount does not cover the commission",
		}
	}
	account.Balance = account.Balance.Add(req.Amount.Sub(commission))
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
		Type:          models.TransactionTypeDeposit,
		Amount:        req.Amount,
		Description:   descriptionOrDefault(req.Description, defaultDepositDescription),
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

func descriptionOrDefault(description, fallback string) string {
	if description == "" {
		return fallback
	}
	return description
}

func outcomeOf(err error) string {
	if err == nil {
		return "applied"
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ErrCodeInternalError
}
