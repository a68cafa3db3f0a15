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

const defaultTransferDescription = "Account transfer"

// TransferService applies transfers between two accounts. The debit leg and
// the credit leg, together with both ledger records, commit as a single
// database transaction; a transfer is never observable half-applied.
//
// Rows are locked source-first, so two opposing concurrent transfers can
// deadlock; Postgres aborts one of them and the caller sees internal_error,
// which is safe to retry.
type TransferService struct {
	db           *db.DB
	metrics      *metrics.Collector
	targetPolicy bool
}

// NewTransferService creates a new TransferService. When targetPolicy is
// set, the movement-limit policy is also enforced on the target account.
func NewTransferService(database *db.DB, collector *metrics.Collector, targetPolicy bool) *TransferService {
	return &TransferService{
		db:           database,
		metrics:      collector,
		targetPolicy: targetPolicy,
	}
}

// Transfer moves funds from a source to a target account. The commission is
// charged to the source side only; the target is credited with the gross
// amount. Two TRANSFER records are appended, debit leg first.
func (s *TransferService) Transfer(ctx context.Context, req TransferRequest) (*MovementResult, error) {
	start := time.Now()
	result, err := s.transfer(ctx, req)
	s.metrics.RecordOperation("transfer", outcomeOf(err), time.Since(start))
	return result, err
}

func (s *TransferService) transfer(ctx context.Context, req TransferRequest) (*MovementResult, error) {
	if err := ValidateAmount(req.Amount); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidAmount, Message: err.Error()}
	}
	if err := ValidateAccountNumber(req.SourceAccountNumber); err != nil {
		return nil, &ServiceError{Code: ErrCodeAccountNotFound, Message: err.Error()}
	}
	if err := ValidateAccountNumber(req.TargetAccountNumber); err != nil {
		return nil, &ServiceError{Code: ErrCodeTargetAccountNotFound, Message: "target account invalid"}
	}
	if err := ValidateDifferentAccounts(req.SourceAccountNumber, req.TargetAccountNumber); err != nil {
		return nil, &ServiceError{Code: ErrCodeSameAccount, Message: err.Error()}
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

	result, err := s.performTransfer(ctx, txAccountRepo, txTransactionRepo, req)
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

// performTransfer contains the core transfer business logic. Source-side
// validations run before the target lookup, so a transfer rejected for an
// invalid target has mutated nothing.
func (s *TransferService) performTransfer(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	req TransferRequest,
) (*MovementResult, error) {
	source, err := accountRepo.FindByNumberForUpdate(ctx, req.SourceAccountNumber)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: "account not found",
		}
	}
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to load source account: %v", err),
		}
	}

	if !source.IsActive() {
		return nil, &ServiceError{
			Code:    ErrCodeAccountInactive,
			Message: "account is not active",
		}
	}

	if decision := policy.Evaluate(source.Type, source.MovementCount); !decision.Allowed {
		return nil, &ServiceError{
			Code:    ErrCodeMovementLimitExceeded,
			Message: decision.Reason,
		}
	}

	commission := policy.Commission(source.Type, source.MovementCount)
	totalDebit := req.Amount.Add(commission)

	if source.Balance.LessThan(totalDebit) {
		return nil, &ServiceError{
			Code:    ErrCodeInsufficientFunds,
			Message: "insufficient funds",
		}
	}

	target, err := accountRepo.FindByNumberForUpdate(ctx, req.TargetAccountNumber)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodeTargetAccountNotFound,
			Message: "target account invalid",
		}
	}
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to load target account: %v", err),
		}
	}

	if !target.IsActive() {
		return nil, &ServiceError{
			Code:    ErrCodeAccountInactive,
			Message: "target account is not active",
		}
	}

	if s.targetPolicy {
		if decision := policy.Evaluate(target.Type, target.MovementCount); !decision.Allowed {
			return nil, &ServiceError{
				Code:    ErrCodeMovementLimitExceeded,
				Message: "target " + decision.Reason,
			}
		}
	}

	source.Balance = source.Balance.Sub(totalDebit)
	source.MovementCount++
	target.Balance = target.Balance.Add(req.Amount)
	target.MovementCount++

	if err := accountRepo.Update(ctx, source); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to update source account: %v", err),
		}
	}
	if err := accountRepo.Update(ctx, target); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to update target account: %v", err),
		}
	}

	description := descriptionOrDefault(req.Description, defaultTransferDescription)
	now := time.Now()

	outTxn := &models.Transaction{
		ID:            uuid.New(),
		AccountNumber: source.Number,
		Type:          models.TransactionTypeTransfer,
		Amount:        req.Amount.Neg(),
		Description:   description,
		CreatedAt:     now,
	}
	inTxn := &models.Transaction{
		ID:            uuid.New(),
		AccountNumber: target.Number,
		Type:          models.TransactionTypeTransfer,
		Amount:        req.Amount,
		Description:   description,
		CreatedAt:     now,
	}

	if err := transactionRepo.Create(ctx, outTxn); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to record debit leg: %v", err),
		}
	}
	if err := transactionRepo.Create(ctx, inTxn); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to record credit leg: %v", err),
		}
	}

	return &MovementResult{
		TransactionID: outTxn.ID,
		AccountNumber: source.Number,
		NewBalance:    source.Balance,
		Commission:    commission,
	}, nil
}
