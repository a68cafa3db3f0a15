package service

import (
	"context"

	"github.com/acmebank/account-service/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Depositor handles deposit operations
type Depositor interface {
	Deposit(ctx context.Context, req DepositRequest) (*MovementResult, error)
}

// Withdrawer handles withdrawal operations
type Withdrawer interface {
	Withdraw(ctx context.Context, req WithdrawalRequest) (*MovementResult, error)
}

// Transferrer handles two-account transfer operations
type Transferrer interface {
	Transfer(ctx context.Context, req TransferRequest) (*MovementResult, error)
}

// TransactionLister queries the transaction log
type TransactionLister interface {
	ListByAccount(ctx context.Context, accountNumber string) ([]*models.Transaction, error)
}

// AccountManager handles account creation and administrative lookups
type AccountManager interface {
	Create(ctx context.Context, req CreateAccountRequest) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByNumber(ctx context.Context, number string) (*models.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EventPublisher emits outbound domain events on the message bus
type EventPublisher interface {
	PublishAccountOpened(ctx context.Context, accountNumber, ownerID string, initialBalance decimal.Decimal) error
}

// DepositRequest describes a requested deposit
type DepositRequest struct {
	AccountNumber string
	Description   string
	Amount        decimal.Decimal
}

// WithdrawalRequest describes a requested withdrawal
type WithdrawalRequest struct {
	AccountNumber string
	Description   string
	Amount        decimal.Decimal
}

// TransferRequest describes a requested transfer between two accounts
type TransferRequest struct {
	SourceAccountNumber string
	TargetAccountNumber string
	Description         string
	Amount              decimal.Decimal
}

// CreateAccountRequest describes a requested account opening. The account
// number is externally generated and immutable afterwards.
type CreateAccountRequest struct {
	CustomerDocument     string
	AccountNumber        string
	AccountType          models.AccountType
	InitialBalance       decimal.Decimal
	MinimumOpeningAmount decimal.Decimal
}

// MovementResult is the outcome of a successfully applied movement
type MovementResult struct {
	AccountNumber string
	NewBalance    decimal.Decimal
	Commission    decimal.Decimal
	TransactionID uuid.UUID
}

// Ensure concrete types implement interfaces
var (
	_ Depositor         = (*DepositService)(nil)
	_ Withdrawer        = (*WithdrawalService)(nil)
	_ Transferrer       = (*TransferService)(nil)
	_ TransactionLister = (*TransactionQueryService)(nil)
	_ AccountManager    = (*AccountService)(nil)
)
