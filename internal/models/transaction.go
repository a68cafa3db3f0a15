package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of movement a record documents
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

// Transaction is an immutable ledger record for one applied movement leg.
// Amount is signed: positive for credits, negative for debits. A transfer
// produces two records with opposite signs, one per account.
type Transaction struct {
	CreatedAt     time.Time       `db:"created_at"`
	AccountNumber string          `db:"account_number"`
	Type          TransactionType `db:"transaction_type"`
	Description   string          `db:"description"`
	Amount        decimal.Decimal `db:"amount"`
	ID            uuid.UUID       `db:"id"`
}

// IdempotencyKey tracks processed requests to prevent duplicate application.
// The same table backs the HTTP Idempotency-Key middleware and the bus
// consumer's dedup-by-transaction-id check.
type IdempotencyKey struct {
	CreatedAt      time.Time `db:"created_at"`
	Key            string    `db:"key"`
	RequestPath    string    `db:"request_path"`
	ResponseBody   string    `db:"response_body"`
	ResponseStatus int       `db:"response_status"`
}
