package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType classifies an account for movement-limit and commission rules
type AccountType string

const (
	AccountTypeSavings   AccountType = "SAVINGS"
	AccountTypeCurrent   AccountType = "CURRENT"
	AccountTypeFixedTerm AccountType = "FIXED_TERM"
)

// AccountStatus represents the lifecycle state of an account
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
	AccountStatusBlocked  AccountStatus = "BLOCKED"
)

// Account represents a bank account with its balance and movement counter.
// Number is externally generated and immutable after creation. Version is
// bumped on every update and checked on write.
type Account struct {
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
	Number        string          `db:"account_number"`
	OwnerID       string          `db:"owner_id"`
	Type          AccountType     `db:"account_type"`
	Status        AccountStatus   `db:"status"`
	Balance       decimal.Decimal `db:"balance"`
	MovementCount int             `db:"movement_count"`
	Version       int64           `db:"version"`
	ID            uuid.UUID       `db:"id"`
}

// IsActive reports whether the account may be mutated
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}
