package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/acmebank/account-service/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByNumber(ctx context.Context, number string) (*models.Account, error)
	FindByNumberForUpdate(ctx context.Context, number string) (*models.Account, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*models.Account, error)
	FindAll(ctx context.Context) ([]*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// accountRepository implements AccountRepository
type accountRepository struct {
	q Querier
}

// NewAccountRepository creates a new AccountRepository over a database or an
// open transaction
func NewAccountRepository(q Querier) AccountRepository {
	return &accountRepository{q: q}
}

const accountColumns = `id, account_number, account_type, owner_id, balance,
	       movement_count, status, version, created_at, updated_at`

func (r *accountRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.Number,
		&account.Type,
		&account.OwnerID,
		&account.Balance,
		&account.MovementCount,
		&account.Status,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return &account, nil
}

// FindByID retrieves an account by its UUID
func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.q.QueryRowContext(ctx, query, id))
}

// FindByNumber retrieves an account by its account number
func (r *accountRepository) FindByNumber(ctx context.Context, number string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return r.scanAccount(r.q.QueryRowContext(ctx, query, number))
}

// FindByNumberForUpdate retrieves an account by number and takes a row lock,
// serializing concurrent mutations of the same account for the lifetime of
// the surrounding transaction.
func (r *accountRepository) FindByNumberForUpdate(ctx context.Context, number string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1 FOR UPDATE`
	return r.scanAccount(r.q.QueryRowContext(ctx, query, number))
}

// FindByOwner retrieves all accounts belonging to a customer
func (r *accountRepository) FindByOwner(ctx context.Context, ownerID string) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY created_at`

	rows, err := r.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by owner: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	return collectAccounts(rows)
}

// FindAll retrieves every account
func (r *accountRepository) FindAll(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	return collectAccounts(rows)
}

func collectAccounts(rows *sql.Rows) ([]*models.Account, error) {
	accounts := []*models.Account{}
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(
			&account.ID,
			&account.Number,
			&account.Type,
			&account.OwnerID,
			&account.Balance,
			&account.MovementCount,
			&account.Status,
			&account.Version,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, &account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account rows: %w", err)
	}
	return accounts, nil
}

// Create inserts a new account
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, account_number, account_type, owner_id, balance,
		                      movement_count, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		account.ID,
		account.Number,
		account.Type,
		account.OwnerID,
		account.Balance,
		account.MovementCount,
		account.Status,
		account.Version,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// Update writes back balance, movement count, and status with a
// compare-and-swap on the version column. A concurrent writer having bumped
// the version since the read surfaces as ErrVersionConflict.
func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET balance = $2,
		    movement_count = $3,
		    status = $4,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $1 AND version = $5
	`

	result, err := r.q.ExecContext(ctx, query,
		account.ID,
		account.Balance,
		account.MovementCount,
		account.Status,
		account.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrVersionConflict
	}

	account.Version++
	return nil
}

// Delete removes an account. Administrative operation, never called by the
// transaction processor.
func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}
