package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/acmebank/account-service/internal/models"
	"github.com/lib/pq"
)

// TransactionRepository defines the interface for the append-only
// transaction log
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	FindByAccountNumber(ctx context.Context, accountNumber string) ([]*models.Transaction, error)
}

// transactionRepository implements TransactionRepository
type transactionRepository struct {
	q Querier
}

// NewTransactionRepository creates a new TransactionRepository over a
// database or an open transaction
func NewTransactionRepository(q Querier) TransactionRepository {
	return &transactionRepository{q: q}
}

// Create appends a transaction record. Records are never updated or deleted.
func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_number, transaction_type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		txn.ID,
		txn.AccountNumber,
		txn.Type,
		txn.Amount,
		txn.Description,
		txn.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// FindByAccountNumber retrieves all transaction records for an account,
// newest first
func (r *transactionRepository) FindByAccountNumber(ctx context.Context, accountNumber string) ([]*models.Transaction, error) {
	query := `
		SELECT id, account_number, transaction_type, amount, description, created_at
		FROM transactions
		WHERE account_number = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	transactions := []*models.Transaction{}
	for rows.Next() {
		var txn models.Transaction
		if err := rows.Scan(
			&txn.ID,
			&txn.AccountNumber,
			&txn.Type,
			&txn.Amount,
			&txn.Description,
			&txn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, &txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}

	return transactions, nil
}
