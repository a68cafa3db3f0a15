package service

import (
	"context"
	"fmt"

	"github.com/acmebank/account-service/internal/db"
	"github.com/acmebank/account-service/internal/models"
	"github.com/acmebank/account-service/internal/repository"
)

// TransactionQueryService reads the transaction log
type TransactionQueryService struct {
	db *db.DB
}

// NewTransactionQueryService creates a new TransactionQueryService
func NewTransactionQueryService(database *db.DB) *TransactionQueryService {
	return &TransactionQueryService{db: database}
}

// ListByAccount returns all transaction records for an account, newest first
func (s *TransactionQueryService) ListByAccount(ctx context.Context, accountNumber string) ([]*models.Transaction, error) {
	if err := ValidateAccountNumber(accountNumber); err != nil {
		return nil, &ServiceError{Code: ErrCodeAccountNotFound, Message: err.Error()}
	}

	repo := repository.NewTransactionRepository(s.db)
	transactions, err := repo.FindByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to list transactions: %v", err),
		}
	}

	return transactions, nil
}
