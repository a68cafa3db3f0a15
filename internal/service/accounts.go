package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/acmebank/account-service/internal/customer"
	"github.com/acmebank/account-service/internal/db"
	"github.com/acmebank/account-service/internal/models"
	"github.com/acmebank/account-service/internal/repository"
	"github.com/google/uuid"
)

// AccountService handles account opening and administrative lookups. It is
// not part of the movement engine: eligibility is a one-shot validation at
// creation time.
type AccountService struct {
	db        *db.DB
	customers customer.Lookup
	publisher EventPublisher
	logger    *slog.Logger
}

// NewAccountService creates a new AccountService. publisher may be nil when
// the bus is disabled.
func NewAccountService(
	database *db.DB,
	customers customer.Lookup,
	publisher EventPublisher,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		db:        database,
		customers: customers,
		publisher: publisher,
		logger:    logger,
	}
}

// Create opens a new account after resolving the customer and applying the
// eligibility rules for their customer type
func (s *AccountService) Create(ctx context.Context, req CreateAccountRequest) (*models.Account, error) {
	if err := ValidateAccountNumber(req.AccountNumber); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidAccountNumber, Message: err.Error()}
	}

	cust, err := s.customers.GetByDocument(ctx, req.CustomerDocument)
	if errors.Is(err, customer.ErrNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodeCustomerNotFound,
			Message: "customer not found",
		}
	}
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to resolve customer: %v", err),
		}
	}

	if req.InitialBalance.LessThan(req.MinimumOpeningAmount) {
		return nil, &ServiceError{
			Code:    ErrCodeMinimumOpeningBalance,
			Message: "initial balance below minimum opening amount",
		}
	}

	if !accountTypeAllowed(cust.Type, req.AccountType) {
		return nil, &ServiceError{
			Code:    ErrCodeAccountTypeNotAllowed,
			Message: "account type not allowed for this customer type",
		}
	}

	accountRepo := repository.NewAccountRepository(s.db)

	if err := s.checkPersonalAccountLimit(ctx, accountRepo, cust, req.AccountType); err != nil {
		return nil, err
	}

	now := time.Now()
	account := &models.Account{
		ID:            uuid.New(),
		Number:        req.AccountNumber,
		Type:          req.AccountType,
		OwnerID:       cust.ID,
		Balance:       req.InitialBalance,
		MovementCount: 0,
		Status:        models.AccountStatusActive,
		Version:       0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, models.ErrDuplicateKey) {
			return nil, &ServiceError{
				Code:    ErrCodeAccountAlreadyExists,
				Message: "account number already in use",
			}
		}
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to create account: %v", err),
		}
	}

	if s.publisher != nil {
		// Best effort: a failed event does not undo the opened account
		if err := s.publisher.PublishAccountOpened(ctx, account.Number, account.OwnerID, account.Balance); err != nil {
			s.logger.Error("failed to publish account-opened event",
				"account_number", account.Number,
				"error", err,
			)
		}
	}

	return account, nil
}

// checkPersonalAccountLimit enforces one account per type for PERSONAL
// customers; FIXED_TERM accounts are exempt.
func (s *AccountService) checkPersonalAccountLimit(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	cust *customer.Customer,
	accountType models.AccountType,
) error {
	if !strings.EqualFold(cust.Type, "PERSONAL") || accountType == models.AccountTypeFixedTerm {
		return nil
	}

	existing, err := accountRepo.FindByOwner(ctx, cust.ID)
	if err != nil {
		return &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to list customer accounts: %v", err),
		}
	}

	for _, acc := range existing {
		if acc.Type == accountType {
			return &ServiceError{
				Code:    ErrCodeAccountAlreadyExists,
				Message: "customer already has this account type",
			}
		}
	}

	return nil
}

// List returns every account
func (s *AccountService) List(ctx context.Context) ([]*models.Account, error) {
	accounts, err := repository.NewAccountRepository(s.db).FindAll(ctx)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to list accounts: %v", err),
		}
	}
	return accounts, nil
}

// Get returns an account by id
func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	account, err := repository.NewAccountRepository(s.db).FindByID(ctx, id)
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
	return account, nil
}

// GetByNumber returns an account by its account number
func (s *AccountService) GetByNumber(ctx context.Context, number string) (*models.Account, error) {
	account, err := repository.NewAccountRepository(s.db).FindByNumber(ctx, number)
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
	return account, nil
}

// Delete removes an account. Administrative operation outside the movement
// engine.
func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.NewAccountRepository(s.db).Delete(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: "account not found",
		}
	}
	if err != nil {
		return &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("failed to delete account: %v", err),
		}
	}
	return nil
}

// accountTypeAllowed applies the customer-type/account-type allow-list
func accountTypeAllowed(customerType string, accountType models.AccountType) bool {
	switch strings.ToUpper(customerType) {
	case "PERSONAL":
		return accountType == models.AccountTypeSavings ||
			accountType == models.AccountTypeCurrent ||
			accountType == models.AccountTypeFixedTerm
	case "BUSINESS", "PYME":
		return accountType == models.AccountTypeCurrent
	case "VIP":
		return accountType == models.AccountTypeSavings ||
			accountType == models.AccountTypeCurrent
	default:
		return false
	}
}
