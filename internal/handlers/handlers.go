// Package handlers implements HTTP handlers for the account service.
package handlers

import (
	"log/slog"

	"github.com/acmebank/account-service/internal/service"
)

// Handler holds the service dependencies for all endpoints
type Handler struct {
	depositService    service.Depositor
	withdrawalService service.Withdrawer
	transferService   service.Transferrer
	transactionLister service.TransactionLister
	accountService    service.AccountManager
	healthChecker     service.HealthChecker
	logger            *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	depositService service.Depositor,
	withdrawalService service.Withdrawer,
	transferService service.Transferrer,
	transactionLister service.TransactionLister,
	accountService service.AccountManager,
	healthChecker service.HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		depositService:    depositService,
		withdrawalService: withdrawalService,
		transferService:   transferService,
		transactionLister: transactionLister,
		accountService:    accountService,
		healthChecker:     healthChecker,
		logger:            logger,
	}
}
