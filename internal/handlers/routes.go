package handlers

import (
	"log/slog"
	"net/http"

	"github.com/acmebank/account-service/internal/config"
	"github.com/acmebank/account-service/internal/customer"
	"github.com/acmebank/account-service/internal/db"
	"github.com/acmebank/account-service/internal/metrics"
	"github.com/acmebank/account-service/internal/middleware"
	"github.com/acmebank/account-service/internal/repository"
	"github.com/acmebank/account-service/internal/service"
)

// NewRouter creates and configures the HTTP router with all routes and middleware.
// publisher may be nil when the bus is disabled.
func NewRouter(
	database *db.DB,
	cfg *config.Config,
	customers customer.Lookup,
	publisher service.EventPublisher,
	collector *metrics.Collector,
	logger *slog.Logger,
) http.Handler {
	depositService := service.NewDepositService(database, collector)
	withdrawalService := service.NewWithdrawalService(database, collector)
	transferService := service.NewTransferService(database, collector, cfg.App.TransferTargetPolicy)
	transactionService := service.NewTransactionQueryService(database)
	accountService := service.NewAccountService(database, customers, publisher, logger)

	handler := NewHandler(
		depositService,
		withdrawalService,
		transferService,
		transactionService,
		accountService,
		database,
		logger,
	)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.GetHealth)
	mux.Handle("GET /metrics", collector.Handler())

	mux.HandleFunc("POST /accounts", handler.CreateAccount)
	mux.HandleFunc("GET /accounts", handler.ListAccounts)
	mux.HandleFunc("GET /accounts/{id}", handler.GetAccount)
	mux.HandleFunc("GET /accounts/number/{number}", handler.GetAccountByNumber)
	mux.HandleFunc("DELETE /accounts/{id}", handler.DeleteAccount)

	mux.HandleFunc("POST /accounts/deposit", handler.Deposit)
	mux.HandleFunc("POST /accounts/withdraw", handler.Withdraw)
	mux.HandleFunc("POST /accounts/transfer", handler.Transfer)
	mux.HandleFunc("GET /accounts/transactions/{accountNumber}", handler.ListTransactions)

	var finalHandler http.Handler = mux

	idempotencyRepo := repository.NewIdempotencyRepository(database)
	finalHandler = middleware.Idempotency(idempotencyRepo, logger)(finalHandler)

	finalHandler = middleware.RequestLogging(logger)(finalHandler)

	return finalHandler
}
