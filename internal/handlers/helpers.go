package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/acmebank/account-service/internal/models"
	"github.com/acmebank/account-service/internal/service"
	"github.com/shopspring/decimal"
)

// TransactionResponse is the fixed envelope for mutating endpoints
type TransactionResponse struct {
	CodResponse     int    `json:"codResponse"`
	MessageResponse string `json:"messageResponse"`
	CodEntity       string `json:"codEntity,omitempty"`
}

// transactionItem is the wire shape of one ledger record
type transactionItem struct {
	TransactionID   string          `json:"transactionId"`
	AccountNumber   string          `json:"accountNumber"`
	TransactionType string          `json:"transactionType"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transactionDate"`
}

type transactionListResponse struct {
	Data []transactionItem `json:"data"`
}

// accountItem is the wire shape of an account
type accountItem struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	AccountType   string          `json:"accountType"`
	OwnerID       string          `json:"ownerId"`
	Status        string          `json:"status"`
	Balance       decimal.Decimal `json:"balance"`
	MovementCount int             `json:"movementCount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type accountListResponse struct {
	Data []accountItem `json:"data"`
}

func toTransactionItem(txn *models.Transaction) transactionItem {
	return transactionItem{
		TransactionID:   txn.ID.String(),
		AccountNumber:   txn.AccountNumber,
		TransactionType: string(txn.Type),
		Description:     txn.Description,
		Amount:          txn.Amount,
		TransactionDate: txn.CreatedAt,
	}
}

func toAccountItem(account *models.Account) accountItem {
	return accountItem{
		ID:            account.ID.String(),
		AccountNumber: account.Number,
		AccountType:   string(account.Type),
		OwnerID:       account.OwnerID,
		Status:        string(account.Status),
		Balance:       account.Balance,
		MovementCount: account.MovementCount,
		CreatedAt:     account.CreatedAt,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// decodeJSON parses a request body, rejecting unknown garbage early
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (h *Handler) respondBadRequest(w http.ResponseWriter, message string) {
	h.writeJSON(w, http.StatusBadRequest, TransactionResponse{
		CodResponse:     http.StatusBadRequest,
		MessageResponse: message,
	})
}

// respondServiceError maps a service failure to the response envelope.
// Validation failures carry their own code and message; anything else is an
// opaque 500.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var svcErr *service.ServiceError
	if !errors.As(err, &svcErr) {
		h.logger.Error("unexpected error", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, TransactionResponse{
			CodResponse:     http.StatusInternalServerError,
			MessageResponse: "internal error",
		})
		return
	}

	status := service.StatusFor(svcErr.Code)
	if status == http.StatusInternalServerError {
		h.logger.Error("operation failed", "code", svcErr.Code, "error", svcErr)
		h.writeJSON(w, http.StatusInternalServerError, TransactionResponse{
			CodResponse:     http.StatusInternalServerError,
			MessageResponse: "internal error",
		})
		return
	}

	h.writeJSON(w, status, TransactionResponse{
		CodResponse:     status,
		MessageResponse: svcErr.Message,
	})
}

// respondMovement writes the success envelope for an applied movement
func (h *Handler) respondMovement(w http.ResponseWriter, result *service.MovementResult, operation string) {
	message := fmt.Sprintf("%s successful. New balance: %s", operation, result.NewBalance.StringFixed(2))
	if result.Commission.IsPositive() {
		message = fmt.Sprintf("%s (commission %s)", message, result.Commission.StringFixed(2))
	}

	h.writeJSON(w, http.StatusOK, TransactionResponse{
		CodResponse:     http.StatusOK,
		MessageResponse: message,
		CodEntity:       result.TransactionID.String(),
	})
}
