package handlers

import (
	"net/http"

	"github.com/acmebank/account-service/internal/models"
	"github.com/acmebank/account-service/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type createAccountRequest struct {
	CustomerDocument     string          `json:"customerDocument"`
	AccountNumber        string          `json:"accountNumber"`
	AccountType          string          `json:"accountType"`
	InitialBalance       decimal.Decimal `json:"initialBalance"`
	MinimumOpeningAmount decimal.Decimal `json:"minimumOpeningAmount"`
}

// CreateAccount handles POST /accounts
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondBadRequest(w, err.Error())
		return
	}

	account, err := h.accountService.Create(r.Context(), service.CreateAccountRequest{
		CustomerDocument:     req.CustomerDocument,
		AccountNumber:        req.AccountNumber,
		AccountType:          models.AccountType(req.AccountType),
		InitialBalance:       req.InitialBalance,
		MinimumOpeningAmount: req.MinimumOpeningAmount,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toAccountItem(account))
}

// ListAccounts handles GET /accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.List(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	items := make([]accountItem, 0, len(accounts))
	for _, account := range accounts {
		items = append(items, toAccountItem(account))
	}

	h.writeJSON(w, http.StatusOK, accountListResponse{Data: items})
}

// GetAccount handles GET /accounts/{id}
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondBadRequest(w, "invalid account id")
		return
	}

	account, err := h.accountService.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAccountItem(account))
}

// GetAccountByNumber handles GET /accounts/number/{number}
func (h *Handler) GetAccountByNumber(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")
	if number == "" {
		h.respondBadRequest(w, "account number is required")
		return
	}

	account, err := h.accountService.GetByNumber(r.Context(), number)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAccountItem(account))
}

// DeleteAccount handles DELETE /accounts/{id}
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondBadRequest(w, "invalid account id")
		return
	}

	if err := h.accountService.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
