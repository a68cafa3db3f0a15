package handlers

import (
	"net/http"

	"github.com/acmebank/account-service/internal/service"
	"github.com/shopspring/decimal"
)

type depositRequest struct {
	NumberAccount string          `json:"numberAccount"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
}

// Deposit handles POST /accounts/deposit
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondBadRequest(w, err.Error())
		return
	}

	result, err := h.depositService.Deposit(r.Context(), service.DepositRequest{
		AccountNumber: req.NumberAccount,
		Amount:        req.Amount,
		Description:   req.Description,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondMovement(w, result, "Deposit")
}
