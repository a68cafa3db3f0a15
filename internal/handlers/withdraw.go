package handlers

import (
	"net/http"

	"github.com/acmebank/account-service/internal/service"
	"github.com/shopspring/decimal"
)

type withdrawalRequest struct {
	NumberAccount string          `json:"numberAccount"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
}

// Withdraw handles POST /accounts/withdraw
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondBadRequest(w, err.Error())
		return
	}

	result, err := h.withdrawalService.Withdraw(r.Context(), service.WithdrawalRequest{
		AccountNumber: req.NumberAccount,
		Amount:        req.Amount,
		Description:   req.Description,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondMovement(w, result, "Withdrawal")
}
