package handlers

import (
	"net/http"

	"github.com/acmebank/account-service/internal/service"
	"github.com/shopspring/decimal"
)

type transferRequest struct {
	SourceNumberAccount string          `json:"sourceNumberAccount"`
	TargetNumberAccount string          `json:"targetNumberAccount"`
	Description         string          `json:"description"`
	Amount              decimal.Decimal `json:"amount"`
}

// Transfer handles POST /accounts/transfer
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondBadRequest(w, err.Error())
		return
	}

	result, err := h.transferService.Transfer(r.Context(), service.TransferRequest{
		SourceAccountNumber: req.SourceNumberAccount,
		TargetAccountNumber: req.TargetNumberAccount,
		Amount:              req.Amount,
		Description:         req.Description,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondMovement(w, result, "Transfer")
}
