package handlers

import (
	"net/http"
)

// ListTransactions handles GET /accounts/transactions/{accountNumber}
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountNumber := r.PathValue("accountNumber")
	if accountNumber == "" {
		h.respondBadRequest(w, "account number is required")
		return
	}

	transactions, err := h.transactionLister.ListByAccount(r.Context(), accountNumber)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	items := make([]transactionItem, 0, len(transactions))
	for _, txn := range transactions {
		items = append(items, toTransactionItem(txn))
	}

	h.writeJSON(w, http.StatusOK, transactionListResponse{Data: items})
}
