// Package bus implements the asynchronous validation channel over Redis
// streams. Inbound validation requests are consumed from a consumer group
// and acknowledged only after the full operation completes; outbound
// validation responses and account-opened events are appended to their own
// streams.
package bus

import "github.com/shopspring/decimal"

// Transaction types accepted on the validation request stream
const (
	EventTypeDeposit    = "DEPOSIT"
	EventTypeWithdrawal = "WITHDRAWAL"
	EventTypeTransfer   = "TRANSFER"
)

// ValidationRequest is an inbound request to apply a movement
type ValidationRequest struct {
	TransactionID       string          `json:"transactionId"`
	AccountNumber       string          `json:"accountNumber"`
	TargetAccountNumber string          `json:"targetAccountNumber,omitempty"`
	TransactionType     string          `json:"transactionType"`
	Description         string          `json:"description,omitempty"`
	Amount              decimal.Decimal `json:"amount"`
}

// ValidationResponse is the outbound result of a validation request
type ValidationResponse struct {
	TransactionID   string `json:"transactionId"`
	AccountNumber   string `json:"accountNumber"`
	MessageResponse string `json:"messageResponse"`
	CodResponse     int    `json:"codResponse"`
}

// AccountOpenedEvent announces a newly opened account
type AccountOpenedEvent struct {
	AccountNumber  string          `json:"accountNumber"`
	OwnerID        string          `json:"ownerId"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}
