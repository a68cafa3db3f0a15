package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/acmebank/account-service/internal/service"
	"github.com/acmebank/account-service/internal/service/mocks"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) TransactionResponse {
	t.Helper()
	var resp TransactionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestDeposit_Success(t *testing.T) {
	mockDepositor := mocks.NewMockDepositor(t)
	handler := NewHandler(mockDepositor, nil, nil, nil, nil, nil, testLogger())

	txnID := uuid.New()
	mockDepositor.On("Deposit", mock.Anything, mock.MatchedBy(func(req service.DepositRequest) bool {
		return req.AccountNumber == "ACC-1" && req.Amount.Equal(decimal.RequireFromString("100.00"))
	})).Return(&service.MovementResult{
		AccountNumber: "ACC-1",
		NewBalance:    decimal.RequireFromString("150.00"),
		Commission:    decimal.Zero,
		TransactionID: txnID,
	}, nil)

	body := `{"numberAccount":"ACC-1","amount":100.00}`
	req := httptest.NewRequest(http.MethodPost, "/accounts/deposit", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Deposit(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusOK, resp.CodResponse)
	assert.Contains(t, resp.MessageResponse, "Deposit successful")
	assert.Contains(t, resp.MessageResponse, "150")
	assert.Equal(t, txnID.String(), resp.CodEntity)
}

func TestDeposit_CommissionInMessage(t *testing.T) {
	mockDepositor := mocks.NewMockDepositor(t)
	handler := NewHandler(mockDepositor, nil, nil, nil, nil, nil, testLogger())

	mockDepositor.On("Deposit", mock.Anything, mock.Anything).Return(&service.MovementResult{
		AccountNumber: "ACC-1",
		NewBalance:    decimal.RequireFromString("148.50"),
		Commission:    decimal.RequireFromString("1.50"),
		TransactionID: uuid.New(),
	}, nil)

	body := `{"numberAccount":"ACC-1","amount":100.00}`
	req := httptest.NewRequest(http.MethodPost, "/accounts/deposit", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Deposit(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Contains(t, resp.MessageResponse, "New balance: 148.50")
	assert.Contains(t, resp.MessageResponse, "(commission 1.50)")
}

func TestDeposit_ServiceErrors(t *testing.T) {
	tests := []struct {
		name           string
		serviceErr     *service.ServiceError
		expectedStatus int
	}{
		{
			name:           "account not found returns 404",
			serviceErr:     &service.ServiceError{Code: service.ErrCodeAccountNotFound, Message: "account not found"},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "movement limit returns 400",
			serviceErr:     &service.ServiceError{Code: service.ErrCodeMovementLimitExceeded, Message: "savings account reached the maximum of 10 monthly movements"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "internal error returns opaque 500",
			serviceErr:     &service.ServiceError{Code: service.ErrCodeInternalError, Message: "failed to commit transaction"},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDepositor := mocks.NewMockDepositor(t)
			handler := NewHandler(mockDepositor, nil, nil, nil, nil, nil, testLogger())

			mockDepositor.On("Deposit", mock.Anything, mock.Anything).Return(nil, tt.serviceErr)

			body := `{"numberAccount":"ACC-1","amount":10.00}`
			req := httptest.NewRequest(http.MethodPost, "/accounts/deposit", strings.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Deposit(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			resp := decodeEnvelope(t, rec)
			assert.Equal(t, tt.expectedStatus, resp.CodResponse)
			if tt.expectedStatus == http.StatusInternalServerError {
				// Internal details never reach the client
				assert.Equal(t, "internal error", resp.MessageResponse)
			} else {
				assert.Equal(t, tt.serviceErr.Message, resp.MessageResponse)
			}
		})
	}
}

func TestDeposit_MalformedBody(t *testing.T) {
	handler := NewHandler(nil, nil, nil, nil, nil, nil, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/accounts/deposit", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handler.Deposit(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusBadRequest, resp.CodResponse)
}
