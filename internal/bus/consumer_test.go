package bus

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/acmebank/account-service/internal/config"
	"github.com/acmebank/account-service/internal/metrics"
	"github.com/acmebank/account-service/internal/models"
	repomocks "github.com/acmebank/account-service/internal/repository/mocks"
	"github.com/acmebank/account-service/internal/service"
	svcmocks "github.com/acmebank/account-service/internal/service/mocks"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	responses []ValidationResponse
}

func (p *capturePublisher) PublishValidationResponse(_ context.Context, resp ValidationResponse) error {
	p.responses = append(p.responses, resp)
	return nil
}

func testBusConfig() config.BusConfig {
	return config.BusConfig{
		RequestStream:  "account-validation-request",
		ResponseStream: "account-validation-response",
		ConsumerGroup:  "account-service",
		ConsumerName:   "account-service-1",
	}
}

func testConsumerLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConsumer_Apply(t *testing.T) {
	t.Run("deposit applied", func(t *testing.T) {
		deposits := svcmocks.NewMockDepositor(t)
		consumer := NewConsumer(nil, testBusConfig(), deposits, nil, nil, nil, nil, metrics.NewCollector(), testConsumerLogger())

		deposits.On("Deposit", mock.Anything, mock.MatchedBy(func(req service.DepositRequest) bool {
			return req.AccountNumber == "ACC-1" && req.Amount.Equal(decimal.RequireFromString("100.00"))
		})).Return(&service.MovementResult{
			AccountNumber: "ACC-1",
			NewBalance:    decimal.RequireFromString("150.00"),
			Commission:    decimal.Zero,
			TransactionID: uuid.New(),
		}, nil)

		resp := consumer.apply(context.Background(), ValidationRequest{
			TransactionID:   "txn-1",
			AccountNumber:   "ACC-1",
			TransactionType: EventTypeDeposit,
			Amount:          decimal.RequireFromString("100.00"),
		})

		assert.Equal(t, http.StatusOK, resp.CodResponse)
		assert.Equal(t, "deposit applied", resp.MessageResponse)
		assert.Equal(t, "txn-1", resp.TransactionID)
		assert.Equal(t, "ACC-1", resp.AccountNumber)
	})

	t.Run("withdrawal with commission", func(t *testing.T) {
		withdrawals := svcmocks.NewMockWithdrawer(t)
		consumer := NewConsumer(nil, testBusConfig(), nil, withdrawals, nil, nil, nil, metrics.NewCollector(), testConsumerLogger())

		withdrawals.On("Withdraw", mock.Anything, mock.Anything).Return(&service.MovementResult{
			AccountNumber: "ACC-1",
			NewBalance:    decimal.RequireFromString("68.50"),
			Commission:    decimal.RequireFromString("1.50"),
			TransactionID: uuid.New(),
		}, nil)

		resp := consumer.apply(context.Background(), ValidationRequest{
			TransactionID:   "txn-2",
			AccountNumber:   "ACC-1",
			TransactionType: EventTypeWithdrawal,
			Amount:          decimal.RequireFromString("30.00"),
		})

		assert.Equal(t, http.StatusOK, resp.CodResponse)
		assert.Equal(t, "withdrawal applied, commission 1.50", resp.MessageResponse)
	})

	t.Run("transfer routed with target account", func(t *testing.T) {
		transfers := svcmocks.NewMockTransferrer(t)
		consumer := NewConsumer(nil, testBusConfig(), nil, nil, transfers, nil, nil, metrics.NewCollector(), testConsumerLogger())

		transfers.On("Transfer", mock.Anything, mock.MatchedBy(func(req service.TransferRequest) bool {
			return req.SourceAccountNumber == "ACC-1" && req.TargetAccountNumber == "ACC-2"
		})).Return(&service.MovementResult{
			AccountNumber: "ACC-1",
			NewBalance:    decimal.RequireFromString("75.00"),
			Commission:    decimal.Zero,
			TransactionID: uuid.New(),
		}, nil)

		resp := consumer.apply(context.Background(), ValidationRequest{
			TransactionID:       "txn-3",
			AccountNumber:       "ACC-1",
			TargetAccountNumber: "ACC-2",
			TransactionType:     EventTypeTransfer,
			Amount:              decimal.RequireFromString("25.00"),
		})

		assert.Equal(t, http.StatusOK, resp.CodResponse)
		assert.Equal(t, "transfer applied", resp.MessageResponse)
	})

	t.Run("service rejection mapped to response code", func(t *testing.T) {
		deposits := svcmocks.NewMockDepositor(t)
		consumer := NewConsumer(nil, testBusConfig(), deposits, nil, nil, nil, nil, metrics.NewCollector(), testConsumerLogger())

		deposits.On("Deposit", mock.Anything, mock.Anything).
			Return(nil, &service.ServiceError{
				Code:    service.ErrCodeMovementLimitExceeded,
				Message: "savings account reached the maximum of 10 monthly movements",
			})

		resp := consumer.apply(context.Background(), ValidationRequest{
			TransactionID:   "txn-4",
			AccountNumber:   "ACC-2",
			TransactionType: EventTypeDeposit,
			Amount:          decimal.RequireFromString("10.00"),
		})

		assert.Equal(t, http.StatusBadRequest, resp.CodResponse)
		assert.Equal(t, "savings account reached the maximum of 10 monthly movements", resp.MessageResponse)
	})

	t.Run("unknown transaction type rejected", func(t *testing.T) {
		consumer := NewConsumer(nil, testBusConfig(), nil, nil, nil, nil, nil, metrics.NewCollector(), testConsumerLogger())

		resp := consumer.apply(context.Background(), ValidationRequest{
			TransactionID:   "txn-5",
			AccountNumber:   "ACC-1",
			TransactionType: "REVERSAL",
			Amount:          decimal.RequireFromString("10.00"),
		})

		assert.Equal(t, http.StatusBadRequest, resp.CodResponse)
		assert.Contains(t, resp.MessageResponse, "REVERSAL")
	})
}

func TestConsumer_ProcessPayload(t *testing.T) {
	t.Run("fresh request applied and response published", func(t *testing.T) {
		deposits := svcmocks.NewMockDepositor(t)
		dedup := repomocks.NewMockIdempotencyRepository(t)
		publisher := &capturePublisher{}
		consumer := NewConsumer(nil, testBusConfig(), deposits, nil, nil, dedup, publisher, metrics.NewCollector(), testConsumerLogger())

		dedup.On("Get", mock.Anything, "txn-10", "bus:account-validation-request").Return(nil, nil)
		dedup.On("Store", mock.Anything, mock.AnythingOfType("*models.IdempotencyKey")).Return(nil)
		deposits.On("Deposit", mock.Anything, mock.Anything).Return(&service.MovementResult{
			AccountNumber: "ACC-1",
			NewBalance:    decimal.RequireFromString("150.00"),
			Commission:    decimal.Zero,
			TransactionID: uuid.New(),
		}, nil)

		payload, err := json.Marshal(ValidationRequest{
			TransactionID:   "txn-10",
			AccountNumber:   "ACC-1",
			TransactionType: EventTypeDeposit,
			Amount:          decimal.RequireFromString("100.00"),
		})
		require.NoError(t, err)

		consumer.processPayload(context.Background(), string(payload))

		require.Len(t, publisher.responses, 1)
		assert.Equal(t, http.StatusOK, publisher.responses[0].CodResponse)
		assert.Equal(t, "txn-10", publisher.responses[0].TransactionID)
	})

	t.Run("duplicate delivery replays the stored response", func(t *testing.T) {
		deposits := svcmocks.NewMockDepositor(t)
		dedup := repomocks.NewMockIdempotencyRepository(t)
		publisher := &capturePublisher{}
		consumer := NewConsumer(nil, testBusConfig(), deposits, nil, nil, dedup, publisher, metrics.NewCollector(), testConsumerLogger())

		storedResp := ValidationResponse{
			TransactionID:   "txn-11",
			AccountNumber:   "ACC-1",
			CodResponse:     http.StatusOK,
			MessageResponse: "deposit applied",
		}
		storedBody, err := json.Marshal(storedResp)
		require.NoError(t, err)

		dedup.On("Get", mock.Anything, "txn-11", "bus:account-validation-request").
			Return(&models.IdempotencyKey{
				Key:            "txn-11",
				RequestPath:    "bus:account-validation-request",
				ResponseStatus: http.StatusOK,
				ResponseBody:   string(storedBody),
			}, nil)

		payload, err := json.Marshal(ValidationRequest{
			TransactionID:   "txn-11",
			AccountNumber:   "ACC-1",
			TransactionType: EventTypeDeposit,
			Amount:          decimal.RequireFromString("100.00"),
		})
		require.NoError(t, err)

		consumer.processPayload(context.Background(), string(payload))

		// The movement is not applied a second time
		deposits.AssertNotCalled(t, "Deposit")
		require.Len(t, publisher.responses, 1)
		assert.Equal(t, storedResp, publisher.responses[0])
	})

	t.Run("transient failure is not recorded for dedup", func(t *testing.T) {
		deposits := svcmocks.NewMockDepositor(t)
		dedup := repomocks.NewMockIdempotencyRepository(t)
		publisher := &capturePublisher{}
		consumer := NewConsumer(nil, testBusConfig(), deposits, nil, nil, dedup, publisher, metrics.NewCollector(), testConsumerLogger())

		dedup.On("Get", mock.Anything, "txn-12", "bus:account-validation-request").Return(nil, nil)
		deposits.On("Deposit", mock.Anything, mock.Anything).Return(nil, errors.New("db unavailable"))

		payload, err := json.Marshal(ValidationRequest{
			TransactionID:   "txn-12",
			AccountNumber:   "ACC-1",
			TransactionType: EventTypeDeposit,
			Amount:          decimal.RequireFromString("100.00"),
		})
		require.NoError(t, err)

		consumer.processPayload(context.Background(), string(payload))

		// A redelivery must retry the movement instead of replaying the 500
		dedup.AssertNotCalled(t, "Store")
		require.Len(t, publisher.responses, 1)
		assert.Equal(t, http.StatusInternalServerError, publisher.responses[0].CodResponse)
	})

	t.Run("rejection is recorded for dedup", func(t *testing.T) {
		deposits := svcmocks.NewMockDepositor(t)
		dedup := repomocks.NewMockIdempotencyRepository(t)
		publisher := &capturePublisher{}
		consumer := NewConsumer(nil, testBusConfig(), deposits, nil, nil, dedup, publisher, metrics.NewCollector(), testConsumerLogger())

		dedup.On("Get", mock.Anything, "txn-13", "bus:account-validation-request").Return(nil, nil)
		dedup.On("Store", mock.Anything, mock.MatchedBy(func(record *models.IdempotencyKey) bool {
			return record.Key == "txn-13" && record.ResponseStatus == http.StatusBadRequest
		})).Return(nil)
		deposits.On("Deposit", mock.Anything, mock.Anything).Return(nil, &service.ServiceError{
			Code:    service.ErrCodeMovementLimitExceeded,
			Message: "savings account reached the maximum of 10 monthly movements",
		})

		payload, err := json.Marshal(ValidationRequest{
			TransactionID:   "txn-13",
			AccountNumber:   "ACC-1",
			TransactionType: EventTypeDeposit,
			Amount:          decimal.RequireFromString("100.00"),
		})
		require.NoError(t, err)

		consumer.processPayload(context.Background(), string(payload))

		require.Len(t, publisher.responses, 1)
		assert.Equal(t, http.StatusBadRequest, publisher.responses[0].CodResponse)
	})

	t.Run("malformed payload publishes nothing", func(t *testing.T) {
		publisher := &capturePublisher{}
		consumer := NewConsumer(nil, testBusConfig(), nil, nil, nil, nil, publisher, metrics.NewCollector(), testConsumerLogger())

		consumer.processPayload(context.Background(), "{not json")

		assert.Empty(t, publisher.responses)
	})
}
