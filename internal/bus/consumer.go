package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/acmebank/account-service/internal/config"
	"github.com/acmebank/account-service/internal/metrics"
	"github.com/acmebank/account-service/internal/models"
	"github.com/acmebank/account-service/internal/repository"
	"github.com/acmebank/account-service/internal/service"
	"github.com/redis/rueidis"
)

// readBatchSize bounds how many entries one XREADGROUP call claims
const readBatchSize = 16

// ResponsePublisher emits validation responses for consumed requests
type ResponsePublisher interface {
	PublishValidationResponse(ctx context.Context, resp ValidationResponse) error
}

// Consumer reads validation requests from the request stream, applies them
// through the same services as the HTTP API, and publishes a response. The
// inbound entry is acknowledged only after the full sequence completes, so
// unacknowledged entries stay redeliverable across crashes; a dedup check on
// the transaction id keeps redelivery from double-applying a movement.
type Consumer struct {
	client      rueidis.Client
	cfg         config.BusConfig
	deposits    service.Depositor
	withdrawals service.Withdrawer
	transfers   service.Transferrer
	dedup       repository.IdempotencyRepository
	publisher   ResponsePublisher
	metrics     *metrics.Collector
	logger      *slog.Logger
}

// NewConsumer creates a Consumer
func NewConsumer(
	client rueidis.Client,
	cfg config.BusConfig,
	deposits service.Depositor,
	withdrawals service.Withdrawer,
	transfers service.Transferrer,
	dedup repository.IdempotencyRepository,
	publisher ResponsePublisher,
	collector *metrics.Collector,
	logger *slog.Logger,
) *Consumer {
	return &Consumer{
		client:      client,
		cfg:         cfg,
		deposits:    deposits,
		withdrawals: withdrawals,
		transfers:   transfers,
		dedup:       dedup,
		publisher:   publisher,
		metrics:     collector,
		logger:      logger,
	}
}

// Run consumes the request stream until ctx is cancelled
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}

	c.logger.Info("bus consumer started",
		"stream", c.cfg.RequestStream,
		"group", c.cfg.ConsumerGroup,
		"consumer", c.cfg.ConsumerName,
	)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("bus consumer stopping")
			return nil
		default:
		}

		if err := c.readBatch(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("failed to read from request stream", "error", err)
			time.Sleep(time.Second)
		}
	}
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
	cmd := c.client.B().XgroupCreate().
		Key(c.cfg.RequestStream).
		Group(c.cfg.ConsumerGroup).
		Id("$").
		Mkstream().
		Build()

	err := c.client.Do(ctx, cmd).Error()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

func (c *Consumer) readBatch(ctx context.Context) error {
	cmd := c.client.B().Xreadgroup().
		Group(c.cfg.ConsumerGroup, c.cfg.ConsumerName).
		Count(readBatchSize).
		Block(c.cfg.BlockTimeout.Milliseconds()).
		Streams().
		Key(c.cfg.RequestStream).
		Id(">").
		Build()

	streams, err := c.client.Do(ctx, cmd).AsXRead()
	if rueidis.IsRedisNil(err) {
		return nil // block timeout, nothing pending
	}
	if err != nil {
		return err
	}

	for _, entries := range streams {
		for _, entry := range entries {
			c.handleEntry(ctx, entry)
		}
	}
	return nil
}

func (c *Consumer) handleEntry(ctx context.Context, entry rueidis.XRangeEntry) {
	c.processPayload(ctx, entry.FieldValues[payloadField])

	ackCmd := c.client.B().Xack().
		Key(c.cfg.RequestStream).
		Group(c.cfg.ConsumerGroup).
		Id(entry.ID).
		Build()
	if err := c.client.Do(ctx, ackCmd).Error(); err != nil {
		c.logger.Error("failed to ack entry", "entry_id", entry.ID, "error", err)
	}
}

func (c *Consumer) processPayload(ctx context.Context, payload string) {
	var req ValidationRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		// Malformed entries carry no transaction id to respond to
		c.logger.Error("discarding malformed validation request", "error", err)
		c.metrics.RecordBusMessage("malformed")
		return
	}

	logger := c.logger.With(
		"transaction_id", req.TransactionID,
		"account_number", req.AccountNumber,
		"transaction_type", req.TransactionType,
	)
	logger.Info("validation request received")

	dedupPath := "bus:" + c.cfg.RequestStream

	if cached, err := c.dedup.Get(ctx, req.TransactionID, dedupPath); err != nil {
		logger.Error("failed to check dedup store", "error", err)
	} else if cached != nil {
		// Redelivery of an already-applied movement: republish the stored
		// response instead of applying again
		logger.Warn("duplicate delivery, replaying stored response")
		c.metrics.RecordBusMessage("duplicate")
		c.replayResponse(ctx, req, cached, logger)
		return
	}

	resp := c.apply(ctx, req)

	// Only terminal outcomes are recorded: a 500 means the movement may not
	// have been applied, and redelivery must retry it rather than replay the
	// failure. The record also lands after the movement's own transaction
	// commits, so a crash between the two re-applies on redelivery.
	if shouldRecordResponse(resp.CodResponse) {
		if body, err := json.Marshal(resp); err == nil {
			record := &models.IdempotencyKey{
				Key:            req.TransactionID,
				RequestPath:    dedupPath,
				ResponseStatus: resp.CodResponse,
				ResponseBody:   string(body),
				CreatedAt:      time.Now(),
			}
			if err := c.dedup.Store(ctx, record); err != nil && !errors.Is(err, models.ErrDuplicateKey) {
				logger.Error("failed to store dedup record", "error", err)
			}
		}
	}

	if err := c.publisher.PublishValidationResponse(ctx, resp); err != nil {
		logger.Error("failed to publish validation response", "error", err)
	}

	if resp.CodResponse == http.StatusOK {
		c.metrics.RecordBusMessage("processed")
		logger.Info("validation request processed")
	} else {
		c.metrics.RecordBusMessage("rejected")
		logger.Warn("validation request rejected", "cod_response", resp.CodResponse, "message", resp.MessageResponse)
	}
}

func shouldRecordResponse(codResponse int) bool {
	return codResponse < http.StatusInternalServerError
}

func (c *Consumer) replayResponse(ctx context.Context, req ValidationRequest, cached *models.IdempotencyKey, logger *slog.Logger) {
	var resp ValidationResponse
	if err := json.Unmarshal([]byte(cached.ResponseBody), &resp); err != nil {
		resp = ValidationResponse{
			TransactionID:   req.TransactionID,
			AccountNumber:   req.AccountNumber,
			CodResponse:     cached.ResponseStatus,
			MessageResponse: "duplicate delivery",
		}
	}
	if err := c.publisher.PublishValidationResponse(ctx, resp); err != nil {
		logger.Error("failed to republish validation response", "error", err)
	}
}

// apply dispatches a validation request to the movement engine and maps the
// outcome to a response event
func (c *Consumer) apply(ctx context.Context, req ValidationRequest) ValidationResponse {
	var (
		result *service.MovementResult
		err    error
	)

	switch req.TransactionType {
	case EventTypeDeposit:
		result, err = c.deposits.Deposit(ctx, service.DepositRequest{
			AccountNumber: req.AccountNumber,
			Amount:        req.Amount,
			Description:   req.Description,
		})
	case EventTypeWithdrawal:
		result, err = c.withdrawals.Withdraw(ctx, service.WithdrawalRequest{
			AccountNumber: req.AccountNumber,
			Amount:        req.Amount,
			Description:   req.Description,
		})
	case EventTypeTransfer:
		result, err = c.transfers.Transfer(ctx, service.TransferRequest{
			SourceAccountNumber: req.AccountNumber,
			TargetAccountNumber: req.TargetAccountNumber,
			Amount:              req.Amount,
			Description:         req.Description,
		})
	default:
		return ValidationResponse{
			TransactionID:   req.TransactionID,
			AccountNumber:   req.AccountNumber,
			CodResponse:     http.StatusBadRequest,
			MessageResponse: fmt.Sprintf("unknown transaction type %q", req.TransactionType),
		}
	}

	if err != nil {
		return errorResponse(req, err)
	}

	message := strings.ToLower(req.TransactionType) + " applied"
	if result.Commission.IsPositive() {
		message = fmt.Sprintf("%s, commission %s", message, result.Commission.StringFixed(2))
	}

	return ValidationResponse{
		TransactionID:   req.TransactionID,
		AccountNumber:   req.AccountNumber,
		CodResponse:     http.StatusOK,
		MessageResponse: message,
	}
}

func errorResponse(req ValidationRequest, err error) ValidationResponse {
	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		return ValidationResponse{
			TransactionID:   req.TransactionID,
			AccountNumber:   req.AccountNumber,
			CodResponse:     service.StatusFor(svcErr.Code),
			MessageResponse: svcErr.Message,
		}
	}

	return ValidationResponse{
		TransactionID:   req.TransactionID,
		AccountNumber:   req.AccountNumber,
		CodResponse:     http.StatusInternalServerError,
		MessageResponse: "error processing transaction",
	}
}
