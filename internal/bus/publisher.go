package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/acmebank/account-service/internal/config"
	"github.com/redis/rueidis"
	"github.com/shopspring/decimal"
)

// payloadField is the single stream-entry field carrying the JSON event
const payloadField = "payload"

// Publisher appends outbound events to Redis streams
type Publisher struct {
	client rueidis.Client
	cfg    config.BusConfig
	logger *slog.Logger
}

// NewPublisher creates a Publisher over an existing Redis client
func NewPublisher(client rueidis.Client, cfg config.BusConfig, logger *slog.Logger) *Publisher {
	return &Publisher{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

func (p *Publisher) publish(ctx context.Context, stream string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	cmd := p.client.B().Xadd().
		Key(stream).
		Id("*").
		FieldValue().
		FieldValue(payloadField, string(payload)).
		Build()

	if err := p.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to append event to %s: %w", stream, err)
	}

	p.logger.Debug("event published", "stream", stream)
	return nil
}

// PublishValidationResponse emits the result of a validation request
func (p *Publisher) PublishValidationResponse(ctx context.Context, resp ValidationResponse) error {
	return p.publish(ctx, p.cfg.ResponseStream, resp)
}

// PublishAccountOpened emits an account-opened event. Implements
// service.EventPublisher.
func (p *Publisher) PublishAccountOpened(ctx context.Context, accountNumber, ownerID string, initialBalance decimal.Decimal) error {
	return p.publish(ctx, p.cfg.AccountStream, AccountOpenedEvent{
		AccountNumber:  accountNumber,
		OwnerID:        ownerID,
		InitialBalance: initialBalance,
	})
}
