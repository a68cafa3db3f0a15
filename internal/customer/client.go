// Package customer provides the client for the external customer-lookup
// service, which resolves a document number to a customer id and type.
package customer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// ErrNotFound indicates no customer exists for the given document
var ErrNotFound = errors.New("customer not found")

// Customer is the customer-service view of a client
type Customer struct {
	ID       string `json:"id"`
	Document string `json:"document"`
	Type     string `json:"customerType"`
}

// Lookup resolves customers by document number
type Lookup interface {
	GetByDocument(ctx context.Context, document string) (*Customer, error)
}

// Client calls the customer service over HTTP behind a circuit breaker, so
// a down customer service degrades account opening fast instead of tying up
// request handlers on timeouts.
type Client struct {
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a customer-service client
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	settings := gobreaker.Settings{
		Name:    "customer-service",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// A miss is a valid answer, not a service failure
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cb:         gobreaker.NewCircuitBreaker(settings),
		baseURL:    baseURL,
		logger:     logger,
	}
}

// GetByDocument resolves a customer by document number. A 404 from the
// customer service maps to ErrNotFound and does not count against the
// breaker.
func (c *Client) GetByDocument(ctx context.Context, document string) (*Customer, error) {
	result, err := c.cb.Execute(func() (any, error) {
		return c.fetchByDocument(ctx, document)
	})
	if err != nil {
		return nil, err
	}

	customer, ok := result.(*Customer)
	if !ok {
		return nil, fmt.Errorf("unexpected customer response type %T", result)
	}
	return customer, nil
}

func (c *Client) fetchByDocument(ctx context.Context, document string) (*Customer, error) {
	endpoint := fmt.Sprintf("%s/customers/document/%s", c.baseURL, url.PathEscape(document))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build customer request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("customer service unreachable: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("customer service returned status %d", resp.StatusCode)
	}

	var customer Customer
	if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer response: %w", err)
	}

	return &customer, nil
}
