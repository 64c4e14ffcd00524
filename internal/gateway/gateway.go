package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"calendar-order-api/internal/calendar"
)

// Submitter is the upstream order submission boundary. Single attempt, no
// retries, no idempotency key; callers decide what to do with failures.
type Submitter interface {
	SubmitOrder(ctx context.Context, date calendar.DateKey) (*OrderConfirmation, error)
}

// OrderConfirmation is the upstream acknowledgement of a submitted order.
type OrderConfirmation struct {
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

// Human-readable messages surfaced to the client popup.
const (
	MessageOrderPlaced = "order placed"
	MessageNetwork     = "check your connection"
	MessageServer      = "something went wrong"
)

// ErrSubmissionInFlight is returned when a submission is attempted while a
// previous one has not resolved yet. Submissions are deliberately not
// queued.
var ErrSubmissionInFlight = errors.New("gateway: submission already in flight")

// NetworkError is a transport-level failure reaching the upstream service.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("gateway: network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response from the upstream service.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("gateway: upstream returned status %d", e.StatusCode)
}

// Client submits orders to a fixed upstream endpoint. At most one submission
// may be outstanding at a time; concurrent attempts fail fast with
// ErrSubmissionInFlight instead of racing.
type Client struct {
	endpoint string
	http     *http.Client
	now      func() time.Time
	inFlight atomic.Bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a submission client for the given endpoint URL.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type submitPayload struct {
	Date      string `json:"date"`
	Timestamp string `json:"timestamp"`
}

// SubmitOrder posts {date, timestamp} to the upstream endpoint. A 2xx
// response is success; any other status is a *ServerError and a transport
// failure is a *NetworkError. The request is attempted exactly once.
func (c *Client) SubmitOrder(ctx context.Context, date calendar.DateKey) (*OrderConfirmation, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer c.inFlight.Store(false)

	body, err := json.Marshal(submitPayload{
		Date:      string(date),
		Timestamp: c.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("gateway: failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gateway: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{StatusCode: resp.StatusCode}
	}

	conf := &OrderConfirmation{}
	if err := json.NewDecoder(resp.Body).Decode(conf); err != nil {
		// 2xx with an unreadable body still counts as placed.
		conf = &OrderConfirmation{Message: MessageOrderPlaced}
	}
	if conf.Message == "" {
		conf.Message = MessageOrderPlaced
	}

	return conf, nil
}

// MessageFor maps a submission error to the fixed popup message.
func MessageFor(err error) string {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return MessageNetwork
	}
	return MessageServer
}
