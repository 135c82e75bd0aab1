// Package gateway is the HTTP transport to the WAH4PC interoperability
// hub. It builds authenticated requests and classifies responses; it
// holds no business logic and never retries — retry policy belongs to
// the caller.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/interop-api/internal/fhirmap"
	"github.com/jwalitptl/interop-api/internal/model"
	"github.com/jwalitptl/interop-api/pkg/circuitbreaker"
	"github.com/jwalitptl/interop-api/pkg/errors"
	"github.com/jwalitptl/interop-api/pkg/metrics"
)

const (
	HeaderAPIKey         = "X-API-Key"
	HeaderProviderID     = "X-Provider-ID"
	HeaderIdempotencyKey = "Idempotency-Key"

	DefaultTimeout = 8 * time.Second
)

type Config struct {
	BaseURL    string
	APIKey     string
	ProviderID string
	Timeout    time.Duration
}

// Client talks to the hub. The http.Client is injected so transports
// and timeouts are owned by the caller, not package state.
type Client struct {
	cfg     Config
	http    *http.Client
	cb      *circuitbreaker.CircuitBreaker
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

func NewClient(cfg Config, httpClient *http.Client, logger *zerolog.Logger, m *metrics.Metrics) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		cfg:  cfg,
		http: httpClient,
		cb: circuitbreaker.New(circuitbreaker.Settings{
			Name:        "wah4pc-hub",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
		logger:  logger,
		metrics: m,
	}
}

// RequestResult is the hub's acknowledgement of an accepted request.
type RequestResult struct {
	TransactionID  string          `json:"transactionId"`
	Status         string          `json:"status"`
	IdempotencyKey string          `json:"-"`
	Raw            json.RawMessage `json:"-"`
}

// TransactionStatusResult is the hub's view of a transaction.
type TransactionStatusResult struct {
	TransactionID string             `json:"transactionId"`
	Status        string             `json:"status"`
	ErrorDetail   string             `json:"errorDetail,omitempty"`
	Data          *model.FHIRPatient `json:"data,omitempty"`
}

type patientRequestBody struct {
	RequesterID string             `json:"requesterId"`
	TargetID    string             `json:"targetId"`
	Identifiers []model.Identifier `json:"identifiers"`
}

// RequestPatient asks the hub to fetch a patient from another provider.
// A fresh idempotency key is generated for every call; retrying the
// same logical request must reuse the returned key through the hub's
// own 409 handling.
func (c *Client) RequestPatient(ctx context.Context, targetProviderID, philhealthID string) (*RequestResult, error) {
	key := uuid.New().String()
	body := patientRequestBody{
		RequesterID: c.cfg.ProviderID,
		TargetID:    targetProviderID,
		Identifiers: []model.Identifier{{System: fhirmap.SystemPhilHealth, Value: philhealthID}},
	}

	raw, err := c.post(ctx, "request_patient", "/api/v1/fhir/request/Patient", key, body)
	if err != nil {
		return nil, err
	}

	result := &RequestResult{IdempotencyKey: key, Raw: raw}
	if err := json.Unmarshal(raw, result); err != nil {
		return nil, errors.NewNetwork(fmt.Errorf("malformed hub response: %w", err))
	}
	return result, nil
}

// PushPatient sends a FHIR patient resource to another provider.
func (c *Client) PushPatient(ctx context.Context, targetProviderID string, patient *model.FHIRPatient) (*RequestResult, error) {
	key := uuid.New().String()

	raw, err := c.post(ctx, "push_patient", "/api/v1/fhir/push/Patient?targetId="+targetProviderID, key, patient)
	if err != nil {
		return nil, err
	}

	result := &RequestResult{IdempotencyKey: key, Raw: raw}
	if err := json.Unmarshal(raw, result); err != nil {
		return nil, errors.NewNetwork(fmt.Errorf("malformed hub response: %w", err))
	}
	return result, nil
}

// GetProviders lists the hub's registered provider directory.
func (c *Client) GetProviders(ctx context.Context) ([]*model.Provider, error) {
	raw, err := c.get(ctx, "get_providers", "/api/v1/providers")
	if err != nil {
		return nil, err
	}

	var providers []*model.Provider
	if err := json.Unmarshal(raw, &providers); err != nil {
		return nil, errors.NewNetwork(fmt.Errorf("malformed hub response: %w", err))
	}
	return providers, nil
}

// GetTransactionStatus polls the hub for a transaction by id.
func (c *Client) GetTransactionStatus(ctx context.Context, transactionID string) (*TransactionStatusResult, error) {
	raw, err := c.get(ctx, "get_transaction_status", "/api/v1/transactions/"+transactionID)
	if err != nil {
		return nil, err
	}

	var status TransactionStatusResult
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, errors.NewNetwork(fmt.Errorf("malformed hub response: %w", err))
	}
	return &status, nil
}

func (c *Client) post(ctx context.Context, op, path, idempotencyKey string, body interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to marshal request body: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderIdempotencyKey, idempotencyKey)

	return c.send(op, req)
}

func (c *Client) get(ctx context.Context, op, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to build request: %w", err))
	}
	return c.send(op, req)
}

func (c *Client) send(op string, req *http.Request) (json.RawMessage, error) {
	req.Header.Set(HeaderAPIKey, c.cfg.APIKey)
	req.Header.Set(HeaderProviderID, c.cfg.ProviderID)

	start := time.Now()

	var resp *http.Response
	err := c.cb.Execute(func() error {
		var doErr error
		resp, doErr = c.http.Do(req)
		return doErr
	})
	if err != nil {
		c.logger.Error().Err(err).Str("url", req.URL.String()).Msg("hub request failed")
		c.record(op, errors.NewNetwork(err), start)
		return nil, errors.NewNetwork(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		readErr := errors.NewNetwork(fmt.Errorf("failed to read hub response: %w", err))
		c.record(op, readErr, start)
		return nil, readErr
	}

	classified := classify(resp.StatusCode)
	c.record(op, classified, start)
	return body, classified
}

func (c *Client) record(op string, err error, start time.Time) {
	if c.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(errors.CodeOf(err))
	}
	c.metrics.GatewayRequests.WithLabelValues(op, outcome).Inc()
	c.metrics.GatewayLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// classify maps a hub status code to the error taxonomy. 409 means the
// idempotency key already has an in-flight transaction; the caller
// must not blindly retry. 429 means back off.
func classify(status int) error {
	switch {
	case status >= http.StatusOK && status <= http.StatusAccepted:
		return nil
	case status == http.StatusConflict:
		return errors.NewConflict("Request in progress")
	case status == http.StatusTooManyRequests:
		return errors.NewRateLimited("Rate limited")
	default:
		return errors.NewNetwork(fmt.Errorf("hub returned status %d", status))
	}
}
