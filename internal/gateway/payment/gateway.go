package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/pkg/config"
	retrierconfig "dispatch/pkg/retrier"
	"dispatch/pkg/retrier/backoff_adapter"
)

const (
	serviceName = "payment-gateway"

	// SignatureHeader carries the hex HMAC-SHA512 of the raw webhook body.
	SignatureHeader = "X-Gateway-Signature"

	maxBodySize = 1 << 20
)

const (
	initialInterval = 100 * time.Millisecond
	maxInterval     = 2 * time.Second
	randomization   = 0.5
	multiplier      = 2.0
	maxRetries      = 3
)

type PaymentGateway struct {
	client        httpDoer
	retrier       retrier
	baseURL       string
	secretKey     string
	webhookSecret []byte
	currency      string
}

func New(client httpDoer, cfg *config.PaymentGateway) *PaymentGateway {
	retryConfig := retrierconfig.Config{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		MaxElapsedTime:  cfg.RetryWindow,
		Randomization:   randomization,
		Multiplier:      multiplier,
		MaxRetries:      maxRetries,
		ShouldRetry:     isRetryable,
	}

	return &PaymentGateway{
		client:        client,
		retrier:       backoff_adapter.New(retryConfig),
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		secretKey:     cfg.SecretKey,
		webhookSecret: []byte(cfg.WebhookSecret),
		currency:      cfg.Currency,
	}
}

// NewHTTPClient returns the client the gateway is wired with in production.
func NewHTTPClient(cfg *config.PaymentGateway) *http.Client {
	return &http.Client{Timeout: cfg.RequestTimeout}
}

func (g *PaymentGateway) Initialize(ctx context.Context, req entities.PaymentInitRequest) (*entities.PaymentInit, error) {
	metadata, err := json.Marshal(req.Metadata)
	if err != nil {
		return nil, fmt.Errorf("gateway payment, encode metadata: %w", err)
	}

	body, err := json.Marshal(initializeRequest{
		Email:     req.Email,
		Amount:    req.AmountMinor,
		Currency:  g.currency,
		Reference: req.Reference,
		Metadata:  metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway payment, encode request: %w", err)
	}

	var resp envelope[initializeData]
	err = g.executeWithMetrics(ctx, "Initialize", func(ctx context.Context) error {
		return g.do(ctx, http.MethodPost, "/transaction/initialize", body, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("gateway payment, initialize %s: %w", req.Reference, err)
	}
	if resp.Data.AuthorizationURL == "" {
		return nil, fmt.Errorf("gateway payment, initialize %s: %w: no authorization url", req.Reference, ErrMalformedResponse)
	}

	return &entities.PaymentInit{
		Reference:        req.Reference,
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
		AmountMinor:      req.AmountMinor,
	}, nil
}

// Verify asks the gateway for the current state of a charge. A successful
// charge comes back shaped like a charge.success webhook.
func (g *PaymentGateway) Verify(ctx context.Context, reference string) (*entities.GatewayCharge, error) {
	var resp envelope[chargeData]
	raw := &bytes.Buffer{}
	err := g.executeWithMetrics(ctx, "Verify", func(ctx context.Context) error {
		raw.Reset()
		return g.doRaw(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &resp, raw)
	})
	if err != nil {
		return nil, fmt.Errorf("gateway payment, verify %s: %w", reference, err)
	}

	charge := toCharge(resp.Data, raw.Bytes())
	if charge.Reference == "" {
		charge.Reference = reference
	}
	if charge.Status == "success" {
		charge.Event = entities.ChargeSuccessEvent
	} else {
		charge.Event = "charge." + charge.Status
	}
	return charge, nil
}

func (g *PaymentGateway) VerifySignature(payload []byte, signature string) bool {
	expected, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(expected) == 0 {
		return false
	}

	mac := hmac.New(sha512.New, g.webhookSecret)
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), expected)
}

func (g *PaymentGateway) DecodeEvent(payload []byte) (*entities.GatewayCharge, error) {
	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("decode webhook: %w", err)
	}
	if event.Event == "" {
		return nil, errors.New("decode webhook: missing event type")
	}

	charge := toCharge(event.Data, payload)
	charge.Event = event.Event
	return charge, nil
}

// Sign returns the signature header value for payload. It is what the
// gateway computes on its side.
func (g *PaymentGateway) Sign(payload []byte) string {
	mac := hmac.New(sha512.New, g.webhookSecret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func toCharge(data chargeData, payload []byte) *entities.GatewayCharge {
	return &entities.GatewayCharge{
		Reference:   data.Reference,
		Status:      data.Status,
		AmountMinor: data.Amount,
		Currency:    strings.ToUpper(data.Currency),
		PaidAt:      data.PaidAt,
		Metadata:    unwrapMetadata(data.Metadata),
		Payload:     json.RawMessage(bytes.Clone(payload)),
	}
}

// unwrapMetadata accepts metadata sent either as an object or as a JSON
// string holding the object.
func unwrapMetadata(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return raw
	}

	var inner string
	if err := json.Unmarshal(trimmed, &inner); err != nil || inner == "" {
		return nil
	}
	return json.RawMessage(inner)
}

func (g *PaymentGateway) do(ctx context.Context, method, path string, body []byte, out any) error {
	return g.doRaw(ctx, method, path, body, out, nil)
}

func (g *PaymentGateway) doRaw(ctx context.Context, method, path string, body []byte, out any, raw *bytes.Buffer) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &statusError{code: 0, err: fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &statusError{code: resp.StatusCode, err: fmt.Errorf("%w: read body: %w", ErrGatewayUnavailable, err)}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &statusError{code: resp.StatusCode, err: ErrReferenceNotFound}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return &statusError{code: resp.StatusCode, err: fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)}
	case resp.StatusCode >= http.StatusBadRequest:
		return &statusError{code: resp.StatusCode, err: fmt.Errorf("%w: status %d: %s", ErrGatewayRejected, resp.StatusCode, gatewayMessage(data))}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &statusError{code: resp.StatusCode, err: fmt.Errorf("%w: %w", ErrMalformedResponse, err)}
	}
	if raw != nil {
		raw.Write(data)
	}
	return nil
}

func gatewayMessage(data []byte) string {
	var resp envelope[json.RawMessage]
	if err := json.Unmarshal(data, &resp); err != nil || resp.Message == "" {
		return "no message"
	}
	return resp.Message
}

// statusError keeps the HTTP status next to the domain error so the retrier
// and the metrics can both read it.
type statusError struct {
	code int
	err  error
}

func (e *statusError) Error() string {
	return e.err.Error()
}

func (e *statusError) Unwrap() error {
	return e.err
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *statusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return errors.Is(statusErr.err, ErrGatewayUnavailable)
}

func (g *PaymentGateway) executeWithMetrics(ctx context.Context, method string, fn func(context.Context) error) error {
	var attempt uint64
	start := time.Now()

	err := g.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		return fn(ctx)
	})

	code := statusCode(err)
	GatewayRequestDuration.WithLabelValues(serviceName, method, code).Observe(time.Since(start).Seconds())

	if attempt > 1 {
		GatewayRetriesTotal.WithLabelValues(serviceName, method, code).Inc()
	}

	return err
}

func statusCode(err error) string {
	if err == nil {
		return "200"
	}
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		if statusErr.code == 0 {
			return "NETWORK"
		}
		return strconv.Itoa(statusErr.code)
	}
	return "UNKNOWN"
}
