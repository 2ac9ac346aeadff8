package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentChannel string

const (
	PaymentChannelWebhook   PaymentChannel = "WEBHOOK"
	PaymentChannelVerify    PaymentChannel = "VERIFY"
	PaymentChannelReconcile PaymentChannel = "RECONCILE"
)

type PaymentOutcome string

const (
	// PaymentApplied marks the event that moved the delivery to paid.
	PaymentApplied PaymentOutcome = "APPLIED"
	// PaymentAlreadyPaid is a valid charge for a delivery some other
	// reference already paid.
	PaymentAlreadyPaid PaymentOutcome = "ALREADY_PAID"
	PaymentIgnored     PaymentOutcome = "IGNORED"
	PaymentRejected    PaymentOutcome = "REJECTED"
)

func (o PaymentOutcome) String() string {
	return string(o)
}

// IsFinal reports whether a later charge for the same reference can still
// change the outcome. Only IGNORED stays open, since a failed or abandoned
// attempt may be followed by a successful one.
func (o PaymentOutcome) IsFinal() bool {
	return o != PaymentIgnored
}

// ChargeSuccessEvent is the only gateway event type that settles a delivery.
const ChargeSuccessEvent = "charge.success"

// GatewayCharge is a gateway's view of a single charge, decoded from a
// webhook body or a verify response.
type GatewayCharge struct {
	Event       string
	Reference   string
	Status      string
	AmountMinor int64
	Currency    string
	PaidAt      *time.Time
	Metadata    json.RawMessage
	Payload     json.RawMessage
}

func (c *GatewayCharge) IsSuccess() bool {
	return c.Event == ChargeSuccessEvent && c.Status == "success"
}

type PaymentEvent struct {
	ID          int64
	Reference   string
	DeliveryID  *int64
	Channel     PaymentChannel
	EventType   string
	AmountMinor int64
	Currency    string
	Payload     json.RawMessage
	ReceivedAt  time.Time
	ProcessedAt *time.Time
	Outcome     *PaymentOutcome
}

func (e *PaymentEvent) IsProcessed() bool {
	return e.ProcessedAt != nil && e.Outcome != nil
}

type PaymentEventCreate struct {
	Reference   string
	DeliveryID  *int64
	Channel     PaymentChannel
	EventType   string
	AmountMinor int64
	Currency    string
	Payload     json.RawMessage
	ReceivedAt  time.Time
}

// SettlementResult is what a payment notification resolved to.
type SettlementResult struct {
	Reference  string
	DeliveryID *int64
	Outcome    PaymentOutcome
	// Replayed is true when the reference had already been processed and
	// nothing was written this time.
	Replayed bool
	Earning  *CourierEarning
}

// PaymentInit is the gateway checkout handle for a delivery fee.
type PaymentInit struct {
	DeliveryID       int64
	Reference        string
	AuthorizationURL string
	AccessCode       string
	AmountMinor      int64
}

// PaymentInitRequest is what the gateway initialize endpoint needs.
type PaymentInitRequest struct {
	Email       string
	AmountMinor int64
	Reference   string
	Metadata    PaymentMetadata
}

const (
	PaymentMetadataVersion = 1
	PaymentKindDelivery    = "delivery_fee"
)

var (
	ErrUnsupportedMetadataVersion = errors.New("unsupported payment metadata version")
	ErrInvalidPaymentMetadata     = errors.New("invalid payment metadata")
)

// PaymentMetadata travels through the gateway and comes back on the webhook
// and the verify response.
type PaymentMetadata struct {
	Version    int     `json:"version"`
	Kind       string  `json:"kind"`
	DeliveryID int64   `json:"delivery_id"`
	OrderID    *string `json:"order_id,omitempty"`
}

func NewPaymentMetadata(d *Delivery) PaymentMetadata {
	return PaymentMetadata{
		Version:    PaymentMetadataVersion,
		Kind:       PaymentKindDelivery,
		DeliveryID: d.ID,
		OrderID:    d.OrderID,
	}
}

func DecodePaymentMetadata(raw json.RawMessage) (*PaymentMetadata, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPaymentMetadata)
	}

	var meta PaymentMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPaymentMetadata, err)
	}
	if meta.Version != PaymentMetadataVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMetadataVersion, meta.Version)
	}
	if meta.Kind != PaymentKindDelivery {
		return nil, fmt.Errorf("%w: kind %q", ErrInvalidPaymentMetadata, meta.Kind)
	}
	if meta.DeliveryID <= 0 {
		return nil, fmt.Errorf("%w: delivery id %d", ErrInvalidPaymentMetadata, meta.DeliveryID)
	}

	return &meta, nil
}

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a 2-place amount to the gateway's integer minor unit.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
