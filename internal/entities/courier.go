package entities

import (
	"time"
)

// Courier is a registered rider. Deliveries are claimed by couriers; the
// payout account is where their share of a paid delivery fee is settled.
type Courier struct {
	ID            int64
	Name          string
	Phone         string
	Status        CourierStatusType
	TransportType CourierTransportType
	// PayoutAccount is the gateway subaccount the courier is paid out to.
	// Nil means the courier cannot accept deliveries yet.
	PayoutAccount *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (c *Courier) HasPayoutAccount() bool {
	return c.PayoutAccount != nil && *c.PayoutAccount != ""
}

type CourierTransportType string

const (
	OnFoot  CourierTransportType = "on_foot"
	Scooter CourierTransportType = "scooter"
	Car     CourierTransportType = "car"
)

// DefaultTransportType applies when a new courier names no transport.
const DefaultTransportType = OnFoot

func (t CourierTransportType) String() string {
	return string(t)
}

func (t CourierTransportType) IsValid() bool {
	switch t {
	case OnFoot, Scooter, Car:
		return true
	default:
		return false
	}
}

type CourierStatusType string

const (
	CourierAvailable CourierStatusType = "available"
	CourierBusy      CourierStatusType = "busy"
	CourierPaused    CourierStatusType = "paused"
)

// DefaultStatusType applies when a new courier names no status.
const DefaultStatusType = CourierAvailable

func (s CourierStatusType) String() string {
	return string(s)
}

func (s CourierStatusType) IsValid() bool {
	switch s {
	case CourierAvailable, CourierBusy, CourierPaused:
		return true
	default:
		return false
	}
}

// CourierModify carries a partial courier. Nil fields are left untouched on
// update.
type CourierModify struct {
	ID            *int64
	Name          *string
	Phone         *string
	Status        *CourierStatusType
	TransportType *CourierTransportType
	PayoutAccount *string
}
