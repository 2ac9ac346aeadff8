// Package pricing turns distance and priority into a delivery fee and splits
// it between courier and platform.
package pricing

import (
	"fmt"

	"dispatch/internal/entities"

	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var (
	BaseFee  = decimal.RequireFromString("20.00")
	PerKmFee = decimal.RequireFromString("2.00")
	// DefaultDistanceCharge replaces the per-km part when no distance is known.
	DefaultDistanceCharge = decimal.RequireFromString("10.00")
	// CourierShareRate is the courier's cut of the total. The platform gets
	// the remainder, so rounding never loses a cent.
	CourierShareRate = decimal.RequireFromString("0.70")
)

var multipliers = map[entities.Priority]decimal.Decimal{
	entities.PriorityStandard: decimal.RequireFromString("1.0"),
	entities.PriorityExpress:  decimal.RequireFromString("1.5"),
	entities.PriorityUrgent:   decimal.RequireFromString("2.0"),
}

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

func (e *Engine) ComputeFee(distanceKm *float64, priority entities.Priority) (total, courierShare, platformShare decimal.Decimal, err error) {
	multiplier, ok := multipliers[priority]
	if !ok {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownPriority, priority)
	}

	distanceCharge := DefaultDistanceCharge
	if distanceKm != nil {
		if *distanceKm < 0 {
			return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("%w: %v", ErrNegativeDistance, *distanceKm)
		}
		distanceCharge = PerKmFee.Mul(decimal.NewFromFloat(*distanceKm))
	}

	total = BaseFee.Add(distanceCharge).Mul(multiplier).Round(moneyPlaces)
	courierShare, platformShare = e.Split(total)

	return total, courierShare, platformShare, nil
}

func (e *Engine) Split(total decimal.Decimal) (courierShare, platformShare decimal.Decimal) {
	total = total.Round(moneyPlaces)
	courierShare = total.Mul(CourierShareRate).Round(moneyPlaces)
	platformShare = total.Sub(courierShare)

	return courierShare, platformShare
}
