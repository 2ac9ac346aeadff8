package delivery_eta

import (
	"time"

	"dispatch/internal/entities"
)

type DeliveryETAFactory struct{}

func New() *DeliveryETAFactory {
	return &DeliveryETAFactory{}
}

// Estimate returns when a courier with the given transport should reach the
// pickup point and the drop-off point, counting from baseTime.
func (f *DeliveryETAFactory) Estimate(transportType entities.CourierTransportType, baseTime time.Time) (pickup, delivery time.Time) {
	pickup = baseTime.Add(pickupOffset(transportType))
	delivery = pickup.Add(travelTime(transportType))
	return pickup, delivery
}

func pickupOffset(transportType entities.CourierTransportType) time.Duration {
	switch transportType {
	case entities.OnFoot:
		return time.Minute * 15
	case entities.Scooter:
		return time.Minute * 10
	case entities.Car:
		return time.Minute * 5
	default:
		return time.Minute * 15
	}
}

func travelTime(transportType entities.CourierTransportType) time.Duration {
	switch transportType {
	case entities.OnFoot:
		return time.Minute * 60
	case entities.Scooter:
		return time.Minute * 30
	case entities.Car:
		return time.Minute * 20
	default:
		return time.Minute * 60
	}
}
