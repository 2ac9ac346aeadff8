package entities

import "time"

type NotificationType string

const (
	NotificationDeliveryCreated  NotificationType = "DELIVERY_CREATED"
	NotificationDeliveryAccepted NotificationType = "DELIVERY_ACCEPTED"
	NotificationStatusChanged    NotificationType = "DELIVERY_STATUS_CHANGED"
	NotificationPaymentConfirmed NotificationType = "PAYMENT_CONFIRMED"
	NotificationCourierCredited  NotificationType = "COURIER_CREDITED"
)

type Notification struct {
	Type       NotificationType
	DeliveryID int64
	OrderID    *string
	CourierID  *int64
	Status     *DeliveryStatus
	Message    string
	CreatedAt  time.Time
}

// CourierCredited builds the notification sent once an earning is recorded.
func CourierCredited(earning *CourierEarning, at time.Time) Notification {
	courierID := earning.CourierID
	return Notification{
		Type:       NotificationCourierCredited,
		DeliveryID: earning.DeliveryID,
		CourierID:  &courierID,
		Message:    "courier credited " + earning.Amount.StringFixed(2),
		CreatedAt:  at,
	}
}
