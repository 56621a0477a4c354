package notifications

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/marvindelacruz/hardwarehub-backend/pkg/db/models"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/enums"
)

// MessageFor renders the customer-facing SMS for a status change. The second
// return is false when no message is defined for the status.
func MessageFor(order *models.Order, status enums.OrderStatus, note *string) (string, bool) {
	if order == nil {
		return "", false
	}
	total := FormatPeso(order.TotalCentavos)

	switch status {
	case enums.OrderStatusPending:
		return fmt.Sprintf(
			"HardwareHub: we received your order %s (%s). We will confirm it shortly.",
			order.OrderNumber, total), true
	case enums.OrderStatusAccepted:
		return fmt.Sprintf(
			"HardwareHub: your order %s (%s) has been confirmed and is now being processed.",
			order.OrderNumber, total), true
	case enums.OrderStatusRejected:
		return withReason(fmt.Sprintf(
			"HardwareHub: sorry, we could not accept your order %s.", order.OrderNumber), note), true
	case enums.OrderStatusPreparing:
		return fmt.Sprintf(
			"HardwareHub: your order %s is being prepared.", order.OrderNumber), true
	case enums.OrderStatusOutForDelivery:
		return fmt.Sprintf(
			"HardwareHub: your order %s is out for delivery. Please keep your phone nearby.",
			order.OrderNumber), true
	case enums.OrderStatusDelivered:
		return fmt.Sprintf(
			"HardwareHub: your order %s has been delivered. Thank you!", order.OrderNumber), true
	case enums.OrderStatusCompleted:
		return fmt.Sprintf(
			"HardwareHub: order %s is complete. Thank you for shopping with us!",
			order.OrderNumber), true
	case enums.OrderStatusCancelled:
		return withReason(fmt.Sprintf(
			"HardwareHub: your order %s has been cancelled.", order.OrderNumber), note), true
	default:
		return "", false
	}
}

// FormatPeso renders centavos as a peso amount, e.g. 98500 -> "PHP 985.00".
// Plain "PHP" instead of the peso sign keeps the SMS in the GSM-7 charset.
func FormatPeso(centavos int64) string {
	return "PHP " + decimal.New(centavos, -2).StringFixed(2)
}

func withReason(message string, note *string) string {
	if note == nil || *note == "" {
		return message
	}
	return message + " Reason: " + *note
}
