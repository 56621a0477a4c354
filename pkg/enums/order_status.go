package enums

import "fmt"

// OrderStatus tracks the lifecycle of a customer order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusAccepted       OrderStatus = "accepted"
	OrderStatusRejected       OrderStatus = "rejected"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAccepted,
	OrderStatusRejected,
	OrderStatusPreparing,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// orderStatusTransitions is the complete transition graph. Pre-acceptance
// declines are rejections, post-acceptance declines are cancellations;
// pending therefore never transitions to cancelled.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusAccepted, OrderStatusRejected},
	OrderStatusAccepted:       {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:      {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:      {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusRejected:       {},
	OrderStatusCompleted:      {},
	OrderStatusCancelled:      {},
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// AllOrderStatuses returns every known status in lifecycle order.
func AllOrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(validOrderStatuses))
	copy(out, validOrderStatuses)
	return out
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no outgoing transitions.
func (o OrderStatus) IsTerminal() bool {
	targets, ok := orderStatusTransitions[o]
	return ok && len(targets) == 0
}

// RequiresNote reports whether entering the status demands a reason note.
func (o OrderStatus) RequiresNote() bool {
	return o == OrderStatusRejected || o == OrderStatusCancelled
}

// AllowedTargets returns a copy of the statuses reachable from o.
func (o OrderStatus) AllowedTargets() []OrderStatus {
	targets, ok := orderStatusTransitions[o]
	if !ok {
		return []OrderStatus{}
	}
	out := make([]OrderStatus, len(targets))
	copy(out, targets)
	return out
}

// CanTransitionTo reports whether the graph permits moving from o to next.
func (o OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range orderStatusTransitions[o] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
