package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/marvindelacruz/hardwarehub-backend/pkg/enums"
)

// ActorRef identifies whoever performed an order action. The service records
// it verbatim; authentication happens upstream.
type ActorRef struct {
	ID   uuid.UUID
	Name string
	Role enums.ActorRole
}

// CreateOrderItemInput is one (product, variant, qty, price) tuple captured
// at order time.
type CreateOrderItemInput struct {
	ProductID         *uuid.UUID
	ProductName       string
	Category          string
	VariantName       *string
	Qty               int
	UnitPriceCentavos int64
}

// CreateOrderInput carries the customer profile and line items for creation.
type CreateOrderInput struct {
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	Area            string
	Landmark        *string
	Notes           *string
	Items           []CreateOrderItemInput
}

// TransitionInput captures a requested status change.
type TransitionInput struct {
	OrderID   uuid.UUID
	Requested enums.OrderStatus
	Actor     ActorRef
	Note      *string
}

// OrderSummary exposes the aggregated fields returned in the order list.
type OrderSummary struct {
	ID            uuid.UUID         `json:"id"`
	OrderNumber   string            `json:"order_number"`
	CustomerName  string            `json:"customer_name"`
	Area          string            `json:"area"`
	Status        enums.OrderStatus `json:"status"`
	TotalCentavos int64             `json:"total_centavos"`
	TotalItems    int               `json:"total_items"`
	CreatedAt     time.Time         `json:"created_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
