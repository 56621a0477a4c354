package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/marvindelacruz/hardwarehub-backend/pkg/enums"
)

// Order is the customer order aggregate root. Monetary amounts are integer
// centavos. The row is never deleted; rejection and cancellation are
// terminal statuses, not removals.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber     string            `gorm:"column:order_number;uniqueIndex;not null" json:"order_number"`
	CustomerName    string            `gorm:"column:customer_name;not null" json:"customer_name"`
	CustomerPhone   string            `gorm:"column:customer_phone;not null" json:"customer_phone"`
	DeliveryAddress string            `gorm:"column:delivery_address;not null" json:"delivery_address"`
	Area            string            `gorm:"column:area;not null" json:"area"`
	Landmark        *string           `gorm:"column:landmark" json:"landmark,omitempty"`
	Notes           *string           `gorm:"column:notes" json:"notes,omitempty"`
	Status          enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'" json:"status"`
	TotalCentavos   int64             `gorm:"column:total_centavos;not null" json:"total_centavos"`
	Items           []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Events          []OrderStatusEvent `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"events,omitempty"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
