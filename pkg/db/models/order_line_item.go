package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem captures the snapshot of each item within an order. Product
// name, category, and unit price are copied at order time so later catalog
// edits never alter historical totals.
type OrderLineItem struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID           uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	ProductID         *uuid.UUID `gorm:"column:product_id;type:uuid" json:"product_id,omitempty"`
	ProductName       string     `gorm:"column:product_name;not null" json:"product_name"`
	Category          string     `gorm:"column:category;not null" json:"category"`
	VariantName       *string    `gorm:"column:variant_name" json:"variant_name,omitempty"`
	Qty               int        `gorm:"column:qty;not null" json:"qty"`
	UnitPriceCentavos int64      `gorm:"column:unit_price_centavos;not null" json:"unit_price_centavos"`
	SubtotalCentavos  int64      `gorm:"column:subtotal_centavos;not null" json:"subtotal_centavos"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
