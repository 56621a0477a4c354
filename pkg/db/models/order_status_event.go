package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/marvindelacruz/hardwarehub-backend/pkg/enums"
)

// OrderStatusEvent is one immutable entry in an order's audit trail.
// FromStatus is nil only on the implicit creation event. Rows are appended
// inside the same transaction that moves the order and are never updated.
// Seq is assigned by the database and breaks created_at ties so the
// timeline always reads in insertion order.
type OrderStatusEvent struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Seq        int64              `gorm:"column:seq;autoIncrement" json:"-"`
	OrderID    uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	FromStatus *enums.OrderStatus `gorm:"column:from_status;type:order_status" json:"from_status,omitempty"`
	ToStatus   enums.OrderStatus  `gorm:"column:to_status;type:order_status;not null" json:"to_status"`
	ActorID    uuid.UUID          `gorm:"column:actor_id;type:uuid;not null" json:"actor_id"`
	ActorName  string             `gorm:"column:actor_name;not null" json:"actor_name"`
	ActorRole  enums.ActorRole    `gorm:"column:actor_role;type:text;not null" json:"actor_role"`
	Note       *string            `gorm:"column:note" json:"note,omitempty"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
