package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marvindelacruz/hardwarehub-backend/pkg/db/models"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/enums"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their audit trail.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	AppendStatusEvent(ctx context.Context, event *models.OrderStatusEvent) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	// UpdateOrderStatusFrom performs a compare-and-swap on the order's status
	// and reports how many rows matched. Zero means a concurrent transition
	// won the race.
	UpdateOrderStatusFrom(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus) (int64, error)
	TimelineFor(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusEvent, error)
	ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
}

// ListFilters describe the inputs supported by the back-office order list.
type ListFilters struct {
	Status   *enums.OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
}
