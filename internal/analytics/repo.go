package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/marvindelacruz/hardwarehub-backend/pkg/db/models"
)

// Repository loads the raw order rows a report is built from.
type Repository interface {
	OrdersInWindow(ctx context.Context, from, to time.Time) ([]models.Order, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) OrdersInWindow(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
