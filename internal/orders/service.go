package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marvindelacruz/hardwarehub-backend/pkg/db"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/db/models"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/enums"
	pkgerrors "github.com/marvindelacruz/hardwarehub-backend/pkg/errors"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/metrics"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/pagination"
)

// orderNumberAttempts bounds collision retries during creation. The number
// carries a millisecond timestamp plus four random chars, so collisions are
// rare but not impossible.
const orderNumberAttempts = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// TransitionNotifier receives committed transitions for customer messaging.
// Implementations must be fire-and-forget: a failed or slow send never
// affects the transition that triggered it.
type TransitionNotifier interface {
	Dispatch(ctx context.Context, order *models.Order, newStatus enums.OrderStatus, note *string)
}

// Service defines the order aggregate operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	Timeline(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusEvent, error)
	TimelineByNumber(ctx context.Context, orderNumber string) ([]models.OrderStatusEvent, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	notifier TransitionNotifier
	metrics  *metrics.OrderMetrics
	now      func() time.Time
}

// NewService builds an order service with the required dependencies. The
// notifier and metrics are optional.
func NewService(repo Repository, tx txRunner, notifier TransitionNotifier, m *metrics.OrderMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		notifier: notifier,
		metrics:  m,
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	items := make([]models.OrderLineItem, 0, len(input.Items))
	var total int64
	for _, in := range input.Items {
		subtotal := int64(in.Qty) * in.UnitPriceCentavos
		total += subtotal
		items = append(items, models.OrderLineItem{
			ID:                uuid.New(),
			ProductID:         in.ProductID,
			ProductName:       in.ProductName,
			Category:          in.Category,
			VariantName:       in.VariantName,
			Qty:               in.Qty,
			UnitPriceCentavos: in.UnitPriceCentavos,
			SubtotalCentavos:  subtotal,
		})
	}

	var created *models.Order
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		number, err := GenerateOrderNumber(s.now())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}

		order := &models.Order{
			ID:              uuid.New(),
			OrderNumber:     number,
			CustomerName:    strings.TrimSpace(input.CustomerName),
			CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
			DeliveryAddress: strings.TrimSpace(input.DeliveryAddress),
			Area:            strings.TrimSpace(input.Area),
			Landmark:        input.Landmark,
			Notes:           input.Notes,
			Status:          enums.OrderStatusPending,
			TotalCentavos:   total,
			Items:           items,
		}

		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			if err := repo.CreateOrder(ctx, order); err != nil {
				return err
			}
			return repo.AppendStatusEvent(ctx, &models.OrderStatusEvent{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ToStatus:  enums.OrderStatusPending,
				ActorID:   order.ID, // creation is attributed to the order itself
				ActorName: order.CustomerName,
				ActorRole: enums.ActorRoleCustomer,
			})
		})
		if err == nil {
			created = order
			break
		}
		if db.IsUniqueViolation(err) {
			s.metrics.IncOrderNumberRetry()
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	if created == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order number generation kept colliding")
	}

	s.metrics.IncOrderCreated()
	if s.notifier != nil {
		// Confirmation SMS goes out after the commit, same as transitions.
		s.notifier.Dispatch(context.WithoutCancel(ctx), created, enums.OrderStatusPending, nil)
	}
	return created, nil
}

func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Requested.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown status %q", input.Requested))
	}
	if input.Actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if input.Requested.RequiresNote() && noteEmpty(input.Note) {
		s.metrics.IncTransitionFailure("missing_reason")
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("a reason note is required when marking an order %s", input.Requested)).
			WithDetails(map[string]any{"field": "note"})
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if !order.Status.CanTransitionTo(input.Requested) {
			return invalidTransition(order.Status, input.Requested)
		}

		// Compare-and-swap so two racing requests cannot both win: the loser
		// matches zero rows and is rejected with the already-updated status.
		rows, err := repo.UpdateOrderStatusFrom(ctx, order.ID, order.Status, input.Requested)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if rows == 0 {
			current, err := repo.FindOrder(ctx, input.OrderID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
			}
			return invalidTransition(current.Status, input.Requested)
		}

		from := order.Status
		if err := repo.AppendStatusEvent(ctx, &models.OrderStatusEvent{
			ID:         uuid.New(),
			OrderID:    order.ID,
			FromStatus: &from,
			ToStatus:   input.Requested,
			ActorID:    input.Actor.ID,
			ActorName:  input.Actor.Name,
			ActorRole:  input.Actor.Role,
			Note:       input.Note,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status event")
		}

		order.Status = input.Requested
		updated = order
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeStateConflict {
			s.metrics.IncTransitionFailure("invalid_transition")
		}
		return nil, err
	}

	s.metrics.IncTransition(string(input.Requested))

	// The notifier runs after commit so a slow or failing SMS channel can
	// never roll back the transition.
	if s.notifier != nil {
		s.notifier.Dispatch(context.WithoutCancel(ctx), updated, input.Requested, input.Note)
	}

	return updated, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) Timeline(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusEvent, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if _, err := s.Get(ctx, orderID); err != nil {
		return nil, err
	}
	events, err := s.repo.TimelineFor(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load timeline")
	}
	return events, nil
}

func (s *service) TimelineByNumber(ctx context.Context, orderNumber string) ([]models.OrderStatusEvent, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	order, err := s.repo.FindOrderByNumber(ctx, orderNumber)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	events, err := s.repo.TimelineFor(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load timeline")
	}
	return events, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	list, err := s.repo.ListOrders(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func validateCreateInput(input CreateOrderInput) error {
	details := map[string]string{}
	if strings.TrimSpace(input.CustomerName) == "" {
		details["customer_name"] = "is required"
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		details["customer_phone"] = "is required"
	}
	if strings.TrimSpace(input.DeliveryAddress) == "" {
		details["delivery_address"] = "is required"
	}
	if strings.TrimSpace(input.Area) == "" {
		details["area"] = "is required"
	}
	if len(input.Items) == 0 {
		details["items"] = "at least one line item is required"
	}
	for i, item := range input.Items {
		if strings.TrimSpace(item.ProductName) == "" {
			details[fmt.Sprintf("items[%d].product_name", i)] = "is required"
		}
		if item.Qty <= 0 {
			details[fmt.Sprintf("items[%d].qty", i)] = "must be a positive integer"
		}
		if item.UnitPriceCentavos < 0 {
			details[fmt.Sprintf("items[%d].unit_price_centavos", i)] = "must not be negative"
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func invalidTransition(current, requested enums.OrderStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("cannot move order from %s to %s", current, requested)).
		WithDetails(map[string]any{
			"current_status":  current,
			"requested":       requested,
			"allowed_targets": current.AllowedTargets(),
		})
}

func noteEmpty(note *string) bool {
	return note == nil || strings.TrimSpace(*note) == ""
}
