package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marvindelacruz/hardwarehub-backend/pkg/db/models"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/enums"
	pkgerrors "github.com/marvindelacruz/hardwarehub-backend/pkg/errors"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/pagination"
)

type stubOrdersRepo struct {
	order       *models.Order
	findErr     error
	createErr   error
	appendErr   error
	casRows     int64
	casErr      error
	createFails int
	events      []models.OrderStatusEvent
	timelineErr error

	created        []*models.Order
	appendedEvents []*models.OrderStatusEvent
	casCalls       int
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) CreateOrder(_ context.Context, order *models.Order) error {
	if s.createFails > 0 {
		s.createFails--
		return gorm.ErrDuplicatedKey
	}
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, order)
	return nil
}

func (s *stubOrdersRepo) AppendStatusEvent(_ context.Context, event *models.OrderStatusEvent) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appendedEvents = append(s.appendedEvents, event)
	return nil
}

func (s *stubOrdersRepo) FindOrder(_ context.Context, _ uuid.UUID) (*models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.order == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.order
	return &copied, nil
}

func (s *stubOrdersRepo) FindOrderByNumber(_ context.Context, number string) (*models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.order == nil || s.order.OrderNumber != number {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.order
	return &copied, nil
}

func (s *stubOrdersRepo) UpdateOrderStatusFrom(_ context.Context, _ uuid.UUID, _, to enums.OrderStatus) (int64, error) {
	s.casCalls++
	if s.casErr != nil {
		return 0, s.casErr
	}
	if s.casRows > 0 && s.order != nil {
		s.order.Status = to
	}
	return s.casRows, nil
}

func (s *stubOrdersRepo) TimelineFor(_ context.Context, _ uuid.UUID) ([]models.OrderStatusEvent, error) {
	if s.timelineErr != nil {
		return nil, s.timelineErr
	}
	return s.events, nil
}

func (s *stubOrdersRepo) ListOrders(_ context.Context, _ pagination.Params, _ ListFilters) (*OrderList, error) {
	return &OrderList{}, nil
}

type stubTxRunner struct {
	err error
}

func (s stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type stubNotifier struct {
	calls []enums.OrderStatus
}

func (s *stubNotifier) Dispatch(_ context.Context, _ *models.Order, newStatus enums.OrderStatus, _ *string) {
	s.calls = append(s.calls, newStatus)
}

func baseOrder(status enums.OrderStatus) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-TEST0001-AB12",
		CustomerName:  "Juan Dela Cruz",
		CustomerPhone: "09171234567",
		Status:        status,
		TotalCentavos: 125000,
	}
}

func staffActor() ActorRef {
	return ActorRef{ID: uuid.New(), Name: "Maria Santos", Role: enums.ActorRoleStaff}
}

func validCreateInput() CreateOrderInput {
	return CreateOrderInput{
		CustomerName:    "Juan Dela Cruz",
		CustomerPhone:   "09171234567",
		DeliveryAddress: "123 Mabini St",
		Area:            "Poblacion",
		Items: []CreateOrderItemInput{
			{ProductName: "Hammer", Category: "Hand Tools", Qty: 2, UnitPriceCentavos: 25000},
			{ProductName: "Nails 2in", Category: "Fasteners", Qty: 3, UnitPriceCentavos: 25000},
		},
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil, stubTxRunner{}, nil, nil)
	if err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestNewServiceRequiresTxRunner(t *testing.T) {
	_, err := NewService(&stubOrdersRepo{}, nil, nil, nil)
	if err == nil {
		t.Fatal("expected error creating service without tx runner")
	}
}

func TestServiceCreateComputesTotals(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc, err := NewService(repo, stubTxRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	order, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	if order.TotalCentavos != 125000 {
		t.Fatalf("expected total 125000, got %d", order.TotalCentavos)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if order.Items[0].SubtotalCentavos != 50000 {
		t.Fatalf("expected first subtotal 50000, got %d", order.Items[0].SubtotalCentavos)
	}
	if len(repo.appendedEvents) != 1 {
		t.Fatalf("expected one creation event, got %d", len(repo.appendedEvents))
	}
	event := repo.appendedEvents[0]
	if event.FromStatus != nil {
		t.Fatalf("creation event must have nil from status, got %v", event.FromStatus)
	}
	if event.ToStatus != enums.OrderStatusPending {
		t.Fatalf("expected creation event to pending, got %s", event.ToStatus)
	}
}

func TestServiceCreateTwoLineItemScenario(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc, err := NewService(repo, stubTxRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	input := validCreateInput()
	input.Items = []CreateOrderItemInput{
		{ProductName: "Wood Screws", Category: "Fasteners", Qty: 3, UnitPriceCentavos: 4500},
		{ProductName: "Power Drill", Category: "Power Tools", Qty: 1, UnitPriceCentavos: 85000},
	}

	order, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.TotalCentavos != 98500 {
		t.Fatalf("expected total 98500 centavos, got %d", order.TotalCentavos)
	}
	if order.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	if len(repo.appendedEvents) != 1 {
		t.Fatalf("expected exactly one creation event, got %d", len(repo.appendedEvents))
	}
	if repo.appendedEvents[0].FromStatus != nil {
		t.Fatal("creation event must have nil from status")
	}
}

func TestServiceCreateSendsConfirmation(t *testing.T) {
	repo := &stubOrdersRepo{}
	notifier := &stubNotifier{}
	svc, err := NewService(repo, stubTxRunner{}, notifier, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.Create(context.Background(), validCreateInput()); err != nil {
		t.Fatalf("create order: %v", err)
	}

	if len(notifier.calls) != 1 || notifier.calls[0] != enums.OrderStatusPending {
		t.Fatalf("expected one pending confirmation dispatch, got %v", notifier.calls)
	}
}

func TestServiceCreateSkipsConfirmationOnFailure(t *testing.T) {
	repo := &stubOrdersRepo{createErr: errors.New("db down")}
	notifier := &stubNotifier{}
	svc, err := NewService(repo, stubTxRunner{}, notifier, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.Create(context.Background(), validCreateInput()); err == nil {
		t.Fatal("expected create to fail")
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("no confirmation on failed create, got %v", notifier.calls)
	}
}

func TestServiceCreateRetriesNumberCollision(t *testing.T) {
	repo := &stubOrdersRepo{createFails: 2}
	svc, err := NewService(repo, stubTxRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	order, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create should succeed on the third attempt: %v", err)
	}
	if order == nil || order.OrderNumber == "" {
		t.Fatal("expected an order with a number after retries")
	}
}

func TestServiceCreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	repo := &stubOrdersRepo{createFails: 3}
	svc, err := NewService(repo, stubTxRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Create(context.Background(), validCreateInput())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict after exhausting retries, got %v", gotErr)
	}
}

func TestServiceFullDeliveryWalk(t *testing.T) {
	repo := &stubOrdersRepo{casRows: 1}
	svc, err := NewService(repo, stubTxRunner{}, &stubNotifier{}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	order, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	repo.order = order

	walk := []enums.OrderStatus{
		enums.OrderStatusAccepted,
		enums.OrderStatusPreparing,
		enums.OrderStatusOutForDelivery,
		enums.OrderStatusDelivered,
		enums.OrderStatusCompleted,
	}
	for _, next := range walk {
		if _, err := svc.Transition(context.Background(), TransitionInput{
			OrderID:   order.ID,
			Requested: next,
			Actor:     staffActor(),
		}); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}

	if repo.order.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", repo.order.Status)
	}
	// Creation event plus one per transition.
	if len(repo.appendedEvents) != 6 {
		t.Fatalf("expected 6 timeline events, got %d", len(repo.appendedEvents))
	}

	_, gotErr := svc.Transition(context.Background(), TransitionInput{
		OrderID:   order.ID,
		Requested: enums.OrderStatusPending,
		Actor:     staffActor(),
	})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("completed order must refuse further transitions, got %v", gotErr)
	}
}

func TestServiceTransitionRejectionRecordsReason(t *testing.T) {
	order := baseOrder(enums.OrderStatusPending)
	repo := &stubOrdersRepo{order: order, casRows: 1}
	svc, err := NewService(repo, stubTxRunner{}, &stubNotifier{}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	note := "Out of stock items"
	if _, err := svc.Transition(context.Background(), TransitionInput{
		OrderID:   order.ID,
		Requested: enums.OrderStatusRejected,
		Actor:     staffActor(),
		Note:      &note,
	}); err != nil {
		t.Fatalf("reject order: %v", err)
	}

	if len(repo.appendedEvents) != 1 {
		t.Fatalf("expected one rejection event, got %d", len(repo.appendedEvents))
	}
	event := repo.appendedEvents[0]
	if event.Note == nil || *event.Note != note {
		t.Fatalf("rejection reason must be recorded, got %v", event.Note)
	}
	if event.FromStatus == nil || *event.FromStatus != enums.OrderStatusPending {
		t.Fatalf("expected from status pending, got %v", event.FromStatus)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc, err := NewService(&stubOrdersRepo{}, stubTxRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	input := validCreateInput()
	input.CustomerName = "  "
	input.Items[0].Qty = 0

	_, gotErr := svc.Create(context.Background(), input)
	if gotErr == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", gotErr)
	}
}

func TestServiceCreateRequiresItems(t *testing.T) {
	svc, err := NewService(&stubOrdersRepo{}, stubTxRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	input := validCreateInput()
	input.Items = nil

	_, gotErr := svc.Create(context.Background(), input)
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", gotErr)
	}
}

func TestServiceTransitionSuccess(t *testing.T) {
	order := baseOrder(enums.OrderStatusPending)
	repo := &stubOrdersRepo{order: order, casRows: 1}
	notifier := &stubNotifier{}
	svc, err := NewService(repo, stubTxRunner{}, notifier, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	updated, err := svc.Transition(context.Background(), TransitionInput{
		OrderID:   order.ID,
		Requested: enums.OrderStatusAccepted,
		Actor:     staffActor(),
	})
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if updated.Status != enums.OrderStatusAccepted {
		t.Fatalf("expected accepted, got %s", updated.Status)
	}
	if len(repo.appendedEvents) != 1 {
		t.Fatalf("expected one event, got %d", len(repo.appendedEvents))
	}
	event := repo.appendedEvents[0]
	if event.FromStatus == nil || *event.FromStatus != enums.OrderStatusPending {
		t.Fatalf("expected from pending, got %v", event.FromStatus)
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != enums.OrderStatusAccepted {
		t.Fatalf("expected notifier dispatch for accepted, got %v", notifier.calls)
	}
}

func TestServiceTransitionRejectsInvalidEdge(t *testing.T) {
	order := baseOrder(enums.OrderStatusPending)
	repo := &stubOrdersRepo{order: order, casRows: 1}
	svc, err := NewService(repo, stubTxRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	note := "customer changed their mind"
	_, gotErr := svc.Transition(context.Background(), TransitionInput{
		OrderID:   order.ID,
		Requested: enums.OrderStatusCancelled,
		Actor:     staffActor(),
		Note:      &note,
	})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for pending->cancelled, got %v", gotErr)
	}
	if repo.casCalls != 0 {
		t.Fatalf("expected no status update attempt, got %d", repo.casCalls)
	}
}

func TestServiceTransitionRequiresNote(t *testing.T) {
	order := baseOrder(enums.OrderStatusPending)
	repo := &stubOrdersRepo{order: order, casRows: 1}
	svc, err := NewService(repo, stubTxRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	for _, target := range []enums.OrderStatus{enums.OrderStatusRejected, enums.OrderStatusCancelled} {
		_, gotErr := svc.Transition(context.Background(), TransitionInput{
			OrderID:   order.ID,
			Requested: target,
			Actor:     staffActor(),
		})
		if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %s without note, got %v", target, gotErr)
		}
	}

	blank := "   "
	_, gotErr := svc.Transition(context.Background(), TransitionInput{
		OrderID:   order.ID,
		Requested: enums.OrderStatusRejected,
		Actor:     staffActor(),
		Note:      &blank,
	})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for whitespace note, got %v", gotErr)
	}
}

func TestServiceTransitionRaceLoser(t *testing.T) {
	order := baseOrder(enums.OrderStatusPending)
	repo := &stubOrdersRepo{order: order, casRows: 0}
	svc, err := NewService(repo, stubTxRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Transition(context.Background(), TransitionInput{
		OrderID:   order.ID,
		Requested: enums.OrderStatusAccepted,
		Actor:     staffActor(),
	})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict when swap matches no rows, got %v", gotErr)
	}
	if len(repo.appendedEvents) != 0 {
		t.Fatalf("expected no event appended, got %d", len(repo.appendedEvents))
	}
}

func TestServiceTransitionOrderNotFound(t *testing.T) {
	svc, err := NewService(&stubOrdersRepo{}, stubTxRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Transition(context.Background(), TransitionInput{
		OrderID:   uuid.New(),
		Requested: enums.OrderStatusAccepted,
		Actor:     staffActor(),
	})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", gotErr)
	}
}

func TestServiceTransitionRequiresActor(t *testing.T) {
	svc, err := NewService(&stubOrdersRepo{}, stubTxRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Transition(context.Background(), TransitionInput{
		OrderID:   uuid.New(),
		Requested: enums.OrderStatusAccepted,
	})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", gotErr)
	}
}

func TestServiceTransitionTerminalOrder(t *testing.T) {
	order := baseOrder(enums.OrderStatusCompleted)
	repo := &stubOrdersRepo{order: order, casRows: 1}
	svc, err := NewService(repo, stubTxRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Transition(context.Background(), TransitionInput{
		OrderID:   order.ID,
		Requested: enums.OrderStatusPending,
		Actor:     staffActor(),
	})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict leaving terminal status, got %v", gotErr)
	}
}

func TestServiceGetNotFound(t *testing.T) {
	svc, err := NewService(&stubOrdersRepo{}, stubTxRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Get(context.Background(), uuid.New())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", gotErr)
	}
}

func TestServiceGetDependencyError(t *testing.T) {
	svc, err := NewService(&stubOrdersRepo{findErr: errors.New("boom")}, stubTxRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Get(context.Background(), uuid.New())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", gotErr)
	}
}

func TestServiceTimelineByNumber(t *testing.T) {
	order := baseOrder(enums.OrderStatusAccepted)
	from := enums.OrderStatusPending
	repo := &stubOrdersRepo{
		order: order,
		events: []models.OrderStatusEvent{
			{OrderID: order.ID, ToStatus: enums.OrderStatusPending},
			{OrderID: order.ID, FromStatus: &from, ToStatus: enums.OrderStatusAccepted},
		},
	}
	svc, err := NewService(repo, stubTxRunner{}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	events, err := svc.TimelineByNumber(context.Background(), order.OrderNumber)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	_, gotErr := svc.TimelineByNumber(context.Background(), "ORD-UNKNOWN-0000")
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown number, got %v", gotErr)
	}
}
