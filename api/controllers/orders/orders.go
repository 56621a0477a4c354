package orders

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/marvindelacruz/hardwarehub-backend/api/middleware"
	"github.com/marvindelacruz/hardwarehub-backend/api/responses"
	"github.com/marvindelacruz/hardwarehub-backend/api/validators"
	internalorders "github.com/marvindelacruz/hardwarehub-backend/internal/orders"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/enums"
	pkgerrors "github.com/marvindelacruz/hardwarehub-backend/pkg/errors"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/logger"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/pagination"
)

const (
	maxTextField = 500
	maxNoteField = 1000
)

type createItemRequest struct {
	ProductID         *uuid.UUID `json:"product_id"`
	ProductName       string     `json:"product_name" validate:"required,max=200"`
	Category          string     `json:"category" validate:"required,max=100"`
	VariantName       *string    `json:"variant_name"`
	Qty               int        `json:"qty" validate:"required,min=1"`
	UnitPriceCentavos int64      `json:"unit_price_centavos" validate:"min=0"`
}

type createOrderRequest struct {
	CustomerName    string              `json:"customer_name" validate:"required,max=200"`
	CustomerPhone   string              `json:"customer_phone" validate:"required,max=20"`
	DeliveryAddress string              `json:"delivery_address" validate:"required,max=500"`
	Area            string              `json:"area" validate:"required,max=100"`
	Landmark        *string             `json:"landmark"`
	Notes           *string             `json:"notes"`
	Items           []createItemRequest `json:"items" validate:"required,min=1,dive"`
}

type transitionRequest struct {
	Status string  `json:"status" validate:"required"`
	Note   *string `json:"note"`
}

// Create accepts a new customer order and returns it with its generated
// order number.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.CreateOrderInput{
			CustomerName:    validators.SanitizeString(req.CustomerName, maxTextField),
			CustomerPhone:   validators.SanitizeString(req.CustomerPhone, 20),
			DeliveryAddress: validators.SanitizeString(req.DeliveryAddress, maxTextField),
			Area:            validators.SanitizeString(req.Area, maxTextField),
			Landmark:        sanitizeOptional(req.Landmark, maxTextField),
			Notes:           sanitizeOptional(req.Notes, maxNoteField),
		}
		for _, item := range req.Items {
			input.Items = append(input.Items, internalorders.CreateOrderItemInput{
				ProductID:         item.ProductID,
				ProductName:       validators.SanitizeString(item.ProductName, maxTextField),
				Category:          validators.SanitizeString(item.Category, maxTextField),
				VariantName:       sanitizeOptional(item.VariantName, maxTextField),
				Qty:               item.Qty,
				UnitPriceCentavos: item.UnitPriceCentavos,
			})
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// List returns a back-office order page, newest first.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters, err := buildListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// Detail returns the full order with its line items.
func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// Timeline returns the order's full status history for back-office use.
func Timeline(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		events, err := svc.Timeline(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"events": events})
	}
}

// Transition applies a status change on behalf of the authenticated actor.
func Transition(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req transitionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requested, err := enums.ParseOrderStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").
				WithDetails(map[string]any{"field": "status"}))
			return
		}

		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Transition(r.Context(), internalorders.TransitionInput{
			OrderID:   orderID,
			Requested: requested,
			Actor:     actor,
			Note:      sanitizeOptional(req.Note, maxNoteField),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type publicTimelineEvent struct {
	Status enums.OrderStatus `json:"status"`
	Note   *string           `json:"note,omitempty"`
	At     time.Time         `json:"at"`
}

// PublicTimeline exposes order tracking by order number. It deliberately
// strips actor identity from the events.
func PublicTimeline(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderNumber := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "orderNumber")))
		events, err := svc.TimelineByNumber(r.Context(), orderNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := make([]publicTimelineEvent, 0, len(events))
		for _, event := range events {
			view = append(view, publicTimelineEvent{
				Status: event.ToStatus,
				Note:   event.Note,
				At:     event.CreatedAt,
			})
		}

		responses.WriteSuccess(w, map[string]any{
			"order_number": orderNumber,
			"events":       view,
		})
	}
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return orderID, nil
}

func actorFromContext(r *http.Request) (internalorders.ActorRef, error) {
	rawID := middleware.ActorIDFromContext(r.Context())
	actorID, err := uuid.Parse(rawID)
	if err != nil {
		return internalorders.ActorRef{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}

	role := enums.ActorRole(middleware.ActorRoleFromContext(r.Context()))
	if !role.IsValid() {
		role = enums.ActorRoleStaff
	}

	return internalorders.ActorRef{
		ID:   actorID,
		Name: middleware.ActorNameFromContext(r.Context()),
		Role: role,
	}, nil
}

func buildListFilters(r *http.Request) (internalorders.ListFilters, error) {
	var filters internalorders.ListFilters

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter").
				WithDetails(map[string]any{"field": "status"})
		}
		filters.Status = &status
	}

	from, err := parseDateParam(r, "date_from")
	if err != nil {
		return filters, err
	}
	filters.DateFrom = from

	to, err := parseDateParam(r, "date_to")
	if err != nil {
		return filters, err
	}
	if to != nil {
		// Inclusive end date: the filter itself is exclusive.
		end := to.AddDate(0, 0, 1)
		filters.DateTo = &end
	}

	return filters, nil
}

func parseDateParam(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date").
			WithDetails(map[string]any{"field": key, "format": "YYYY-MM-DD"})
	}
	return &parsed, nil
}

func sanitizeOptional(value *string, maxLen int) *string {
	if value == nil {
		return nil
	}
	clean := validators.SanitizeString(*value, maxLen)
	if clean == "" {
		return nil
	}
	return &clean
}
