package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/marvindelacruz/hardwarehub-backend/pkg/db/models"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/enums"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/logger"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/metrics"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/sms"
)

// Dispatcher sends customer-facing messages for order status changes.
// Implementations are best-effort: a failed send is logged and counted but
// never surfaces to whoever triggered the status change.
type Dispatcher interface {
	Dispatch(ctx context.Context, order *models.Order, newStatus enums.OrderStatus, note *string)
}

// SMSDispatcher delivers messages through an SMS gateway in a background
// goroutine with its own timeout.
type SMSDispatcher struct {
	sender  sms.Sender
	logg    *logger.Logger
	metrics *metrics.OrderMetrics
	timeout time.Duration

	wg sync.WaitGroup
}

// NewSMSDispatcher builds the dispatcher. Metrics are optional.
func NewSMSDispatcher(sender sms.Sender, logg *logger.Logger, m *metrics.OrderMetrics, timeout time.Duration) (*SMSDispatcher, error) {
	if sender == nil {
		return nil, fmt.Errorf("sms sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SMSDispatcher{
		sender:  sender,
		logg:    logg,
		metrics: m,
		timeout: timeout,
	}, nil
}

func (d *SMSDispatcher) Dispatch(ctx context.Context, order *models.Order, newStatus enums.OrderStatus, note *string) {
	if order == nil || order.CustomerPhone == "" {
		return
	}
	message, ok := MessageFor(order, newStatus, note)
	if !ok {
		return
	}

	// Detach from the request so cancelling the caller only ever affects the
	// caller, not delivery of an already-committed change.
	base := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		sendCtx, cancel := context.WithTimeout(base, d.timeout)
		defer cancel()

		if err := d.sender.Send(sendCtx, order.CustomerPhone, message); err != nil {
			d.logg.Error(sendCtx, fmt.Sprintf("sms notification failed for order %s", order.OrderNumber), err)
			d.metrics.IncNotifyFailure()
		}
	}()
}

// Drain blocks until all in-flight sends finish. Called on shutdown.
func (d *SMSDispatcher) Drain() {
	d.wg.Wait()
}

// LogDispatcher stands in when no SMS gateway is provisioned. It writes the
// message it would have sent, which is all local development needs.
type LogDispatcher struct {
	logg *logger.Logger
}

func NewLogDispatcher(logg *logger.Logger) *LogDispatcher {
	return &LogDispatcher{logg: logg}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, order *models.Order, newStatus enums.OrderStatus, note *string) {
	if order == nil || d.logg == nil {
		return
	}
	message, ok := MessageFor(order, newStatus, note)
	if !ok {
		return
	}
	ctx = d.logg.WithOrderNumber(ctx, order.OrderNumber)
	d.logg.Info(ctx, "sms disabled, would have sent: "+message)
}
