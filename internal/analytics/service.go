package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/marvindelacruz/hardwarehub-backend/pkg/config"
	pkgerrors "github.com/marvindelacruz/hardwarehub-backend/pkg/errors"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/logger"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/metrics"
	goredis "github.com/marvindelacruz/hardwarehub-backend/pkg/redis"
)

const defaultWindowDays = 7

// Service builds sales reports over a rolling window.
type Service interface {
	SalesReport(ctx context.Context, days int) (*SalesReport, error)
}

type service struct {
	repo    Repository
	cache   goredis.ReportCache
	cfg     config.ReportsConfig
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the analytics service. The cache and metrics are
// optional; without a cache every report is computed from the database.
func NewService(repo Repository, cache goredis.ReportCache, cfg config.ReportsConfig, m *metrics.OrderMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		cache:   cache,
		cfg:     cfg,
		metrics: m,
		logg:    logg,
		now:     time.Now,
	}, nil
}

func (s *service) SalesReport(ctx context.Context, days int) (*SalesReport, error) {
	if days == 0 {
		days = defaultWindowDays
	}
	if days < 1 || days > s.cfg.MaxWindow {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("days must be between 1 and %d", s.cfg.MaxWindow))
	}

	start := s.now()
	window := NewWindow(start, days)

	if cached := s.fromCache(ctx, window); cached != nil {
		s.metrics.ObserveReportDuration("cache", s.now().Sub(start))
		return cached, nil
	}

	orders, err := s.repo.OrdersInWindow(ctx, window.From, window.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load report window")
	}
	previous, err := s.repo.OrdersInWindow(ctx, window.PreviousFrom, window.PreviousTo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comparison window")
	}

	report := BuildReport(window, orders, previous, s.cfg.TopProducts)
	s.toCache(ctx, window, report)
	s.metrics.ObserveReportDuration("db", s.now().Sub(start))
	return report, nil
}

func (s *service) fromCache(ctx context.Context, window Window) *SalesReport {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cacheKey(window))
	if err != nil {
		if !errors.Is(err, goredis.ErrNotFound) {
			s.logg.Error(ctx, "report cache read failed", err)
		}
		return nil
	}
	var report SalesReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		s.logg.Error(ctx, "report cache entry corrupt", err)
		return nil
	}
	return &report
}

func (s *service) toCache(ctx context.Context, window Window, report *SalesReport) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(window), payload, s.cfg.CacheTTL); err != nil {
		s.logg.Error(ctx, "report cache write failed", err)
	}
}

// cacheKey includes the window end so entries roll over at midnight UTC
// even before the TTL expires.
func (s *service) cacheKey(window Window) string {
	return s.cache.ReportKey(fmt.Sprintf("sales:%d:%s", window.Days, window.To.Format(dayFormat)))
}
