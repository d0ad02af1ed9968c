package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shashiranjanraj/dukaan/app/jobs"
	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/config"
	"github.com/shashiranjanraj/dukaan/pkg/logger"
	"github.com/shashiranjanraj/dukaan/pkg/metrics"
	"github.com/shashiranjanraj/dukaan/pkg/queue"
	"github.com/shashiranjanraj/dukaan/pkg/workerpool"
)

// AlertService is the single decision point for low-stock alerting.
// Every path that lowers or observes a quantity (order commit, manual
// adjustment, threshold edit, periodic sweep) funnels through Evaluate
// so the threshold and cooldown rules live in exactly one place.
type AlertService struct {
	stocks        *repositories.StockRepository
	notifications *repositories.NotificationRepository

	cooldown time.Duration
	now      func() time.Time
	dispatch func(job queue.Job) error
}

// NewAlertService builds the service with production wiring: cooldown
// from config, wall-clock time, and the queue as the delivery channel.
func NewAlertService() *AlertService {
	return &AlertService{
		stocks:        repositories.NewStockRepository(),
		notifications: repositories.NewNotificationRepository(),
		cooldown:      config.StockAlertCooldown(),
		now:           time.Now,
		dispatch:      queue.Dispatch,
	}
}

// WithCooldown overrides the cooldown window.
func (s *AlertService) WithCooldown(d time.Duration) *AlertService {
	s.cooldown = d
	return s
}

// WithClock overrides the time source.
func (s *AlertService) WithClock(now func() time.Time) *AlertService {
	s.now = now
	return s
}

// WithDispatcher overrides how delivery jobs are handed off.
func (s *AlertService) WithDispatcher(fn func(job queue.Job) error) *AlertService {
	s.dispatch = fn
	return s
}

// Evaluate checks one stock row against its effective threshold and fires
// an alert when warranted. The row must carry its Product association.
// Returns whether an alert fired.
//
// A notification row that cannot be written is logged and wrapped in
// ErrAlertPersistence; callers on the order path log it and keep the
// committed sale. Delivery happens asynchronously, so the cooldown stamp
// is written as soon as the row exists, regardless of email outcome.
func (s *AlertService) Evaluate(stock models.Stock) (bool, error) {
	min := stock.EffectiveMin()
	if min <= 0 {
		// Alerting disabled for this row.
		return false, nil
	}
	if stock.Quantity >= min {
		// At the threshold is stocked enough; only a strict breach fires.
		return false, nil
	}

	outletLabel := strconv.FormatUint(uint64(stock.OutletID), 10)

	now := s.now()
	if stock.LastAlertAt != nil && now.Sub(*stock.LastAlertAt) < s.cooldown {
		metrics.StockAlertsSuppressed.WithLabelValues(outletLabel).Inc()
		logger.Debug("alert: suppressed by cooldown",
			"stock_id", stock.ID,
			"product_id", stock.ProductID,
			"outlet_id", stock.OutletID,
			"last_alert_at", stock.LastAlertAt,
		)
		return false, nil
	}

	n := models.Notification{
		Type:  models.NotificationTypeLowStock,
		Title: fmt.Sprintf("Low stock: %s", stock.Product.Name),
		Message: fmt.Sprintf("%s is down to %d units at outlet %d (threshold %d).",
			stock.Product.Name, stock.Quantity, stock.OutletID, min),
		ProductID: &stock.ProductID,
		OutletID:  &stock.OutletID,
	}
	if err := s.notifications.Create(&n); err != nil {
		logger.Error("alert: notification write failed",
			"stock_id", stock.ID,
			"product_id", stock.ProductID,
			"outlet_id", stock.OutletID,
			"error", err,
		)
		return false, fmt.Errorf("%w: %v", ErrAlertPersistence, err)
	}

	// Best-effort delivery: the row above is the write of record. An
	// outlet with alerting switched off or no address keeps the in-app
	// row but gets no email.
	if stock.Outlet.AlertsEnabled && stock.Outlet.Email != "" {
		job := &jobs.StockAlertJob{
			NotificationID: n.ID,
			Recipient:      stock.Outlet.Email,
			ProductName:    stock.Product.Name,
			OutletName:     stock.Outlet.Name,
			Quantity:       stock.Quantity,
			Threshold:      min,
		}
		if err := s.dispatch(job); err != nil {
			logger.Warn("alert: delivery dispatch failed",
				"notification_id", n.ID, "error", err)
		}
	}

	// Stamp the cooldown even when dispatch failed: the in-app row exists
	// and a broken mailer must not turn into an alert storm.
	if err := s.stocks.StampLastAlert(stock.ID, now); err != nil {
		logger.Error("alert: cooldown stamp failed", "stock_id", stock.ID, "error", err)
	}

	metrics.StockAlertsFired.WithLabelValues(outletLabel).Inc()
	logger.Info("alert: fired",
		"stock_id", stock.ID,
		"product", stock.Product.Name,
		"outlet_id", stock.OutletID,
		"quantity", stock.Quantity,
		"threshold", min,
	)
	return true, nil
}

// EvaluateByID reloads the row fresh and evaluates it. Used by paths
// that only know the row ID.
func (s *AlertService) EvaluateByID(stockID uint) (bool, error) {
	stock, err := s.stocks.FindByID(stockID)
	if err != nil {
		return false, fmt.Errorf("alert: load stock %d: %w", stockID, err)
	}
	return s.Evaluate(stock)
}

// Sweep re-scans every stock row sitting below its threshold and
// evaluates each one. It backstops alerts missed while the process was
// down. Evaluation fans out over a small worker pool; rows inside their
// cooldown window come back suppressed, so running the sweep often is
// harmless.
func (s *AlertService) Sweep() error {
	stocks, err := s.stocks.AllBelowThreshold()
	if err != nil {
		return fmt.Errorf("alert: sweep scan: %w", err)
	}
	if len(stocks) == 0 {
		return nil
	}

	logger.Info("alert: sweep found breached rows", "count", len(stocks))

	pool := workerpool.New(4)
	for _, stock := range stocks {
		st := stock
		err := pool.Submit(func() {
			if _, err := s.Evaluate(st); err != nil {
				logger.Error("alert: sweep evaluation failed",
					"stock_id", st.ID, "error", err)
			}
		})
		if err != nil {
			// Pool saturated; evaluate inline rather than dropping the row.
			if _, evalErr := s.Evaluate(st); evalErr != nil {
				logger.Error("alert: sweep evaluation failed",
					"stock_id", st.ID, "error", evalErr)
			}
		}
	}
	pool.Shutdown()
	return nil
}
