// Package jobs holds the scheduled background work started by serve.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-app/internal/domain/orders"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StaleOrderSweeper cancels pending, unpaid orders older than maxAge and
// returns their items to stock.
type StaleOrderSweeper struct {
	db       *gorm.DB
	log      *zap.Logger
	schedule string
	maxAge   time.Duration
	now      func() time.Time

	cron *cron.Cron
}

func NewStaleOrderSweeper(db *gorm.DB, log *zap.Logger, schedule string, maxAge time.Duration) *StaleOrderSweeper {
	return &StaleOrderSweeper{
		db:       db,
		log:      log.Named("stale-orders"),
		schedule: schedule,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Start schedules the sweep. Runs stop when ctx is cancelled or Stop is called.
func (s *StaleOrderSweeper) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(s.schedule, func() {
		if ctx.Err() != nil {
			return
		}
		n, err := s.Sweep(ctx)
		if err != nil {
			s.log.Error("sweep failed", zap.Error(err))
			return
		}
		if n > 0 {
			s.log.Info("cancelled stale orders", zap.Int("count", n))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", s.schedule, err)
	}
	c.Start()
	s.cron = c
	s.log.Info("scheduled", zap.String("schedule", s.schedule), zap.Duration("max_age", s.maxAge))
	return nil
}

// Stop waits for a running sweep to finish.
func (s *StaleOrderSweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
}

// Sweep cancels every stale order once and returns how many it cancelled.
// An order paid between the scan and its cancellation is left alone.
func (s *StaleOrderSweeper) Sweep(ctx context.Context) (int, error) {
	now := s.now()
	cutoff := now.Add(-s.maxAge)

	var ids []string
	if err := s.db.WithContext(ctx).Model(&orders.Order{}).
		Where("status = ? AND payment_status = ? AND created_at < ?",
			orders.StatusPending, orders.PaymentUnpaid, cutoff).
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	cancelled := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return cancelled, ctx.Err()
		}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var o orders.Order
			if err := tx.Preload("Items").First(&o, "id = ?", id).Error; err != nil {
				return err
			}
			if o.Status != orders.StatusPending || o.PaymentStatus != orders.PaymentUnpaid {
				return errSkipped
			}
			return orders.Advance(tx, &o, orders.StatusCancelled, now)
		})
		switch {
		case err == nil:
			cancelled++
			s.log.Debug("cancelled", zap.String("order", id))
		case errors.Is(err, errSkipped), errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return cancelled, fmt.Errorf("cancel order %s: %w", id, err)
		}
	}
	return cancelled, nil
}

var errSkipped = errors.New("order no longer stale")
