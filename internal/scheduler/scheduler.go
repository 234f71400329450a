package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/kilimo-labs/sacco/internal/clock"
	invoicedomain "github.com/kilimo-labs/sacco/internal/invoice/domain"
	obsmetrics "github.com/kilimo-labs/sacco/internal/observability/metrics"
	saccodomain "github.com/kilimo-labs/sacco/internal/sacco/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	InvoiceSvc invoicedomain.Service
	Metrics    *obsmetrics.SweepMetrics `optional:"true"`
	Config     Config                   `optional:"true"`
}

// Scheduler drives the periodic late-fee sweep. Each pass charges the current
// late fee to every overdue unpaid invoice; there is no per-window guard, so
// shortening the interval charges members faster. That openness comes from
// the sweep contract itself, not from this loop.
type Scheduler struct {
	log        *zap.Logger
	cfg        Config
	clock      clock.Clock
	invoiceSvc invoicedomain.Service
	metrics    *obsmetrics.SweepMetrics

	stop chan struct{}
	done chan struct{}
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.InvoiceSvc == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:        p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:        p.Config.withDefaults(),
		clock:      p.Clock,
		invoiceSvc: p.InvoiceSvc,
		metrics:    p.Metrics,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}, nil
}

func (s *Scheduler) Start() {
	if !s.cfg.Enabled {
		s.log.Info("late-fee sweep disabled")
		close(s.done)
		return
	}

	go s.loop()
}

func (s *Scheduler) Stop(ctx context.Context) error {
	close(s.stop)
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.log.Info("late-fee sweep scheduled", zap.Duration("interval", s.cfg.Interval))
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.RunSweep(context.Background())
		}
	}
}

// RunSweep executes one sweep pass with the configured timeout.
func (s *Scheduler) RunSweep(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	s.metrics.IncRun()

	result, err := s.invoiceSvc.SweepLateFees(ctx)
	s.metrics.ObserveDuration(time.Since(start))
	if err != nil {
		// Nothing to sweep before initialization.
		if errors.Is(err, saccodomain.ErrNotInitialized) {
			s.log.Debug("sweep skipped, sacco not initialized")
			return
		}
		s.metrics.IncError()
		s.log.Error("late-fee sweep failed", zap.Error(err))
		return
	}

	s.metrics.AddCharged(result.InvoicesCharged)
	if result.InvoicesCharged > 0 {
		s.log.Info("late-fee sweep completed",
			zap.Int64("invoices_charged", result.InvoicesCharged),
			zap.Int64("late_fee", result.LateFee),
		)
	}
}
