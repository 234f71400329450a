package scheduler

import (
	"context"

	appconfig "github.com/kilimo-labs/sacco/internal/config"
	obsmetrics "github.com/kilimo-labs/sacco/internal/observability/metrics"
	"go.uber.org/fx"
)

func NewConfig(cfg appconfig.Config) Config {
	return Config{
		Interval: cfg.SweepInterval,
		Enabled:  cfg.SweepEnabled,
	}
}

var Module = fx.Module("scheduler",
	fx.Provide(NewConfig),
	fx.Provide(obsmetrics.NewSweepMetrics),
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, s *Scheduler) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				s.Start()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return s.Stop(ctx)
			},
		})
	}),
)
