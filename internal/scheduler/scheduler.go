// Package scheduler runs the periodic Stripe sync loop when SYNC_INTERVAL is
// set. Operator-triggered syncs go through the same service, so the loop is
// optional.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/foundrylabs/venturedash/internal/config"
	syncdomain "github.com/foundrylabs/venturedash/internal/stripesync/domain"
)

type Scheduler struct {
	log      *zap.Logger
	interval time.Duration
	sync     syncdomain.Service

	cancel context.CancelFunc
	done   chan struct{}
}

type Params struct {
	fx.In

	Log    *zap.Logger
	Config config.Config
	Sync   syncdomain.Service
}

func New(p Params) *Scheduler {
	return &Scheduler{
		log:      p.Log.Named("scheduler"),
		interval: p.Config.SyncInterval,
		sync:     p.Sync,
	}
}

func (s *Scheduler) Start() {
	if s.interval <= 0 {
		s.log.Info("sync loop disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
	s.log.Info("sync loop started", zap.Duration("interval", s.interval))
}

func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			summaries, err := s.sync.SyncAll(ctx)
			if err != nil {
				s.log.Error("scheduled sync failed", zap.Error(err))
				continue
			}
			failed := 0
			for _, summary := range summaries {
				if summary.Error != "" {
					failed++
				}
			}
			s.log.Info("scheduled sync completed",
				zap.Int("ventures", len(summaries)),
				zap.Int("failed", failed),
			)
		}
	}
}

var Module = fx.Module("scheduler",
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, s *Scheduler) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				s.Start()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				s.Stop()
				return nil
			},
		})
	}),
)
