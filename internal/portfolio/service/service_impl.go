package service

import (
	"context"
	"math"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	dashboarddomain "github.com/foundrylabs/venturedash/internal/dashboard/domain"
	"github.com/foundrylabs/venturedash/internal/integration"
	"github.com/foundrylabs/venturedash/internal/portfolio/domain"
	venturedomain "github.com/foundrylabs/venturedash/internal/venture/domain"
)

// fanOutLimit caps concurrent Stripe pulls across the portfolio.
const fanOutLimit = 4

type Params struct {
	fx.In

	Log       *zap.Logger
	Ventures  venturedomain.Service
	Dashboard dashboarddomain.Service
}

type service struct {
	log       *zap.Logger
	ventures  venturedomain.Service
	dashboard dashboarddomain.Service
}

func New(p Params) domain.Service {
	return &service{
		log:       p.Log.Named("portfolio.service"),
		ventures:  p.Ventures,
		dashboard: p.Dashboard,
	}
}

func (s *service) Overview(ctx context.Context) (*domain.Overview, error) {
	ventures, err := s.ventures.List(ctx)
	if err != nil {
		return nil, err
	}

	cards := make([]domain.VentureCard, len(ventures))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for i := range ventures {
		g.Go(func() error {
			card, err := s.card(gctx, ventures[i])
			if err != nil {
				return err
			}
			cards[i] = *card
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overview := &domain.Overview{Ventures: cards}
	overview.Totals.TotalVentures = len(cards)
	for _, card := range cards {
		overview.Totals.Signups += card.Signups
		if card.Integration.State != integration.StateReady {
			continue
		}
		overview.Totals.ReadyVentures++
		overview.Totals.MRR += card.MRR
		overview.Totals.ARR += card.ARR
		overview.Totals.TotalRevenue += card.TotalRevenue
	}
	overview.Totals.MRR = round2(overview.Totals.MRR)
	overview.Totals.ARR = round2(overview.Totals.ARR)
	overview.Totals.TotalRevenue = round2(overview.Totals.TotalRevenue)
	return overview, nil
}

func (s *service) card(ctx context.Context, venture venturedomain.Response) (*domain.VentureCard, error) {
	metrics, err := s.dashboard.VentureMetrics(ctx, venture.ID)
	if err != nil {
		return nil, err
	}

	card := &domain.VentureCard{
		ID:          venture.ID,
		Slug:        venture.Slug,
		Name:        venture.Name,
		Status:      venture.Status,
		Integration: metrics.Status,
		Signups:     metrics.Signups.Total,
		TargetARR:   float64(venture.TargetARR),
	}
	if metrics.Snapshot != nil {
		card.MRR = metrics.Snapshot.MRR
		card.ARR = metrics.Snapshot.ARR
		card.TotalRevenue = metrics.Snapshot.TotalRevenue
		if card.TargetARR > 0 {
			card.TargetProgress = round1(card.ARR / card.TargetARR * 100)
		}
	}
	return card, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
