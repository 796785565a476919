package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	activitydomain "github.com/foundrylabs/venturedash/internal/activity/domain"
	"github.com/foundrylabs/venturedash/internal/clock"
	"github.com/foundrylabs/venturedash/internal/config"
	"github.com/foundrylabs/venturedash/internal/dashboard/domain"
	revenuedomain "github.com/foundrylabs/venturedash/internal/revenue/domain"
	signupdomain "github.com/foundrylabs/venturedash/internal/signup/domain"
	"github.com/foundrylabs/venturedash/internal/snapshot"
	venturedomain "github.com/foundrylabs/venturedash/internal/venture/domain"
)

const recentActivityLimit = 20

type Params struct {
	fx.In

	Log      *zap.Logger
	Holder   *config.PortfolioConfigHolder
	Clock    clock.Clock
	Fetcher  *snapshot.Fetcher
	Ventures venturedomain.Service
	Signups  signupdomain.Service
	Revenue  revenuedomain.Service
	Activity activitydomain.Service
}

type service struct {
	log      *zap.Logger
	holder   *config.PortfolioConfigHolder
	clock    clock.Clock
	fetcher  *snapshot.Fetcher
	ventures venturedomain.Service
	signups  signupdomain.Service
	revenue  revenuedomain.Service
	activity activitydomain.Service
}

func New(p Params) domain.Service {
	return &service{
		log:      p.Log.Named("dashboard.service"),
		holder:   p.Holder,
		clock:    p.Clock,
		fetcher:  p.Fetcher,
		ventures: p.Ventures,
		signups:  p.Signups,
		revenue:  p.Revenue,
		activity: p.Activity,
	}
}

func (s *service) VentureMetrics(ctx context.Context, ventureID string) (*domain.Metrics, error) {
	venture, err := s.ventures.Get(ctx, ventureID)
	if err != nil {
		return nil, err
	}

	creds, err := s.ventures.Credentials(ctx, ventureID)
	if err != nil {
		return nil, err
	}
	result := s.fetcher.Fetch(ctx, snapshot.Credentials{
		SecretKey:     creds.SecretKey,
		WebhookSecret: creds.WebhookSecret,
		TargetARR:     venture.TargetARR,
	})

	stats, err := s.signups.Stats(ctx, creds.VentureID)
	if err != nil {
		return nil, err
	}

	cfg := s.holder.Current()
	now := s.clock.Now().UTC()

	daily, err := s.dailySignups(ctx, creds.VentureID, now, cfg.DailySignupWindowDays)
	if err != nil {
		return nil, err
	}
	monthly, err := s.monthlyRevenue(ctx, creds.VentureID, now, cfg.MonthlyRevenueWindowMonths)
	if err != nil {
		return nil, err
	}

	trackedCents, err := s.revenue.TotalCents(ctx, creds.VentureID)
	if err != nil {
		return nil, err
	}

	recent, err := s.activity.Recent(ctx, creds.VentureID, recentActivityLimit)
	if err != nil {
		return nil, err
	}

	return &domain.Metrics{
		Venture:        *venture,
		Status:         result.Status,
		Snapshot:       result.Snapshot,
		Signups:        summarize(stats),
		TrackedRevenue: float64(trackedCents) / 100,
		DailySignups:   daily,
		MonthlyRevenue: monthly,
		RecentActivity: recent,
	}, nil
}

// dailySignups zero-fills the window so the chart always spans every day,
// ending today.
func (s *service) dailySignups(ctx context.Context, ventureID int64, now time.Time, windowDays int) ([]domain.DailyPoint, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(windowDays - 1))

	counts, err := s.signups.CountByDay(ctx, ventureID, since)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]int64, len(counts))
	for _, c := range counts {
		byDay[c.Day.Format("2006-01-02")] = c.Count
	}

	points := make([]domain.DailyPoint, 0, windowDays)
	for day := since; !day.After(today); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		points = append(points, domain.DailyPoint{Date: key, Count: byDay[key]})
	}
	return points, nil
}

// monthlyRevenue zero-fills the window of calendar months ending with the
// current one. Amounts are dollars.
func (s *service) monthlyRevenue(ctx context.Context, ventureID int64, now time.Time, windowMonths int) ([]domain.MonthlyPoint, error) {
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	since := currentMonth.AddDate(0, -(windowMonths - 1), 0)

	totals, err := s.revenue.TotalsByMonth(ctx, ventureID, since)
	if err != nil {
		return nil, err
	}
	byMonth := make(map[string]int64, len(totals))
	for _, t := range totals {
		byMonth[t.Month.Format("2006-01")] = t.AmountCents
	}

	points := make([]domain.MonthlyPoint, 0, windowMonths)
	for month := since; !month.After(currentMonth); month = month.AddDate(0, 1, 0) {
		key := month.Format("2006-01")
		points = append(points, domain.MonthlyPoint{
			Month:  key,
			Amount: math.Round(float64(byMonth[key])) / 100,
		})
	}
	return points, nil
}

func summarize(stats signupdomain.Stats) domain.SignupSummary {
	summary := domain.SignupSummary{
		Total:   stats.Total,
		Active:  stats.Active,
		Paying:  stats.Paying,
		Churned: stats.Churned,
	}
	if stats.Total > 0 {
		summary.ConversionRate = math.Round(float64(stats.Paying)/float64(stats.Total)*1000) / 10
	}
	return summary
}
