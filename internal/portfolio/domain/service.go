package domain

import (
	"context"

	"github.com/foundrylabs/venturedash/internal/integration"
)

type Service interface {
	// Overview aggregates every venture. Revenue totals only count ventures
	// whose integration is ready; signup totals count everyone, so a venture
	// mid-setup still shows traction.
	Overview(ctx context.Context) (*Overview, error)
}

type VentureCard struct {
	ID             string             `json:"id"`
	Slug           string             `json:"slug"`
	Name           string             `json:"name"`
	Status         string             `json:"status"`
	Integration    integration.Status `json:"integration"`
	MRR            float64            `json:"mrr"`
	ARR            float64            `json:"arr"`
	TotalRevenue   float64            `json:"total_revenue"`
	Signups        int64              `json:"signups"`
	TargetARR      float64            `json:"target_arr"`
	TargetProgress float64            `json:"target_progress"`
}

type Totals struct {
	MRR           float64 `json:"mrr"`
	ARR           float64 `json:"arr"`
	TotalRevenue  float64 `json:"total_revenue"`
	Signups       int64   `json:"signups"`
	ReadyVentures int     `json:"ready_ventures"`
	TotalVentures int     `json:"total_ventures"`
}

type Overview struct {
	Totals   Totals        `json:"totals"`
	Ventures []VentureCard `json:"ventures"`
}
