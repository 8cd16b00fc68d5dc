package analytics

import (
	"time"

	"github.com/havenhouse/hms/internal/model"
)

// DashboardStats is the condensed overview shown on the dashboard
// landing page.
type DashboardStats struct {
	Applications ApplicationStats `json:"applications"`
	Residents    ResidentStats    `json:"residents"`
	Payments     PaymentStats     `json:"payments"`
	Occupancy    OccupancyReport  `json:"occupancy"`
}

type ApplicationStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	ThisWeek int `json:"this_week"`
}

type ResidentStats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	NewThisMonth int `json:"new_this_month"`
}

type PaymentStats struct {
	CollectedCents   int64 `json:"collected_cents"`
	OutstandingCents int64 `json:"outstanding_cents"`
	OverdueCents     int64 `json:"overdue_cents"`
}

// BuildDashboardStats reduces full snapshots to the landing-page
// overview. Same purity rules as BuildReport.
func BuildDashboardStats(apps []model.Application, residents []model.Resident, payments []model.Payment, now time.Time, capacity int) DashboardStats {
	weekAgo := now.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	appStats := ApplicationStats{Total: len(apps)}
	for _, a := range apps {
		if a.Status == model.ApplicationPending {
			appStats.Pending++
		}
		if !a.CreatedAt.Before(weekAgo) {
			appStats.ThisWeek++
		}
	}

	resStats := ResidentStats{Total: len(residents)}
	for _, r := range residents {
		if r.Status == model.ResidentActive {
			resStats.Active++
		}
		if !r.MoveInDate.Before(monthStart) {
			resStats.NewThisMonth++
		}
	}

	payStats := PaymentStats{}
	for _, p := range payments {
		switch p.Status {
		case model.PaymentPaid:
			payStats.CollectedCents += p.AmountCents
		case model.PaymentPending:
			payStats.OutstandingCents += p.AmountCents
		}
		if p.EffectiveStatus(now) == model.PaymentOverdue {
			payStats.OverdueCents += p.AmountCents
		}
	}

	return DashboardStats{
		Applications: appStats,
		Residents:    resStats,
		Payments:     payStats,
		Occupancy:    buildOccupancy(residents, capacity),
	}
}
