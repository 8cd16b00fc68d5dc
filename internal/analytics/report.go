package analytics

import (
	"math"
	"time"

	"github.com/havenhouse/hms/internal/model"
)

// Timeframe selects the trailing window a report covers.
type Timeframe string

const (
	TimeframeMonth    Timeframe = "1m"
	Timeframe3Months  Timeframe = "3m"
	Timeframe6Months  Timeframe = "6m"
	TimeframeYear     Timeframe = "1y"
	TimeframeAll      Timeframe = "all"
	DefaultTimeframe            = Timeframe6Months
)

// allTimeStart anchors the "all" timeframe; there is no data before the
// house opened.
var allTimeStart = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// ParseTimeframe maps a query value onto a known timeframe, falling back
// to the default.
func ParseTimeframe(s string) Timeframe {
	switch Timeframe(s) {
	case TimeframeMonth, Timeframe3Months, Timeframe6Months, TimeframeYear, TimeframeAll:
		return Timeframe(s)
	default:
		return DefaultTimeframe
	}
}

// Start returns the beginning of the window relative to now.
func (tf Timeframe) Start(now time.Time) time.Time {
	switch tf {
	case TimeframeMonth:
		return now.AddDate(0, -1, 0)
	case Timeframe3Months:
		return now.AddDate(0, -3, 0)
	case Timeframe6Months:
		return now.AddDate(0, -6, 0)
	case TimeframeYear:
		return now.AddDate(0, -12, 0)
	default:
		return allTimeStart
	}
}

// Report is the full analytics structure rendered by the dashboard.
type Report struct {
	Timeframe    Timeframe         `json:"timeframe"`
	GeneratedAt  time.Time         `json:"generated_at"`
	Revenue      RevenueReport     `json:"revenue"`
	Occupancy    OccupancyReport   `json:"occupancy"`
	Applications ApplicationReport `json:"applications"`
	Payments     PaymentReport     `json:"payments"`
	Residents    ResidentReport    `json:"residents"`
}

type RevenueReport struct {
	TotalCents     int64          `json:"total_cents"`
	ThisMonthCents int64          `json:"this_month_cents"`
	LastMonthCents int64          `json:"last_month_cents"`
	GrowthPct      float64        `json:"growth_pct"`
	Monthly        []MonthRevenue `json:"monthly"`
}

type MonthRevenue struct {
	Month        string `json:"month"`
	RevenueCents int64  `json:"revenue_cents"`
}

type OccupancyReport struct {
	ActiveResidents int `json:"active_residents"`
	Capacity        int `json:"capacity"`
	Percentage      int `json:"percentage"`
}

type ApplicationReport struct {
	Total             int                 `json:"total"`
	Pending           int                 `json:"pending"`
	Approved          int                 `json:"approved"`
	Rejected          int                 `json:"rejected"`
	ConversionRatePct int                 `json:"conversion_rate_pct"`
	Monthly           []MonthApplications `json:"monthly"`
}

type MonthApplications struct {
	Month    string `json:"month"`
	Total    int    `json:"total"`
	Approved int    `json:"approved"`
	Rejected int    `json:"rejected"`
}

type PaymentReport struct {
	CollectedCents   int64 `json:"collected_cents"`
	OutstandingCents int64 `json:"outstanding_cents"`
	OverdueCents     int64 `json:"overdue_cents"`
	OnTimeRatePct    int   `json:"on_time_rate_pct"`
}

type ResidentReport struct {
	Total           int            `json:"total"`
	Active          int            `json:"active"`
	NewThisMonth    int            `json:"new_this_month"`
	StatusBreakdown map[string]int `json:"status_breakdown"`
}

// BuildReport aggregates full snapshots of applications, residents and
// payments into a report for the given window. Pure: inputs are not
// mutated and the result depends only on (records, timeframe, now,
// capacity). Empty inputs yield a zero-filled report.
func BuildReport(apps []model.Application, residents []model.Resident, payments []model.Payment, tf Timeframe, now time.Time, capacity int) Report {
	start := tf.Start(now)
	months := monthsBetween(start, now)

	return Report{
		Timeframe:    tf,
		GeneratedAt:  now,
		Revenue:      buildRevenue(payments, months, now),
		Occupancy:    buildOccupancy(residents, capacity),
		Applications: buildApplications(apps, months),
		Payments:     buildPayments(payments, now),
		Residents:    buildResidents(residents, now),
	}
}

func buildRevenue(payments []model.Payment, months []time.Time, now time.Time) RevenueReport {
	var total int64
	for _, p := range payments {
		if p.Status == model.PaymentPaid {
			total += p.AmountCents
		}
	}

	thisMonth := paidInMonth(payments, now)
	lastMonth := paidInMonth(payments, now.AddDate(0, -1, 0))

	monthly := make([]MonthRevenue, 0, len(months))
	for _, m := range months {
		monthly = append(monthly, MonthRevenue{
			Month:        m.Format("Jan 2006"),
			RevenueCents: paidInMonth(payments, m),
		})
	}

	return RevenueReport{
		TotalCents:     total,
		ThisMonthCents: thisMonth,
		LastMonthCents: lastMonth,
		GrowthPct:      growth(thisMonth, lastMonth),
		Monthly:        monthly,
	}
}

// paidInMonth sums paid payments whose paid date falls in the calendar
// month of ref. Payments without a paid date never land in a bucket.
func paidInMonth(payments []model.Payment, ref time.Time) int64 {
	var sum int64
	for _, p := range payments {
		if p.Status != model.PaymentPaid || p.PaidDate == nil {
			continue
		}
		if sameMonth(*p.PaidDate, ref) {
			sum += p.AmountCents
		}
	}
	return sum
}

// growth is the month-over-month change as a percentage. A zero previous
// month reads as 100% growth when anything was collected this month and
// 0% when nothing was; this mirrors how the dashboard has always shown
// it rather than a literal growth rate.
func growth(thisMonth, lastMonth int64) float64 {
	if lastMonth == 0 {
		if thisMonth == 0 {
			return 0
		}
		return 100
	}
	return float64(thisMonth-lastMonth) / float64(lastMonth) * 100
}

func buildOccupancy(residents []model.Resident, capacity int) OccupancyReport {
	active := 0
	for _, r := range residents {
		if r.Status == model.ResidentActive {
			active++
		}
	}
	pct := 0
	if capacity > 0 {
		pct = roundPct(active, capacity)
	}
	return OccupancyReport{ActiveResidents: active, Capacity: capacity, Percentage: pct}
}

func buildApplications(apps []model.Application, months []time.Time) ApplicationReport {
	report := ApplicationReport{}
	for _, a := range apps {
		report.Total++
		switch a.Status {
		case model.ApplicationPending:
			report.Pending++
		case model.ApplicationApproved:
			report.Approved++
		case model.ApplicationRejected:
			report.Rejected++
		}
	}

	if report.Total > 0 {
		report.ConversionRatePct = roundPct(report.Approved, report.Total)
	}

	report.Monthly = make([]MonthApplications, 0, len(months))
	for _, m := range months {
		bucket := MonthApplications{Month: m.Format("Jan 2006")}
		for _, a := range apps {
			if !sameMonth(a.CreatedAt, m) {
				continue
			}
			bucket.Total++
			switch a.Status {
			case model.ApplicationApproved:
				bucket.Approved++
			case model.ApplicationRejected:
				bucket.Rejected++
			}
		}
		report.Monthly = append(report.Monthly, bucket)
	}
	return report
}

func buildPayments(payments []model.Payment, now time.Time) PaymentReport {
	var collected, outstanding, overdue int64
	paid, onTime := 0, 0

	for _, p := range payments {
		switch p.Status {
		case model.PaymentPaid:
			collected += p.AmountCents
			paid++
			if p.PaidDate != nil && !p.PaidDate.After(p.DueDate) {
				onTime++
			}
		case model.PaymentPending:
			outstanding += p.AmountCents
		}
		if p.EffectiveStatus(now) == model.PaymentOverdue {
			overdue += p.AmountCents
		}
	}

	onTimeRate := 100
	if paid > 0 {
		onTimeRate = roundPct(onTime, paid)
	}

	return PaymentReport{
		CollectedCents:   collected,
		OutstandingCents: outstanding,
		OverdueCents:     overdue,
		OnTimeRatePct:    onTimeRate,
	}
}

func buildResidents(residents []model.Resident, now time.Time) ResidentReport {
	report := ResidentReport{
		StatusBreakdown: map[string]int{
			model.ResidentActive:   0,
			model.ResidentInactive: 0,
			model.ResidentMovedOut: 0,
		},
	}
	for _, r := range residents {
		report.Total++
		report.StatusBreakdown[r.Status]++
		if r.Status == model.ResidentActive {
			report.Active++
		}
		if sameMonth(r.MoveInDate, now) {
			report.NewThisMonth++
		}
	}
	return report
}

// monthsBetween lists the first day of every calendar month from start
// through end inclusive.
func monthsBetween(start, end time.Time) []time.Time {
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

	var months []time.Time
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func roundPct(num, den int) int {
	return int(math.Round(float64(num) / float64(den) * 100))
}
