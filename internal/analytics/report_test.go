package analytics

import (
	"testing"
	"time"

	"github.com/havenhouse/hms/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestBuildReport_EmptyInputs(t *testing.T) {
	now := date(2024, time.June, 15)

	report := BuildReport(nil, nil, nil, Timeframe6Months, now, 35)

	if report.Revenue.TotalCents != 0 {
		t.Errorf("Revenue.TotalCents = %d, want 0", report.Revenue.TotalCents)
	}
	if report.Revenue.GrowthPct != 0 {
		t.Errorf("Revenue.GrowthPct = %v, want 0", report.Revenue.GrowthPct)
	}
	if report.Applications.ConversionRatePct != 0 {
		t.Errorf("ConversionRatePct = %d, want 0", report.Applications.ConversionRatePct)
	}
	if report.Payments.OnTimeRatePct != 100 {
		t.Errorf("OnTimeRatePct = %d, want 100 for zero paid payments", report.Payments.OnTimeRatePct)
	}
	// Dec 2023 through Jun 2024 inclusive.
	if len(report.Revenue.Monthly) != 7 {
		t.Errorf("len(Revenue.Monthly) = %d, want 7", len(report.Revenue.Monthly))
	}
	for _, m := range report.Revenue.Monthly {
		if m.RevenueCents != 0 {
			t.Errorf("month %s revenue = %d, want 0", m.Month, m.RevenueCents)
		}
	}
}

func TestBuildRevenue_TotalOnlyCountsPaid(t *testing.T) {
	now := date(2024, time.June, 15)
	payments := []model.Payment{
		{AmountCents: 50000, Status: model.PaymentPaid, DueDate: date(2024, time.June, 1), PaidDate: datePtr(2024, time.June, 2)},
		{AmountCents: 25000, Status: model.PaymentPaid, DueDate: date(2024, time.May, 1), PaidDate: datePtr(2024, time.May, 1)},
		{AmountCents: 99900, Status: model.PaymentPending, DueDate: date(2024, time.July, 1)},
	}

	report := BuildReport(nil, nil, payments, Timeframe3Months, now, 35)

	if got := report.Revenue.TotalCents; got != 75000 {
		t.Errorf("TotalCents = %d, want 75000", got)
	}

	// Adding a non-paid payment never changes the total.
	payments = append(payments, model.Payment{AmountCents: 123456, Status: model.PaymentOverdue, DueDate: date(2024, time.April, 1)})
	report = BuildReport(nil, nil, payments, Timeframe3Months, now, 35)
	if got := report.Revenue.TotalCents; got != 75000 {
		t.Errorf("TotalCents after non-paid append = %d, want 75000", got)
	}
}

func TestBuildRevenue_PaymentWithoutPaidDateSkipsBuckets(t *testing.T) {
	now := date(2024, time.June, 15)
	payments := []model.Payment{
		// Paid status but no paid date: counted in the total, never bucketed.
		{AmountCents: 40000, Status: model.PaymentPaid, DueDate: date(2024, time.June, 1)},
	}

	report := BuildReport(nil, nil, payments, TimeframeMonth, now, 35)

	if got := report.Revenue.TotalCents; got != 40000 {
		t.Errorf("TotalCents = %d, want 40000", got)
	}
	for _, m := range report.Revenue.Monthly {
		if m.RevenueCents != 0 {
			t.Errorf("month %s revenue = %d, want 0 without paid date", m.Month, m.RevenueCents)
		}
	}
	if report.Revenue.ThisMonthCents != 0 {
		t.Errorf("ThisMonthCents = %d, want 0 without paid date", report.Revenue.ThisMonthCents)
	}
}

func TestGrowth(t *testing.T) {
	tests := []struct {
		name      string
		thisMonth int64
		lastMonth int64
		want      float64
	}{
		{name: "both zero", thisMonth: 0, lastMonth: 0, want: 0},
		{name: "last zero this positive", thisMonth: 12345, lastMonth: 0, want: 100},
		{name: "doubled", thisMonth: 20000, lastMonth: 10000, want: 100},
		{name: "halved", thisMonth: 5000, lastMonth: 10000, want: -50},
		{name: "flat", thisMonth: 10000, lastMonth: 10000, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := growth(tt.thisMonth, tt.lastMonth); got != tt.want {
				t.Errorf("growth(%d, %d) = %v, want %v", tt.thisMonth, tt.lastMonth, got, tt.want)
			}
		})
	}
}

func TestMonthsBetween_InclusiveBounds(t *testing.T) {
	months := monthsBetween(date(2024, time.January, 20), date(2024, time.April, 3))

	if len(months) != 4 {
		t.Fatalf("len = %d, want 4", len(months))
	}
	if months[0].Format("Jan 2006") != "Jan 2024" {
		t.Errorf("first = %s, want Jan 2024", months[0].Format("Jan 2006"))
	}
	if months[3].Format("Jan 2006") != "Apr 2024" {
		t.Errorf("last = %s, want Apr 2024", months[3].Format("Jan 2006"))
	}
}

func TestBuildOccupancy(t *testing.T) {
	residents := make([]model.Resident, 0, 30)
	for i := 0; i < 28; i++ {
		residents = append(residents, model.Resident{Status: model.ResidentActive})
	}
	residents = append(residents,
		model.Resident{Status: model.ResidentMovedOut},
		model.Resident{Status: model.ResidentInactive},
	)

	occ := buildOccupancy(residents, 35)

	if occ.ActiveResidents != 28 {
		t.Errorf("ActiveResidents = %d, want 28", occ.ActiveResidents)
	}
	if occ.Percentage != 80 {
		t.Errorf("Percentage = %d, want 80", occ.Percentage)
	}
}

func TestBuildApplications_ConversionRate(t *testing.T) {
	now := date(2024, time.June, 15)
	apps := []model.Application{
		{Status: model.ApplicationApproved, CreatedAt: date(2024, time.May, 1)},
		{Status: model.ApplicationApproved, CreatedAt: date(2024, time.May, 10)},
		{Status: model.ApplicationPending, CreatedAt: date(2024, time.June, 1)},
		{Status: model.ApplicationRejected, CreatedAt: date(2024, time.June, 5)},
	}

	report := BuildReport(apps, nil, nil, Timeframe3Months, now, 35)

	if report.Applications.Total != 4 {
		t.Errorf("Total = %d, want 4", report.Applications.Total)
	}
	if report.Applications.ConversionRatePct != 50 {
		t.Errorf("ConversionRatePct = %d, want 50", report.Applications.ConversionRatePct)
	}
	if report.Applications.Pending != 1 || report.Applications.Approved != 2 || report.Applications.Rejected != 1 {
		t.Errorf("breakdown = %+v", report.Applications)
	}
}

func TestBuildPayments_OverdueIncludesPastDuePending(t *testing.T) {
	now := date(2024, time.February, 1)
	payments := []model.Payment{
		{AmountCents: 500, Status: model.PaymentPending, DueDate: date(2024, time.January, 1)},
	}

	report := BuildReport(nil, nil, payments, TimeframeAll, now, 35)

	if report.Payments.OverdueCents != 500 {
		t.Errorf("OverdueCents = %d, want 500", report.Payments.OverdueCents)
	}
	// The stored status stays pending; only the derived view is overdue.
	if payments[0].Status != model.PaymentPending {
		t.Errorf("stored status mutated to %q", payments[0].Status)
	}
	if report.Payments.OutstandingCents != 500 {
		t.Errorf("OutstandingCents = %d, want 500", report.Payments.OutstandingCents)
	}
}

func TestBuildPayments_OnTimeRate(t *testing.T) {
	now := date(2024, time.June, 15)
	payments := []model.Payment{
		{AmountCents: 1000, Status: model.PaymentPaid, DueDate: date(2024, time.May, 1), PaidDate: datePtr(2024, time.April, 30)},
		{AmountCents: 1000, Status: model.PaymentPaid, DueDate: date(2024, time.May, 1), PaidDate: datePtr(2024, time.May, 1)},
		{AmountCents: 1000, Status: model.PaymentPaid, DueDate: date(2024, time.May, 1), PaidDate: datePtr(2024, time.May, 3)},
	}

	report := BuildReport(nil, nil, payments, Timeframe3Months, now, 35)

	if report.Payments.OnTimeRatePct != 67 {
		t.Errorf("OnTimeRatePct = %d, want 67", report.Payments.OnTimeRatePct)
	}
}

func TestParseTimeframe(t *testing.T) {
	tests := []struct {
		in   string
		want Timeframe
	}{
		{"1m", TimeframeMonth},
		{"3m", Timeframe3Months},
		{"6m", Timeframe6Months},
		{"1y", TimeframeYear},
		{"all", TimeframeAll},
		{"", DefaultTimeframe},
		{"bogus", DefaultTimeframe},
	}
	for _, tt := range tests {
		if got := ParseTimeframe(tt.in); got != tt.want {
			t.Errorf("ParseTimeframe(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
