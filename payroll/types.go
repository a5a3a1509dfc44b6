/*
Package payroll computes pay from schedule entries.

PURPOSE:
  Aggregates worked time into regular/overtime pay under a weekly-bucketed
  overtime rule, across mixed hourly and flat-rate compensation. All
  arithmetic uses decimal.Decimal; the package does no rounding or
  currency formatting (presentation concerns).

TWO OVERTIME DEFINITIONS COEXIST - ON PURPOSE:
  EntryPay uses a per-entry daily-8-hour overtime view, suitable only for
  single-entry display and the dashboard stats rollup. ForPeriod uses the
  authoritative weekly rule: overtime is whatever exceeds 40 hours within
  a Monday-Sunday week bucket. Dashboard figures and payroll figures are
  allowed to disagree; do not unify them.

SEE ALSO:
  - engine.go: The calculations
  - ../schedule/entry.go: The entry shape, the only contract shared with
    the scheduling half of the system
*/
package payroll

import "github.com/shopspring/decimal"

// Result is a per-cleaner payroll computation over a period.
type Result struct {
	CleanerName string `json:"cleaner_name"`

	TotalHours    decimal.Decimal `json:"total_hours"`    // hourly entries only
	RegularHours  decimal.Decimal `json:"regular_hours"`  // first 40h of each week
	OvertimeHours decimal.Decimal `json:"overtime_hours"` // past 40h in any week

	RegularPay  decimal.Decimal `json:"regular_pay"`
	OvertimePay decimal.Decimal `json:"overtime_pay"`
	FlatRatePay decimal.Decimal `json:"flat_rate_pay"`
	TotalPay    decimal.Decimal `json:"total_pay"` // regular + overtime + flat-rate

	Breakdown []EntryBreakdown `json:"breakdown"`
}

// EntryBreakdown records how one entry's hours and pay were apportioned.
type EntryBreakdown struct {
	EntryID       string          `json:"entry_id"`
	Date          string          `json:"date"`
	WeekID        string          `json:"week_id"`
	FlatRate      bool            `json:"flat_rate"`
	Hours         decimal.Decimal `json:"hours"`
	RegularHours  decimal.Decimal `json:"regular_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	Pay           decimal.Decimal `json:"pay"`
}

// Stats is the company-wide dashboard rollup. Its overtime figure is the
// NAIVE per-entry daily estimate, not the payroll-grade weekly number;
// see the package comment.
type Stats struct {
	TotalEntries   int `json:"total_entries"`
	CompletedCount int `json:"completed_count"`
	PendingCount   int `json:"pending_count"`
	CancelledCount int `json:"cancelled_count"`

	// UtilizationRate is completed/total entries (0 when empty).
	UtilizationRate decimal.Decimal `json:"utilization_rate"`

	TotalHours             decimal.Decimal `json:"total_hours"`
	AverageHoursPerCleaner decimal.Decimal `json:"average_hours_per_cleaner"`

	HourlyJobCount   int             `json:"hourly_job_count"`
	FlatRateJobCount int             `json:"flat_rate_job_count"`
	HourlyPayTotal   decimal.Decimal `json:"hourly_pay_total"`
	FlatRatePayTotal decimal.Decimal `json:"flat_rate_pay_total"`

	BonusTotal     decimal.Decimal `json:"bonus_total"`
	DeductionTotal decimal.Decimal `json:"deduction_total"`

	// EstimatedOvertimePay is the quick per-entry daily-8h estimate for
	// dashboarding only. Payroll uses ForPeriod's weekly figure.
	EstimatedOvertimePay decimal.Decimal `json:"estimated_overtime_pay"`
}

func newResult(cleaner string) Result {
	return Result{
		CleanerName:   cleaner,
		TotalHours:    decimal.Zero,
		RegularHours:  decimal.Zero,
		OvertimeHours: decimal.Zero,
		RegularPay:    decimal.Zero,
		OvertimePay:   decimal.Zero,
		FlatRatePay:   decimal.Zero,
		TotalPay:      decimal.Zero,
	}
}
