/*
engine.go - Pay calculation over schedule entries

PURPOSE:
  Implements the payroll calculations:
  - EntryPay: per-entry pay with a daily-8h overtime view (display only)
  - ForPeriod: authoritative per-cleaner payroll with weekly 40h bucketing
  - Summary: per-cleaner fan-out of ForPeriod
  - ScheduleStats: company-wide dashboard rollup (naive overtime estimate)

WEEKLY ALLOCATION:
  Within a week bucket, each hourly entry's hours are apportioned between
  the regular and overtime buckets in the order encountered: the first 40
  cumulative hours are paid at each entry's own rate, the remainder at
  that entry's rate times its overtime multiplier. Two entries in the
  same week can carry different rates, so the overtime premium is paid at
  the rate of whichever entry's hours cross the 40-hour mark.

FLAT-RATE ISOLATION:
  Flat-rate entries contribute their fixed pay to FlatRatePay only; they
  never enter the hour totals or the 40-hour accumulator.

SEE ALSO:
  - types.go: Result/Stats shapes and the two-overtime-definitions note
*/
package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/brightfloor/shift-engine/schedule"
)

var (
	weeklyOvertimeThreshold = decimal.NewFromInt(40)
	dailyOvertimeThreshold  = decimal.NewFromInt(8)
)

// entryRate resolves the hourly rate for an entry, falling back to the
// caller's default when the entry carries none.
func entryRate(e *schedule.ScheduleEntry, defaultRate decimal.Decimal) decimal.Decimal {
	if e.HourlyRate.IsPositive() {
		return e.HourlyRate
	}
	return defaultRate
}

// entryOvertimeRate resolves the overtime multiplier (default 1.5).
func entryOvertimeRate(e *schedule.ScheduleEntry) decimal.Decimal {
	if e.OvertimeRate.IsPositive() {
		return e.OvertimeRate
	}
	return schedule.DefaultOvertimeRate
}

// =============================================================================
// PER-ENTRY PAY (display estimate)
// =============================================================================

// EntryPay computes a single entry's pay in isolation. Hourly entries use
// a per-entry daily-8-hour overtime split; this is a display
// simplification, NOT the payroll rule. Period aggregation must go
// through ForPeriod instead.
func EntryPay(e *schedule.ScheduleEntry, defaultRate decimal.Decimal) decimal.Decimal {
	if e == nil {
		return decimal.Zero
	}

	adjustments := e.BonusAmount.Sub(e.Deductions)

	if e.Payment == schedule.PaymentFlatRate {
		return e.FlatRateAmount.Add(adjustments)
	}

	rate := entryRate(e, defaultRate)
	regular := decimal.Min(e.Hours, dailyOvertimeThreshold)
	overtime := decimal.Max(e.Hours.Sub(dailyOvertimeThreshold), decimal.Zero)
	return regular.Mul(rate).
		Add(overtime.Mul(rate).Mul(entryOvertimeRate(e))).
		Add(adjustments)
}

// =============================================================================
// PERIOD PAYROLL (authoritative weekly rule)
// =============================================================================

// ForPeriod computes a cleaner's payroll over the given entries.
//
// Entries are filtered to those listing cleanerName, grouped into
// Monday-anchored week buckets, and each week's hourly hours are split at
// the 40-hour mark. Flat-rate entries bypass the hour accounting
// entirely. TotalPay = RegularPay + OvertimePay + FlatRatePay; per-entry
// bonus/deduction adjustments ride along with the bucket the entry's pay
// lands in (regular for hourly, flat-rate for flat).
func ForPeriod(entries []schedule.ScheduleEntry, cleanerName string, defaultRate decimal.Decimal) Result {
	res := newResult(cleanerName)

	// Group by week bucket, preserving encounter order both across weeks
	// and within each week: allocation order is part of the contract.
	weekOrder := make([]string, 0)
	weeks := make(map[string][]schedule.ScheduleEntry)
	for _, e := range entries {
		if !e.HasCleaner(cleanerName) {
			continue
		}
		wk := e.WeekID
		if wk == "" {
			wk = e.Date.WeekKey()
		}
		if _, seen := weeks[wk]; !seen {
			weekOrder = append(weekOrder, wk)
		}
		weeks[wk] = append(weeks[wk], e)
	}

	for _, wk := range weekOrder {
		worked := decimal.Zero // cumulative hourly hours this week

		for i := range weeks[wk] {
			e := weeks[wk][i]
			adjustments := e.BonusAmount.Sub(e.Deductions)

			if e.Payment == schedule.PaymentFlatRate {
				pay := e.FlatRateAmount.Add(adjustments)
				res.FlatRatePay = res.FlatRatePay.Add(pay)
				res.Breakdown = append(res.Breakdown, EntryBreakdown{
					EntryID:       e.ID,
					Date:          e.Date.String(),
					WeekID:        wk,
					FlatRate:      true,
					Hours:         e.Hours,
					RegularHours:  decimal.Zero,
					OvertimeHours: decimal.Zero,
					Pay:           pay,
				})
				continue
			}

			rate := entryRate(&e, defaultRate)

			// Regular portion: whatever fits under the week's remaining
			// regular headroom. Everything past it is overtime at THIS
			// entry's rate and multiplier.
			headroom := decimal.Max(weeklyOvertimeThreshold.Sub(worked), decimal.Zero)
			regularHours := decimal.Min(e.Hours, headroom)
			overtimeHours := e.Hours.Sub(regularHours)
			worked = worked.Add(e.Hours)

			regularPay := regularHours.Mul(rate).Add(adjustments)
			overtimePay := overtimeHours.Mul(rate).Mul(entryOvertimeRate(&e))

			res.TotalHours = res.TotalHours.Add(e.Hours)
			res.RegularHours = res.RegularHours.Add(regularHours)
			res.OvertimeHours = res.OvertimeHours.Add(overtimeHours)
			res.RegularPay = res.RegularPay.Add(regularPay)
			res.OvertimePay = res.OvertimePay.Add(overtimePay)

			res.Breakdown = append(res.Breakdown, EntryBreakdown{
				EntryID:       e.ID,
				Date:          e.Date.String(),
				WeekID:        wk,
				Hours:         e.Hours,
				RegularHours:  regularHours,
				OvertimeHours: overtimeHours,
				Pay:           regularPay.Add(overtimePay),
			})
		}
	}

	res.TotalPay = res.RegularPay.Add(res.OvertimePay).Add(res.FlatRatePay)
	return res
}

// Summary fans ForPeriod out across cleaners, omitting cleaners with
// zero hours and zero flat-rate pay.
func Summary(entries []schedule.ScheduleEntry, cleanerNames []string, defaultRate decimal.Decimal) map[string]Result {
	out := make(map[string]Result, len(cleanerNames))
	for _, name := range cleanerNames {
		r := ForPeriod(entries, name, defaultRate)
		if r.TotalHours.IsZero() && r.FlatRatePay.IsZero() {
			continue
		}
		out[name] = r
	}
	return out
}

// =============================================================================
// DASHBOARD STATS (quick estimate, not payroll grade)
// =============================================================================

// ScheduleStats rolls entries up into company-wide dashboard totals. Its
// overtime estimate applies EntryPay's per-entry daily-8h view; the
// payroll-grade weekly number comes from ForPeriod and the two may
// legitimately disagree.
func ScheduleStats(entries []schedule.ScheduleEntry) Stats {
	st := Stats{
		UtilizationRate:        decimal.Zero,
		TotalHours:             decimal.Zero,
		AverageHoursPerCleaner: decimal.Zero,
		HourlyPayTotal:         decimal.Zero,
		FlatRatePayTotal:       decimal.Zero,
		BonusTotal:             decimal.Zero,
		DeductionTotal:         decimal.Zero,
		EstimatedOvertimePay:   decimal.Zero,
	}

	cleaners := make(map[string]struct{})
	for i := range entries {
		e := entries[i]
		st.TotalEntries++

		switch e.Status {
		case schedule.StatusCompleted:
			st.CompletedCount++
		case schedule.StatusCancelled:
			st.CancelledCount++
		default:
			st.PendingCount++
		}

		for _, c := range e.Cleaners {
			cleaners[c] = struct{}{}
		}

		st.BonusTotal = st.BonusTotal.Add(e.BonusAmount)
		st.DeductionTotal = st.DeductionTotal.Add(e.Deductions)

		if e.Payment == schedule.PaymentFlatRate {
			st.FlatRateJobCount++
			st.FlatRatePayTotal = st.FlatRatePayTotal.Add(EntryPay(&e, decimal.Zero))
			continue
		}

		st.HourlyJobCount++
		st.TotalHours = st.TotalHours.Add(e.Hours)
		st.HourlyPayTotal = st.HourlyPayTotal.Add(EntryPay(&e, decimal.Zero))

		over := decimal.Max(e.Hours.Sub(dailyOvertimeThreshold), decimal.Zero)
		st.EstimatedOvertimePay = st.EstimatedOvertimePay.
			Add(over.Mul(entryRate(&e, decimal.Zero)).Mul(entryOvertimeRate(&e)))
	}

	if st.TotalEntries > 0 {
		st.UtilizationRate = decimal.NewFromInt(int64(st.CompletedCount)).
			Div(decimal.NewFromInt(int64(st.TotalEntries)))
	}
	if len(cleaners) > 0 {
		st.AverageHoursPerCleaner = st.TotalHours.
			Div(decimal.NewFromInt(int64(len(cleaners))))
	}
	return st
}
