/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the internal domain
  model from the external contract. Dates travel as canonical YYYY-MM-DD
  strings; money and hours travel as JSON numbers (converted from
  decimal at the boundary - the engine itself never does float math).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - ../schedule/pattern.go: The domain shapes behind them
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/brightfloor/shift-engine/payroll"
	"github.com/brightfloor/shift-engine/schedule"
)

// =============================================================================
// PATTERNS
// =============================================================================

// PatternDTO represents a recurring shift pattern in API responses.
type PatternDTO struct {
	ID           string   `json:"id"`
	BuildingID   string   `json:"building_id,omitempty"`
	BuildingName string   `json:"building_name"`
	ClientName   string   `json:"client_name"`
	Cleaners     []string `json:"cleaners"`

	Hours     float64 `json:"hours"`
	StartTime string  `json:"start_time,omitempty"`
	Notes     string  `json:"notes,omitempty"`

	PatternType string `json:"pattern_type"`
	Interval    int    `json:"interval,omitempty"`
	DaysOfWeek  []int  `json:"days_of_week,omitempty"`
	DayOfMonth  int    `json:"day_of_month,omitempty"`
	CustomDays  int    `json:"custom_days,omitempty"`

	StartDate      string  `json:"start_date"`
	EndDate        *string `json:"end_date,omitempty"`
	MaxOccurrences int     `json:"max_occurrences,omitempty"`

	IsActive          bool    `json:"is_active"`
	LastGeneratedDate *string `json:"last_generated_date,omitempty"`
	OccurrenceCount   int     `json:"occurrence_count"`

	PaymentType    string  `json:"payment_type"`
	HourlyRate     float64 `json:"hourly_rate,omitempty"`
	FlatRateAmount float64 `json:"flat_rate_amount,omitempty"`
}

// CreatePatternRequest is the request to create or replace a pattern.
type CreatePatternRequest struct {
	ID           string   `json:"id"`
	BuildingID   string   `json:"building_id"`
	BuildingName string   `json:"building_name"`
	ClientName   string   `json:"client_name"`
	Cleaners     []string `json:"cleaners"`

	Hours     float64 `json:"hours"`
	StartTime string  `json:"start_time"`
	Notes     string  `json:"notes"`

	PatternType string `json:"pattern_type"`
	Interval    int    `json:"interval"`
	DaysOfWeek  []int  `json:"days_of_week"`
	DayOfMonth  int    `json:"day_of_month"`
	CustomDays  int    `json:"custom_days"`

	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	MaxOccurrences int    `json:"max_occurrences"`

	PaymentType    string  `json:"payment_type"`
	HourlyRate     float64 `json:"hourly_rate"`
	FlatRateAmount float64 `json:"flat_rate_amount"`
}

// toPattern converts the request into a domain pattern. Date parsing
// errors are deferred to validation: an unparseable date leaves the
// field zero, which ValidatePattern reports as missing.
func (r *CreatePatternRequest) toPattern() *schedule.RecurringShiftPattern {
	p := &schedule.RecurringShiftPattern{
		ID:           r.ID,
		BuildingID:   r.BuildingID,
		BuildingName: r.BuildingName,
		ClientName:   r.ClientName,
		Cleaners:     r.Cleaners,

		Hours:     decimal.NewFromFloat(r.Hours),
		StartTime: r.StartTime,
		Notes:     r.Notes,

		Type:       schedule.PatternType(r.PatternType),
		Interval:   r.Interval,
		DaysOfWeek: r.DaysOfWeek,
		DayOfMonth: r.DayOfMonth,
		CustomDays: r.CustomDays,

		MaxOccurrences: r.MaxOccurrences,
		IsActive:       true,

		Payment:        schedule.PaymentType(r.PaymentType),
		HourlyRate:     decimal.NewFromFloat(r.HourlyRate),
		FlatRateAmount: decimal.NewFromFloat(r.FlatRateAmount),
	}
	if d, err := schedule.ParseDate(r.StartDate); err == nil {
		p.StartDate = d
	}
	if r.EndDate != "" {
		if d, err := schedule.ParseDate(r.EndDate); err == nil {
			p.EndDate = &d
		}
	}
	return p
}

func patternToDTO(p *schedule.RecurringShiftPattern) PatternDTO {
	dto := PatternDTO{
		ID:           p.ID,
		BuildingID:   p.BuildingID,
		BuildingName: p.BuildingName,
		ClientName:   p.ClientName,
		Cleaners:     p.Cleaners,

		Hours:     p.Hours.InexactFloat64(),
		StartTime: p.StartTime,
		Notes:     p.Notes,

		PatternType: string(p.Type),
		Interval:    p.Interval,
		DaysOfWeek:  p.DaysOfWeek,
		DayOfMonth:  p.DayOfMonth,
		CustomDays:  p.CustomDays,

		StartDate:      p.StartDate.String(),
		MaxOccurrences: p.MaxOccurrences,

		IsActive:        p.IsActive,
		OccurrenceCount: p.OccurrenceCount,

		PaymentType:    string(p.Payment),
		HourlyRate:     p.HourlyRate.InexactFloat64(),
		FlatRateAmount: p.FlatRateAmount.InexactFloat64(),
	}
	if p.EndDate != nil {
		s := p.EndDate.String()
		dto.EndDate = &s
	}
	if p.LastGenerated != nil {
		s := p.LastGenerated.String()
		dto.LastGeneratedDate = &s
	}
	return dto
}

// =============================================================================
// OCCURRENCES + ENTRIES
// =============================================================================

// OccurrenceDTO is one expanded occurrence date.
type OccurrenceDTO struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Number  int    `json:"occurrence_number"`
}

// EntryDTO represents a schedule entry in API responses.
type EntryDTO struct {
	ID          string `json:"id"`
	PatternID   string `json:"pattern_id,omitempty"`
	IsRecurring bool   `json:"is_recurring"`

	ClientName   string   `json:"client_name"`
	BuildingID   string   `json:"building_id,omitempty"`
	BuildingName string   `json:"building_name"`
	Cleaners     []string `json:"cleaners"`

	Date   string `json:"date"`
	Day    string `json:"day"`
	WeekID string `json:"week_id"`

	Hours     float64 `json:"hours"`
	StartTime string  `json:"start_time,omitempty"`
	EndTime   string  `json:"end_time,omitempty"`

	Status string `json:"status"`

	PaymentType    string  `json:"payment_type"`
	HourlyRate     float64 `json:"hourly_rate,omitempty"`
	FlatRateAmount float64 `json:"flat_rate_amount,omitempty"`
	BonusAmount    float64 `json:"bonus_amount,omitempty"`
	Deductions     float64 `json:"deductions,omitempty"`
	OvertimeRate   float64 `json:"overtime_rate"`
}

func entryToDTO(e schedule.ScheduleEntry) EntryDTO {
	return EntryDTO{
		ID:          e.ID,
		PatternID:   e.PatternID,
		IsRecurring: e.IsRecurring,

		ClientName:   e.ClientName,
		BuildingID:   e.BuildingID,
		BuildingName: e.BuildingName,
		Cleaners:     e.Cleaners,

		Date:   e.Date.String(),
		Day:    e.Day,
		WeekID: e.WeekID,

		Hours:     e.Hours.InexactFloat64(),
		StartTime: e.StartTime,
		EndTime:   e.EndTime,

		Status: string(e.Status),

		PaymentType:    string(e.Payment),
		HourlyRate:     e.HourlyRate.InexactFloat64(),
		FlatRateAmount: e.FlatRateAmount.InexactFloat64(),
		BonusAmount:    e.BonusAmount.InexactFloat64(),
		Deductions:     e.Deductions.InexactFloat64(),
		OvertimeRate:   e.OvertimeRate.InexactFloat64(),
	}
}

// UpdateEntryStatusRequest transitions an entry's lifecycle status.
type UpdateEntryStatusRequest struct {
	Status string `json:"status"`
}

// =============================================================================
// GENERATION + PAYROLL
// =============================================================================

// GenerateResponse reports what one generation pass did.
type GenerateResponse struct {
	PatternsChecked   int `json:"patterns_checked"`
	PatternsGenerated int `json:"patterns_generated"`
	EntriesCreated    int `json:"entries_created"`
}

// PayrollResultDTO mirrors payroll.Result with float fields.
type PayrollResultDTO struct {
	CleanerName   string  `json:"cleaner_name"`
	TotalHours    float64 `json:"total_hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	RegularPay    float64 `json:"regular_pay"`
	OvertimePay   float64 `json:"overtime_pay"`
	FlatRatePay   float64 `json:"flat_rate_pay"`
	TotalPay      float64 `json:"total_pay"`

	Breakdown []PayrollBreakdownDTO `json:"breakdown"`
}

// PayrollBreakdownDTO is one entry's share of a payroll result.
type PayrollBreakdownDTO struct {
	EntryID       string  `json:"entry_id"`
	Date          string  `json:"date"`
	WeekID        string  `json:"week_id"`
	FlatRate      bool    `json:"flat_rate"`
	Hours         float64 `json:"hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	Pay           float64 `json:"pay"`
}

func payrollToDTO(r payroll.Result) PayrollResultDTO {
	dto := PayrollResultDTO{
		CleanerName:   r.CleanerName,
		TotalHours:    r.TotalHours.InexactFloat64(),
		RegularHours:  r.RegularHours.InexactFloat64(),
		OvertimeHours: r.OvertimeHours.InexactFloat64(),
		RegularPay:    r.RegularPay.InexactFloat64(),
		OvertimePay:   r.OvertimePay.InexactFloat64(),
		FlatRatePay:   r.FlatRatePay.InexactFloat64(),
		TotalPay:      r.TotalPay.InexactFloat64(),
	}
	for _, b := range r.Breakdown {
		dto.Breakdown = append(dto.Breakdown, PayrollBreakdownDTO{
			EntryID:       b.EntryID,
			Date:          b.Date,
			WeekID:        b.WeekID,
			FlatRate:      b.FlatRate,
			Hours:         b.Hours.InexactFloat64(),
			RegularHours:  b.RegularHours.InexactFloat64(),
			OvertimeHours: b.OvertimeHours.InexactFloat64(),
			Pay:           b.Pay.InexactFloat64(),
		})
	}
	return dto
}

// StatsDTO mirrors payroll.Stats with float fields.
type StatsDTO struct {
	TotalEntries   int `json:"total_entries"`
	CompletedCount int `json:"completed_count"`
	PendingCount   int `json:"pending_count"`
	CancelledCount int `json:"cancelled_count"`

	UtilizationRate        float64 `json:"utilization_rate"`
	TotalHours             float64 `json:"total_hours"`
	AverageHoursPerCleaner float64 `json:"average_hours_per_cleaner"`

	HourlyJobCount   int     `json:"hourly_job_count"`
	FlatRateJobCount int     `json:"flat_rate_job_count"`
	HourlyPayTotal   float64 `json:"hourly_pay_total"`
	FlatRatePayTotal float64 `json:"flat_rate_pay_total"`

	BonusTotal     float64 `json:"bonus_total"`
	DeductionTotal float64 `json:"deduction_total"`

	// Quick dashboard estimate (per-entry daily-8h rule), NOT the
	// payroll-grade weekly figure.
	EstimatedOvertimePay float64 `json:"estimated_overtime_pay"`
}

func statsToDTO(st payroll.Stats) StatsDTO {
	return StatsDTO{
		TotalEntries:   st.TotalEntries,
		CompletedCount: st.CompletedCount,
		PendingCount:   st.PendingCount,
		CancelledCount: st.CancelledCount,

		UtilizationRate:        st.UtilizationRate.InexactFloat64(),
		TotalHours:             st.TotalHours.InexactFloat64(),
		AverageHoursPerCleaner: st.AverageHoursPerCleaner.InexactFloat64(),

		HourlyJobCount:   st.HourlyJobCount,
		FlatRateJobCount: st.FlatRateJobCount,
		HourlyPayTotal:   st.HourlyPayTotal.InexactFloat64(),
		FlatRatePayTotal: st.FlatRatePayTotal.InexactFloat64(),

		BonusTotal:     st.BonusTotal.InexactFloat64(),
		DeductionTotal: st.DeductionTotal.InexactFloat64(),

		EstimatedOvertimePay: st.EstimatedOvertimePay.InexactFloat64(),
	}
}
