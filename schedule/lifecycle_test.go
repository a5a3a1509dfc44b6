/*
lifecycle_test.go - Specification tests for activity checks and validation
*/
package schedule

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func validPattern() *RecurringShiftPattern {
	return &RecurringShiftPattern{
		ID:           "pat-1",
		BuildingName: "Harbor Tower",
		ClientName:   "Acme Property Group",
		Cleaners:     []string{"Maria Lopez", "Dan Kim"},
		Hours:        decimal.NewFromInt(4),
		StartTime:    "18:00",
		Type:         PatternWeekly,
		Interval:     1,
		DaysOfWeek:   []int{1, 3, 5},
		StartDate:    MustDate("2024-01-01"),
		IsActive:     true,
		Payment:      PaymentHourly,
		HourlyRate:   decimal.NewFromInt(18),
	}
}

// =============================================================================
// ACTIVITY
// =============================================================================

func TestIsActive(t *testing.T) {
	today := MustDate("2024-06-15")

	t.Run("active pattern", func(t *testing.T) {
		if !IsActive(validPattern(), today) {
			t.Error("structurally live pattern should be active")
		}
	})

	t.Run("flag cleared", func(t *testing.T) {
		p := validPattern()
		p.IsActive = false
		if IsActive(p, today) {
			t.Error("inactive flag must win")
		}
	})

	t.Run("before start", func(t *testing.T) {
		p := validPattern()
		p.StartDate = MustDate("2024-07-01")
		if IsActive(p, today) {
			t.Error("pattern not started yet")
		}
	})

	t.Run("after end", func(t *testing.T) {
		p := validPattern()
		end := MustDate("2024-06-01")
		p.EndDate = &end
		if IsActive(p, today) {
			t.Error("pattern ended")
		}
	})

	t.Run("end date is inclusive", func(t *testing.T) {
		p := validPattern()
		end := today
		p.EndDate = &end
		if !IsActive(p, today) {
			t.Error("pattern ending today is still active today")
		}
	})

	t.Run("occurrence cap reached", func(t *testing.T) {
		p := validPattern()
		p.MaxOccurrences = 10
		p.OccurrenceCount = 10
		if IsActive(p, today) {
			t.Error("cap reached, pattern exhausted")
		}
		p.OccurrenceCount = 9
		if !IsActive(p, today) {
			t.Error("one occurrence left, still active")
		}
	})
}

func TestNeedsGeneration(t *testing.T) {
	today := MustDate("2024-06-15")

	t.Run("inactive never needs generation", func(t *testing.T) {
		p := validPattern()
		p.IsActive = false
		if NeedsGeneration(p, today, 4) {
			t.Error("inactive pattern must not generate")
		}
	})

	t.Run("never generated always needs generation", func(t *testing.T) {
		if !NeedsGeneration(validPattern(), today, 4) {
			t.Error("fresh pattern needs its first generation")
		}
	})

	t.Run("marker inside horizon", func(t *testing.T) {
		p := validPattern()
		lg := today.AddDays(7) // only 1 week ahead of a 4-week horizon
		p.LastGenerated = &lg
		if !NeedsGeneration(p, today, 4) {
			t.Error("marker behind the rolling window needs generation")
		}
	})

	t.Run("marker past horizon", func(t *testing.T) {
		p := validPattern()
		lg := today.AddDays(7 * 5)
		p.LastGenerated = &lg
		if NeedsGeneration(p, today, 4) {
			t.Error("marker ahead of the window, nothing to do")
		}
	})
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidatePattern_ValidIsClean(t *testing.T) {
	report := ValidatePattern(validPattern())
	if !report.Valid {
		t.Fatalf("valid pattern rejected: %v", report.Errors)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("valid pattern must report no errors, got %v", report.Errors)
	}
}

func TestValidatePattern_Failures(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*RecurringShiftPattern)
		wantSub string
	}{
		{"missing id", func(p *RecurringShiftPattern) { p.ID = "" }, "id"},
		{"missing building", func(p *RecurringShiftPattern) { p.BuildingName, p.BuildingID = "", "" }, "building"},
		{"missing client", func(p *RecurringShiftPattern) { p.ClientName = "" }, "client"},
		{"missing cleaners", func(p *RecurringShiftPattern) { p.Cleaners = nil }, "cleaner"},
		{"zero hours", func(p *RecurringShiftPattern) { p.Hours = decimal.Zero }, "hours"},
		{"negative hours", func(p *RecurringShiftPattern) { p.Hours = decimal.NewFromInt(-2) }, "hours"},
		{"bad start time", func(p *RecurringShiftPattern) { p.StartTime = "25:99" }, "start_time"},
		{"unpadded start time", func(p *RecurringShiftPattern) { p.StartTime = "2:05" }, "start_time"},
		{"start time trailing garbage", func(p *RecurringShiftPattern) { p.StartTime = "12:34xyz" }, "start_time"},
		{"weekly without weekdays", func(p *RecurringShiftPattern) { p.DaysOfWeek = nil }, "days_of_week"},
		{"weekday out of range", func(p *RecurringShiftPattern) { p.DaysOfWeek = []int{7} }, "days_of_week"},
		{"zero interval", func(p *RecurringShiftPattern) { p.Interval = 0 }, "interval"},
		{"monthly without day", func(p *RecurringShiftPattern) {
			p.Type = PatternMonthly
			p.DayOfMonth = 0
		}, "day_of_month"},
		{"custom without step", func(p *RecurringShiftPattern) {
			p.Type = PatternCustom
			p.CustomDays = 0
		}, "custom_days"},
		{"unknown type", func(p *RecurringShiftPattern) { p.Type = "fortnightly" }, "pattern_type"},
		{"missing start date", func(p *RecurringShiftPattern) { p.StartDate = Date{} }, "start_date"},
		{"end before start", func(p *RecurringShiftPattern) {
			end := MustDate("2023-12-31")
			p.EndDate = &end
		}, "end_date"},
		{"negative max occurrences", func(p *RecurringShiftPattern) { p.MaxOccurrences = -1 }, "max_occurrences"},
		{"unknown payment type", func(p *RecurringShiftPattern) { p.Payment = "barter" }, "payment_type"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := validPattern()
			c.mutate(p)
			report := ValidatePattern(p)
			if report.Valid {
				t.Fatal("expected invalid")
			}
			found := false
			for _, e := range report.Errors {
				if strings.Contains(e, c.wantSub) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("errors %v should mention %q", report.Errors, c.wantSub)
			}
		})
	}
}

func TestValidatePattern_NilNeverPanics(t *testing.T) {
	report := ValidatePattern(nil)
	if report.Valid {
		t.Fatal("nil pattern cannot be valid")
	}
}
