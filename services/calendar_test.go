package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monday 2024-06-10, the reference day used across the calendar tests
var testToday = time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC)

func findDay(t *testing.T, cal *Calendar, date string) CalendarDay {
	t.Helper()
	for _, day := range cal.Days {
		if day.Date == date {
			return day
		}
	}
	t.Fatalf("Day %s not found in calendar", date)
	return CalendarDay{}
}

func TestGenerateCalendarGrid(t *testing.T) {
	cal, err := GenerateCalendar(6, 2024, testToday)
	require.NoError(t, err)

	assert.Equal(t, 6, cal.Month)
	assert.Equal(t, 2024, cal.Year)
	assert.Equal(t, "June", cal.MonthName)
	assert.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, cal.WeekDays)

	// The grid is padded to whole weeks
	assert.Equal(t, 0, len(cal.Days)%7, "Day count should be a multiple of 7")

	// June 2024 starts on a Saturday and ends on a Sunday: 6 weeks
	assert.Len(t, cal.Days, 42)
	assert.Equal(t, "2024-05-26", cal.Days[0].Date, "Grid should start on the preceding Sunday")
	assert.Equal(t, "2024-07-06", cal.Days[len(cal.Days)-1].Date, "Grid should end on the following Saturday")

	// Every day of the requested month is present and flagged as current
	for day := 1; day <= 30; day++ {
		d := findDay(t, cal, time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"))
		assert.True(t, d.IsCurrentMonth, "June day %d should be flagged as current month", day)
	}

	// Padding days are not part of the current month
	assert.False(t, cal.Days[0].IsCurrentMonth)
	assert.False(t, cal.Days[len(cal.Days)-1].IsCurrentMonth)
}

func TestGenerateCalendarAvailability(t *testing.T) {
	cal, err := GenerateCalendar(6, 2024, testToday)
	require.NoError(t, err)

	tests := []struct {
		date      string
		available bool
		status    string
	}{
		{"2024-06-09", false, "past"},     // yesterday (a Sunday, but past wins)
		{"2024-06-10", false, "too_soon"}, // today
		{"2024-06-11", false, "too_soon"}, // tomorrow
		{"2024-06-12", true, "available"}, // first bookable day
		{"2024-06-16", false, "weekend"},  // Sunday six days out
		{"2024-06-23", false, "weekend"},
		{"2024-06-30", false, "weekend"},
		{"2024-06-15", true, "available"}, // Saturday is fine
	}

	for _, tt := range tests {
		day := findDay(t, cal, tt.date)
		assert.Equal(t, tt.available, day.IsAvailable, "availability of %s", tt.date)
		assert.Equal(t, tt.status, day.Status, "status of %s", tt.date)
		if !tt.available {
			assert.NotEmpty(t, day.Reason, "unavailable day %s should carry a reason", tt.date)
		}
	}
}

func TestGenerateCalendarSundaysNeverAvailable(t *testing.T) {
	// Every Sunday is unavailable regardless of lead time, in every month
	// of the allowed window
	for month := 1; month <= 12; month++ {
		cal, err := GenerateCalendar(month, 2025, testToday)
		require.NoError(t, err)

		for _, day := range cal.Days {
			parsed, err := time.Parse("2006-01-02", day.Date)
			require.NoError(t, err)
			if parsed.Weekday() == time.Sunday {
				assert.False(t, day.IsAvailable, "Sunday %s should not be available", day.Date)
			}
		}
	}
}

func TestGenerateCalendarMonthNavigation(t *testing.T) {
	jan, err := GenerateCalendar(1, 2025, testToday)
	require.NoError(t, err)
	assert.Equal(t, 12, jan.PrevMonth)
	assert.Equal(t, 2024, jan.PrevYear)
	assert.Equal(t, 2, jan.NextMonth)
	assert.Equal(t, 2025, jan.NextYear)

	dec, err := GenerateCalendar(12, 2024, testToday)
	require.NoError(t, err)
	assert.Equal(t, 11, dec.PrevMonth)
	assert.Equal(t, 2024, dec.PrevYear)
	assert.Equal(t, 1, dec.NextMonth)
	assert.Equal(t, 2025, dec.NextYear)
}

func TestGenerateCalendarValidation(t *testing.T) {
	tests := []struct {
		name  string
		month int
		year  int
	}{
		{"month zero", 0, 2024},
		{"month thirteen", 13, 2024},
		{"negative month", -1, 2024},
		{"year in the past", 6, 2023},
		{"year too far ahead", 6, 2027},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal, err := GenerateCalendar(tt.month, tt.year, testToday)
			assert.Nil(t, cal)

			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestAllTimeSlots(t *testing.T) {
	slots := AllTimeSlots()

	assert.Len(t, slots, 12, "Expected 12 slots: hourly 08:00-20:00 minus lunch")
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "20:00", slots[len(slots)-1])
	assert.NotContains(t, slots, "13:00", "Lunch break should be excluded")
	assert.Contains(t, slots, "12:00")
	assert.Contains(t, slots, "14:00")
}

func TestValidateDeliveryDate(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"valid date two days out", "2024-06-12", false},
		{"valid date far out", "2024-06-28", false},
		{"bad format", "12/06/2024", true},
		{"empty", "", true},
		{"today", "2024-06-10", true},
		{"tomorrow", "2024-06-11", true},
		{"past", "2024-06-01", true},
		{"sunday", "2024-06-16", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDeliveryDate(tt.date, testToday)
			if tt.wantErr {
				var validationErr *ValidationError
				assert.ErrorAs(t, err, &validationErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTimeSlot(t *testing.T) {
	assert.NoError(t, ValidateTimeSlot("08:00"))
	assert.NoError(t, ValidateTimeSlot("10:00"))
	assert.NoError(t, ValidateTimeSlot("20:00"))
	assert.Error(t, ValidateTimeSlot("10"))
	assert.Error(t, ValidateTimeSlot("10:00:00"))
	assert.Error(t, ValidateTimeSlot(""))
	assert.Error(t, ValidateTimeSlot("13:00"), "lunch hour is never offered")
	assert.Error(t, ValidateTimeSlot("07:00"), "before opening")
	assert.Error(t, ValidateTimeSlot("21:00"), "after closing")
	assert.Error(t, ValidateTimeSlot("10:30"), "slots are on the hour")
}
