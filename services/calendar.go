package services

import (
	"fmt"
	"regexp"
	"time"
)

// MinLeadDays is the minimum interval between today and the earliest
// bookable delivery date.
const MinLeadDays = 2

// Business hours for deliveries: hourly slots from 08:00 to 20:00, with
// 13:00 excluded as the drivers' lunch break.
const (
	firstDeliveryHour = 8
	lastDeliveryHour  = 20
	lunchBreakHour    = 13
)

var dateFormatRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
var timeSlotFormatRe = regexp.MustCompile(`^\d{2}:\d{2}$`)

// CalendarDay describes one cell of the month view
type CalendarDay struct {
	Date           string `json:"date"`
	Day            int    `json:"day"`
	Month          int    `json:"month"`
	Year           int    `json:"year"`
	IsCurrentMonth bool   `json:"isCurrentMonth"`
	IsAvailable    bool   `json:"isAvailable"`
	Status         string `json:"status"` // available, past, too_soon, weekend
	Reason         string `json:"reason,omitempty"`
}

// Calendar is the month view returned to clients. The Days sequence is
// padded to whole weeks, Sunday through Saturday.
type Calendar struct {
	Month     int           `json:"month"`
	Year      int           `json:"year"`
	Days      []CalendarDay `json:"days"`
	WeekDays  []string      `json:"weekDays"`
	MonthName string        `json:"monthName"`
	PrevMonth int           `json:"prevMonth"`
	PrevYear  int           `json:"prevYear"`
	NextMonth int           `json:"nextMonth"`
	NextYear  int           `json:"nextYear"`
}

// GenerateCalendar builds the delivery calendar for a month. The result is
// deterministic given (month, year, today): no clock or store access.
func GenerateCalendar(month, year int, today time.Time) (*Calendar, error) {
	if month < 1 || month > 12 {
		return nil, NewValidationError("month", "Invalid month")
	}
	if year < today.Year() || year > today.Year()+2 {
		return nil, NewValidationError("year", "Invalid year")
	}

	today = truncateToDay(today)
	minDeliveryDate := today.AddDate(0, 0, MinLeadDays)

	firstOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, today.Location())
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	// Pad back to the preceding Sunday and forward to the following
	// Saturday so the grid always holds whole weeks.
	start := firstOfMonth.AddDate(0, 0, -int(firstOfMonth.Weekday()))
	end := lastOfMonth.AddDate(0, 0, int(time.Saturday-lastOfMonth.Weekday()))

	calendar := &Calendar{
		Month:     month,
		Year:      year,
		WeekDays:  []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		MonthName: firstOfMonth.Month().String(),
		PrevMonth: month - 1,
		PrevYear:  year,
		NextMonth: month + 1,
		NextYear:  year,
	}
	if month == 1 {
		calendar.PrevMonth = 12
		calendar.PrevYear = year - 1
	}
	if month == 12 {
		calendar.NextMonth = 1
		calendar.NextYear = year + 1
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := CalendarDay{
			Date:           d.Format("2006-01-02"),
			Day:            d.Day(),
			Month:          int(d.Month()),
			Year:           d.Year(),
			IsCurrentMonth: int(d.Month()) == month && d.Year() == year,
			IsAvailable:    true,
			Status:         "available",
		}

		// Precedence: past, then lead time, then the Sunday exclusion.
		switch {
		case d.Before(today):
			day.IsAvailable = false
			day.Status = "past"
			day.Reason = "Date is in the past"
		case d.Before(minDeliveryDate):
			day.IsAvailable = false
			day.Status = "too_soon"
			day.Reason = fmt.Sprintf("Must book at least %d days in advance", MinLeadDays)
		case d.Weekday() == time.Sunday:
			day.IsAvailable = false
			day.Status = "weekend"
			day.Reason = "No deliveries on Sundays"
		}

		calendar.Days = append(calendar.Days, day)
	}

	return calendar, nil
}

// AllTimeSlots returns the fixed daily slot catalog: hourly times from
// 08:00 to 20:00 with the 13:00 lunch break excluded (12 entries).
func AllTimeSlots() []string {
	slots := make([]string, 0, lastDeliveryHour-firstDeliveryHour)
	for hour := firstDeliveryHour; hour <= lastDeliveryHour; hour++ {
		if hour == lunchBreakHour {
			continue
		}
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
	}
	return slots
}

// ValidateDeliveryDate re-checks the booking rules for a single date,
// independently of the calendar view: format, minimum lead time and the
// Sunday exclusion. A reservation request may arrive without ever having
// touched the calendar endpoint.
func ValidateDeliveryDate(date string, today time.Time) error {
	if !dateFormatRe.MatchString(date) {
		return NewValidationError("date", "Invalid date format (required: YYYY-MM-DD)")
	}

	parsed, err := time.ParseInLocation("2006-01-02", date, today.Location())
	if err != nil {
		return NewValidationError("date", "Invalid date")
	}

	minDeliveryDate := truncateToDay(today).AddDate(0, 0, MinLeadDays)
	if parsed.Before(minDeliveryDate) {
		return NewValidationError("date", fmt.Sprintf("Date must be at least %d days in the future", MinLeadDays))
	}

	if parsed.Weekday() == time.Sunday {
		return NewValidationError("date", "No deliveries on Sundays")
	}

	return nil
}

// ValidateTimeSlot checks that a requested slot is one of the offered
// hourly slots. The lunch hour is never offered.
func ValidateTimeSlot(timeSlot string) error {
	if !timeSlotFormatRe.MatchString(timeSlot) {
		return NewValidationError("time_slot", "Invalid time slot format (required: HH:MM)")
	}
	for _, offered := range AllTimeSlots() {
		if timeSlot == offered {
			return nil
		}
	}
	return NewValidationError("time_slot", "Time slot is not offered")
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
