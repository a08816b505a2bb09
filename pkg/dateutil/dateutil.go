package dateutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISODateLayout is the only accepted closing-date layout.
const ISODateLayout = "2006-01-02"

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsISODate reports whether s has the YYYY-MM-DD shape.
func IsISODate(s string) bool {
	return isoDatePattern.MatchString(s)
}

// ParseISODate parses a YYYY-MM-DD string into a UTC date.
func ParseISODate(s string) (time.Time, error) {
	if !IsISODate(s) {
		return time.Time{}, fmt.Errorf("date %q is not in YYYY-MM-DD format", s)
	}
	t, err := time.Parse(ISODateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// IsLeapYear checks if a year is a leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the month containing date
func DaysInMonth(date time.Time) int {
	firstOfNext := time.Date(date.Year(), date.Month()+1, 1, 0, 0, 0, 0, date.Location())
	return firstOfNext.AddDate(0, 0, -1).Day()
}

// DaysToMonthEnd counts the days from date through the end of its month,
// with date itself counted as day 1.
func DaysToMonthEnd(date time.Time) int {
	return DaysInMonth(date) - date.Day() + 1
}

// AddMonths adds months to a date
func AddMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}

// FirstPaymentMonth returns the month (1-12) and year of the first mortgage
// payment, due on the 1st of the month after the month following closing.
func FirstPaymentMonth(closing time.Time) (time.Month, int) {
	first := time.Date(closing.Year(), closing.Month()+2, 1, 0, 0, 0, 0, time.UTC)
	return first.Month(), first.Year()
}

// DueDate is a recurring annual due date.
type DueDate struct {
	Month time.Month
	Day   int
}

// ParseDueDate accepts "MM-DD" or "YYYY-MM-DD". The year of a full date is ignored.
func ParseDueDate(s string) (DueDate, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	var monthPart, dayPart string
	switch len(parts) {
	case 2:
		monthPart, dayPart = parts[0], parts[1]
	case 3:
		if len(parts[0]) != 4 {
			return DueDate{}, fmt.Errorf("due date %q: year must have four digits", s)
		}
		if _, err := strconv.Atoi(parts[0]); err != nil {
			return DueDate{}, fmt.Errorf("due date %q: invalid year", s)
		}
		monthPart, dayPart = parts[1], parts[2]
	default:
		return DueDate{}, fmt.Errorf("due date %q must be MM-DD or YYYY-MM-DD", s)
	}

	month, err := strconv.Atoi(monthPart)
	if err != nil || month < 1 || month > 12 {
		return DueDate{}, fmt.Errorf("due date %q: invalid month", s)
	}
	day, err := strconv.Atoi(dayPart)
	if err != nil || day < 1 || day > 31 {
		return DueDate{}, fmt.Errorf("due date %q: invalid day", s)
	}
	return DueDate{Month: time.Month(month), Day: day}, nil
}
