package models

import (
	"fmt"
	"strings"
	"time"
)

// OpeningHours maps a lowercase weekday name to an interval such as "08:00-22:00".
// "closed" or a missing day means closed all day; "24h" means open all day.
// An interval whose end is before its start runs past midnight.
type OpeningHours map[string]string

// Weekday returns the key OpeningHours uses for t
func Weekday(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// IsOpenAt reports whether the place is open at t's wall clock time. The tail of
// an overnight interval that started the previous day also counts as open.
func (h OpeningHours) IsOpenAt(t time.Time) bool {
	if len(h) == 0 {
		return false
	}
	minute := t.Hour()*60 + t.Minute()

	if start, end, ok := parseInterval(h[Weekday(t)]); ok {
		if start <= end && minute >= start && minute < end {
			return true
		}
		if start > end && minute >= start {
			return true
		}
	}

	if start, end, ok := parseInterval(h[Weekday(t.AddDate(0, 0, -1))]); ok {
		if start > end && minute < end {
			return true
		}
	}
	return false
}

// Validate checks every key is a weekday and every value a parsable interval
func (h OpeningHours) Validate() error {
	for day, value := range h {
		if !isWeekday(day) {
			return fmt.Errorf("unknown weekday %q", day)
		}
		v := strings.ToLower(strings.TrimSpace(value))
		if v == "closed" {
			continue
		}
		if _, _, ok := parseInterval(v); !ok {
			return fmt.Errorf("invalid opening hours %q for %s", value, day)
		}
	}
	return nil
}

func isWeekday(day string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == day {
			return true
		}
	}
	return false
}

// parseInterval returns start and end in minutes after midnight
func parseInterval(value string) (int, int, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "24h" {
		return 0, 24 * 60, true
	}

	parts := strings.Split(value, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, ok := parseClock(parts[0])
	if !ok {
		return 0, 0, false
	}
	end, ok := parseClock(parts[1])
	if !ok || start == end {
		return 0, 0, false
	}
	return start, end, true
}

func parseClock(s string) (int, bool) {
	var hh, mm int
	if n, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &hh, &mm); err != nil || n != 2 {
		return 0, false
	}
	if hh < 0 || mm < 0 || mm > 59 || hh > 24 || (hh == 24 && mm != 0) {
		return 0, false
	}
	return hh*60 + mm, true
}
