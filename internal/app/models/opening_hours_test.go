package models

import (
	"testing"
	"time"
)

func TestOpeningHoursIsOpenAt(t *testing.T) {
	hours := OpeningHours{
		"monday":   "08:00-17:00",
		"tuesday":  "closed",
		"friday":   "22:00-02:00",
		"saturday": "24h",
	}

	// 2024-06-03 is a Monday
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	at := func(day time.Time, hh, mm int) time.Time {
		return day.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
	}
	friday := monday.AddDate(0, 0, 4)
	saturday := monday.AddDate(0, 0, 5)
	sunday := monday.AddDate(0, 0, 6)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"monday morning", at(monday, 9, 30), true},
		{"monday opening minute", at(monday, 8, 0), true},
		{"monday closing minute", at(monday, 17, 0), false},
		{"tuesday closed", at(monday.AddDate(0, 0, 1), 12, 0), false},
		{"wednesday missing", at(monday.AddDate(0, 0, 2), 12, 0), false},
		{"friday late", at(friday, 23, 15), true},
		{"friday afternoon", at(friday, 15, 0), false},
		{"saturday all day", at(saturday, 3, 0), true},
		{"saturday after midnight spill", at(saturday, 1, 0), true},
		{"sunday", at(sunday, 1, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hours.IsOpenAt(tt.at); got != tt.want {
				t.Errorf("IsOpenAt(%s) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestOpeningHoursValidate(t *testing.T) {
	if err := (OpeningHours{"monday": "08:00-17:00", "sunday": "closed"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (OpeningHours{"funday": "08:00-17:00"}).Validate(); err == nil {
		t.Error("expected unknown weekday to fail")
	}
	if err := (OpeningHours{"monday": "8am-5pm"}).Validate(); err == nil {
		t.Error("expected malformed interval to fail")
	}
}
