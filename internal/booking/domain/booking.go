package domain

import (
	"fmt"
	"time"
)

type InjectionCategory struct {
	ID          string
	Name        string
	Description string
}

// Booking claims one slot: the (category, date, start time) triple is
// unique across all bookings, enforced by the storage layer.
type Booking struct {
	ID          string
	CategoryID  string
	PatientName string
	Phone       string
	Date        time.Time
	StartTime   string
	CreatedAt   time.Time
}

// Daily booking window, inclusive on both ends.
const (
	OpeningHour = 8
	ClosingHour = 20
)

// StartInWindow reports whether an "HH:MM" start time falls inside the
// daily window. 08:00 and 20:00 are both bookable.
func StartInWindow(start string) bool {
	t, err := time.Parse("15:04", start)
	if err != nil {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= OpeningHour*60 && minutes <= ClosingHour*60
}

// Slot is one bookable entry shown on the booking form.
type Slot struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Slots lists the fixed hourly choices offered by the booking form,
// 08:00 through 20:00.
func Slots() []Slot {
	out := make([]Slot, 0, ClosingHour-OpeningHour+1)
	for h := OpeningHour; h <= ClosingHour; h++ {
		out = append(out, Slot{
			Value: fmt.Sprintf("%02d:00", h),
			Label: fmt.Sprintf("%s – %s", hourLabel(h), hourLabel(h+1)),
		})
	}
	return out
}

func hourLabel(h int) string {
	suffix := "AM"
	display := h
	switch {
	case h == 12:
		suffix = "PM"
	case h > 12:
		suffix = "PM"
		display = h - 12
	}
	return fmt.Sprintf("%d:00 %s", display, suffix)
}
