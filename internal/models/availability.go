package models

import "time"

// SlotStatus is the state of an explicit availability slot.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
)

// Slot is an explicit (worker, date, time) availability record created by the
// worker. It is consumed at most once: confirming a booking against it flips
// the status to booked.
type Slot struct {
	ID        string     `db:"slot_id" json:"slot_id"`
	WorkerID  string     `db:"worker_id" json:"worker_id"`
	Date      string     `db:"available_date" json:"available_date"`
	Time      string     `db:"available_time" json:"available_time"`
	Status    SlotStatus `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// DefaultScheduleEntry is a recurring weekly availability window. At most one
// entry exists per (worker, weekday).
type DefaultScheduleEntry struct {
	ID        string `db:"default_id" json:"default_id"`
	WorkerID  string `db:"worker_id" json:"worker_id"`
	DayOfWeek string `db:"day_of_week" json:"day_of_week"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// UnavailabilityOverride blocks out a date-scoped interval, taking precedence
// over both explicit slots and the default schedule.
type UnavailabilityOverride struct {
	ID        string  `db:"unavailability_id" json:"unavailability_id"`
	WorkerID  string  `db:"worker_id" json:"worker_id"`
	Date      string  `db:"unavailable_date" json:"unavailable_date"`
	StartTime string  `db:"unavailable_start_time" json:"unavailable_start_time"`
	EndTime   string  `db:"unavailable_end_time" json:"unavailable_end_time"`
	Reason    *string `db:"reason" json:"reason,omitempty"`
}

// Covers reports whether the override interval [start, end) contains t.
// Times are HH:MM strings, which order lexicographically.
func (o UnavailabilityOverride) Covers(t string) bool {
	return t >= o.StartTime && t < o.EndTime
}

// WithinWindow reports whether t falls inside the entry's [start, end) window.
func (e DefaultScheduleEntry) WithinWindow(t string) bool {
	return t >= e.StartTime && t < e.EndTime
}

// Weekdays lists schedule days in display order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayOf returns the weekday name for a YYYY-MM-DD date string.
func WeekdayOf(date string) (string, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", err
	}
	return d.Weekday().String(), nil
}
