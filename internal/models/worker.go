package models

import "time"

// AvailabilityState is the resolved availability of a worker for one
// (date, time) slot.
type AvailabilityState string

const (
	StateAvailable   AvailabilityState = "available"
	StateUnavailable AvailabilityState = "unavailable"
	StateBooked      AvailabilityState = "booked"
)

// RankPriority maps a resolved state to its candidate-ranking tier. Lower is
// better. Booked ranks below unavailable, preserved from observed product
// behaviour pending clarification.
func (s AvailabilityState) RankPriority() int {
	switch s {
	case StateAvailable:
		return 1
	case StateUnavailable:
		return 2
	case StateBooked:
		return 3
	}
	return 4
}

// Worker is a service worker account. AvailabilityStatus is a coarse cached
// flag and is never authoritative for a specific date/time; use the resolver
// for that.
type Worker struct {
	ID                 string    `db:"worker_id" json:"worker_id"`
	Name               string    `db:"worker_name" json:"worker_name"`
	Email              string    `db:"email" json:"email"`
	Phone              string    `db:"phone_no" json:"phone_no"`
	PasswordHash       string    `db:"password" json:"-"`
	SkillType          string    `db:"skill_type" json:"skill_type"`
	ExperienceYears    int       `db:"experience_years" json:"experience_years"`
	CategoryID         *string   `db:"category_id" json:"category_id,omitempty"`
	CategoryName       *string   `db:"category_name" json:"category_name,omitempty"`
	Rating             float64   `db:"rating" json:"rating"`
	AvailabilityStatus string    `db:"availability_status" json:"availability_status"`
	Street             *string   `db:"street" json:"street,omitempty"`
	City               *string   `db:"city" json:"city,omitempty"`
	Pincode            *string   `db:"pincode" json:"pincode,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// RankedWorker is a candidate row for booking assignment: the worker, their
// resolved availability for the requested slot, and the matched explicit slot
// id if one exists.
type RankedWorker struct {
	Worker       Worker            `json:"worker"`
	Availability AvailabilityState `json:"availability"`
	SlotID       *string           `json:"slot_id,omitempty"`
}
