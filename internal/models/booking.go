package models

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// Valid reports whether the status is a known lifecycle state.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status is closed. A closed booking accepts no
// further status changes.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// CanTransition reports whether a worker-driven status change from s to next
// is allowed. Workers may move an open booking to any known state; once a
// booking is completed or cancelled it is immutable.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	if !next.Valid() {
		return false
	}
	return !s.Terminal()
}

// Booking is a customer service request. WorkerID, CategoryID and SlotID stay
// null until the admin assigns the request; a booking with no worker must be
// pending.
type Booking struct {
	ID          string        `db:"booking_id" json:"booking_id"`
	CustomerID  string        `db:"customer_id" json:"customer_id"`
	WorkerID    *string       `db:"worker_id" json:"worker_id,omitempty"`
	CategoryID  *string       `db:"category_id" json:"category_id,omitempty"`
	SlotID      *string       `db:"slot_id" json:"slot_id,omitempty"`
	ServiceDate string        `db:"service_date" json:"service_date"`
	ServiceTime string        `db:"service_time" json:"service_time"`
	Description *string       `db:"service_description" json:"service_description,omitempty"`
	TotalAmount float64       `db:"total_amount" json:"total_amount"`
	Status      BookingStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// BookingDetail joins display names onto a booking row for listings.
type BookingDetail struct {
	Booking
	CustomerName  string  `db:"customer_name" json:"customer_name"`
	CustomerPhone string  `db:"customer_phone" json:"customer_phone"`
	WorkerName    *string `db:"worker_name" json:"worker_name,omitempty"`
	CategoryName  *string `db:"category_name" json:"category_name,omitempty"`
}

// BookingFilter captures filtering criteria for admin booking listings.
type BookingFilter struct {
	Status   *BookingStatus
	Page     int
	PageSize int
}
