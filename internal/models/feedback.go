package models

import "time"

// Feedback is the single review a customer leaves on a completed booking.
type Feedback struct {
	ID        string    `db:"feedback_id" json:"feedback_id"`
	BookingID string    `db:"booking_id" json:"booking_id"`
	Rating    float64   `db:"rating" json:"rating"`
	Comments  *string   `db:"comments" json:"comments,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
