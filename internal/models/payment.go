package models

import "time"

// Payment records the settlement for a booking. At most one row exists per
// booking; writes upsert and always land in completed status.
type Payment struct {
	ID            string    `db:"payment_id" json:"payment_id"`
	BookingID     string    `db:"booking_id" json:"booking_id"`
	Method        string    `db:"payment_method" json:"payment_method"`
	Amount        float64   `db:"amount" json:"amount"`
	Status        string    `db:"status" json:"status"`
	TransactionID *string   `db:"transaction_id" json:"transaction_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// PaymentCompleted is the only status ever written for a payment.
const PaymentCompleted = "completed"
