package models

import "time"

// Customer is a customer account stored in the customer table.
type Customer struct {
	ID           string    `db:"customer_id" json:"customer_id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	PasswordHash string    `db:"password" json:"-"`
	Street       *string   `db:"street" json:"street,omitempty"`
	City         *string   `db:"city" json:"city,omitempty"`
	Pincode      *string   `db:"pincode" json:"pincode,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Admin is an administrator account stored in the admin table.
type Admin struct {
	ID           string    `db:"admin_id" json:"admin_id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
