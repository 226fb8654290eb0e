package models

// ServiceCategory groups workers and booking requests by trade.
type ServiceCategory struct {
	ID   string `db:"category_id" json:"category_id"`
	Name string `db:"category_name" json:"category_name"`
}
