package models

import "time"

// Customer - Balance is the outstanding receivable across this customer's sales.
type Customer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null;index" json:"name"`
	PhoneNumber string    `gorm:"size:30;index" json:"phone_number"`
	TotalSales  float64   `gorm:"not null;default:0" json:"total_sales"`
	AmountPaid  float64   `gorm:"not null;default:0" json:"amount_paid"`
	Balance     float64   `gorm:"not null;default:0" json:"balance"` // outstanding dues
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
