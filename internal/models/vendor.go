package models

import "time"

// Vendor - supplier the shop purchases stock from.
// Balance is a denormalized running total: Balance == TotalPurchases - AmountPaid.
type Vendor struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:200;not null" json:"name"`
	Phone          string    `gorm:"size:30" json:"phone"`
	TotalPurchases float64   `gorm:"not null;default:0" json:"total_purchases"`
	AmountPaid     float64   `gorm:"not null;default:0" json:"amount_paid"`
	Balance        float64   `gorm:"not null;default:0" json:"balance"` // outstanding payable
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
