package models

import "time"

type Product struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"size:100;not null;unique" json:"name"`
	Category          string    `gorm:"size:100;index" json:"category"`
	Unit              string    `gorm:"size:20;not null" json:"unit"` // kg, pcs, box etc.
	Quantity          int       `gorm:"not null;default:0" json:"quantity"`
	LowStockThreshold int       `gorm:"not null;default:0" json:"low_stock_threshold"`
	Cost              float64   `gorm:"not null;default:0" json:"cost"`  // last purchase rate
	Price             float64   `gorm:"not null;default:0" json:"price"` // selling price
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
