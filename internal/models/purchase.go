package models

import "time"

type Purchase struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	VendorID    uint      `gorm:"index;not null" json:"vendor_id"`
	Vendor      Vendor    `json:"vendor"`
	Date        time.Time `gorm:"index;not null" json:"date"`
	TotalAmount float64   `gorm:"not null" json:"total_amount"`
	AmountPaid  float64   `gorm:"not null;default:0" json:"amount_paid"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Items []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"items"`
}

type PurchaseItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PurchaseID uint      `gorm:"index;not null" json:"purchase_id"`
	ProductID  uint      `gorm:"index;not null" json:"product_id"`
	Product    Product   `json:"product"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Rate       float64   `gorm:"not null" json:"rate"`      // unit cost
	SellRate   float64   `gorm:"not null" json:"sell_rate"` // intended selling price
	Total      float64   `gorm:"not null" json:"total"`     // Quantity * Rate
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DerivePurchaseStatus computes a purchase's payment status on read. Purchases
// never store a status column; reports and list views call this instead.
func DerivePurchaseStatus(totalAmount, amountPaid float64) SaleStatus {
	if totalAmount <= amountPaid {
		return SaleStatusCompleted
	}
	if amountPaid > 0 {
		return SaleStatusPartiallyPaid
	}
	return SaleStatusPending
}
