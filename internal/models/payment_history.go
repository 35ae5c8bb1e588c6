package models

import "time"

// PaymentHistory - append-only ledger of payments against a sale. Rows are
// never updated or deleted once written.
type PaymentHistory struct {
	ID                  uint          `gorm:"primaryKey" json:"id"`
	SaleID              uint          `gorm:"index;not null" json:"sale_id"`
	Date                time.Time     `gorm:"index;not null" json:"date"`
	AmountPaid          float64       `gorm:"not null" json:"amount_paid"`
	DueBeforePayment    float64       `gorm:"not null" json:"due_before_payment"`
	BalanceAfterPayment float64       `gorm:"not null" json:"balance_after_payment"`
	PaymentMethod       PaymentMethod `gorm:"size:20;not null" json:"payment_method"`
	CreatedAt           time.Time     `json:"created_at"`
}

type DuesStatus string

const (
	DuesStatusCleared DuesStatus = "CLEARED"
	DuesStatusPending DuesStatus = "PENDING"
)

// VendorPaymentHistory - append-only ledger of payments to a vendor. A row is
// written both when a purchase is recorded (with its initial payment, possibly
// zero) and when a standalone vendor payment is made. Linked purchase items
// identify which stock the payment settles.
type VendorPaymentHistory struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	VendorID   uint       `gorm:"index;not null" json:"vendor_id"`
	PurchaseID *uint      `gorm:"index" json:"purchase_id"`
	Date       time.Time  `gorm:"index;not null" json:"date"`
	Total      float64    `gorm:"not null" json:"total"`
	AmountPaid float64    `gorm:"not null" json:"amount_paid"`
	DuesStatus DuesStatus `gorm:"size:20;not null" json:"dues_status"`
	Notes      string     `gorm:"size:500" json:"notes"`
	CreatedAt  time.Time  `json:"created_at"`

	Items []PurchaseItem `gorm:"many2many:payment_history_links" json:"items,omitempty"`
}
