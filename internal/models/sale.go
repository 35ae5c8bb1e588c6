package models

import "time"

type SaleStatus string

const (
	SaleStatusPending       SaleStatus = "PENDING"
	SaleStatusPartiallyPaid SaleStatus = "PARTIALLY_PAID"
	SaleStatusCompleted     SaleStatus = "COMPLETED"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodOnline       PaymentMethod = "ONLINE"
)

// ValidPaymentMethod reports whether m is one of the accepted payment methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodOnline:
		return true
	}
	return false
}

type Sale struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	InvoiceNumber string        `gorm:"size:40;uniqueIndex;not null" json:"invoice_number"`
	CustomerID    uint          `gorm:"index;not null" json:"customer_id"`
	Customer      Customer      `json:"customer"`
	Date          time.Time     `gorm:"index;not null" json:"date"`
	SubTotal      float64       `gorm:"not null" json:"sub_total"`
	AmountPaid    float64       `gorm:"not null;default:0" json:"amount_paid"`
	DueAmount     float64       `gorm:"not null;default:0" json:"due_amount"`
	Status        SaleStatus    `gorm:"size:20;not null;index" json:"status"`
	PaymentMethod PaymentMethod `gorm:"size:20;not null" json:"payment_method"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	Items    []SaleItem       `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	Payments []PaymentHistory `gorm:"foreignKey:SaleID" json:"payments"`
}

type SaleItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SaleID    uint      `gorm:"index;not null" json:"sale_id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	Product   Product   `json:"product"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice float64   `gorm:"not null" json:"unit_price"`
	Discount  float64   `gorm:"not null;default:0" json:"discount"`
	Cost      float64   `gorm:"not null;default:0" json:"cost"` // product cost at sale time
	Total     float64   `gorm:"not null" json:"total"`          // Quantity*UnitPrice - Discount
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeriveSaleStatus returns the status a sale should carry given its current
// due and paid amounts.
func DeriveSaleStatus(dueAmount, amountPaid float64) SaleStatus {
	if dueAmount <= 0 {
		return SaleStatusCompleted
	}
	if amountPaid > 0 {
		return SaleStatusPartiallyPaid
	}
	return SaleStatusPending
}
