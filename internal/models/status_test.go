package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSaleStatus(t *testing.T) {
	cases := []struct {
		name string
		due  float64
		paid float64
		want SaleStatus
	}{
		{"fully paid", 0, 500, SaleStatusCompleted},
		{"overpaid edge", -10, 510, SaleStatusCompleted},
		{"partial", 300, 200, SaleStatusPartiallyPaid},
		{"unpaid", 500, 0, SaleStatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveSaleStatus(tc.due, tc.paid))
		})
	}
}

func TestDerivePurchaseStatus(t *testing.T) {
	cases := []struct {
		name  string
		total float64
		paid  float64
		want  SaleStatus
	}{
		{"fully paid", 500, 500, SaleStatusCompleted},
		{"overpaid", 500, 600, SaleStatusCompleted},
		{"partial", 500, 100, SaleStatusPartiallyPaid},
		{"unpaid", 500, 0, SaleStatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DerivePurchaseStatus(tc.total, tc.paid))
		})
	}
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(PaymentMethodCash))
	assert.True(t, ValidPaymentMethod(PaymentMethodBankTransfer))
	assert.True(t, ValidPaymentMethod(PaymentMethodOnline))
	assert.False(t, ValidPaymentMethod("CHEQUE"))
	assert.False(t, ValidPaymentMethod(""))
}
