package vendors

import (
	"errors"
	"fmt"
	"time"

	"stockbook-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type VendorPaymentInput struct {
	VendorID    uint
	Date        time.Time
	Amount      float64
	Notes       string
	PurchaseIDs []uint
}

// RecordVendorPayment settles part of a vendor's balance. When purchase ids
// are given the payment is applied to those purchases strictly in the order
// supplied, partially covering each one's due until the amount runs out.
func RecordVendorPayment(db *gorm.DB, in VendorPaymentInput) (*models.VendorPaymentHistory, error) {
	if in.Amount <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Payment amount must be greater than 0")
	}
	if in.Date.IsZero() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Payment date is required")
	}

	var historyID uint

	err := db.Transaction(func(tx *gorm.DB) error {
		var vendor models.Vendor
		if err := tx.First(&vendor, "id = ?", in.VendorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Vendor not found")
			}
			return err
		}
		if in.Amount > vendor.Balance {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				fmt.Sprintf("Payment %.2f exceeds vendor balance %.2f", in.Amount, vendor.Balance))
		}

		// Resolve selected purchases in caller order. Repeated ids are
		// rejected; applying one twice would double-count its due.
		purchases := make([]models.Purchase, 0, len(in.PurchaseIDs))
		seen := make(map[uint]bool, len(in.PurchaseIDs))
		var linkedItems []models.PurchaseItem
		sumDues := 0.0
		for _, pid := range in.PurchaseIDs {
			if seen[pid] {
				return fiber.NewError(fiber.StatusUnprocessableEntity,
					fmt.Sprintf("Purchase %d is listed more than once", pid))
			}
			seen[pid] = true
			var p models.Purchase
			if err := tx.Preload("Items").First(&p, "id = ?", pid).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusUnprocessableEntity,
						fmt.Sprintf("Purchase %d does not belong to this vendor", pid))
				}
				return err
			}
			if p.VendorID != in.VendorID {
				return fiber.NewError(fiber.StatusUnprocessableEntity,
					fmt.Sprintf("Purchase %d does not belong to this vendor", pid))
			}
			purchases = append(purchases, p)
			linkedItems = append(linkedItems, p.Items...)
			sumDues += p.TotalAmount - p.AmountPaid
		}
		if len(in.PurchaseIDs) > 0 && in.Amount > sumDues {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				fmt.Sprintf("Payment %.2f exceeds dues %.2f of the selected purchases", in.Amount, sumDues))
		}

		if err := tx.Model(&models.Vendor{}).Where("id = ?", vendor.ID).
			UpdateColumns(map[string]interface{}{
				"amount_paid": gorm.Expr("amount_paid + ?", in.Amount),
				"balance":     gorm.Expr("balance - ?", in.Amount),
			}).Error; err != nil {
			return err
		}

		linkedTotal := 0.0
		for _, it := range linkedItems {
			linkedTotal += it.Total
		}
		duesStatus := models.DuesStatusPending
		if in.Amount >= linkedTotal {
			duesStatus = models.DuesStatusCleared
		}
		total := 0.0
		if len(in.PurchaseIDs) > 0 {
			total = in.Amount
		}

		history := models.VendorPaymentHistory{
			VendorID:   in.VendorID,
			Date:       in.Date,
			Total:      total,
			AmountPaid: in.Amount,
			DuesStatus: duesStatus,
			Notes:      in.Notes,
			Items:      linkedItems,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		remaining := in.Amount
		for _, p := range purchases {
			if remaining <= 0 {
				break
			}
			due := p.TotalAmount - p.AmountPaid
			apply := remaining
			if due < apply {
				apply = due
			}
			if apply <= 0 {
				continue
			}
			if err := tx.Model(&models.Purchase{}).Where("id = ?", p.ID).
				UpdateColumn("amount_paid", gorm.Expr("amount_paid + ?", apply)).Error; err != nil {
				return err
			}
			remaining -= apply
		}

		historyID = history.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	var out models.VendorPaymentHistory
	if err := db.Preload("Items").First(&out, "id = ?", historyID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
