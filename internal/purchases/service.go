package purchases

import (
	"errors"
	"fmt"
	"time"

	"stockbook-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreatePurchaseInput struct {
	VendorID    uint
	ProductID   uint
	Quantity    int
	Rate        float64
	SellRate    float64
	TotalAmount float64
	AmountPaid  float64
	Date        time.Time
}

// CreatePurchase records a vendor purchase of one product: the purchase and
// its item, the vendor's running totals, the product's stock and cost, and a
// vendor payment ledger row, all in one transaction.
func CreatePurchase(db *gorm.DB, in CreatePurchaseInput) (*models.Purchase, error) {
	if err := validateCreatePurchase(in); err != nil {
		return nil, err
	}

	var purchaseID uint

	err := db.Transaction(func(tx *gorm.DB) error {
		var vendor models.Vendor
		if err := tx.First(&vendor, "id = ?", in.VendorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Vendor not found")
			}
			return err
		}

		var product models.Product
		if err := tx.First(&product, "id = ?", in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Product not found")
			}
			return err
		}

		purchase := models.Purchase{
			VendorID:    in.VendorID,
			Date:        in.Date,
			TotalAmount: in.TotalAmount,
			AmountPaid:  in.AmountPaid,
			Items: []models.PurchaseItem{{
				ProductID: in.ProductID,
				Quantity:  in.Quantity,
				Rate:      in.Rate,
				SellRate:  in.SellRate,
				Total:     float64(in.Quantity) * in.Rate,
			}},
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Vendor{}).Where("id = ?", vendor.ID).
			UpdateColumns(map[string]interface{}{
				"total_purchases": gorm.Expr("total_purchases + ?", in.TotalAmount),
				"amount_paid":     gorm.Expr("amount_paid + ?", in.AmountPaid),
				"balance":         gorm.Expr("balance + ?", in.TotalAmount-in.AmountPaid),
			}).Error; err != nil {
			return err
		}

		// Stock goes up; cost and selling price follow the latest purchase.
		if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
			UpdateColumns(map[string]interface{}{
				"quantity": gorm.Expr("quantity + ?", in.Quantity),
				"cost":     in.Rate,
				"price":    in.SellRate,
			}).Error; err != nil {
			return err
		}

		duesStatus := models.DuesStatusPending
		if in.AmountPaid >= in.TotalAmount {
			duesStatus = models.DuesStatusCleared
		}
		history := models.VendorPaymentHistory{
			VendorID:   in.VendorID,
			PurchaseID: &purchase.ID,
			Date:       in.Date,
			Total:      in.TotalAmount,
			AmountPaid: in.AmountPaid,
			DuesStatus: duesStatus,
			Items:      purchase.Items,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		purchaseID = purchase.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	var out models.Purchase
	if err := db.Preload("Items.Product").Preload("Vendor").
		First(&out, "id = ?", purchaseID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func validateCreatePurchase(in CreatePurchaseInput) error {
	if in.VendorID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "vendor_id is required")
	}
	if in.ProductID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
	}
	if in.Quantity <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be greater than 0")
	}
	if in.Rate <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "rate must be greater than 0")
	}
	if in.SellRate <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "sell_rate must be greater than 0")
	}
	if in.TotalAmount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "total_amount must be greater than 0")
	}
	if in.AmountPaid < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "amount_paid cannot be negative")
	}
	if in.Date.IsZero() {
		return fiber.NewError(fiber.StatusBadRequest, "date is required")
	}
	if expected := float64(in.Quantity) * in.Rate; in.TotalAmount != expected {
		return fiber.NewError(fiber.StatusUnprocessableEntity,
			fmt.Sprintf("total_amount %.2f does not match quantity*rate %.2f", in.TotalAmount, expected))
	}
	return nil
}
