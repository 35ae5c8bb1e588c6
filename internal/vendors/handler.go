package vendors

import (
	"time"

	"stockbook-backend/internal/database"
	"stockbook-backend/internal/models"
	"stockbook-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateVendorRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}

type UpdateVendorRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}

type VendorPaymentRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Date        string  `json:"date" validate:"required"`
	Notes       string  `json:"notes"`
	PurchaseIDs []uint  `json:"purchase_ids"`
}

// POST /api/vendors
func CreateVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateVendorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		vendor := models.Vendor{Name: body.Name, Phone: body.Phone}
		if err := database.DB.Create(&vendor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create vendor")
		}
		return c.Status(fiber.StatusCreated).JSON(vendor)
	}
}

// GET /api/vendors
func ListVendorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var vendors []models.Vendor
		if err := database.DB.Order("name ASC").Find(&vendors).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list vendors")
		}
		return c.JSON(vendors)
	}
}

// GET /api/vendors/:id
func GetVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid vendor id")
		}

		var vendor models.Vendor
		if err := database.DB.First(&vendor, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vendor not found")
		}
		return c.JSON(vendor)
	}
}

// PUT /api/vendors/:id
func UpdateVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid vendor id")
		}

		var body UpdateVendorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		var vendor models.Vendor
		if err := database.DB.First(&vendor, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vendor not found")
		}

		vendor.Name = body.Name
		vendor.Phone = body.Phone
		if err := database.DB.Save(&vendor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update vendor")
		}
		return c.JSON(vendor)
	}
}

// DELETE /api/vendors/:id
// Vendors with recorded purchases cannot be deleted; their ledger would be
// orphaned.
func DeleteVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid vendor id")
		}

		var vendor models.Vendor
		if err := database.DB.First(&vendor, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vendor not found")
		}

		var purchaseCount int64
		database.DB.Model(&models.Purchase{}).Where("vendor_id = ?", vendor.ID).Count(&purchaseCount)
		if purchaseCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Vendor has recorded purchases and cannot be deleted")
		}

		if err := database.DB.Delete(&vendor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete vendor")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/vendors/:id/payments
func RecordVendorPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid vendor id")
		}

		var body VendorPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Date must be in 'YYYY-MM-DD' format")
		}

		history, err := RecordVendorPayment(database.DB, VendorPaymentInput{
			VendorID:    uint(id),
			Date:        d,
			Amount:      body.Amount,
			Notes:       body.Notes,
			PurchaseIDs: body.PurchaseIDs,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(history)
	}
}

// GET /api/vendors/:id/payments
func ListVendorPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid vendor id")
		}

		var vendor models.Vendor
		if err := database.DB.First(&vendor, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vendor not found")
		}

		var history []models.VendorPaymentHistory
		if err := database.DB.Preload("Items").Where("vendor_id = ?", vendor.ID).
			Order("date DESC, id DESC").Find(&history).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list vendor payments")
		}
		return c.JSON(history)
	}
}
