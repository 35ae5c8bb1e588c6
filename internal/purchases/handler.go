package purchases

import (
	"fmt"
	"time"

	"stockbook-backend/internal/database"
	"stockbook-backend/internal/models"
	"stockbook-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreatePurchaseRequest struct {
	VendorID    uint    `json:"vendor_id" validate:"required"`
	ProductID   uint    `json:"product_id" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	Rate        float64 `json:"rate" validate:"required,gt=0"`
	SellRate    float64 `json:"sell_rate" validate:"required,gt=0"`
	TotalAmount float64 `json:"total_amount" validate:"required,gt=0"`
	AmountPaid  float64 `json:"amount_paid" validate:"gte=0"`
	Date        string  `json:"date" validate:"required"` // "2025-12-09"
}

// PurchaseResponse wraps a purchase with its read-time payment status.
type PurchaseResponse struct {
	models.Purchase
	Status models.SaleStatus `json:"status"`
}

func toResponse(p models.Purchase) PurchaseResponse {
	return PurchaseResponse{
		Purchase: p,
		Status:   models.DerivePurchaseStatus(p.TotalAmount, p.AmountPaid),
	}
}

// POST /api/purchases
func CreatePurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePurchaseRequest
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

		purchase, err := CreatePurchase(database.DB, CreatePurchaseInput{
			VendorID:    body.VendorID,
			ProductID:   body.ProductID,
			Quantity:    body.Quantity,
			Rate:        body.Rate,
			SellRate:    body.SellRate,
			TotalAmount: body.TotalAmount,
			AmountPaid:  body.AmountPaid,
			Date:        d,
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(*purchase))
	}
}

// GET /api/purchases?vendor_id=&from=&to=
func ListPurchasesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Items").Preload("Vendor").Order("date DESC, id DESC")

		if vidStr := c.Query("vendor_id"); vidStr != "" {
			var vid uint
			if _, err := fmt.Sscan(vidStr, &vid); err != nil || vid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "vendor_id is invalid")
			}
			q = q.Where("vendor_id = ?", vid)
		}
		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from date is invalid")
			}
			q = q.Where("date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to date is invalid")
			}
			q = q.Where("date <= ?", to)
		}

		var purchases []models.Purchase
		if err := q.Find(&purchases).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list purchases")
		}

		out := make([]PurchaseResponse, 0, len(purchases))
		for _, p := range purchases {
			out = append(out, toResponse(p))
		}
		return c.JSON(out)
	}
}

// GET /api/purchases/:id
func GetPurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid purchase id")
		}

		var purchase models.Purchase
		if err := database.DB.Preload("Items.Product").Preload("Vendor").
			First(&purchase, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Purchase not found")
		}
		return c.JSON(toResponse(purchase))
	}
}
