package sales

import (
	"fmt"
	"time"

	"stockbook-backend/internal/database"
	"stockbook-backend/internal/models"
	"stockbook-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// -------------------------
// Request Types
// -------------------------

type SaleItemRequest struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"required,gt=0"`
	Discount  float64 `json:"discount" validate:"gte=0"`
}

type CreateSaleRequest struct {
	CustomerID    uint              `json:"customer_id"`
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone"`
	Date          string            `json:"date" validate:"required"` // "2025-12-09"
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	AmountPaid    float64           `json:"amount_paid" validate:"gte=0"`
	PaymentMethod string            `json:"payment_method" validate:"required"`
}

type RecordPaymentRequest struct {
	CustomerID    uint    `json:"customer_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Date          string  `json:"date" validate:"required"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
}

// -------------------------
// Handlers
// -------------------------

// POST /api/sales
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
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

		items := make([]SaleItemInput, 0, len(body.Items))
		for _, it := range body.Items {
			items = append(items, SaleItemInput{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Discount:  it.Discount,
			})
		}

		sale, err := CreateSale(database.DB, CreateSaleInput{
			Customer: CustomerRef{
				ID:    body.CustomerID,
				Name:  body.CustomerName,
				Phone: body.CustomerPhone,
			},
			Date:          d,
			Items:         items,
			AmountPaid:    body.AmountPaid,
			PaymentMethod: models.PaymentMethod(body.PaymentMethod),
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(sale)
	}
}

// GET /api/sales?customer_id=&status=&from=&to=
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Items").Preload("Customer").Order("date DESC, id DESC")

		if cidStr := c.Query("customer_id"); cidStr != "" {
			var cid uint
			if _, err := fmt.Sscan(cidStr, &cid); err != nil || cid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "customer_id is invalid")
			}
			q = q.Where("customer_id = ?", cid)
		}
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
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

		var sales []models.Sale
		if err := q.Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales")
		}
		return c.JSON(sales)
	}
}

// GET /api/sales/:id
func GetSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid sale id")
		}

		var sale models.Sale
		if err := database.DB.Preload("Items.Product").Preload("Customer").Preload("Payments").
			First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}
		return c.JSON(sale)
	}
}

// DELETE /api/sales/:id
func DeleteSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid sale id")
		}

		if err := DeleteSale(database.DB, uint(id)); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/sales/:id/payments
func RecordPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid sale id")
		}

		var body RecordPaymentRequest
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

		sale, err := RecordPayment(database.DB, RecordPaymentInput{
			SaleID:        uint(id),
			CustomerID:    body.CustomerID,
			Amount:        body.Amount,
			Date:          d,
			PaymentMethod: models.PaymentMethod(body.PaymentMethod),
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(sale)
	}
}

// GET /api/sales/:id/payments
func ListSalePaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid sale id")
		}

		var sale models.Sale
		if err := database.DB.First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}

		var payments []models.PaymentHistory
		if err := database.DB.Where("sale_id = ?", sale.ID).Order("date ASC, id ASC").
			Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list payments")
		}
		return c.JSON(payments)
	}
}
