package inventory

import (
	"stockbook-backend/internal/database"
	"stockbook-backend/internal/models"
	"stockbook-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateProductRequest struct {
	Name              string  `json:"name" validate:"required"`
	Category          string  `json:"category"`
	Unit              string  `json:"unit" validate:"required"`
	Quantity          int     `json:"quantity" validate:"gte=0"`
	LowStockThreshold int     `json:"low_stock_threshold" validate:"gte=0"`
	Cost              float64 `json:"cost" validate:"gte=0"`
	Price             float64 `json:"price" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name              string  `json:"name" validate:"required"`
	Category          string  `json:"category"`
	Unit              string  `json:"unit" validate:"required"`
	LowStockThreshold int     `json:"low_stock_threshold" validate:"gte=0"`
	Cost              float64 `json:"cost" validate:"gte=0"`
	Price             float64 `json:"price" validate:"gte=0"`
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		product := models.Product{
			Name:              body.Name,
			Category:          body.Category,
			Unit:              body.Unit,
			Quantity:          body.Quantity,
			LowStockThreshold: body.LowStockThreshold,
			Cost:              body.Cost,
			Price:             body.Price,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create product")
		}
		return c.Status(fiber.StatusCreated).JSON(product)
	}
}

// GET /api/products?category=&q=
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("name ASC")
		if category := c.Query("category"); category != "" {
			q = q.Where("category = ?", category)
		}
		if search := c.Query("q"); search != "" {
			q = q.Where("name LIKE ?", "%"+search+"%")
		}

		var products []models.Product
		if err := q.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}
		return c.JSON(products)
	}
}

// GET /api/products/low-stock
func ListLowStockProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Where("quantity <= low_stock_threshold").
			Order("quantity ASC").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list low stock products")
		}
		return c.JSON(products)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return c.JSON(product)
	}
}

// PUT /api/products/:id
// Stock quantity is deliberately not editable here; purchases and sales are
// the only writers.
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		product.Name = body.Name
		product.Category = body.Category
		product.Unit = body.Unit
		product.LowStockThreshold = body.LowStockThreshold
		product.Cost = body.Cost
		product.Price = body.Price
		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}
		return c.JSON(product)
	}
}

// DELETE /api/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var saleItemCount int64
		database.DB.Model(&models.SaleItem{}).Where("product_id = ?", product.ID).Count(&saleItemCount)
		var purchaseItemCount int64
		database.DB.Model(&models.PurchaseItem{}).Where("product_id = ?", product.ID).Count(&purchaseItemCount)
		if saleItemCount > 0 || purchaseItemCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Product has recorded transactions and cannot be deleted")
		}

		if err := database.DB.Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
