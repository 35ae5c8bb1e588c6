package customers

import (
	"stockbook-backend/internal/database"
	"stockbook-backend/internal/models"
	"stockbook-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateCustomerRequest struct {
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
}

type UpdateCustomerRequest struct {
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
}

// POST /api/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		customer := models.Customer{Name: body.Name, PhoneNumber: body.PhoneNumber}
		if err := database.DB.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create customer")
		}
		return c.Status(fiber.StatusCreated).JSON(customer)
	}
}

// GET /api/customers?q=
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("name ASC")
		if search := c.Query("q"); search != "" {
			q = q.Where("name LIKE ? OR phone_number LIKE ?", "%"+search+"%", "%"+search+"%")
		}

		var customers []models.Customer
		if err := q.Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list customers")
		}
		return c.JSON(customers)
	}
}

// GET /api/customers/:id
func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid customer id")
		}

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}
		return c.JSON(customer)
	}
}

// PUT /api/customers/:id
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid customer id")
		}

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		customer.Name = body.Name
		customer.PhoneNumber = body.PhoneNumber
		if err := database.DB.Save(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update customer")
		}
		return c.JSON(customer)
	}
}
