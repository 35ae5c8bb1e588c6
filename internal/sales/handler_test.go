package sales

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stockbook-backend/internal/database"
	"stockbook-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unexpected server error"})
		},
	})
	app.Post("/api/sales", CreateSaleHandler())
	app.Get("/api/sales/:id", GetSaleHandler())
	return app
}

func TestCreateSaleEndpoint(t *testing.T) {
	db := setupTestDB(t)
	database.DB = db
	app := newTestApp()

	p := seedProduct(t, db, "Rice 5kg", 10, 80, 100)
	customer := seedCustomer(t, db, "Asha Stores", "0171000001")

	body := `{
		"customer_id": ` + jsonUint(customer.ID) + `,
		"date": "2025-12-09",
		"items": [{"product_id": ` + jsonUint(p.ID) + `, "quantity": 3, "unit_price": 100, "discount": 10}],
		"amount_paid": 100,
		"payment_method": "CASH"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var sale models.Sale
	require.NoError(t, json.Unmarshal(raw, &sale))
	require.Equal(t, 290.0, sale.SubTotal)
	require.Equal(t, 190.0, sale.DueAmount)
	require.Equal(t, models.SaleStatusPartiallyPaid, sale.Status)
	require.Len(t, sale.Items, 1)
}

func TestCreateSaleEndpointRejectsInvalidBody(t *testing.T) {
	db := setupTestDB(t)
	database.DB = db
	app := newTestApp()

	// Missing items entirely.
	body := `{"customer_name": "X", "date": "2025-12-09", "payment_method": "CASH"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateSaleEndpointInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	database.DB = db
	app := newTestApp()

	p := seedProduct(t, db, "Oil 1L", 2, 120, 150)
	customer := seedCustomer(t, db, "Rahim", "0171000003")

	body := `{
		"customer_id": ` + jsonUint(customer.ID) + `,
		"date": "2025-12-09",
		"items": [{"product_id": ` + jsonUint(p.ID) + `, "quantity": 5, "unit_price": 150}],
		"payment_method": "CASH"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetSaleEndpointNotFound(t *testing.T) {
	db := setupTestDB(t)
	database.DB = db
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/sales/999", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func jsonUint(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}
