package dashboard

import (
	"time"

	"stockbook-backend/internal/database"
	"stockbook-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SummaryResponse struct {
	ProductCount   int64            `json:"product_count"`
	InventoryValue float64          `json:"inventory_value"` // stock on hand at cost
	LowStockCount  int64            `json:"low_stock_count"`
	LowStockItems  []models.Product `json:"low_stock_items"`
	CustomerDues   float64          `json:"customer_dues"` // receivable
	VendorDues     float64          `json:"vendor_dues"`   // payable
	TotalSales     float64          `json:"total_sales"`
	TotalPurchases float64          `json:"total_purchases"`
}

type ProfitLossResponse struct {
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	Revenue          float64 `json:"revenue"`
	CostOfGoodsSold  float64 `json:"cost_of_goods_sold"`
	GrossProfit      float64 `json:"gross_profit"`
	PaymentsReceived float64 `json:"payments_received"`
	PurchasesTotal   float64 `json:"purchases_total"`
	VendorPayments   float64 `json:"vendor_payments"`
}

// GET /api/dashboard/summary
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var resp SummaryResponse

		database.DB.Model(&models.Product{}).Count(&resp.ProductCount)
		database.DB.Model(&models.Product{}).
			Select("COALESCE(SUM(quantity * cost), 0)").Scan(&resp.InventoryValue)

		if err := database.DB.Where("quantity <= low_stock_threshold").
			Order("quantity ASC").Find(&resp.LowStockItems).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load low stock items")
		}
		resp.LowStockCount = int64(len(resp.LowStockItems))

		database.DB.Model(&models.Customer{}).
			Select("COALESCE(SUM(balance), 0)").Scan(&resp.CustomerDues)
		database.DB.Model(&models.Vendor{}).
			Select("COALESCE(SUM(balance), 0)").Scan(&resp.VendorDues)
		database.DB.Model(&models.Sale{}).
			Select("COALESCE(SUM(sub_total), 0)").Scan(&resp.TotalSales)
		database.DB.Model(&models.Purchase{}).
			Select("COALESCE(SUM(total_amount), 0)").Scan(&resp.TotalPurchases)

		return c.JSON(resp)
	}
}

// GET /api/reports/profit-loss?from=YYYY-MM-DD&to=YYYY-MM-DD
// Cost of goods sums each sale item's cost as it was captured at sale time,
// so later re-pricing a product does not rewrite past reports.
func ProfitLossHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fromStr := c.Query("from")
		toStr := c.Query("to")
		if fromStr == "" || toStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "from and to dates are required (YYYY-MM-DD)")
		}

		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from date is invalid")
		}
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to date is invalid")
		}

		resp := ProfitLossResponse{
			StartDate: from.Format("2006-01-02"),
			EndDate:   to.Format("2006-01-02"),
		}

		database.DB.Model(&models.Sale{}).
			Where("date >= ? AND date <= ?", from, to).
			Select("COALESCE(SUM(sub_total), 0)").Scan(&resp.Revenue)

		database.DB.Model(&models.SaleItem{}).
			Joins("JOIN sales ON sales.id = sale_items.sale_id").
			Where("sales.date >= ? AND sales.date <= ?", from, to).
			Select("COALESCE(SUM(sale_items.quantity * sale_items.cost), 0)").
			Scan(&resp.CostOfGoodsSold)

		database.DB.Model(&models.PaymentHistory{}).
			Where("date >= ? AND date <= ?", from, to).
			Select("COALESCE(SUM(amount_paid), 0)").Scan(&resp.PaymentsReceived)

		database.DB.Model(&models.Purchase{}).
			Where("date >= ? AND date <= ?", from, to).
			Select("COALESCE(SUM(total_amount), 0)").Scan(&resp.PurchasesTotal)

		database.DB.Model(&models.VendorPaymentHistory{}).
			Where("date >= ? AND date <= ?", from, to).
			Select("COALESCE(SUM(amount_paid), 0)").Scan(&resp.VendorPayments)

		resp.GrossProfit = resp.Revenue - resp.CostOfGoodsSold

		return c.JSON(resp)
	}
}
