package purchases

import (
	"fmt"
	"testing"
	"time"

	"stockbook-backend/internal/database"
	"stockbook-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedVendor(t *testing.T, db *gorm.DB, name string) models.Vendor {
	t.Helper()
	v := models.Vendor{Name: name}
	require.NoError(t, db.Create(&v).Error)
	return v
}

func seedProduct(t *testing.T, db *gorm.DB, name string, qty int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Unit: "pcs", Quantity: qty}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func purchaseDate() time.Time {
	return time.Date(2025, 12, 9, 0, 0, 0, 0, time.UTC)
}

func TestCreatePurchaseUpdatesAllLedgers(t *testing.T) {
	db := setupTestDB(t)
	vendor := seedVendor(t, db, "Metro Traders")
	product := seedProduct(t, db, "Rice 5kg", 5)

	purchase, err := CreatePurchase(db, CreatePurchaseInput{
		VendorID:    vendor.ID,
		ProductID:   product.ID,
		Quantity:    10,
		Rate:        50,
		SellRate:    65,
		TotalAmount: 500,
		AmountPaid:  200,
		Date:        purchaseDate(),
	})
	require.NoError(t, err)
	require.Equal(t, 500.0, purchase.TotalAmount)
	require.Equal(t, 200.0, purchase.AmountPaid)
	require.Len(t, purchase.Items, 1)
	require.Equal(t, 500.0, purchase.Items[0].Total)

	var gotVendor models.Vendor
	require.NoError(t, db.First(&gotVendor, vendor.ID).Error)
	require.Equal(t, 500.0, gotVendor.TotalPurchases)
	require.Equal(t, 200.0, gotVendor.AmountPaid)
	require.Equal(t, 300.0, gotVendor.Balance)
	require.Equal(t, gotVendor.TotalPurchases-gotVendor.AmountPaid, gotVendor.Balance)

	var gotProduct models.Product
	require.NoError(t, db.First(&gotProduct, product.ID).Error)
	require.Equal(t, 15, gotProduct.Quantity)
	require.Equal(t, 50.0, gotProduct.Cost)
	require.Equal(t, 65.0, gotProduct.Price)

	var history models.VendorPaymentHistory
	require.NoError(t, db.Preload("Items").Where("vendor_id = ?", vendor.ID).First(&history).Error)
	require.Equal(t, 500.0, history.Total)
	require.Equal(t, 200.0, history.AmountPaid)
	require.Equal(t, models.DuesStatusPending, history.DuesStatus)
	require.NotNil(t, history.PurchaseID)
	require.Equal(t, purchase.ID, *history.PurchaseID)
	require.Len(t, history.Items, 1)
}

func TestCreatePurchaseFullyPaidIsCleared(t *testing.T) {
	db := setupTestDB(t)
	vendor := seedVendor(t, db, "Metro Traders")
	product := seedProduct(t, db, "Rice 5kg", 0)

	_, err := CreatePurchase(db, CreatePurchaseInput{
		VendorID:    vendor.ID,
		ProductID:   product.ID,
		Quantity:    4,
		Rate:        25,
		SellRate:    40,
		TotalAmount: 100,
		AmountPaid:  100,
		Date:        purchaseDate(),
	})
	require.NoError(t, err)

	var history models.VendorPaymentHistory
	require.NoError(t, db.Where("vendor_id = ?", vendor.ID).First(&history).Error)
	require.Equal(t, models.DuesStatusCleared, history.DuesStatus)

	var gotVendor models.Vendor
	require.NoError(t, db.First(&gotVendor, vendor.ID).Error)
	require.Zero(t, gotVendor.Balance)
}

func TestCreatePurchaseTotalMismatchIsRejectedBeforeAnyMutation(t *testing.T) {
	db := setupTestDB(t)
	vendor := seedVendor(t, db, "Metro Traders")
	product := seedProduct(t, db, "Rice 5kg", 5)

	_, err := CreatePurchase(db, CreatePurchaseInput{
		VendorID:    vendor.ID,
		ProductID:   product.ID,
		Quantity:    10,
		Rate:        50,
		SellRate:    65,
		TotalAmount: 600,
		AmountPaid:  0,
		Date:        purchaseDate(),
	})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusUnprocessableEntity, fe.Code)

	var purchaseCount int64
	db.Model(&models.Purchase{}).Count(&purchaseCount)
	require.Zero(t, purchaseCount)

	var gotProduct models.Product
	require.NoError(t, db.First(&gotProduct, product.ID).Error)
	require.Equal(t, 5, gotProduct.Quantity)

	var gotVendor models.Vendor
	require.NoError(t, db.First(&gotVendor, vendor.ID).Error)
	require.Zero(t, gotVendor.TotalPurchases)
}

func TestCreatePurchaseMissingEntities(t *testing.T) {
	db := setupTestDB(t)
	vendor := seedVendor(t, db, "Metro Traders")
	product := seedProduct(t, db, "Rice 5kg", 5)

	in := CreatePurchaseInput{
		Quantity: 2, Rate: 10, SellRate: 15, TotalAmount: 20, Date: purchaseDate(),
	}

	in.VendorID = 999
	in.ProductID = product.ID
	_, err := CreatePurchase(db, in)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusNotFound, fe.Code)

	in.VendorID = vendor.ID
	in.ProductID = 999
	_, err = CreatePurchase(db, in)
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusNotFound, fe.Code)
}

func TestCreatePurchaseValidation(t *testing.T) {
	db := setupTestDB(t)

	cases := []struct {
		name string
		in   CreatePurchaseInput
	}{
		{"no vendor", CreatePurchaseInput{ProductID: 1, Quantity: 1, Rate: 1, SellRate: 1, TotalAmount: 1, Date: purchaseDate()}},
		{"no product", CreatePurchaseInput{VendorID: 1, Quantity: 1, Rate: 1, SellRate: 1, TotalAmount: 1, Date: purchaseDate()}},
		{"zero quantity", CreatePurchaseInput{VendorID: 1, ProductID: 1, Rate: 1, SellRate: 1, TotalAmount: 1, Date: purchaseDate()}},
		{"negative paid", CreatePurchaseInput{VendorID: 1, ProductID: 1, Quantity: 1, Rate: 1, SellRate: 1, TotalAmount: 1, AmountPaid: -1, Date: purchaseDate()}},
		{"no date", CreatePurchaseInput{VendorID: 1, ProductID: 1, Quantity: 1, Rate: 1, SellRate: 1, TotalAmount: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreatePurchase(db, tc.in)
			var fe *fiber.Error
			require.ErrorAs(t, err, &fe)
			require.Equal(t, fiber.StatusBadRequest, fe.Code)
		})
	}
}
