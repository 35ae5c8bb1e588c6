package vendors

import (
	"fmt"
	"testing"
	"time"

	"stockbook-backend/internal/database"
	"stockbook-backend/internal/models"
	"stockbook-backend/internal/purchases"

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

func paymentDate() time.Time {
	return time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)
}

// seedPurchase books a real purchase so the vendor balance and dues come from
// the same path production uses.
func seedPurchase(t *testing.T, db *gorm.DB, vendorID, productID uint, qty int, rate float64, paid float64) *models.Purchase {
	t.Helper()
	p, err := purchases.CreatePurchase(db, purchases.CreatePurchaseInput{
		VendorID:    vendorID,
		ProductID:   productID,
		Quantity:    qty,
		Rate:        rate,
		SellRate:    rate * 1.3,
		TotalAmount: float64(qty) * rate,
		AmountPaid:  paid,
		Date:        time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return p
}

func seedVendorAndProduct(t *testing.T, db *gorm.DB) (models.Vendor, models.Product) {
	t.Helper()
	v := models.Vendor{Name: "Metro Traders"}
	require.NoError(t, db.Create(&v).Error)
	p := models.Product{Name: "Rice 5kg", Unit: "pcs"}
	require.NoError(t, db.Create(&p).Error)
	return v, p
}

func TestVendorPaymentAppliedAcrossPurchasesInOrder(t *testing.T) {
	db := setupTestDB(t)
	vendor, product := seedVendorAndProduct(t, db)

	p1 := seedPurchase(t, db, vendor.ID, product.ID, 4, 50, 0) // due 200
	p2 := seedPurchase(t, db, vendor.ID, product.ID, 3, 50, 0) // due 150

	history, err := RecordVendorPayment(db, VendorPaymentInput{
		VendorID:    vendor.ID,
		Date:        paymentDate(),
		Amount:      300,
		PurchaseIDs: []uint{p1.ID, p2.ID},
	})
	require.NoError(t, err)
	require.Equal(t, 300.0, history.Total)
	require.Equal(t, 300.0, history.AmountPaid)
	require.Equal(t, models.DuesStatusPending, history.DuesStatus) // 300 < 350 linked total
	require.Len(t, history.Items, 2)

	var got1, got2 models.Purchase
	require.NoError(t, db.First(&got1, p1.ID).Error)
	require.NoError(t, db.First(&got2, p2.ID).Error)
	require.Equal(t, 200.0, got1.AmountPaid) // fully cleared
	require.Equal(t, 100.0, got2.AmountPaid) // partially cleared
	require.LessOrEqual(t, got1.AmountPaid, got1.TotalAmount)
	require.LessOrEqual(t, got2.AmountPaid, got2.TotalAmount)

	var gotVendor models.Vendor
	require.NoError(t, db.First(&gotVendor, vendor.ID).Error)
	require.Equal(t, 300.0, gotVendor.AmountPaid)
	require.Equal(t, 50.0, gotVendor.Balance)
	require.Equal(t, gotVendor.TotalPurchases-gotVendor.AmountPaid, gotVendor.Balance)
}

func TestVendorPaymentWithoutPurchaseSelection(t *testing.T) {
	db := setupTestDB(t)
	vendor, product := seedVendorAndProduct(t, db)
	seedPurchase(t, db, vendor.ID, product.ID, 4, 50, 0) // balance 200

	history, err := RecordVendorPayment(db, VendorPaymentInput{
		VendorID: vendor.ID,
		Date:     paymentDate(),
		Amount:   120,
		Notes:    "partial settlement",
	})
	require.NoError(t, err)
	require.Equal(t, 0.0, history.Total) // untagged payments carry no total
	require.Equal(t, 120.0, history.AmountPaid)
	require.Equal(t, models.DuesStatusCleared, history.DuesStatus) // nothing linked to stay pending on
	require.Empty(t, history.Items)

	var gotVendor models.Vendor
	require.NoError(t, db.First(&gotVendor, vendor.ID).Error)
	require.Equal(t, 80.0, gotVendor.Balance)
}

func TestVendorPaymentExceedingBalanceIsRejected(t *testing.T) {
	db := setupTestDB(t)
	vendor, product := seedVendorAndProduct(t, db)
	seedPurchase(t, db, vendor.ID, product.ID, 4, 50, 100) // balance 100

	_, err := RecordVendorPayment(db, VendorPaymentInput{
		VendorID: vendor.ID,
		Date:     paymentDate(),
		Amount:   150,
	})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusUnprocessableEntity, fe.Code)

	var gotVendor models.Vendor
	require.NoError(t, db.First(&gotVendor, vendor.ID).Error)
	require.Equal(t, 100.0, gotVendor.Balance)
}

func TestVendorPaymentExceedingSelectedDuesIsRejected(t *testing.T) {
	db := setupTestDB(t)
	vendor, product := seedVendorAndProduct(t, db)
	p1 := seedPurchase(t, db, vendor.ID, product.ID, 2, 50, 50) // due 50
	seedPurchase(t, db, vendor.ID, product.ID, 4, 50, 0)         // keeps balance high enough

	_, err := RecordVendorPayment(db, VendorPaymentInput{
		VendorID:    vendor.ID,
		Date:        paymentDate(),
		Amount:      100,
		PurchaseIDs: []uint{p1.ID},
	})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusUnprocessableEntity, fe.Code)

	var got models.Purchase
	require.NoError(t, db.First(&got, p1.ID).Error)
	require.Equal(t, 50.0, got.AmountPaid)
}

func TestVendorPaymentRejectsForeignPurchases(t *testing.T) {
	db := setupTestDB(t)
	vendor, product := seedVendorAndProduct(t, db)
	other := models.Vendor{Name: "Other Traders"}
	require.NoError(t, db.Create(&other).Error)

	seedPurchase(t, db, vendor.ID, product.ID, 4, 50, 0)
	foreign := seedPurchase(t, db, other.ID, product.ID, 2, 50, 0)

	_, err := RecordVendorPayment(db, VendorPaymentInput{
		VendorID:    vendor.ID,
		Date:        paymentDate(),
		Amount:      50,
		PurchaseIDs: []uint{foreign.ID},
	})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusUnprocessableEntity, fe.Code)
}

func TestVendorPaymentRejectsRepeatedPurchases(t *testing.T) {
	db := setupTestDB(t)
	vendor, product := seedVendorAndProduct(t, db)

	p1 := seedPurchase(t, db, vendor.ID, product.ID, 4, 50, 0) // due 200
	seedPurchase(t, db, vendor.ID, product.ID, 6, 50, 0)       // due 300, balance 500

	// Listing p1 twice would count its due twice and overpay it.
	_, err := RecordVendorPayment(db, VendorPaymentInput{
		VendorID:    vendor.ID,
		Date:        paymentDate(),
		Amount:      400,
		PurchaseIDs: []uint{p1.ID, p1.ID},
	})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusUnprocessableEntity, fe.Code)

	var got models.Purchase
	require.NoError(t, db.First(&got, p1.ID).Error)
	require.Equal(t, 0.0, got.AmountPaid)
	require.LessOrEqual(t, got.AmountPaid, got.TotalAmount)

	var gotVendor models.Vendor
	require.NoError(t, db.First(&gotVendor, vendor.ID).Error)
	require.Equal(t, 500.0, gotVendor.Balance)
}

func TestVendorPaymentValidation(t *testing.T) {
	db := setupTestDB(t)

	_, err := RecordVendorPayment(db, VendorPaymentInput{VendorID: 1, Date: paymentDate(), Amount: 0})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusBadRequest, fe.Code)

	_, err = RecordVendorPayment(db, VendorPaymentInput{VendorID: 999, Date: paymentDate(), Amount: 10})
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusNotFound, fe.Code)
}
