package sales

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"stockbook-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerRef identifies the customer a sale belongs to: either an existing
// record by ID, or a name+phone pair to find-or-create.
type CustomerRef struct {
	ID    uint
	Name  string
	Phone string
}

type SaleItemInput struct {
	ProductID uint
	Quantity  int
	UnitPrice float64
	Discount  float64
}

type CreateSaleInput struct {
	Customer      CustomerRef
	Date          time.Time
	Items         []SaleItemInput
	AmountPaid    float64
	PaymentMethod models.PaymentMethod
}

type RecordPaymentInput struct {
	SaleID        uint
	CustomerID    uint
	Amount        float64
	Date          time.Time
	PaymentMethod models.PaymentMethod
}

// CreateSale records a sale with its items in one transaction: stock is
// checked and decremented, the customer's running totals are updated and an
// initial payment (if any) is written to the payment ledger. Nothing is
// persisted when any step fails.
func CreateSale(db *gorm.DB, in CreateSaleInput) (*models.Sale, error) {
	if err := validateCreateSale(in); err != nil {
		return nil, err
	}

	subTotal := 0.0
	for _, it := range in.Items {
		subTotal += float64(it.Quantity)*it.UnitPrice - it.Discount
	}
	dueAmount := subTotal - in.AmountPaid
	status := models.DeriveSaleStatus(dueAmount, in.AmountPaid)

	var sale *models.Sale

	// The invoice number is unique by constraint; on the unlikely collision
	// the whole transaction is retried with a fresh number.
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		invoiceNumber := newInvoiceNumber()

		err := db.Transaction(func(tx *gorm.DB) error {
			customer, isNew, err := resolveCustomer(tx, in.Customer, subTotal, in.AmountPaid, dueAmount)
			if err != nil {
				return err
			}

			items := make([]models.SaleItem, 0, len(in.Items))
			// The same product may appear on several lines; stock is checked
			// against the combined quantity, not per line.
			requested := make(map[uint]int, len(in.Items))
			for _, it := range in.Items {
				var product models.Product
				if err := tx.First(&product, "id = ?", it.ProductID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Product %d not found", it.ProductID))
					}
					return err
				}
				requested[it.ProductID] += it.Quantity
				if product.Quantity < requested[it.ProductID] {
					return fiber.NewError(fiber.StatusUnprocessableEntity,
						fmt.Sprintf("Insufficient stock for %s: have %d, need %d", product.Name, product.Quantity, requested[it.ProductID]))
				}
				items = append(items, models.SaleItem{
					ProductID: it.ProductID,
					Quantity:  it.Quantity,
					UnitPrice: it.UnitPrice,
					Discount:  it.Discount,
					Cost:      product.Cost,
					Total:     float64(it.Quantity)*it.UnitPrice - it.Discount,
				})
			}

			s := models.Sale{
				InvoiceNumber: invoiceNumber,
				CustomerID:    customer.ID,
				Date:          in.Date,
				SubTotal:      subTotal,
				AmountPaid:    in.AmountPaid,
				DueAmount:     dueAmount,
				Status:        status,
				PaymentMethod: in.PaymentMethod,
				Items:         items,
			}
			if err := tx.Create(&s).Error; err != nil {
				return err
			}

			for _, it := range in.Items {
				if err := tx.Model(&models.Product{}).Where("id = ?", it.ProductID).
					UpdateColumn("quantity", gorm.Expr("quantity - ?", it.Quantity)).Error; err != nil {
					return err
				}
			}

			// A customer created inside this sale already carries the sale's
			// totals; only pre-existing customers are incremented here.
			if !isNew {
				if err := tx.Model(&models.Customer{}).Where("id = ?", customer.ID).
					UpdateColumns(map[string]interface{}{
						"total_sales": gorm.Expr("total_sales + ?", subTotal),
						"amount_paid": gorm.Expr("amount_paid + ?", in.AmountPaid),
						"balance":     gorm.Expr("balance + ?", dueAmount),
					}).Error; err != nil {
					return err
				}
			}

			if in.AmountPaid > 0 {
				payment := models.PaymentHistory{
					SaleID:              s.ID,
					Date:                in.Date,
					AmountPaid:          in.AmountPaid,
					DueBeforePayment:    subTotal,
					BalanceAfterPayment: dueAmount,
					PaymentMethod:       in.PaymentMethod,
				}
				if err := tx.Create(&payment).Error; err != nil {
					return err
				}
			}

			sale = &s
			return nil
		})

		if err == nil {
			break
		}
		if isDuplicateKey(err) {
			lastErr = err
			continue
		}
		return nil, err
	}

	if sale == nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError,
			fmt.Sprintf("Could not allocate a unique invoice number: %v", lastErr))
	}

	var out models.Sale
	if err := db.Preload("Items.Product").Preload("Customer").Preload("Payments").
		First(&out, "id = ?", sale.ID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordPayment appends a payment to a sale's ledger and moves the sale and
// customer balances accordingly.
func RecordPayment(db *gorm.DB, in RecordPaymentInput) (*models.Sale, error) {
	if in.Amount <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Payment amount must be greater than 0")
	}
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid payment method")
	}

	var saleID uint

	err := db.Transaction(func(tx *gorm.DB) error {
		var sale models.Sale
		if err := tx.First(&sale, "id = ?", in.SaleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Sale not found")
			}
			return err
		}
		if sale.CustomerID != in.CustomerID {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Sale does not belong to this customer")
		}

		dueBefore := sale.SubTotal - sale.AmountPaid
		if in.Amount > dueBefore {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				fmt.Sprintf("Payment %.2f exceeds remaining due %.2f", in.Amount, dueBefore))
		}
		balanceAfter := dueBefore - in.Amount

		// Status checks the paid amount as it stood before this payment.
		var status models.SaleStatus
		switch {
		case balanceAfter <= 0:
			status = models.SaleStatusCompleted
		case sale.AmountPaid > 0:
			status = models.SaleStatusPartiallyPaid
		default:
			status = models.SaleStatusPending
		}

		payment := models.PaymentHistory{
			SaleID:              sale.ID,
			Date:                in.Date,
			AmountPaid:          in.Amount,
			DueBeforePayment:    dueBefore,
			BalanceAfterPayment: balanceAfter,
			PaymentMethod:       in.PaymentMethod,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Sale{}).Where("id = ?", sale.ID).
			UpdateColumns(map[string]interface{}{
				"amount_paid": gorm.Expr("amount_paid + ?", in.Amount),
				"due_amount":  gorm.Expr("due_amount - ?", in.Amount),
				"status":      status,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Customer{}).Where("id = ?", sale.CustomerID).
			UpdateColumns(map[string]interface{}{
				"amount_paid": gorm.Expr("amount_paid + ?", in.Amount),
				"balance":     gorm.Expr("balance - ?", in.Amount),
			}).Error; err != nil {
			return err
		}

		saleID = sale.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	var out models.Sale
	if err := db.Preload("Items").Preload("Customer").Preload("Payments").
		First(&out, "id = ?", saleID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSale removes a sale and its items, reversing the customer aggregates
// to the values they held before the sale. Sales with payment history are
// immutable. Stock is not restored for deleted sales.
func DeleteSale(db *gorm.DB, saleID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var sale models.Sale
		if err := tx.Preload("Items").Preload("Payments").First(&sale, "id = ?", saleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Sale not found")
			}
			return err
		}
		if len(sale.Payments) > 0 {
			return fiber.NewError(fiber.StatusConflict, "Sale has recorded payments and cannot be deleted")
		}

		if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&sale).Error; err != nil {
			return err
		}

		return tx.Model(&models.Customer{}).Where("id = ?", sale.CustomerID).
			UpdateColumns(map[string]interface{}{
				"total_sales": gorm.Expr("total_sales - ?", sale.SubTotal),
				"amount_paid": gorm.Expr("amount_paid - ?", sale.AmountPaid),
				"balance":     gorm.Expr("balance - ?", sale.SubTotal-sale.AmountPaid),
			}).Error
	})
}

func validateCreateSale(in CreateSaleInput) error {
	if in.Customer.ID == 0 && strings.TrimSpace(in.Customer.Name) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Customer name is required when no customer id is given")
	}
	if in.Date.IsZero() {
		return fiber.NewError(fiber.StatusBadRequest, "Sale date is required")
	}
	if len(in.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "At least one sale item is required")
	}
	for i, it := range in.Items {
		if it.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Item %d: product_id is required", i+1))
		}
		if it.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Item %d: quantity must be greater than 0", i+1))
		}
		if it.UnitPrice <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Item %d: unit_price must be greater than 0", i+1))
		}
		if it.Discount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Item %d: discount cannot be negative", i+1))
		}
	}
	if in.AmountPaid < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Paid amount cannot be negative")
	}
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payment method")
	}
	return nil
}

func resolveCustomer(tx *gorm.DB, ref CustomerRef, subTotal, amountPaid, dueAmount float64) (*models.Customer, bool, error) {
	if ref.ID != 0 {
		var customer models.Customer
		if err := tx.First(&customer, "id = ?", ref.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, fiber.NewError(fiber.StatusNotFound, "Customer not found")
			}
			return nil, false, err
		}
		return &customer, false, nil
	}

	var customer models.Customer
	err := tx.Where("name = ? AND phone_number = ?", ref.Name, ref.Phone).First(&customer).Error
	if err == nil {
		return &customer, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	customer = models.Customer{
		Name:        ref.Name,
		PhoneNumber: ref.Phone,
		TotalSales:  subTotal,
		AmountPaid:  amountPaid,
		Balance:     dueAmount,
	}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, false, err
	}
	return &customer, true, nil
}

func newInvoiceNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("INV-%s-%s", time.Now().Format("20060102150405"), suffix)
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
