package ledger

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/angelmondragon/stockledger-backend/pkg/db/models"
	"github.com/angelmondragon/stockledger-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockledger-backend/pkg/errors"
)

const insufficientStockFormat = "Insufficient stock for %s. Available: %d"

// InsufficientStock builds the error raised when a line asks for more than the
// product currently holds.
func InsufficientStock(product models.Product) *pkgerrors.Error {
	msg := fmt.Sprintf(insufficientStockFormat, product.Name, product.Quantity)
	return pkgerrors.New(pkgerrors.CodeValidation, msg).
		WithDetails(map[string]string{"quantity": msg})
}

// StockTypeChange is raised when an update asks for a stock type other than
// the one the document was created with.
func StockTypeChange(existing models.Stock) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, "stock type cannot change after creation").
		WithDetails(map[string]string{"stock_type": "must remain " + string(existing.StockType)})
}

// ParentChange is raised when an update tries to move a line to another
// document. field names the parent reference, e.g. stock_id.
func ParentChange(field string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, "line item cannot move to another document").
		WithDetails(map[string]string{field: "must match the stored value"})
}

// PrepareBrand normalizes and validates a brand ahead of persistence.
func PrepareBrand(brand *models.Brand) error {
	brand.Name = NormalizeName(strings.TrimSpace(brand.Name))
	return toValidationError(checkFields(brand))
}

// PrepareProduct normalizes and validates a product ahead of persistence.
func PrepareProduct(product *models.Product) error {
	product.Name = NormalizeName(strings.TrimSpace(product.Name))
	return toValidationError(checkFields(product))
}

// PrepareStock applies the in_stock default and validates the document fields.
// TotalAmount is left untouched.
func PrepareStock(stock *models.Stock) error {
	stock.ReferenceNo = strings.TrimSpace(stock.ReferenceNo)
	if stock.StockType == "" {
		stock.StockType = enums.StockTypeInStock
	}
	return toValidationError(checkFields(stock))
}

// PrepareSale validates the sale document fields. TotalAmount is left untouched.
func PrepareSale(sale *models.Sale) error {
	sale.InvoiceNumber = strings.TrimSpace(sale.InvoiceNumber)
	return toValidationError(checkFields(sale))
}

// PrepareStockItem checks the line's own fields before its stock and product
// are loaded.
func PrepareStockItem(item *models.StockItem) error {
	return toValidationError(checkFields(item))
}

// PrepareSaleItem checks the line's own fields before its sale and product are
// loaded.
func PrepareSaleItem(item *models.SaleItem) error {
	return toValidationError(checkFields(item))
}

// ValidateStockItem runs the full validation pass for a stock line: field
// constraints, then the sufficiency rule for out_of_stock documents. The
// product quantity is read as given and never modified.
func ValidateStockItem(item *models.StockItem, stock models.Stock, product models.Product) error {
	err := checkFields(item)
	if stock.StockType == enums.StockTypeOutOfStock && item.Quantity > product.Quantity {
		err = multierr.Append(err, InsufficientStock(product))
	}
	return toValidationError(err)
}

// ValidateSaleItem runs the full validation pass for a sale line. Sales always
// deplete stock, so the sufficiency rule applies unconditionally.
func ValidateSaleItem(item *models.SaleItem, product models.Product) error {
	err := checkFields(item)
	if item.Quantity > product.Quantity {
		err = multierr.Append(err, InsufficientStock(product))
	}
	return toValidationError(err)
}

// LineLabel renders a line item as "{product} - {quantity}".
func LineLabel(product models.Product, quantity int) string {
	return fmt.Sprintf("%s - %d", product.Name, quantity)
}
