package controllers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stockledger-backend/internal/ledger"
	"github.com/angelmondragon/stockledger-backend/pkg/db/models"
	"github.com/angelmondragon/stockledger-backend/pkg/enums"
)

type brandRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type productRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	BrandID     uuid.UUID       `json:"brand_id" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
}

type stockRequest struct {
	ReferenceNo string  `json:"reference_no" validate:"required,max=50"`
	StockType   string  `json:"stock_type" validate:"omitempty,oneof=in_stock out_of_stock"`
	Notes       *string `json:"notes,omitempty"`
}

type saleRequest struct {
	InvoiceNumber string `json:"invoice_number" validate:"required,max=50"`
	CustomerName  string `json:"customer_name" validate:"max=100"`
	Notes         string `json:"notes"`
}

type lineItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type brandResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newBrandResponse(b models.Brand) brandResponse {
	return brandResponse{ID: b.ID, Name: b.Name, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt}
}

type productResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	BrandID     uuid.UUID `json:"brand_id"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newProductResponse(p models.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		BrandID:     p.BrandID,
		Description: p.Description,
		Price:       money(p.Price),
		Quantity:    p.Quantity,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type stockResponse struct {
	ID             uuid.UUID       `json:"id"`
	ReferenceNo    string          `json:"reference_no"`
	StockType      enums.StockType `json:"stock_type"`
	StockTypeLabel string          `json:"stock_type_label"`
	Date           time.Time       `json:"date"`
	Notes          *string         `json:"notes"`
	TotalAmount    string          `json:"total_amount"`
	Display        string          `json:"display"`
}

func newStockResponse(s models.Stock) stockResponse {
	return stockResponse{
		ID:             s.ID,
		ReferenceNo:    s.ReferenceNo,
		StockType:      s.StockType,
		StockTypeLabel: s.StockType.Label(),
		Date:           s.Date,
		Notes:          s.Notes,
		TotalAmount:    money(s.TotalAmount),
		Display:        s.String(),
	}
}

type saleResponse struct {
	ID            uuid.UUID `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	CustomerName  string    `json:"customer_name"`
	Date          time.Time `json:"date"`
	TotalAmount   string    `json:"total_amount"`
	Notes         string    `json:"notes"`
	Display       string    `json:"display"`
}

func newSaleResponse(s models.Sale) saleResponse {
	return saleResponse{
		ID:            s.ID,
		InvoiceNumber: s.InvoiceNumber,
		CustomerName:  s.CustomerName,
		Date:          s.Date,
		TotalAmount:   money(s.TotalAmount),
		Notes:         s.Notes,
		Display:       s.String(),
	}
}

type lineItemResponse struct {
	ID        uuid.UUID `json:"id"`
	ParentID  uuid.UUID `json:"parent_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	LineTotal string    `json:"line_total"`
}

func newStockItemResponse(i models.StockItem) lineItemResponse {
	return lineItemResponse{
		ID:        i.ID,
		ParentID:  i.StockID,
		ProductID: i.ProductID,
		Quantity:  i.Quantity,
		UnitPrice: money(i.UnitPrice),
		LineTotal: money(i.LineTotal()),
	}
}

func newSaleItemResponse(i models.SaleItem) lineItemResponse {
	return lineItemResponse{
		ID:        i.ID,
		ParentID:  i.SaleID,
		ProductID: i.ProductID,
		Quantity:  i.Quantity,
		UnitPrice: money(i.UnitPrice),
		LineTotal: money(i.LineTotal()),
	}
}

type totalResponse struct {
	ID          uuid.UUID `json:"id"`
	TotalAmount string    `json:"total_amount"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(ledger.MoneyPlaces)
}

func mapSlice[T, R any](rows []T, fn func(T) R) []R {
	out := make([]R, 0, len(rows))
	for _, row := range rows {
		out = append(out, fn(row))
	}
	return out
}
