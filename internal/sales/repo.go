package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockledger-backend/internal/repo"
	"github.com/angelmondragon/stockledger-backend/pkg/db/models"
	"github.com/angelmondragon/stockledger-backend/pkg/pagination"
)

// Repository manages persistence for sales and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateSale(ctx context.Context, sale *models.Sale) error
	UpdateSale(ctx context.Context, sale *models.Sale) error
	FindSale(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	LockSale(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListSales(ctx context.Context, filter Filter) ([]models.Sale, error)
	DeleteSale(ctx context.Context, id uuid.UUID) error
	SetTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error

	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	LockProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)

	CreateItem(ctx context.Context, item *models.SaleItem) error
	UpdateItem(ctx context.Context, item *models.SaleItem) error
	FindItem(ctx context.Context, id uuid.UUID) (*models.SaleItem, error)
	ListItems(ctx context.Context, saleID uuid.UUID) ([]models.SaleItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

// Filter narrows sale listings.
type Filter struct {
	Customer string
	Page     pagination.Params
}

type repository struct {
	repo.Base
}

// NewRepository returns a sales repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) CreateSale(ctx context.Context, sale *models.Sale) error {
	return r.DB(ctx).Create(sale).Error
}

// UpdateSale writes the editable fields; date and total_amount are left alone.
func (r *repository) UpdateSale(ctx context.Context, sale *models.Sale) error {
	return r.DB(ctx).
		Model(&models.Sale{}).
		Where("id = ?", sale.ID).
		Updates(map[string]any{
			"invoice_number": sale.InvoiceNumber,
			"customer_name":  sale.CustomerName,
			"notes":          sale.Notes,
		}).Error
}

func (r *repository) FindSale(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	if err := r.DB(ctx).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *repository) LockSale(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	if err := r.Locked(ctx).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListSales returns the newest sales first.
func (r *repository) ListSales(ctx context.Context, filter Filter) ([]models.Sale, error) {
	page := filter.Page.Normalize()
	q := r.DB(ctx).Order("date DESC").Order("invoice_number ASC")
	if filter.Customer != "" {
		q = q.Where("customer_name = ?", filter.Customer)
	}
	var rows []models.Sale
	err := q.Limit(page.Limit).Offset(page.Offset).Find(&rows).Error
	return rows, err
}

// DeleteSale removes the sale and all of its lines. Callers run it inside a
// transaction.
func (r *repository) DeleteSale(ctx context.Context, id uuid.UUID) error {
	db := r.DB(ctx)
	if err := db.Where("sale_id = ?", id).Delete(&models.SaleItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.Sale{}).Error
}

func (r *repository) SetTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error {
	return r.DB(ctx).
		Model(&models.Sale{}).
		Where("id = ?", id).
		Update("total_amount", total).Error
}

func (r *repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// LockProduct reads the product row under a row lock on Postgres.
func (r *repository) LockProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.Locked(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) CreateItem(ctx context.Context, item *models.SaleItem) error {
	return r.DB(ctx).Create(item).Error
}

func (r *repository) UpdateItem(ctx context.Context, item *models.SaleItem) error {
	return r.DB(ctx).Save(item).Error
}

func (r *repository) FindItem(ctx context.Context, id uuid.UUID) (*models.SaleItem, error) {
	var item models.SaleItem
	if err := r.DB(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListItems(ctx context.Context, saleID uuid.UUID) ([]models.SaleItem, error) {
	var rows []models.SaleItem
	err := r.DB(ctx).
		Where("sale_id = ?", saleID).
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

func (r *repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.SaleItem{}).Error
}
