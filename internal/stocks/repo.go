package stocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockledger-backend/internal/repo"
	"github.com/angelmondragon/stockledger-backend/pkg/db/models"
	"github.com/angelmondragon/stockledger-backend/pkg/enums"
	"github.com/angelmondragon/stockledger-backend/pkg/pagination"
)

// Repository manages persistence for stock documents and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateStock(ctx context.Context, stock *models.Stock) error
	UpdateStock(ctx context.Context, stock *models.Stock) error
	FindStock(ctx context.Context, id uuid.UUID) (*models.Stock, error)
	LockStock(ctx context.Context, id uuid.UUID) (*models.Stock, error)
	ListStocks(ctx context.Context, filter Filter) ([]models.Stock, error)
	DeleteStock(ctx context.Context, id uuid.UUID) error
	SetTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error

	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	LockProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)

	CreateItem(ctx context.Context, item *models.StockItem) error
	UpdateItem(ctx context.Context, item *models.StockItem) error
	FindItem(ctx context.Context, id uuid.UUID) (*models.StockItem, error)
	ListItems(ctx context.Context, stockID uuid.UUID) ([]models.StockItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

// Filter narrows stock listings.
type Filter struct {
	StockType *enums.StockType
	Page      pagination.Params
}

type repository struct {
	repo.Base
}

// NewRepository returns a stock repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) CreateStock(ctx context.Context, stock *models.Stock) error {
	return r.DB(ctx).Create(stock).Error
}

// UpdateStock writes the editable document fields. stock_type, date and
// total_amount are left alone.
func (r *repository) UpdateStock(ctx context.Context, stock *models.Stock) error {
	return r.DB(ctx).
		Model(&models.Stock{}).
		Where("id = ?", stock.ID).
		Updates(map[string]any{
			"reference_no": stock.ReferenceNo,
			"notes":        stock.Notes,
		}).Error
}

func (r *repository) FindStock(ctx context.Context, id uuid.UUID) (*models.Stock, error) {
	var stock models.Stock
	if err := r.DB(ctx).First(&stock, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

// LockStock reads the document row, holding a row lock on Postgres until the
// surrounding transaction ends.
func (r *repository) LockStock(ctx context.Context, id uuid.UUID) (*models.Stock, error) {
	var stock models.Stock
	if err := r.Locked(ctx).First(&stock, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

// ListStocks returns the newest documents first.
func (r *repository) ListStocks(ctx context.Context, filter Filter) ([]models.Stock, error) {
	page := filter.Page.Normalize()
	q := r.DB(ctx).Order("date DESC").Order("reference_no ASC")
	if filter.StockType != nil {
		q = q.Where("stock_type = ?", *filter.StockType)
	}
	var rows []models.Stock
	err := q.Limit(page.Limit).Offset(page.Offset).Find(&rows).Error
	return rows, err
}

// DeleteStock removes the document and all of its lines. Callers run it
// inside a transaction.
func (r *repository) DeleteStock(ctx context.Context, id uuid.UUID) error {
	db := r.DB(ctx)
	if err := db.Where("stock_id = ?", id).Delete(&models.StockItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.Stock{}).Error
}

func (r *repository) SetTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error {
	return r.DB(ctx).
		Model(&models.Stock{}).
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

// LockProduct reads the product row, holding a row lock on Postgres until the
// surrounding transaction ends.
func (r *repository) LockProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.Locked(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) CreateItem(ctx context.Context, item *models.StockItem) error {
	return r.DB(ctx).Create(item).Error
}

func (r *repository) UpdateItem(ctx context.Context, item *models.StockItem) error {
	return r.DB(ctx).Save(item).Error
}

func (r *repository) FindItem(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	var item models.StockItem
	if err := r.DB(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListItems(ctx context.Context, stockID uuid.UUID) ([]models.StockItem, error) {
	var rows []models.StockItem
	err := r.DB(ctx).
		Where("stock_id = ?", stockID).
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

func (r *repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.StockItem{}).Error
}
