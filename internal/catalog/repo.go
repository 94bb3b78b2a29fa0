package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockledger-backend/internal/repo"
	"github.com/angelmondragon/stockledger-backend/pkg/db/models"
	"github.com/angelmondragon/stockledger-backend/pkg/pagination"
)

// Repository manages persistence for brands and products.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateBrand(ctx context.Context, brand *models.Brand) error
	UpdateBrand(ctx context.Context, brand *models.Brand) error
	FindBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	ListBrands(ctx context.Context, page pagination.Params) ([]models.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	BrandID *uuid.UUID
	Page    pagination.Params
}

type repository struct {
	repo.Base
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) CreateBrand(ctx context.Context, brand *models.Brand) error {
	return r.DB(ctx).Create(brand).Error
}

func (r *repository) UpdateBrand(ctx context.Context, brand *models.Brand) error {
	return r.DB(ctx).Save(brand).Error
}

func (r *repository) FindBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.DB(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *repository) ListBrands(ctx context.Context, page pagination.Params) ([]models.Brand, error) {
	page = page.Normalize()
	var rows []models.Brand
	err := r.DB(ctx).
		Order("name ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).
		Error
	return rows, err
}

// DeleteBrand removes the brand, its products, and every line item referencing
// those products. Callers run it inside a transaction.
func (r *repository) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	db := r.DB(ctx)
	productIDs := db.Model(&models.Product{}).Select("id").Where("brand_id = ?", id)

	if err := db.Where("product_id IN (?)", productIDs).Delete(&models.StockItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("product_id IN (?)", productIDs).Delete(&models.SaleItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("brand_id = ?", id).Delete(&models.Product{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.Brand{}).Error
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Create(product).Error
}

func (r *repository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Save(product).Error
}

func (r *repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	page := filter.Page.Normalize()
	q := r.DB(ctx).Order("name ASC")
	if filter.BrandID != nil {
		q = q.Where("brand_id = ?", *filter.BrandID)
	}
	var rows []models.Product
	err := q.Limit(page.Limit).Offset(page.Offset).Find(&rows).Error
	return rows, err
}

// DeleteProduct removes the product and every stock or sale line referencing it.
// Callers run it inside a transaction.
func (r *repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	db := r.DB(ctx)
	if err := db.Where("product_id = ?", id).Delete(&models.StockItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("product_id = ?", id).Delete(&models.SaleItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.Product{}).Error
}
