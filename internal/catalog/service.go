package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockledger-backend/internal/ledger"
	"github.com/angelmondragon/stockledger-backend/internal/repo"
	"github.com/angelmondragon/stockledger-backend/pkg/db"
	"github.com/angelmondragon/stockledger-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockledger-backend/pkg/errors"
	"github.com/angelmondragon/stockledger-backend/pkg/logger"
	"github.com/angelmondragon/stockledger-backend/pkg/metrics"
	"github.com/angelmondragon/stockledger-backend/pkg/pagination"
)

const (
	entityBrand   = "brand"
	entityProduct = "product"
)

// Service exposes brand and product ledger operations.
type Service interface {
	SaveBrand(ctx context.Context, brand *models.Brand) (*models.Brand, error)
	GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	ListBrands(ctx context.Context, page pagination.Params) ([]models.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	SaveProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// ServiceParams wires the catalog service dependencies.
type ServiceParams struct {
	Repo     Repository
	DBClient *db.Client
	Logger   *logger.Logger
	Metrics  *metrics.LedgerMetrics
}

type service struct {
	repo     Repository
	dbClient *db.Client
	logg     *logger.Logger
	metrics  *metrics.LedgerMetrics
}

// NewService constructs a catalog service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:     params.Repo,
		dbClient: params.DBClient,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// SaveBrand title-cases the name, validates, then creates (nil ID) or updates the brand.
func (s *service) SaveBrand(ctx context.Context, brand *models.Brand) (saved *models.Brand, err error) {
	defer func() { s.metrics.ObserveWrite(entityBrand, err) }()

	if brand == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand is required")
	}
	if err := ledger.PrepareBrand(brand); err != nil {
		s.logg.WarnRecord(ctx, entityBrand, brand.ID.String(), "ledger.validation_rejected")
		return nil, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if brand.ID == uuid.Nil {
			brand.ID = uuid.New()
			return repo.WrapWrite(txRepo.CreateBrand(ctx, brand), "db: insert brand", nameConflict(entityBrand))
		}
		existing, err := txRepo.FindBrand(ctx, brand.ID)
		if err != nil {
			return repo.WrapRead(err, entityBrand)
		}
		brand.CreatedAt = existing.CreatedAt
		return repo.WrapWrite(txRepo.UpdateBrand(ctx, brand), "db: update brand", nameConflict(entityBrand))
	})
	if err != nil {
		return nil, err
	}
	s.logg.InfoRecord(ctx, entityBrand, brand.ID.String(), "ledger.saved")
	return brand, nil
}

func (s *service) GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	brand, err := s.repo.FindBrand(ctx, id)
	if err != nil {
		return nil, repo.WrapRead(err, entityBrand)
	}
	return brand, nil
}

func (s *service) ListBrands(ctx context.Context, page pagination.Params) ([]models.Brand, error) {
	rows, err := s.repo.ListBrands(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list brands")
	}
	return rows, nil
}

// DeleteBrand removes the brand with its products and their line items in one transaction.
func (s *service) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindBrand(ctx, id); err != nil {
			return repo.WrapRead(err, entityBrand)
		}
		if err := txRepo.DeleteBrand(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete brand")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logg.InfoRecord(ctx, entityBrand, id.String(), "ledger.deleted")
	return nil
}

// SaveProduct title-cases the name, validates, checks the brand, then creates or updates.
func (s *service) SaveProduct(ctx context.Context, product *models.Product) (saved *models.Product, err error) {
	defer func() { s.metrics.ObserveWrite(entityProduct, err) }()

	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}
	if err := ledger.PrepareProduct(product); err != nil {
		s.logg.WarnRecord(ctx, entityProduct, product.ID.String(), "ledger.validation_rejected")
		return nil, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindBrand(ctx, product.BrandID); err != nil {
			return repo.WrapRead(err, entityBrand)
		}
		if product.ID == uuid.Nil {
			product.ID = uuid.New()
			return repo.WrapWrite(txRepo.CreateProduct(ctx, product), "db: insert product", nameConflict(entityProduct))
		}
		existing, err := txRepo.FindProduct(ctx, product.ID)
		if err != nil {
			return repo.WrapRead(err, entityProduct)
		}
		product.CreatedAt = existing.CreatedAt
		return repo.WrapWrite(txRepo.UpdateProduct(ctx, product), "db: update product", nameConflict(entityProduct))
	})
	if err != nil {
		return nil, err
	}
	s.logg.InfoRecord(ctx, entityProduct, product.ID.String(), "ledger.saved")
	return product, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		return nil, repo.WrapRead(err, entityProduct)
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	rows, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return rows, nil
}

// DeleteProduct removes the product and every stock or sale line referencing it.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindProduct(ctx, id); err != nil {
			return repo.WrapRead(err, entityProduct)
		}
		if err := txRepo.DeleteProduct(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logg.InfoRecord(ctx, entityProduct, id.String(), "ledger.deleted")
	return nil
}

func nameConflict(entity string) repo.Conflict {
	return repo.Conflict{Message: entity + " name already exists", Field: "name"}
}
