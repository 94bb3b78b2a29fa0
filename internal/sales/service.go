package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockledger-backend/internal/ledger"
	"github.com/angelmondragon/stockledger-backend/internal/repo"
	"github.com/angelmondragon/stockledger-backend/pkg/db"
	"github.com/angelmondragon/stockledger-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockledger-backend/pkg/errors"
	"github.com/angelmondragon/stockledger-backend/pkg/logger"
	"github.com/angelmondragon/stockledger-backend/pkg/metrics"
)

const (
	entitySale     = "sale"
	entitySaleItem = "sale_item"
	entityProduct  = "product"
)

var saleConflict = repo.Conflict{Message: "invoice number already exists", Field: "invoice_number"}

// Service exposes sale and sale line operations.
type Service interface {
	SaveSale(ctx context.Context, sale *models.Sale) (*models.Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListSales(ctx context.Context, filter Filter) ([]models.Sale, error)
	DeleteSale(ctx context.Context, id uuid.UUID) error
	RecomputeTotal(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)

	SaveSaleItem(ctx context.Context, item *models.SaleItem) (*models.SaleItem, error)
	GetSaleItem(ctx context.Context, id uuid.UUID) (*models.SaleItem, error)
	ListSaleItems(ctx context.Context, saleID uuid.UUID) ([]models.SaleItem, error)
	DeleteSaleItem(ctx context.Context, id uuid.UUID) error
	DescribeSaleItem(ctx context.Context, id uuid.UUID) (string, error)
}

// ServiceParams wires the sales service dependencies.
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

// NewService constructs a sales service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("sales repository required")
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

func (s *service) SaveSale(ctx context.Context, sale *models.Sale) (saved *models.Sale, err error) {
	defer func() { s.metrics.ObserveWrite(entitySale, err) }()

	if sale == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale is required")
	}
	if err := ledger.PrepareSale(sale); err != nil {
		s.logg.WarnRecord(ctx, entitySale, sale.ID.String(), "ledger.validation_rejected")
		return nil, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if sale.ID == uuid.Nil {
			sale.ID = uuid.New()
			sale.TotalAmount = decimal.Zero
			return repo.WrapWrite(txRepo.CreateSale(ctx, sale), "db: insert sale", saleConflict)
		}
		existing, err := txRepo.FindSale(ctx, sale.ID)
		if err != nil {
			return repo.WrapRead(err, entitySale)
		}
		sale.Date = existing.Date
		sale.TotalAmount = existing.TotalAmount
		return repo.WrapWrite(txRepo.UpdateSale(ctx, sale), "db: update sale", saleConflict)
	})
	if err != nil {
		return nil, err
	}
	s.logg.InfoRecord(ctx, entitySale, sale.ID.String(), "ledger.saved")
	return sale, nil
}

func (s *service) GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale, err := s.repo.FindSale(ctx, id)
	if err != nil {
		return nil, repo.WrapRead(err, entitySale)
	}
	return sale, nil
}

func (s *service) ListSales(ctx context.Context, filter Filter) ([]models.Sale, error) {
	rows, err := s.repo.ListSales(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sales")
	}
	return rows, nil
}

func (s *service) DeleteSale(ctx context.Context, id uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindSale(ctx, id); err != nil {
			return repo.WrapRead(err, entitySale)
		}
		if err := txRepo.DeleteSale(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete sale")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logg.InfoRecord(ctx, entitySale, id.String(), "ledger.deleted")
	return nil
}

// RecomputeTotal sums quantity × unit_price over the sale's lines and stores
// the result. Negative lines reduce the total.
func (s *service) RecomputeTotal(ctx context.Context, id uuid.UUID) (total decimal.Decimal, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveRecompute(entitySale, time.Since(start), err) }()

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.LockSale(ctx, id); err != nil {
			return repo.WrapRead(err, entitySale)
		}
		items, err := txRepo.ListItems(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sale items")
		}
		total = ledger.SumLines(items)
		if err := txRepo.SetTotal(ctx, id, total); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update sale total")
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"entity":    entitySale,
			"record_id": id.String(),
			"total":     total.StringFixed(ledger.MoneyPlaces),
		})
		s.logg.Info(logCtx, "ledger.total_recomputed")
	}
	return total, nil
}

// SaveSaleItem checks the line against the product's current quantity inside
// one transaction, then creates or updates it.
func (s *service) SaveSaleItem(ctx context.Context, item *models.SaleItem) (saved *models.SaleItem, err error) {
	defer func() { s.metrics.ObserveWrite(entitySaleItem, err) }()

	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale item is required")
	}
	if err := ledger.PrepareSaleItem(item); err != nil {
		s.logg.WarnRecord(ctx, entitySaleItem, item.ID.String(), "ledger.validation_rejected")
		return nil, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if item.ID != uuid.Nil {
			existing, err := txRepo.FindItem(ctx, item.ID)
			if err != nil {
				return repo.WrapRead(err, entitySaleItem)
			}
			if existing.SaleID != item.SaleID {
				return ledger.ParentChange("sale_id")
			}
		}
		if _, err := txRepo.FindSale(ctx, item.SaleID); err != nil {
			return repo.WrapRead(err, entitySale)
		}
		product, err := txRepo.LockProduct(ctx, item.ProductID)
		if err != nil {
			return repo.WrapRead(err, entityProduct)
		}
		if err := ledger.ValidateSaleItem(item, *product); err != nil {
			return err
		}
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
			return repo.WrapWrite(txRepo.CreateItem(ctx, item), "db: insert sale item", saleConflict)
		}
		return repo.WrapWrite(txRepo.UpdateItem(ctx, item), "db: update sale item", saleConflict)
	})
	if err != nil {
		if ledger.IsValidationError(err) {
			s.logg.WarnRecord(ctx, entitySaleItem, item.ID.String(), "ledger.validation_rejected")
		}
		return nil, err
	}
	s.logg.InfoRecord(ctx, entitySaleItem, item.ID.String(), "ledger.saved")
	return item, nil
}

func (s *service) GetSaleItem(ctx context.Context, id uuid.UUID) (*models.SaleItem, error) {
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		return nil, repo.WrapRead(err, entitySaleItem)
	}
	return item, nil
}

func (s *service) ListSaleItems(ctx context.Context, saleID uuid.UUID) ([]models.SaleItem, error) {
	if _, err := s.repo.FindSale(ctx, saleID); err != nil {
		return nil, repo.WrapRead(err, entitySale)
	}
	rows, err := s.repo.ListItems(ctx, saleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sale items")
	}
	return rows, nil
}

func (s *service) DeleteSaleItem(ctx context.Context, id uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindItem(ctx, id); err != nil {
			return repo.WrapRead(err, entitySaleItem)
		}
		if err := txRepo.DeleteItem(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete sale item")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logg.InfoRecord(ctx, entitySaleItem, id.String(), "ledger.deleted")
	return nil
}

func (s *service) DescribeSaleItem(ctx context.Context, id uuid.UUID) (string, error) {
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		return "", repo.WrapRead(err, entitySaleItem)
	}
	product, err := s.repo.FindProduct(ctx, item.ProductID)
	if err != nil {
		return "", repo.WrapRead(err, entityProduct)
	}
	return ledger.LineLabel(*product, item.Quantity), nil
}
