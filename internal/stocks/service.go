package stocks

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
	entityStock     = "stock"
	entityStockItem = "stock_item"
	entityProduct   = "product"
)

var stockConflict = repo.Conflict{Message: "reference number already exists", Field: "reference_no"}

// Service exposes stock document and stock line operations.
type Service interface {
	SaveStock(ctx context.Context, stock *models.Stock) (*models.Stock, error)
	GetStock(ctx context.Context, id uuid.UUID) (*models.Stock, error)
	ListStocks(ctx context.Context, filter Filter) ([]models.Stock, error)
	DeleteStock(ctx context.Context, id uuid.UUID) error
	RecomputeTotal(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)

	SaveStockItem(ctx context.Context, item *models.StockItem) (*models.StockItem, error)
	GetStockItem(ctx context.Context, id uuid.UUID) (*models.StockItem, error)
	ListStockItems(ctx context.Context, stockID uuid.UUID) ([]models.StockItem, error)
	DeleteStockItem(ctx context.Context, id uuid.UUID) error
	DescribeStockItem(ctx context.Context, id uuid.UUID) (string, error)
}

// ServiceParams wires the stock service dependencies.
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

// NewService constructs a stock service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("stocks repository required")
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

// SaveStock creates the document (nil ID) or updates its editable fields.
// StockType, Date and TotalAmount always come from the stored row on update;
// asking for a different StockType is rejected.
func (s *service) SaveStock(ctx context.Context, stock *models.Stock) (saved *models.Stock, err error) {
	defer func() { s.metrics.ObserveWrite(entityStock, err) }()

	if stock == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock is required")
	}
	requestedType := stock.StockType
	if err := ledger.PrepareStock(stock); err != nil {
		s.logg.WarnRecord(ctx, entityStock, stock.ID.String(), "ledger.validation_rejected")
		return nil, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if stock.ID == uuid.Nil {
			stock.ID = uuid.New()
			stock.TotalAmount = decimal.Zero
			return repo.WrapWrite(txRepo.CreateStock(ctx, stock), "db: insert stock", stockConflict)
		}
		existing, err := txRepo.FindStock(ctx, stock.ID)
		if err != nil {
			return repo.WrapRead(err, entityStock)
		}
		if requestedType != "" && requestedType != existing.StockType {
			return ledger.StockTypeChange(*existing)
		}
		stock.StockType = existing.StockType
		stock.Date = existing.Date
		stock.TotalAmount = existing.TotalAmount
		return repo.WrapWrite(txRepo.UpdateStock(ctx, stock), "db: update stock", stockConflict)
	})
	if err != nil {
		if ledger.IsValidationError(err) {
			s.logg.WarnRecord(ctx, entityStock, stock.ID.String(), "ledger.validation_rejected")
		}
		return nil, err
	}
	s.logg.InfoRecord(ctx, entityStock, stock.ID.String(), "ledger.saved")
	return stock, nil
}

func (s *service) GetStock(ctx context.Context, id uuid.UUID) (*models.Stock, error) {
	stock, err := s.repo.FindStock(ctx, id)
	if err != nil {
		return nil, repo.WrapRead(err, entityStock)
	}
	return stock, nil
}

func (s *service) ListStocks(ctx context.Context, filter Filter) ([]models.Stock, error) {
	rows, err := s.repo.ListStocks(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list stocks")
	}
	return rows, nil
}

// DeleteStock removes the document together with its lines.
func (s *service) DeleteStock(ctx context.Context, id uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindStock(ctx, id); err != nil {
			return repo.WrapRead(err, entityStock)
		}
		if err := txRepo.DeleteStock(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete stock")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logg.InfoRecord(ctx, entityStock, id.String(), "ledger.deleted")
	return nil
}

// RecomputeTotal sums quantity × unit_price over the document's lines and
// stores the result as its total amount.
func (s *service) RecomputeTotal(ctx context.Context, id uuid.UUID) (total decimal.Decimal, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveRecompute(entityStock, time.Since(start), err) }()

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.LockStock(ctx, id); err != nil {
			return repo.WrapRead(err, entityStock)
		}
		items, err := txRepo.ListItems(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list stock items")
		}
		total = ledger.SumLines(items)
		if err := txRepo.SetTotal(ctx, id, total); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update stock total")
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"entity":    entityStock,
			"record_id": id.String(),
			"total":     total.StringFixed(ledger.MoneyPlaces),
		})
		s.logg.Info(logCtx, "ledger.total_recomputed")
	}
	return total, nil
}

// SaveStockItem validates the line against its document and product inside
// one transaction, then creates or updates it. The product quantity is read,
// never changed.
func (s *service) SaveStockItem(ctx context.Context, item *models.StockItem) (saved *models.StockItem, err error) {
	defer func() { s.metrics.ObserveWrite(entityStockItem, err) }()

	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock item is required")
	}
	if err := ledger.PrepareStockItem(item); err != nil {
		s.logg.WarnRecord(ctx, entityStockItem, item.ID.String(), "ledger.validation_rejected")
		return nil, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if item.ID != uuid.Nil {
			existing, err := txRepo.FindItem(ctx, item.ID)
			if err != nil {
				return repo.WrapRead(err, entityStockItem)
			}
			if existing.StockID != item.StockID {
				return ledger.ParentChange("stock_id")
			}
		}
		stock, err := txRepo.FindStock(ctx, item.StockID)
		if err != nil {
			return repo.WrapRead(err, entityStock)
		}
		product, err := txRepo.LockProduct(ctx, item.ProductID)
		if err != nil {
			return repo.WrapRead(err, entityProduct)
		}
		if err := ledger.ValidateStockItem(item, *stock, *product); err != nil {
			return err
		}
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
			return repo.WrapWrite(txRepo.CreateItem(ctx, item), "db: insert stock item", stockConflict)
		}
		return repo.WrapWrite(txRepo.UpdateItem(ctx, item), "db: update stock item", stockConflict)
	})
	if err != nil {
		if ledger.IsValidationError(err) {
			s.logg.WarnRecord(ctx, entityStockItem, item.ID.String(), "ledger.validation_rejected")
		}
		return nil, err
	}
	s.logg.InfoRecord(ctx, entityStockItem, item.ID.String(), "ledger.saved")
	return item, nil
}

func (s *service) GetStockItem(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		return nil, repo.WrapRead(err, entityStockItem)
	}
	return item, nil
}

func (s *service) ListStockItems(ctx context.Context, stockID uuid.UUID) ([]models.StockItem, error) {
	if _, err := s.repo.FindStock(ctx, stockID); err != nil {
		return nil, repo.WrapRead(err, entityStock)
	}
	rows, err := s.repo.ListItems(ctx, stockID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list stock items")
	}
	return rows, nil
}

// DeleteStockItem removes one line. The document total is not recomputed.
func (s *service) DeleteStockItem(ctx context.Context, id uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindItem(ctx, id); err != nil {
			return repo.WrapRead(err, entityStockItem)
		}
		if err := txRepo.DeleteItem(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete stock item")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logg.InfoRecord(ctx, entityStockItem, id.String(), "ledger.deleted")
	return nil
}

// DescribeStockItem renders the line as "{product} - {quantity}".
func (s *service) DescribeStockItem(ctx context.Context, id uuid.UUID) (string, error) {
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		return "", repo.WrapRead(err, entityStockItem)
	}
	product, err := s.repo.FindProduct(ctx, item.ProductID)
	if err != nil {
		return "", repo.WrapRead(err, entityProduct)
	}
	return ledger.LineLabel(*product, item.Quantity), nil
}
