package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/stockledger-backend/api/responses"
	"github.com/angelmondragon/stockledger-backend/api/validators"
	"github.com/angelmondragon/stockledger-backend/internal/stocks"
	"github.com/angelmondragon/stockledger-backend/pkg/db/models"
	"github.com/angelmondragon/stockledger-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockledger-backend/pkg/errors"
	"github.com/angelmondragon/stockledger-backend/pkg/logger"
)

// ListStocks returns stock documents newest first, optionally filtered by stock_type.
func ListStocks(svc stocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter := stocks.Filter{Page: page}
		if raw := validators.QueryString(r, "stock_type", 20); raw != "" {
			stockType, err := enums.ParseStockType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stock_type"))
				return
			}
			filter.StockType = &stockType
		}
		rows, err := svc.ListStocks(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mapSlice(rows, newStockResponse))
	}
}

func GetStock(svc stocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "stockId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stock, err := svc.GetStock(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newStockResponse(*stock))
	}
}

// SaveStock creates on POST and updates on PUT. total_amount is never taken
// from the body, and stock_type is fixed once the document exists.
func SaveStock(svc stocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload stockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stock := &models.Stock{
			ReferenceNo: payload.ReferenceNo,
			StockType:   enums.StockType(payload.StockType),
			Notes:       payload.Notes,
		}
		status := http.StatusCreated
		if r.Method == http.MethodPut {
			id, err := validators.URLParamUUID(r, "stockId")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			stock.ID = id
			status = http.StatusOK
		}

		saved, err := svc.SaveStock(r.Context(), stock)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, status, newStockResponse(*saved))
	}
}

func DeleteStock(svc stocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "stockId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteStock(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func RecomputeStockTotal(svc stocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "stockId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		total, err := svc.RecomputeTotal(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, totalResponse{ID: id, TotalAmount: money(total)})
	}
}

func ListStockItems(svc stocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stockID, err := validators.URLParamUUID(r, "stockId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListStockItems(r.Context(), stockID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mapSlice(rows, newStockItemResponse))
	}
}

func GetStockItem(svc stocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := loadStockItem(w, r, svc, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newStockItemResponse(*item))
	}
}

// SaveStockItem creates a line on POST /stocks/{stockId}/items and updates it
// on PUT /stocks/{stockId}/items/{itemId}.
func SaveStockItem(svc stocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stockID, err := validators.URLParamUUID(r, "stockId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload lineItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item := &models.StockItem{
			StockID:   stockID,
			ProductID: payload.ProductID,
			Quantity:  payload.Quantity,
			UnitPrice: payload.UnitPrice,
		}
		status := http.StatusCreated
		if r.Method == http.MethodPut {
			existing, ok := loadStockItem(w, r, svc, logg)
			if !ok {
				return
			}
			item.ID = existing.ID
			status = http.StatusOK
		}

		saved, err := svc.SaveStockItem(r.Context(), item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, status, newStockItemResponse(*saved))
	}
}

func DeleteStockItem(svc stocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := loadStockItem(w, r, svc, logg)
		if !ok {
			return
		}
		if err := svc.DeleteStockItem(r.Context(), item.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// loadStockItem resolves {itemId} and checks it belongs to {stockId}.
func loadStockItem(w http.ResponseWriter, r *http.Request, svc stocks.Service, logg *logger.Logger) (*models.StockItem, bool) {
	stockID, err := validators.URLParamUUID(r, "stockId")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	itemID, err := validators.URLParamUUID(r, "itemId")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	item, err := svc.GetStockItem(r.Context(), itemID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	if item.StockID != stockID {
		responses.WriteError(r.Context(), logg, w, itemNotFound(itemID))
		return nil, false
	}
	return item, true
}

func itemNotFound(id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found").WithDetails(map[string]string{"id": id.String()})
}
