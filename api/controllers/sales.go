package controllers

import (
	"net/http"

	"github.com/angelmondragon/stockledger-backend/api/responses"
	"github.com/angelmondragon/stockledger-backend/api/validators"
	"github.com/angelmondragon/stockledger-backend/internal/sales"
	"github.com/angelmondragon/stockledger-backend/pkg/db/models"
	"github.com/angelmondragon/stockledger-backend/pkg/logger"
)

// ListSales returns sales newest first, optionally filtered by customer.
func ListSales(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter := sales.Filter{
			Customer: validators.QueryString(r, "customer", 100),
			Page:     page,
		}
		rows, err := svc.ListSales(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mapSlice(rows, newSaleResponse))
	}
}

func GetSale(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sale, err := svc.GetSale(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSaleResponse(*sale))
	}
}

func SaveSale(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload saleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale := &models.Sale{
			InvoiceNumber: payload.InvoiceNumber,
			CustomerName:  payload.CustomerName,
			Notes:         payload.Notes,
		}
		status := http.StatusCreated
		if r.Method == http.MethodPut {
			id, err := validators.URLParamUUID(r, "saleId")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			sale.ID = id
			status = http.StatusOK
		}

		saved, err := svc.SaveSale(r.Context(), sale)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, status, newSaleResponse(*saved))
	}
}

func DeleteSale(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteSale(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func RecomputeSaleTotal(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "saleId")
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

func ListSaleItems(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := validators.URLParamUUID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListSaleItems(r.Context(), saleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mapSlice(rows, newSaleItemResponse))
	}
}

func GetSaleItem(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := loadSaleItem(w, r, svc, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newSaleItemResponse(*item))
	}
}

func SaveSaleItem(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := validators.URLParamUUID(r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload lineItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item := &models.SaleItem{
			SaleID:    saleID,
			ProductID: payload.ProductID,
			Quantity:  payload.Quantity,
			UnitPrice: payload.UnitPrice,
		}
		status := http.StatusCreated
		if r.Method == http.MethodPut {
			existing, ok := loadSaleItem(w, r, svc, logg)
			if !ok {
				return
			}
			item.ID = existing.ID
			status = http.StatusOK
		}

		saved, err := svc.SaveSaleItem(r.Context(), item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, status, newSaleItemResponse(*saved))
	}
}

func DeleteSaleItem(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := loadSaleItem(w, r, svc, logg)
		if !ok {
			return
		}
		if err := svc.DeleteSaleItem(r.Context(), item.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func loadSaleItem(w http.ResponseWriter, r *http.Request, svc sales.Service, logg *logger.Logger) (*models.SaleItem, bool) {
	saleID, err := validators.URLParamUUID(r, "saleId")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	itemID, err := validators.URLParamUUID(r, "itemId")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	item, err := svc.GetSaleItem(r.Context(), itemID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	if item.SaleID != saleID {
		responses.WriteError(r.Context(), logg, w, itemNotFound(itemID))
		return nil, false
	}
	return item, true
}
