package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockledger-backend/internal/catalog"
	"github.com/angelmondragon/stockledger-backend/internal/sales"
	"github.com/angelmondragon/stockledger-backend/internal/stocks"
	"github.com/angelmondragon/stockledger-backend/pkg/config"
	"github.com/angelmondragon/stockledger-backend/pkg/db"
	"github.com/angelmondragon/stockledger-backend/pkg/db/dbtest"
	"github.com/angelmondragon/stockledger-backend/pkg/logger"
	"github.com/angelmondragon/stockledger-backend/pkg/metrics"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T, dbP db.Pinger) *testServer {
	t.Helper()
	client := dbtest.New(t)
	reg := prometheus.NewRegistry()
	ledgerMetrics := metrics.NewLedgerMetrics(reg)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	catalogSvc, err := catalog.NewService(catalog.ServiceParams{Repo: catalog.NewRepository(client.DB()), DBClient: client, Logger: logg, Metrics: ledgerMetrics})
	require.NoError(t, err)
	stockSvc, err := stocks.NewService(stocks.ServiceParams{Repo: stocks.NewRepository(client.DB()), DBClient: client, Logger: logg, Metrics: ledgerMetrics})
	require.NoError(t, err)
	saleSvc, err := sales.NewService(sales.ServiceParams{Repo: sales.NewRepository(client.DB()), DBClient: client, Logger: logg, Metrics: ledgerMetrics})
	require.NoError(t, err)

	if dbP == nil {
		dbP = client
	}
	cfg := &config.Config{
		App:     config.AppConfig{Env: "test"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	handler := NewRouter(cfg, logg, dbP, reg, Services{Catalog: catalogSvc, Stocks: stockSvc, Sales: saleSvc})
	return &testServer{t: t, handler: handler}
}

func (s *testServer) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type idResponse struct {
	ID string `json:"id"`
}

func TestHealthRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	rec, _ := srv.do(http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-StockLedger-Env"))

	rec, _ = srv.do(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	down := newTestServer(t, stubPinger{err: errors.New("connection refused")})
	rec, env := down.do(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DEPENDENCY_ERROR", env.Error.Code)
}

func TestBrandAndProductFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	rec, env := srv.do(http.MethodPost, "/api/v1/brands", map[string]any{"name": "acme corp"})
	require.Equal(t, http.StatusCreated, rec.Code)
	brand := decode[map[string]any](t, env)
	assert.Equal(t, "Acme Corp", brand["name"])
	brandID := brand["id"].(string)

	rec, env = srv.do(http.MethodPost, "/api/v1/brands", map[string]any{"name": "ACME CORP"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	rec, env = srv.do(http.MethodPost, "/api/v1/products", map[string]any{
		"name": "rocket skates", "brand_id": brandID, "price": "19.99", "quantity": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	product := decode[map[string]any](t, env)
	assert.Equal(t, "Rocket Skates", product["name"])
	assert.Equal(t, "19.99", product["price"])

	rec, env = srv.do(http.MethodGet, "/api/v1/products?brand_id="+brandID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]idResponse](t, env), 1)

	rec, env = srv.do(http.MethodPut, "/api/v1/brands/"+brandID, map[string]any{"name": "globex"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Globex", decode[map[string]any](t, env)["name"])

	rec, _ = srv.do(http.MethodDelete, "/api/v1/brands/"+brandID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = srv.do(http.MethodGet, "/api/v1/products/"+product["id"].(string), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = srv.do(http.MethodGet, "/api/v1/brands/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStockFlowWithSufficiencyAndRecompute(t *testing.T) {
	srv := newTestServer(t, nil)

	_, env := srv.do(http.MethodPost, "/api/v1/brands", map[string]any{"name": "acme"})
	brandID := decode[idResponse](t, env).ID
	_, env = srv.do(http.MethodPost, "/api/v1/products", map[string]any{"name": "widget", "brand_id": brandID, "price": "10.00", "quantity": 10})
	productID := decode[idResponse](t, env).ID

	rec, env := srv.do(http.MethodPost, "/api/v1/stocks", map[string]any{"reference_no": "OUT-1", "stock_type": "out_of_stock"})
	require.Equal(t, http.StatusCreated, rec.Code)
	stock := decode[map[string]any](t, env)
	assert.Equal(t, "OUT-1 - Out of Stock", stock["display"])
	assert.Equal(t, "0.00", stock["total_amount"])
	stockID := stock["id"].(string)

	rec, env = srv.do(http.MethodPost, "/api/v1/stocks/"+stockID+"/items", map[string]any{"product_id": productID, "quantity": 11, "unit_price": "10.00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Insufficient stock for Widget. Available: 10", env.Error.Message)

	rec, env = srv.do(http.MethodPost, "/api/v1/stocks/"+stockID+"/items", map[string]any{"product_id": productID, "quantity": 2, "unit_price": "10.00"})
	require.Equal(t, http.StatusCreated, rec.Code)
	itemID := decode[idResponse](t, env).ID

	rec, env = srv.do(http.MethodPost, "/api/v1/stocks/"+stockID+"/items", map[string]any{"product_id": productID, "quantity": 1, "unit_price": "5.00"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = srv.do(http.MethodPost, "/api/v1/stocks/"+stockID+"/recompute-total", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "25.00", decode[map[string]any](t, env)["total_amount"])

	rec, env = srv.do(http.MethodPut, "/api/v1/stocks/"+stockID+"/items/"+itemID, map[string]any{"product_id": productID, "quantity": 3, "unit_price": "10.00"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "30.00", decode[map[string]any](t, env)["line_total"])

	rec, env = srv.do(http.MethodGet, "/api/v1/stocks/"+stockID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "25.00", decode[map[string]any](t, env)["total_amount"])

	rec, env = srv.do(http.MethodGet, "/api/v1/stocks/"+stockID+"/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]idResponse](t, env), 2)

	rec, _ = srv.do(http.MethodDelete, "/api/v1/stocks/"+stockID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = srv.do(http.MethodGet, "/api/v1/stocks/"+stockID+"/items/"+itemID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaleFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	_, env := srv.do(http.MethodPost, "/api/v1/brands", map[string]any{"name": "acme"})
	brandID := decode[idResponse](t, env).ID
	_, env = srv.do(http.MethodPost, "/api/v1/products", map[string]any{"name": "widget", "brand_id": brandID, "price": "10.00", "quantity": 3})
	productID := decode[idResponse](t, env).ID

	rec, env := srv.do(http.MethodPost, "/api/v1/sales", map[string]any{"invoice_number": "INV-1", "customer_name": "Wile E."})
	require.Equal(t, http.StatusCreated, rec.Code)
	saleID := decode[idResponse](t, env).ID

	rec, env = srv.do(http.MethodPost, "/api/v1/sales/"+saleID+"/items", map[string]any{"product_id": productID, "quantity": 4, "unit_price": "1.00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	rec, _ = srv.do(http.MethodPost, "/api/v1/sales/"+saleID+"/items", map[string]any{"product_id": productID, "quantity": 3, "unit_price": "2.50"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = srv.do(http.MethodPost, "/api/v1/sales/"+saleID+"/recompute-total", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7.50", decode[map[string]any](t, env)["total_amount"])

	rec, env = srv.do(http.MethodGet, "/api/v1/sales?customer=Wile%20E.", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]idResponse](t, env), 1)

	rec, env = srv.do(http.MethodPost, "/api/v1/sales", map[string]any{"invoice_number": "INV-1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	srv.do(http.MethodPost, "/api/v1/brands", map[string]any{"name": "acme"})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ledger_writes_total{entity="brand",outcome="ok"} 1`)
}

func TestUnknownFieldsRejected(t *testing.T) {
	srv := newTestServer(t, nil)

	rec, env := srv.do(http.MethodPost, "/api/v1/stocks", map[string]any{"reference_no": "R-1", "total_amount": "99.00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid request body", env.Error.Message)
}

func TestStockUpdateKeepsStockType(t *testing.T) {
	srv := newTestServer(t, nil)

	_, env := srv.do(http.MethodPost, "/api/v1/stocks", map[string]any{"reference_no": "OUT-1", "stock_type": "out_of_stock"})
	stockID := decode[idResponse](t, env).ID

	rec, env := srv.do(http.MethodPut, "/api/v1/stocks/"+stockID, map[string]any{"reference_no": "OUT-1", "notes": "edited"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "out_of_stock", decode[map[string]any](t, env)["stock_type"])

	rec, env = srv.do(http.MethodPut, "/api/v1/stocks/"+stockID, map[string]any{"reference_no": "OUT-1", "stock_type": "in_stock"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "stock type cannot change after creation", env.Error.Message)
}
