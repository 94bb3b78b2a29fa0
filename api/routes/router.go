package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/stockledger-backend/api/controllers"
	"github.com/angelmondragon/stockledger-backend/api/middleware"
	"github.com/angelmondragon/stockledger-backend/internal/catalog"
	"github.com/angelmondragon/stockledger-backend/internal/sales"
	"github.com/angelmondragon/stockledger-backend/internal/stocks"
	"github.com/angelmondragon/stockledger-backend/pkg/config"
	"github.com/angelmondragon/stockledger-backend/pkg/db"
	"github.com/angelmondragon/stockledger-backend/pkg/logger"
)

// Services bundles the ledger services exposed over HTTP.
type Services struct {
	Catalog catalog.Service
	Stocks  stocks.Service
	Sales   sales.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	gatherer prometheus.Gatherer,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if cfg.Metrics.Enabled && gatherer != nil {
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/brands", func(r chi.Router) {
			r.Get("/", controllers.ListBrands(svcs.Catalog, logg))
			r.Post("/", controllers.SaveBrand(svcs.Catalog, logg))
			r.Get("/{brandId}", controllers.GetBrand(svcs.Catalog, logg))
			r.Put("/{brandId}", controllers.SaveBrand(svcs.Catalog, logg))
			r.Delete("/{brandId}", controllers.DeleteBrand(svcs.Catalog, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Catalog, logg))
			r.Post("/", controllers.SaveProduct(svcs.Catalog, logg))
			r.Get("/{productId}", controllers.GetProduct(svcs.Catalog, logg))
			r.Put("/{productId}", controllers.SaveProduct(svcs.Catalog, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(svcs.Catalog, logg))
		})

		r.Route("/stocks", func(r chi.Router) {
			r.Get("/", controllers.ListStocks(svcs.Stocks, logg))
			r.Post("/", controllers.SaveStock(svcs.Stocks, logg))
			r.Route("/{stockId}", func(r chi.Router) {
				r.Get("/", controllers.GetStock(svcs.Stocks, logg))
				r.Put("/", controllers.SaveStock(svcs.Stocks, logg))
				r.Delete("/", controllers.DeleteStock(svcs.Stocks, logg))
				r.Post("/recompute-total", controllers.RecomputeStockTotal(svcs.Stocks, logg))
				r.Get("/items", controllers.ListStockItems(svcs.Stocks, logg))
				r.Post("/items", controllers.SaveStockItem(svcs.Stocks, logg))
				r.Get("/items/{itemId}", controllers.GetStockItem(svcs.Stocks, logg))
				r.Put("/items/{itemId}", controllers.SaveStockItem(svcs.Stocks, logg))
				r.Delete("/items/{itemId}", controllers.DeleteStockItem(svcs.Stocks, logg))
			})
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.ListSales(svcs.Sales, logg))
			r.Post("/", controllers.SaveSale(svcs.Sales, logg))
			r.Route("/{saleId}", func(r chi.Router) {
				r.Get("/", controllers.GetSale(svcs.Sales, logg))
				r.Put("/", controllers.SaveSale(svcs.Sales, logg))
				r.Delete("/", controllers.DeleteSale(svcs.Sales, logg))
				r.Post("/recompute-total", controllers.RecomputeSaleTotal(svcs.Sales, logg))
				r.Get("/items", controllers.ListSaleItems(svcs.Sales, logg))
				r.Post("/items", controllers.SaveSaleItem(svcs.Sales, logg))
				r.Get("/items/{itemId}", controllers.GetSaleItem(svcs.Sales, logg))
				r.Put("/items/{itemId}", controllers.SaveSaleItem(svcs.Sales, logg))
				r.Delete("/items/{itemId}", controllers.DeleteSaleItem(svcs.Sales, logg))
			})
		})
	})

	return r
}
