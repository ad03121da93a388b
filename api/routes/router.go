package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/kurvfo/api/controllers"
	cartcontrollers "github.com/angelmondragon/kurvfo/api/controllers/cart"
	catalogcontrollers "github.com/angelmondragon/kurvfo/api/controllers/catalog"
	"github.com/angelmondragon/kurvfo/api/middleware"
	"github.com/angelmondragon/kurvfo/internal/catalog"
	"github.com/angelmondragon/kurvfo/pkg/config"
	"github.com/angelmondragon/kurvfo/pkg/logger"
)

type cartEngine interface {
	cartcontrollers.Engine
	catalog.CartLookup
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	catalogService catalog.Service,
	shoppingCart cartEngine,
	readiness controllers.ReadinessDeps,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/deals", catalogcontrollers.ListDeals(catalogService, logg))
		r.Get("/deals/{dealID}", catalogcontrollers.GetDeal(catalogService, shoppingCart, logg))
		r.Get("/stores", catalogcontrollers.ListStores(catalogService, logg))
		r.Get("/stores/{slug}", catalogcontrollers.GetStore(catalogService, logg))
		r.Post("/refresh", catalogcontrollers.Refresh(catalogService, logg))
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cartcontrollers.CartFetch(shoppingCart, logg))
		r.Delete("/", cartcontrollers.CartClear(shoppingCart, logg))
		r.Delete("/checked", cartcontrollers.CartClearChecked(shoppingCart, logg))
		r.Post("/purchase-all", cartcontrollers.CartPurchaseAll(shoppingCart, logg))
		r.Post("/items", cartcontrollers.CartAddItem(shoppingCart, logg))
		r.Patch("/items/{itemID}", cartcontrollers.CartUpdateQuantity(shoppingCart, logg))
		r.Post("/items/{itemID}/toggle", cartcontrollers.CartToggleItem(shoppingCart, logg))
		r.Delete("/items/{itemID}", cartcontrollers.CartRemoveItem(shoppingCart, logg))
		r.Post("/deals/{dealID}", cartcontrollers.CartAddDeal(shoppingCart, catalogService, logg))
	})

	return r
}
