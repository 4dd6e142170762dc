package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/brewcart/api/controllers"
	"github.com/angelmondragon/brewcart/api/middleware"
	"github.com/angelmondragon/brewcart/internal/cart"
	"github.com/angelmondragon/brewcart/internal/catalog"
	checkoutsvc "github.com/angelmondragon/brewcart/internal/checkout"
	"github.com/angelmondragon/brewcart/internal/orders"
	"github.com/angelmondragon/brewcart/internal/session"
	"github.com/angelmondragon/brewcart/pkg/config"
	"github.com/angelmondragon/brewcart/pkg/kv"
	"github.com/angelmondragon/brewcart/pkg/logger"
)

// Dependencies are the services the HTTP surface is built on.
type Dependencies struct {
	Storage     kv.Pinger
	Cart        cart.Store
	Menu        catalog.Source
	Checkout    checkoutsvc.Service
	LastOrder   *orders.LastOrderStore
	Contacts    *orders.ContactStore
	History     *orders.HTTPClient
	Credentials session.CredentialSource
	Gatherer    prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	credentials := deps.Credentials
	if credentials == nil {
		credentials = session.Static("")
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Storage))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Cart, deps.Menu, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, deps.Menu, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, deps.Menu, logg))
			r.Patch("/items/{lineID}", controllers.CartUpdateQuantity(deps.Cart, deps.Menu, logg))
			r.Delete("/items/{lineID}", controllers.CartRemoveItem(deps.Cart, deps.Menu, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutSubmit(deps.Checkout, logg))
			r.Post("/quote", controllers.CheckoutQuote(deps.Checkout, logg))
			r.Post("/promo", controllers.CheckoutApplyPromo(deps.Checkout, logg))
			r.Delete("/promo", controllers.CheckoutRemovePromo(deps.Checkout, logg))
			if deps.Contacts != nil {
				r.Get("/contact", controllers.CheckoutContact(deps.Contacts, logg))
			}
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/last", controllers.OrdersLast(deps.LastOrder, logg))
			if deps.History != nil {
				r.Get("/", controllers.OrdersList(deps.History, credentials, logg))
			}
		})
	})

	return r
}
