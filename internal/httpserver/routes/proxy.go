package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/folio/internal/httpserver/mw"
)

func init() { Register(registerProxy) }

func registerProxy(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateLimit.Burst,
		RefillPerIPPerMin: d.RateLimit.RefillPerIPPerMin,
		MaxEntries:        d.RateLimit.MaxEntries,
		TrustProxy:        d.TrustProxy,
	})

	r.Group(func(r chi.Router) {
		r.Use(limit)

		r.Get("/api/metadata", handlers.Metadata(d))
		r.Get("/api/apps", handlers.Apps(d))
		r.Get("/api/base/items", handlers.BaseItems(d))
		r.Get("/api/sketch-mark", handlers.SketchMark(d))
		r.Get("/api/shopify/product", handlers.ShopifyProduct(d))
	})
}
