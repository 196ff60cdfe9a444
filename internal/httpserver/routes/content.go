package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/httpserver/handlers"
)

func init() { Register(registerContent) }

func registerContent(r chi.Router, d deps.Deps) {
	r.Get("/api/content", handlers.Content(d))
	r.Get("/api/featured", handlers.Featured(d))
}
