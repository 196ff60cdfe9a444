package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/httpserver/handlers"
)

func init() { Register(registerAdmin) }

func registerAdmin(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(adminGuards(d)...)

		r.Get("/api/admin/content", handlers.AdminContent(d))
		r.Put("/api/admin/draft", handlers.SaveDraft(d))
		r.Delete("/api/admin/draft", handlers.DiscardDraft(d))
		r.Get("/api/admin/activity", handlers.Activity(d))
		r.Post("/api/publish", handlers.Publish(d))
		r.Post("/api/upload", handlers.Upload(d))
		r.Post("/reload", handlers.Reload(d))
	})
}
