package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/httpserver/mw"
)

type (
	// Registrar mounts one feature's routes.
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type registration struct {
	mount  Registrar
	guards []Middleware
}

var registrations []registration

// Register queues a registrar, wrapped in the given middlewares. Called from init.
func Register(mount Registrar, guards ...Middleware) {
	registrations = append(registrations, registration{mount: mount, guards: guards})
}

// adminGuards restricts a route to trusted networks, hosts and token holders.
func adminGuards(d deps.Deps) []Middleware {
	return []Middleware{
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RequireToken(d.AdminToken, d.Logger),
	}
}

// RegisterAll mounts every queued registrar on r. Called once by the router.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, reg := range registrations {
		target := r
		if len(reg.guards) > 0 {
			target = r.With(reg.guards...)
		}
		reg.mount(target, d)
	}
}
