package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/wayfare/pkg/app"
	"github.com/ghuser/wayfare/services/catalog/application/handlers"
	appsvcs "github.com/ghuser/wayfare/services/catalog/application/services"
)

// CatalogRoutes registers catalog endpoints on the provided chi router.
func CatalogRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Group(func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", handlers.NewGetCatalogHandler(svcs).Execute)
			r.Get("/{id}", handlers.NewGetItemHandler(svcs).Execute)
		})
	})
}
