package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/wayfare/pkg/app"
	"github.com/ghuser/wayfare/pkg/auth"
	"github.com/ghuser/wayfare/pkg/config"
	"github.com/ghuser/wayfare/services/booking/application/handlers"
	appsvcs "github.com/ghuser/wayfare/services/booking/application/services"
)

// BookingRoutes registers booking endpoints on the provided chi router.
// When cfg.AuthRequired is set, write endpoints demand a valid session.
func BookingRoutes(r chi.Router, a *app.Application, cfg *config.Config) {
	svcs := appsvcs.New(a, cfg)
	r.Group(func(r chi.Router) {
		if cfg.AuthRequired && a.SessionStore != nil {
			r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
		}
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", handlers.NewGetBookingsHandler(svcs).Execute)
			r.Post("/", handlers.NewPostBookingHandler(svcs).Execute)
			r.Post("/quote", handlers.NewPostQuoteHandler(svcs).Execute)
			r.Get("/{id}", handlers.NewGetBookingHandler(svcs).Execute)
			r.Delete("/{id}", handlers.NewDeleteBookingHandler(svcs).Execute)
		})
	})
}
