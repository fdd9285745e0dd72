package services

import (
	"github.com/ghuser/wayfare/pkg/app"
	"github.com/ghuser/wayfare/pkg/cache"
	"github.com/ghuser/wayfare/pkg/config"
	domainsvcs "github.com/ghuser/wayfare/services/booking/domain/services"
	bookingpg "github.com/ghuser/wayfare/services/booking/infrastructure/persistence/postgres"
	catalogpg "github.com/ghuser/wayfare/services/catalog/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Booking *BookingService
}

// New wires all booking application services with infrastructure from the
// Application container and per-booking caps from config.
func New(a *app.Application, cfg *config.Config) *Services {
	items := catalogpg.NewItemRepository(a.Db)
	bookings := bookingpg.NewBookingRepository(a.Db, a.EventBus)

	var avail AvailabilityReserver
	if a.Redis != nil {
		avail = cache.NewAvailabilityCache(a.Redis)
	}

	caps := domainsvcs.Caps{
		MaxSeats:      cfg.MaxSeatsPerBooking,
		MaxRentalDays: cfg.MaxRentalDays,
	}

	return &Services{
		Booking: NewBookingService(items, bookings, avail, caps, a.BookingMetrics, a.Logger),
	}
}
