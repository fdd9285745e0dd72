package services

import (
	"github.com/ghuser/wayfare/pkg/app"
	"github.com/ghuser/wayfare/pkg/cache"
	"github.com/ghuser/wayfare/services/catalog/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Catalog *CatalogService
}

// New wires all catalog application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewItemRepository(a.Db)
	var catalogCache *cache.CatalogCache
	if a.Redis != nil {
		catalogCache = cache.NewCatalogCache(a.Redis)
	}
	return &Services{
		Catalog: NewCatalogService(repo, catalogCache),
	}
}
