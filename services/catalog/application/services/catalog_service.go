package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgcache "github.com/ghuser/wayfare/pkg/cache"
	"github.com/ghuser/wayfare/services/catalog/domain/models"
	"github.com/ghuser/wayfare/services/catalog/domain/repositories"
)

// CatalogService serves inventory reads. Single-item lookups go through a
// Redis read-through cache; the booking worker drops cache entries whenever
// a booking event changes an item's availability.
type CatalogService struct {
	repo  repositories.ItemRepository
	cache *pkgcache.CatalogCache
}

// NewCatalogService returns a CatalogService wired with the given repository and cache.
func NewCatalogService(repo repositories.ItemRepository, catalogCache *pkgcache.CatalogCache) *CatalogService {
	return &CatalogService{repo: repo, cache: catalogCache}
}

// List returns catalog items matching the filter in insertion order.
// List bypasses the cache — filters vary too much to key usefully.
func (s *CatalogService) List(ctx context.Context, f repositories.Filter) ([]*models.Item, error) {
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return items, nil
}

// GetByID retrieves an Item using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query Postgres.
//  3. Asynchronously warm the cache with the Postgres result.
func (s *CatalogService) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil {
			return cachedToItem(cached), nil
		}
		// redis.Nil and transient cache errors both fall through to Postgres.
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get catalog item: %w", err)
	}

	if s.cache != nil {
		go func() {
			_ = s.cache.Set(context.Background(), itemToCached(item))
		}()
	}

	return item, nil
}

func cachedToItem(c *pkgcache.CachedItem) *models.Item {
	return &models.Item{
		ID:            c.ID,
		Kind:          models.Kind(c.Kind),
		Name:          c.Name,
		Description:   c.Description,
		Location:      c.Location,
		Category:      c.Category,
		Rate:          models.MoneyFromCents(c.RateCents),
		RateBasis:     models.RateBasis(c.RateBasis),
		TotalCapacity: c.TotalCapacity,
		Available:     c.Available,
		Attrs:         c.Attrs,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func itemToCached(i *models.Item) *pkgcache.CachedItem {
	return &pkgcache.CachedItem{
		ID:            i.ID,
		Kind:          string(i.Kind),
		Name:          i.Name,
		Description:   i.Description,
		Location:      i.Location,
		Category:      i.Category,
		RateCents:     i.Rate.Cents(),
		RateBasis:     string(i.RateBasis),
		TotalCapacity: i.TotalCapacity,
		Available:     i.Available,
		Attrs:         i.Attrs,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}
