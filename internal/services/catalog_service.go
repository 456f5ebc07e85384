package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"home-services-server/internal/models"
	"home-services-server/internal/repository"
	"home-services-server/internal/utils"
)

const (
	topRatedCacheKey   = "services:top_rated"
	categoriesCacheKey = "services:categories"
)

// Cache is the slice of the Redis wrapper the services need.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type CatalogService interface {
	List(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error)
	Get(ctx context.Context, id string) (*models.Service, error)
	ListByProvider(ctx context.Context, email string) ([]models.Service, error)
	Create(ctx context.Context, service *models.Service) error
	Update(ctx context.Context, id, requesterEmail string, patch map[string]interface{}) (*models.Service, error)
	Delete(ctx context.Context, id, requesterEmail string) error
	TopRated(ctx context.Context) ([]models.Service, error)
	Categories(ctx context.Context) ([]string, error)
}

type catalogService struct {
	services repository.ServiceRepository
	bookings repository.BookingRepository
	cache    Cache
	cacheTTL time.Duration
}

func NewCatalogService(services repository.ServiceRepository, bookings repository.BookingRepository, cache Cache, cacheTTL time.Duration) CatalogService {
	return &catalogService{
		services: services,
		bookings: bookings,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (s *catalogService) List(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error) {
	return s.services.Find(ctx, filter)
}

func (s *catalogService) Get(ctx context.Context, id string) (*models.Service, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	return s.services.GetByID(ctx, objID)
}

func (s *catalogService) ListByProvider(ctx context.Context, email string) ([]models.Service, error) {
	return s.services.GetByProvider(ctx, email)
}

func (s *catalogService) Create(ctx context.Context, service *models.Service) error {
	// Client-supplied rating data never survives creation.
	service.Reviews = []models.Review{}
	service.AverageRating = models.DefaultAverageRating

	if err := service.Validate(); err != nil {
		return err
	}

	if err := s.services.Create(ctx, service); err != nil {
		return err
	}

	s.invalidateListings(ctx)
	return nil
}

// Update merges the supplied fields into the service after an ownership
// check. A target that does not exist is indistinguishable from one the
// caller does not own.
func (s *catalogService) Update(ctx context.Context, id, requesterEmail string, patch map[string]interface{}) (*models.Service, error) {
	existing, err := s.loadOwned(ctx, id, requesterEmail)
	if err != nil {
		return nil, err
	}

	// A JSON null body binds to a nil map; treat it as an empty patch.
	if patch == nil {
		patch = map[string]interface{}{}
	}

	// Identifiers are immutable.
	delete(patch, "id")
	delete(patch, "_id")

	updated, err := s.services.Update(ctx, existing.ID, bson.M(patch))
	if err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)
	return updated, nil
}

// Delete removes a service after an ownership check, taking dependent
// bookings out first so an interrupted delete cannot leave bookings
// referencing a missing service.
func (s *catalogService) Delete(ctx context.Context, id, requesterEmail string) error {
	existing, err := s.loadOwned(ctx, id, requesterEmail)
	if err != nil {
		return err
	}

	if _, err := s.bookings.DeleteByService(ctx, existing.ID.Hex()); err != nil {
		return err
	}

	if err := s.services.Delete(ctx, existing.ID); err != nil {
		return err
	}

	s.invalidateListings(ctx)
	return nil
}

func (s *catalogService) TopRated(ctx context.Context) ([]models.Service, error) {
	var cached []models.Service
	if err := s.cache.Get(ctx, topRatedCacheKey, &cached); err == nil {
		return cached, nil
	}

	services, err := s.services.TopRated(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, topRatedCacheKey, services, s.cacheTTL); err != nil {
		utils.GetLogger().Warn("failed to cache top rated services", zap.Error(err))
	}

	return services, nil
}

func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	var cached []string
	if err := s.cache.Get(ctx, categoriesCacheKey, &cached); err == nil {
		return cached, nil
	}

	categories, err := s.services.Categories(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, categoriesCacheKey, categories, s.cacheTTL); err != nil {
		utils.GetLogger().Warn("failed to cache categories", zap.Error(err))
	}

	return categories, nil
}

// loadOwned resolves a service for mutation. Both a missing document and a
// provider email mismatch come back as ErrForbidden.
func (s *catalogService) loadOwned(ctx context.Context, id, requesterEmail string) (*models.Service, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrForbidden
	}

	existing, err := s.services.GetByID(ctx, objID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrForbidden
		}
		return nil, err
	}

	if existing.ProviderEmail != requesterEmail {
		return nil, models.ErrForbidden
	}

	return existing, nil
}

func (s *catalogService) invalidateListings(ctx context.Context) {
	if err := s.cache.Delete(ctx, topRatedCacheKey, categoriesCacheKey); err != nil {
		utils.GetLogger().Warn("failed to invalidate listing cache", zap.Error(err))
	}
}
