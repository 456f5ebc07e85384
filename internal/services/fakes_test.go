package services

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"home-services-server/internal/models"
	"home-services-server/internal/utils"
)

// fakeServiceRepo is an in-memory stand-in for the services collection.
type fakeServiceRepo struct {
	services map[string]*models.Service
	order    []string

	findResult       []models.Service
	lastFilter       models.ServiceFilter
	topRatedResult   []models.Service
	topRatedCalls    int
	categoriesResult []string
	categoriesCalls  int

	lastUpdateFields bson.M
	refuseAppend     bool

	log *[]string
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: map[string]*models.Service{}}
}

func (f *fakeServiceRepo) add(service models.Service) primitive.ObjectID {
	if service.ID.IsZero() {
		service.ID = primitive.NewObjectID()
	}
	f.services[service.ID.Hex()] = &service
	f.order = append(f.order, service.ID.Hex())
	return service.ID
}

func (f *fakeServiceRepo) Find(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error) {
	f.lastFilter = filter
	return f.findResult, nil
}

func (f *fakeServiceRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	service, ok := f.services[id.Hex()]
	if !ok {
		return nil, models.ErrNotFound
	}
	clone := *service
	return &clone, nil
}

func (f *fakeServiceRepo) GetByProvider(ctx context.Context, email string) ([]models.Service, error) {
	result := []models.Service{}
	for _, hex := range f.order {
		if service, ok := f.services[hex]; ok && service.ProviderEmail == email {
			result = append(result, *service)
		}
	}
	return result, nil
}

func (f *fakeServiceRepo) Create(ctx context.Context, service *models.Service) error {
	service.ID = primitive.NewObjectID()
	service.CreatedAt = time.Now()
	service.UpdatedAt = time.Now()

	clone := *service
	f.services[service.ID.Hex()] = &clone
	f.order = append(f.order, service.ID.Hex())
	return nil
}

func (f *fakeServiceRepo) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Service, error) {
	f.lastUpdateFields = fields

	service, ok := f.services[id.Hex()]
	if !ok {
		return nil, models.ErrNotFound
	}

	if name, ok := fields["name"].(string); ok {
		service.Name = name
	}
	if price, ok := fields["price"].(float64); ok {
		service.Price = price
	}
	service.UpdatedAt = time.Now()

	clone := *service
	return &clone, nil
}

func (f *fakeServiceRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.services[id.Hex()]; !ok {
		return models.ErrNotFound
	}
	delete(f.services, id.Hex())
	f.logEvent("services.delete")
	return nil
}

func (f *fakeServiceRepo) TopRated(ctx context.Context) ([]models.Service, error) {
	f.topRatedCalls++
	return f.topRatedResult, nil
}

func (f *fakeServiceRepo) Categories(ctx context.Context) ([]string, error) {
	f.categoriesCalls++
	return f.categoriesResult, nil
}

func (f *fakeServiceRepo) AppendReview(ctx context.Context, id primitive.ObjectID, review models.Review) (bool, error) {
	if f.refuseAppend {
		return false, nil
	}

	service, ok := f.services[id.Hex()]
	if !ok {
		return false, nil
	}

	for _, existing := range service.Reviews {
		if existing.ReviewerEmail == review.ReviewerEmail {
			return false, nil
		}
	}

	service.Reviews = append(service.Reviews, review)
	return true, nil
}

func (f *fakeServiceRepo) SetAverageRating(ctx context.Context, id primitive.ObjectID, rating float64) error {
	service, ok := f.services[id.Hex()]
	if !ok {
		return models.ErrNotFound
	}
	service.AverageRating = rating
	return nil
}

func (f *fakeServiceRepo) logEvent(event string) {
	if f.log != nil {
		*f.log = append(*f.log, event)
	}
}

// fakeBookingRepo is an in-memory stand-in for the bookings collection.
type fakeBookingRepo struct {
	bookings map[string]*models.Booking
	order    []string

	log *[]string
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[string]*models.Booking{}}
}

func (f *fakeBookingRepo) add(booking models.Booking) primitive.ObjectID {
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	f.bookings[booking.ID.Hex()] = &booking
	f.order = append(f.order, booking.ID.Hex())
	return booking.ID
}

func (f *fakeBookingRepo) countForService(serviceID string) int {
	count := 0
	for _, booking := range f.bookings {
		if booking.ServiceID == serviceID {
			count++
		}
	}
	return count
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()

	clone := *booking
	f.bookings[booking.ID.Hex()] = &clone
	f.order = append(f.order, booking.ID.Hex())
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	booking, ok := f.bookings[id.Hex()]
	if !ok {
		return nil, models.ErrNotFound
	}
	clone := *booking
	return &clone, nil
}

func (f *fakeBookingRepo) GetByCustomer(ctx context.Context, email string) ([]models.Booking, error) {
	result := []models.Booking{}
	for _, hex := range f.order {
		if booking, ok := f.bookings[hex]; ok && booking.CustomerEmail == email {
			result = append(result, *booking)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) HasActive(ctx context.Context, serviceID, customerEmail string) (bool, error) {
	for _, booking := range f.bookings {
		if booking.ServiceID == serviceID && booking.CustomerEmail == customerEmail && booking.Status != models.StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) HasPendingOrCompleted(ctx context.Context, serviceID, customerEmail string) (bool, error) {
	for _, booking := range f.bookings {
		if booking.ServiceID != serviceID || booking.CustomerEmail != customerEmail {
			continue
		}
		if booking.Status == models.StatusPending || booking.Status == models.StatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.bookings[id.Hex()]; !ok {
		return models.ErrNotFound
	}
	delete(f.bookings, id.Hex())
	return nil
}

func (f *fakeBookingRepo) DeleteByService(ctx context.Context, serviceID string) (int64, error) {
	var count int64
	for hex, booking := range f.bookings {
		if booking.ServiceID == serviceID {
			delete(f.bookings, hex)
			count++
		}
	}
	if f.log != nil {
		*f.log = append(*f.log, "bookings.deleteByService")
	}
	return count, nil
}

func (f *fakeBookingRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

// fakeCache is an in-memory Cache that round-trips values through JSON the
// way the Redis wrapper does.
type fakeCache struct {
	store map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string][]byte{}}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := f.store[key]
	if !ok {
		return utils.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.store[key] = data
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.store, key)
	}
	return nil
}

func (f *fakeCache) has(key string) bool {
	_, ok := f.store[key]
	return ok
}
