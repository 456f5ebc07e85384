package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"home-services-server/internal/models"
	"home-services-server/internal/repository"
	"home-services-server/internal/utils"
)

const anonymousDisplayName = "Anonymous"

type BookingService interface {
	Create(ctx context.Context, booking *models.Booking) error
	ListByCustomer(ctx context.Context, email string) ([]models.BookingWithService, error)
	Cancel(ctx context.Context, id, requesterEmail string) error
	AddReview(ctx context.Context, serviceID, reviewerEmail string, input models.ReviewInput) (*models.Service, error)
}

type bookingService struct {
	bookings repository.BookingRepository
	services repository.ServiceRepository
	cache    Cache
}

func NewBookingService(bookings repository.BookingRepository, services repository.ServiceRepository, cache Cache) BookingService {
	return &bookingService{
		bookings: bookings,
		services: services,
		cache:    cache,
	}
}

// Create books a service for a customer. The target service must exist, the
// customer must not be its provider, and the customer must not already hold
// a non-cancelled booking for it.
func (s *bookingService) Create(ctx context.Context, booking *models.Booking) error {
	if err := booking.Validate(); err != nil {
		return err
	}

	serviceID, err := primitive.ObjectIDFromHex(booking.ServiceID)
	if err != nil {
		return models.ErrNotFound
	}

	service, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return err
	}

	if service.ProviderEmail == booking.CustomerEmail {
		return models.ErrSelfBooking
	}

	exists, err := s.bookings.HasActive(ctx, serviceID.Hex(), booking.CustomerEmail)
	if err != nil {
		return err
	}
	if exists {
		return models.ErrAlreadyBooked
	}

	booking.ServiceID = serviceID.Hex()
	booking.Status = models.StatusPending
	return s.bookings.Create(ctx, booking)
}

// ListByCustomer returns the customer's bookings, each joined with the
// current document of the service it references. A booking whose service is
// gone keeps a nil service rather than failing the listing.
func (s *bookingService) ListByCustomer(ctx context.Context, email string) ([]models.BookingWithService, error) {
	bookings, err := s.bookings.GetByCustomer(ctx, email)
	if err != nil {
		return nil, err
	}

	result := make([]models.BookingWithService, 0, len(bookings))
	for _, booking := range bookings {
		item := models.BookingWithService{Booking: booking}

		if serviceID, err := primitive.ObjectIDFromHex(booking.ServiceID); err == nil {
			service, err := s.services.GetByID(ctx, serviceID)
			if err != nil && !errors.Is(err, models.ErrNotFound) {
				return nil, err
			}
			item.Service = service
		}

		result = append(result, item)
	}

	return result, nil
}

// Cancel removes a booking entirely. Only the booking's own customer may
// cancel; the status vocabulary includes "cancelled" but cancellation
// deletes the document rather than transitioning it.
func (s *bookingService) Cancel(ctx context.Context, id, requesterEmail string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}

	booking, err := s.bookings.GetByID(ctx, objID)
	if err != nil {
		return err
	}

	if booking.CustomerEmail != requesterEmail {
		return models.ErrForbidden
	}

	return s.bookings.Delete(ctx, objID)
}

// AddReview appends a review to the service and recomputes its average
// rating as the mean of the full updated list. The reviewer must hold a
// pending or completed booking on the service and must not have reviewed it
// before. The embedded list is the source of truth; the rating is written
// after the review so it can always be re-derived.
func (s *bookingService) AddReview(ctx context.Context, serviceID, reviewerEmail string, input models.ReviewInput) (*models.Service, error) {
	objID, err := primitive.ObjectIDFromHex(serviceID)
	if err != nil {
		return nil, models.ErrNotFound
	}

	qualified, err := s.bookings.HasPendingOrCompleted(ctx, objID.Hex(), reviewerEmail)
	if err != nil {
		return nil, err
	}
	if !qualified {
		return nil, models.ErrReviewNotAllowed
	}

	service, err := s.services.GetByID(ctx, objID)
	if err != nil {
		return nil, err
	}

	for _, review := range service.Reviews {
		if review.ReviewerEmail == reviewerEmail {
			return nil, models.ErrAlreadyReviewed
		}
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = anonymousDisplayName
	}

	review := models.Review{
		ReviewerEmail: reviewerEmail,
		DisplayName:   displayName,
		Rating:        input.Rating,
		Comment:       input.Comment,
		CreatedAt:     time.Now(),
	}

	matched, err := s.services.AppendReview(ctx, objID, review)
	if err != nil {
		return nil, err
	}
	if !matched {
		// The guarded push refused: a concurrent submission by the same
		// reviewer won the race.
		return nil, models.ErrAlreadyReviewed
	}

	updated, err := s.services.GetByID(ctx, objID)
	if err != nil {
		return nil, err
	}

	rating := models.AverageOfReviews(updated.Reviews)
	if err := s.services.SetAverageRating(ctx, objID, rating); err != nil {
		return nil, err
	}
	updated.AverageRating = rating

	if err := s.cache.Delete(ctx, topRatedCacheKey); err != nil {
		utils.GetLogger().Warn("failed to invalidate top rated cache", zap.Error(err))
	}

	return updated, nil
}
