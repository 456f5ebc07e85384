package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"home-services-server/internal/utils"
)

// DefaultAverageRating seeds averageRating for a service with no reviews
// yet. It is an explicit starting value, not a computed mean.
const DefaultAverageRating = 4.5

// Service represents a household service listed by a provider. Reviews are
// embedded documents; averageRating is derived from them and recomputed in
// full whenever a review is added.
type Service struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name" validate:"required"`
	Category      string             `json:"category" bson:"category" validate:"required"`
	Price         float64            `json:"price" bson:"price" validate:"gte=0"`
	Description   string             `json:"description" bson:"description"`
	ProviderEmail string             `json:"providerEmail" bson:"providerEmail" validate:"required,email"`
	AverageRating float64            `json:"averageRating" bson:"averageRating"`
	Reviews       []Review           `json:"reviews" bson:"reviews"`
	CreatedAt     time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt     time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Validate validates the Service against its field rules.
func (s Service) Validate() error {
	validate := utils.GetValidator()
	if err := validate.Struct(s); err != nil {
		errs := utils.ParseValidationErrors(err)
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, " // "))
	}

	return nil
}

// Review is one customer's rating of a service. It lives inside the owning
// Service document and is never stored on its own. The rating is expected to
// fall in 1..5 but the range is not enforced.
type Review struct {
	ReviewerEmail string    `json:"reviewerEmail" bson:"reviewerEmail"`
	DisplayName   string    `json:"displayName" bson:"displayName"`
	Rating        float64   `json:"rating" bson:"rating"`
	Comment       string    `json:"comment" bson:"comment"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// ReviewInput is the request payload for adding a review.
type ReviewInput struct {
	Rating      float64 `json:"rating"`
	Comment     string  `json:"comment"`
	DisplayName string  `json:"displayName"`
}

// ServiceFilter captures the optional listing constraints. A zero field
// means "no constraint" for that dimension.
type ServiceFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Search   string
	Sort     string
	Limit    int64
}

// Sort selectors accepted by the listing endpoint.
const (
	SortPriceAsc   = "price-asc"
	SortPriceDesc  = "price-desc"
	SortRatingDesc = "rating-desc"
)

// AverageOfReviews returns the arithmetic mean of the given ratings, or the
// seed value when the list is empty.
func AverageOfReviews(reviews []Review) float64 {
	if len(reviews) == 0 {
		return DefaultAverageRating
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return sum / float64(len(reviews))
}
