package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"home-services-server/internal/utils"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking is one customer's engagement of a service. ServiceID holds the hex
// form of the referenced service's identifier; there is no typed relation.
type Booking struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ServiceID     string             `json:"serviceId" bson:"serviceId" validate:"required"`
	CustomerEmail string             `json:"customerEmail" bson:"customerEmail" validate:"required,email"`
	Status        BookingStatus      `json:"status" bson:"status"`
	CreatedAt     time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
}

// Validate validates the Booking against its field rules.
func (b Booking) Validate() error {
	validate := utils.GetValidator()
	if err := validate.Struct(b); err != nil {
		errs := utils.ParseValidationErrors(err)
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, " // "))
	}

	return nil
}

// BookingWithService is a Booking joined with the current document of the
// service it references, for the caller's booking list.
type BookingWithService struct {
	Booking `bson:",inline"`
	Service *Service `json:"service,omitempty" bson:"service,omitempty"`
}
