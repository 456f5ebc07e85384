package models

import (
	"errors"
	"testing"
)

func TestBookingValidate(t *testing.T) {
	valid := Booking{ServiceID: "665f1d2b9c4a5e6f7a8b9c0d", CustomerEmail: "c@x.com"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate(valid) = %v, want nil", err)
	}

	noService := valid
	noService.ServiceID = ""
	if err := noService.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("Validate(no service id) = %v, want %v", err, ErrValidation)
	}

	noEmail := valid
	noEmail.CustomerEmail = ""
	if err := noEmail.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("Validate(no customer email) = %v, want %v", err, ErrValidation)
	}

	badEmail := valid
	badEmail.CustomerEmail = "not-an-email"
	if err := badEmail.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("Validate(bad customer email) = %v, want %v", err, ErrValidation)
	}
}
