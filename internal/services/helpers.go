package services

import (
	stderrors "errors"
	"strings"
	"time"

	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/pkg/validator"
)

// Clock returns the current time. Services take one so tests can pin dates.
type Clock func() time.Time

func orNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// validate checks s against its tags and converts failures to a
// VALIDATION_ERROR app error.
func validate(s interface{}) error {
	err := validator.ValidateStruct(s)
	if err == nil {
		return nil
	}
	var verr *validator.Error
	if stderrors.As(err, &verr) {
		return errors.NewValidationError(strings.ToLower(strings.Join(verr.FieldNames(), ",")), verr.Error())
	}
	return errors.NewInternalError(err)
}

// appError keeps app errors as they are and wraps anything else as an
// internal error.
func appError(err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	return errors.NewInternalError(err)
}
