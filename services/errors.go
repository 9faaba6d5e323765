package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/restaurant-orders/repository"
	"github.com/yeremiapane/restaurant-orders/utils"
)

// Error kinds. Every error returned by a service wraps exactly one of these.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func classified(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrStoreUnavailable)
}

// storeError passes domain errors through and turns anything else coming out
// of the store into ErrStoreUnavailable. The cause is logged, not returned.
func storeError(op string, err error) error {
	if err == nil || classified(err) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundf("%s", op)
	}
	entry := utils.ErrorLogger.WithError(err).WithField("op", op)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		entry.Warn("Store call interrupted")
	} else {
		entry.Error("Store failure")
	}
	return fmt.Errorf("%w: %s failed", ErrStoreUnavailable, op)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the struct tags and reports the first few failures as
// one InvalidInput error.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalidf("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return invalidf("%s", strings.Join(msgs, "; "))
}
