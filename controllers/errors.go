package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-orders/services"
	"github.com/yeremiapane/restaurant-orders/utils"
)

var errMissingID = errors.New("id is required")

// statusFor maps a service error kind to its HTTP code. Conflicts are
// reported as 400, the clients treat them like any other rejected input.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(c *gin.Context, err error) {
	utils.RespondError(c, statusFor(err), err)
}

// respondListError answers a failed list call with an empty data set next to
// the error message, so list views can still render.
func respondListError(c *gin.Context, err error, empty interface{}) {
	c.JSON(statusFor(err), utils.JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    empty,
	})
}

func parseID(raw, name string) (uint, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", services.ErrInvalidInput, name)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", services.ErrInvalidInput, name)
	}
	return uint(id), nil
}

func bindError(err error) error {
	return fmt.Errorf("%w: %v", services.ErrInvalidInput, err)
}
