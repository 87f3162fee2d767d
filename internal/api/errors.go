package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/laev/remem-api/internal/domain"
	"github.com/laev/remem-api/internal/domain/schedule"
	"github.com/laev/remem-api/internal/service/auth"
	"github.com/laev/remem-api/internal/service/review"
	"github.com/laev/remem-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, review.ErrItemNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrItemNotFound),
		errors.Is(err, review.ErrItemNotFound):
		return http.StatusNotFound

	// Conflict errors: duplicate email, lost lock race, duplicate outcome.
	// The concurrency conflict is retryable by the client.
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, review.ErrConcurrencyConflict),
		errors.Is(err, review.ErrOutcomeAlreadyRecorded):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, schedule.ErrInvalidOffset),
		errors.Is(err, domain.ErrItemMainTextEmpty),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	// Authorization errors
	case errors.Is(err, review.ErrItemNotOwned):
		return "You do not own this item"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrItemNotFound),
		errors.Is(err, review.ErrItemNotFound):
		return "Item not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, review.ErrConcurrencyConflict):
		return "Item is being modified, please retry"

	case errors.Is(err, review.ErrOutcomeAlreadyRecorded):
		return "Outcome already recorded for the current review"

	// Bad request errors
	case errors.Is(err, schedule.ErrInvalidOffset):
		return "Invalid UTC offset"

	case errors.Is(err, domain.ErrItemMainTextEmpty):
		return "Main text cannot be blank"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	default:
		// Field-level validation failures carry a safe, specific message.
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return vErr.Error()
		}
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
