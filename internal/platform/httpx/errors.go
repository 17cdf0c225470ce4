package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for the domain layer. Handlers map service errors onto
// these three families: bad user input, stale ids, and backend failures.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("resource not found")
	ErrGateway    = errors.New("gateway failure")
)

// ValidationError reports one or more violated constraints on user input.
// Kind names the rejected shape (e.g. InvalidLineItem, InvalidStatus).
type ValidationError struct {
	Kind       string
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return e.Kind
	}
	return e.Kind + ": " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError from the violated constraints.
func Invalid(kind string, violations ...string) *ValidationError {
	return &ValidationError{Kind: kind, Violations: violations}
}

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		ProblemWithErrors(w, http.StatusBadRequest, verr.Kind, "", verr.Violations)
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrGateway):
		Problem(w, http.StatusBadGateway, "Gateway Failure", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// FieldViolation renders a single constraint violation message.
func FieldViolation(field, constraint string) string {
	return fmt.Sprintf("%s: %s", field, constraint)
}
