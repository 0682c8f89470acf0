package httpx

import (
	"errors"
	"net/http"

	"github.com/plataforma-sst/accessgate/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrAuthenticationFailed):
		Problem(w, http.StatusUnauthorized, "Authentication Failed", err.Error())
	case errors.Is(err, shared.ErrSessionInvalid):
		Problem(w, http.StatusUnauthorized, "Session Invalid", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
