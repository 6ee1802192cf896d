package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tradermatch_client/services"

	"github.com/go-playground/validator/v10"
)

// HealthCheckHandler provides a basic health check
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// the status line is already out; a failed write only means the peer left
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSONResponse(w, status, map[string]string{"error": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// statusFor maps client errors onto bridge status codes. Anything unknown
// is an upstream failure.
func statusFor(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, ErrQueueExhausted):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrNoConversation), errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidProfile):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrChannelClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrRewindUnavailable):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrRewindNotSupported):
		return http.StatusNotImplemented
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func writeErr(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}
