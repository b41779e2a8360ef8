package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"cableerp/logger"
	"cableerp/services"
)

// ApiResponse is the envelope of every JSON response.
type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
	Token   string      `json:"token,omitempty"`
	// Allocation responses only.
	UpdatedOrders interface{} `json:"updatedOrders,omitempty"`
	Payments      interface{} `json:"payments,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "Invalid request payload: " + err.Error(),
		})
		return false
	}
	return true
}

// writeError maps the service error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "Internal server error"
	var nf *services.NotFoundError
	switch {
	case errors.Is(err, services.ErrValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.As(err, &nf):
		status, msg = http.StatusNotFound, nf.Error()
	case errors.Is(err, services.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	default:
		logger.FromContext(r.Context()).Error().Err(err).
			Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, ApiResponse{Success: false, Message: capitalize(msg)})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func ok(w http.ResponseWriter, msg string, data interface{}) {
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: msg, Data: data})
}

func created(w http.ResponseWriter, msg string, data interface{}) {
	writeJSON(w, http.StatusCreated, ApiResponse{Success: true, Message: msg, Data: data})
}
