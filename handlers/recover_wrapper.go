package handlers

import (
	"net/http"
	"runtime"

	"cableerp/logger"
)

// RecoverWrapper wraps an http.HandlerFunc with panic recovery
func RecoverWrapper(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				stack := make([]byte, 8*1024)
				stack = stack[:runtime.Stack(stack, false)]
				logger.FromContext(r.Context()).Error().
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Str("stack", string(stack)).
					Msg("panic recovered")
				writeJSON(w, http.StatusInternalServerError, ApiResponse{
					Success: false,
					Message: "Internal server error",
				})
			}
		}()

		handler(w, r)
	}
}
