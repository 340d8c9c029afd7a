package health

import (
	"context"
	"net/http"
	"time"

	"github.com/princekumarofficial/tourism-media-service/internal/utils/response"
)

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

// Health reports liveness and the state of each named dependency.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func Health(checks map[string]Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		if status != http.StatusOK {
			response.WriteJSON(w, status, response.Response{
				Status: response.StatusError,
				Error:  "dependency check failed",
				Data:   results,
			})
			return
		}
		response.WriteJSON(w, status, response.RequestOK("healthy", results))
	}
}
