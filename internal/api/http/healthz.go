package http

import (
	"net/http"
	"time"

	"github.com/quietwire/courier/internal/api/store"
	"github.com/quietwire/courier/pkg/httpx"
)

type healthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// HealthzHandler reports service health, including a database ping so a
// wedged store flips the probe.
func HealthzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}

		if err := st.Ping(r.Context()); err != nil {
			resp.Status = "degraded"
			httpx.WriteJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}
