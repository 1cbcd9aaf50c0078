package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/licensing/internal/licensing/store"
	"github.com/aussiebroadwan/licensing/pkg/httpx"
	"github.com/aussiebroadwan/licensing/pkg/licensesdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking the license store and, when configured, the event bus.
//	@Description	An event bus outage degrades the report but does not fail the probe.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	licensesdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	licensesdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	ev EventsHealth,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &licensesdk.HealthChecks{Database: "ok"}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// Events are best effort, so a broken bus never fails readiness.
		if ev != nil {
			checks.Events = "ok"
			if err := ev.Healthy(); err != nil {
				checks.Events = "error: " + err.Error()
				overallStatus = "degraded"
			}
		}

		httpx.WriteJSON(w, statusCode, licensesdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
