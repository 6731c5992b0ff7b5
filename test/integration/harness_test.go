package integration

import (
	"net/http"
	"testing"
)

func TestHarness_Startup(t *testing.T) {
	h := NewTestHarness(t)

	// Verify the server is running.
	resp := h.GET("/health")
	h.AssertStatus(t, resp, http.StatusOK)
}

func TestHarness_HealthEndpoints(t *testing.T) {
	h := NewTestHarness(t)

	t.Run("health", func(t *testing.T) {
		resp := h.GET("/health")
		h.AssertStatus(t, resp, http.StatusOK)

		var body map[string]string
		h.ParseJSON(resp, &body)
		if body["status"] != "ok" {
			t.Errorf("health status = %q, want ok", body["status"])
		}
	})

	t.Run("ready", func(t *testing.T) {
		resp := h.GET("/ready")
		h.AssertStatus(t, resp, http.StatusOK)
	})

	t.Run("metrics", func(t *testing.T) {
		resp := h.GET("/metrics")
		h.AssertStatus(t, resp, http.StatusOK)
	})
}

func TestHarness_UnknownRouteReturns404(t *testing.T) {
	h := NewTestHarness(t)

	resp := h.GET("/api/unknown")
	h.AssertStatus(t, resp, http.StatusNotFound)
}
