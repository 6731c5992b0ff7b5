package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Samuel-A-Santos/form/internal/builder"
	"github.com/Samuel-A-Santos/form/internal/collect"
	"github.com/Samuel-A-Santos/form/internal/config"
	"github.com/Samuel-A-Santos/form/internal/observability"
)

// Dependencies holds all injected dependencies for the HTTP transport layer.
type Dependencies struct {
	Config    *config.Config
	Logger    *zap.Logger
	Editor    *builder.Editor
	Collector *collect.Collector
	Metrics   *observability.Metrics
	Readiness observability.ReadinessChecks
}

// NewRouter creates a chi.Router with the full middleware pipeline and all
// route registrations. Health, readiness, and metrics endpoints skip the
// timeout and logging layers.
func NewRouter(deps Dependencies) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Global middleware: applied to all routes including health.
	r.Use(Recovery(logger))
	r.Use(CORS(deps.Config.Server.CORS))
	r.Use(RequestID)
	r.Use(SecurityHeaders)

	r.Get("/health", observability.HandleHealth())
	r.Get("/ready", observability.HandleReady(deps.Readiness))
	if deps.Config.Observability.Metrics.Enabled {
		path := deps.Config.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, observability.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(observability.TracingMiddleware)
		if deps.Metrics != nil {
			r.Use(deps.Metrics.MetricsMiddleware)
		}
		r.Use(HandlerTimeout(deps.Config.Server.HandlerTimeout))
		r.Use(RequestLogging(logger))

		r.Route("/forms", func(r chi.Router) {
			r.Get("/", handleListForms(deps))
			r.Post("/", handleCreateForm(deps))

			r.Route("/{formId}", func(r chi.Router) {
				r.Get("/", handleGetForm(deps))
				r.Put("/", handleUpdateForm(deps))
				r.Delete("/", handleDeleteForm(deps))

				r.Post("/questions", handleAddQuestion(deps))
				r.Put("/questions/{questionId}", handleUpdateQuestion(deps))
				r.Delete("/questions/{questionId}", handleDeleteQuestion(deps))
				r.Post("/questions/{questionId}/move", handleMoveQuestion(deps))

				r.Post("/visibility", handleVisibility(deps))

				r.Get("/responses", handleListResponses(deps))
				r.Post("/responses", handleSubmitResponse(deps))
				r.Get("/export", handleExportCSV(deps))
			})
		})

		r.Delete("/responses/{responseId}", handleDeleteResponse(deps))
	})

	return r
}
