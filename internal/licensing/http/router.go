package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/licensing/internal/licensing/metrics"
	"github.com/aussiebroadwan/licensing/internal/licensing/service"
	"github.com/aussiebroadwan/licensing/internal/licensing/store"
	"github.com/aussiebroadwan/licensing/pkg/httpx"
	"github.com/aussiebroadwan/licensing/pkg/jwtx"
	"github.com/aussiebroadwan/licensing/pkg/slogx"

	_ "github.com/aussiebroadwan/licensing/api/licensing" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Limits selects the rate limit profile for each class of endpoint.
type Limits struct {
	Strict   httpx.RateLimitConfig
	Moderate httpx.RateLimitConfig
	Lenient  httpx.RateLimitConfig
}

// DefaultLimits returns the httpx profiles, after any RATELIMIT_* overrides.
func DefaultLimits() Limits {
	return Limits{
		Strict:   httpx.StrictLimit,
		Moderate: httpx.ModerateLimit,
		Lenient:  httpx.LenientLimit,
	}
}

// EventsHealth is implemented by event publishers that can report
// connectivity. Publishers without it are always reported healthy.
type EventsHealth interface {
	Healthy() error
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	metrics *metrics.Metrics

	Limits            Limits
	Events            EventsHealth // Optional: reported by /readyz when set
	LicenseRegistry   *service.LicenseRegistry
	ActivationService *service.TenantActivationService
	OperatorService   *service.OperatorService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		metrics:      m,
		logger:       logger,
		Limits:       DefaultLimits(),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOperator()
	r.registerLicenses()
	r.registerTenants()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Licensing Service API
//	@version		0.1.0
//	@description	Issues single-use license codes and redeems them to activate tenants.
//	@description
//	@description				Operator endpoints require a bearer token from /v1/operator/token.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/licensing
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Operator access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOperator() {
	h := &OperatorTokenHandler{OperatorService: r.OperatorService}

	// POST /operator/token - strict rate limit by IP (api key guessing)
	r.Mux.Handle("POST /v1/operator/token",
		httpx.Chain(h,
			httpx.RateLimitByIP(r.Limits.Strict),
		),
	)
}

func (r *Router) registerLicenses() {
	h := &LicensesHandler{Registry: r.LicenseRegistry}

	read := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(service.ScopeLicensesRead),
			httpx.RateLimitByOperator(r.Limits.Moderate),
		)
	}
	write := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(service.ScopeLicensesWrite),
			httpx.RateLimitByOperator(r.Limits.Moderate),
		)
	}

	r.Mux.Handle("POST /v1/licenses", write(h.HandleGenerate))
	r.Mux.Handle("GET /v1/licenses", read(h.HandleList))
	r.Mux.Handle("GET /v1/licenses/stats", read(h.HandleStats))
	r.Mux.Handle("GET /v1/licenses/{key}", read(h.HandleGet))
	r.Mux.Handle("POST /v1/licenses/{key}/expire", write(h.HandleExpire))
}

func (r *Router) registerTenants() {
	h := &ActivateHandler{ActivationService: r.ActivationService}

	// POST /tenants/activate - strict rate limit by IP (public, guesses codes)
	r.Mux.Handle("POST /v1/tenants/activate",
		httpx.Chain(h,
			httpx.RateLimitByIP(r.Limits.Strict),
		),
	)
}

func (r *Router) registerSystem() {
	// Probes and metrics are polled often; lenient limits only.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Events),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	if r.metrics != nil {
		r.Mux.Handle("GET /metrics",
			httpx.Chain(r.metrics.Handler(),
				httpx.RateLimitByIP(r.Limits.Lenient),
			),
		)
	}
}
