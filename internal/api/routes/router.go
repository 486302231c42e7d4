package routes

import (
	"net/http"

	"github.com/servicios-app/backend/internal/api/handlers"
	"github.com/servicios-app/backend/internal/api/middleware"
	"github.com/servicios-app/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	professionalHandler   *handlers.ProfessionalHandler
	reviewHandler         *handlers.ReviewHandler
	serviceRequestHandler *handlers.ServiceRequestHandler
	authHandler           *handlers.AuthHandler
	healthHandler         *handlers.HealthHandler

	authenticator   middleware.Authenticator
	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics
}

// Options carries the optional pieces of the HTTP stack
type Options struct {
	CacheMiddleware *middleware.CacheMiddleware
	AllowedOrigins  []string
	Metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	professionalHandler *handlers.ProfessionalHandler,
	reviewHandler *handlers.ReviewHandler,
	serviceRequestHandler *handlers.ServiceRequestHandler,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	authenticator middleware.Authenticator,
	opts Options,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		professionalHandler:   professionalHandler,
		reviewHandler:         reviewHandler,
		serviceRequestHandler: serviceRequestHandler,
		authHandler:           authHandler,
		healthHandler:         healthHandler,

		authenticator:   authenticator,
		cacheMiddleware: opts.CacheMiddleware,
		allowedOrigins:  opts.AllowedOrigins,
		metrics:         opts.Metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Professional endpoints
	r.mux.HandleFunc("GET /api/categories", r.professionalHandler.ListCategories)
	r.mux.HandleFunc("GET /api/professionals", r.professionalHandler.ListProfessionals)
	r.mux.HandleFunc("GET /api/professionals/search", r.professionalHandler.SearchProfessionals)
	r.mux.HandleFunc("GET /api/professionals/{id}", r.professionalHandler.GetProfessional)
	r.mux.HandleFunc("POST /api/professionals", r.professionalHandler.CreateProfessional)
	r.mux.HandleFunc("PUT /api/professionals/{id}", r.professionalHandler.UpdateProfessional)
	r.mux.HandleFunc("DELETE /api/professionals/{id}", r.professionalHandler.DeleteProfessional)
	r.mux.HandleFunc("GET /api/professionals/{id}/reviews", r.professionalHandler.ListProfessionalReviews)

	// Service request endpoints
	r.mux.HandleFunc("GET /api/service-requests", r.serviceRequestHandler.ListServiceRequests)
	r.mux.HandleFunc("POST /api/service-requests", r.serviceRequestHandler.CreateServiceRequest)
	r.mux.HandleFunc("GET /api/service-requests/{id}", r.serviceRequestHandler.GetServiceRequest)
	r.mux.HandleFunc("PUT /api/service-requests/{id}", r.serviceRequestHandler.UpdateServiceRequest)
	r.mux.HandleFunc("DELETE /api/service-requests/{id}", r.serviceRequestHandler.DeleteServiceRequest)
	r.mux.HandleFunc("PUT /api/service-requests/{id}/status", r.serviceRequestHandler.UpdateServiceRequestStatus)

	// Review endpoints
	r.mux.HandleFunc("GET /api/reviews", r.reviewHandler.ListReviews)
	r.mux.HandleFunc("POST /api/reviews", r.reviewHandler.CreateReview)
	r.mux.HandleFunc("GET /api/reviews/{id}", r.reviewHandler.GetReview)
	r.mux.HandleFunc("PUT /api/reviews/{id}", r.reviewHandler.UpdateReview)
	r.mux.HandleFunc("DELETE /api/reviews/{id}", r.reviewHandler.DeleteReview)

	// Auth endpoints
	r.mux.HandleFunc("POST /api/auth/register", r.authHandler.Register)
	r.mux.HandleFunc("POST /api/auth/login", r.authHandler.Login)
	r.mux.HandleFunc("POST /api/auth/logout", r.authHandler.Logout)
	r.mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(r.authenticator)(r.authHandler.Me))

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ResponseOptimization(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
