package routes

import (
	"net/http"

	"github.com/discoverly/discoverly/backend/internal/api/handlers"
	"github.com/discoverly/discoverly/backend/internal/api/middleware"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	discoveryHandler *handlers.DiscoveryHandler
	businessHandler  *handlers.BusinessHandler
	historyHandler   *handlers.HistoryHandler
	taxonomyHandler  *handlers.TaxonomyHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	discoveryHandler *handlers.DiscoveryHandler,
	businessHandler *handlers.BusinessHandler,
	historyHandler *handlers.HistoryHandler,
	taxonomyHandler *handlers.TaxonomyHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		discoveryHandler: discoveryHandler,
		businessHandler:  businessHandler,
		historyHandler:   historyHandler,
		taxonomyHandler:  taxonomyHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Discovery endpoints
	r.mux.HandleFunc("GET /api/discovery/nearby", r.discoveryHandler.Nearby)
	r.mux.HandleFunc("GET /api/discovery/top-picks", r.discoveryHandler.TopPicks)
	r.mux.HandleFunc("GET /api/discovery/on-the-rise", r.discoveryHandler.OnTheRise)
	r.mux.HandleFunc("GET /api/discovery/newly-added", r.discoveryHandler.NewlyAdded)
	r.mux.HandleFunc("GET /api/discovery/recents", r.discoveryHandler.Recents)
	r.mux.HandleFunc("GET /api/discovery/explore", r.discoveryHandler.Explore)

	// Business endpoints
	r.mux.HandleFunc("GET /api/businesses", r.businessHandler.ListBusinesses)
	r.mux.HandleFunc("GET /api/businesses/{id}", r.businessHandler.GetBusiness)

	// View history endpoints
	r.mux.HandleFunc("POST /api/history/views", r.historyHandler.RecordView)

	// Taxonomy endpoints
	r.mux.HandleFunc("GET /api/taxonomy/resolve", r.taxonomyHandler.ResolveCategory)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
