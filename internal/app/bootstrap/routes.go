// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	donationsfeature "github.com/dalemusser/foodbridge/internal/app/features/donations"
	healthfeature "github.com/dalemusser/foodbridge/internal/app/features/health"
	requestsfeature "github.com/dalemusser/foodbridge/internal/app/features/requests"
	"github.com/dalemusser/foodbridge/internal/app/system/blob"
	"github.com/dalemusser/foodbridge/internal/app/system/identity"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// This function should:
//  1. Create a router (chi, standard mux, etc.)
//  2. Mount feature routers for different parts of your application
//  3. Add any additional middleware needed for specific routes
//  4. Return the configured router as an http.Handler
//
// FoodBridge applies the actor-identity middleware globally and mounts the
// feature routers for donations, requests, health, and metrics.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	uploads, err := blob.NewLocalStore(appCfg.UploadDir, appCfg.UploadURLPrefix)
	if err != nil {
		logger.Error("upload store init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Global identity middleware: loads the gateway-supplied actor into
	// context so handlers can read it via identity.CurrentActor(r).
	r.Use(identity.Middleware)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.FoodBridgeMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Stored donation pictures, served with pre-compressed file support
	r.Handle(appCfg.UploadURLPrefix+"/*", fileserver.Handler(appCfg.UploadURLPrefix, appCfg.UploadDir))

	// Donation lifecycle
	donationsHandler := donationsfeature.NewHandler(deps.FoodBridgeMongoDatabase, deps.FoodBridgeMongoClient, uploads, appCfg.NearbyRadiusMeters, logger)
	r.Mount("/donations", donationsfeature.Routes(donationsHandler))

	// Receiver requests
	requestsHandler := requestsfeature.NewHandler(deps.FoodBridgeMongoDatabase, logger)
	r.Mount("/requests", requestsfeature.Routes(requestsHandler))

	return r, nil
}
