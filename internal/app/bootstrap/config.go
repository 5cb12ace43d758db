// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/foodbridge/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for FoodBridge.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, nearby_radius_meters, etc.
//   - Environment variables: FOODBRIDGE_MONGO_URI, FOODBRIDGE_NEARBY_RADIUS_METERS, etc.
//   - Command-line flags: --mongo_uri, --nearby_radius_meters, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "foodbridge", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Donation matching configuration
	{Name: "nearby_radius_meters", Default: 5000, Desc: "Default radius in meters for nearby-donation queries"},

	// Donation picture storage
	{Name: "upload_dir", Default: "./uploads/donations", Desc: "Local directory for donation pictures"},
	{Name: "upload_url_prefix", Default: "/files/donations", Desc: "URL prefix for serving donation pictures"},

	// Database timeout tiers
	{Name: "db_timeout_ping", Default: "2s", Desc: "Timeout for health-check pings (e.g., 2s)"},
	{Name: "db_timeout_short", Default: "5s", Desc: "Timeout for single-document operations (e.g., 5s)"},
	{Name: "db_timeout_medium", Default: "10s", Desc: "Timeout for list and geo queries (e.g., 10s)"},
	{Name: "db_timeout_long", Default: "30s", Desc: "Timeout for multi-collection operations (e.g., 30s)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, FOODBRIDGE_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "FOODBRIDGE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		NearbyRadiusMeters: float64(appValues.Int("nearby_radius_meters")),

		UploadDir:       appValues.String("upload_dir"),
		UploadURLPrefix: appValues.String("upload_url_prefix"),

		DBTimeoutPing:   appValues.Duration("db_timeout_ping", timeouts.DefaultPing),
		DBTimeoutShort:  appValues.Duration("db_timeout_short", timeouts.DefaultShort),
		DBTimeoutMedium: appValues.Duration("db_timeout_medium", timeouts.DefaultMedium),
		DBTimeoutLong:   appValues.Duration("db_timeout_long", timeouts.DefaultLong),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
//
// FoodBridge validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.NearbyRadiusMeters <= 0 {
		return fmt.Errorf("nearby_radius_meters must be positive, got %v", appCfg.NearbyRadiusMeters)
	}

	return nil
}
