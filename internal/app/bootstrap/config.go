// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for PlanBoard.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, order_gap, etc.
//   - Environment variables: PLANBOARD_MONGO_URI, PLANBOARD_ORDER_GAP, etc.
//   - Command-line flags: --mongo_uri, --order_gap, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "plan_board", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Tree engine tuning
	{Name: "order_gap", Default: 10, Desc: "Spacing between normalized sibling order values"},
	{Name: "write_batch_size", Default: 500, Desc: "Max documents per bulk write chunk (1-500)"},

	// Background work
	{Name: "normalize_interval", Default: "24h", Desc: "Order normalizer sweep interval (0 disables)"},
	{Name: "watch_poll_interval", Default: "15s", Desc: "Live board requery interval when idle"},

	// Snapshot cache
	{Name: "redis_addr", Default: "", Desc: "Redis address for the board snapshot cache (blank disables)"},
	{Name: "snap_cache_ttl", Default: "30s", Desc: "TTL on cached board snapshots"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, PLANBOARD_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PLANBOARD", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		OrderGap:       int64(appValues.Int("order_gap")),
		WriteBatchSize: appValues.Int("write_batch_size"),

		NormalizeInterval: appValues.Duration("normalize_interval", 24*time.Hour),
		WatchPollInterval: appValues.Duration("watch_poll_interval", 15*time.Second),

		RedisAddr:    appValues.String("redis_addr"),
		SnapCacheTTL: appValues.Duration("snap_cache_ttl", 30*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked here to catch configuration errors
// early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.OrderGap <= 0 {
		return fmt.Errorf("order_gap must be positive, got %d", appCfg.OrderGap)
	}
	if appCfg.WriteBatchSize <= 0 {
		return fmt.Errorf("write_batch_size must be positive, got %d", appCfg.WriteBatchSize)
	}
	if appCfg.WatchPollInterval <= 0 {
		return fmt.Errorf("watch_poll_interval must be positive, got %s", appCfg.WatchPollInterval)
	}
	if appCfg.NormalizeInterval < 0 {
		return fmt.Errorf("normalize_interval must be zero or positive, got %s", appCfg.NormalizeInterval)
	}

	return nil
}
