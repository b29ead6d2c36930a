// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, logging
// level, CORS, request limits); AppConfig is everything specific to this
// service. The struct is passed to most lifecycle hooks, so any value needed
// during startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm in the pool

	// Tree engine tuning
	OrderGap       int64 // Spacing constant for normalized sibling orders
	WriteBatchSize int   // Documents per bulk write chunk

	// Background work
	NormalizeInterval time.Duration // How often the order normalizer sweeps; 0 disables
	WatchPollInterval time.Duration // Live board requery interval when no writes arrive

	// Snapshot cache (optional)
	RedisAddr    string        // Redis address for the board snapshot cache; blank disables
	SnapCacheTTL time.Duration // TTL on cached board snapshots
}
