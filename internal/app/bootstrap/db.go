// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	nodestore "github.com/dalemusser/planboard/internal/app/store/nodes"
	"github.com/dalemusser/planboard/internal/app/system/indexes"
	"github.com/dalemusser/planboard/internal/app/system/snapcache"
	systemtasks "github.com/dalemusser/planboard/internal/app/system/tasks"
	"github.com/dalemusser/planboard/internal/app/system/watch"
	"github.com/dalemusser/planboard/internal/app/system/workers"
	"github.com/dalemusser/planboard/internal/app/tree"
)

// ConnectDB establishes the MongoDB connection and builds everything that
// hangs off it: the node store, the tree engine, the live board hub, the
// optional snapshot cache, and the background job runner. Components are
// constructed here and started later in Startup.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	clientOpts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize))

	svc := tree.NewService(nodestore.New(db), logger, tree.Config{
		OrderGap:  appCfg.OrderGap,
		BatchSize: appCfg.WriteBatchSize,
	})

	var cache *snapcache.Cache
	if appCfg.RedisAddr != "" {
		cache, err = snapcache.New(appCfg.RedisAddr, logger, appCfg.SnapCacheTTL)
		if err != nil {
			_ = client.Disconnect(ctx)
			return DBDeps{}, fmt.Errorf("snapshot cache: %w", err)
		}
		logger.Info("board snapshot cache enabled", zap.String("redis_addr", appCfg.RedisAddr))
	} else {
		logger.Info("board snapshot cache disabled; redis_addr is blank")
	}

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Tree:          svc,
		Hub:           watch.NewHub(db, logger, appCfg.WatchPollInterval),
		Cache:         cache,
		Runner: workers.NewRunner(logger,
			systemtasks.OrderNormalizeJob(svc, logger, appCfg.NormalizeInterval)),
	}
	return deps, nil
}

// EnsureSchema reconciles the MongoDB indexes the queries depend on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return indexes.EnsureAll(ctx, deps.MongoDatabase)
}
