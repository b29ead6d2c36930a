// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown cleanly tears down background work and DB connections. Order
// matters: writers of board state stop before the stores they write to.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Runner != nil {
		deps.Runner.Stop()
	}
	if deps.Hub != nil {
		deps.Hub.Stop()
	}
	if deps.Cache != nil {
		if err := deps.Cache.Close(); err != nil {
			logger.Warn("snapshot cache close failed", zap.Error(err))
		}
	}
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
