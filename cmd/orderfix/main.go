// Command orderfix runs one order-normalization sweep and exits. It is the
// offline counterpart of the periodic job: point it at the same database and
// re-run until the report shows zero updates if a sweep fails partway.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	nodestore "github.com/dalemusser/planboard/internal/app/store/nodes"
	"github.com/dalemusser/planboard/internal/app/tree"
)

func main() {
	var (
		uri      = flag.String("mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
		database = flag.String("database", "plan_board", "database name")
		timeout  = flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init failed:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(*uri, *database, *timeout, logger); err != nil {
		logger.Error("orderfix failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(uri, database string, timeout time.Duration, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}

	svc := tree.NewService(nodestore.New(client.Database(database)), logger, tree.Config{})

	rep, err := svc.Normalize(ctx)
	logger.Info("normalization sweep finished",
		zap.Int("groups_scanned", rep.GroupsScanned),
		zap.Int("dirty_groups", rep.DirtyGroups),
		zap.Int("updates_applied", rep.UpdatesApplied))
	if err != nil {
		return fmt.Errorf("sweep did not finish; re-run to converge: %w", err)
	}
	return nil
}
