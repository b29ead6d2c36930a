// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/planboard/internal/app/system/snapcache"
	"github.com/dalemusser/planboard/internal/app/system/watch"
	"github.com/dalemusser/planboard/internal/app/system/workers"
	"github.com/dalemusser/planboard/internal/app/tree"
)

// DBDeps holds database and backend dependencies for the app. Everything
// here is built in ConnectDB, started in Startup, and torn down in Shutdown.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Tree is the consistency engine every feature writes through.
	Tree *tree.Service

	// Hub fans board snapshots out to live viewers.
	Hub *watch.Hub

	// Cache is the Redis-backed board snapshot cache; nil when redis_addr
	// is blank, and every read is then a miss.
	Cache *snapcache.Cache

	// Runner drives periodic background jobs (the order normalizer sweep).
	Runner *workers.Runner
}
