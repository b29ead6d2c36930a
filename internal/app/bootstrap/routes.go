// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	errorsfeature "github.com/dalemusser/planboard/internal/app/features/errors"
	healthfeature "github.com/dalemusser/planboard/internal/app/features/health"
	maintenancefeature "github.com/dalemusser/planboard/internal/app/features/maintenance"
	tasksfeature "github.com/dalemusser/planboard/internal/app/features/tasks"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. The surface is a JSON API: the tree
// operations under /tasks, the classroom board under /board, operator
// endpoints under /maintenance, and the health check for orchestrators.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Tree operations and the owner's tree views
	tasksHandler := tasksfeature.NewHandler(deps.MongoDatabase, deps.Tree, deps.Hub, deps.Cache, errLog, logger)
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler))

	// Classroom board: the read-only day view plus its live stream
	r.Mount("/board", tasksfeature.BoardRoutes(tasksHandler))

	// Operator entry points; front with operator-only access in deployment
	maintenanceHandler := maintenancefeature.NewHandler(deps.Tree, errLog, logger)
	r.Mount("/maintenance", maintenancefeature.Routes(maintenanceHandler))

	return r, nil
}
