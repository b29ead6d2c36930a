// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/planboard/internal/app/tree"
)

// Job is one recurring maintenance task. Run is invoked on its own schedule
// by the workers runner; it must be safe to invoke again if the previous
// run failed partway.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// OrderNormalizeJob repairs sibling-order drift across the whole node
// collection. The pass is idempotent and only ever tightens an already
// valid order, so it is safe to interleave with live edits and needs no
// coordination with the request path.
func OrderNormalizeJob(svc *tree.Service, logger *zap.Logger, interval time.Duration) Job {
	return Job{
		Name:     "order-normalize",
		Interval: interval,
		Run: func(ctx context.Context) error {
			rep, err := svc.Normalize(ctx)
			if err != nil {
				return err
			}
			if rep.UpdatesApplied > 0 {
				logger.Info("order normalization repaired drift",
					zap.Int("groups_scanned", rep.GroupsScanned),
					zap.Int("nodes_scanned", rep.NodesScanned),
					zap.Int("dirty_groups", rep.DirtyGroups),
					zap.Int("updates_applied", rep.UpdatesApplied))
			}
			return nil
		},
	}
}
