// internal/app/tree/cascade.go
package tree

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	nodestore "github.com/dalemusser/planboard/internal/app/store/nodes"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// CascadeFields is the subset of a parent edit that descendants inherit.
// Zero values mean "not part of this cascade"; the values that are present
// are written verbatim onto every descendant, with no per-node adjustment.
type CascadeFields struct {
	Window      *models.DateWindow
	ClearWindow bool
	Status      string
	Visibility  []string
}

func (f CascadeFields) Empty() bool {
	return f.Window == nil && !f.ClearWindow && f.Status == "" && f.Visibility == nil
}

// cascadeFrom pushes the fields onto every descendant of n in sequential
// bounded batches. Each descendant write sets the same values, so replaying
// the cascade after a partial failure converges on the same end state. The
// returned error is a *PartialBatchError naming the descendants that are
// known committed; callers surface it as a warning distinct from the
// parent's own save.
func (s *Service) cascadeFrom(ctx context.Context, n models.Node, f CascadeFields) error {
	if f.Empty() {
		return nil
	}

	desc, err := s.nodes.DescendantsOf(ctx, n.RootID, n.ID)
	if err != nil {
		return &PartialBatchError{Op: "cascade", Err: err}
	}
	if len(desc) == 0 {
		return nil
	}

	set := bson.M{}
	unset := bson.M{}
	if f.Window != nil {
		set["window"] = *f.Window
	} else if f.ClearWindow {
		unset["window"] = 1
	}
	if f.Status != "" {
		set["status"] = f.Status
	}
	if f.Visibility != nil {
		set["visibility"] = f.Visibility
	}

	patches := make([]nodestore.Patch, 0, len(desc))
	for _, d := range desc {
		patches = append(patches, nodestore.Patch{ID: d.ID, Set: set, Unset: unset})
	}

	applied, err := s.nodes.ApplyPatches(ctx, patches, s.batch)
	if err != nil {
		s.log.Warn("cascade: batch write failed",
			zap.String("node_id", n.ID.Hex()),
			zap.Int("applied", len(applied)),
			zap.Int("descendants", len(desc)),
			zap.Error(err))
		return &PartialBatchError{Op: "cascade", Applied: applied, Err: err}
	}

	s.log.Info("cascade applied",
		zap.String("node_id", n.ID.Hex()),
		zap.Int("descendants", len(desc)))
	return nil
}
