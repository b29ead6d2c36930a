// internal/app/tree/normalize.go
package tree

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	nodestore "github.com/dalemusser/planboard/internal/app/store/nodes"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// NormalizeReport summarizes one repair pass.
type NormalizeReport struct {
	GroupsScanned  int `json:"groups_scanned"`
	NodesScanned   int `json:"nodes_scanned"`
	DirtyGroups    int `json:"dirty_groups"`
	UpdatesApplied int `json:"updates_applied"`
}

// Normalize scans every sibling group in the collection and renumbers the
// ones with duplicate or missing order values. Clean groups and unchanged
// nodes cost no writes. The pass is idempotent and safe to interleave with
// live edits: it only tightens an already-valid total order, so re-running
// after a partial failure finishes the remainder. It runs across all
// owners; this is maintenance, not a user operation.
func (s *Service) Normalize(ctx context.Context) (NormalizeReport, error) {
	all, err := s.nodes.All(ctx)
	if err != nil {
		return NormalizeReport{}, err
	}

	groups := make(map[string][]models.Node)
	for _, n := range all {
		k := SiblingKey(n)
		groups[k] = append(groups[k], n)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rep := NormalizeReport{
		GroupsScanned: len(groups),
		NodesScanned:  len(all),
	}

	var patches []nodestore.Patch
	for _, k := range keys {
		assignments, drift := PlanGroup(groups[k], s.gap)
		if !drift.Dirty() {
			continue
		}
		rep.DirtyGroups++
		s.log.Warn("sibling group order drift",
			zap.String("group", drift.Key),
			zap.Int("size", drift.Size),
			zap.Int("duplicates", drift.Duplicates),
			zap.Int("missing", drift.Missing),
			zap.Int("rewrites", len(assignments)))
		for _, a := range assignments {
			patches = append(patches, nodestore.Patch{ID: a.ID, Set: bson.M{"order": a.Order}})
		}
	}

	if len(patches) == 0 {
		s.log.Info("order normalization clean",
			zap.Int("groups", rep.GroupsScanned),
			zap.Int("nodes", rep.NodesScanned))
		return rep, nil
	}

	applied, err := s.nodes.ApplyPatches(ctx, patches, s.batch)
	rep.UpdatesApplied = len(applied)
	if err != nil {
		return rep, &PartialBatchError{Op: "normalize", Applied: applied, Err: err}
	}

	s.log.Info("order normalization applied",
		zap.Int("groups", rep.GroupsScanned),
		zap.Int("dirty_groups", rep.DirtyGroups),
		zap.Int("updates", rep.UpdatesApplied))
	return rep, nil
}
