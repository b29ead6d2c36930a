// internal/app/tree/delete.go
package tree

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	nodestore "github.com/dalemusser/planboard/internal/app/store/nodes"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// DeletePolicy says what happens to a deleted node's descendants. The zero
// value refuses when descendants exist, so callers must opt in to either
// outcome explicitly.
type DeletePolicy int

const (
	// RefuseChildren fails with *HasChildrenError when the node has
	// children. Leaves still delete.
	RefuseChildren DeletePolicy = iota

	// DeleteDescendants removes the node and its whole subtree, deepest
	// first so no surviving document ever references a deleted ancestor.
	DeleteDescendants

	// OrphanDescendants keeps the subtree: each direct child is promoted
	// to a root and every deeper descendant's ancestry is rebased under
	// its promoted child.
	OrphanDescendants
)

// DeleteResult reports what a delete did.
type DeleteResult struct {
	Deleted  []primitive.ObjectID // documents removed, the node itself last
	Orphaned []primitive.ObjectID // direct children promoted to roots
}

// Delete removes a node. The write sequence is: pull the node from its
// former parent's child_ids, then resolve descendants per the policy, then
// remove the node's own document last. That order keeps the node readable
// until everything else converged, so a failed delete can simply be re-run.
func (s *Service) Delete(ctx context.Context, scope Scope, id primitive.ObjectID, policy DeletePolicy) (DeleteResult, error) {
	n, err := s.Get(ctx, scope, id)
	if err != nil {
		return DeleteResult{}, err
	}

	childCount, err := s.nodes.CountChildren(ctx, n.ID)
	if err != nil {
		return DeleteResult{}, err
	}
	if childCount > 0 && policy == RefuseChildren {
		return DeleteResult{}, &HasChildrenError{ID: n.ID, ChildCount: int(childCount)}
	}

	var applied []primitive.ObjectID
	if n.ParentID != nil {
		switch err := s.nodes.RemoveChild(ctx, *n.ParentID, n.ID); err {
		case nil:
			applied = append(applied, *n.ParentID)
		case nodestore.ErrNotFound:
			s.log.Warn("delete: former parent missing",
				zap.String("node_id", n.ID.Hex()),
				zap.String("parent_id", n.ParentID.Hex()))
		default:
			return DeleteResult{}, err
		}
	}

	if childCount == 0 {
		if _, err := s.nodes.Delete(ctx, n.ID); err != nil {
			return DeleteResult{}, &PartialBatchError{Op: "delete", Applied: applied, Err: err}
		}
		return DeleteResult{Deleted: []primitive.ObjectID{n.ID}}, nil
	}

	desc, err := s.nodes.DescendantsOf(ctx, n.RootID, n.ID)
	if err != nil {
		return DeleteResult{}, &PartialBatchError{Op: "delete", Applied: applied, Err: err}
	}

	switch policy {
	case DeleteDescendants:
		return s.deleteSubtree(ctx, n, desc, applied)
	case OrphanDescendants:
		return s.orphanSubtree(ctx, scope, n, desc, applied)
	default:
		return DeleteResult{}, &HasChildrenError{ID: n.ID, ChildCount: int(childCount)}
	}
}

func (s *Service) deleteSubtree(ctx context.Context, n models.Node, desc []models.Node, applied []primitive.ObjectID) (DeleteResult, error) {
	sort.Slice(desc, func(i, j int) bool { return desc[i].Depth() > desc[j].Depth() })

	ids := make([]primitive.ObjectID, 0, len(desc)+1)
	for _, d := range desc {
		ids = append(ids, d.ID)
	}
	ids = append(ids, n.ID)

	deleted, err := s.nodes.DeleteByIDs(ctx, ids, s.batch)
	if err != nil {
		return DeleteResult{}, &PartialBatchError{Op: "delete", Applied: append(applied, deleted...), Err: err}
	}

	s.log.Info("subtree deleted",
		zap.String("node_id", n.ID.Hex()),
		zap.Int("descendants", len(desc)))
	return DeleteResult{Deleted: ids}, nil
}

func (s *Service) orphanSubtree(ctx context.Context, scope Scope, n models.Node, desc []models.Node, applied []primitive.ObjectID) (DeleteResult, error) {
	childDepth := n.Depth() + 1

	children := make(map[primitive.ObjectID]models.Node)
	var childIDs []primitive.ObjectID
	for _, d := range desc {
		if d.ParentID != nil && *d.ParentID == n.ID {
			children[d.ID] = d
			childIDs = append(childIDs, d.ID)
		}
	}

	rootSibs, err := s.siblings(ctx, scope, nil)
	if err != nil {
		return DeleteResult{}, &PartialBatchError{Op: "delete", Applied: applied, Err: err}
	}
	base := NextSiblingOrder(rootSibs)

	patches := make([]nodestore.Patch, 0, len(desc))
	for i, cid := range childIDs {
		patches = append(patches, nodestore.Patch{
			ID: cid,
			Set: bson.M{
				"root_id":     cid,
				"path":        []primitive.ObjectID{},
				"path_titles": []string{},
				"order":       base + int64(i),
			},
			Unset: bson.M{"parent_id": 1},
		})
	}
	for _, d := range desc {
		if _, direct := children[d.ID]; direct {
			continue
		}
		// d sits somewhere under one promoted child; that child's id is at
		// the promoted depth in d's old path.
		if len(d.Path) <= childDepth {
			s.log.Warn("delete: descendant with short path skipped",
				zap.String("node_id", d.ID.Hex()))
			continue
		}
		c, ok := children[d.Path[childDepth]]
		if !ok {
			s.log.Warn("delete: descendant outside any promoted child skipped",
				zap.String("node_id", d.ID.Hex()))
			continue
		}
		pivot := Ancestry{RootID: c.ID}
		reb := RebaseAncestry(d.Path, d.PathTitles, childDepth, pivot, c.ID, c.Title)
		patches = append(patches, nodestore.Patch{ID: d.ID, Set: bson.M{
			"root_id":     reb.RootID,
			"path":        reb.Path,
			"path_titles": reb.PathTitles,
		}})
	}

	batchApplied, err := s.nodes.ApplyPatches(ctx, patches, s.batch)
	applied = append(applied, batchApplied...)
	if err != nil {
		return DeleteResult{}, &PartialBatchError{Op: "delete", Applied: applied, Err: err}
	}

	if _, err := s.nodes.Delete(ctx, n.ID); err != nil {
		return DeleteResult{}, &PartialBatchError{Op: "delete", Applied: applied, Err: err}
	}

	s.log.Info("node deleted, subtree orphaned",
		zap.String("node_id", n.ID.Hex()),
		zap.Int("promoted", len(childIDs)))
	return DeleteResult{
		Deleted:  []primitive.ObjectID{n.ID},
		Orphaned: childIDs,
	}, nil
}
