// internal/app/tree/move.go
package tree

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	nodestore "github.com/dalemusser/planboard/internal/app/store/nodes"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// Move re-parents a node, carrying its whole subtree. The write set is fixed
// up front: the node's own ancestry, the old parent's child_ids pull, the
// new parent's child_ids add, then one batch rebasing every descendant's
// ancestry. Every step is idempotent; a *PartialBatchError from a failure
// mid-sequence names what committed so the same move can simply be re-run.
// A nil newParentID makes the node a root.
func (s *Service) Move(ctx context.Context, scope Scope, id primitive.ObjectID, newParentID *primitive.ObjectID) (models.Node, error) {
	n, err := s.Get(ctx, scope, id)
	if err != nil {
		return models.Node{}, err
	}
	if sameParent(n.ParentID, newParentID) {
		return n, nil
	}
	if newParentID != nil && *newParentID == n.ID {
		return models.Node{}, &ValidationError{Field: "parent", Reason: "cannot nest a node under itself"}
	}

	newParent, err := s.loadParent(ctx, scope, newParentID)
	if err != nil {
		return models.Node{}, err
	}
	if newParent != nil {
		for _, a := range newParent.Path {
			if a == n.ID {
				return models.Node{}, &ValidationError{Field: "parent", Reason: "cannot nest a node under its own descendant"}
			}
		}
	}

	// Descendants and the pivot depth must be captured against the old
	// ancestry, before any write lands.
	desc, err := s.nodes.DescendantsOf(ctx, n.RootID, n.ID)
	if err != nil {
		return models.Node{}, err
	}
	oldDepth := n.Depth()
	oldParentID := n.ParentID

	sibs, err := s.siblings(ctx, scope, newParentID)
	if err != nil {
		return models.Node{}, err
	}

	anc := ResolveAncestry(n.ID, newParent)
	set := bson.M{
		"root_id":     anc.RootID,
		"path":        anc.Path,
		"path_titles": anc.PathTitles,
		"order":       NextSiblingOrder(sibs),
	}
	unset := bson.M{}
	if newParentID != nil {
		set["parent_id"] = *newParentID
	} else {
		unset["parent_id"] = 1
	}

	if err := s.nodes.SetFields(ctx, n.ID, set, unset); err != nil {
		if err == nodestore.ErrNotFound {
			return models.Node{}, ErrNotFound
		}
		return models.Node{}, err
	}
	applied := []primitive.ObjectID{n.ID}

	if oldParentID != nil {
		switch err := s.nodes.RemoveChild(ctx, *oldParentID, n.ID); err {
		case nil:
			applied = append(applied, *oldParentID)
		case nodestore.ErrNotFound:
			// Old parent already gone; nothing to unlink.
			s.log.Warn("move: old parent missing",
				zap.String("node_id", n.ID.Hex()),
				zap.String("old_parent_id", oldParentID.Hex()))
		default:
			return models.Node{}, &PartialBatchError{Op: "move", Applied: applied, Err: err}
		}
	}

	if newParent != nil {
		if err := s.nodes.AddChild(ctx, newParent.ID, n.ID); err != nil {
			return models.Node{}, &PartialBatchError{Op: "move", Applied: applied, Err: err}
		}
		applied = append(applied, newParent.ID)
	}

	if len(desc) > 0 {
		patches := make([]nodestore.Patch, 0, len(desc))
		for _, d := range desc {
			reb := RebaseAncestry(d.Path, d.PathTitles, oldDepth, anc, n.ID, n.Title)
			patches = append(patches, nodestore.Patch{ID: d.ID, Set: bson.M{
				"root_id":     reb.RootID,
				"path":        reb.Path,
				"path_titles": reb.PathTitles,
			}})
		}
		batchApplied, err := s.nodes.ApplyPatches(ctx, patches, s.batch)
		applied = append(applied, batchApplied...)
		if err != nil {
			return models.Node{}, &PartialBatchError{Op: "move", Applied: applied, Err: err}
		}
	}

	return s.Get(ctx, scope, n.ID)
}

func sameParent(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
