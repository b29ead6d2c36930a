// internal/app/tree/resolver.go
package tree

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/planboard/internal/domain/models"
)

// Ancestry is the derived hierarchy triple written alongside every parent
// change. It is computed here and persisted by the caller in the same logical
// operation that set ParentID, so a node is never half-materialized.
type Ancestry struct {
	Path       []primitive.ObjectID
	PathTitles []string
	RootID     primitive.ObjectID
}

// ResolveAncestry computes a child's Path, PathTitles and RootID from its
// already-loaded parent. parent is nil for a forest root, in which case the
// child is its own root with an empty path.
//
// The resolver is pure: it never touches the store. Verifying that parent
// actually exists (and refusing the operation otherwise) is the caller's job;
// see Mutator.loadParent.
func ResolveAncestry(childID primitive.ObjectID, parent *models.Node) Ancestry {
	if parent == nil {
		return Ancestry{
			Path:       []primitive.ObjectID{},
			PathTitles: []string{},
			RootID:     childID,
		}
	}

	path := make([]primitive.ObjectID, 0, len(parent.Path)+1)
	path = append(path, parent.Path...)
	path = append(path, parent.ID)

	titles := make([]string, 0, len(parent.PathTitles)+1)
	titles = append(titles, parent.PathTitles...)
	titles = append(titles, parent.Title)

	rootID := parent.RootID
	if rootID.IsZero() {
		// Parent predates root_id backfill; a parent without one is a root.
		rootID = parent.ID
	}

	return Ancestry{Path: path, PathTitles: titles, RootID: rootID}
}

// RebaseAncestry recomputes a descendant's ancestry after the subtree rooted
// at pivot moved (or became a root). oldPath is the descendant's current
// path; pivotDepth is the pivot's depth before the change. The descendant's
// relative chain below the pivot is preserved and grafted onto the pivot's
// new ancestry.
func RebaseAncestry(oldPath []primitive.ObjectID, oldTitles []string, pivotDepth int, pivot Ancestry, pivotID primitive.ObjectID, pivotTitle string) Ancestry {
	// Suffix strictly below the pivot: oldPath = [...ancestors, pivot, ...rel].
	rel := oldPath[pivotDepth+1:]
	relTitles := oldTitles[pivotDepth+1:]

	path := make([]primitive.ObjectID, 0, len(pivot.Path)+1+len(rel))
	path = append(path, pivot.Path...)
	path = append(path, pivotID)
	path = append(path, rel...)

	titles := make([]string, 0, len(pivot.PathTitles)+1+len(relTitles))
	titles = append(titles, pivot.PathTitles...)
	titles = append(titles, pivotTitle)
	titles = append(titles, relTitles...)

	return Ancestry{Path: path, PathTitles: titles, RootID: pivot.RootID}
}

// VerifyPath walks a node's ancestor chain through byID and reports whether
// the stored path and root agree with the live parent pointers. Used by the
// invariant tests and by the orderfix doctor output.
func VerifyPath(n models.Node, byID map[primitive.ObjectID]models.Node) bool {
	walked := make([]primitive.ObjectID, 0, len(n.Path))
	cur := n
	for cur.ParentID != nil {
		p, ok := byID[*cur.ParentID]
		if !ok {
			return false
		}
		walked = append([]primitive.ObjectID{p.ID}, walked...)
		cur = p
	}
	if len(walked) != len(n.Path) {
		return false
	}
	for i := range walked {
		if walked[i] != n.Path[i] {
			return false
		}
	}
	want := n.ID
	if len(walked) > 0 {
		want = walked[0]
	}
	return n.RootID == want
}
