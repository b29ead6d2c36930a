// internal/app/policy/nodepolicy.go
package nodepolicy

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/planboard/internal/domain/models"
)

// CanEdit reports whether the acting owner may mutate the node. Nodes are
// single-owner: only the creating teacher edits, moves, or deletes them.
func CanEdit(ownerID primitive.ObjectID, n models.Node) bool {
	return n.OwnerID == ownerID
}

// CanView reports whether a room viewer may see the node at all. Drafts are
// never shown to the consuming audience, and a node is only visible to the
// rooms it was shared with.
func CanView(n models.Node, room string) bool {
	if n.Status == models.StatusDraft {
		return false
	}
	for _, r := range n.Visibility {
		if r == room {
			return true
		}
	}
	return false
}

// VisibleOn narrows CanView to a specific day: an undated node shows every
// day, a dated one only inside its half-open window.
func VisibleOn(n models.Node, room string, day time.Time) bool {
	if !CanView(n, room) {
		return false
	}
	if n.Window == nil {
		return true
	}
	return n.Window.Covers(day)
}
