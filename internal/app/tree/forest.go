// internal/app/tree/forest.go
package tree

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/planboard/internal/domain/models"
)

// ViewNode is one entry of a reconstructed display forest. Depth is the
// recursion depth within the current view, which is all a client needs to
// indent; it can differ from Node.Depth() when ancestors are filtered out of
// the result set.
type ViewNode struct {
	models.Node
	Depth    int         `json:"depth"`
	Children []*ViewNode `json:"children,omitempty"`
}

// BuildForest turns a flat, filtered result set back into a rooted forest.
//
// A node counts as an effective root when it has no parent or when its parent
// is absent from the result set; a child can be visible on a day its parent
// (with a different window) is not, and the view must still show it rather
// than drop it. Siblings sort by the same (order, createdAt) rule the
// normalizer uses, so pre- and post-normalization views agree.
//
// The pass is linear in the result-set size plus the sort, cheap enough to
// re-run on every pushed snapshot.
func BuildForest(nodes []models.Node) []*ViewNode {
	present := make(map[primitive.ObjectID]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
	}

	var roots []models.Node
	children := make(map[primitive.ObjectID][]models.Node)
	for _, n := range nodes {
		if n.ParentID == nil || !present[*n.ParentID] {
			roots = append(roots, n)
			continue
		}
		children[*n.ParentID] = append(children[*n.ParentID], n)
	}

	SortSiblings(roots)
	for id := range children {
		SortSiblings(children[id])
	}

	var emit func(n models.Node, depth int) *ViewNode
	emit = func(n models.Node, depth int) *ViewNode {
		vn := &ViewNode{Node: n, Depth: depth}
		for _, c := range children[n.ID] {
			vn.Children = append(vn.Children, emit(c, depth+1))
		}
		return vn
	}

	out := make([]*ViewNode, 0, len(roots))
	for _, r := range roots {
		out = append(out, emit(r, 0))
	}
	return out
}

// Flatten walks a forest root-first, depth-first, producing the display
// order a list client renders top to bottom.
func Flatten(forest []*ViewNode) []*ViewNode {
	var out []*ViewNode
	var walk func(vn *ViewNode)
	walk = func(vn *ViewNode) {
		out = append(out, vn)
		for _, c := range vn.Children {
			walk(c)
		}
	}
	for _, r := range forest {
		walk(r)
	}
	return out
}
