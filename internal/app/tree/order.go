// internal/app/tree/order.go
package tree

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/planboard/internal/domain/models"
)

// DefaultOrderGap is the spacing between normalized sibling orders. The gap
// leaves room to slot a node between two siblings by hand without renumbering
// the whole group.
const DefaultOrderGap = 10

// SiblingKey identifies one sibling group. Children group under their parent
// id; a teacher's roots form that teacher's forest group, so one teacher's
// inserts never renumber another teacher's top level.
func SiblingKey(n models.Node) string {
	if n.ParentID != nil {
		return n.ParentID.Hex()
	}
	return "root:" + n.OwnerID.Hex()
}

// SortSiblings orders a sibling group for display and for normalization:
// ascending by order, nodes with no assigned order after all ordered nodes,
// ties broken by creation time so insertion order survives until the
// normalizer runs, then by id for full determinism.
func SortSiblings(group []models.Node) {
	sort.SliceStable(group, func(i, j int) bool {
		a, b := group[i], group[j]
		switch {
		case a.HasOrder() && !b.HasOrder():
			return true
		case !a.HasOrder() && b.HasOrder():
			return false
		case a.HasOrder() && b.HasOrder() && a.Order != b.Order:
			return a.Order < b.Order
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.Hex() < b.ID.Hex()
	})
}

// NextSiblingOrder returns the order for a routine append: one past the
// highest assigned sibling order, or 1 for the first sibling. Gap compaction
// is the normalizer's job, not the insert path's.
func NextSiblingOrder(siblings []models.Node) int64 {
	var max int64
	for _, s := range siblings {
		if s.Order > max {
			max = s.Order
		}
	}
	return max + 1
}

// OrderAssignment is one pending order rewrite produced by PlanGroup.
type OrderAssignment struct {
	ID    primitive.ObjectID
	Order int64
}

// GroupDrift describes why a sibling group needed repair.
type GroupDrift struct {
	Key        string
	Size       int
	Duplicates int // nodes sharing an order value with an earlier sibling
	Missing    int // nodes with no assigned order
}

// Dirty reports whether the group has any drift to repair.
func (d GroupDrift) Dirty() bool {
	return d.Duplicates > 0 || d.Missing > 0
}

// PlanGroup decides the repairs for one sibling group. A clean group (all
// orders assigned and unique) produces no assignments at all; a dirty group
// is renumbered as i*gap in sibling-sort order, and only nodes whose stored
// order differs from the computed one are queued for write.
func PlanGroup(group []models.Node, gap int64) ([]OrderAssignment, GroupDrift) {
	if gap <= 0 {
		gap = DefaultOrderGap
	}

	drift := GroupDrift{Size: len(group)}
	if len(group) > 0 {
		drift.Key = SiblingKey(group[0])
	}

	seen := make(map[int64]bool, len(group))
	for _, n := range group {
		if !n.HasOrder() {
			drift.Missing++
			continue
		}
		if seen[n.Order] {
			drift.Duplicates++
		}
		seen[n.Order] = true
	}
	if !drift.Dirty() {
		return nil, drift
	}

	sorted := make([]models.Node, len(group))
	copy(sorted, group)
	SortSiblings(sorted)

	var out []OrderAssignment
	for i, n := range sorted {
		want := int64(i+1) * gap
		if n.Order != want {
			out = append(out, OrderAssignment{ID: n.ID, Order: want})
		}
	}
	return out, drift
}
