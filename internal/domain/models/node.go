// internal/domain/models/node.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Node is one entry in a teacher's planning tree: a project, an assignment,
// a task, or a subtask. The tree is persisted flat (every node is an
// independent document in the "nodes" collection) and the hierarchy is
// encoded only through ParentID, RootID, Path, PathTitles, ChildIDs and Order.
//
// Denormalization contract:
//   - Path holds the ancestor ids root-first, excluding the node itself;
//     RootID is Path[0] (or the node's own id when the node is a root).
//   - PathTitles mirrors Path with display titles; it is a render cache for
//     breadcrumbs and is never consulted for structural decisions.
//   - ChildIDs mirrors the children's ParentID pointers in both directions:
//     every child's ParentID points here, and every node pointing here is
//     listed. No single write spans both sides, so mutations go through the
//     tree package, which keeps the pair convergent.
type Node struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind string             `bson:"kind" json:"kind"` // project | assignment | task | subtask

	// OwnerID is the creating teacher. It never changes, not even on move.
	OwnerID primitive.ObjectID `bson:"owner_id" json:"owner_id"`

	ParentID   *primitive.ObjectID  `bson:"parent_id,omitempty" json:"parent_id,omitempty"` // nil = forest root
	RootID     primitive.ObjectID   `bson:"root_id" json:"root_id"`
	Path       []primitive.ObjectID `bson:"path" json:"path"`
	PathTitles []string             `bson:"path_titles" json:"path_titles"`
	ChildIDs   []primitive.ObjectID `bson:"child_ids" json:"child_ids"`

	// Order sorts siblings (nodes sharing ParentID, or a teacher's roots).
	// 0 means "not yet assigned": the insert path hands out max(sibling)+1
	// starting at 1, and the normalizer hands out multiples of the gap
	// starting at the gap, so a real order is always >= 1.
	Order int64 `bson:"order,omitempty" json:"order,omitempty"`

	Title       string `bson:"title" json:"title"`
	TitleCI     string `bson:"title_ci" json:"title_ci"` // lowercase, diacritics-stripped
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	// Window is the optional date range [Start, End) during which the node
	// is shown to its rooms. Absent means always visible.
	Window *DateWindow `bson:"window,omitempty" json:"window,omitempty"`

	Status string `bson:"status" json:"status"` // draft | todo | in_progress | stuck | done

	// Visibility holds the room/class identifiers this node is shown to.
	// Rooms are opaque strings owned by the roster system.
	Visibility []string `bson:"visibility,omitempty" json:"visibility,omitempty"`

	Attachments []Attachment `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Links       []Link       `bson:"links,omitempty" json:"links,omitempty"`

	// QuestionHistory is the help-request log for this exact node instance.
	// It is not part of the node's durable identity: duplicates start empty.
	QuestionHistory []Question `bson:"question_history,omitempty" json:"question_history,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsRoot returns true when the node has no parent.
func (n *Node) IsRoot() bool {
	return n.ParentID == nil
}

// IsDraft returns true when the node has never been explicitly saved.
func (n *Node) IsDraft() bool {
	return n.Status == StatusDraft
}

// Depth is the node's distance from its root (0 for roots).
func (n *Node) Depth() int {
	return len(n.Path)
}

// HasOrder reports whether a sibling order has been assigned.
func (n *Node) HasOrder() bool {
	return n.Order != 0
}

// DateWindow is a half-open range [Start, End). Both ends are set whenever
// the window is present; a node without time scoping carries no window.
type DateWindow struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// Covers reports whether t falls inside the window.
func (w *DateWindow) Covers(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Attachment is a file reference carried by a node. Each node owns its own
// copy; duplicating a node duplicates the entries, never shares them.
type Attachment struct {
	ID   primitive.ObjectID `bson:"id" json:"id"`
	Name string             `bson:"name" json:"name"`
	URL  string             `bson:"url" json:"url"`
	Size int64              `bson:"size,omitempty" json:"size,omitempty"`
}

// Link is an external URL attached to a node.
type Link struct {
	Title string `bson:"title,omitempty" json:"title,omitempty"`
	URL   string `bson:"url" json:"url"`
}
