// internal/domain/models/nodetypes.go
package models

// Canonical node kind identifiers.
//
// Kinds are purely descriptive labels stored in Node.Kind; they do not
// constrain nesting depth. A subtask may sit under a project directly, and
// trees may nest deeper than the four names suggest.
const (
	KindProject    = "project"
	KindAssignment = "assignment"
	KindTask       = "task"
	KindSubtask    = "subtask"
)

// NodeKinds is the full set of allowed kind identifiers.
var NodeKinds = []string{
	KindProject,
	KindAssignment,
	KindTask,
	KindSubtask,
}

// DefaultNodeKind is used when no specific kind is provided.
const DefaultNodeKind = KindTask

// Canonical node status identifiers.
//
// Draft is the silent-autosave state and is never shown to a classroom
// audience. Stuck is the "help requested" state raised by question flow.
const (
	StatusDraft      = "draft"
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusStuck      = "stuck"
	StatusDone       = "done"
)

// NodeStatuses is the full set of allowed status identifiers.
var NodeStatuses = []string{
	StatusDraft,
	StatusTodo,
	StatusInProgress,
	StatusStuck,
	StatusDone,
}

// FirstActiveStatus is the status a draft is promoted to on its first
// explicit (non-autosave) save.
const FirstActiveStatus = StatusTodo

// ValidNodeKind reports whether kind is one of the canonical identifiers.
func ValidNodeKind(kind string) bool {
	for _, k := range NodeKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ValidNodeStatus reports whether status is one of the canonical identifiers.
func ValidNodeStatus(status string) bool {
	for _, s := range NodeStatuses {
		if s == status {
			return true
		}
	}
	return false
}
