// internal/app/tree/errors.go
package tree

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Structural failures are always surfaced to the caller, never downgraded.
var (
	// ErrNotFound means the node id named by the operation does not exist.
	ErrNotFound = errors.New("node not found")

	// ErrDanglingParent means a parent reference points at a node that does
	// not exist. Operations refuse rather than create an orphan with a
	// partial ancestor path.
	ErrDanglingParent = errors.New("parent node does not exist")
)

// HasChildrenError is returned by Delete when the node still has children and
// the caller did not choose a descendant policy. It carries the child count
// so the caller can build the "delete them too, or keep them?" prompt.
type HasChildrenError struct {
	ID         primitive.ObjectID
	ChildCount int
}

func (e *HasChildrenError) Error() string {
	return fmt.Sprintf("node %s has %d children; choose a descendant policy", e.ID.Hex(), e.ChildCount)
}

// ValidationError reports an actionable input problem on a non-draft save.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PartialBatchError reports a multi-document write that committed some
// documents and then failed. Applied lists the ids whose writes are known to
// have committed, so a repair pass can target exactly the remainder instead
// of replaying the whole operation.
type PartialBatchError struct {
	Op      string
	Applied []primitive.ObjectID
	Err     error
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("%s: batch write failed after %d documents: %v", e.Op, len(e.Applied), e.Err)
}

func (e *PartialBatchError) Unwrap() error { return e.Err }

// AppliedHex returns the committed ids in hex form for logging and responses.
func (e *PartialBatchError) AppliedHex() []string {
	out := make([]string, len(e.Applied))
	for i, id := range e.Applied {
		out[i] = id.Hex()
	}
	return out
}
