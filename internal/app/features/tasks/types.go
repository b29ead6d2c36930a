// internal/app/features/tasks/types.go
package tasks

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/planboard/internal/app/features/errors"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// windowBody is the JSON form of a date window.
type windowBody struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (b *windowBody) toModel() *models.DateWindow {
	if b == nil {
		return nil
	}
	return &models.DateWindow{Start: b.Start.UTC(), End: b.End.UTC()}
}

// createRequest is the body of POST /tasks.
type createRequest struct {
	Kind        string              `json:"kind,omitempty"`
	ParentID    string              `json:"parent_id,omitempty"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Window      *windowBody         `json:"window,omitempty"`
	Status      string              `json:"status,omitempty"`
	Visibility  []string            `json:"visibility,omitempty"`
	Attachments []models.Attachment `json:"attachments,omitempty"`
	Links       []models.Link       `json:"links,omitempty"`
}

// updateRequest is the body of PATCH /tasks/{id}. Absent fields are left
// alone; present fields are applied. ParentID distinguishes three states:
// absent (no change), "" (make the node a root), and an id (re-parent).
type updateRequest struct {
	Title       *string              `json:"title,omitempty"`
	Description *string              `json:"description,omitempty"`
	Kind        *string              `json:"kind,omitempty"`
	Status      *string              `json:"status,omitempty"`
	Window      *windowBody          `json:"window,omitempty"`
	ClearWindow bool                 `json:"clear_window,omitempty"`
	Visibility  *[]string            `json:"visibility,omitempty"`
	Attachments *[]models.Attachment `json:"attachments,omitempty"`
	Links       *[]models.Link       `json:"links,omitempty"`
	ParentID    *string              `json:"parent_id,omitempty"`
}

// moveRequest is the body of POST /tasks/{id}/move. An empty NewParentID
// makes the node a forest root.
type moveRequest struct {
	NewParentID string `json:"new_parent_id"`
}

// deleteQuery values for the ?descendants= parameter.
const (
	descendantsDelete = "delete"
	descendantsOrphan = "orphan"
)

// duplicateRequest is the body of POST /tasks/{id}/duplicate. NewParentID
// distinguishes absent (copy lands beside the source), "" (copy becomes a
// root), and an id (copy attaches there).
type duplicateRequest struct {
	IncludeDescendants bool     `json:"include_descendants,omitempty"`
	NewParentID        *string  `json:"new_parent_id,omitempty"`
	NewTitle           *string  `json:"new_title,omitempty"`
	NewVisibility      []string `json:"new_visibility,omitempty"`
}

// duplicateResponse returns the copy's root plus the full id mapping so a
// caller can navigate straight to any copied node.
type duplicateResponse struct {
	Node  models.Node       `json:"node"`
	IDMap map[string]string `json:"id_map"`
}

// questionRequest is the body of POST /tasks/{id}/questions.
type questionRequest struct {
	Room       string `json:"room"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	Body       string `json:"body"`
}

// listResponse is one keyset page of the owner's nodes.
type listResponse struct {
	Nodes   []models.Node `json:"nodes"`
	HasPrev bool          `json:"has_prev"`
	HasNext bool          `json:"has_next"`
	Prev    string        `json:"prev_cursor,omitempty"`
	Next    string        `json:"next_cursor,omitempty"`
}

// detailResponse is one node plus its direct children in display order.
type detailResponse struct {
	Node     models.Node   `json:"node"`
	Children []models.Node `json:"children"`
}

// batchWarning is attached to a 200 when the primary write committed but a
// follow-up batch did not finish, distinct from the save failing.
type batchWarning struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	AppliedIDs []string `json:"applied_ids,omitempty"`
}

// parseOptionalParent turns the tri-state parent string into a parent
// reference: "" means root, otherwise the id must parse.
func parseOptionalParent(w http.ResponseWriter, raw string) (*primitive.ObjectID, bool) {
	if raw == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		uierrors.WriteErrorDetails(w, http.StatusBadRequest, "validation", "malformed parent id",
			map[string]any{"field": "parent_id"})
		return nil, false
	}
	return &id, true
}
