// internal/app/tree/update.go
package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	nodestore "github.com/dalemusser/planboard/internal/app/store/nodes"
	"github.com/dalemusser/planboard/internal/app/system/htmlsanitize"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// UpdateInput is a field patch. Nil pointers mean "leave alone"; non-nil
// pointers mean "set to this value". Reparenting rides along as an optional
// ParentChange and is handled with full move semantics.
type UpdateInput struct {
	Title       *string
	Description *string
	Kind        *string
	Status      *string
	Window      *models.DateWindow
	ClearWindow bool
	Visibility  *[]string
	Attachments *[]models.Attachment
	Links       *[]models.Link

	// Parent, when non-nil, changes the node's parent link. A nil ParentID
	// inside makes the node a root.
	Parent *ParentChange

	// Autosave marks a silent background save. Autosaves never promote a
	// draft and skip the required-field checks.
	Autosave bool
}

// ParentChange wraps the new parent reference so "absent from patch" and
// "set to null" stay distinguishable.
type ParentChange struct {
	ParentID *primitive.ObjectID
}

// UpdateResult reports an update whose primary write committed. CascadeErr
// is set when the caller asked for a cascade and the descendant batch did
// not finish; the save itself still stands and the error is a warning, not
// a failure.
type UpdateResult struct {
	Node       models.Node
	CascadeErr error
}

// Update patches one node. Ancestry is recomputed only when the patch
// changes the parent link; everything else is a direct field merge. An
// explicit save of a draft promotes it to the first active status and runs
// the full required-field checks. With cascade set, the new window, status,
// and visibility values from the patch are pushed onto every descendant
// after the node's own write commits.
func (s *Service) Update(ctx context.Context, scope Scope, id primitive.ObjectID, in UpdateInput, cascade bool) (UpdateResult, error) {
	n, err := s.Get(ctx, scope, id)
	if err != nil {
		return UpdateResult{}, err
	}

	set := bson.M{}
	unset := bson.M{}
	var casc CascadeFields

	newTitle := n.Title
	titleChanged := false
	if in.Title != nil {
		t := strings.TrimSpace(htmlsanitize.Plain(*in.Title))
		if t != n.Title {
			newTitle = t
			titleChanged = true
			set["title"] = t
			set["title_ci"] = text.Fold(t)
		}
	}
	if in.Description != nil {
		set["description"] = htmlsanitize.Rich(*in.Description)
	}
	if in.Kind != nil {
		if !models.ValidNodeKind(*in.Kind) {
			return UpdateResult{}, &ValidationError{Field: "kind", Reason: "unknown kind"}
		}
		set["kind"] = *in.Kind
	}

	// Final status after this save. Explicit saves promote drafts; nothing
	// ever demotes back to draft.
	status := n.Status
	if in.Status != nil {
		if !models.ValidNodeStatus(*in.Status) {
			return UpdateResult{}, &ValidationError{Field: "status", Reason: "unknown status"}
		}
		if *in.Status == models.StatusDraft && n.Status != models.StatusDraft {
			return UpdateResult{}, &ValidationError{Field: "status", Reason: "cannot return to draft"}
		}
		status = *in.Status
	}
	if !in.Autosave && n.Status == models.StatusDraft {
		status = models.FirstActiveStatus
	}
	if status != n.Status {
		set["status"] = status
		casc.Status = status
	}

	visibility := n.Visibility
	if in.Visibility != nil {
		visibility = append([]string(nil), *in.Visibility...)
		set["visibility"] = visibility
		casc.Visibility = visibility
	}

	if in.Window != nil {
		if !in.Window.End.After(in.Window.Start) {
			return UpdateResult{}, &ValidationError{Field: "window", Reason: "end must be after start"}
		}
		set["window"] = *in.Window
		casc.Window = in.Window
	} else if in.ClearWindow {
		unset["window"] = 1
		casc.ClearWindow = true
	}

	if in.Attachments != nil {
		set["attachments"] = append([]models.Attachment(nil), *in.Attachments...)
	}
	if in.Links != nil {
		set["links"] = append([]models.Link(nil), *in.Links...)
	}

	// A save that leaves the node active must leave it complete.
	if !in.Autosave && status != models.StatusDraft {
		if newTitle == "" {
			return UpdateResult{}, &ValidationError{Field: "title", Reason: "add a title"}
		}
		if len(visibility) == 0 {
			visibility = append([]string(nil), scope.ActiveRooms...)
			if len(visibility) == 0 {
				return UpdateResult{}, &ValidationError{Field: "visibility", Reason: "select at least one room"}
			}
			set["visibility"] = visibility
			casc.Visibility = visibility
		}
	}

	if len(set) > 0 || len(unset) > 0 {
		if err := s.nodes.SetFields(ctx, n.ID, set, unset); err != nil {
			if err == nodestore.ErrNotFound {
				return UpdateResult{}, ErrNotFound
			}
			return UpdateResult{}, err
		}
	}

	if titleChanged {
		s.refreshDescendantTitles(ctx, n, newTitle)
	}

	if in.Parent != nil {
		if _, err := s.Move(ctx, scope, n.ID, in.Parent.ParentID); err != nil {
			return UpdateResult{}, err
		}
	}

	fresh, err := s.Get(ctx, scope, n.ID)
	if err != nil {
		return UpdateResult{}, err
	}

	res := UpdateResult{Node: fresh}
	if cascade && !casc.Empty() {
		res.CascadeErr = s.cascadeFrom(ctx, fresh, casc)
	}
	return res, nil
}

// refreshDescendantTitles rewrites the denormalized path_titles entry at
// this node's depth in every descendant. The cache is display-only, so a
// failed refresh is retried once and then logged rather than failing the
// rename that caused it.
func (s *Service) refreshDescendantTitles(ctx context.Context, n models.Node, title string) {
	desc, err := s.nodes.DescendantsOf(ctx, n.RootID, n.ID)
	if err != nil || len(desc) == 0 {
		if err != nil {
			s.log.Warn("title cascade: descendant query failed",
				zap.String("node_id", n.ID.Hex()), zap.Error(err))
		}
		return
	}

	field := fmt.Sprintf("path_titles.%d", n.Depth())
	patches := make([]nodestore.Patch, 0, len(desc))
	for _, d := range desc {
		patches = append(patches, nodestore.Patch{ID: d.ID, Set: bson.M{field: title}})
	}

	if _, err := s.nodes.ApplyPatches(ctx, patches, s.batch); err != nil {
		if _, err = s.nodes.ApplyPatches(ctx, patches, s.batch); err != nil {
			s.log.Warn("title cascade: batch write failed",
				zap.String("node_id", n.ID.Hex()),
				zap.Int("descendants", len(desc)),
				zap.Error(err))
		}
	}
}
