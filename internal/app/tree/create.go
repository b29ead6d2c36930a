// internal/app/tree/create.go
package tree

import (
	"context"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/planboard/internal/app/system/htmlsanitize"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// CreateInput is the caller-supplied part of a new node. Ancestry, order,
// and timestamps are derived here, never accepted from the caller.
type CreateInput struct {
	Kind        string
	ParentID    *primitive.ObjectID
	Title       string
	Description string
	Window      *models.DateWindow
	Status      string
	Visibility  []string
	Attachments []models.Attachment
	Links       []models.Link

	// Autosave marks a silent background save of an in-progress draft.
	// Autosaves may persist incomplete nodes; they are always stored with
	// draft status and skip the required-field checks.
	Autosave bool
}

// Create validates and writes a new node under the optional parent and
// mirrors it into the parent's child_ids. Two documents change at most: the
// node insert commits first, then the parent mirror. When the mirror write
// fails the node still exists; the returned node is valid alongside a
// *PartialBatchError and a retry of the same create is safe because the
// mirror append is a set add.
func (s *Service) Create(ctx context.Context, scope Scope, in CreateInput) (models.Node, error) {
	kind := in.Kind
	if kind == "" {
		kind = models.DefaultNodeKind
	}
	if !models.ValidNodeKind(kind) {
		return models.Node{}, &ValidationError{Field: "kind", Reason: "unknown kind"}
	}

	title := strings.TrimSpace(htmlsanitize.Plain(in.Title))
	visibility := append([]string(nil), in.Visibility...)
	if len(visibility) == 0 {
		visibility = append(visibility, scope.ActiveRooms...)
	}

	var status string
	if in.Autosave {
		status = models.StatusDraft
	} else {
		if title == "" {
			return models.Node{}, &ValidationError{Field: "title", Reason: "add a title"}
		}
		if len(visibility) == 0 {
			return models.Node{}, &ValidationError{Field: "visibility", Reason: "select at least one room"}
		}
		status = in.Status
		if status == "" || status == models.StatusDraft {
			status = models.FirstActiveStatus
		}
		if !models.ValidNodeStatus(status) {
			return models.Node{}, &ValidationError{Field: "status", Reason: "unknown status"}
		}
	}

	if in.Window != nil && !in.Window.End.After(in.Window.Start) {
		return models.Node{}, &ValidationError{Field: "window", Reason: "end must be after start"}
	}

	parent, err := s.loadParent(ctx, scope, in.ParentID)
	if err != nil {
		return models.Node{}, err
	}

	sibs, err := s.siblings(ctx, scope, in.ParentID)
	if err != nil {
		return models.Node{}, err
	}

	id := primitive.NewObjectID()
	anc := ResolveAncestry(id, parent)

	n := models.Node{
		ID:          id,
		Kind:        kind,
		OwnerID:     scope.OwnerID,
		ParentID:    in.ParentID,
		RootID:      anc.RootID,
		Path:        anc.Path,
		PathTitles:  anc.PathTitles,
		Order:       NextSiblingOrder(sibs),
		Title:       title,
		TitleCI:     text.Fold(title),
		Description: htmlsanitize.Rich(in.Description),
		Window:      in.Window,
		Status:      status,
		Visibility:  visibility,
		Attachments: append([]models.Attachment(nil), in.Attachments...),
		Links:       append([]models.Link(nil), in.Links...),
	}

	created, err := s.nodes.Insert(ctx, n)
	if err != nil {
		return models.Node{}, err
	}

	if parent != nil {
		if err := s.nodes.AddChild(ctx, parent.ID, created.ID); err != nil {
			s.log.Warn("create: child mirror write failed",
				zap.String("node_id", created.ID.Hex()),
				zap.String("parent_id", parent.ID.Hex()),
				zap.Error(err))
			return created, &PartialBatchError{
				Op:      "create",
				Applied: []primitive.ObjectID{created.ID},
				Err:     err,
			}
		}
	}
	return created, nil
}
