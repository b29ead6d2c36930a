// internal/app/tree/questions.go
package tree

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	nodestore "github.com/dalemusser/planboard/internal/app/store/nodes"
	"github.com/dalemusser/planboard/internal/app/system/htmlsanitize"
	"github.com/dalemusser/planboard/internal/app/policy/nodepolicy"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// AddQuestion appends a help-request from a room viewer to the node's
// history and flags the node as stuck, in one document write. Viewers are
// not owners; the node just has to be visible to the asker's room.
func (s *Service) AddQuestion(ctx context.Context, id primitive.ObjectID, room, authorID, authorName, body string) (models.Question, error) {
	n, err := s.nodes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, nodestore.ErrNotFound) {
			return models.Question{}, ErrNotFound
		}
		return models.Question{}, err
	}
	if !nodepolicy.CanView(n, room) {
		return models.Question{}, ErrNotFound
	}

	text := strings.TrimSpace(htmlsanitize.Rich(body))
	if text == "" {
		return models.Question{}, &ValidationError{Field: "body", Reason: "write a question"}
	}

	q := models.Question{
		ID:         primitive.NewObjectID(),
		AuthorID:   authorID,
		AuthorName: htmlsanitize.Plain(authorName),
		Body:       text,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.nodes.PushQuestion(ctx, n.ID, q, models.StatusStuck); err != nil {
		if errors.Is(err, nodestore.ErrNotFound) {
			return models.Question{}, ErrNotFound
		}
		return models.Question{}, err
	}
	return q, nil
}

// ResolveQuestion marks one help-request answered. Owner-only; the node's
// status is left alone because the owner decides separately whether the
// task is unstuck.
func (s *Service) ResolveQuestion(ctx context.Context, scope Scope, id, questionID primitive.ObjectID) error {
	n, err := s.Get(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := s.nodes.ResolveQuestion(ctx, n.ID, questionID); err != nil {
		if errors.Is(err, nodestore.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
