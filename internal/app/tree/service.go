// internal/app/tree/service.go
//
// Package tree is the consistency engine for the task hierarchy. Nodes live
// as flat, independent documents; every operation here decomposes into a
// fixed, enumerable set of single-document and bounded-batch writes decided
// up front, each idempotent, so a retry after partial failure converges
// instead of double-applying. There are no cross-document transactions to
// lean on and none are used.
package tree

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	nodestore "github.com/dalemusser/planboard/internal/app/store/nodes"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// Config carries the tuning knobs the engine reads.
type Config struct {
	// OrderGap is the spacing constant used when the normalizer renumbers a
	// sibling group. Zero means DefaultOrderGap.
	OrderGap int64

	// BatchSize bounds documents per batch write. Zero or out-of-range
	// values clamp to the store maximum.
	BatchSize int
}

// Scope identifies who is acting and which rooms they currently have open.
// Every mutating call takes one explicitly; there is no ambient current-user
// or current-class state.
type Scope struct {
	OwnerID     primitive.ObjectID
	ActiveRooms []string
}

// Service orchestrates create, update, move, delete, and duplicate against
// the node store, keeping ancestry, sibling order, and the child_ids mirror
// consistent.
type Service struct {
	nodes *nodestore.Store
	log   *zap.Logger
	gap   int64
	batch int
}

func NewService(nodes *nodestore.Store, log *zap.Logger, cfg Config) *Service {
	gap := cfg.OrderGap
	if gap <= 0 {
		gap = DefaultOrderGap
	}
	return &Service{nodes: nodes, log: log, gap: gap, batch: cfg.BatchSize}
}

// Get returns one of the caller's nodes. Nodes owned by someone else read as
// absent rather than forbidden.
func (s *Service) Get(ctx context.Context, scope Scope, id primitive.ObjectID) (models.Node, error) {
	n, err := s.nodes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, nodestore.ErrNotFound) {
			return models.Node{}, ErrNotFound
		}
		return models.Node{}, err
	}
	if n.OwnerID != scope.OwnerID {
		return models.Node{}, ErrNotFound
	}
	return n, nil
}

// Subtree returns the caller's node plus every transitive descendant,
// unordered. Callers wanting display order run the result through
// BuildForest.
func (s *Service) Subtree(ctx context.Context, scope Scope, id primitive.ObjectID) (models.Node, []models.Node, error) {
	n, err := s.Get(ctx, scope, id)
	if err != nil {
		return models.Node{}, nil, err
	}
	desc, err := s.nodes.DescendantsOf(ctx, n.RootID, n.ID)
	if err != nil {
		return models.Node{}, nil, err
	}
	return n, desc, nil
}

// Forest returns every node the caller owns, across all their trees,
// unsorted. Display ordering is BuildForest's job.
func (s *Service) Forest(ctx context.Context, scope Scope) ([]models.Node, error) {
	return s.nodes.ByOwner(ctx, scope.OwnerID)
}

// Children returns the direct children of one node, unsorted. Ownership of
// the parent is not checked here; pair it with Get when the caller needs
// that guarantee.
func (s *Service) Children(ctx context.Context, scope Scope, id primitive.ObjectID) ([]models.Node, error) {
	return s.nodes.ByParent(ctx, scope.OwnerID, &id)
}

// loadParent resolves an optional parent reference for attach-style
// operations. A missing or foreign parent is a dangling reference either
// way; the caller refuses rather than writing a partial ancestor path.
func (s *Service) loadParent(ctx context.Context, scope Scope, parentID *primitive.ObjectID) (*models.Node, error) {
	if parentID == nil {
		return nil, nil
	}
	p, err := s.nodes.Get(ctx, *parentID)
	if err != nil {
		if errors.Is(err, nodestore.ErrNotFound) {
			return nil, ErrDanglingParent
		}
		return nil, err
	}
	if p.OwnerID != scope.OwnerID {
		return nil, ErrDanglingParent
	}
	return &p, nil
}

// siblings loads the sibling group a node with the given parent would join.
func (s *Service) siblings(ctx context.Context, scope Scope, parentID *primitive.ObjectID) ([]models.Node, error) {
	return s.nodes.ByParent(ctx, scope.OwnerID, parentID)
}
