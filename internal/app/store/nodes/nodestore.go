// internal/app/store/nodes/nodestore.go
package nodestore

// Terminology: hierarchy fields
//   - parent_id / root_id / path: the live ancestor pointers for one node
//   - child_ids: the parent-side mirror of the children's parent_id pointers
//   - order: sibling sort key; absent on disk until first assigned
//
// The store exposes per-document atomic writes and bounded batches only.
// Nothing here spans two documents atomically; converging the child_ids
// mirror across documents is the tree package's job.

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/planboard/internal/domain/models"
)

// MaxBatchSize is the hard ceiling on documents per atomic batch write.
// Configured batch sizes are clamped to it.
const MaxBatchSize = 500

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("node not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("nodes")}
}

// Collection exposes the raw collection for index setup and tests.
func (s *Store) Collection() *mongo.Collection { return s.c }

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Node, error) {
	var n models.Node
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Node{}, ErrNotFound
		}
		return models.Node{}, err
	}
	return n, nil
}

// Insert writes a fully-materialized node. The caller supplies every derived
// field (path, root_id, order); the store only stamps timestamps and the id
// when they are unset.
func (s *Store) Insert(ctx context.Context, n models.Node) (models.Node, error) {
	now := time.Now().UTC()
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Node{}, err
	}
	return n, nil
}

// SetFields merges a partial update into one node ($set semantics) and bumps
// updated_at. Keys in unset are removed from the document; pass nil when
// nothing is cleared.
func (s *Store) SetFields(ctx context.Context, id primitive.ObjectID, set bson.M, unset bson.M) error {
	if set == nil {
		set = bson.M{}
	}
	set["updated_at"] = time.Now().UTC()
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	res, err := s.c.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddChild records childID in the parent's child_ids mirror. $addToSet makes
// a retry after partial failure converge instead of double-appending.
func (s *Store) AddChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, parentID, bson.M{
		"$addToSet": bson.M{"child_ids": childID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveChild drops childID from the parent's child_ids mirror. Removing an
// id that is already gone is a no-op, so retries converge.
func (s *Store) RemoveChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, parentID, bson.M{
		"$pull": bson.M{"child_ids": childID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PushQuestion appends a help-request to the node's history and applies any
// accompanying status change in the same single-document write.
func (s *Store) PushQuestion(ctx context.Context, id primitive.ObjectID, q models.Question, status string) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if status != "" {
		set["status"] = status
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"question_history": q},
		"$set":  set,
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ResolveQuestion marks one history entry resolved via the positional
// operator. Returns ErrNotFound when either the node or the entry is absent.
func (s *Store) ResolveQuestion(ctx context.Context, id, questionID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "question_history.id": questionID},
		bson.M{"$set": bson.M{
			"question_history.$.resolved": true,
			"updated_at":                  time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a node by id. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountChildren counts the live children of a node by their parent pointers,
// not by the child_ids mirror, so the delete guard never trusts a stale cache.
func (s *Store) CountChildren(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"parent_id": id})
}

// ByParent loads one sibling group. Children group under their parent;
// roots group per owner. Results come back in created_at order; display
// order is the tree package's SortSiblings rule, applied by callers.
func (s *Store) ByParent(ctx context.Context, ownerID primitive.ObjectID, parentID *primitive.ObjectID) ([]models.Node, error) {
	var filter bson.M
	if parentID != nil {
		filter = bson.M{"parent_id": *parentID}
	} else {
		filter = bson.M{"owner_id": ownerID, "parent_id": bson.M{"$exists": false}}
	}
	return s.find(ctx, filter, bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
}

// ByRoot loads an entire tree by its root id, the moved/duplicated/cascaded
// subtree superset.
func (s *Store) ByRoot(ctx context.Context, rootID primitive.ObjectID) ([]models.Node, error) {
	return s.find(ctx, bson.M{"root_id": rootID}, bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
}

// DescendantsOf loads every transitive descendant of one node: root_id
// narrows the scan to the tree, path containment narrows it to the subtree.
func (s *Store) DescendantsOf(ctx context.Context, rootID, id primitive.ObjectID) ([]models.Node, error) {
	return s.find(ctx, bson.M{"root_id": rootID, "path": id}, bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
}

// ByOwner loads every node a teacher owns, across all their trees.
func (s *Store) ByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Node, error) {
	return s.find(ctx, bson.M{"owner_id": ownerID}, bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
}

// All streams the whole collection, for the normalization pass.
func (s *Store) All(ctx context.Context) ([]models.Node, error) {
	return s.find(ctx, bson.M{}, nil)
}

func (s *Store) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.Node, error) {
	opts := options.Find()
	if sort != nil {
		opts.SetSort(sort)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Node
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
