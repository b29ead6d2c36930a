package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/planboard/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateNode inserts a node as-is after filling unset basics: id, owner,
// kind, status, title_ci, root_id for roots, and timestamps. Ancestry
// fields are taken verbatim, so tests can also build deliberately broken
// documents.
func (f *Fixtures) CreateNode(ctx context.Context, n models.Node) models.Node {
	f.t.Helper()

	now := time.Now().UTC()
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.OwnerID.IsZero() {
		n.OwnerID = primitive.NewObjectID()
	}
	if n.Kind == "" {
		n.Kind = models.KindTask
	}
	if n.Status == "" {
		n.Status = models.StatusTodo
	}
	if n.TitleCI == "" {
		n.TitleCI = text.Fold(n.Title)
	}
	if n.ParentID == nil && n.RootID.IsZero() {
		n.RootID = n.ID
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now

	if _, err := f.db.Collection("nodes").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test node: %v", err)
	}
	return n
}

// CreateRoot creates a forest root owned by ownerID, visible to one room.
func (f *Fixtures) CreateRoot(ctx context.Context, ownerID primitive.ObjectID, title string) models.Node {
	f.t.Helper()
	return f.CreateNode(ctx, models.Node{
		Kind:       models.KindProject,
		OwnerID:    ownerID,
		Title:      title,
		Order:      1,
		Visibility: []string{"room-1"},
	})
}

// CreateChild creates a node under parent with correct ancestry and
// mirrors it into the parent's child_ids, the way a live create would.
func (f *Fixtures) CreateChild(ctx context.Context, parent models.Node, title string, order int64) models.Node {
	f.t.Helper()

	n := f.CreateNode(ctx, models.Node{
		Kind:       models.KindTask,
		OwnerID:    parent.OwnerID,
		ParentID:   &parent.ID,
		RootID:     parent.RootID,
		Path:       append(append([]primitive.ObjectID{}, parent.Path...), parent.ID),
		PathTitles: append(append([]string{}, parent.PathTitles...), parent.Title),
		Title:      title,
		Order:      order,
		Visibility: append([]string(nil), parent.Visibility...),
	})

	if _, err := f.db.Collection("nodes").UpdateByID(ctx, parent.ID,
		bson.M{"$addToSet": bson.M{"child_ids": n.ID}}); err != nil {
		f.t.Fatalf("failed to mirror test child: %v", err)
	}
	return n
}

// AddQuestion appends a help-request to a node's history directly.
func (f *Fixtures) AddQuestion(ctx context.Context, nodeID primitive.ObjectID, body string) models.Question {
	f.t.Helper()

	q := models.Question{
		ID:         primitive.NewObjectID(),
		AuthorID:   "student-1",
		AuthorName: "Test Student",
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := f.db.Collection("nodes").UpdateByID(ctx, nodeID,
		bson.M{"$push": bson.M{"question_history": q}}); err != nil {
		f.t.Fatalf("failed to push test question: %v", err)
	}
	return q
}

// GetNode reloads one node or fails the test.
func (f *Fixtures) GetNode(ctx context.Context, id primitive.ObjectID) models.Node {
	f.t.Helper()

	var n models.Node
	if err := f.db.Collection("nodes").FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		f.t.Fatalf("failed to get test node %s: %v", id.Hex(), err)
	}
	return n
}
