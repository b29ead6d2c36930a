package tree_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/planboard/internal/app/tree"
	"github.com/dalemusser/planboard/internal/domain/models"
)

func TestCreate_Root(t *testing.T) {
	svc, scope, _, ctx, cancel := newTestTree(t)
	defer cancel()

	n, err := svc.Create(ctx, scope, tree.CreateInput{
		Kind:  models.KindProject,
		Title: "Project A",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if n.ID.IsZero() {
		t.Error("expected an id to be assigned")
	}
	if n.ParentID != nil {
		t.Error("root must have no parent")
	}
	if n.RootID != n.ID {
		t.Errorf("root id: got %v, want self %v", n.RootID, n.ID)
	}
	if len(n.Path) != 0 {
		t.Errorf("root path: got %v, want empty", n.Path)
	}
	if n.Order != 1 {
		t.Errorf("first root order: got %d, want 1", n.Order)
	}
	if n.Status != models.StatusTodo {
		t.Errorf("status: got %q, want %q", n.Status, models.StatusTodo)
	}
	if n.TitleCI == "" {
		t.Error("expected title_ci to be set")
	}
	// No visibility in the input, so the scope's active rooms apply.
	if len(n.Visibility) != 1 || n.Visibility[0] != "room-1" {
		t.Errorf("visibility: got %v, want [room-1]", n.Visibility)
	}
	if n.CreatedAt.IsZero() || n.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestCreate_ChildAncestryAndMirror(t *testing.T) {
	svc, scope, fx, ctx, cancel := newTestTree(t)
	defer cancel()

	root, err := svc.Create(ctx, scope, tree.CreateInput{Kind: models.KindProject, Title: "Project A"})
	if err != nil {
		t.Fatalf("create root failed: %v", err)
	}

	child, err := svc.Create(ctx, scope, tree.CreateInput{
		Kind:     models.KindAssignment,
		ParentID: &root.ID,
		Title:    "Assignment B",
	})
	if err != nil {
		t.Fatalf("create child failed: %v", err)
	}

	if child.ParentID == nil || *child.ParentID != root.ID {
		t.Error("child parent pointer not set")
	}
	if child.RootID != root.ID {
		t.Errorf("child root: got %v, want %v", child.RootID, root.ID)
	}
	if len(child.Path) != 1 || child.Path[0] != root.ID {
		t.Errorf("child path: got %v, want [%v]", child.Path, root.ID)
	}
	if len(child.PathTitles) != 1 || child.PathTitles[0] != "Project A" {
		t.Errorf("child path titles: got %v", child.PathTitles)
	}
	if child.Order != 1 {
		t.Errorf("first child order: got %d, want 1", child.Order)
	}

	second, err := svc.Create(ctx, scope, tree.CreateInput{
		ParentID: &root.ID,
		Title:    "Assignment C",
	})
	if err != nil {
		t.Fatalf("create second child failed: %v", err)
	}
	if second.Order != 2 {
		t.Errorf("second child order: got %d, want 2", second.Order)
	}

	reloaded := fx.GetNode(ctx, root.ID)
	if len(reloaded.ChildIDs) != 2 {
		t.Fatalf("parent child_ids: got %v, want two entries", reloaded.ChildIDs)
	}
	got := map[primitive.ObjectID]bool{reloaded.ChildIDs[0]: true, reloaded.ChildIDs[1]: true}
	if !got[child.ID] || !got[second.ID] {
		t.Errorf("parent child_ids %v missing created children", reloaded.ChildIDs)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, scope, _, ctx, cancel := newTestTree(t)
	defer cancel()

	var ve *tree.ValidationError
	if _, err := svc.Create(ctx, scope, tree.CreateInput{Title: "   "}); !errors.As(err, &ve) || ve.Field != "title" {
		t.Errorf("blank title: got %v, want title validation error", err)
	}

	bare := tree.Scope{OwnerID: scope.OwnerID}
	if _, err := svc.Create(ctx, bare, tree.CreateInput{Title: "No Rooms"}); !errors.As(err, &ve) || ve.Field != "visibility" {
		t.Errorf("no visibility: got %v, want visibility validation error", err)
	}

	if _, err := svc.Create(ctx, scope, tree.CreateInput{Title: "X", Kind: "chapter"}); !errors.As(err, &ve) || ve.Field != "kind" {
		t.Errorf("bad kind: got %v, want kind validation error", err)
	}
}

func TestCreate_AutosavePersistsIncompleteDraft(t *testing.T) {
	svc, scope, _, ctx, cancel := newTestTree(t)
	defer cancel()

	n, err := svc.Create(ctx, scope, tree.CreateInput{Autosave: true})
	if err != nil {
		t.Fatalf("autosave create failed: %v", err)
	}
	if n.Status != models.StatusDraft {
		t.Errorf("autosave status: got %q, want draft", n.Status)
	}
	if n.Title != "" {
		t.Errorf("autosave title: got %q, want empty", n.Title)
	}
}

func TestCreate_DanglingParent(t *testing.T) {
	svc, scope, fx, ctx, cancel := newTestTree(t)
	defer cancel()

	missing := primitive.NewObjectID()
	if _, err := svc.Create(ctx, scope, tree.CreateInput{Title: "X", ParentID: &missing}); !errors.Is(err, tree.ErrDanglingParent) {
		t.Errorf("missing parent: got %v, want ErrDanglingParent", err)
	}

	// A parent owned by someone else is just as dangling from this
	// caller's point of view.
	foreign := fx.CreateRoot(ctx, primitive.NewObjectID(), "Foreign")
	if _, err := svc.Create(ctx, scope, tree.CreateInput{Title: "X", ParentID: &foreign.ID}); !errors.Is(err, tree.ErrDanglingParent) {
		t.Errorf("foreign parent: got %v, want ErrDanglingParent", err)
	}
}

func TestCreate_SanitizesMarkup(t *testing.T) {
	svc, scope, _, ctx, cancel := newTestTree(t)
	defer cancel()

	n, err := svc.Create(ctx, scope, tree.CreateInput{Title: "Algebra <b>Week 1</b>"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if n.Title != "Algebra Week 1" {
		t.Errorf("sanitized title: got %q, want %q", n.Title, "Algebra Week 1")
	}
}
