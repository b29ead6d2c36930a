package tree_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/planboard/internal/app/tree"
	"github.com/dalemusser/planboard/internal/domain/models"
)

func TestMove_SubtreeKeepsShape(t *testing.T) {
	svc, scope, fx, ctx, cancel := newTestTree(t)
	defer cancel()

	a, err := svc.Create(ctx, scope, tree.CreateInput{Kind: models.KindProject, Title: "A"})
	if err != nil {
		t.Fatalf("create A failed: %v", err)
	}
	b, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &a.ID, Title: "B"})
	if err != nil {
		t.Fatalf("create B failed: %v", err)
	}
	c, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &b.ID, Title: "C"})
	if err != nil {
		t.Fatalf("create C failed: %v", err)
	}
	d, err := svc.Create(ctx, scope, tree.CreateInput{Kind: models.KindProject, Title: "D"})
	if err != nil {
		t.Fatalf("create D failed: %v", err)
	}

	moved, err := svc.Move(ctx, scope, b.ID, &d.ID)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}

	if moved.ParentID == nil || *moved.ParentID != d.ID {
		t.Error("moved node parent not updated")
	}
	if moved.RootID != d.ID {
		t.Errorf("moved node root: got %v, want %v", moved.RootID, d.ID)
	}
	if len(moved.Path) != 1 || moved.Path[0] != d.ID {
		t.Errorf("moved node path: got %v, want [%v]", moved.Path, d.ID)
	}
	if moved.PathTitles[0] != "D" {
		t.Errorf("moved node path titles: got %v", moved.PathTitles)
	}

	// C rode along: same parent (B), same relative depth, rebased chain.
	cNow := fx.GetNode(ctx, c.ID)
	if cNow.ParentID == nil || *cNow.ParentID != b.ID {
		t.Error("descendant parent pointer must not change on subtree move")
	}
	if cNow.RootID != d.ID {
		t.Errorf("descendant root: got %v, want %v", cNow.RootID, d.ID)
	}
	if len(cNow.Path) != 2 || cNow.Path[0] != d.ID || cNow.Path[1] != b.ID {
		t.Errorf("descendant path: got %v, want [%v %v]", cNow.Path, d.ID, b.ID)
	}
	if cNow.PathTitles[0] != "D" || cNow.PathTitles[1] != "B" {
		t.Errorf("descendant path titles: got %v", cNow.PathTitles)
	}

	// Mirrors on both parents.
	if got := fx.GetNode(ctx, a.ID).ChildIDs; len(got) != 0 {
		t.Errorf("old parent child_ids: got %v, want empty", got)
	}
	if got := fx.GetNode(ctx, d.ID).ChildIDs; len(got) != 1 || got[0] != b.ID {
		t.Errorf("new parent child_ids: got %v, want [%v]", got, b.ID)
	}
}

func TestMove_ToRoot(t *testing.T) {
	svc, scope, fx, ctx, cancel := newTestTree(t)
	defer cancel()

	a, err := svc.Create(ctx, scope, tree.CreateInput{Kind: models.KindProject, Title: "A"})
	if err != nil {
		t.Fatalf("create A failed: %v", err)
	}
	b, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &a.ID, Title: "B"})
	if err != nil {
		t.Fatalf("create B failed: %v", err)
	}
	c, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &b.ID, Title: "C"})
	if err != nil {
		t.Fatalf("create C failed: %v", err)
	}

	moved, err := svc.Move(ctx, scope, b.ID, nil)
	if err != nil {
		t.Fatalf("move to root failed: %v", err)
	}

	if moved.ParentID != nil {
		t.Error("promoted node still has a parent")
	}
	if moved.RootID != b.ID || len(moved.Path) != 0 {
		t.Errorf("promoted node ancestry: root %v path %v", moved.RootID, moved.Path)
	}

	cNow := fx.GetNode(ctx, c.ID)
	if cNow.RootID != b.ID || len(cNow.Path) != 1 || cNow.Path[0] != b.ID {
		t.Errorf("descendant ancestry: root %v path %v", cNow.RootID, cNow.Path)
	}
	if got := fx.GetNode(ctx, a.ID).ChildIDs; len(got) != 0 {
		t.Errorf("old parent child_ids: got %v, want empty", got)
	}
}

func TestMove_RefusesCycles(t *testing.T) {
	svc, scope, _, ctx, cancel := newTestTree(t)
	defer cancel()

	a, err := svc.Create(ctx, scope, tree.CreateInput{Title: "A"})
	if err != nil {
		t.Fatalf("create A failed: %v", err)
	}
	b, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &a.ID, Title: "B"})
	if err != nil {
		t.Fatalf("create B failed: %v", err)
	}

	var ve *tree.ValidationError
	if _, err := svc.Move(ctx, scope, a.ID, &a.ID); !errors.As(err, &ve) {
		t.Errorf("self move: got %v, want validation error", err)
	}
	if _, err := svc.Move(ctx, scope, a.ID, &b.ID); !errors.As(err, &ve) {
		t.Errorf("move under own descendant: got %v, want validation error", err)
	}
}

func TestMove_SameParentIsNoop(t *testing.T) {
	svc, scope, _, ctx, cancel := newTestTree(t)
	defer cancel()

	a, err := svc.Create(ctx, scope, tree.CreateInput{Title: "A"})
	if err != nil {
		t.Fatalf("create A failed: %v", err)
	}
	b, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &a.ID, Title: "B"})
	if err != nil {
		t.Fatalf("create B failed: %v", err)
	}

	moved, err := svc.Move(ctx, scope, b.ID, &a.ID)
	if err != nil {
		t.Fatalf("noop move failed: %v", err)
	}
	if moved.Order != b.Order {
		t.Errorf("noop move changed order: got %d, want %d", moved.Order, b.Order)
	}
}

func TestMove_AppendsToTargetGroup(t *testing.T) {
	svc, scope, _, ctx, cancel := newTestTree(t)
	defer cancel()

	a, err := svc.Create(ctx, scope, tree.CreateInput{Title: "A"})
	if err != nil {
		t.Fatalf("create A failed: %v", err)
	}
	for _, title := range []string{"One", "Two"} {
		if _, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &a.ID, Title: title}); err != nil {
			t.Fatalf("create %s failed: %v", title, err)
		}
	}
	loose, err := svc.Create(ctx, scope, tree.CreateInput{Title: "Loose"})
	if err != nil {
		t.Fatalf("create loose failed: %v", err)
	}

	moved, err := svc.Move(ctx, scope, loose.ID, &a.ID)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if moved.Order != 3 {
		t.Errorf("appended order: got %d, want 3", moved.Order)
	}
}

func TestMove_DanglingTarget(t *testing.T) {
	svc, scope, _, ctx, cancel := newTestTree(t)
	defer cancel()

	a, err := svc.Create(ctx, scope, tree.CreateInput{Title: "A"})
	if err != nil {
		t.Fatalf("create A failed: %v", err)
	}

	missing := primitive.NewObjectID()
	if _, err := svc.Move(ctx, scope, a.ID, &missing); !errors.Is(err, tree.ErrDanglingParent) {
		t.Errorf("dangling target: got %v, want ErrDanglingParent", err)
	}
}
