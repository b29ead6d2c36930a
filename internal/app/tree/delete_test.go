package tree_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/planboard/internal/app/tree"
	"github.com/dalemusser/planboard/internal/domain/models"
)

func TestDelete_LeafUpdatesParentMirror(t *testing.T) {
	svc, scope, fx, ctx, cancel := newTestTree(t)
	defer cancel()

	a, err := svc.Create(ctx, scope, tree.CreateInput{Kind: models.KindProject, Title: "Project A"})
	if err != nil {
		t.Fatalf("create A failed: %v", err)
	}
	b, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &a.ID, Title: "Assignment B"})
	if err != nil {
		t.Fatalf("create B failed: %v", err)
	}
	c, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &a.ID, Title: "Assignment C"})
	if err != nil {
		t.Fatalf("create C failed: %v", err)
	}
	if b.Order != 1 || c.Order != 2 {
		t.Fatalf("sibling orders: got %d and %d, want 1 and 2", b.Order, c.Order)
	}

	res, err := svc.Delete(ctx, scope, b.ID, tree.RefuseChildren)
	if err != nil {
		t.Fatalf("delete leaf failed: %v", err)
	}
	if len(res.Deleted) != 1 || res.Deleted[0] != b.ID {
		t.Errorf("deleted ids: got %v, want [%v]", res.Deleted, b.ID)
	}

	if got := fx.GetNode(ctx, a.ID).ChildIDs; len(got) != 1 || got[0] != c.ID {
		t.Errorf("parent child_ids after delete: got %v, want [%v]", got, c.ID)
	}
	if _, err := svc.Get(ctx, scope, b.ID); !errors.Is(err, tree.ErrNotFound) {
		t.Error("deleted node still readable")
	}
}

func TestDelete_RefusesWithChildren(t *testing.T) {
	svc, scope, _, ctx, cancel := newTestTree(t)
	defer cancel()

	a, err := svc.Create(ctx, scope, tree.CreateInput{Title: "A"})
	if err != nil {
		t.Fatalf("create A failed: %v", err)
	}
	for _, title := range []string{"B", "C"} {
		if _, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &a.ID, Title: title}); err != nil {
			t.Fatalf("create %s failed: %v", title, err)
		}
	}

	var hce *tree.HasChildrenError
	_, err = svc.Delete(ctx, scope, a.ID, tree.RefuseChildren)
	if !errors.As(err, &hce) {
		t.Fatalf("delete with children: got %v, want HasChildrenError", err)
	}
	if hce.ChildCount != 2 {
		t.Errorf("child count: got %d, want 2", hce.ChildCount)
	}

	// Nothing was touched.
	if _, err := svc.Get(ctx, scope, a.ID); err != nil {
		t.Errorf("refused delete removed the node: %v", err)
	}
}

func TestDelete_Subtree(t *testing.T) {
	svc, scope, fx, ctx, cancel := newTestTree(t)
	defer cancel()

	a, err := svc.Create(ctx, scope, tree.CreateInput{Title: "A"})
	if err != nil {
		t.Fatalf("create A failed: %v", err)
	}
	b, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &a.ID, Title: "B"})
	if err != nil {
		t.Fatalf("create B failed: %v", err)
	}
	if _, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &b.ID, Title: "C"}); err != nil {
		t.Fatalf("create C failed: %v", err)
	}
	keeper, err := svc.Create(ctx, scope, tree.CreateInput{Title: "Keeper"})
	if err != nil {
		t.Fatalf("create keeper failed: %v", err)
	}

	res, err := svc.Delete(ctx, scope, a.ID, tree.DeleteDescendants)
	if err != nil {
		t.Fatalf("subtree delete failed: %v", err)
	}
	if len(res.Deleted) != 3 {
		t.Errorf("deleted ids: got %d, want 3", len(res.Deleted))
	}
	// Deepest first, the node itself last.
	if res.Deleted[len(res.Deleted)-1] != a.ID {
		t.Errorf("deletion order: node itself must be last, got %v", res.Deleted)
	}

	count, err := fx.DB().Collection("nodes").CountDocuments(ctx, bson.M{"owner_id": scope.OwnerID})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("remaining documents: got %d, want only the keeper", count)
	}
	if _, err := svc.Get(ctx, scope, keeper.ID); err != nil {
		t.Errorf("unrelated root was removed: %v", err)
	}
}

func TestDelete_OrphanPromotesSubtrees(t *testing.T) {
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

	res, err := svc.Delete(ctx, scope, a.ID, tree.OrphanDescendants)
	if err != nil {
		t.Fatalf("orphaning delete failed: %v", err)
	}
	if len(res.Orphaned) != 1 || res.Orphaned[0] != b.ID {
		t.Errorf("orphaned ids: got %v, want [%v]", res.Orphaned, b.ID)
	}

	bNow := fx.GetNode(ctx, b.ID)
	if bNow.ParentID != nil {
		t.Error("promoted child still has a parent pointer")
	}
	if bNow.RootID != b.ID || len(bNow.Path) != 0 {
		t.Errorf("promoted child ancestry: root %v path %v", bNow.RootID, bNow.Path)
	}
	if !bNow.HasOrder() {
		t.Error("promoted child lost its sibling order")
	}

	// The grandchild keeps its place under the promoted child.
	cNow := fx.GetNode(ctx, c.ID)
	if cNow.ParentID == nil || *cNow.ParentID != b.ID {
		t.Error("grandchild parent pointer must survive orphaning")
	}
	if cNow.RootID != b.ID || len(cNow.Path) != 1 || cNow.Path[0] != b.ID {
		t.Errorf("grandchild ancestry: root %v path %v", cNow.RootID, cNow.Path)
	}
	if cNow.PathTitles[0] != "B" {
		t.Errorf("grandchild breadcrumb: got %v", cNow.PathTitles)
	}

	if _, err := svc.Get(ctx, scope, a.ID); !errors.Is(err, tree.ErrNotFound) {
		t.Error("deleted node still readable")
	}
}

func TestDelete_Missing(t *testing.T) {
	svc, scope, _, ctx, cancel := newTestTree(t)
	defer cancel()

	if _, err := svc.Delete(ctx, scope, primitive.NewObjectID(), tree.RefuseChildren); !errors.Is(err, tree.ErrNotFound) {
		t.Errorf("missing node: got %v, want ErrNotFound", err)
	}
}
