package tree_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/planboard/internal/app/tree"
	"github.com/dalemusser/planboard/internal/domain/models"
)

func strPtr(s string) *string { return &s }

func TestUpdate_PatchesFields(t *testing.T) {
	svc, scope, _, ctx, cancel := newTestTree(t)
	defer cancel()

	n, err := svc.Create(ctx, scope, tree.CreateInput{Title: "Before"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	res, err := svc.Update(ctx, scope, n.ID, tree.UpdateInput{
		Title:       strPtr("After"),
		Description: strPtr("Read chapter 3"),
	}, false)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if res.Node.Title != "After" {
		t.Errorf("title: got %q, want After", res.Node.Title)
	}
	if res.Node.TitleCI == n.TitleCI {
		t.Error("title_ci should follow the title")
	}
	if res.Node.Description != "Read chapter 3" {
		t.Errorf("description: got %q", res.Node.Description)
	}
	if res.CascadeErr != nil {
		t.Errorf("no cascade requested, got cascade error %v", res.CascadeErr)
	}
}

func TestUpdate_ExplicitSavePromotesDraft(t *testing.T) {
	svc, scope, _, ctx, cancel := newTestTree(t)
	defer cancel()

	draft, err := svc.Create(ctx, scope, tree.CreateInput{Autosave: true})
	if err != nil {
		t.Fatalf("autosave create failed: %v", err)
	}

	// Autosaved patches keep the node in draft.
	res, err := svc.Update(ctx, scope, draft.ID, tree.UpdateInput{
		Title:    strPtr("Half-written"),
		Autosave: true,
	}, false)
	if err != nil {
		t.Fatalf("autosave update failed: %v", err)
	}
	if res.Node.Status != models.StatusDraft {
		t.Errorf("autosave status: got %q, want draft", res.Node.Status)
	}

	// The explicit save promotes, runs validation, and lands on the first
	// active status even though the patch names a later one.
	res, err = svc.Update(ctx, scope, draft.ID, tree.UpdateInput{
		Title:  strPtr("Finished Title"),
		Status: strPtr(models.StatusDone),
	}, false)
	if err != nil {
		t.Fatalf("explicit save failed: %v", err)
	}
	if res.Node.Status != models.FirstActiveStatus {
		t.Errorf("promoted status: got %q, want %q", res.Node.Status, models.FirstActiveStatus)
	}
}

func TestUpdate_ExplicitSaveOfDraftValidates(t *testing.T) {
	svc, scope, _, ctx, cancel := newTestTree(t)
	defer cancel()

	draft, err := svc.Create(ctx, scope, tree.CreateInput{Autosave: true})
	if err != nil {
		t.Fatalf("autosave create failed: %v", err)
	}

	var ve *tree.ValidationError
	if _, err := svc.Update(ctx, scope, draft.ID, tree.UpdateInput{}, false); !errors.As(err, &ve) || ve.Field != "title" {
		t.Errorf("promoting an empty draft: got %v, want title validation error", err)
	}
}

func TestUpdate_CannotReturnToDraft(t *testing.T) {
	svc, scope, _, ctx, cancel := newTestTree(t)
	defer cancel()

	n, err := svc.Create(ctx, scope, tree.CreateInput{Title: "Live"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var ve *tree.ValidationError
	if _, err := svc.Update(ctx, scope, n.ID, tree.UpdateInput{Status: strPtr(models.StatusDraft)}, false); !errors.As(err, &ve) || ve.Field != "status" {
		t.Errorf("demote to draft: got %v, want status validation error", err)
	}
}

func TestUpdate_RenameRefreshesDescendantBreadcrumbs(t *testing.T) {
	svc, scope, fx, ctx, cancel := newTestTree(t)
	defer cancel()

	root, err := svc.Create(ctx, scope, tree.CreateInput{Kind: models.KindProject, Title: "Old Name"})
	if err != nil {
		t.Fatalf("create root failed: %v", err)
	}
	child, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &root.ID, Title: "Child"})
	if err != nil {
		t.Fatalf("create child failed: %v", err)
	}
	grand, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &child.ID, Title: "Grand"})
	if err != nil {
		t.Fatalf("create grandchild failed: %v", err)
	}

	if _, err := svc.Update(ctx, scope, root.ID, tree.UpdateInput{Title: strPtr("New Name")}, false); err != nil {
		t.Fatalf("rename failed: %v", err)
	}

	if got := fx.GetNode(ctx, child.ID).PathTitles; got[0] != "New Name" {
		t.Errorf("child breadcrumb: got %v", got)
	}
	if got := fx.GetNode(ctx, grand.ID).PathTitles; got[0] != "New Name" || got[1] != "Child" {
		t.Errorf("grandchild breadcrumb: got %v", got)
	}
}

func TestUpdate_CascadePushesFieldsToDescendants(t *testing.T) {
	svc, scope, fx, ctx, cancel := newTestTree(t)
	defer cancel()

	root, err := svc.Create(ctx, scope, tree.CreateInput{Kind: models.KindProject, Title: "Project"})
	if err != nil {
		t.Fatalf("create root failed: %v", err)
	}
	child, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &root.ID, Title: "Child"})
	if err != nil {
		t.Fatalf("create child failed: %v", err)
	}
	grand, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &child.ID, Title: "Grand"})
	if err != nil {
		t.Fatalf("create grandchild failed: %v", err)
	}

	window := &models.DateWindow{
		Start: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
	}
	rooms := []string{"room-2", "room-3"}

	res, err := svc.Update(ctx, scope, root.ID, tree.UpdateInput{
		Status:     strPtr(models.StatusDone),
		Window:     window,
		Visibility: &rooms,
	}, true)
	if err != nil {
		t.Fatalf("cascading update failed: %v", err)
	}
	if res.CascadeErr != nil {
		t.Fatalf("cascade reported failure: %v", res.CascadeErr)
	}

	check := func(id, label string, n models.Node) {
		if n.Status != models.StatusDone {
			t.Errorf("%s status: got %q, want done", label, n.Status)
		}
		if n.Window == nil || !n.Window.Start.Equal(window.Start) || !n.Window.End.Equal(window.End) {
			t.Errorf("%s window: got %+v", label, n.Window)
		}
		if len(n.Visibility) != 2 || n.Visibility[0] != "room-2" {
			t.Errorf("%s visibility: got %v", label, n.Visibility)
		}
		_ = id
	}
	check(child.ID.Hex(), "child", fx.GetNode(ctx, child.ID))
	check(grand.ID.Hex(), "grandchild", fx.GetNode(ctx, grand.ID))

	// Replaying the same cascade must land on the same state.
	res2, err := svc.Update(ctx, scope, root.ID, tree.UpdateInput{
		Status:     strPtr(models.StatusDone),
		Window:     window,
		Visibility: &rooms,
	}, true)
	if err != nil || res2.CascadeErr != nil {
		t.Fatalf("replayed cascade failed: %v / %v", err, res2.CascadeErr)
	}
	check(child.ID.Hex(), "child after replay", fx.GetNode(ctx, child.ID))
	check(grand.ID.Hex(), "grandchild after replay", fx.GetNode(ctx, grand.ID))
}

func TestUpdate_CascadeIsOptIn(t *testing.T) {
	svc, scope, fx, ctx, cancel := newTestTree(t)
	defer cancel()

	root, err := svc.Create(ctx, scope, tree.CreateInput{Title: "Project"})
	if err != nil {
		t.Fatalf("create root failed: %v", err)
	}
	child, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &root.ID, Title: "Child"})
	if err != nil {
		t.Fatalf("create child failed: %v", err)
	}

	if _, err := svc.Update(ctx, scope, root.ID, tree.UpdateInput{Status: strPtr(models.StatusDone)}, false); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if got := fx.GetNode(ctx, child.ID).Status; got != models.StatusTodo {
		t.Errorf("child status without cascade: got %q, want todo", got)
	}
}

func TestUpdate_ReparentViaPatch(t *testing.T) {
	svc, scope, fx, ctx, cancel := newTestTree(t)
	defer cancel()

	a, err := svc.Create(ctx, scope, tree.CreateInput{Title: "A"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	b, err := svc.Create(ctx, scope, tree.CreateInput{Title: "B"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	c, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &a.ID, Title: "C"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	res, err := svc.Update(ctx, scope, c.ID, tree.UpdateInput{
		Parent: &tree.ParentChange{ParentID: &b.ID},
	}, false)
	if err != nil {
		t.Fatalf("reparenting update failed: %v", err)
	}

	if res.Node.ParentID == nil || *res.Node.ParentID != b.ID {
		t.Error("patched parent not applied")
	}
	if len(fx.GetNode(ctx, a.ID).ChildIDs) != 0 {
		t.Error("old parent still lists the moved child")
	}
	if got := fx.GetNode(ctx, b.ID).ChildIDs; len(got) != 1 || got[0] != c.ID {
		t.Errorf("new parent child_ids: got %v", got)
	}
}
