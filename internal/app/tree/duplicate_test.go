package tree_test

import (
	"testing"

	"github.com/dalemusser/planboard/internal/app/tree"
	"github.com/dalemusser/planboard/internal/domain/models"
)

func TestDuplicate_ResetsQuestionHistory(t *testing.T) {
	svc, scope, fx, ctx, cancel := newTestTree(t)
	defer cancel()

	src, err := svc.Create(ctx, scope, tree.CreateInput{Title: "Assignment B"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	fx.AddQuestion(ctx, src.ID, "What page?")
	fx.AddQuestion(ctx, src.ID, "Due when?")

	res, err := svc.Duplicate(ctx, scope, src.ID, tree.DuplicateOptions{})
	if err != nil {
		t.Fatalf("duplicate failed: %v", err)
	}

	if len(res.Root.QuestionHistory) != 0 {
		t.Errorf("copy question history: got %d entries, want 0", len(res.Root.QuestionHistory))
	}
	if res.Root.ID == src.ID {
		t.Error("copy must have a new id")
	}
	if got := fx.GetNode(ctx, src.ID).QuestionHistory; len(got) != 2 {
		t.Errorf("source question history: got %d entries, want 2 untouched", len(got))
	}
}

func TestDuplicate_PreservesContent(t *testing.T) {
	svc, scope, fx, ctx, cancel := newTestTree(t)
	defer cancel()

	src, err := svc.Create(ctx, scope, tree.CreateInput{
		Title:       "Worksheet",
		Description: "Fractions practice",
		Attachments: []models.Attachment{{Name: "sheet.pdf", URL: "https://files/sheet.pdf", Size: 1024}},
		Links:       []models.Link{{Title: "Video", URL: "https://videos/1"}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	res, err := svc.Duplicate(ctx, scope, src.ID, tree.DuplicateOptions{})
	if err != nil {
		t.Fatalf("duplicate failed: %v", err)
	}
	copyNode := res.Root

	if copyNode.Title != src.Title {
		t.Errorf("copy title: got %q, want %q", copyNode.Title, src.Title)
	}
	if copyNode.Description != src.Description {
		t.Errorf("copy description: got %q", copyNode.Description)
	}
	if len(copyNode.Attachments) != 1 || copyNode.Attachments[0].Name != "sheet.pdf" {
		t.Errorf("copy attachments: got %v", copyNode.Attachments)
	}
	if len(copyNode.Links) != 1 || copyNode.Links[0].URL != "https://videos/1" {
		t.Errorf("copy links: got %v", copyNode.Links)
	}

	// The copies are independent documents; trimming the copy's
	// attachments must not touch the source's.
	if _, err := svc.Update(ctx, scope, copyNode.ID, tree.UpdateInput{
		Attachments: &[]models.Attachment{},
	}, false); err != nil {
		t.Fatalf("trim copy attachments failed: %v", err)
	}
	if got := fx.GetNode(ctx, src.ID).Attachments; len(got) != 1 {
		t.Errorf("source attachments after editing the copy: got %d, want 1", len(got))
	}
}

func TestDuplicate_DefaultLandsAsSibling(t *testing.T) {
	svc, scope, fx, ctx, cancel := newTestTree(t)
	defer cancel()

	parent, err := svc.Create(ctx, scope, tree.CreateInput{Title: "Parent"})
	if err != nil {
		t.Fatalf("create parent failed: %v", err)
	}
	src, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &parent.ID, Title: "Task"})
	if err != nil {
		t.Fatalf("create source failed: %v", err)
	}

	res, err := svc.Duplicate(ctx, scope, src.ID, tree.DuplicateOptions{})
	if err != nil {
		t.Fatalf("duplicate failed: %v", err)
	}

	if res.Root.ParentID == nil || *res.Root.ParentID != parent.ID {
		t.Error("copy must join the source's parent")
	}
	kids := fx.GetNode(ctx, parent.ID).ChildIDs
	if len(kids) != 2 {
		t.Errorf("parent child_ids: got %v, want source and copy", kids)
	}
	// Sibling order carries over verbatim; compacting the resulting
	// duplicate order values is the normalizer's job.
	if res.Root.Order != src.Order {
		t.Errorf("copy order: got %d, want %d", res.Root.Order, src.Order)
	}
}

func TestDuplicate_SubtreeRemapsAncestry(t *testing.T) {
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

	res, err := svc.Duplicate(ctx, scope, a.ID, tree.DuplicateOptions{IncludeDescendants: true})
	if err != nil {
		t.Fatalf("duplicate subtree failed: %v", err)
	}

	if len(res.IDMap) != 3 {
		t.Fatalf("id map: got %d entries, want 3", len(res.IDMap))
	}
	newA, newB, newC := res.IDMap[a.ID], res.IDMap[b.ID], res.IDMap[c.ID]
	if res.Root.ID != newA {
		t.Errorf("returned root: got %v, want %v", res.Root.ID, newA)
	}

	copyA := fx.GetNode(ctx, newA)
	if len(copyA.ChildIDs) != 1 || copyA.ChildIDs[0] != newB {
		t.Errorf("copy A child_ids: got %v, want [%v]", copyA.ChildIDs, newB)
	}
	if copyA.RootID != newA || copyA.ParentID != nil {
		t.Errorf("copy A ancestry: root %v parent %v", copyA.RootID, copyA.ParentID)
	}

	copyB := fx.GetNode(ctx, newB)
	if copyB.ParentID == nil || *copyB.ParentID != newA {
		t.Error("copy B parent must map to copy A")
	}
	if copyB.RootID != newA || len(copyB.Path) != 1 || copyB.Path[0] != newA {
		t.Errorf("copy B ancestry: root %v path %v", copyB.RootID, copyB.Path)
	}

	copyC := fx.GetNode(ctx, newC)
	if len(copyC.Path) != 2 || copyC.Path[0] != newA || copyC.Path[1] != newB {
		t.Errorf("copy C path: got %v, want [%v %v]", copyC.Path, newA, newB)
	}
	if copyC.PathTitles[0] != "A" || copyC.PathTitles[1] != "B" {
		t.Errorf("copy C path titles: got %v", copyC.PathTitles)
	}

	// The source tree is untouched.
	if got := fx.GetNode(ctx, c.ID).RootID; got != a.ID {
		t.Errorf("source C root changed: got %v", got)
	}
}

func TestDuplicate_LeafCopyDropsChildLinks(t *testing.T) {
	svc, scope, fx, ctx, cancel := newTestTree(t)
	defer cancel()

	a, err := svc.Create(ctx, scope, tree.CreateInput{Title: "A"})
	if err != nil {
		t.Fatalf("create A failed: %v", err)
	}
	if _, err := svc.Create(ctx, scope, tree.CreateInput{ParentID: &a.ID, Title: "B"}); err != nil {
		t.Fatalf("create B failed: %v", err)
	}

	res, err := svc.Duplicate(ctx, scope, a.ID, tree.DuplicateOptions{IncludeDescendants: false})
	if err != nil {
		t.Fatalf("duplicate failed: %v", err)
	}

	if got := fx.GetNode(ctx, res.Root.ID).ChildIDs; len(got) != 0 {
		t.Errorf("shallow copy child_ids: got %v, want empty", got)
	}
	if len(res.IDMap) != 1 {
		t.Errorf("shallow copy id map: got %d entries, want 1", len(res.IDMap))
	}
}

func TestDuplicate_OverridesTitleVisibilityAndParent(t *testing.T) {
	svc, scope, fx, ctx, cancel := newTestTree(t)
	defer cancel()

	src, err := svc.Create(ctx, scope, tree.CreateInput{Title: "Quiz"})
	if err != nil {
		t.Fatalf("create source failed: %v", err)
	}
	target, err := svc.Create(ctx, scope, tree.CreateInput{Title: "Target"})
	if err != nil {
		t.Fatalf("create target failed: %v", err)
	}

	title := "Quiz (Copy)"
	res, err := svc.Duplicate(ctx, scope, src.ID, tree.DuplicateOptions{
		Parent:     &tree.ParentChange{ParentID: &target.ID},
		NewTitle:   &title,
		Visibility: []string{"room-9"},
	})
	if err != nil {
		t.Fatalf("duplicate failed: %v", err)
	}

	if res.Root.Title != "Quiz (Copy)" {
		t.Errorf("copy title: got %q", res.Root.Title)
	}
	if len(res.Root.Visibility) != 1 || res.Root.Visibility[0] != "room-9" {
		t.Errorf("copy visibility: got %v", res.Root.Visibility)
	}
	if res.Root.ParentID == nil || *res.Root.ParentID != target.ID {
		t.Error("copy parent override not applied")
	}
	if got := fx.GetNode(ctx, target.ID).ChildIDs; len(got) != 1 || got[0] != res.Root.ID {
		t.Errorf("target child_ids: got %v", got)
	}
	if got := fx.GetNode(ctx, src.ID).Title; got != "Quiz" {
		t.Errorf("source title changed: got %q", got)
	}
}
