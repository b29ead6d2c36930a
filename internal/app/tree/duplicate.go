// internal/app/tree/duplicate.go
package tree

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/planboard/internal/app/system/htmlsanitize"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// DuplicateOptions controls a copy.
type DuplicateOptions struct {
	// IncludeDescendants copies the whole subtree, not just the node.
	IncludeDescendants bool

	// Parent, when non-nil, attaches the copy elsewhere; nil keeps the
	// source's parent, so the copy lands as a sibling of the source.
	Parent *ParentChange

	// NewTitle retitles the root copy. The engine never invents a "(Copy)"
	// marker itself; callers that want one pass it here.
	NewTitle *string

	// Visibility replaces the copies' room list; nil copies the source's.
	Visibility []string
}

// DuplicateResult carries the root copy and the full old-to-new id map so a
// caller can jump straight to any copied node.
type DuplicateResult struct {
	Root  models.Node
	IDMap map[primitive.ObjectID]primitive.ObjectID
}

// Duplicate deep-copies a node, and optionally its subtree, as a fresh set
// of documents. The copy rules are an explicit field list, not a blind
// clone: identity, ancestry, child_ids, and timestamps are recomputed
// against brand-new ids; visibility is replaced when an override is given;
// question history is always reset because help-requests belong to the
// lived instance they were asked on, not to the content. Attachments and
// links are copied as independent entries. Everything else, sibling order
// included, carries over verbatim; a copied order value duplicating its
// source's is expected and is the normalizer's to compact.
func (s *Service) Duplicate(ctx context.Context, scope Scope, id primitive.ObjectID, opts DuplicateOptions) (DuplicateResult, error) {
	src, err := s.Get(ctx, scope, id)
	if err != nil {
		return DuplicateResult{}, err
	}

	targetParentID := src.ParentID
	if opts.Parent != nil {
		targetParentID = opts.Parent.ParentID
	}
	targetParent, err := s.loadParent(ctx, scope, targetParentID)
	if err != nil {
		return DuplicateResult{}, err
	}

	originals := []models.Node{src}
	if opts.IncludeDescendants {
		desc, err := s.nodes.DescendantsOf(ctx, src.RootID, src.ID)
		if err != nil {
			return DuplicateResult{}, err
		}
		originals = append(originals, desc...)
	}
	// Parents before children, so every copy can resolve its ancestry from
	// an already-built parent copy.
	sort.Slice(originals, func(i, j int) bool { return originals[i].Depth() < originals[j].Depth() })

	idMap := make(map[primitive.ObjectID]primitive.ObjectID, len(originals))
	for _, o := range originals {
		idMap[o.ID] = primitive.NewObjectID()
	}

	built := make(map[primitive.ObjectID]*models.Node, len(originals))
	copies := make([]models.Node, 0, len(originals))
	for _, o := range originals {
		c := o
		c.ID = idMap[o.ID]
		c.QuestionHistory = nil
		c.CreatedAt, c.UpdatedAt = time.Time{}, time.Time{}

		if o.ID == src.ID {
			c.ParentID = targetParentID
			anc := ResolveAncestry(c.ID, targetParent)
			c.RootID, c.Path, c.PathTitles = anc.RootID, anc.Path, anc.PathTitles
			if opts.NewTitle != nil {
				t := strings.TrimSpace(htmlsanitize.Plain(*opts.NewTitle))
				if t != "" {
					c.Title = t
					c.TitleCI = text.Fold(t)
				}
			}
		} else {
			newParentID := idMap[*o.ParentID]
			c.ParentID = &newParentID
			anc := ResolveAncestry(c.ID, built[newParentID])
			c.RootID, c.Path, c.PathTitles = anc.RootID, anc.Path, anc.PathTitles
		}

		c.ChildIDs = remapChildren(o.ChildIDs, idMap)
		if opts.Visibility != nil {
			c.Visibility = append([]string(nil), opts.Visibility...)
		} else {
			c.Visibility = append([]string(nil), o.Visibility...)
		}
		c.Attachments = append([]models.Attachment(nil), o.Attachments...)
		c.Links = append([]models.Link(nil), o.Links...)
		if o.Window != nil {
			w := *o.Window
			c.Window = &w
		}

		built[c.ID] = &c
		copies = append(copies, c)
	}

	inserted, err := s.nodes.InsertMany(ctx, copies, s.batch)
	if err != nil {
		applied := make([]primitive.ObjectID, len(inserted))
		for i, c := range inserted {
			applied[i] = c.ID
		}
		return DuplicateResult{}, &PartialBatchError{Op: "duplicate", Applied: applied, Err: err}
	}

	rootCopy := inserted[0]
	if targetParent != nil {
		if err := s.nodes.AddChild(ctx, targetParent.ID, rootCopy.ID); err != nil {
			applied := make([]primitive.ObjectID, len(inserted))
			for i, c := range inserted {
				applied[i] = c.ID
			}
			return DuplicateResult{}, &PartialBatchError{Op: "duplicate", Applied: applied, Err: err}
		}
	}

	s.log.Info("node duplicated",
		zap.String("source_id", src.ID.Hex()),
		zap.String("copy_id", rootCopy.ID.Hex()),
		zap.Int("copied", len(inserted)))
	return DuplicateResult{Root: rootCopy, IDMap: idMap}, nil
}

func remapChildren(childIDs []primitive.ObjectID, idMap map[primitive.ObjectID]primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(childIDs))
	for _, c := range childIDs {
		if mapped, ok := idMap[c]; ok {
			out = append(out, mapped)
		}
	}
	return out
}
