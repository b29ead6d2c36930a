// internal/app/features/tasks/handler.go

// Package tasks is the JSON surface over the tree engine: the five tree
// operations, the question flow, the owner's tree view, and the classroom
// board. The acting teacher arrives in the X-Owner-ID header, stamped by
// the fronting auth layer this service deliberately excludes.
package tasks

import (
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/planboard/internal/app/features/errors"
	"github.com/dalemusser/planboard/internal/app/system/snapcache"
	"github.com/dalemusser/planboard/internal/app/system/watch"
	"github.com/dalemusser/planboard/internal/app/tree"
)

// OwnerHeader carries the acting teacher's id. Requests without it are
// rejected; there is no anonymous write path.
const OwnerHeader = "X-Owner-ID"

// RoomsHeader optionally carries the teacher's currently open rooms,
// comma-separated. They become the default visibility for saves that never
// picked rooms explicitly.
const RoomsHeader = "X-Active-Rooms"

type Handler struct {
	DB     *mongo.Database
	Tree   *tree.Service
	Hub    *watch.Hub
	Cache  *snapcache.Cache
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs the tasks feature handler. Hub and Cache may be nil
// in tests; notifications and caching are skipped.
func NewHandler(db *mongo.Database, svc *tree.Service, hub *watch.Hub, cache *snapcache.Cache, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Tree:   svc,
		Hub:    hub,
		Cache:  cache,
		Log:    logger,
		ErrLog: errLog,
	}
}

// scopeFromRequest builds the per-call scope from the trusted headers.
// ok=false means the response has already been written.
func (h *Handler) scopeFromRequest(w http.ResponseWriter, r *http.Request) (tree.Scope, bool) {
	raw := r.Header.Get(OwnerHeader)
	if raw == "" {
		uierrors.WriteError(w, http.StatusUnauthorized, "missing_owner", "missing "+OwnerHeader+" header")
		return tree.Scope{}, false
	}
	ownerID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		uierrors.WriteError(w, http.StatusUnauthorized, "bad_owner", "malformed "+OwnerHeader+" header")
		return tree.Scope{}, false
	}

	var rooms []string
	for _, room := range strings.Split(r.Header.Get(RoomsHeader), ",") {
		if room = strings.TrimSpace(room); room != "" {
			rooms = append(rooms, room)
		}
	}
	return tree.Scope{OwnerID: ownerID, ActiveRooms: rooms}, true
}

// pathID parses the {id} chi URL parameter. ok=false means the response has
// already been written.
func pathID(w http.ResponseWriter, raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		uierrors.WriteError(w, http.StatusNotFound, "not_found", "no such task")
		return primitive.NilObjectID, false
	}
	return id, true
}

// notifyChanged tells the read side the node collection moved: live board
// subscriptions requery and the snapshot cache generation rolls over. Called
// after every committed mutation, including partially committed ones; a
// partial batch changed documents too.
func (h *Handler) notifyChanged(r *http.Request) {
	if h.Hub != nil {
		h.Hub.Nudge()
	}
	if h.Cache != nil {
		h.Cache.Bump(r.Context())
	}
}

// writeTreeError maps the engine's error taxonomy onto HTTP. Returns false
// when err is not one of the typed engine errors, leaving it to the caller's
// server-error path.
func writeTreeError(w http.ResponseWriter, err error) bool {
	var (
		vErr *tree.ValidationError
		hErr *tree.HasChildrenError
		pErr *tree.PartialBatchError
	)
	switch {
	case errors.Is(err, tree.ErrNotFound):
		uierrors.WriteError(w, http.StatusNotFound, "not_found", "no such task")
	case errors.Is(err, tree.ErrDanglingParent):
		uierrors.WriteError(w, http.StatusUnprocessableEntity, "dangling_parent", "the chosen parent does not exist")
	case errors.As(err, &vErr):
		uierrors.WriteErrorDetails(w, http.StatusBadRequest, "validation", vErr.Reason,
			map[string]any{"field": vErr.Field})
	case errors.As(err, &hErr):
		uierrors.WriteErrorDetails(w, http.StatusConflict, "has_children",
			"this item has children; delete them too, or keep them as standalone items?",
			map[string]any{"child_count": hErr.ChildCount})
	case errors.As(err, &pErr):
		uierrors.WriteErrorDetails(w, http.StatusBadGateway, "partial_batch",
			"the operation committed only partially; retry it to converge",
			map[string]any{"op": pErr.Op, "applied_ids": pErr.AppliedHex()})
	default:
		return false
	}
	return true
}
