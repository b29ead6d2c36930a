// internal/app/features/maintenance/handler.go

// Package maintenance exposes operator entry points. These sit outside the
// teacher/viewer surface; deployments front them with operator-only access.
package maintenance

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	uierrors "github.com/dalemusser/planboard/internal/app/features/errors"
	"github.com/dalemusser/planboard/internal/app/system/timeouts"
	"github.com/dalemusser/planboard/internal/app/tree"
)

type Handler struct {
	Tree   *tree.Service
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs the maintenance feature handler.
func NewHandler(svc *tree.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Tree:   svc,
		Log:    logger,
		ErrLog: errLog,
	}
}

// ServeNormalize handles POST /maintenance/normalize: a one-shot repair
// pass over every sibling group. The report answers even when the pass
// fails partway, so an operator can see how far it got before re-running.
func (h *Handler) ServeNormalize(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	rep, err := h.Tree.Normalize(ctx)
	if err != nil {
		h.Log.Error("normalization run failed",
			zap.Int("updates_applied", rep.UpdatesApplied),
			zap.Error(err))
		uierrors.WriteJSON(w, http.StatusBadGateway, struct {
			Report tree.NormalizeReport `json:"report"`
			Error  string               `json:"error"`
		}{Report: rep, Error: "normalization did not finish; re-run to converge"})
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, rep)
}
