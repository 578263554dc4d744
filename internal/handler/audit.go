// Package handler exposes the audit pipeline over a small JSON API. It is
// the only presentation surface; all rendering happens client-side.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"gitaudit/internal/common"
	"gitaudit/internal/domain"

	"go.uber.org/zap"
)

// Auditor is the slice of the audit service the handler needs.
type Auditor interface {
	Run(ctx context.Context, username string) (*domain.Audit, error)
	ExportReport(audit *domain.Audit) ([]byte, error)
}

// AnimationLoader fetches the decorative loading animation.
type AnimationLoader interface {
	Fetch(ctx context.Context, url string) (json.RawMessage, error)
}

type AuditHandler struct {
	auditor      Auditor
	animations   AnimationLoader
	animationURL string
	logger       *zap.Logger
}

func NewAuditHandler(auditor Auditor, animations AnimationLoader, animationURL string, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditor:      auditor,
		animations:   animations,
		animationURL: animationURL,
		logger:       logger,
	}
}

// Register mounts the API routes.
func (h *AuditHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/audit/{username}", h.HandleAudit)
	mux.HandleFunc("GET /api/export/{username}", h.HandleExport)
	mux.HandleFunc("GET /api/animation", h.HandleAnimation)
}

// HandleAudit runs one full analysis pass and returns the four artifacts as
// a single JSON document.
func (h *AuditHandler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	audit, err := h.auditor.Run(r.Context(), username)
	if err != nil {
		h.writeError(w, username, err)
		return
	}

	h.writeJSON(w, http.StatusOK, audit)
}

// HandleExport runs an analysis pass and returns the downloadable report.
func (h *AuditHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	audit, err := h.auditor.Run(r.Context(), username)
	if err != nil {
		h.writeError(w, username, err)
		return
	}

	body, err := h.auditor.ExportReport(audit)
	if err != nil {
		h.logger.Error("building export report", zap.String("user", username), zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorBody("failed to build report"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "github_audit_"+username+".json"))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// HandleAnimation proxies the loading animation. Best-effort by design: any
// failure answers 204 and the client renders without it.
func (h *AuditHandler) HandleAnimation(w http.ResponseWriter, r *http.Request) {
	animation, err := h.animations.Fetch(r.Context(), h.animationURL)
	if err != nil {
		h.logger.Debug("animation unavailable", zap.Error(err))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, animation)
}

// writeError maps the error taxonomy onto HTTP statuses: a missing
// credential is a server-side configuration problem, an unknown user is the
// client's, everything else is the upstream's.
func (h *AuditHandler) writeError(w http.ResponseWriter, username string, err error) {
	h.logger.Warn("audit failed", zap.String("user", username), zap.Error(err))

	switch {
	case common.HasCode(err, common.ErrCodeNoCredential):
		h.writeJSON(w, http.StatusInternalServerError, errorBody("GitHub token not configured"))
	case common.HasCode(err, common.ErrCodeUserNotFound):
		h.writeJSON(w, http.StatusNotFound, errorBody("user not found"))
	case common.HasCode(err, common.ErrCodeInvalidInput):
		h.writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		h.writeJSON(w, http.StatusBadGateway, errorBody("upstream request failed"))
	}
}

func (h *AuditHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("encoding response", zap.Error(err))
	}
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}
