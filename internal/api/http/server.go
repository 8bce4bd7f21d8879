package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	appApproval "github.com/docflow/docflow/internal/application/approval"
	appAudit "github.com/docflow/docflow/internal/application/audit"
	appAuth "github.com/docflow/docflow/internal/application/auth"
	appDashboard "github.com/docflow/docflow/internal/application/dashboard"
	appDocument "github.com/docflow/docflow/internal/application/document"
	appWorkflow "github.com/docflow/docflow/internal/application/workflow"
	"github.com/docflow/docflow/internal/domain/approval"
	"github.com/docflow/docflow/internal/domain/document"
	"github.com/docflow/docflow/internal/domain/policy"
)

// Pinger reports storage reachability for readiness checks. Satisfied by
// pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	documentSvc         *appDocument.Service
	workflowSvc         *appWorkflow.Service
	approvalSvc         *appApproval.Service
	dashboardSvc        *appDashboard.Service
	auditSvc            *appAudit.Service
	authSvc             *appAuth.Service
	db                  Pinger
	sessionCookieName   string
	sessionCookieSecure bool
}

func NewServer(
	documentSvc *appDocument.Service,
	workflowSvc *appWorkflow.Service,
	approvalSvc *appApproval.Service,
	dashboardSvc *appDashboard.Service,
	auditSvc *appAudit.Service,
	authSvc *appAuth.Service,
	db Pinger,
	sessionCookieName string,
	sessionCookieSecure bool,
) *Server {
	return &Server{
		documentSvc:         documentSvc,
		workflowSvc:         workflowSvc,
		approvalSvc:         approvalSvc,
		dashboardSvc:        dashboardSvc,
		auditSvc:            auditSvc,
		authSvc:             authSvc,
		db:                  db,
		sessionCookieName:   sessionCookieName,
		sessionCookieSecure: sessionCookieSecure,
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health/live", s.healthLive)
	r.Get("/health/ready", s.healthReady)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.login)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/logout", s.logout)
				r.Get("/me", s.me)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/document-types", func(r chi.Router) {
				r.Get("/", s.listDocumentTypes)
			})

			r.Route("/documents", func(r chi.Router) {
				r.Post("/", s.createDocument)
				r.Get("/", s.listDocuments)
				r.Get("/{documentId}", s.getDocument)
				r.Patch("/{documentId}", s.updateDocument)
				r.Delete("/{documentId}", s.deleteDocument)
				r.Post("/{documentId}/submit", s.submitDocument)
				r.Post("/{documentId}/cancel", s.cancelDocument)
				r.Get("/{documentId}/steps", s.listDocumentSteps)
				r.Get("/{documentId}/history", s.documentHistory)
			})

			r.Route("/approvals", func(r chi.Router) {
				r.Get("/", s.listInbox)
				r.Get("/{stepId}", s.getApprovalStep)
				r.Post("/{stepId}/approve", s.approveStep)
				r.Post("/{stepId}/reject", s.rejectStep)
				r.Post("/{stepId}/return", s.returnStep)
				r.Post("/{stepId}/delegate", s.delegateStep)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/stats", s.dashboardStats)
			})
		})
	})

	return r
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

// respondServiceError maps application errors onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	if v, ok := policy.AsViolation(err); ok {
		respondError(w, http.StatusUnprocessableEntity, v.Code, v.Message)
		return
	}
	switch {
	case errors.Is(err, appDocument.ErrNotFound),
		errors.Is(err, appWorkflow.ErrNotFound),
		errors.Is(err, appWorkflow.ErrDocumentNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, appDocument.ErrNotSubmitter),
		errors.Is(err, appWorkflow.ErrNotSubmitter),
		errors.Is(err, appWorkflow.ErrNotApprover):
		respondError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, document.ErrInvalidTransition),
		errors.Is(err, approval.ErrInvalidTransition),
		errors.Is(err, appDocument.ErrNotEditable),
		errors.Is(err, appDocument.ErrNotDeletable):
		respondError(w, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, appWorkflow.ErrCommentRequired),
		errors.Is(err, appWorkflow.ErrUserNotFound),
		errors.Is(err, appDocument.ErrTypeNotFound),
		errors.Is(err, appApproval.ErrDuplicateDefault):
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	val := chi.URLParam(r, key)
	return uuid.Parse(val)
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func parseLimitOffset(r *http.Request, defaultLimit, maxLimit int) (int, int) {
	limit := defaultLimit
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil {
			offset = o
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
