package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

type stepActionRequest struct {
	Comment *string `json:"comment,omitempty"`
}

type delegateRequest struct {
	ToUserID string  `json:"toUserId"`
	EndAt    *string `json:"endAt,omitempty"`
}

func (s *Server) listInbox(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	limit, offset := parseLimitOffset(r, 50, 200)
	steps, err := s.approvalSvc.ListInbox(r.Context(), auth.UserID, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"approvals": steps})
}

func (s *Server) getApprovalStep(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "stepId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid stepId")
		return
	}
	step, err := s.approvalSvc.GetStep(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if step == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "approval step not found")
		return
	}
	respondJSON(w, http.StatusOK, step)
}

func (s *Server) approveStep(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "stepId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid stepId")
		return
	}
	var req stepActionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	step, err := s.workflowSvc.Approve(r.Context(), id, auth.UserID, req.Comment)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, step)
}

func (s *Server) rejectStep(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "stepId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid stepId")
		return
	}
	var req stepActionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	step, err := s.workflowSvc.Reject(r.Context(), id, auth.UserID, req.Comment)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, step)
}

func (s *Server) returnStep(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "stepId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid stepId")
		return
	}
	var req stepActionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	step, err := s.workflowSvc.Return(r.Context(), id, auth.UserID, req.Comment)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, step)
}

func (s *Server) delegateStep(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "stepId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid stepId")
		return
	}
	var req delegateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	toUserID, err := uuid.Parse(req.ToUserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid toUserId")
		return
	}
	var endAt *time.Time
	if req.EndAt != nil {
		t, err := time.Parse(time.RFC3339, *req.EndAt)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid endAt")
			return
		}
		endAt = &t
	}
	step, err := s.workflowSvc.Delegate(r.Context(), id, auth.UserID, toUserID, endAt)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, step)
}
