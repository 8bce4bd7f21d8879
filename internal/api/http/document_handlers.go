package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/domain/audit"
	"github.com/docflow/docflow/internal/domain/document"
)

type documentCreateRequest struct {
	DocumentTypeID string          `json:"documentTypeId"`
	Title          string          `json:"title"`
	Data           json.RawMessage `json:"data,omitempty"`
}

type documentUpdateRequest struct {
	Title string          `json:"title"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func (s *Server) listDocumentTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.documentSvc.ListTypes(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"documentTypes": types})
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	var req documentCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	typeID, err := uuid.Parse(req.DocumentTypeID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid documentTypeId")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "title is required")
		return
	}
	doc, err := s.documentSvc.Create(r.Context(), auth.UserID, typeID, req.Title, req.Data)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, doc)
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	limit, offset := parseLimitOffset(r, 50, 200)
	filter := document.Filter{SubmitterID: &auth.UserID}
	if v := r.URL.Query().Get("status"); v != "" {
		st := document.Status(strings.ToUpper(v))
		filter.Status = &st
	}
	if v := r.URL.Query().Get("documentTypeId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid documentTypeId")
			return
		}
		filter.DocumentTypeID = &id
	}
	if v := r.URL.Query().Get("search"); v != "" {
		filter.Search = v
	}
	if v := r.URL.Query().Get("submittedFrom"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.SubmittedFrom = &t
		}
	}
	if v := r.URL.Query().Get("submittedTo"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.SubmittedTo = &t
		}
	}
	docs, err := s.documentSvc.List(r.Context(), filter, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "documentId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid documentId")
		return
	}
	doc, err := s.documentSvc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (s *Server) updateDocument(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "documentId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid documentId")
		return
	}
	var req documentUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	doc, err := s.documentSvc.Update(r.Context(), id, auth.UserID, req.Title, req.Data)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "documentId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid documentId")
		return
	}
	if err := s.documentSvc.Delete(r.Context(), id, auth.UserID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "OK"})
}

func (s *Server) submitDocument(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "documentId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid documentId")
		return
	}
	doc, err := s.documentSvc.Submit(r.Context(), id, auth)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (s *Server) cancelDocument(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "documentId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid documentId")
		return
	}
	doc, err := s.workflowSvc.Cancel(r.Context(), id, auth.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (s *Server) listDocumentSteps(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "documentId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid documentId")
		return
	}
	steps, err := s.approvalSvc.ListByDocument(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"steps": steps})
}

func (s *Server) documentHistory(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "documentId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid documentId")
		return
	}
	limit, offset := parseLimitOffset(r, 100, 500)
	entries, err := s.auditSvc.EntityHistory(r.Context(), audit.EntityTypeDocument, id, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}
