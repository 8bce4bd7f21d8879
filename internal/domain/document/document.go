package document

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents document status.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusReturned  Status = "RETURNED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

var ErrInvalidTransition = errors.New("invalid document status transition")

// Document represents a submitted form-backed document moving through an
// approval chain.
type Document struct {
	ID             int64           `json:"id"`
	DocumentID     uuid.UUID       `json:"documentId"`
	DocumentNumber string          `json:"documentNumber"`
	DocumentTypeID uuid.UUID       `json:"documentTypeId"`
	SubmitterID    uuid.UUID       `json:"submitterId"`
	Title          string          `json:"title"`
	Data           json.RawMessage `json:"data"`
	Status         Status          `json:"status"`
	SubmittedAt    *time.Time      `json:"submittedAt,omitempty"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	DeletedAt      *time.Time      `json:"deletedAt,omitempty"`
}

// CanTransitionTo validates document status transition.
func (d *Document) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusDraft:     {StatusPending},
		StatusPending:   {StatusApproved, StatusRejected, StatusReturned, StatusCancelled, StatusCompleted},
		StatusReturned:  {StatusPending},
		StatusApproved:  {},
		StatusRejected:  {},
		StatusCancelled: {},
		StatusCompleted: {},
	}
	allowed := transitions[d.Status]
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// Submit moves a draft or returned document into the approval pipeline.
func (d *Document) Submit(now time.Time) error {
	if !d.CanTransitionTo(StatusPending) {
		return ErrInvalidTransition
	}
	d.Status = StatusPending
	d.SubmittedAt = &now
	d.CompletedAt = nil
	return nil
}

// Approve marks the document fully approved.
func (d *Document) Approve(now time.Time) error {
	if !d.CanTransitionTo(StatusApproved) {
		return ErrInvalidTransition
	}
	d.Status = StatusApproved
	d.CompletedAt = &now
	return nil
}

// Reject marks the document rejected.
func (d *Document) Reject(now time.Time) error {
	if !d.CanTransitionTo(StatusRejected) {
		return ErrInvalidTransition
	}
	d.Status = StatusRejected
	d.CompletedAt = &now
	return nil
}

// Return sends the document back to the submitter for editing. No completion
// timestamp is set: the document remains re-submittable.
func (d *Document) Return() error {
	if !d.CanTransitionTo(StatusReturned) {
		return ErrInvalidTransition
	}
	d.Status = StatusReturned
	return nil
}

// Cancel withdraws a pending document.
func (d *Document) Cancel() error {
	if !d.CanTransitionTo(StatusCancelled) {
		return ErrInvalidTransition
	}
	d.Status = StatusCancelled
	return nil
}

func (d *Document) CanBeEdited() bool {
	return d.Status == StatusDraft || d.Status == StatusReturned
}

func (d *Document) CanBeCancelled() bool {
	return d.Status == StatusPending
}

func (d *Document) CanBeDeleted() bool {
	return d.Status == StatusDraft
}

// IsTerminal reports whether the document reached an absorbing state.
func (d *Document) IsTerminal() bool {
	switch d.Status {
	case StatusApproved, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// Field looks up a dot-path field in the document payload. The payload schema
// is type-dependent; the engine only reads named fields for policy and
// template conditions. Missing paths return nil.
func (d *Document) Field(path string) interface{} {
	if len(d.Data) == 0 || path == "" {
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(d.Data, &raw); err != nil {
		return nil
	}
	cur := raw
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur, ok = m[part]
		if !ok {
			return nil
		}
	}
	return cur
}

// FieldFloat reads a numeric payload field, returning def when the field is
// absent or not numeric. JSON numbers decode as float64.
func (d *Document) FieldFloat(path string, def float64) float64 {
	switch v := d.Field(path).(type) {
	case float64:
		return v
	case string:
		return def
	default:
		return def
	}
}

// Params flattens the document payload into govaluate-compatible parameters,
// with nested maps exposed both as values and as dot-path keys.
func (d *Document) Params() map[string]interface{} {
	params := map[string]interface{}{}
	if len(d.Data) == 0 {
		return params
	}
	var raw interface{}
	if err := json.Unmarshal(d.Data, &raw); err != nil {
		return params
	}
	if m, ok := raw.(map[string]interface{}); ok {
		for k, v := range m {
			params[k] = v
		}
		flatten("", m, params)
	}
	return params
}

func flatten(prefix string, m map[string]interface{}, out map[string]interface{}) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch vv := v.(type) {
		case map[string]interface{}:
			flatten(key, vv, out)
		default:
			out[key] = vv
		}
	}
}

// Type represents a document type with its form schema.
type Type struct {
	ID                 int64           `json:"id"`
	DocumentTypeID     uuid.UUID       `json:"documentTypeId"`
	Name               string          `json:"name"`
	Slug               string          `json:"slug"`
	Description        string          `json:"description"`
	FormSchema         json.RawMessage `json:"formSchema,omitempty"`
	RequiresAttachment bool            `json:"requiresAttachment"`
	Active             bool            `json:"active"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// NumberPrefix returns the document-number prefix for the type.
func (t *Type) NumberPrefix() string {
	switch t.Slug {
	case "leave_request":
		return "LV"
	case "reimbursement":
		return "RB"
	case "purchase_request":
		return "PR"
	default:
		return "DC"
	}
}
