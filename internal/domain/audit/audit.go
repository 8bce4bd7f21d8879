package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EntityType identifies the aggregate an audit entry refers to.
type EntityType string

const (
	EntityTypeDocument EntityType = "DOCUMENT"
	EntityTypeStep     EntityType = "APPROVAL_STEP"
	EntityTypeUser     EntityType = "USER"
)

// Entry is one recorded fact about a state transition: the action taken, who
// took it, and the before/after state. The engine emits entries; this package
// does not care how a sink stores them.
type Entry struct {
	ID         int64           `json:"id"`
	AuditID    uuid.UUID       `json:"auditId"`
	Action     string          `json:"action"`
	EntityType EntityType      `json:"entityType"`
	EntityID   uuid.UUID       `json:"entityId"`
	ActorID    *uuid.UUID      `json:"actorId,omitempty"`
	OldValues  json.RawMessage `json:"oldValues,omitempty"`
	NewValues  json.RawMessage `json:"newValues,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// NewEntry builds an entry, marshalling old/new state maps. Marshal failures
// leave the corresponding side empty rather than blocking the transition.
func NewEntry(action string, entityType EntityType, entityID uuid.UUID, actorID *uuid.UUID, oldValues, newValues map[string]interface{}) *Entry {
	e := &Entry{
		AuditID:    uuid.New(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
		CreatedAt:  time.Now().UTC(),
	}
	if oldValues != nil {
		if data, err := json.Marshal(oldValues); err == nil {
			e.OldValues = data
		}
	}
	if newValues != nil {
		if data, err := json.Marshal(newValues); err == nil {
			e.NewValues = data
		}
	}
	return e
}
