package template

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/domain/document"
)

// ApproverType discriminates how a template step resolves its approver.
type ApproverType string

const (
	ApproverSpecificUser ApproverType = "SPECIFIC_USER"
	ApproverRole         ApproverType = "ROLE"
	ApproverDynamic      ApproverType = "DYNAMIC"
)

func ValidateApproverType(t ApproverType) error {
	switch t {
	case ApproverSpecificUser, ApproverRole, ApproverDynamic:
		return nil
	default:
		return errors.New("invalid approver type")
	}
}

// Operator is a condition rule comparison operator.
type Operator string

const (
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
)

// Rule is the single-condition gate on a template: compare one payload field
// against a fixed value. Deliberately not an expression language.
type Rule struct {
	Field    string      `json:"field"`
	Operator Operator    `json:"operator"`
	Value    interface{} `json:"value"`
}

// Matches evaluates the rule against a document payload field. A missing
// field reads as nil; an unknown operator never matches.
func (r *Rule) Matches(doc *document.Document) bool {
	fieldValue := doc.Field(r.Field)
	switch r.Operator {
	case OpGreater, OpGreaterEqual, OpLess, OpLessEqual:
		a, aok := toFloat(fieldValue)
		b, bok := toFloat(r.Value)
		if !aok || !bok {
			return false
		}
		switch r.Operator {
		case OpGreater:
			return a > b
		case OpGreaterEqual:
			return a >= b
		case OpLess:
			return a < b
		default:
			return a <= b
		}
	case OpEqual:
		return equalValues(fieldValue, r.Value)
	case OpNotEqual:
		return !equalValues(fieldValue, r.Value)
	default:
		return false
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func equalValues(a, b interface{}) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
		return false
	}
	return a == b
}

// ApprovalTemplate is a reusable, conditionally-applicable definition of an
// approval chain's shape, owned by a document type.
type ApprovalTemplate struct {
	ID             int64     `json:"id"`
	TemplateID     uuid.UUID `json:"templateId"`
	DocumentTypeID uuid.UUID `json:"documentTypeId"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Condition      *Rule     `json:"condition,omitempty"`
	Default        bool      `json:"default"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// IsApplicable reports whether the template applies to the document. A
// template without a condition always applies.
func (t *ApprovalTemplate) IsApplicable(doc *document.Document) bool {
	if t.Condition == nil {
		return true
	}
	return t.Condition.Matches(doc)
}

// Step describes one step of a template's chain. Sequence values are unique
// within a template and form the execution order.
type Step struct {
	ID           int64        `json:"id"`
	StepID       uuid.UUID    `json:"stepId"`
	TemplateID   uuid.UUID    `json:"templateId"`
	Sequence     int          `json:"sequence"`
	StepName     string       `json:"stepName"`
	ApproverType ApproverType `json:"approverType"`
	RoleID       *uuid.UUID   `json:"roleId,omitempty"`
	UserID       *uuid.UUID   `json:"userId,omitempty"`
	Parallel     bool         `json:"parallel"`
	SLAHours     *int         `json:"slaHours,omitempty"`
}

// Validate checks a step definition for internal consistency.
func (s *Step) Validate() error {
	if s.Sequence < 1 {
		return errors.New("sequence must be >= 1")
	}
	if s.StepName == "" {
		return errors.New("step_name is required")
	}
	if err := ValidateApproverType(s.ApproverType); err != nil {
		return err
	}
	if s.ApproverType == ApproverRole && s.RoleID == nil {
		return errors.New("role step requires a role reference")
	}
	if s.ApproverType == ApproverSpecificUser && s.UserID == nil {
		return errors.New("specific_user step requires a user reference")
	}
	if s.SLAHours != nil && *s.SLAHours <= 0 {
		return errors.New("sla_hours must be positive when set")
	}
	return nil
}

// ValidateSteps checks uniqueness of sequence values within a template.
func ValidateSteps(steps []*Step) error {
	seen := make(map[int]struct{})
	for _, s := range steps {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, ok := seen[s.Sequence]; ok {
			return errors.New("duplicate sequence in template steps")
		}
		seen[s.Sequence] = struct{}{}
	}
	return nil
}
