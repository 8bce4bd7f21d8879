package policy

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/domain/user"
)

// Type discriminates how a policy's rules are evaluated.
type Type string

const (
	TypeQuotaLimit      Type = "QUOTA_LIMIT"
	TypeAmountThreshold Type = "AMOUNT_THRESHOLD"
	TypeTimeBased       Type = "TIME_BASED"
	TypeCustom          Type = "CUSTOM"
)

func ValidateType(t Type) error {
	switch t {
	case TypeQuotaLimit, TypeAmountThreshold, TypeTimeBased, TypeCustom:
		return nil
	default:
		return errors.New("invalid policy type")
	}
}

// Violation is a user-correctable business-rule failure. It propagates to the
// submission caller unmutated and is never retried.
type Violation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (v *Violation) Error() string {
	return v.Message
}

// AsViolation unwraps a Violation from an error chain.
func AsViolation(err error) (*Violation, bool) {
	var v *Violation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// Policy is an ordered organizational rule gating document submission.
// A policy with no type/department/role scope applies universally.
type Policy struct {
	ID             int64           `json:"id"`
	PolicyID       uuid.UUID       `json:"policyId"`
	Name           string          `json:"name"`
	Type           Type            `json:"type"`
	DocumentTypeID *uuid.UUID      `json:"documentTypeId,omitempty"`
	DepartmentID   *uuid.UUID      `json:"departmentId,omitempty"`
	RoleID         *uuid.UUID      `json:"roleId,omitempty"`
	Rules          json.RawMessage `json:"rules"`
	Active         bool            `json:"active"`
	Priority       int             `json:"priority"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// IsApplicable checks the policy's scoping against the acting user and the
// document's type. Inapplicable policies pass silently.
func (p *Policy) IsApplicable(u *user.User, documentTypeID uuid.UUID) bool {
	if p.DocumentTypeID != nil && *p.DocumentTypeID != documentTypeID {
		return false
	}
	if p.DepartmentID != nil && (u.DepartmentID == nil || *p.DepartmentID != *u.DepartmentID) {
		return false
	}
	if p.RoleID != nil && (u.RoleID == nil || *p.RoleID != *u.RoleID) {
		return false
	}
	return true
}

// QuotaRules parameterizes QUOTA_LIMIT policies.
type QuotaRules struct {
	QuotaType         string `json:"quota_type,omitempty"`
	MaxDaysPerYear    int    `json:"max_days_per_year"`
	MaxDaysPerRequest int    `json:"max_days_per_request"`
}

// ThresholdRules parameterizes AMOUNT_THRESHOLD policies. The action is
// advisory: breaching the threshold never fails submission.
type ThresholdRules struct {
	Field     string  `json:"field,omitempty"`
	Threshold float64 `json:"threshold"`
	Action    string  `json:"action,omitempty"`
}

// TimeRules parameterizes TIME_BASED policies.
type TimeRules struct {
	Field         string `json:"field,omitempty"`
	MinNoticeDays int    `json:"min_notice_days"`
}

// CustomRules parameterizes CUSTOM policies. Expression, when present, is a
// govaluate expression evaluated against the flattened document payload by a
// registered evaluator; without one the policy passes.
type CustomRules struct {
	Expression string `json:"expression,omitempty"`
	Message    string `json:"message,omitempty"`
}

// DecodeQuotaRules parses quota rules with the historical defaults.
func (p *Policy) DecodeQuotaRules() QuotaRules {
	r := QuotaRules{MaxDaysPerYear: 12, MaxDaysPerRequest: 14}
	if len(p.Rules) > 0 {
		_ = json.Unmarshal(p.Rules, &r)
	}
	if r.MaxDaysPerYear <= 0 {
		r.MaxDaysPerYear = 12
	}
	if r.MaxDaysPerRequest <= 0 {
		r.MaxDaysPerRequest = 14
	}
	return r
}

// DecodeThresholdRules parses threshold rules, defaulting the field to
// "amount" and the action to require_extra_approval.
func (p *Policy) DecodeThresholdRules() ThresholdRules {
	r := ThresholdRules{}
	if len(p.Rules) > 0 {
		_ = json.Unmarshal(p.Rules, &r)
	}
	if r.Field == "" {
		r.Field = "amount"
	}
	if r.Action == "" {
		r.Action = "require_extra_approval"
	}
	return r
}

// DecodeTimeRules parses time rules, defaulting the field to "start_date" and
// the notice period to 3 days.
func (p *Policy) DecodeTimeRules() TimeRules {
	r := TimeRules{}
	if len(p.Rules) > 0 {
		_ = json.Unmarshal(p.Rules, &r)
	}
	if r.Field == "" {
		r.Field = "start_date"
	}
	if r.MinNoticeDays <= 0 {
		r.MinNoticeDays = 3
	}
	return r
}

// DecodeCustomRules parses custom rules.
func (p *Policy) DecodeCustomRules() CustomRules {
	r := CustomRules{}
	if len(p.Rules) > 0 {
		_ = json.Unmarshal(p.Rules, &r)
	}
	return r
}
