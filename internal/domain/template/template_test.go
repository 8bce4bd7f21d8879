package template

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/docflow/docflow/internal/domain/document"
)

func payloadDocument(payload string) *document.Document {
	return &document.Document{Data: json.RawMessage(payload)}
}

func TestRule_Matches(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		payload string
		matches bool
	}{
		{name: "greater true", rule: Rule{Field: "days", Operator: OpGreater, Value: 5.0}, payload: `{"days": 8}`, matches: true},
		{name: "greater false", rule: Rule{Field: "days", Operator: OpGreater, Value: 5.0}, payload: `{"days": 3}`, matches: false},
		{name: "greater equal boundary", rule: Rule{Field: "days", Operator: OpGreaterEqual, Value: 5.0}, payload: `{"days": 5}`, matches: true},
		{name: "less true", rule: Rule{Field: "days", Operator: OpLess, Value: 5.0}, payload: `{"days": 3}`, matches: true},
		{name: "less equal boundary", rule: Rule{Field: "days", Operator: OpLessEqual, Value: 5.0}, payload: `{"days": 5}`, matches: true},
		{name: "int value compares against json number", rule: Rule{Field: "days", Operator: OpGreater, Value: 5}, payload: `{"days": 8}`, matches: true},
		{name: "equal numbers", rule: Rule{Field: "amount", Operator: OpEqual, Value: 100.0}, payload: `{"amount": 100}`, matches: true},
		{name: "equal strings", rule: Rule{Field: "category", Operator: OpEqual, Value: "travel"}, payload: `{"category": "travel"}`, matches: true},
		{name: "not equal", rule: Rule{Field: "category", Operator: OpNotEqual, Value: "travel"}, payload: `{"category": "office"}`, matches: true},
		{name: "missing field never compares", rule: Rule{Field: "missing", Operator: OpGreater, Value: 0.0}, payload: `{"days": 8}`, matches: false},
		{name: "missing field not equal", rule: Rule{Field: "missing", Operator: OpNotEqual, Value: "x"}, payload: `{}`, matches: true},
		{name: "string field in numeric comparison", rule: Rule{Field: "category", Operator: OpGreater, Value: 5.0}, payload: `{"category": "travel"}`, matches: false},
		{name: "unknown operator", rule: Rule{Field: "days", Operator: Operator("~"), Value: 5.0}, payload: `{"days": 8}`, matches: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, tt.rule.Matches(payloadDocument(tt.payload)))
		})
	}
}

func TestApprovalTemplate_IsApplicable(t *testing.T) {
	doc := payloadDocument(`{"days": 8}`)

	unconditional := &ApprovalTemplate{}
	assert.True(t, unconditional.IsApplicable(doc))

	matching := &ApprovalTemplate{Condition: &Rule{Field: "days", Operator: OpGreater, Value: 5.0}}
	assert.True(t, matching.IsApplicable(doc))

	failing := &ApprovalTemplate{Condition: &Rule{Field: "days", Operator: OpGreater, Value: 10.0}}
	assert.False(t, failing.IsApplicable(doc))
}

func TestStep_Validate(t *testing.T) {
	roleID := uuid.New()
	userID := uuid.New()
	negativeSLA := -1

	tests := []struct {
		name    string
		step    Step
		wantErr bool
	}{
		{name: "valid role step", step: Step{Sequence: 1, StepName: "Manager", ApproverType: ApproverRole, RoleID: &roleID}},
		{name: "valid specific user step", step: Step{Sequence: 1, StepName: "HR", ApproverType: ApproverSpecificUser, UserID: &userID}},
		{name: "valid dynamic step", step: Step{Sequence: 1, StepName: "Manager", ApproverType: ApproverDynamic}},
		{name: "zero sequence", step: Step{Sequence: 0, StepName: "Manager", ApproverType: ApproverDynamic}, wantErr: true},
		{name: "missing name", step: Step{Sequence: 1, ApproverType: ApproverDynamic}, wantErr: true},
		{name: "bad approver type", step: Step{Sequence: 1, StepName: "X", ApproverType: ApproverType("NOBODY")}, wantErr: true},
		{name: "role step without role", step: Step{Sequence: 1, StepName: "Manager", ApproverType: ApproverRole}, wantErr: true},
		{name: "specific user step without user", step: Step{Sequence: 1, StepName: "HR", ApproverType: ApproverSpecificUser}, wantErr: true},
		{name: "non-positive sla", step: Step{Sequence: 1, StepName: "Manager", ApproverType: ApproverDynamic, SLAHours: &negativeSLA}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.step.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSteps(t *testing.T) {
	assert.NoError(t, ValidateSteps([]*Step{
		{Sequence: 1, StepName: "Manager", ApproverType: ApproverDynamic},
		{Sequence: 2, StepName: "Director", ApproverType: ApproverDynamic},
	}))

	assert.Error(t, ValidateSteps([]*Step{
		{Sequence: 1, StepName: "Manager", ApproverType: ApproverDynamic},
		{Sequence: 1, StepName: "Director", ApproverType: ApproverDynamic},
	}))

	assert.NoError(t, ValidateSteps(nil))
}
