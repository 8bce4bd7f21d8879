package policy

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docflow/docflow/internal/domain/user"
)

func TestAsViolation(t *testing.T) {
	v := &Violation{Code: "QUOTA_EXCEEDED", Message: "insufficient quota"}
	assert.Equal(t, "insufficient quota", v.Error())

	got, ok := AsViolation(v)
	require.True(t, ok)
	assert.Equal(t, v, got)

	got, ok = AsViolation(fmt.Errorf("evaluating policy: %w", v))
	require.True(t, ok)
	assert.Equal(t, v, got)

	_, ok = AsViolation(fmt.Errorf("database down"))
	assert.False(t, ok)

	_, ok = AsViolation(nil)
	assert.False(t, ok)
}

func TestPolicy_IsApplicable(t *testing.T) {
	docTypeID := uuid.New()
	deptID := uuid.New()
	roleID := uuid.New()
	otherID := uuid.New()

	scoped := func(docType, dept, role *uuid.UUID) *Policy {
		return &Policy{DocumentTypeID: docType, DepartmentID: dept, RoleID: role}
	}
	u := &user.User{UserID: uuid.New(), DepartmentID: &deptID, RoleID: &roleID}

	tests := []struct {
		name       string
		policy     *Policy
		user       *user.User
		applicable bool
	}{
		{name: "unscoped applies to everyone", policy: scoped(nil, nil, nil), user: u, applicable: true},
		{name: "matching document type", policy: scoped(&docTypeID, nil, nil), user: u, applicable: true},
		{name: "other document type", policy: scoped(&otherID, nil, nil), user: u, applicable: false},
		{name: "matching department", policy: scoped(nil, &deptID, nil), user: u, applicable: true},
		{name: "other department", policy: scoped(nil, &otherID, nil), user: u, applicable: false},
		{name: "department scope against user without department", policy: scoped(nil, &deptID, nil), user: &user.User{UserID: uuid.New()}, applicable: false},
		{name: "matching role", policy: scoped(nil, nil, &roleID), user: u, applicable: true},
		{name: "other role", policy: scoped(nil, nil, &otherID), user: u, applicable: false},
		{name: "all scopes matching", policy: scoped(&docTypeID, &deptID, &roleID), user: u, applicable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.applicable, tt.policy.IsApplicable(tt.user, docTypeID))
		})
	}
}

func TestDecodeQuotaRules(t *testing.T) {
	p := &Policy{}
	r := p.DecodeQuotaRules()
	assert.Equal(t, 12, r.MaxDaysPerYear)
	assert.Equal(t, 14, r.MaxDaysPerRequest)

	p = &Policy{Rules: json.RawMessage(`{"max_days_per_year": 20, "max_days_per_request": 5}`)}
	r = p.DecodeQuotaRules()
	assert.Equal(t, 20, r.MaxDaysPerYear)
	assert.Equal(t, 5, r.MaxDaysPerRequest)

	p = &Policy{Rules: json.RawMessage(`{"max_days_per_year": -1}`)}
	r = p.DecodeQuotaRules()
	assert.Equal(t, 12, r.MaxDaysPerYear)
}

func TestDecodeThresholdRules(t *testing.T) {
	p := &Policy{}
	r := p.DecodeThresholdRules()
	assert.Equal(t, "amount", r.Field)
	assert.Equal(t, "require_extra_approval", r.Action)
	assert.Zero(t, r.Threshold)

	p = &Policy{Rules: json.RawMessage(`{"field": "total", "threshold": 1000, "action": "notify"}`)}
	r = p.DecodeThresholdRules()
	assert.Equal(t, "total", r.Field)
	assert.Equal(t, 1000.0, r.Threshold)
	assert.Equal(t, "notify", r.Action)
}

func TestDecodeTimeRules(t *testing.T) {
	p := &Policy{}
	r := p.DecodeTimeRules()
	assert.Equal(t, "start_date", r.Field)
	assert.Equal(t, 3, r.MinNoticeDays)

	p = &Policy{Rules: json.RawMessage(`{"field": "effective_date", "min_notice_days": 7}`)}
	r = p.DecodeTimeRules()
	assert.Equal(t, "effective_date", r.Field)
	assert.Equal(t, 7, r.MinNoticeDays)
}

func TestValidateType(t *testing.T) {
	for _, typ := range []Type{TypeQuotaLimit, TypeAmountThreshold, TypeTimeBased, TypeCustom} {
		assert.NoError(t, ValidateType(typ))
	}
	assert.Error(t, ValidateType(Type("WEATHER_BASED")))
}
