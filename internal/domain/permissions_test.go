package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestCanWriteMatrix(t *testing.T) {
	tests := []struct {
		role  domain.Role
		field domain.ComplaintField
		want  bool
	}{
		{domain.RoleAdmin, domain.FieldStatus, true},
		{domain.RoleAdmin, domain.FieldPriority, true},
		{domain.RoleAdmin, domain.FieldAssignedTo, true},
		{domain.RoleAdmin, domain.FieldTitle, false},
		{domain.RoleAdmin, domain.FieldDescription, false},
		{domain.RoleSupportStaff, domain.FieldStatus, true},
		{domain.RoleSupportStaff, domain.FieldPriority, true},
		{domain.RoleSupportStaff, domain.FieldAssignedTo, false},
		{domain.RoleSupportStaff, domain.FieldTitle, false},
		{domain.RoleUser, domain.FieldTitle, true},
		{domain.RoleUser, domain.FieldDescription, true},
		{domain.RoleUser, domain.FieldStatus, true},
		{domain.RoleUser, domain.FieldPriority, false},
		{domain.RoleUser, domain.FieldAssignedTo, false},
		{domain.Role("ghost"), domain.FieldStatus, false},
	}
	for _, tc := range tests {
		got := domain.CanWrite(tc.role, tc.field)
		assert.Equalf(t, tc.want, got, "CanWrite(%s, %s)", tc.role, tc.field)
	}
}

func TestCanReadProjections(t *testing.T) {
	assert.True(t, domain.CanRead(domain.RoleAdmin, domain.FieldAssignedTo))
	assert.True(t, domain.CanRead(domain.RoleSupportStaff, domain.FieldPriority))
	assert.False(t, domain.CanRead(domain.RoleSupportStaff, domain.FieldAssignedTo))
	assert.False(t, domain.CanRead(domain.RoleUser, domain.FieldPriority))
	assert.False(t, domain.CanRead(domain.RoleUser, domain.FieldAssignedTo))
	assert.True(t, domain.CanRead(domain.RoleUser, domain.FieldTitle))
	assert.False(t, domain.CanRead(domain.Role("ghost"), domain.FieldTitle))
}

func TestRoleCanAccess(t *testing.T) {
	staffID := "staff-1"
	c := &domain.Complaint{CreatedBy: "user-1", AssignedTo: &staffID}
	unassigned := &domain.Complaint{CreatedBy: "user-1"}

	assert.True(t, domain.RoleCanAccess(domain.RoleAdmin, "anyone", c))
	assert.True(t, domain.RoleCanAccess(domain.RoleSupportStaff, "staff-1", c))
	assert.False(t, domain.RoleCanAccess(domain.RoleSupportStaff, "staff-2", c))
	assert.False(t, domain.RoleCanAccess(domain.RoleSupportStaff, "staff-1", unassigned))
	assert.True(t, domain.RoleCanAccess(domain.RoleUser, "user-1", c))
	assert.False(t, domain.RoleCanAccess(domain.RoleUser, "user-2", c))
	assert.False(t, domain.RoleCanAccess(domain.Role("ghost"), "user-1", c))
}

func TestValidStatusAndPriority(t *testing.T) {
	for _, s := range []domain.ComplaintStatus{
		domain.ComplaintStatusOpen,
		domain.ComplaintStatusAssigned,
		domain.ComplaintStatusInProgress,
		domain.ComplaintStatusResolved,
		domain.ComplaintStatusClosed,
	} {
		assert.Truef(t, domain.ValidStatus(s), "status %s", s)
	}
	assert.False(t, domain.ValidStatus("pending"))
	assert.False(t, domain.ValidStatus("Open"))

	for _, p := range []domain.ComplaintPriority{
		domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh, domain.PriorityCritical,
	} {
		assert.Truef(t, domain.ValidPriority(p), "priority %s", p)
	}
	assert.False(t, domain.ValidPriority("urgent"))
}

func TestFeedbackEligible(t *testing.T) {
	eligible := map[domain.ComplaintStatus]bool{
		domain.ComplaintStatusOpen:       false,
		domain.ComplaintStatusAssigned:   false,
		domain.ComplaintStatusInProgress: false,
		domain.ComplaintStatusResolved:   true,
		domain.ComplaintStatusClosed:     true,
	}
	for status, want := range eligible {
		c := &domain.Complaint{Status: status}
		assert.Equalf(t, want, c.FeedbackEligible(), "status %s", status)
	}
}
