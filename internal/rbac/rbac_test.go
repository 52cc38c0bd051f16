package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilities(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) bool
		want map[string]bool
	}{
		{"CanViewLeads", CanViewLeads, map[string]bool{RoleAgent: true, RoleDeveloper: true, RoleAdmin: true}},
		{"CanCreateLeads", CanCreateLeads, map[string]bool{RoleAgent: true, RoleDeveloper: true, RoleAdmin: true}},
		{"CanEditLeads", CanEditLeads, map[string]bool{RoleAgent: false, RoleDeveloper: true, RoleAdmin: true}},
		{"CanDeleteLeads", CanDeleteLeads, map[string]bool{RoleAgent: false, RoleDeveloper: true, RoleAdmin: true}},
		{"CanCreateProject", CanCreateProject, map[string]bool{RoleAgent: false, RoleDeveloper: true, RoleAdmin: true}},
		{"CanEditProject", CanEditProject, map[string]bool{RoleAgent: false, RoleDeveloper: true, RoleAdmin: true}},
		{"CanDeleteProject", CanDeleteProject, map[string]bool{RoleAgent: false, RoleDeveloper: true, RoleAdmin: true}},
		{"CanManageUnits", CanManageUnits, map[string]bool{RoleAgent: false, RoleDeveloper: true, RoleAdmin: true}},
		{"CanViewAnalytics", CanViewAnalytics, map[string]bool{RoleAgent: false, RoleDeveloper: true, RoleAdmin: true}},
		{"CanAccessAdmin", CanAccessAdmin, map[string]bool{RoleAgent: false, RoleDeveloper: false, RoleAdmin: true}},
		{"CanManageUsers", CanManageUsers, map[string]bool{RoleAgent: false, RoleDeveloper: false, RoleAdmin: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for role, want := range tc.want {
				assert.Equal(t, want, tc.fn(role), "role %s", role)
			}
		})
	}
}

func TestCapabilitiesFailClosedForUnknownRoles(t *testing.T) {
	fns := []func(string) bool{
		CanViewLeads, CanCreateLeads, CanEditLeads, CanDeleteLeads,
		CanCreateProject, CanEditProject, CanDeleteProject,
		CanManageUnits, CanViewAnalytics, CanAccessAdmin, CanManageUsers,
	}
	for _, role := range []string{"", "superuser", "Agent", "ADMIN", "root"} {
		for i, fn := range fns {
			assert.False(t, fn(role), "predicate %d must fail closed for %q", i, role)
		}
	}
}

func TestBasePath(t *testing.T) {
	assert.Equal(t, "/mobile/agent", BasePath(RoleAgent))
	assert.Equal(t, "/mobile/dev", BasePath(RoleDeveloper))
	assert.Equal(t, "/mobile/admin", BasePath(RoleAdmin))

	// Unknown roles fall back to the agent path.
	assert.Equal(t, "/mobile/agent", BasePath(""))
	assert.Equal(t, "/mobile/agent", BasePath("superuser"))
}
