// Package rbac maps a role string to capability checks and navigation paths.
// Pure functions, no state. Unknown roles get no elevated capabilities.
package rbac

const (
	RoleAgent     = "agent"
	RoleDeveloper = "developer"
	RoleAdmin     = "admin"
)

func known(role string) bool {
	return role == RoleAgent || role == RoleDeveloper || role == RoleAdmin
}

func elevated(role string) bool {
	return role == RoleDeveloper || role == RoleAdmin
}

// Every role, including agents, can see and capture leads.
func CanViewLeads(role string) bool   { return known(role) }
func CanCreateLeads(role string) bool { return known(role) }

func CanEditLeads(role string) bool   { return elevated(role) }
func CanDeleteLeads(role string) bool { return elevated(role) }

func CanCreateProject(role string) bool { return elevated(role) }
func CanEditProject(role string) bool   { return elevated(role) }
func CanDeleteProject(role string) bool { return elevated(role) }
func CanManageUnits(role string) bool   { return elevated(role) }
func CanViewAnalytics(role string) bool { return elevated(role) }

func CanAccessAdmin(role string) bool { return role == RoleAdmin }
func CanManageUsers(role string) bool { return role == RoleAdmin }

// BasePath returns the navigation root for a role. Unlike the capability
// checks above, an unrecognized role falls back to the agent path; the mobile
// clients rely on always getting a usable route.
func BasePath(role string) string {
	switch role {
	case RoleDeveloper:
		return "/mobile/dev"
	case RoleAdmin:
		return "/mobile/admin"
	default:
		return "/mobile/agent"
	}
}
