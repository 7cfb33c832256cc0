package rbac

// Role names. Keep these stable; they are part of auth/RBAC contracts.
const (
	RoleOwner        = "owner"
	RoleAdmin        = "admin"
	RoleSalesManager = "sales_manager"
	RoleSalesAgent   = "sales_agent"
	RoleSuperAdmin   = "super_admin" // platform operator, hidden from tenants
)

// Routers may trigger or preview routing and read team workload.
var Routers = []string{RoleOwner, RoleAdmin, RoleSalesManager}

func IsSuperAdmin(role string) bool { return role == RoleSuperAdmin }
