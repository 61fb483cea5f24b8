package api

const (
	HealthCheckRoute = "/healthz"
	AboutRoute       = "/about"

	RegisterRoute = "/api/auth/register"
	LoginRoute    = "/api/auth/login"

	ProtectedRoute = "/protected"

	AdminParent     = "/v1/admin/"
	ListAuditsRoute = AdminParent + "audit"
)
