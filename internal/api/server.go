package api

import (
	"net/http"

	"github.com/gatehouse-auth/gatehouse/internal/api/middleware"
	"github.com/gatehouse-auth/gatehouse/internal/audit"
	"github.com/gatehouse-auth/gatehouse/internal/core"
	"github.com/gatehouse-auth/gatehouse/internal/policy"
	"github.com/gatehouse-auth/gatehouse/internal/service"
	"github.com/gatehouse-auth/gatehouse/internal/strategies"
)

type Server struct {
	authService   *service.AuthService
	dispatcher    *strategies.Dispatcher
	engine        *policy.Engine
	auditor       core.Auditor
	adminSubjects []string
}

func NewServer(
	authService *service.AuthService,
	dispatcher *strategies.Dispatcher,
	engine *policy.Engine,
	auditor core.Auditor,
	adminSubjects []string,
) *Server {
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}

	return &Server{
		authService:   authService,
		dispatcher:    dispatcher,
		engine:        engine,
		auditor:       auditor,
		adminSubjects: adminSubjects,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)
	mux.HandleFunc("POST "+RegisterRoute, s.handleRegister)
	mux.HandleFunc("POST "+LoginRoute, s.handleLogin)

	authGate := middleware.Auth(s.dispatcher, s.engine, s.auditor)

	// protected routes
	mux.Handle("GET "+ProtectedRoute, authGate(http.HandlerFunc(s.handleProtected)))

	// admin routes
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET "+ListAuditsRoute, s.handleAdminAudit)
	mux.Handle(AdminParent,
		authGate(middleware.RequireSubjects(s.adminSubjects)(adminMux)))

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				mux)))
}
