package httpapi

import (
	"net/http"

	"addressbook/internal/service"

	"go.uber.org/zap"
)

// Router built on the standard library http.ServeMux.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler accepts an http.Handler (subtree handlers, pprof).
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterAuthRoutes public auth surface; /me needs a live session.
func (r *Router) RegisterAuthRoutes(auth service.AuthService, h *AuthHandler) {
	r.Handle("/auth/api/v1/login", h.Login)
	r.Handle("/auth/api/v1/logout", h.Logout)
	r.Handle("/auth/api/v1/me", RequireSession(auth, r.logger, h.Me))
}

// RegisterContactRoutes the whole /contacts subtree behind the session check.
func (r *Router) RegisterContactRoutes(auth service.AuthService, h *ContactsHandler) {
	protected := RequireSession(auth, r.logger, h.ServeHTTP)
	r.Handle("/contacts", protected)
	r.Handle("/contacts/", protected)
}

// RegisterCategoryRoutes the whole /categories subtree behind the session check.
func (r *Router) RegisterCategoryRoutes(auth service.AuthService, h *CategoriesHandler) {
	protected := RequireSession(auth, r.logger, h.ServeHTTP)
	r.Handle("/categories", protected)
	r.Handle("/categories/", protected)
}

// RegisterHealthRoutes liveness probe, unauthenticated.
func (r *Router) RegisterHealthRoutes() {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
	})
}
