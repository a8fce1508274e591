package httpapi

import (
	"net/http"
	"strings"
	"time"

	"addressbook/internal/service"

	"go.uber.org/zap"
)

// AuthHandler login, logout and session introspection.
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates the auth Handler.
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /auth/api/v1/login
// Accepts JSON or form credentials. On success the session token is set as an
// HttpOnly cookie and also returned in the body for API clients.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body loginBody
	contentType := r.Header.Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "application/json") {
		if err := readBodyJSON(r, 1<<20, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
			return
		}
	}
	if body.Email == "" {
		if err := r.ParseForm(); err == nil {
			body.Email = r.PostFormValue("email")
			body.Password = r.PostFormValue("password")
		}
	}

	resp, err := h.authService.Login(r.Context(), service.LoginRequest{
		Email:     body.Email,
		Password:  body.Password,
		IPAddress: getClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, Fail("invalid credentials"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    resp.Token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, Ok(resp))
}

// Logout POST /auth/api/v1/logout
// Drops the server-side session and expires the cookie. Always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := h.authService.Logout(r.Context(), sessionToken(r)); err != nil {
		h.logger.Warn("Logout failed to drop session", zap.Error(err))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, Ok(struct{}{}))
}

// Me GET /auth/api/v1/me
// Identity of the current session; mounted behind RequireSession.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"user_id":    UserIDFromContext(r.Context()),
		"csrf_token": csrfFromContext(r.Context()),
	}))
}
