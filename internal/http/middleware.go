package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"addressbook/internal/service"

	"go.uber.org/zap"
)

// SessionCookie session token cookie name.
const SessionCookie = "ab_session"

type ctxKey int

const (
	ctxKeyUserID ctxKey = iota
	ctxKeyCSRF
)

// UserIDFromContext resolved user id for the request; empty outside the
// session middleware.
func UserIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyUserID).(string)
	return v
}

func csrfFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyCSRF).(string)
	return v
}

// sessionToken cookie first, Authorization: Bearer as the API fallback.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// RequireSession resolves the session and places the user id in the request
// context. Every protected handler downstream receives the scoping key
// explicitly from here, never from ambient state.
func RequireSession(auth service.AuthService, logger *zap.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		session, err := auth.ResolveSession(r.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrInvalidSession) {
				writeJSON(w, http.StatusUnauthorized, Fail("authentication required"))
				return
			}
			logger.Error("Session resolution failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUserID, session.UserID)
		ctx = context.WithValue(ctx, ctxKeyCSRF, session.CSRFToken)
		next(w, r.WithContext(ctx))
	}
}

// checkCSRF anti-forgery token check for mutating routes: the session's token
// must arrive in the X-CSRF-Token header or the csrf_token form field.
func checkCSRF(w http.ResponseWriter, r *http.Request) bool {
	want := csrfFromContext(r.Context())
	got := r.Header.Get("X-CSRF-Token")
	if got == "" {
		got = r.PostFormValue("csrf_token")
	}
	if want == "" || got != want {
		writeJSON(w, http.StatusForbidden, Fail("invalid csrf token"))
		return false
	}
	return true
}
