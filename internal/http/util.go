package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"addressbook/internal/repository"
	"addressbook/internal/service"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// redirect 302 to target, optionally carrying a status message across the
// redirect boundary via the swalMessage query parameter.
func redirect(w http.ResponseWriter, r *http.Request, target, swalMessage string) {
	if swalMessage != "" {
		target = target + "?swalMessage=" + url.QueryEscape(swalMessage)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// writeServiceError classifies a service/repository failure into the response.
// NotFound stays indistinguishable for missing and foreign-owned ids;
// validation re-renders; everything else is a generic 500.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, op string, err error, model any) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusOK, FailFields("validation failed", ve.Fields, model))
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	case errors.Is(err, repository.ErrConflict):
		writeJSON(w, http.StatusConflict, Fail("conflict"))
	default:
		logger.Error(op+" failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
	}
}

func getClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}

// pathID extracts the trailing id segment after prefix; empty when the path
// has extra segments or no id.
func pathID(path, prefix string) string {
	id := strings.TrimPrefix(path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}
