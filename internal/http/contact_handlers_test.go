package httpapi

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestRouter(contacts *fakeContactService, categories *fakeCategoryService, email *fakeEmailService) *Router {
	logger := zap.NewNop()
	auth := newFakeAuthService()
	router := NewRouter(logger)
	router.RegisterHealthRoutes()
	router.RegisterAuthRoutes(auth, NewAuthHandler(auth, logger))
	router.RegisterContactRoutes(auth, NewContactsHandler(contacts, email, logger))
	router.RegisterCategoryRoutes(auth, NewCategoriesHandler(categories, email, logger))
	return router
}

func authedRequest(method, target string, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: testToken})
	return req
}

func TestContactsIndex_RequiresSession(t *testing.T) {
	router := newTestRouter(newFakeContactService(), newFakeCategoryService(), &fakeEmailService{})

	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", w.Code)
	}
}

func TestContactsIndex_EchoesSwalMessage(t *testing.T) {
	contacts := newFakeContactService()
	contacts.add("c1", testUserID, "John", "Smith", "john@example.com")
	router := newTestRouter(contacts, newFakeCategoryService(), &fakeEmailService{})

	req := authedRequest(http.MethodGet, "/contacts?swalMessage="+url.QueryEscape("Success: Email Sent!"), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"code":2000`) {
		t.Fatalf("expected wrapper code=2000, got: %s", body)
	}
	if !strings.Contains(body, "Success: Email Sent!") {
		t.Fatalf("expected swalMessage echoed, got: %s", body)
	}
	if !strings.Contains(body, "John Smith") {
		t.Fatalf("expected contact in list, got: %s", body)
	}
}

func TestContactsSearch_FiltersByQuery(t *testing.T) {
	contacts := newFakeContactService()
	contacts.add("c1", testUserID, "John", "Smith", "john@example.com")
	contacts.add("c2", testUserID, "Jane", "Jones", "jane@example.com")
	router := newTestRouter(contacts, newFakeCategoryService(), &fakeEmailService{})

	req := authedRequest(http.MethodGet, "/contacts/search?searchString=smith", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "John") || strings.Contains(body, "Jane") {
		t.Fatalf("expected only the matching contact, got: %s", body)
	}
}

func TestContactDetails_ForeignContactIs404(t *testing.T) {
	contacts := newFakeContactService()
	contacts.add("c1", foreignUserID, "Other", "Person", "other@example.com")
	router := newTestRouter(contacts, newFakeCategoryService(), &fakeEmailService{})

	req := authedRequest(http.MethodGet, "/contacts/detail/c1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign contact, got %d", w.Code)
	}
}

func TestContactCreate_RejectsMissingCSRF(t *testing.T) {
	contacts := newFakeContactService()
	router := newTestRouter(contacts, newFakeCategoryService(), &fakeEmailService{})

	form := url.Values{"first_name": {"John"}, "last_name": {"Smith"}, "email": {"john@example.com"}}
	req := authedRequest(http.MethodPost, "/contacts/create", form)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf token, got %d", w.Code)
	}
	if len(contacts.contacts) != 0 {
		t.Fatalf("expected no contact created")
	}
}

func TestContactCreate_RedirectsToList(t *testing.T) {
	contacts := newFakeContactService()
	router := newTestRouter(contacts, newFakeCategoryService(), &fakeEmailService{})

	form := url.Values{
		"first_name": {"John"},
		"last_name":  {"Smith"},
		"email":      {"john@example.com"},
		"csrf_token": {testCSRF},
	}
	req := authedRequest(http.MethodPost, "/contacts/create", form)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/contacts" {
		t.Fatalf("expected redirect to /contacts, got %q", loc)
	}
	if len(contacts.contacts) != 1 {
		t.Fatalf("expected contact created")
	}
}

func TestContactEdit_PayloadIDMismatchIs404(t *testing.T) {
	contacts := newFakeContactService()
	contacts.add("c1", testUserID, "John", "Smith", "john@example.com")
	router := newTestRouter(contacts, newFakeCategoryService(), &fakeEmailService{})

	form := url.Values{
		"contact_id": {"c2"}, // disagrees with the path
		"first_name": {"John"},
		"last_name":  {"Smith"},
		"email":      {"john@example.com"},
		"csrf_token": {testCSRF},
	}
	req := authedRequest(http.MethodPost, "/contacts/edit/c1", form)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on id mismatch, got %d", w.Code)
	}
	if contacts.contacts["c1"].FirstName != "John" {
		t.Fatalf("expected contact unchanged")
	}
}

func TestContactDelete_MissingIDStillRedirects(t *testing.T) {
	contacts := newFakeContactService()
	router := newTestRouter(contacts, newFakeCategoryService(), &fakeEmailService{})

	form := url.Values{"csrf_token": {testCSRF}}
	req := authedRequest(http.MethodPost, "/contacts/delete/no-such-id", form)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302 for idempotent delete, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/contacts" {
		t.Fatalf("expected redirect to /contacts, got %q", loc)
	}
}

func TestContactEmailSend_CarriesStatusAcrossRedirect(t *testing.T) {
	contacts := newFakeContactService()
	contacts.add("c1", testUserID, "John", "Smith", "john@example.com")
	email := &fakeEmailService{}
	router := newTestRouter(contacts, newFakeCategoryService(), email)

	form := url.Values{
		"email_subject": {"Hello"},
		"email_body":    {"Hi John"},
		"csrf_token":    {testCSRF},
	}
	req := authedRequest(http.MethodPost, "/contacts/email-contact/c1", form)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}
	loc := w.Header().Get("Location")
	if !strings.HasPrefix(loc, "/contacts?swalMessage=") {
		t.Fatalf("expected swalMessage on redirect, got %q", loc)
	}
	if !strings.Contains(loc, url.QueryEscape("Success: Email Sent!")) {
		t.Fatalf("expected success status, got %q", loc)
	}
	if len(email.sent) != 1 || email.sent[0].Recipients != "john@example.com" {
		t.Fatalf("expected one message to the stored contact address")
	}
}

func TestContactEmailSend_FailureStatus(t *testing.T) {
	contacts := newFakeContactService()
	contacts.add("c1", testUserID, "John", "Smith", "john@example.com")
	email := &fakeEmailService{failNext: true}
	router := newTestRouter(contacts, newFakeCategoryService(), email)

	form := url.Values{
		"email_subject": {"Hello"},
		"email_body":    {"Hi"},
		"csrf_token":    {testCSRF},
	}
	req := authedRequest(http.MethodPost, "/contacts/email-contact/c1", form)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Location"), url.QueryEscape("Error: Email Failed to Send.")) {
		t.Fatalf("expected failure status, got %q", w.Header().Get("Location"))
	}
}

func TestContactExport_SetsDownloadHeaders(t *testing.T) {
	router := newTestRouter(newFakeContactService(), newFakeCategoryService(), &fakeEmailService{})

	req := authedRequest(http.MethodGet, "/contacts/export", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "contacts.xlsx") {
		t.Fatalf("unexpected disposition %q", cd)
	}
}
