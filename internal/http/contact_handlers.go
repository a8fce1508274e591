package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"addressbook/internal/domain"
	"addressbook/internal/service"

	"go.uber.org/zap"
)

// ContactsHandler contact management.
type ContactsHandler struct {
	contactService service.ContactService
	emailService   service.EmailService
	logger         *zap.Logger
}

// NewContactsHandler creates the contacts Handler.
func NewContactsHandler(contactService service.ContactService, emailService service.EmailService, logger *zap.Logger) *ContactsHandler {
	return &ContactsHandler{
		contactService: contactService,
		emailService:   emailService,
		logger:         logger,
	}
}

// ServeHTTP implements http.Handler.
func (h *ContactsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/contacts" && r.Method == http.MethodGet:
		h.Index(w, r)
	case path == "/contacts/search" && r.Method == http.MethodGet:
		h.Search(w, r)
	case path == "/contacts/export" && r.Method == http.MethodGet:
		h.Export(w, r)
	case path == "/contacts/create" && r.Method == http.MethodGet:
		h.CreateForm(w, r)
	case path == "/contacts/create" && r.Method == http.MethodPost:
		h.Create(w, r)
	case strings.HasPrefix(path, "/contacts/detail/") && r.Method == http.MethodGet:
		h.Details(w, r, pathID(path, "/contacts/detail/"))
	case strings.HasPrefix(path, "/contacts/edit/") && r.Method == http.MethodGet:
		h.EditForm(w, r, pathID(path, "/contacts/edit/"))
	case strings.HasPrefix(path, "/contacts/edit/") && r.Method == http.MethodPost:
		h.Edit(w, r, pathID(path, "/contacts/edit/"))
	case strings.HasPrefix(path, "/contacts/delete/") && r.Method == http.MethodGet:
		h.DeleteForm(w, r, pathID(path, "/contacts/delete/"))
	case strings.HasPrefix(path, "/contacts/delete/") && r.Method == http.MethodPost:
		h.Delete(w, r, pathID(path, "/contacts/delete/"))
	case strings.HasPrefix(path, "/contacts/email-contact/") && r.Method == http.MethodGet:
		h.EmailForm(w, r, pathID(path, "/contacts/email-contact/"))
	case strings.HasPrefix(path, "/contacts/email-contact/") && r.Method == http.MethodPost:
		h.EmailSend(w, r, pathID(path, "/contacts/email-contact/"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// Index contact list, optionally filtered to one category's members. The
// swalMessage query parameter is echoed back so a status set before a
// redirect survives it.
func (h *ContactsHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	req := service.ListContactsRequest{
		AppUserID:  appUserID,
		CategoryID: r.URL.Query().Get("categoryId"),
	}
	resp, err := h.contactService.ListContacts(ctx, req)
	if err != nil {
		writeServiceError(w, h.logger, "ListContacts", err, nil)
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"contacts":    contactViews(resp.Contacts),
		"categories":  categoryViews(resp.Categories),
		"swalMessage": r.URL.Query().Get("swalMessage"),
	}))
}

// Search full-name substring search; empty searchString equals the list view.
func (h *ContactsHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	contacts, err := h.contactService.SearchContacts(ctx, appUserID, r.URL.Query().Get("searchString"))
	if err != nil {
		writeServiceError(w, h.logger, "SearchContacts", err, nil)
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"contacts": contactViews(contacts),
	}))
}

// Export XLSX download of the caller's contacts.
func (h *ContactsHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	data, err := h.contactService.ExportContacts(ctx, appUserID)
	if err != nil {
		writeServiceError(w, h.logger, "ExportContacts", err, nil)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="contacts.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// CreateForm create-form view model: category and state options.
func (h *ContactsHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	opts, err := h.contactService.ContactFormOptions(ctx, appUserID)
	if err != nil {
		writeServiceError(w, h.logger, "ContactFormOptions", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, Ok(opts))
}

// Create inserts a contact from the submitted form and redirects to the list.
func (h *ContactsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	input, err := parseContactForm(r)
	if err != nil {
		writeServiceError(w, h.logger, "ParseContactForm", err, nil)
		return
	}
	if !checkCSRF(w, r) {
		return
	}

	if _, err := h.contactService.CreateContact(ctx, appUserID, input); err != nil {
		writeServiceError(w, h.logger, "CreateContact", err, input)
		return
	}
	redirect(w, r, "/contacts", "")
}

// Details owner-scoped detail view; a foreign id is a plain 404.
func (h *ContactsHandler) Details(w http.ResponseWriter, r *http.Request, contactID string) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	contact, err := h.contactService.GetContact(ctx, appUserID, contactID)
	if err != nil {
		writeServiceError(w, h.logger, "GetContact", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, Ok(contactView(contact)))
}

// EditForm edit-form view model: the contact plus form options.
func (h *ContactsHandler) EditForm(w http.ResponseWriter, r *http.Request, contactID string) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	contact, err := h.contactService.GetContact(ctx, appUserID, contactID)
	if err != nil {
		writeServiceError(w, h.logger, "GetContact", err, nil)
		return
	}
	opts, err := h.contactService.ContactFormOptions(ctx, appUserID)
	if err != nil {
		writeServiceError(w, h.logger, "ContactFormOptions", err, nil)
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"contact":    contactView(contact),
		"categories": categoryViews(opts.Categories),
		"states":     opts.States,
	}))
}

// Edit rewrites the contact. A payload id that disagrees with the path id is
// NotFound; a concurrently deleted row is NotFound too, never silent success.
func (h *ContactsHandler) Edit(w http.ResponseWriter, r *http.Request, contactID string) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	input, err := parseContactForm(r)
	if err != nil {
		writeServiceError(w, h.logger, "ParseContactForm", err, nil)
		return
	}
	if !checkCSRF(w, r) {
		return
	}

	if formID := r.PostFormValue("contact_id"); formID != "" && formID != contactID {
		writeJSON(w, http.StatusNotFound, Fail("not found"))
		return
	}

	if err := h.contactService.UpdateContact(ctx, appUserID, contactID, input); err != nil {
		writeServiceError(w, h.logger, "UpdateContact", err, input)
		return
	}
	redirect(w, r, "/contacts", "")
}

// DeleteForm confirm view; still owner-scoped.
func (h *ContactsHandler) DeleteForm(w http.ResponseWriter, r *http.Request, contactID string) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	contact, err := h.contactService.GetContact(ctx, appUserID, contactID)
	if err != nil {
		writeServiceError(w, h.logger, "GetContact", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, Ok(contactView(contact)))
}

// Delete idempotent: a missing id takes the same redirect as a real delete.
func (h *ContactsHandler) Delete(w http.ResponseWriter, r *http.Request, contactID string) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid form"))
		return
	}
	if !checkCSRF(w, r) {
		return
	}

	if err := h.contactService.DeleteContact(ctx, appUserID, contactID); err != nil {
		writeServiceError(w, h.logger, "DeleteContact", err, nil)
		return
	}
	redirect(w, r, "/contacts", "")
}

// EmailForm prefilled single-contact message.
func (h *ContactsHandler) EmailForm(w http.ResponseWriter, r *http.Request, contactID string) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	msg, err := h.emailService.PrepareContactMessage(ctx, appUserID, contactID)
	if err != nil {
		writeServiceError(w, h.logger, "PrepareContactMessage", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, Ok(msg))
}

// EmailSend dispatches the message; success and transport failure both come
// back as a redirect carrying the status message.
func (h *ContactsHandler) EmailSend(w http.ResponseWriter, r *http.Request, contactID string) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid form"))
		return
	}
	if !checkCSRF(w, r) {
		return
	}

	// Recipient comes from the stored contact, not the form: the form only
	// supplies subject and body.
	contact, err := h.contactService.GetContact(ctx, appUserID, contactID)
	if err != nil {
		writeServiceError(w, h.logger, "GetContact", err, nil)
		return
	}

	msg := &domain.EmailMessage{
		Recipients: contact.Email,
		FirstName:  contact.FirstName,
		LastName:   contact.LastName,
		Subject:    r.PostFormValue("email_subject"),
		Body:       r.PostFormValue("email_body"),
	}

	swal, err := h.emailService.Send(ctx, msg)
	if err != nil {
		writeServiceError(w, h.logger, "SendEmail", err, msg)
		return
	}
	redirect(w, r, "/contacts", swal)
}

// parseContactForm binds only the allow-listed contact fields; ownership and
// timestamps never come from the request.
func parseContactForm(r *http.Request) (service.ContactInput, error) {
	var input service.ContactInput

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(service.MaxImageBytes + 1<<20); err != nil {
			return input, fmt.Errorf("failed to parse multipart form: %w", err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return input, fmt.Errorf("failed to parse form: %w", err)
		}
	}

	input = service.ContactInput{
		FirstName:   r.PostFormValue("first_name"),
		LastName:    r.PostFormValue("last_name"),
		DateOfBirth: r.PostFormValue("date_of_birth"),
		Address1:    r.PostFormValue("address1"),
		Address2:    r.PostFormValue("address2"),
		City:        r.PostFormValue("city"),
		State:       r.PostFormValue("state"),
		ZipCode:     r.PostFormValue("zip_code"),
		Email:       r.PostFormValue("email"),
		PhoneNumber: r.PostFormValue("phone_number"),
		CategoryIDs: r.PostForm["selected"],
	}

	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["image"]; len(files) > 0 {
			img, err := service.ImageFromUpload(files[0])
			if err != nil {
				return input, err
			}
			input.Image = img
		}
	}

	return input, nil
}
