package httpapi

import (
	"net/http"
	"strings"

	"addressbook/internal/service"

	"go.uber.org/zap"
)

// CategoriesHandler category management, mirroring ContactsHandler.
type CategoriesHandler struct {
	categoryService service.CategoryService
	emailService    service.EmailService
	logger          *zap.Logger
}

// NewCategoriesHandler creates the categories Handler.
func NewCategoriesHandler(categoryService service.CategoryService, emailService service.EmailService, logger *zap.Logger) *CategoriesHandler {
	return &CategoriesHandler{
		categoryService: categoryService,
		emailService:    emailService,
		logger:          logger,
	}
}

// ServeHTTP implements http.Handler.
func (h *CategoriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/categories" && r.Method == http.MethodGet:
		h.Index(w, r)
	case path == "/categories/create" && r.Method == http.MethodGet:
		h.CreateForm(w, r)
	case path == "/categories/create" && r.Method == http.MethodPost:
		h.Create(w, r)
	case strings.HasPrefix(path, "/categories/detail/") && r.Method == http.MethodGet:
		h.Details(w, r, pathID(path, "/categories/detail/"))
	case strings.HasPrefix(path, "/categories/edit/") && r.Method == http.MethodGet:
		h.EditForm(w, r, pathID(path, "/categories/edit/"))
	case strings.HasPrefix(path, "/categories/edit/") && r.Method == http.MethodPost:
		h.Edit(w, r, pathID(path, "/categories/edit/"))
	case strings.HasPrefix(path, "/categories/delete/") && r.Method == http.MethodGet:
		h.DeleteForm(w, r, pathID(path, "/categories/delete/"))
	case strings.HasPrefix(path, "/categories/delete/") && r.Method == http.MethodPost:
		h.Delete(w, r, pathID(path, "/categories/delete/"))
	case strings.HasPrefix(path, "/categories/email-category/") && r.Method == http.MethodGet:
		h.EmailForm(w, r, pathID(path, "/categories/email-category/"))
	case strings.HasPrefix(path, "/categories/email-category/") && r.Method == http.MethodPost:
		h.EmailSend(w, r, pathID(path, "/categories/email-category/"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// Index caller's categories, name-ordered.
func (h *CategoriesHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	categories, err := h.categoryService.ListCategories(ctx, appUserID)
	if err != nil {
		writeServiceError(w, h.logger, "ListCategories", err, nil)
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"categories":  categoryViews(categories),
		"swalMessage": r.URL.Query().Get("swalMessage"),
	}))
}

func (h *CategoriesHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(struct{}{}))
}

// Create inserts a category and redirects to the list.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid form"))
		return
	}
	if !checkCSRF(w, r) {
		return
	}

	input := service.CategoryInput{Name: r.PostFormValue("category_name")}
	if _, err := h.categoryService.CreateCategory(ctx, appUserID, input); err != nil {
		writeServiceError(w, h.logger, "CreateCategory", err, input)
		return
	}
	redirect(w, r, "/categories", "")
}

// Details category with its member contacts.
func (h *CategoriesHandler) Details(w http.ResponseWriter, r *http.Request, categoryID string) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	category, err := h.categoryService.GetCategoryWithContacts(ctx, appUserID, categoryID)
	if err != nil {
		writeServiceError(w, h.logger, "GetCategoryWithContacts", err, nil)
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"category": categoryView(category),
		"contacts": contactViews(category.Contacts),
	}))
}

func (h *CategoriesHandler) EditForm(w http.ResponseWriter, r *http.Request, categoryID string) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	category, err := h.categoryService.GetCategory(ctx, appUserID, categoryID)
	if err != nil {
		writeServiceError(w, h.logger, "GetCategory", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, Ok(categoryView(category)))
}

// Edit renames the category. Same id-mismatch rule as contacts.
func (h *CategoriesHandler) Edit(w http.ResponseWriter, r *http.Request, categoryID string) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid form"))
		return
	}
	if !checkCSRF(w, r) {
		return
	}

	if formID := r.PostFormValue("category_id"); formID != "" && formID != categoryID {
		writeJSON(w, http.StatusNotFound, Fail("not found"))
		return
	}

	input := service.CategoryInput{Name: r.PostFormValue("category_name")}
	if err := h.categoryService.UpdateCategory(ctx, appUserID, categoryID, input); err != nil {
		writeServiceError(w, h.logger, "UpdateCategory", err, input)
		return
	}
	redirect(w, r, "/categories", "")
}

func (h *CategoriesHandler) DeleteForm(w http.ResponseWriter, r *http.Request, categoryID string) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	category, err := h.categoryService.GetCategory(ctx, appUserID, categoryID)
	if err != nil {
		writeServiceError(w, h.logger, "GetCategory", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, Ok(categoryView(category)))
}

// Delete idempotent; member contacts survive, only the join rows go.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request, categoryID string) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid form"))
		return
	}
	if !checkCSRF(w, r) {
		return
	}

	if err := h.categoryService.DeleteCategory(ctx, appUserID, categoryID); err != nil {
		writeServiceError(w, h.logger, "DeleteCategory", err, nil)
		return
	}
	redirect(w, r, "/categories", "")
}

// EmailForm prefilled group message: recipients joined with ";", subject
// defaulted from the category name.
func (h *CategoriesHandler) EmailForm(w http.ResponseWriter, r *http.Request, categoryID string) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	msg, err := h.emailService.PrepareGroupMessage(ctx, appUserID, categoryID)
	if err != nil {
		writeServiceError(w, h.logger, "PrepareGroupMessage", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, Ok(msg))
}

// EmailSend dispatches to the whole group and lands on the contacts list with
// the status message.
func (h *CategoriesHandler) EmailSend(w http.ResponseWriter, r *http.Request, categoryID string) {
	ctx := r.Context()
	appUserID := UserIDFromContext(ctx)

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid form"))
		return
	}
	if !checkCSRF(w, r) {
		return
	}

	msg, err := h.emailService.PrepareGroupMessage(ctx, appUserID, categoryID)
	if err != nil {
		writeServiceError(w, h.logger, "PrepareGroupMessage", err, nil)
		return
	}
	msg.Body = r.PostFormValue("email_body")
	if subject := r.PostFormValue("email_subject"); subject != "" {
		msg.Subject = subject
	}

	swal, err := h.emailService.Send(ctx, msg)
	if err != nil {
		writeServiceError(w, h.logger, "SendEmail", err, msg)
		return
	}
	redirect(w, r, "/contacts", swal)
}
