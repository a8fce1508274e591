package service

import (
	"context"
	"fmt"
	"strings"

	"addressbook/internal/domain"
	"addressbook/internal/repository"

	"go.uber.org/zap"
)

// Status messages carried across the redirect after a send attempt. The exact
// text is part of the UI contract.
const (
	SwalEmailSent   = "Success: Email Sent!"
	SwalEmailFailed = "Error: Email Failed to Send."
)

// EmailService builds outbound messages from stored contacts/categories and
// dispatches them. Transport failures never escape as errors: they degrade to
// the failure status message.
type EmailService interface {
	// PrepareContactMessage prefills a message to one contact.
	PrepareContactMessage(ctx context.Context, appUserID, contactID string) (*domain.EmailMessage, error)

	// PrepareGroupMessage prefills a message to every member of a category:
	// recipients ";"-joined, subject defaulted to "Group Message: {name}".
	PrepareGroupMessage(ctx context.Context, appUserID, categoryID string) (*domain.EmailMessage, error)

	// Send validates and dispatches the message. The returned string is the
	// user-facing status message; error is non-nil only for ValidationError.
	Send(ctx context.Context, msg *domain.EmailMessage) (string, error)
}

type emailService struct {
	contactsRepo   repository.ContactsRepository
	categoriesRepo repository.CategoriesRepository
	mail           MailClient
	logger         *zap.Logger
}

// NewEmailService creates the EmailService.
func NewEmailService(contactsRepo repository.ContactsRepository, categoriesRepo repository.CategoriesRepository, mail MailClient, logger *zap.Logger) EmailService {
	return &emailService{
		contactsRepo:   contactsRepo,
		categoriesRepo: categoriesRepo,
		mail:           mail,
		logger:         logger,
	}
}

// PrepareContactMessage owner-scoped prefill for a single contact.
func (s *emailService) PrepareContactMessage(ctx context.Context, appUserID, contactID string) (*domain.EmailMessage, error) {
	contact, err := s.contactsRepo.GetContact(ctx, appUserID, contactID)
	if err != nil {
		return nil, err
	}

	return &domain.EmailMessage{
		Recipients: contact.Email,
		FirstName:  contact.FirstName,
		LastName:   contact.LastName,
	}, nil
}

// PrepareGroupMessage owner-scoped prefill for a whole category.
func (s *emailService) PrepareGroupMessage(ctx context.Context, appUserID, categoryID string) (*domain.EmailMessage, error) {
	category, err := s.categoriesRepo.GetCategoryWithContacts(ctx, appUserID, categoryID)
	if err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(category.Contacts))
	for _, c := range category.Contacts {
		emails = append(emails, c.Email)
	}

	return &domain.EmailMessage{
		Recipients: strings.Join(emails, ";"),
		GroupName:  category.CategoryName,
		Subject:    fmt.Sprintf("Group Message: %s", category.CategoryName),
	}, nil
}

// Send dispatches the message and classifies the outcome.
func (s *emailService) Send(ctx context.Context, msg *domain.EmailMessage) (string, error) {
	ve := newValidationError()
	if strings.TrimSpace(msg.Recipients) == "" {
		ve.Fields["email_address"] = "recipient is required"
	}
	if strings.TrimSpace(msg.Subject) == "" {
		ve.Fields["email_subject"] = "subject is required"
	}
	if strings.TrimSpace(msg.Body) == "" {
		ve.Fields["email_body"] = "body is required"
	}
	if len(ve.Fields) > 0 {
		return "", ve
	}

	if err := s.mail.SendEmail(ctx, msg.Recipients, msg.Subject, msg.Body); err != nil {
		s.logger.Error("Email send failed", zap.Error(err))
		return SwalEmailFailed, nil
	}
	return SwalEmailSent, nil
}
