package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"addressbook/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// MailClient outbound mail transport. Implementations report failures as
// plain errors; classification into user-facing status text happens in
// EmailService.
type MailClient interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

// mailAPIRequest provider wire format.
type mailAPIRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// mailAPIResponse provider wire format.
type mailAPIResponse struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
}

// MailAPIClient HTTP mail provider client.
type MailAPIClient struct {
	httpClient *resty.Client
	from       string
	logger     *zap.Logger
}

// NewMailAPIClient creates the mail provider client.
func NewMailAPIClient(cfg config.MailConfig, logger *zap.Logger) *MailAPIClient {
	client := resty.New().
		SetBaseURL(cfg.APIURL).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &MailAPIClient{
		httpClient: client,
		from:       cfg.From,
		logger:     logger,
	}
}

var _ MailClient = (*MailAPIClient)(nil)

// SendEmail posts one message to the provider. "to" may carry multiple
// addresses joined by ";".
func (c *MailAPIClient) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	recipients := []string{}
	for _, addr := range strings.Split(to, ";") {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients")
	}

	request := mailAPIRequest{
		From:    c.from,
		To:      recipients,
		Subject: subject,
		HTML:    htmlBody,
	}

	var response mailAPIResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&response).
		Post("/messages")
	if err != nil {
		c.logger.Error("Mail API call failed", zap.Error(err))
		return fmt.Errorf("failed to call mail API: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("Mail API returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("msg", response.Msg),
		)
		return fmt.Errorf("mail API error: status %d", resp.StatusCode())
	}

	c.logger.Info("Email dispatched",
		zap.Int("recipient_count", len(recipients)),
		zap.String("subject", subject),
	)
	return nil
}
