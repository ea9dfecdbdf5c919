package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/jihowes/free-trial-snetinal-sub000/pkg/config"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/logger"
)

var errAPIKeyRequired = errors.New("resend api key is required")

// Message is a single transactional email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender is the delivery surface consumed by the welcome flow and the
// reminder worker. One call per email; no batching.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
	DefaultFrom() string
}

// Client wraps the Resend API client plus the configured sender address.
type Client struct {
	api  *resend.Client
	from string
}

// NewClient initializes the Resend client with the configured secret. A
// missing key is a construction error so endpoints that need email fail with
// a 500 instead of silently skipping sends.
func NewClient(ctx context.Context, cfg config.EmailConfig, logg *logger.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.ResendAPIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	if logg != nil {
		logg.Info(ctx, "email client initialized")
	}

	return &Client{
		api:  resend.NewClient(apiKey),
		from: cfg.FromAddress,
	}, nil
}

// Send submits one email and returns the provider message id.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if c == nil || c.api == nil {
		return "", errors.New("email client not initialized")
	}
	if strings.TrimSpace(msg.To) == "" {
		return "", errors.New("recipient is required")
	}
	from := msg.From
	if from == "" {
		from = c.from
	}

	sent, err := c.api.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("resend send: %w", err)
	}
	return sent.Id, nil
}

// DefaultFrom reports the configured sender address.
func (c *Client) DefaultFrom() string {
	if c == nil {
		return ""
	}
	return c.from
}
