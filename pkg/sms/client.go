package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/marvindelacruz/hardwarehub-backend/pkg/config"
	pkgerrors "github.com/marvindelacruz/hardwarehub-backend/pkg/errors"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/logger"
)

const messagesPath = "/api/v4/messages"

var errAPIKeyRequired = errors.New("sms api key is required")

// Sender is the outbound SMS surface the notification dispatcher depends on.
type Sender interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

// Client sends SMS through the Semaphore gateway.
type Client struct {
	httpClient *http.Client
	apiKey     string
	senderName string
	baseURL    string
	logger     *logger.Logger
}

// NewClient initializes the Semaphore wrapper and validates the credentials.
func NewClient(cfg config.SMSConfig, logg *logger.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.semaphore.co"
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.SendTimeout},
		apiKey:     apiKey,
		senderName: strings.TrimSpace(cfg.SenderName),
		baseURL:    baseURL,
		logger:     logg,
	}, nil
}

// Send delivers a single message to one recipient. The caller owns retry
// policy; this client reports failures and nothing else.
func (c *Client) Send(ctx context.Context, phoneNumber, message string) error {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient phone number required")
	}
	if strings.TrimSpace(message) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message body required")
	}

	form := url.Values{}
	form.Set("apikey", c.apiKey)
	form.Set("number", phoneNumber)
	form.Set("message", message)
	if c.senderName != "" {
		form.Set("sendername", c.senderName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, strings.NewReader(form.Encode()))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build sms request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send sms")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("sms gateway returned %d", resp.StatusCode)).
			WithDetails(map[string]any{"response": string(body)})
	}

	return nil
}
