package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gazette/internal/services"
)

const userAgent = "Gazette/0.1.0"

// Sender defines the delivery surface exposed to the workflow.
type Sender interface {
	SendDocument(ctx context.Context, path, caption string) error
	SendMessage(ctx context.Context, text string) error
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient injects a custom HTTP client (primarily for tests).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

// Client talks to the Telegram Bot API.
type Client struct {
	baseURL   string
	botToken  string
	channelID string
	client    *http.Client
}

// New constructs a Telegram client for the given bot and channel.
func New(baseURL, botToken, channelID string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("telegram base URL required")
	}
	if strings.TrimSpace(botToken) == "" {
		return nil, errors.New("telegram bot token required")
	}
	if strings.TrimSpace(channelID) == "" {
		return nil, errors.New("telegram channel id required")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := &Client{
		baseURL:   baseURL,
		botToken:  strings.TrimSpace(botToken),
		channelID: strings.TrimSpace(channelID),
		client:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	ErrorCode   int    `json:"error_code"`
}

// SendDocument uploads a file to the configured channel.
func (c *Client) SendDocument(ctx context.Context, path, caption string) error {
	file, err := os.Open(path)
	if err != nil {
		return services.Wrap(services.ErrPermanent, "deliver", "send_document", "open document", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("chat_id", c.channelID); err != nil {
		return services.Wrap(services.ErrPermanent, "deliver", "send_document", "write chat_id field", err)
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return services.Wrap(services.ErrPermanent, "deliver", "send_document", "write caption field", err)
		}
	}
	part, err := writer.CreateFormFile("document", filepath.Base(path))
	if err != nil {
		return services.Wrap(services.ErrPermanent, "deliver", "send_document", "create form file", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return services.Wrap(services.ErrPermanent, "deliver", "send_document", "copy document", err)
	}
	if err := writer.Close(); err != nil {
		return services.Wrap(services.ErrPermanent, "deliver", "send_document", "finalize form", err)
	}

	return c.post(ctx, "sendDocument", writer.FormDataContentType(), &body)
}

// SendMessage posts a plain text message to the configured channel.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	form := url.Values{}
	form.Set("chat_id", c.channelID)
	form.Set("text", text)
	return c.post(ctx, "sendMessage", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

func (c *Client) post(ctx context.Context, method, contentType string, body io.Reader) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return services.Wrap(services.ErrPermanent, "deliver", method, "build request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		marker := services.ErrPermanent
		if isTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
			marker = services.ErrTransient
		}
		return services.Wrap(marker, "deliver", method, "telegram request", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var parsed apiResponse
		if err := json.Unmarshal(raw, &parsed); err == nil && !parsed.OK {
			return services.Wrap(services.ErrPermanent, "deliver", method, fmt.Sprintf("telegram rejected request: %s", parsed.Description), nil)
		}
		return nil
	}

	detail := strings.TrimSpace(string(raw))
	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Description != "" {
		detail = parsed.Description
	}

	marker := services.ErrPermanent
	if retryableStatus(resp.StatusCode) {
		marker = services.ErrTransient
	}
	return services.Wrap(marker, "deliver", method, fmt.Sprintf("telegram returned %d: %s", resp.StatusCode, detail), nil)
}

// retryableStatus reports whether the API status warrants another attempt.
func retryableStatus(status int) bool {
	switch {
	case status == http.StatusRequestTimeout:
		return true
	case status == http.StatusTooManyRequests:
		return true
	case status >= 500:
		return true
	}
	return false
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
