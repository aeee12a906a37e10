package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"

	"gazette/internal/logging"
)

const userAgent = "Gazette/0.1.0"

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

// WithLogger attaches a logger used for fallback warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client translates text through the public Google translate endpoint.
type Client struct {
	endpoint string
	target   language.Tag
	client   *http.Client
	logger   *slog.Logger
}

// New constructs a translator for the given target language.
func New(endpoint, targetLanguage string, timeout time.Duration, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("translate endpoint required")
	}
	target, err := language.Parse(targetLanguage)
	if err != nil {
		return nil, fmt.Errorf("target language %q: %w", targetLanguage, err)
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	client := &Client{
		endpoint: endpoint,
		target:   target,
		client:   &http.Client{Timeout: timeout},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Target returns the configured target language tag.
func (c *Client) Target() language.Tag {
	return c.target
}

// Translate converts text into the target language. It never fails: on any
// internal error the original text is returned unchanged.
func (c *Client) Translate(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	translated, err := c.translate(ctx, text)
	if err != nil {
		c.logger.Warn("translation failed, using original text", logging.Error(err))
		return text
	}
	if strings.TrimSpace(translated) == "" {
		c.logger.Warn("translation returned no result, using original text")
		return text
	}
	return translated
}

func (c *Client) translate(ctx context.Context, text string) (string, error) {
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", "auto")
	query.Set("tl", c.target.String())
	query.Set("dt", "t")
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return decodeResponse(body)
}

// decodeResponse unpacks the endpoint's nested-array payload: the first
// element is a list of [translatedChunk, originalChunk, ...] entries.
func decodeResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode payload: %w", err)
	}
	if len(payload) == 0 {
		return "", errors.New("empty payload")
	}

	var chunks [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &chunks); err != nil {
		return "", fmt.Errorf("decode chunks: %w", err)
	}

	var builder strings.Builder
	for _, chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(chunk[0], &piece); err != nil {
			continue
		}
		builder.WriteString(piece)
	}
	return builder.String(), nil
}
