package templates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"gazette/internal/services"
)

const userAgent = "Gazette/0.1.0"

// maxTemplateSize bounds template downloads at 32 MiB.
const maxTemplateSize = 32 << 20

// Option configures the fetcher.
type Option func(*Fetcher)

// WithHTTPClient injects a custom HTTP client (primarily for tests).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(f *Fetcher) {
		if httpClient != nil {
			f.client = httpClient
		}
	}
}

// Fetcher retrieves the document template from a local path or URL.
type Fetcher struct {
	client *http.Client
}

// NewFetcher constructs a template fetcher.
func NewFetcher(timeout time.Duration, opts ...Option) *Fetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	fetcher := &Fetcher{client: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(fetcher)
	}
	return fetcher
}

// Fetch loads the template bytes from the given location. HTTP and HTTPS
// locations are downloaded; anything else is read from the filesystem.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, services.Wrap(services.ErrConfiguration, "render", "fetch_template", "template location required", nil)
	}

	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return f.download(ctx, normalizeDriveURL(location))
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "render", "fetch_template", fmt.Sprintf("read template %s", location), err)
	}
	if len(data) == 0 {
		return nil, services.Wrap(services.ErrValidation, "render", "fetch_template", fmt.Sprintf("template %s is empty", location), nil)
	}
	return data, nil
}

func (f *Fetcher) download(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "render", "fetch_template", "build template request", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "render", "fetch_template", "download template", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		marker := services.ErrPermanent
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			marker = services.ErrTransient
		}
		return nil, services.Wrap(marker, "render", "fetch_template", fmt.Sprintf("template download returned %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTemplateSize+1))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "render", "fetch_template", "read template body", err)
	}
	if len(data) == 0 {
		return nil, services.Wrap(services.ErrValidation, "render", "fetch_template", "template download returned no data", nil)
	}
	if len(data) > maxTemplateSize {
		return nil, services.Wrap(services.ErrValidation, "render", "fetch_template", "template exceeds size limit", nil)
	}
	return data, nil
}

// normalizeDriveURL rewrites a Google Drive share link into its direct
// download form. Other URLs pass through unchanged.
func normalizeDriveURL(location string) string {
	parsed, err := url.Parse(location)
	if err != nil || !strings.HasSuffix(parsed.Host, "drive.google.com") {
		return location
	}
	fileID := driveFileID(parsed.Path)
	if fileID == "" {
		return location
	}
	direct := url.URL{
		Scheme:   "https",
		Host:     "drive.google.com",
		Path:     "/uc",
		RawQuery: url.Values{"export": {"download"}, "id": {fileID}}.Encode(),
	}
	return direct.String()
}

func driveFileID(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if part == "d" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}
