package gktoday

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"gazette/internal/article"
	"gazette/internal/logging"
	"gazette/internal/services"
)

const (
	userAgent = "Gazette/0.1.0"

	listingHeadingSelector = "h1#list"
	contentRootSelector    = "div.inside_post.column.content_width"
)

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

// WithLogger attaches a logger used for per-page fetch warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client fetches and parses GKToday listing and article pages.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// New constructs a resolver client for the given listing base URL.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("base url required")
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ListCandidates returns article URLs from up to pageCount listing pages.
// Per-page fetch failures are logged and skipped; partial results are valid.
func (c *Client) ListCandidates(ctx context.Context, pageCount int) ([]string, error) {
	if pageCount < 1 {
		pageCount = 1
	}

	var candidates []string
	for page := 1; page <= pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return candidates, err
		}

		pageURL := c.baseURL
		if page > 1 {
			pageURL = fmt.Sprintf("%spage/%d/", c.baseURL, page)
		}

		doc, err := c.fetchDocument(ctx, pageURL)
		if err != nil {
			c.logger.Warn("listing page fetch failed",
				logging.String("url", pageURL),
				logging.Error(err),
			)
			continue
		}

		doc.Find(listingHeadingSelector).Each(func(_ int, heading *goquery.Selection) {
			href, ok := heading.Find("a").First().Attr("href")
			if ok && strings.TrimSpace(href) != "" {
				candidates = append(candidates, strings.TrimSpace(href))
			}
		})
	}
	return candidates, nil
}

// Resolve fetches one article and extracts its title and raw segments.
func (c *Client) Resolve(ctx context.Context, identifier string) (*article.Article, error) {
	doc, err := c.fetchDocument(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("fetch article: %w", err)
	}

	root := doc.Find(contentRootSelector).First()
	if root.Length() == 0 {
		return nil, services.Wrap(services.ErrNotFound, "", "resolve", "main content root not found", nil)
	}

	heading := root.Find(listingHeadingSelector).First()
	if heading.Length() == 0 {
		return nil, services.Wrap(services.ErrNotFound, "", "resolve", "article heading not found", nil)
	}

	resolved := &article.Article{Title: strings.TrimSpace(heading.Text())}

	root.Children().Each(func(_ int, node *goquery.Selection) {
		class, _ := node.Attr("class")
		switch goquery.NodeName(node) {
		case "p":
			resolved.Segments = append(resolved.Segments, article.Segment{
				Kind:  article.SegmentParagraph,
				Text:  strings.TrimSpace(node.Text()),
				Class: class,
			})
		case "h2":
			resolved.Segments = append(resolved.Segments, article.Segment{
				Kind:  article.SegmentSubheading,
				Text:  strings.TrimSpace(node.Text()),
				Class: class,
			})
		case "h4":
			resolved.Segments = append(resolved.Segments, article.Segment{
				Kind:  article.SegmentMinorHeading,
				Text:  strings.TrimSpace(node.Text()),
				Class: class,
			})
		case "ul":
			var items []string
			node.Find("li").Each(func(_ int, li *goquery.Selection) {
				items = append(items, strings.TrimSpace(li.Text()))
			})
			resolved.Segments = append(resolved.Segments, article.Segment{
				Kind:  article.SegmentListGroup,
				Items: items,
				Class: class,
			})
		}
	})

	return resolved, nil
}

func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}
