// Package arxiv provides a paper source adapter for the arXiv Atom API.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.PaperSource = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://export.arxiv.org/api/query"
	DefaultTimeout = 30 * time.Second

	// arXiv asks API clients for no more than one request every three seconds.
	requestInterval = 3 * time.Second
)

// DefaultCategories are the subject categories fetched when none are given.
var DefaultCategories = []string{"cs.AI", "cs.CL", "cs.LG", "stat.ML", "cs.CV", "cs.IR"}

// Config holds configuration for the arXiv client.
type Config struct {
	// BaseURL is the arXiv API query endpoint (default: export.arxiv.org).
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Client lists papers from the arXiv Atom API.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// New creates a new arXiv client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		limiter: rate.NewLimiter(rate.Every(requestInterval), 1),
	}
}

// feed is the Atom response envelope.
type feed struct {
	Entries []entry `xml:"entry"`
}

// entry is one paper in an Atom feed.
type entry struct {
	ID         string     `xml:"id"`
	Title      string     `xml:"title"`
	Summary    string     `xml:"summary"`
	Published  string     `xml:"published"`
	Links      []link     `xml:"link"`
	Categories []category `xml:"category"`
}

type link struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type category struct {
	Term string `xml:"term,attr"`
}

// Latest returns up to max recently submitted papers in the given
// categories, newest first. Empty categories fall back to DefaultCategories.
func (c *Client) Latest(ctx context.Context, categories []string, max int) ([]driven.PaperMeta, error) {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	if max <= 0 {
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	terms := make([]string, len(categories))
	for i, cat := range categories {
		terms[i] = "cat:" + cat
	}

	params := url.Values{}
	params.Set("search_query", strings.Join(terms, " OR "))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")
	params.Set("max_results", fmt.Sprintf("%d", max))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("arxiv error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("arxiv error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed feed
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	papers := make([]driven.PaperMeta, 0, len(parsed.Entries))
	for _, e := range parsed.Entries {
		meta, ok := e.toPaperMeta()
		if !ok {
			continue
		}
		papers = append(papers, meta)
	}

	return papers, nil
}

// toPaperMeta converts an Atom entry to paper metadata. Entries without
// an identifier or abstract are dropped.
func (e entry) toPaperMeta() (driven.PaperMeta, bool) {
	id := externalID(e.ID)
	abstract := CleanAbstract(e.Summary)
	if id == "" || abstract == "" {
		return driven.PaperMeta{}, false
	}

	meta := driven.PaperMeta{
		ExternalID: id,
		Title:      CleanAbstract(e.Title),
		Abstract:   abstract,
	}

	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		meta.Published = t
	}

	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			meta.PDFURL = l.Href
			break
		}
	}

	for _, cat := range e.Categories {
		if cat.Term != "" {
			meta.Categories = append(meta.Categories, cat.Term)
		}
	}

	return meta, true
}

// externalID strips the Atom entry URL down to the bare arXiv identifier,
// e.g. "http://arxiv.org/abs/2403.00001v2" -> "2403.00001v2".
func externalID(entryID string) string {
	idx := strings.LastIndex(entryID, "/abs/")
	if idx < 0 {
		return strings.TrimSpace(entryID)
	}
	return strings.TrimSpace(entryID[idx+len("/abs/"):])
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// CleanAbstract collapses the hard-wrapped whitespace arXiv abstracts
// arrive with into single spaces.
func CleanAbstract(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}
