// Package fetch retrieves page metadata (title, description) for bookmarked
// URLs. Results are best-effort: network and parse failures come back as a
// Metadata value carrying the error string rather than failing the request.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/planky/planky-api/internal/config"
	"github.com/planky/planky-api/internal/domain"
	"github.com/planky/planky-api/internal/platform/logger"
)

// maxDescriptionLength bounds the fallback first-paragraph description.
const maxDescriptionLength = 200

// Metadata holds what could be scraped from a page.
type Metadata struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Error       string `json:"error,omitempty"`
}

// Fetcher downloads pages and extracts their metadata.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewFetcher creates a Fetcher from config. If logger is nil, a default
// logger will be used.
func NewFetcher(cfg config.FetchConfig, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	return &Fetcher{
		client:       &http.Client{Timeout: timeout},
		userAgent:    cfg.UserAgent,
		maxBodyBytes: maxBody,
		logger:       logger.With(slog.String("component", "metadata_fetcher")),
	}
}

// FetchMetadata downloads the page at rawURL and scrapes title and
// description. The URL must be a valid absolute http(s) URL; that is the
// only error this method returns. Fetch and parse problems are reported in
// the Error field instead.
func (f *Fetcher) FetchMetadata(ctx context.Context, rawURL string) (*Metadata, error) {
	log := logger.FromContextOrDefault(ctx, f.logger)

	if !domain.ValidateURL(rawURL) {
		return nil, domain.NewValidationError("url", "must be a valid http(s) URL", nil)
	}

	meta := &Metadata{URL: rawURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		meta.Error = err.Error()
		return meta, nil
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		log.Debug("metadata fetch failed",
			slog.String("url", rawURL),
			slog.String("error", err.Error()))
		meta.Error = err.Error()
		return meta, nil
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Debug("failed to close response body", slog.String("error", err.Error()))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		meta.Error = fmt.Sprintf("unexpected status: %s", resp.Status)
		return meta, nil
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		log.Debug("metadata parse failed",
			slog.String("url", rawURL),
			slog.String("error", err.Error()))
		meta.Error = err.Error()
		return meta, nil
	}

	page := scrapePage(doc)
	meta.Title = page.title()
	meta.Description = page.description()
	return meta, nil
}

// pageData collects the raw candidates found while walking the document.
type pageData struct {
	titleTag       string
	ogTitle        string
	twitterTitle   string
	metaDesc       string
	ogDesc         string
	twitterDesc    string
	firstParagraph string
}

// title picks the best title candidate: <title>, then og:title, then
// twitter:title.
func (p *pageData) title() string {
	for _, candidate := range []string{p.titleTag, p.ogTitle, p.twitterTitle} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// description picks the best description candidate: meta description, then
// og:description, then twitter:description, then the first paragraph
// truncated to 200 characters.
func (p *pageData) description() string {
	for _, candidate := range []string{p.metaDesc, p.ogDesc, p.twitterDesc} {
		if candidate != "" {
			return candidate
		}
	}

	para := p.firstParagraph
	if runes := []rune(para); len(runes) > maxDescriptionLength {
		// Truncate on rune boundaries so multibyte text stays valid UTF-8.
		para = string(runes[:maxDescriptionLength-3]) + "..."
	}
	return para
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// collapseWhitespace trims and squashes runs of whitespace to single spaces.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// scrapePage walks the parsed document once, collecting all candidates.
func scrapePage(doc *html.Node) *pageData {
	page := &pageData{}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if page.titleTag == "" {
					page.titleTag = collapseWhitespace(textContent(n))
				}
			case "meta":
				scrapeMeta(n, page)
			case "p":
				if page.firstParagraph == "" {
					page.firstParagraph = collapseWhitespace(textContent(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return page
}

// scrapeMeta records a <meta> element's content under the matching
// candidate slot. OpenGraph uses the property attribute, classic meta
// description and Twitter cards use name.
func scrapeMeta(n *html.Node, page *pageData) {
	var name, property, content string
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "name":
			name = strings.ToLower(attr.Val)
		case "property":
			property = strings.ToLower(attr.Val)
		case "content":
			content = attr.Val
		}
	}

	content = collapseWhitespace(content)
	if content == "" {
		return
	}

	switch {
	case name == "description" && page.metaDesc == "":
		page.metaDesc = content
	case property == "og:title" && page.ogTitle == "":
		page.ogTitle = content
	case property == "og:description" && page.ogDesc == "":
		page.ogDesc = content
	case (name == "twitter:title" || property == "twitter:title") && page.twitterTitle == "":
		page.twitterTitle = content
	case (name == "twitter:description" || property == "twitter:description") && page.twitterDesc == "":
		page.twitterDesc = content
	}
}

// textContent concatenates all text nodes under n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
