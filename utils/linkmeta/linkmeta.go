package linkmeta

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// DefaultTimeout bounds a title fetch. Lookups are best-effort; the
// caller falls back to the URL host on any failure.
const DefaultTimeout = 5 * time.Second

// maxBodyBytes caps how much of a page is read looking for a title.
const maxBodyBytes = 256 * 1024

// Fetcher resolves page titles for resource links.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a Fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Title fetches rawURL and returns its HTML <title>, or the URL's host
// when the page has none or cannot be fetched. Never returns an error;
// a resource missing a nice name is not worth failing a create over.
func (f *Fetcher) Title(ctx context.Context, rawURL string) string {
	fallback := hostOf(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fallback
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fallback
	}

	if title := extractTitle(resp); title != "" {
		return title
	}
	return fallback
}

func extractTitle(resp *http.Response) string {
	tokenizer := html.NewTokenizer(http.MaxBytesReader(nil, resp.Body, maxBodyBytes))
	inTitle := false

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			inTitle = string(name) == "title"
		case html.EndTagToken:
			inTitle = false
		case html.TextToken:
			if inTitle {
				if title := strings.TrimSpace(string(tokenizer.Text())); title != "" {
					return title
				}
			}
		}
	}
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}
