package linkpreview

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"linkhut/internal/logger"
	apperr "linkhut/internal/pkg/errors"
	"linkhut/internal/secret"
	"linkhut/internal/transport"
)

const (
	DefaultBaseURL = "https://api.linkpreview.net"
	apiKeyHeader   = "X-Linkpreview-Api-Key"
)

// TitleFetcher looks up the title of a web page.
type TitleFetcher interface {
	Title(ctx context.Context, pageURL string) (string, error)
}

// Client queries the LinkPreview API.
type Client struct {
	BaseURL *url.URL
	APIKey  secret.Source
	HTTP    *transport.Client
	Logger  logger.Logger
}

type preview struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	URL         string `json:"url"`
}

func NewClient(baseURL string, apiKey secret.Source, httpClient *transport.Client, l logger.Logger) (*Client, error) {
	parsedURL, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if l == nil {
		l = logger.Nop()
	}
	if httpClient == nil {
		httpClient = transport.NewClient(transport.DefaultTimeout, l)
	}
	return &Client{BaseURL: parsedURL, APIKey: apiKey, HTTP: httpClient, Logger: l}, nil
}

// Title returns the page title reported by the service. An empty title is
// an error.
func (c *Client) Title(ctx context.Context, pageURL string) (string, error) {
	if c.APIKey == nil {
		return "", fmt.Errorf("%w: no link preview api key configured", apperr.ErrMissingSecret)
	}
	key, err := c.APIKey()
	if err != nil {
		return "", err
	}

	header := http.Header{}
	header.Set(apiKeyHeader, key)
	query := url.Values{}
	query.Set("q", pageURL)
	query.Set("block_content", "false")

	c.Logger.Debug("fetching link title", logger.String("url", pageURL))
	resp, err := c.HTTP.Get(ctx, c.BaseURL.JoinPath("/").String(), header, query)
	if err != nil {
		return "", fmt.Errorf("failed to fetch link preview: %w", err)
	}

	var title string
	switch resp.Kind {
	case transport.KindJSON:
		var p preview
		if err := resp.DecodeJSON(&p); err != nil {
			return "", fmt.Errorf("failed to decode link preview: %w", err)
		}
		title = p.Title
	case transport.KindHTML:
		title = documentTitle(resp.HTML)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("no title found for %s", pageURL)
	}
	return title, nil
}

// documentTitle returns the text of the first <title> element.
func documentTitle(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		return sb.String()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := documentTitle(c); t != "" {
			return t
		}
	}
	return ""
}
