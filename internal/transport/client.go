package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html"

	"linkhut/internal/logger"
	apperr "linkhut/internal/pkg/errors"
)

const (
	DefaultTimeout = 30 * time.Second

	ContentTypeJSON = "application/json"
	ContentTypeHTML = "text/html"

	maxErrorBody = 64 << 10
)

// Kind says which of the Response body fields is populated.
type Kind int

const (
	KindJSON Kind = iota + 1
	KindHTML
)

// Response is a classified HTTP response.
type Response struct {
	StatusCode  int
	ContentType string
	// URL is the final URL after redirects.
	URL  string
	Kind Kind
	JSON json.RawMessage
	HTML *html.Node
}

// DecodeJSON unmarshals a JSON response body into v.
func (r *Response) DecodeJSON(v any) error {
	if r.Kind != KindJSON {
		return fmt.Errorf("%w: expected %s, got %s", apperr.ErrUnsupportedContentType, ContentTypeJSON, r.ContentType)
	}
	return json.Unmarshal(r.JSON, v)
}

// Client sends single-attempt GET requests.
type Client struct {
	HTTPClient *http.Client
}

// NewClient builds a client with the given timeout; zero means DefaultTimeout.
func NewClient(timeout time.Duration, l logger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if l == nil {
		l = logger.Nop()
	}
	return &Client{
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: NewLoggingRoundTripper(nil, l),
		},
	}
}

// Get sends a GET request and classifies the response by content type.
func (c *Client) Get(ctx context.Context, rawURL string, header http.Header, query url.Values) (*Response, error) {
	reqURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, &apperr.RequestError{Message: "failed to parse request url", Err: err}
	}
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, &apperr.RequestError{Message: "failed to create request", Err: err}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &apperr.RequestError{Message: fmt.Sprintf("network error occurred while requesting %s%s", reqURL.Host, reqURL.Path), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	contentType := mediaType(resp.Header.Get("Content-Type"))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, statusError(resp, contentType)
	}

	out := &Response{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		URL:         resp.Request.URL.String(),
	}

	switch contentType {
	case ContentTypeJSON:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &apperr.RequestError{Message: "failed to read response body", StatusCode: resp.StatusCode, Err: err}
		}
		if !json.Valid(body) {
			return nil, &apperr.RequestError{Message: "response body is not valid JSON", StatusCode: resp.StatusCode}
		}
		out.Kind = KindJSON
		out.JSON = body
	case ContentTypeHTML:
		doc, err := html.Parse(resp.Body)
		if err != nil {
			return nil, &apperr.RequestError{Message: "failed to parse HTML response", StatusCode: resp.StatusCode, Err: err}
		}
		out.Kind = KindHTML
		out.HTML = doc
	default:
		return nil, &apperr.RequestError{
			Message:    fmt.Sprintf("expected '%s' or '%s', got %q", ContentTypeJSON, ContentTypeHTML, contentType),
			StatusCode: resp.StatusCode,
			Err:        apperr.ErrUnsupportedContentType,
		}
	}

	return out, nil
}

func statusError(resp *http.Response, contentType string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	reqErr := &apperr.RequestError{
		Message:    fmt.Sprintf("HTTP error occurred: %s", resp.Status),
		StatusCode: resp.StatusCode,
	}
	if contentType == ContentTypeJSON {
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err == nil {
			reqErr.Payload = payload
		}
	}
	return reqErr
}

func mediaType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return header
	}
	return mt
}
