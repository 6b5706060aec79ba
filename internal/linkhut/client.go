package linkhut

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"linkhut/internal/logger"
	apperr "linkhut/internal/pkg/errors"
	"linkhut/internal/secret"
	"linkhut/internal/transport"
)

const DefaultBaseURL = "https://api.ln.ht"

// Action names a LinkHut API operation.
type Action string

const (
	ActionBookmarkGet    Action = "bookmark_get"
	ActionBookmarkRecent Action = "bookmark_recent"
	ActionBookmarkCreate Action = "bookmark_create"
	ActionBookmarkDelete Action = "bookmark_delete"
	ActionTagSuggest     Action = "tag_suggest"
	ActionTagDelete      Action = "tag_delete"
	ActionTagRename      Action = "tag_rename"
)

var endpoints = map[Action]string{
	ActionBookmarkGet:    "/v1/posts/get",
	ActionBookmarkRecent: "/v1/posts/recent",
	ActionBookmarkCreate: "/v1/posts/add",
	ActionBookmarkDelete: "/v1/posts/delete",
	ActionTagSuggest:     "/v1/posts/suggest",
	ActionTagDelete:      "/v1/tags/delete",
	ActionTagRename:      "/v1/tags/rename",
}

// Path returns the endpoint path of an action.
func (a Action) Path() (string, error) {
	path, ok := endpoints[a]
	if !ok {
		return "", fmt.Errorf("unknown linkhut action %q", string(a))
	}
	return path, nil
}

// Client represents a LinkHut API client.
type Client struct {
	BaseURL *url.URL
	Token   secret.Source
	HTTP    *transport.Client
	Logger  logger.Logger
}

// NewClient creates a new LinkHut API client. The token is read from the
// source on every call.
func NewClient(baseURL string, token secret.Source, httpClient *transport.Client, l logger.Logger) (*Client, error) {
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

	return &Client{
		BaseURL: parsedURL,
		Token:   token,
		HTTP:    httpClient,
		Logger:  l,
	}, nil
}

// call resolves action, authenticates and sends payload as the query string.
func (c *Client) call(ctx context.Context, action Action, payload url.Values) (*transport.Response, error) {
	path, err := action.Path()
	if err != nil {
		return nil, err
	}

	if c.Token == nil {
		return nil, fmt.Errorf("%w: no linkhut token configured", apperr.ErrMissingSecret)
	}
	token, err := c.Token()
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Accept", transport.ContentTypeJSON)
	header.Set("Authorization", "Bearer "+token)

	c.Logger.Debug("calling linkhut", logger.String("action", string(action)))
	return c.HTTP.Get(ctx, c.BaseURL.JoinPath(path).String(), header, payload)
}

func (c *Client) callJSON(ctx context.Context, action Action, payload url.Values, v any) (int, error) {
	resp, err := c.call(ctx, action, payload)
	if err != nil {
		return 0, err
	}
	if err := resp.DecodeJSON(v); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode %s response: %w", action, err)
	}
	return resp.StatusCode, nil
}

// RecentPosts fetches the count most recent posts, optionally filtered by a
// single tag.
func (c *Client) RecentPosts(ctx context.Context, count int, tag string) (*PostsResult, error) {
	payload := url.Values{}
	payload.Set("count", strconv.Itoa(count))
	if tag != "" {
		payload.Set("tag", tag)
	}

	var result PostsResult
	if _, err := c.callJSON(ctx, ActionBookmarkRecent, payload, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch recent posts: %w", err)
	}
	return &result, nil
}

// GetPosts fetches posts matching all of the given filters.
func (c *Client) GetPosts(ctx context.Context, q GetQuery) (*PostsResult, error) {
	payload := url.Values{}
	if len(q.Tags) > 0 {
		payload.Set("tag", strings.Join(q.Tags, " "))
	}
	if !q.Date.IsZero() {
		payload.Set("dt", q.Date.Time().UTC().Format(time.RFC3339))
	}
	if q.URL != "" {
		payload.Set("url", q.URL)
	}

	var result PostsResult
	if _, err := c.callJSON(ctx, ActionBookmarkGet, payload, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	return &result, nil
}

// AddPost creates a post, or replaces it when req.Replace is set.
func (c *Client) AddPost(ctx context.Context, req AddRequest) (*Result, error) {
	payload := url.Values{}
	payload.Set("url", req.URL)
	payload.Set("description", req.Description)
	payload.Set("tags", strings.Join(req.Tags, " "))
	payload.Set("replace", yesNo(req.Replace))
	payload.Set("toread", yesNo(req.ToRead))
	payload.Set("shared", yesNo(req.Shared))
	if req.Extended != "" {
		payload.Set("extended", req.Extended)
	}
	return c.result(ctx, ActionBookmarkCreate, payload)
}

// DeletePost deletes the post with the given URL.
func (c *Client) DeletePost(ctx context.Context, postURL string) (*Result, error) {
	return c.result(ctx, ActionBookmarkDelete, url.Values{"url": {postURL}})
}

// RenameTag renames a tag across all posts.
func (c *Client) RenameTag(ctx context.Context, oldTag, newTag string) (*Result, error) {
	return c.result(ctx, ActionTagRename, url.Values{"old": {oldTag}, "new": {newTag}})
}

// DeleteTag removes a tag from all posts.
func (c *Client) DeleteTag(ctx context.Context, tag string) (*Result, error) {
	return c.result(ctx, ActionTagDelete, url.Values{"tag": {tag}})
}

func (c *Client) result(ctx context.Context, action Action, payload url.Values) (*Result, error) {
	var result Result
	status, err := c.callJSON(ctx, action, payload, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", action, err)
	}
	result.StatusCode = status
	return &result, nil
}

// SuggestTags returns the popular and recommended tags for a URL. ok is false
// when the service had no suggestions or the lookup failed; the failure is
// logged, never returned.
func (c *Client) SuggestTags(ctx context.Context, postURL string) ([]string, bool) {
	var groups []map[string][]string
	if _, err := c.callJSON(ctx, ActionTagSuggest, url.Values{"url": {postURL}}, &groups); err != nil {
		c.Logger.Error("error fetching tag suggestions", logger.String("url", postURL), logger.Error(err))
		return nil, false
	}

	var tags []string
	for _, group := range groups {
		tags = append(tags, group["popular"]...)
		tags = append(tags, group["recommended"]...)
	}
	if len(tags) == 0 {
		c.Logger.Warn("no tag suggestions found", logger.String("url", postURL))
		return nil, false
	}
	return tags, true
}
