package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkhut/internal/config"
	"linkhut/internal/linkhut"
	"linkhut/internal/logger"
	apperr "linkhut/internal/pkg/errors"
)

// mockLinkhutClient records every call and answers from its fields.
type mockLinkhutClient struct {
	recentCalls []recentCall
	getCalls    []linkhut.GetQuery
	addCalls    []linkhut.AddRequest
	deleteCalls []string
	renameCalls [][2]string
	tagDeletes  []string
	suggestions int

	posts       *linkhut.PostsResult
	postsErr    error
	addResult   *linkhut.Result
	addErr      error
	result      *linkhut.Result
	suggested   []string
	suggestedOK bool
}

type recentCall struct {
	count int
	tag   string
}

func (m *mockLinkhutClient) calls() int {
	return len(m.recentCalls) + len(m.getCalls) + len(m.addCalls) + len(m.deleteCalls) +
		len(m.renameCalls) + len(m.tagDeletes) + m.suggestions
}

func (m *mockLinkhutClient) postsResult() (*linkhut.PostsResult, error) {
	if m.postsErr != nil {
		return nil, m.postsErr
	}
	if m.posts == nil {
		return &linkhut.PostsResult{}, nil
	}
	return m.posts, nil
}

func (m *mockLinkhutClient) RecentPosts(ctx context.Context, count int, tag string) (*linkhut.PostsResult, error) {
	m.recentCalls = append(m.recentCalls, recentCall{count: count, tag: tag})
	return m.postsResult()
}

func (m *mockLinkhutClient) GetPosts(ctx context.Context, q linkhut.GetQuery) (*linkhut.PostsResult, error) {
	m.getCalls = append(m.getCalls, q)
	return m.postsResult()
}

func (m *mockLinkhutClient) AddPost(ctx context.Context, req linkhut.AddRequest) (*linkhut.Result, error) {
	m.addCalls = append(m.addCalls, req)
	if m.addErr != nil {
		return nil, m.addErr
	}
	if m.addResult == nil {
		return &linkhut.Result{StatusCode: 200, ResultCode: linkhut.ResultDone}, nil
	}
	return m.addResult, nil
}

func (m *mockLinkhutClient) DeletePost(ctx context.Context, postURL string) (*linkhut.Result, error) {
	m.deleteCalls = append(m.deleteCalls, postURL)
	return m.result, nil
}

func (m *mockLinkhutClient) SuggestTags(ctx context.Context, postURL string) ([]string, bool) {
	m.suggestions++
	return m.suggested, m.suggestedOK
}

func (m *mockLinkhutClient) RenameTag(ctx context.Context, oldTag, newTag string) (*linkhut.Result, error) {
	m.renameCalls = append(m.renameCalls, [2]string{oldTag, newTag})
	return m.result, nil
}

func (m *mockLinkhutClient) DeleteTag(ctx context.Context, tag string) (*linkhut.Result, error) {
	m.tagDeletes = append(m.tagDeletes, tag)
	return m.result, nil
}

type mockPreview struct {
	title string
	err   error
	calls int
}

func (m *mockPreview) Title(ctx context.Context, pageURL string) (string, error) {
	m.calls++
	return m.title, m.err
}

var testLogger = logger.Nop()

func newTestApp(client *mockLinkhutClient, preview *mockPreview) *App {
	if preview == nil {
		preview = &mockPreview{title: "Fetched Title"}
	}
	return NewApp(
		WithLinkhutClient(client),
		WithPreviewClient(preview),
		WithLogger(testLogger),
	)
}

func mustPost(t *testing.T, fields map[string]string) linkhut.Post {
	t.Helper()
	base := map[string]string{
		"href":        "https://example.com/a",
		"description": "Existing",
		"extended":    "old note",
		"tags":        "go",
		"time":        "2024-05-01T10:00:00Z",
		"shared":      "yes",
		"toread":      "no",
	}
	for k, v := range fields {
		base[k] = v
	}
	data, err := json.Marshal(base)
	require.NoError(t, err)
	var p linkhut.Post
	require.NoError(t, json.Unmarshal(data, &p))
	return p
}

func boolPtr(b bool) *bool { return &b }

func TestGetBookmarksDefaultsToRecent(t *testing.T) {
	client := &mockLinkhutClient{posts: &linkhut.PostsResult{Posts: []linkhut.Post{mustPost(t, nil)}}}
	a := newTestApp(client, nil)

	posts, err := a.GetBookmarks(context.Background(), GetOptions{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, []recentCall{{count: 15}}, client.recentCalls)
	assert.Empty(t, client.getCalls)
}

func TestListingDefaultsFromConfig(t *testing.T) {
	client := &mockLinkhutClient{posts: &linkhut.PostsResult{Posts: []linkhut.Post{mustPost(t, nil)}}}
	cfg := &config.Config{Bookmarks: config.ConfigBookmarks{RecentCount: 30, ReadingListCount: 8}}
	a := NewApp(WithConfig(cfg), WithLinkhutClient(client), WithLogger(testLogger))

	_, err := a.GetBookmarks(context.Background(), GetOptions{})
	require.NoError(t, err)
	_, err = a.ReadingList(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []recentCall{{count: 30}, {count: 8, tag: "unread"}}, client.recentCalls)
}

func TestGetBookmarksRecentUsesFirstTag(t *testing.T) {
	client := &mockLinkhutClient{posts: &linkhut.PostsResult{Posts: []linkhut.Post{mustPost(t, nil)}}}
	a := newTestApp(client, nil)

	_, err := a.GetBookmarks(context.Background(), GetOptions{Count: 5, Tag: "a,b"})
	require.NoError(t, err)
	require.Equal(t, []recentCall{{count: 5, tag: "a"}}, client.recentCalls)

	_, err = a.GetBookmarks(context.Background(), GetOptions{Count: 2, Tag: "  x y"})
	require.NoError(t, err)
	assert.Equal(t, "x", client.recentCalls[1].tag)
}

func TestGetBookmarksFilters(t *testing.T) {
	client := &mockLinkhutClient{posts: &linkhut.PostsResult{Posts: []linkhut.Post{mustPost(t, nil)}}}
	a := newTestApp(client, nil)

	_, err := a.GetBookmarks(context.Background(), GetOptions{Tag: "go web,api", Date: "2024-05-01", URL: "https://example.com/a?x=1"})
	require.NoError(t, err)
	require.Len(t, client.getCalls, 1)
	q := client.getCalls[0]
	assert.Equal(t, []string{"go", "web", "api"}, q.Tags)
	assert.Equal(t, "2024-05-01T00:00:00Z", q.Date.String())
	assert.Equal(t, "https://example.com/a?x=1", q.URL)
	assert.Empty(t, client.recentCalls)
}

func TestGetBookmarksInvalidDateFailsFast(t *testing.T) {
	client := &mockLinkhutClient{}
	a := newTestApp(client, nil)

	_, err := a.GetBookmarks(context.Background(), GetOptions{Date: "01/05/2024"})
	require.ErrorIs(t, err, apperr.ErrInvalidDateFormat)
	assert.Zero(t, client.calls())
}

func TestGetBookmarksNotFound(t *testing.T) {
	for name, posts := range map[string]*linkhut.PostsResult{
		"empty":      {Posts: []linkhut.Post{}},
		"went wrong": {ResultCode: "something went wrong"},
	} {
		client := &mockLinkhutClient{posts: posts}
		_, err := newTestApp(client, nil).GetBookmarks(context.Background(), GetOptions{URL: "https://example.com"})
		assert.ErrorIs(t, err, apperr.ErrBookmarkNotFound, name)
	}
}

func TestGetBookmarksPropagatesRequestErrors(t *testing.T) {
	client := &mockLinkhutClient{postsErr: &apperr.RequestError{Message: "boom", StatusCode: 500}}
	_, err := newTestApp(client, nil).GetBookmarks(context.Background(), GetOptions{})
	code, ok := apperr.StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, 500, code)
}

func TestCreateBookmarkInvalidURL(t *testing.T) {
	client := &mockLinkhutClient{}
	preview := &mockPreview{}
	a := newTestApp(client, preview)

	_, err := a.CreateBookmark(context.Background(), CreateOptions{URL: "not-a-url"})
	require.ErrorIs(t, err, apperr.ErrInvalidURL)
	assert.Zero(t, client.calls())
	assert.Zero(t, preview.calls)
}

func TestCreateBookmarkInvalidTags(t *testing.T) {
	client := &mockLinkhutClient{}
	_, err := newTestApp(client, nil).CreateBookmark(context.Background(), CreateOptions{URL: "https://example.com", Tags: "ok no.dots"})
	require.ErrorIs(t, err, apperr.ErrInvalidTagFormat)
	assert.Zero(t, client.calls())
}

func TestCreateBookmarkPayload(t *testing.T) {
	client := &mockLinkhutClient{}
	preview := &mockPreview{}
	a := newTestApp(client, preview)

	b, err := a.CreateBookmark(context.Background(), CreateOptions{
		URL:     "https://example.com/post",
		Title:   "Given",
		Note:    "note",
		Tags:    "go,web go",
		Private: true,
		ToRead:  true,
	})
	require.NoError(t, err)
	require.Len(t, client.addCalls, 1)
	assert.Equal(t, linkhut.AddRequest{
		URL:         "https://example.com/post",
		Description: "Given",
		Extended:    "note",
		Tags:        []string{"go", "web"},
		Replace:     false,
		Shared:      false,
		ToRead:      true,
	}, client.addCalls[0])
	assert.Zero(t, preview.calls)
	assert.Zero(t, client.suggestions)

	assert.Equal(t, "Given", b.Title)
	assert.False(t, b.Public)
	assert.True(t, b.ToRead)
}

func TestCreateBookmarkFetchesTitle(t *testing.T) {
	client := &mockLinkhutClient{}
	preview := &mockPreview{title: "Fetched"}
	b, err := newTestApp(client, preview).CreateBookmark(context.Background(), CreateOptions{URL: "https://example.com", Tags: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Fetched", b.Title)
	assert.Equal(t, "Fetched", client.addCalls[0].Description)
	assert.True(t, client.addCalls[0].Shared)
}

func TestCreateBookmarkTitleFallsBackToURL(t *testing.T) {
	client := &mockLinkhutClient{}
	preview := &mockPreview{err: errors.New("preview down")}
	b, err := newTestApp(client, preview).CreateBookmark(context.Background(), CreateOptions{URL: "https://example.com/x", Tags: "x"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x", b.Title)
	assert.Equal(t, 1, preview.calls)
}

func TestCreateBookmarkSuggestsTags(t *testing.T) {
	client := &mockLinkhutClient{suggested: []string{"go", "web", "bad tag", "go"}, suggestedOK: true}
	b, err := newTestApp(client, nil).CreateBookmark(context.Background(), CreateOptions{URL: "https://example.com", Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, 1, client.suggestions)
	assert.Equal(t, []string{"go", "web"}, client.addCalls[0].Tags)
	assert.Equal(t, []string{"go", "web"}, b.Tags.Strings())
}

func TestCreateBookmarkSuggestionFailureLeavesTagsEmpty(t *testing.T) {
	client := &mockLinkhutClient{suggestedOK: false}
	b, err := newTestApp(client, nil).CreateBookmark(context.Background(), CreateOptions{URL: "https://example.com", Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, 1, client.suggestions)
	assert.Empty(t, client.addCalls[0].Tags)
	assert.Zero(t, b.Tags.Len())
}

func TestCreateBookmarkSkipTagFetch(t *testing.T) {
	client := &mockLinkhutClient{suggested: []string{"go"}, suggestedOK: true}
	_, err := newTestApp(client, nil).CreateBookmark(context.Background(), CreateOptions{URL: "https://example.com", Title: "t", SkipTagFetch: true})
	require.NoError(t, err)
	assert.Zero(t, client.suggestions)
}

func TestCreateBookmarkFailures(t *testing.T) {
	exists := &mockLinkhutClient{addResult: &linkhut.Result{StatusCode: 200, ResultCode: "item already exists"}}
	_, err := newTestApp(exists, nil).CreateBookmark(context.Background(), CreateOptions{URL: "https://example.com", Title: "t", Tags: "x"})
	assert.ErrorIs(t, err, apperr.ErrBookmarkExists)

	failed := &mockLinkhutClient{addResult: &linkhut.Result{StatusCode: 200, ResultCode: "missing url"}}
	_, err = newTestApp(failed, nil).CreateBookmark(context.Background(), CreateOptions{URL: "https://example.com", Title: "t", Tags: "x"})
	assert.ErrorIs(t, err, apperr.ErrCreateFailed)
	assert.NotErrorIs(t, err, apperr.ErrBookmarkExists)

	transportErr := &mockLinkhutClient{addErr: &apperr.RequestError{Message: "down"}}
	_, err = newTestApp(transportErr, nil).CreateBookmark(context.Background(), CreateOptions{URL: "https://example.com", Title: "t", Tags: "x"})
	assert.ErrorIs(t, err, apperr.ErrRequest)
}

func TestUpdateBookmarkNothingToUpdate(t *testing.T) {
	client := &mockLinkhutClient{}
	_, err := newTestApp(client, nil).UpdateBookmark(context.Background(), UpdateOptions{URL: "https://example.com"})
	require.ErrorIs(t, err, apperr.ErrRequest)
	require.ErrorIs(t, err, apperr.ErrNothingToUpdate)
	assert.Zero(t, client.calls())
}

func TestUpdateBookmarkFallsBackToCreate(t *testing.T) {
	client := &mockLinkhutClient{posts: &linkhut.PostsResult{Posts: []linkhut.Post{}}}
	preview := &mockPreview{title: "Fresh"}

	b, err := newTestApp(client, preview).UpdateBookmark(context.Background(), UpdateOptions{URL: "https://example.com/new", Tags: "x"})
	require.NoError(t, err)
	require.Len(t, client.getCalls, 1)
	assert.Equal(t, "https://example.com/new", client.getCalls[0].URL)
	require.Len(t, client.addCalls, 1)
	assert.Equal(t, linkhut.AddRequest{
		URL:         "https://example.com/new",
		Description: "Fresh",
		Tags:        []string{"x"},
		Shared:      true,
	}, client.addCalls[0])
	assert.Equal(t, []string{"x"}, b.Tags.Strings())
}

func TestUpdateBookmarkNoOp(t *testing.T) {
	existing := mustPost(t, map[string]string{"shared": "no", "toread": "yes"})
	client := &mockLinkhutClient{posts: &linkhut.PostsResult{Posts: []linkhut.Post{existing}}}

	b, err := newTestApp(client, nil).UpdateBookmark(context.Background(), UpdateOptions{URL: existing.Href, Private: boolPtr(true)})
	require.NoError(t, err)
	assert.Empty(t, client.addCalls)
	assert.Equal(t, "Existing", b.Title)
	assert.False(t, b.Public)
	assert.True(t, b.ToRead)

	_, err = newTestApp(client, nil).UpdateBookmark(context.Background(), UpdateOptions{URL: existing.Href, Private: boolPtr(true), ToRead: boolPtr(true)})
	require.NoError(t, err)
	assert.Empty(t, client.addCalls)
}

func TestUpdateBookmarkAppends(t *testing.T) {
	existing := mustPost(t, map[string]string{"tags": "go", "extended": "old note"})
	client := &mockLinkhutClient{posts: &linkhut.PostsResult{Posts: []linkhut.Post{existing}}}
	preview := &mockPreview{}

	_, err := newTestApp(client, preview).UpdateBookmark(context.Background(), UpdateOptions{URL: existing.Href, Tags: "web", Note: "more"})
	require.NoError(t, err)
	require.Len(t, client.addCalls, 1)
	req := client.addCalls[0]
	assert.Equal(t, []string{"go", "web"}, req.Tags)
	assert.Equal(t, "old note more", req.Extended)
	assert.Equal(t, "Existing", req.Description)
	assert.True(t, req.Replace)
	assert.True(t, req.Shared)
	assert.False(t, req.ToRead)
	assert.Zero(t, client.suggestions)
	assert.Zero(t, preview.calls)
}

func TestUpdateBookmarkKeepsStoredTags(t *testing.T) {
	existing := mustPost(t, map[string]string{"tags": "c++ go", "shared": "no"})
	client := &mockLinkhutClient{posts: &linkhut.PostsResult{Posts: []linkhut.Post{existing}}}
	a := newTestApp(client, nil)

	b, err := a.UpdateBookmark(context.Background(), UpdateOptions{URL: existing.Href, Private: boolPtr(true)})
	require.NoError(t, err)
	assert.Empty(t, client.addCalls)
	assert.Equal(t, []string{"c++", "go"}, b.Tags.Strings())

	_, err = a.UpdateBookmark(context.Background(), UpdateOptions{URL: existing.Href, Note: "more"})
	require.NoError(t, err)
	require.Len(t, client.addCalls, 1)
	assert.Equal(t, []string{"c++", "go"}, client.addCalls[0].Tags)
	assert.Equal(t, "old note more", client.addCalls[0].Extended)

	_, err = a.UpdateBookmark(context.Background(), UpdateOptions{URL: existing.Href, Tags: "web"})
	require.NoError(t, err)
	require.Len(t, client.addCalls, 2)
	assert.Equal(t, []string{"c++", "go", "web"}, client.addCalls[1].Tags)

	_, err = a.UpdateBookmark(context.Background(), UpdateOptions{URL: existing.Href, Tags: "bad!"})
	require.ErrorIs(t, err, apperr.ErrInvalidTagFormat)
	assert.Len(t, client.addCalls, 2)
}

func TestUpdateBookmarkReplaces(t *testing.T) {
	existing := mustPost(t, map[string]string{"tags": "go", "extended": "old note"})
	client := &mockLinkhutClient{posts: &linkhut.PostsResult{Posts: []linkhut.Post{existing}}}

	_, err := newTestApp(client, nil).UpdateBookmark(context.Background(), UpdateOptions{URL: existing.Href, Tags: "rust", Replace: true, ToRead: boolPtr(true)})
	require.NoError(t, err)
	req := client.addCalls[0]
	assert.Equal(t, []string{"rust"}, req.Tags)
	assert.Empty(t, req.Extended)
	assert.True(t, req.ToRead)
}

func TestUpdateBookmarkFlipsFlagsOnly(t *testing.T) {
	existing := mustPost(t, map[string]string{"shared": "yes", "toread": "no"})
	client := &mockLinkhutClient{posts: &linkhut.PostsResult{Posts: []linkhut.Post{existing}}}

	_, err := newTestApp(client, nil).UpdateBookmark(context.Background(), UpdateOptions{URL: existing.Href, ToRead: boolPtr(true)})
	require.NoError(t, err)
	req := client.addCalls[0]
	assert.True(t, req.ToRead)
	assert.True(t, req.Shared)
	assert.Equal(t, []string{"go"}, req.Tags)
	assert.Equal(t, "old note", req.Extended)
}

func TestUpdateBookmarkSchemaMismatch(t *testing.T) {
	client := &mockLinkhutClient{postsErr: apperr.ErrSchemaMismatch}
	_, err := newTestApp(client, nil).UpdateBookmark(context.Background(), UpdateOptions{URL: "https://example.com", Note: "n"})
	require.ErrorIs(t, err, apperr.ErrSchemaMismatch)
	assert.Empty(t, client.addCalls)
}

func TestReadingList(t *testing.T) {
	client := &mockLinkhutClient{posts: &linkhut.PostsResult{Posts: []linkhut.Post{mustPost(t, nil)}}}
	posts, err := newTestApp(client, nil).ReadingList(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, []recentCall{{count: 5, tag: "unread"}}, client.recentCalls)

	empty := &mockLinkhutClient{}
	_, err = newTestApp(empty, nil).ReadingList(context.Background(), 3)
	require.ErrorIs(t, err, apperr.ErrBookmarkNotFound)
	assert.Contains(t, err.Error(), "reading list")
	assert.Equal(t, 3, empty.recentCalls[0].count)
}

func TestDeleteBookmark(t *testing.T) {
	client := &mockLinkhutClient{result: &linkhut.Result{StatusCode: 200, ResultCode: "done"}}
	a := newTestApp(client, nil)

	require.NoError(t, a.DeleteBookmark(context.Background(), "https://example.com/a"))
	assert.Equal(t, []string{"https://example.com/a"}, client.deleteCalls)

	client.result = &linkhut.Result{StatusCode: 200, ResultCode: "item not found"}
	assert.ErrorIs(t, a.DeleteBookmark(context.Background(), "https://example.com/a"), apperr.ErrBookmarkNotFound)

	assert.ErrorIs(t, a.DeleteBookmark(context.Background(), "example.com"), apperr.ErrInvalidURL)
	assert.Len(t, client.deleteCalls, 2)
}

func TestRenameTag(t *testing.T) {
	client := &mockLinkhutClient{result: &linkhut.Result{StatusCode: 200, ResultCode: "done"}}
	a := newTestApp(client, nil)

	require.NoError(t, a.RenameTag(context.Background(), "golang", "go"))
	assert.Equal(t, [][2]string{{"golang", "go"}}, client.renameCalls)

	assert.ErrorIs(t, a.RenameTag(context.Background(), "bad tag", "go"), apperr.ErrInvalidTagFormat)
	assert.ErrorIs(t, a.RenameTag(context.Background(), "go", "bad/tag"), apperr.ErrInvalidTagFormat)
	assert.Len(t, client.renameCalls, 1)

	client.result = &linkhut.Result{StatusCode: 200, ResultCode: "tag not found"}
	err := a.RenameTag(context.Background(), "golang", "go")
	require.ErrorIs(t, err, apperr.ErrRequest)
	assert.Contains(t, err.Error(), "tag not found")
}

func TestDeleteTag(t *testing.T) {
	client := &mockLinkhutClient{result: &linkhut.Result{StatusCode: 200, ResultCode: "done"}}
	a := newTestApp(client, nil)

	require.NoError(t, a.DeleteTag(context.Background(), "stale"))
	assert.ErrorIs(t, a.DeleteTag(context.Background(), ""), apperr.ErrInvalidTagFormat)
	assert.Equal(t, []string{"stale"}, client.tagDeletes)

	client.result = &linkhut.Result{StatusCode: 200, ResultCode: "something went wrong"}
	err := a.DeleteTag(context.Background(), "stale")
	require.ErrorIs(t, err, apperr.ErrRequest)
	assert.Contains(t, err.Error(), "something went wrong")
}
