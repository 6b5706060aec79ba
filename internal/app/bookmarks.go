package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"linkhut/internal/linkhut"
	"linkhut/internal/logger"
	"linkhut/internal/models"
	apperr "linkhut/internal/pkg/errors"
)

const (
	defaultRecentCount      = 15
	defaultReadingListCount = 5
	readingListTag          = "unread"
)

// GetOptions selects bookmarks. Count picks the recent endpoint; otherwise
// any of Tag, Date or URL filters posts/get.
type GetOptions struct {
	Tag   string
	Date  string
	URL   string
	Count int
}

// GetBookmarks returns the records matching opts in the service's own shape.
func (a *App) GetBookmarks(ctx context.Context, opts GetOptions) ([]linkhut.Post, error) {
	var (
		result *linkhut.PostsResult
		err    error
	)

	switch {
	case opts.Count > 0:
		var tag string
		// posts/recent accepts a single tag.
		if tags := models.SplitTags(opts.Tag); len(tags) > 0 {
			tag = tags[0]
			a.Logger.Debug("using first tag for recent posts", logger.String("tag", tag))
		}
		result, err = a.LinkhutClient.RecentPosts(ctx, opts.Count, tag)
	case opts.Tag != "" || opts.Date != "" || opts.URL != "":
		q := linkhut.GetQuery{Tags: models.SplitTags(opts.Tag), URL: opts.URL}
		if opts.Date != "" {
			date, err := models.NewDate(opts.Date)
			if err != nil {
				return nil, err
			}
			q.Date = date
		}
		result, err = a.LinkhutClient.GetPosts(ctx, q)
	default:
		result, err = a.LinkhutClient.RecentPosts(ctx, a.recentCount(), "")
	}
	if err != nil {
		return nil, err
	}

	if len(result.Posts) == 0 || result.ResultCode == linkhut.ResultWentWrong {
		a.Logger.Warn("no bookmarks found")
		return nil, fmt.Errorf("%w: no bookmarks found for the given criteria", apperr.ErrBookmarkNotFound)
	}
	return result.Posts, nil
}

// CreateOptions describes a new bookmark. Title and Tags are looked up when
// empty unless SkipTagFetch is set.
type CreateOptions struct {
	URL          string
	Title        string
	Note         string
	Tags         string
	SkipTagFetch bool
	Private      bool
	ToRead       bool
	Replace      bool
}

// CreateBookmark saves a bookmark, replacing an existing one only when
// opts.Replace is set.
func (a *App) CreateBookmark(ctx context.Context, opts CreateOptions) (*models.Bookmark, error) {
	if err := models.ValidateURL(opts.URL); err != nil {
		return nil, err
	}

	tags, err := models.ParseTags(opts.Tags)
	if err != nil {
		return nil, err
	}
	return a.save(ctx, opts, tags)
}

// save writes a bookmark whose URL and tags are already checked. opts.Tags is
// ignored in favour of tags.
func (a *App) save(ctx context.Context, opts CreateOptions, tags models.TagSet) (*models.Bookmark, error) {
	title := opts.Title
	if title == "" {
		title = a.fetchTitle(ctx, opts.URL)
	}

	if tags.Len() == 0 && !opts.SkipTagFetch {
		tags = a.suggestTags(ctx, opts.URL)
	}

	bookmark, err := models.NewBookmark(models.BookmarkFields{
		URL:    opts.URL,
		Title:  title,
		Note:   opts.Note,
		Tags:   tags,
		Public: !opts.Private,
		ToRead: opts.ToRead,
	})
	if err != nil {
		return nil, err
	}

	result, err := a.LinkhutClient.AddPost(ctx, linkhut.AddRequest{
		URL:         bookmark.URL.String(),
		Description: bookmark.Title,
		Extended:    bookmark.Note,
		Tags:        bookmark.Tags.Strings(),
		Replace:     opts.Replace,
		Shared:      bookmark.Public,
		ToRead:      bookmark.ToRead,
	})
	if err != nil {
		return nil, err
	}

	if result.Done() {
		a.Logger.Debug("bookmark created", logger.String("url", opts.URL))
		return bookmark, nil
	}

	a.Logger.Warn("failed to create bookmark",
		logger.String("url", opts.URL),
		logger.String("result_code", result.ResultCode),
		logger.Int("status", result.StatusCode),
	)
	if result.ResultCode == linkhut.ResultAlreadyExists {
		return nil, fmt.Errorf("%w: %s", apperr.ErrBookmarkExists, opts.URL)
	}
	return nil, fmt.Errorf("%w: result code %q", apperr.ErrCreateFailed, result.ResultCode)
}

// fetchTitle never fails; the URL stands in for a missing title.
func (a *App) fetchTitle(ctx context.Context, pageURL string) string {
	if a.Preview == nil {
		return pageURL
	}
	title, err := a.Preview.Title(ctx, pageURL)
	if err != nil {
		a.Logger.Error("error fetching the title", logger.String("url", pageURL), logger.Error(err))
		return pageURL
	}
	return title
}

// suggestTags keeps only suggestions that are valid tag names.
func (a *App) suggestTags(ctx context.Context, pageURL string) models.TagSet {
	suggested, ok := a.LinkhutClient.SuggestTags(ctx, pageURL)
	if !ok {
		return models.TagSet{}
	}

	valid := make([]string, 0, len(suggested))
	for _, name := range suggested {
		if _, err := models.ValidateTagName(name); err != nil {
			a.Logger.Debug("dropping suggested tag", logger.String("tag", name), logger.Error(err))
			continue
		}
		valid = append(valid, name)
	}
	a.Logger.Debug("suggested tags", logger.String("url", pageURL), logger.Strings("tags", valid))
	tags, _ := models.NewTagSet(valid)
	return tags
}

// UpdateOptions changes an existing bookmark. Nil flags are left as they are.
// Without Replace, Tags and Note are appended to the current values.
type UpdateOptions struct {
	URL     string
	Tags    string
	Note    string
	Private *bool
	ToRead  *bool
	Replace bool
}

func (o UpdateOptions) empty() bool {
	return o.Tags == "" && o.Note == "" && o.Private == nil && o.ToRead == nil
}

// UpdateBookmark edits the bookmark at opts.URL, creating it when it does not
// exist yet.
func (a *App) UpdateBookmark(ctx context.Context, opts UpdateOptions) (*models.Bookmark, error) {
	if opts.empty() {
		a.Logger.Debug("no updates provided")
		return nil, apperr.ErrNothingToUpdate
	}
	if err := models.ValidateURL(opts.URL); err != nil {
		return nil, err
	}

	posts, err := a.GetBookmarks(ctx, GetOptions{URL: opts.URL})
	if errors.Is(err, apperr.ErrBookmarkNotFound) {
		a.Logger.Debug("bookmark not found, creating it", logger.String("url", opts.URL))
		return a.CreateBookmark(ctx, CreateOptions{
			URL:     opts.URL,
			Tags:    opts.Tags,
			Note:    opts.Note,
			Private: valueOr(opts.Private, false),
			ToRead:  valueOr(opts.ToRead, false),
		})
	}
	if err != nil {
		return nil, err
	}
	existing := posts[0]

	currentPrivate := existing.IsPrivate()
	currentToRead := existing.IsToRead()
	private := valueOr(opts.Private, currentPrivate)
	toRead := valueOr(opts.ToRead, currentToRead)

	if opts.Tags == "" && opts.Note == "" && private == currentPrivate && toRead == currentToRead {
		a.Logger.Info("bookmark already has the desired status", logger.String("url", opts.URL))
		return existing.Bookmark()
	}

	a.Logger.Info("updating existing bookmark",
		logger.String("url", opts.URL),
		logger.Bool("private", private),
		logger.Bool("to_read", toRead),
	)

	// Only the caller's tags are checked; stored ones are the service's.
	tags, err := models.ParseTags(opts.Tags)
	if err != nil {
		return nil, err
	}
	note := opts.Note
	if !opts.Replace {
		tags = models.StoredTags(existing.Tags).Union(tags)
		note = appendField(existing.Extended, opts.Note)
	}

	return a.save(ctx, CreateOptions{
		URL:          opts.URL,
		Title:        existing.Description,
		Note:         note,
		SkipTagFetch: true,
		Private:      private,
		ToRead:       toRead,
		Replace:      true,
	}, tags)
}

func appendField(current, addition string) string {
	if addition == "" {
		return current
	}
	return strings.TrimSpace(current + " " + addition)
}

func valueOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// ReadingList returns up to count bookmarks tagged unread; count <= 0 means
// the configured default.
func (a *App) ReadingList(ctx context.Context, count int) ([]linkhut.Post, error) {
	if count <= 0 {
		count = a.readingListCount()
	}
	posts, err := a.GetBookmarks(ctx, GetOptions{Tag: readingListTag, Count: count})
	if errors.Is(err, apperr.ErrBookmarkNotFound) {
		a.Logger.Info("no bookmarks found in the reading list")
		return nil, fmt.Errorf("%w: no bookmarks found in the reading list", apperr.ErrBookmarkNotFound)
	}
	return posts, err
}

// DeleteBookmark removes the bookmark saved for bookmarkURL.
func (a *App) DeleteBookmark(ctx context.Context, bookmarkURL string) error {
	if err := models.ValidateURL(bookmarkURL); err != nil {
		return err
	}

	result, err := a.LinkhutClient.DeletePost(ctx, bookmarkURL)
	if err != nil {
		return err
	}
	if result.ResultCode != linkhut.ResultDone {
		a.Logger.Error("unable to delete bookmark", logger.String("url", bookmarkURL), logger.String("result_code", result.ResultCode))
		return fmt.Errorf("%w: unable to delete bookmark with URL %s, bookmark may not exist", apperr.ErrBookmarkNotFound, bookmarkURL)
	}
	a.Logger.Debug("bookmark deleted", logger.String("url", bookmarkURL))
	return nil
}
