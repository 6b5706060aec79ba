package linkhut

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"linkhut/internal/models"
	apperr "linkhut/internal/pkg/errors"
)

const (
	ResultDone          = "done"
	ResultWentWrong     = "something went wrong"
	ResultAlreadyExists = "item already exists"

	flagYes = "yes"
	flagNo  = "no"
)

var validate = validator.New()

// Post is a bookmark record as the service returns it.
type Post struct {
	Href        string    `json:"href"`
	Description string    `json:"description"`
	Extended    string    `json:"extended"`
	Hash        string    `json:"hash,omitempty"`
	Meta        string    `json:"meta,omitempty"`
	Tags        string    `json:"tags"`
	Time        time.Time `json:"time"`
	Shared      string    `json:"shared"`
	ToRead      string    `json:"toread"`
}

// postWire is the decoding shape of Post. Pointer fields let validation tell
// a missing key from an empty value.
type postWire struct {
	Href        *string `json:"href" validate:"required"`
	Description *string `json:"description" validate:"required"`
	Extended    *string `json:"extended" validate:"required"`
	Hash        string  `json:"hash"`
	Meta        string  `json:"meta"`
	Tags        *string `json:"tags"`
	Tag         *string `json:"tag"`
	Time        string  `json:"time"`
	Shared      *string `json:"shared" validate:"required"`
	ToRead      *string `json:"toread" validate:"required"`
}

func (p *Post) UnmarshalJSON(data []byte) error {
	var w postWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrSchemaMismatch, err)
	}
	if err := validate.Struct(w); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			missing := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				missing = append(missing, strings.ToLower(fe.Field()))
			}
			return fmt.Errorf("%w: missing required fields %v", apperr.ErrSchemaMismatch, missing)
		}
		return fmt.Errorf("%w: %v", apperr.ErrSchemaMismatch, err)
	}

	tags := w.Tags
	if tags == nil {
		tags = w.Tag
	}
	if tags == nil {
		return fmt.Errorf("%w: missing required fields [tags]", apperr.ErrSchemaMismatch)
	}

	var ts time.Time
	if w.Time != "" {
		t, err := models.ValidateDate(w.Time)
		if err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrSchemaMismatch, err)
		}
		ts = t
	}

	*p = Post{
		Href:        *w.Href,
		Description: *w.Description,
		Extended:    *w.Extended,
		Hash:        w.Hash,
		Meta:        w.Meta,
		Tags:        *tags,
		Time:        ts,
		Shared:      *w.Shared,
		ToRead:      *w.ToRead,
	}
	return nil
}

// IsPublic reports the shared flag.
func (p Post) IsPublic() bool {
	return p.Shared == flagYes
}

func (p Post) IsPrivate() bool {
	return !p.IsPublic()
}

func (p Post) IsToRead() bool {
	return p.ToRead == flagYes
}

// Bookmark maps the record onto the domain model. Tags are taken as stored.
func (p Post) Bookmark() (*models.Bookmark, error) {
	var created any
	if !p.Time.IsZero() {
		created = p.Time
	}
	return models.NewBookmark(models.BookmarkFields{
		URL:       p.Href,
		Title:     p.Description,
		CreatedAt: created,
		Note:      p.Extended,
		Hash:      p.Hash,
		Tags:      models.StoredTags(p.Tags),
		Public:    p.IsPublic(),
		ToRead:    p.IsToRead(),
	})
}

// PostsResult is the envelope of posts/get and posts/recent.
type PostsResult struct {
	Date       string `json:"date,omitempty"`
	User       string `json:"user,omitempty"`
	Posts      []Post `json:"posts"`
	ResultCode string `json:"result_code,omitempty"`
}

// Result is the generic {"result_code": ...} reply of write endpoints.
type Result struct {
	StatusCode int    `json:"-"`
	ResultCode string `json:"result_code"`
}

func (r *Result) Done() bool {
	return r != nil && r.StatusCode == 200 && r.ResultCode == ResultDone
}

// GetQuery filters posts/get. Tags are sent space separated and Date as
// RFC 3339 in UTC.
type GetQuery struct {
	Tags []string
	Date models.Date
	URL  string
}

// AddRequest is the payload of posts/add.
type AddRequest struct {
	URL         string
	Description string
	Extended    string
	Tags        []string
	Replace     bool
	Shared      bool
	ToRead      bool
}

func yesNo(b bool) string {
	if b {
		return flagYes
	}
	return flagNo
}
