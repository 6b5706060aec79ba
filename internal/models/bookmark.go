package models

// Bookmark is a saved link with its metadata.
type Bookmark struct {
	URL       URL    `json:"url"`
	Title     string `json:"title"`
	CreatedAt Date   `json:"created_at"`
	Note      string `json:"note,omitempty"`
	// Hash is the service-assigned identifier. Empty until the service returns one.
	Hash   string `json:"hash,omitempty"`
	Tags   TagSet `json:"tags"`
	Public bool   `json:"public"`
	ToRead bool   `json:"to_read"`
}

// BookmarkFields holds unvalidated input for NewBookmark.
type BookmarkFields struct {
	URL   string
	Title string
	// CreatedAt may be a time.Time, an ISO-8601 string or nil for now.
	CreatedAt any
	Note      string
	Hash      string
	// Tags accepts anything NewTagSet does.
	Tags   any
	Public bool
	ToRead bool
}

func NewBookmark(f BookmarkFields) (*Bookmark, error) {
	u, err := NewURL(f.URL)
	if err != nil {
		return nil, err
	}

	created := Now()
	if f.CreatedAt != nil {
		if created, err = NewDate(f.CreatedAt); err != nil {
			return nil, err
		}
	}

	tags, err := NewTagSet(f.Tags)
	if err != nil {
		return nil, err
	}

	return &Bookmark{
		URL:       u,
		Title:     f.Title,
		CreatedAt: created,
		Note:      f.Note,
		Hash:      f.Hash,
		Tags:      tags,
		Public:    f.Public,
		ToRead:    f.ToRead,
	}, nil
}
