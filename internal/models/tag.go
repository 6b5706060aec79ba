package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	apperr "linkhut/internal/pkg/errors"
)

// Tag is a validated tag name. Build one with NewTag.
type Tag struct {
	name string
}

func NewTag(name string) (Tag, error) {
	if _, err := ValidateTagName(name); err != nil {
		return Tag{}, err
	}
	return Tag{name: name}, nil
}

func (t Tag) String() string {
	return t.name
}

// TagSet is an unordered set of unique tags.
type TagSet struct {
	tags map[string]Tag
}

// NewTagSet builds a set from a delimited string (commas, semicolons or
// whitespace), a []string, a []Tag, or a []any holding only one of those
// element kinds.
func NewTagSet(v any) (TagSet, error) {
	switch tags := v.(type) {
	case nil:
		return TagSet{}, nil
	case string:
		return ParseTags(tags)
	case []string:
		return tagSetFromStrings(tags)
	case []Tag:
		return tagSetFromTags(tags), nil
	case TagSet:
		return tags, nil
	case []any:
		return tagSetFromAny(tags)
	default:
		return TagSet{}, fmt.Errorf("%w: tags must be a delimited string, list of strings, or list of tags, got %T", apperr.ErrInvalidTagFormat, v)
	}
}

// ParseTags splits a comma, semicolon or whitespace delimited list.
func ParseTags(s string) (TagSet, error) {
	return tagSetFromStrings(SplitTags(s))
}

// StoredTags rebuilds a set from a tag string the service already accepted.
// The names are kept as they are; the service may hold tags that NewTag
// would reject.
func StoredTags(s string) TagSet {
	names := SplitTags(s)
	set := TagSet{tags: make(map[string]Tag, len(names))}
	for _, name := range names {
		set.tags[name] = Tag{name: name}
	}
	return set
}

// SplitTags splits s on commas, semicolons and whitespace, dropping empties.
func SplitTags(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

func tagSetFromStrings(names []string) (TagSet, error) {
	set := TagSet{tags: make(map[string]Tag, len(names))}
	for _, name := range names {
		tag, err := NewTag(name)
		if err != nil {
			return TagSet{}, err
		}
		set.tags[tag.name] = tag
	}
	return set, nil
}

func tagSetFromTags(tags []Tag) TagSet {
	set := TagSet{tags: make(map[string]Tag, len(tags))}
	for _, tag := range tags {
		set.tags[tag.name] = tag
	}
	return set
}

func tagSetFromAny(items []any) (TagSet, error) {
	var names []string
	var tags []Tag
	for _, item := range items {
		switch v := item.(type) {
		case string:
			names = append(names, v)
		case Tag:
			tags = append(tags, v)
		default:
			return TagSet{}, fmt.Errorf("%w: unsupported tag element type %T", apperr.ErrInvalidTagFormat, item)
		}
	}
	if len(names) > 0 && len(tags) > 0 {
		return TagSet{}, fmt.Errorf("%w: mixed tag types not allowed", apperr.ErrInvalidTagFormat)
	}
	if len(tags) > 0 {
		return tagSetFromTags(tags), nil
	}
	return tagSetFromStrings(names)
}

func (s TagSet) Len() int {
	return len(s.tags)
}

// Union returns a new set holding the tags of both s and other.
func (s TagSet) Union(other TagSet) TagSet {
	out := TagSet{tags: make(map[string]Tag, len(s.tags)+len(other.tags))}
	for k, v := range s.tags {
		out.tags[k] = v
	}
	for k, v := range other.tags {
		out.tags[k] = v
	}
	return out
}

// Strings returns the tag names sorted.
func (s TagSet) Strings() []string {
	names := make([]string, 0, len(s.tags))
	for name := range s.tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *TagSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidTagFormat, err)
	}
	set, err := tagSetFromStrings(names)
	if err != nil {
		return err
	}
	*s = set
	return nil
}
