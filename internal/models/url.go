package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	apperr "linkhut/internal/pkg/errors"
)

const maxURLLength = 2048

var validate = validator.New()

// URL is an absolute http(s) URL. Build one with NewURL.
type URL struct {
	raw string
}

func NewURL(raw string) (URL, error) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return URL{}, fmt.Errorf("%w: url must start with http:// or https://: %q", apperr.ErrInvalidURL, raw)
	}
	if len(raw) > maxURLLength {
		return URL{}, fmt.Errorf("%w: url length exceeds %d characters", apperr.ErrInvalidURL, maxURLLength)
	}
	if err := validate.Var(raw, "http_url"); err != nil {
		return URL{}, fmt.Errorf("%w: %q", apperr.ErrInvalidURL, raw)
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return URL{}, fmt.Errorf("%w: %q has no host", apperr.ErrInvalidURL, raw)
	}
	return URL{raw: raw}, nil
}

// ValidateURL reports whether raw is an acceptable bookmark URL.
func ValidateURL(raw string) error {
	_, err := NewURL(raw)
	return err
}

func (u URL) String() string {
	return u.raw
}

func (u URL) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.raw)
}
