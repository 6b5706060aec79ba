package models

import (
	"encoding/json"
	"time"
)

// Date is a validated point in time.
type Date struct {
	t time.Time
}

// NewDate accepts a time.Time or an ISO-8601 string.
func NewDate(v any) (Date, error) {
	t, err := ValidateDate(v)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

// Now returns the current time as a Date.
func Now() Date {
	return Date{t: time.Now()}
}

func (d Date) Time() time.Time {
	return d.t
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) String() string {
	return d.t.Format(time.RFC3339)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
