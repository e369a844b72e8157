package models

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Listing is a decoded list endpoint. Total is the number of records the
// backend holds, which can exceed len(Items) for paginated responses.
type Listing[T any] struct {
	Items []T
	Total int
}

// NewListing builds a listing whose total equals its length.
func NewListing[T any](items ...T) Listing[T] {
	return Listing[T]{Items: items, Total: len(items)}
}

// UnmarshalJSON accepts a bare array or a {count, results} envelope.
func (l *Listing[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*l = Listing[T]{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		l.Items = items
		l.Total = len(items)
		return nil
	}

	var env struct {
		Count   *int `json:"count"`
		Results []T  `json:"results"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	l.Items = env.Results
	l.Total = len(env.Results)
	if env.Count != nil && *env.Count > l.Total {
		l.Total = *env.Count
	}
	return nil
}
