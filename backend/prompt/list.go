package prompt

import (
	"errors"
	"strings"
)

// SortKey names a column prompts may be ordered by.
type SortKey string

const (
	SortCreatedAt  SortKey = "created_at"
	SortTitle      SortKey = "title"
	SortIsFavorite SortKey = "is_favorite"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	Ascending  SortOrder = "ASC"
	Descending SortOrder = "DESC"
)

var ErrInvalidSort = errors.New("invalid sort key or order")

// ListOptions filters and orders a prompt listing. The zero value lists
// every prompt, newest first.
type ListOptions struct {
	Search string
	Sort   SortKey
	Order  SortOrder
}

// Normalize fills in defaults and rejects anything outside the allow-lists.
func (o *ListOptions) Normalize() error {
	key, err := ParseSortKey(string(o.Sort))
	if err != nil {
		return err
	}
	order, err := ParseSortOrder(string(o.Order))
	if err != nil {
		return err
	}
	o.Sort, o.Order = key, order
	return nil
}

// ParseSortKey maps user input onto an allowed sort key.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortCreatedAt, SortTitle, SortIsFavorite:
		return k, nil
	case "":
		return SortCreatedAt, nil
	}
	return "", ErrInvalidSort
}

// ParseSortOrder accepts asc/desc in any case.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToUpper(strings.TrimSpace(s))); o {
	case Ascending, Descending:
		return o, nil
	case "":
		return Descending, nil
	}
	return "", ErrInvalidSort
}
