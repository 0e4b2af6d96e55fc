// Package dto converts between transport payloads and service view objects.
package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ParseID parses a path identifier, naming the field in the error.
func ParseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	return id, nil
}

// Defaults applied when a list request omits pagination parameters. An
// explicit value is passed through as-is; the service bounds it.
const (
	defaultPage     = 1
	defaultPageSize = 20
)

// PageQuery is the pagination pair shared by every list endpoint.
type PageQuery struct {
	Page     int
	PageSize int
}

// ParsePageQuery reads page/page_size from query parameters. Absent values
// default to the first standard-sized page; explicit values, including zero
// and negatives, reach the service unchanged so it can reject them.
func ParsePageQuery(values url.Values) (PageQuery, error) {
	var q PageQuery
	var err error
	if q.Page, err = parseIntParam(values, "page", defaultPage); err != nil {
		return PageQuery{}, err
	}
	if q.PageSize, err = parseIntParam(values, "page_size", defaultPageSize); err != nil {
		return PageQuery{}, err
	}
	return q, nil
}

func parseIntParam(values url.Values, key string, fallback int) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// FormatTime renders timestamps the same way everywhere.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
