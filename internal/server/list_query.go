package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"filehub/internal/models"
	"filehub/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parseListQuery translates the list endpoint's query parameters into a
// catalog query. Unknown parameters are ignored; malformed values are
// rejected.
func parseListQuery(values url.Values) (store.ListQuery, error) {
	query := store.ListQuery{
		Search:   strings.TrimSpace(values.Get("search")),
		FileType: strings.TrimSpace(values.Get("file_type")),
		Page:     1,
		PageSize: defaultPageSize,
	}

	ordering, err := models.ParseOrdering(values.Get("ordering"))
	if err != nil {
		return query, badRequestCode(err, ErrCodeInvalidOrdering)
	}
	query.Ordering = ordering

	if raw := strings.TrimSpace(values.Get("is_duplicate")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return query, badRequestCode(fmt.Errorf("invalid is_duplicate value %q", raw), ErrCodeInvalidQuery)
		}
		query.IsDuplicate = &parsed
	}

	if query.MinSize, err = parseSizeParam(values, "min_size"); err != nil {
		return query, err
	}
	if query.MaxSize, err = parseSizeParam(values, "max_size"); err != nil {
		return query, err
	}
	if query.MinSize != nil && query.MaxSize != nil && *query.MinSize > *query.MaxSize {
		return query, badRequestCode(fmt.Errorf("min_size exceeds max_size"), ErrCodeInvalidQuery)
	}

	if query.UploadedAfter, err = parseTimeParam(values, "uploaded_after"); err != nil {
		return query, err
	}
	if query.UploadedBefore, err = parseTimeParam(values, "uploaded_before"); err != nil {
		return query, err
	}

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return query, badRequestCode(fmt.Errorf("invalid page %q", raw), ErrCodeInvalidPage)
		}
		query.Page = page
	}
	if raw := strings.TrimSpace(values.Get("page_size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return query, badRequestCode(fmt.Errorf("invalid page_size %q", raw), ErrCodeInvalidPage)
		}
		if size > maxPageSize {
			size = maxPageSize
		}
		query.PageSize = size
	}

	return query, nil
}

func parseSizeParam(values url.Values, key string) (*int64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed < 0 {
		return nil, badRequestCode(fmt.Errorf("invalid %s value %q", key, raw), ErrCodeInvalidQuery)
	}
	return &parsed, nil
}

func parseTimeParam(values url.Values, key string) (*time.Time, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			utc := parsed.UTC()
			return &utc, nil
		}
	}
	return nil, badRequestCode(fmt.Errorf("invalid %s value %q", key, raw), ErrCodeInvalidTimeFilter)
}

// listCacheKey derives the cache key from the sorted query string, so
// parameter order does not fragment the cache.
func listCacheKey(values url.Values) string {
	return values.Encode()
}
