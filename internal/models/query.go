package models

import (
	"fmt"
	"strings"
)

// OrderField enumerates the columns list results may be sorted by.
type OrderField string

const (
	OrderByUploadedAt       OrderField = "uploaded_at"
	OrderBySize             OrderField = "size"
	OrderByOriginalFilename OrderField = "original_filename"
)

var validOrderFields = map[OrderField]struct{}{
	OrderByUploadedAt:       {},
	OrderBySize:             {},
	OrderByOriginalFilename: {},
}

// Ordering is a validated sort key plus direction.
type Ordering struct {
	Field      OrderField
	Descending bool
}

// DefaultOrdering sorts newest uploads first.
func DefaultOrdering() Ordering {
	return Ordering{Field: OrderByUploadedAt, Descending: true}
}

// ParseOrdering parses an ordering expression of the form "field" or
// "-field" where a leading dash requests descending order. Fields outside
// the enumerated set are rejected.
func ParseOrdering(raw string) (Ordering, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return DefaultOrdering(), nil
	}

	descending := false
	if strings.HasPrefix(value, "-") {
		descending = true
		value = value[1:]
	}

	field := OrderField(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := validOrderFields[field]; !ok {
		return Ordering{}, fmt.Errorf("invalid ordering field: %s", field)
	}
	return Ordering{Field: field, Descending: descending}, nil
}
