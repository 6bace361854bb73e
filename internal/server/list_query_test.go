package server

import (
	"net/url"
	"testing"
	"time"

	"filehub/internal/models"
)

func TestParseListQuery_Defaults(t *testing.T) {
	query, err := parseListQuery(url.Values{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if query.Page != 1 || query.PageSize != defaultPageSize {
		t.Fatalf("unexpected pagination defaults %+v", query)
	}
	if query.Ordering != models.DefaultOrdering() {
		t.Fatalf("expected default ordering, got %+v", query.Ordering)
	}
	if query.IsDuplicate != nil || query.MinSize != nil || query.UploadedAfter != nil {
		t.Fatalf("expected nil filters, got %+v", query)
	}
}

func TestParseListQuery_AllParams(t *testing.T) {
	values := url.Values{
		"search":          {"report"},
		"file_type":       {"application/pdf"},
		"is_duplicate":    {"true"},
		"ordering":        {"-size"},
		"min_size":        {"100"},
		"max_size":        {"5000"},
		"uploaded_after":  {"2026-01-01"},
		"uploaded_before": {"2026-06-30T12:00:00Z"},
		"page":            {"3"},
		"page_size":       {"25"},
	}
	query, err := parseListQuery(values)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if query.Search != "report" || query.FileType != "application/pdf" {
		t.Fatalf("unexpected text filters %+v", query)
	}
	if query.IsDuplicate == nil || !*query.IsDuplicate {
		t.Fatal("expected is_duplicate true")
	}
	if query.Ordering.Field != models.OrderBySize || !query.Ordering.Descending {
		t.Fatalf("unexpected ordering %+v", query.Ordering)
	}
	if *query.MinSize != 100 || *query.MaxSize != 5000 {
		t.Fatalf("unexpected size range %+v", query)
	}
	wantAfter := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if !query.UploadedAfter.Equal(wantAfter) {
		t.Fatalf("unexpected uploaded_after %v", query.UploadedAfter)
	}
	if query.Page != 3 || query.PageSize != 25 {
		t.Fatalf("unexpected pagination %+v", query)
	}
}

func TestParseListQuery_PageSizeCapped(t *testing.T) {
	query, err := parseListQuery(url.Values{"page_size": {"9999"}})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if query.PageSize != maxPageSize {
		t.Fatalf("expected cap at %d, got %d", maxPageSize, query.PageSize)
	}
}

func TestParseListQuery_Invalid(t *testing.T) {
	tests := []url.Values{
		{"ordering": {"nonsense"}},
		{"ordering": {"-nonsense"}},
		{"is_duplicate": {"maybe"}},
		{"min_size": {"-1"}},
		{"max_size": {"abc"}},
		{"min_size": {"10"}, "max_size": {"5"}},
		{"uploaded_after": {"not-a-date"}},
		{"page": {"0"}},
		{"page_size": {"-2"}},
	}
	for _, values := range tests {
		if _, err := parseListQuery(values); err == nil {
			t.Fatalf("expected error for %v", values)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, pageSize, want int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 25, 4},
	}
	for _, tc := range tests {
		if got := totalPages(tc.count, tc.pageSize); got != tc.want {
			t.Fatalf("totalPages(%d, %d) = %d, want %d", tc.count, tc.pageSize, got, tc.want)
		}
	}
}
