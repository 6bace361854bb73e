package models

import "testing"

func TestParseOrdering(t *testing.T) {
	cases := []struct {
		name       string
		raw        string
		field      OrderField
		descending bool
		wantErr    bool
	}{
		{name: "empty defaults to uploaded_at desc", raw: "", field: OrderByUploadedAt, descending: true},
		{name: "uploaded_at asc", raw: "uploaded_at", field: OrderByUploadedAt},
		{name: "uploaded_at desc", raw: "-uploaded_at", field: OrderByUploadedAt, descending: true},
		{name: "size asc", raw: "size", field: OrderBySize},
		{name: "filename desc", raw: "-original_filename", field: OrderByOriginalFilename, descending: true},
		{name: "whitespace tolerated", raw: "  -size ", field: OrderBySize, descending: true},
		{name: "unknown field rejected", raw: "content_hash", wantErr: true},
		{name: "bare dash rejected", raw: "-", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ordering, err := ParseOrdering(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse %q: %v", tc.raw, err)
			}
			if ordering.Field != tc.field || ordering.Descending != tc.descending {
				t.Fatalf("parse %q: got %+v", tc.raw, ordering)
			}
		})
	}
}
