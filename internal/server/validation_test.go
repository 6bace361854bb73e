package server

import (
	"strings"
	"testing"
)

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "report.pdf", "report.pdf", false},
		{"trims whitespace", "  notes.txt  ", "notes.txt", false},
		{"strips directories", "../../etc/passwd", "passwd", false},
		{"strips absolute path", "/var/data/file.bin", "file.bin", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"bare dot", ".", "", true},
		{"too long", strings.Repeat("x", 300), "", true},
		{"null byte", "bad\x00name", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := validateFilename(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeMediaType(t *testing.T) {
	got, err := normalizeMediaType("Text/Plain; charset=utf-8")
	if err != nil || got != "text/plain" {
		t.Fatalf("expected text/plain, got %q (%v)", got, err)
	}

	got, err = normalizeMediaType("")
	if err != nil || got != "" {
		t.Fatalf("expected empty passthrough, got %q (%v)", got, err)
	}

	if _, err := normalizeMediaType("not a media type at all"); err == nil {
		t.Fatal("expected error for malformed media type")
	}
}

func TestResolveMediaType_Allowlist(t *testing.T) {
	svc := &FileService{allowedMediaTypes: map[string]struct{}{"image/png": {}}}

	got, err := svc.resolveMediaType("image/png")
	if err != nil || got != "image/png" {
		t.Fatalf("expected image/png, got %q (%v)", got, err)
	}

	if _, err := svc.resolveMediaType("application/pdf"); err == nil {
		t.Fatal("expected rejection of disallowed media type")
	}
}

func TestResolveMediaType_Fallback(t *testing.T) {
	svc := &FileService{}
	got, err := svc.resolveMediaType("")
	if err != nil || got != fallbackMediaType {
		t.Fatalf("expected fallback, got %q (%v)", got, err)
	}
}
