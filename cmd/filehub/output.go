package main

import (
	"fmt"
	"os"
	"time"

	"filehub/internal/api"
	"filehub/internal/format"
)

// outputFormatter is nil in text mode; structured modes set it from the
// -o flag.
var outputFormatter format.Formatter

func selectOutputFormatter(name string) error {
	switch name {
	case "", "text":
		outputFormatter = nil
	case "json":
		outputFormatter = format.JSONFormatter{}
	case "yaml":
		outputFormatter = format.YAMLFormatter{}
	default:
		return fmt.Errorf("unknown output format %q (expected text, json, or yaml)", name)
	}
	return nil
}

func structuredOutput() bool {
	return outputFormatter != nil
}

func writeStructured(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeFileLine(file api.FileResponse) error {
	marker := " "
	if file.IsDuplicate {
		marker = "*"
	}
	return writePlain("%s %s %10d  %s  %s\n",
		marker, file.ID, file.Size, formatTime(file.UploadedAt), file.OriginalFilename)
}

func writeFileDetail(file api.FileResponse) error {
	lines := []string{
		fmt.Sprintf("id: %s", file.ID),
		fmt.Sprintf("original_filename: %s", file.OriginalFilename),
		fmt.Sprintf("file_type: %s", file.FileType),
		fmt.Sprintf("size: %d", file.Size),
		fmt.Sprintf("uploaded_at: %s", formatTime(file.UploadedAt)),
		fmt.Sprintf("file_hash: %s", file.FileHash),
		fmt.Sprintf("is_duplicate: %t", file.IsDuplicate),
		fmt.Sprintf("download_url: %s", file.DownloadURL),
	}
	for _, line := range lines {
		if err := writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
