package main

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"filehub/internal/api"
	"filehub/internal/config"
)

func newListCmd(cfg *config.Config) *cobra.Command {
	var (
		search         string
		fileType       string
		duplicatesOnly bool
		uniqueOnly     bool
		ordering       string
		minSize        int64
		maxSize        int64
		uploadedAfter  string
		uploadedBefore string
		page           int
		pageSize       int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored files",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if search != "" {
				query.Set("search", search)
			}
			if fileType != "" {
				query.Set("file_type", fileType)
			}
			if duplicatesOnly {
				query.Set("is_duplicate", "true")
			}
			if uniqueOnly {
				query.Set("is_duplicate", "false")
			}
			if ordering != "" {
				query.Set("ordering", ordering)
			}
			if minSize > 0 {
				query.Set("min_size", strconv.FormatInt(minSize, 10))
			}
			if maxSize > 0 {
				query.Set("max_size", strconv.FormatInt(maxSize, 10))
			}
			if uploadedAfter != "" {
				query.Set("uploaded_after", uploadedAfter)
			}
			if uploadedBefore != "" {
				query.Set("uploaded_before", uploadedBefore)
			}
			if page > 1 {
				query.Set("page", strconv.Itoa(page))
			}
			if pageSize > 0 {
				query.Set("page_size", strconv.Itoa(pageSize))
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.ListFiles(cmd.Context(), query)
				if err != nil {
					return err
				}
				if structuredOutput() {
					return writeStructured(resp)
				}
				for _, file := range resp.Results {
					if err := writeFileLine(file); err != nil {
						return err
					}
				}
				return writePlain("page %d of %d (%d files)\n", resp.CurrentPage, resp.TotalPages, resp.Count)
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "case-insensitive filename substring")
	cmd.Flags().StringVar(&fileType, "file-type", "", "exact media type filter")
	cmd.Flags().BoolVar(&duplicatesOnly, "duplicates", false, "only records marked duplicate")
	cmd.Flags().BoolVar(&uniqueOnly, "unique", false, "only records not marked duplicate")
	cmd.Flags().StringVar(&ordering, "ordering", "", `sort key: uploaded_at, size, or original_filename; prefix "-" for descending`)
	cmd.Flags().Int64Var(&minSize, "min-size", 0, "minimum size in bytes")
	cmd.Flags().Int64Var(&maxSize, "max-size", 0, "maximum size in bytes")
	cmd.Flags().StringVar(&uploadedAfter, "uploaded-after", "", "RFC 3339 timestamp or YYYY-MM-DD date")
	cmd.Flags().StringVar(&uploadedBefore, "uploaded-before", "", "RFC 3339 timestamp or YYYY-MM-DD date")
	cmd.Flags().IntVar(&page, "page", 1, "1-based page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "records per page")
	cmd.MarkFlagsMutuallyExclusive("duplicates", "unique")
	return cmd
}
