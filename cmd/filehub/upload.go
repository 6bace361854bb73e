package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"filehub/internal/api"
	"filehub/internal/config"
)

func newUploadCmd(cfg *config.Config) *cobra.Command {
	var mediaType string
	var declaredSHA string
	var filename string

	cmd := &cobra.Command{
		Use:   "upload <path> [<path>...]",
		Short: "Upload files to the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 && (filename != "" || declaredSHA != "") {
				return fmt.Errorf("--filename and --sha256 require a single path")
			}

			return withClient(cfg, func(client *api.Client) error {
				for _, path := range args {
					f, err := os.Open(path)
					if err != nil {
						return err
					}
					info, err := f.Stat()
					if err != nil {
						f.Close()
						return err
					}

					name := filename
					if name == "" {
						name = filepath.Base(path)
					}
					resp, err := client.UploadFile(cmd.Context(), api.UploadRequest{
						Filename:       name,
						MediaType:      mediaType,
						DeclaredSHA256: declaredSHA,
						DeclaredSize:   info.Size(),
						Content:        f,
					})
					f.Close()
					if err != nil {
						return err
					}

					if structuredOutput() {
						if err := writeStructured(resp); err != nil {
							return err
						}
						continue
					}
					if err := writeFileLine(resp); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&mediaType, "media-type", "", "media type for the uploaded content")
	cmd.Flags().StringVar(&declaredSHA, "sha256", "", "expected SHA-256 of the content, verified server-side")
	cmd.Flags().StringVar(&filename, "filename", "", "stored filename (defaults to the file's base name)")
	return cmd
}
