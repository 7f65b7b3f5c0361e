package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/j-veylop/catalog-eda/internal/download"
	"github.com/j-veylop/catalog-eda/internal/ui/styles"
)

func newDownloadCommand(root *rootOptions) *cobra.Command {
	var (
		url   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Fetch the public catalog dataset",
		Long: `Downloads the dataset to the configured dataset path. An existing file is
left untouched unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}
			if url == "" {
				url = cfg.DatasetURL
			}

			if err := os.MkdirAll(filepath.Dir(cfg.DatasetPath), 0o750); err != nil {
				return fmt.Errorf("failed to create dataset directory: %w", err)
			}

			client := download.NewClient(cfg.DownloadTimeout).WithNotifications(cfg.Notify)
			fetch := client.Fetch
			if force {
				fetch = client.Refetch
			}

			res, err := fetch(cmd.Context(), url, cfg.DatasetPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Skipped {
				fmt.Fprintln(out, styles.InfoTextStyle.Render(
					fmt.Sprintf("%s already exists, use --force to download again", res.Path)))
				return nil
			}
			fmt.Fprintln(out, styles.SuccessTextStyle.Render(
				fmt.Sprintf("Downloaded %d bytes to %s", res.Bytes, res.Path)))
			fmt.Fprintln(out, keyValue("SHA-256", res.SHA256))
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "dataset URL (default from DATASET_URL)")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing dataset file")

	return cmd
}
