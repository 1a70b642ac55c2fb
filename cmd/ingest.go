package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mnemosyne-ai/mnemo/knowledge"
)

func newIngestCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <path>",
		Short: "Ingest a document file or directory into the knowledge store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := wireApp(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer app.close()

			path := args[0]
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}

			if info.IsDir() {
				results, err := app.ingestor.IngestDir(ctx, path)
				if err != nil {
					return err
				}
				printIngestResults(cmd.OutOrStdout(), results)
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			n, err := app.ingestor.Ingest(ctx, string(data), filepath.Base(path))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d chunks ingested\n", path, n)
			return nil
		},
	}
}

func printIngestResults(w io.Writer, results []knowledge.FileResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No documents found.")
		return
	}
	for _, r := range results {
		switch {
		case r.Skipped:
			fmt.Fprintf(w, "  skipped %s: %v\n", r.Path, r.Err)
		default:
			fmt.Fprintf(w, "  %s: %d chunks\n", r.Path, r.Chunks)
		}
	}
}
