package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/verdictio/lexcompare/pkg/client"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		format     string
		summary    bool
		metrics    bool
		highlights bool
		sections   []string
	)

	cmd := &cobra.Command{
		Use:   "export <comparison-id>",
		Short: "Export a comparison to a stored artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			result, err := c.Comparisons().Export(ctx, args[0], client.ExportRequest{
				Format: format,
				Options: &client.ExportOptions{
					IncludeSummary:    summary,
					IncludeMetrics:    metrics,
					IncludeHighlights: highlights,
					Sections:          sections,
				},
			})
			if err != nil {
				return err
			}
			return printResult(opts, result, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Key\t%s\n", result.Key)
				fmt.Fprintf(w, "Content type\t%s\n", result.ContentType)
				fmt.Fprintf(w, "Size\t%d bytes\n", result.Size)
				if result.URL != "" {
					fmt.Fprintf(w, "URL\t%s\n", result.URL)
				}
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "export format: json|pdf|docx|html")
	cmd.Flags().BoolVar(&summary, "summary", true, "include the summary section")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "include aggregate metrics")
	cmd.Flags().BoolVar(&highlights, "highlights", true, "include word-level highlights")
	cmd.Flags().StringSliceVar(&sections, "section", nil, "restrict to named sections")
	return cmd
}
