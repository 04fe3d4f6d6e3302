package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/verdictio/lexcompare/pkg/client"
)

func newCompareCommand(opts *rootOptions) *cobra.Command {
	var (
		threshold        float64
		window           int
		scorer           string
		ignoreFormatting bool
		async            bool
	)

	cmd := &cobra.Command{
		Use:   "compare <document1-id> <document2-id>",
		Short: "Compare two documents clause by clause",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			cmp, err := c.Comparisons().Create(ctx, client.CompareRequest{
				Document1ID: args[0],
				Document2ID: args[1],
				Config: client.ComparisonConfig{
					SimilarityThreshold: threshold,
					CandidateWindow:     window,
					Scorer:              scorer,
					IgnoreFormatting:    ignoreFormatting,
				},
				Async: async,
			})
			if err != nil {
				return err
			}
			if async {
				fmt.Println("comparison enqueued")
				return nil
			}

			return printResult(opts, cmp, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Comparison\t%s\n", cmp.ID)
				fmt.Fprintf(w, "Documents\t%s vs %s\n", cmp.Document1.Name, cmp.Document2.Name)
				fmt.Fprintf(w, "Overall similarity\t%.1f%%\n", cmp.Metrics.OverallSimilarity*100)
				fmt.Fprintf(w, "Structural similarity\t%.1f%%\n", cmp.Metrics.StructuralSimilarity*100)
				fmt.Fprintf(w, "Content similarity\t%.1f%%\n", cmp.Metrics.ContentSimilarity*100)
				fmt.Fprintf(w, "Legal similarity\t%.1f%%\n", cmp.Metrics.LegalSimilarity*100)
				fmt.Fprintf(w, "Matched clauses\t%d\n", cmp.Metrics.MatchedClauses)
				fmt.Fprintf(w, "Differences\t%d (%d critical)\n",
					cmp.Metrics.TotalDifferences, cmp.Metrics.CriticalDifferences)
				fmt.Fprintf(w, "Added / Removed / Modified\t%d / %d / %d\n",
					cmp.Metrics.AddedCount, cmp.Metrics.RemovedCount, cmp.Metrics.ModifiedCount)
			})
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0, "similarity threshold in [0,1] (0 uses the server default)")
	cmd.Flags().IntVar(&window, "window", 0, "candidate window (0 uses the server default)")
	cmd.Flags().StringVar(&scorer, "scorer", "", "scorer: lexical|levenshtein (empty uses the server default)")
	cmd.Flags().BoolVar(&ignoreFormatting, "ignore-formatting", false, "collapse whitespace and case before scoring")
	cmd.Flags().BoolVar(&async, "async", false, "enqueue for the worker instead of waiting")
	return cmd
}

func newViewCommand(opts *rootOptions) *cobra.Command {
	var (
		diffsOnly  bool
		simsOnly   bool
		types      []string
		severities []string
		categories []string
		threshold  float64
		query      string
	)

	cmd := &cobra.Command{
		Use:   "view <comparison-id>",
		Short: "Show the filtered differences and similarities of a comparison",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			filters := client.ViewFilters{
				Types:      types,
				Severities: severities,
				Categories: categories,
				Threshold:  threshold,
				Query:      query,
			}
			off, on := false, true
			if diffsOnly {
				filters.ShowSimilarities = &off
			}
			if simsOnly {
				filters.ShowDifferences = &off
				filters.ShowSimilarities = &on
			}

			view, err := c.Comparisons().View(ctx, args[0], filters)
			if err != nil {
				return err
			}
			return printResult(opts, view, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Differences\t%d\n", len(view.Differences))
				fmt.Fprintf(w, "Similarities\t%d\n", len(view.Similarities))
				fmt.Fprintf(w, "Items\t%d\n", len(view.Items))
			})
		},
	}

	cmd.Flags().BoolVar(&diffsOnly, "differences-only", false, "hide similarities")
	cmd.Flags().BoolVar(&simsOnly, "similarities-only", false, "hide differences")
	cmd.Flags().StringSliceVar(&types, "type", nil, "filter by difference type: added|removed|modified")
	cmd.Flags().StringSliceVar(&severities, "severity", nil, "filter by severity: high|medium|low")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "filter by category: clause|term|obligation|party|date|amount|other")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "re-filter similarities by score (inclusive)")
	cmd.Flags().StringVar(&query, "query", "", "free-text search")
	return cmd
}
