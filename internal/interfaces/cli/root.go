// Package cli implements the lexcompare command line client.  All commands
// talk to a running apiserver through the SDK in pkg/client.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdictio/lexcompare/pkg/client"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds the global flags shared by every subcommand.
type rootOptions struct {
	ServerAddr   string
	OutputFormat string
	Timeout      time.Duration
}

func (o *rootOptions) newClient() (*client.Client, error) {
	return client.NewClient(o.ServerAddr)
}

// NewRootCommand builds the root command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "lexcompare",
		Short:   "LexCompare CLI: clause-level comparison of legal documents",
		Long:    "LexCompare compares two legal documents clause by clause,\naligns matching clauses, classifies differences, and scores overall similarity.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ServerAddr, "server", envOr("LEXC_SERVER", "http://localhost:8080"), "apiserver base URL")
	cmd.PersistentFlags().StringVarP(&opts.OutputFormat, "output", "o", "table", "output format: table|json")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 60*time.Second, "request timeout")

	cmd.AddCommand(
		newDocumentsCommand(opts),
		newCompareCommand(opts),
		newViewCommand(opts),
		newExportCommand(opts),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// printResult renders v as indented JSON, or hands off to the table renderer
// when the output format is table and one is supplied.
func printResult(opts *rootOptions, v interface{}, table func(w *tabwriter.Writer)) error {
	if opts.OutputFormat == "json" || table == nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	table(w)
	return w.Flush()
}
