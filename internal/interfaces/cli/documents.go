package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/verdictio/lexcompare/pkg/client"
)

func newDocumentsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Register, list, and inspect documents",
	}
	cmd.AddCommand(
		newDocumentsRegisterCommand(opts),
		newDocumentsListCommand(opts),
		newDocumentsGetCommand(opts),
		newDocumentsDeleteCommand(opts),
	)
	return cmd
}

func newDocumentsRegisterCommand(opts *rootOptions) *cobra.Command {
	var (
		name         string
		docType      string
		jurisdiction string
		textFile     string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a document from an extracted-text file",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(textFile)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", textFile, err)
			}

			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			doc, err := c.Documents().Register(ctx, client.RegisterDocumentRequest{
				Name:         name,
				Type:         docType,
				Jurisdiction: jurisdiction,
				Text:         string(text),
			})
			if err != nil {
				return err
			}
			return printResult(opts, doc, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "ID\t%s\n", doc.ID)
				fmt.Fprintf(w, "Name\t%s\n", doc.Name)
				fmt.Fprintf(w, "Type\t%s\n", doc.Type)
				fmt.Fprintf(w, "Pages\t%d\n", doc.PageCount)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "document display name")
	cmd.Flags().StringVar(&docType, "type", "other", "document type: contract_of_sale|lease_agreement|section32|title_document|other")
	cmd.Flags().StringVar(&jurisdiction, "jurisdiction", "", "state code, e.g. VIC")
	cmd.Flags().StringVar(&textFile, "text-file", "", "path to the extracted text file")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("text-file")
	return cmd
}

func newDocumentsListCommand(opts *rootOptions) *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			docs, p, err := c.Documents().List(ctx, page, pageSize)
			if err != nil {
				return err
			}
			return printResult(opts, docs, func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "ID\tNAME\tTYPE\tJURISDICTION\tPAGES")
				for _, d := range docs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
						d.ID, d.Name, d.Type, d.Jurisdiction, d.PageCount)
				}
				if p != nil {
					fmt.Fprintf(w, "\ntotal: %d\n", p.Total)
				}
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "page size")
	return cmd
}

func newDocumentsGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <document-id>",
		Short: "Show one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			doc, err := c.Documents().Get(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(opts, doc, nil)
		},
	}
}

func newDocumentsDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a document and its stored content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			if err := c.Documents().Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}
}
