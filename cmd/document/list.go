package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/doclab/doclab/internal/document"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	listSearch string
	listType   string
	listSort   string
	listScope  string
	listJSON   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := buildApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		docs, err := a.svc.Catalog.List(ctx, document.Query{
			SearchText: listSearch,
			Type:       listType,
			Sort:       document.SortKey(listSort),
			Scope:      document.Scope(listScope),
		})
		if err != nil {
			return err
		}
		if listJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(docs)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tTYPE\tAUTHOR\tMODIFIED\tVERSION\tSTATUS")
		for _, d := range docs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				d.ID, d.Title, d.Type, d.Author, humanize.Time(d.LastModified), d.Version, d.Status.Label())
		}
		if len(docs) == 0 {
			fmt.Fprintln(os.Stderr, "no documents match")
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "substring of title or author")
	listCmd.Flags().StringVarP(&listType, "type", "t", document.AllTypes, "document type or \"all\"")
	listCmd.Flags().StringVar(&listSort, "sort", string(document.SortByDate), "date|name|author")
	listCmd.Flags().StringVar(&listScope, "scope", string(document.ScopeAll), "all|mine")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(listCmd)
}
