package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/doclab/doclab/internal/document"
	"github.com/doclab/doclab/internal/document/seed"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a document with its versions and comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid document id %q", args[0])
		}
		ctx := cmd.Context()
		a, err := buildApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		d, err := a.svc.Details.Get(ctx, id)
		if err != nil {
			return err
		}
		versions, err := a.svc.Details.ListVersions(ctx, id)
		if err != nil {
			return err
		}
		printDetail(cmd, d, versions)
		return nil
	},
}

var commentAs string

var commentCmd = &cobra.Command{
	Use:   "comment ID TEXT...",
	Short: "Add a comment to a document",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid document id %q", args[0])
		}
		ctx := cmd.Context()
		if commentAs != "" {
			ctx = document.WithActor(ctx, commentAs)
		}
		a, err := buildApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		c, err := a.svc.Details.AddComment(ctx, id, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "comment #%d added by %s\n", c.ID, c.Author)
		return nil
	},
}

func init() {
	commentCmd.Flags().StringVar(&commentAs, "as", "", "author name (defaults to DOCLAB_CURRENT_USER)")
	rootCmd.AddCommand(showCmd, commentCmd)
}

func printDetail(cmd *cobra.Command, d *document.Detail, versions []document.Version) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "#%d %s\n", d.ID, d.Title)
	fmt.Fprintf(out, "  %s · %s · v%s · %s\n", d.Type, d.Author, d.Version, d.Status.Label())
	if d.Project != "" {
		fmt.Fprintf(out, "  project: %s\n", d.Project)
	}
	if d.FileName != "" {
		fmt.Fprintf(out, "  file:    %s (%s, %s)\n", d.FileName, d.FileFormat, d.FileSizeLabel())
	}
	if len(d.Tags) > 0 {
		fmt.Fprintf(out, "  tags:    %s\n", strings.Join(d.Tags, ", "))
	}
	if d.Description != "" {
		fmt.Fprintf(out, "\n%s\n", d.Description)
	}
	fmt.Fprintf(out, "\nVersions (%d)\n", len(versions))
	for _, v := range versions {
		fmt.Fprintf(out, "  %s  %s  %s: %s\n", v.Version, v.Date.Format(seed.TimeLayout), v.Author, v.Changes)
	}
	fmt.Fprintf(out, "\nComments (%d)\n", len(d.Comments))
	for _, c := range d.Comments {
		fmt.Fprintf(out, "  [%s] %s, %s\n    %s\n", c.Avatar, c.Author, c.Date.Format(seed.TimeLayout), c.Text)
	}
}
