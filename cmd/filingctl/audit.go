package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	filingapp "github.com/docfiling/backend/internal/application/filing"
	"github.com/docfiling/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

func newAuditCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Read the audit trail",
	}

	var (
		limit  int
		asJSON bool
	)
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print the newest audit entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := filingapp.NewAuditService(persistence.NewGormAuditRepository(s.db.DB)).Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tACTOR\tACTION\tDETAILS")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Timestamp.Local().Format(time.DateTime), e.Actor, e.Action, e.Details)
			}
			return tw.Flush()
		},
	}
	tail.Flags().IntVarP(&limit, "limit", "n", filingapp.DefaultAuditLimit, "Number of entries to print")
	tail.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")

	cmd.AddCommand(tail)
	return cmd
}
