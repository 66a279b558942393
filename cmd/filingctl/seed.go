package main

import (
	"fmt"

	"github.com/docfiling/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default regions and document types that are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := persistence.NewSeeder(s.db.DB, s.log).EnsureDefaults(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "regions inserted: %d\ndocument types inserted: %d\n",
				result.Regions, result.DocumentTypes)
			return nil
		},
	}
}
