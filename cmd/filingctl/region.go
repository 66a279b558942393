package main

import (
	"fmt"
	"strings"

	filingapp "github.com/docfiling/backend/internal/application/filing"
	"github.com/docfiling/backend/internal/domain/audit"
	"github.com/docfiling/backend/internal/infrastructure/persistence"
	"github.com/docfiling/backend/internal/infrastructure/storage"
	"github.com/spf13/cobra"
)

func newRegionCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "region",
		Short: "Manage regions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List regions in natural order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			regions, err := regionService(s).List(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range regions {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", r.ID, r.Name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a region, audited as the system user",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := regionService(s).Create(cmd.Context(), audit.SystemActor, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if result.Created {
				fmt.Fprintf(cmd.OutOrStdout(), "created region %d %s\n", result.ID, result.Name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "region %d %s already exists\n", result.ID, result.Name)
			}
			return nil
		},
	})
	return cmd
}

// regionService builds a service whose deletions never reach object storage;
// the CLI only adds and lists regions
func regionService(s *session) *filingapp.RegionService {
	db := s.db.DB
	return filingapp.NewRegionService(
		persistence.NewGormRegionRepository(db),
		persistence.NewGormTransactionScope(db),
		filingapp.NewRecorder(s.log),
		storage.NewStubObjectStorage(),
		s.log,
	)
}
