package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/docfiling/backend/internal/domain/identity"
	"github.com/docfiling/backend/internal/domain/shared"
	"github.com/docfiling/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

func newUserCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage clerk accounts",
	}

	var displayName, department, password string
	create := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a clerk account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := identity.NewUser(args[0], password, displayName, department)
			if err != nil {
				return err
			}

			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			users := persistence.NewGormUserRepository(s.db.DB)
			exists, err := users.ExistsByUsername(cmd.Context(), user.Username)
			if err != nil {
				return err
			}
			if exists {
				return shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
			}
			if err := users.Create(cmd.Context(), user); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}
	create.Flags().StringVarP(&password, "password", "p", "", "Password, at least 8 characters")
	create.Flags().StringVar(&displayName, "display-name", "", "Name shown in the audit trail")
	create.Flags().StringVar(&department, "department", "", "Department")
	_ = create.MarkFlagRequired("password")

	list := &cobra.Command{
		Use:   "list",
		Short: "List clerk accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			users, err := persistence.NewGormUserRepository(s.db.DB).FindAll(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "USERNAME\tNAME\tDEPARTMENT\tCREATED")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Username, u.DisplayName, u.Department,
					u.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(create, list)
	return cmd
}
