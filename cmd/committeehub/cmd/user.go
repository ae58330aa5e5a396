package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"committeehub/config"
)

type createUserOptions struct {
	email    string
	name     string
	password string
	admin    bool
}

func newUserCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	opts := &createUserOptions{}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user (use --admin to allow committee changes)",
		Long: `Create a user account. Admin accounts may create and edit committees.

Examples:
  committeehub user create --email admin@example.com --name Admin --password 's3cret-pass' --admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateUser(cmd, global, opts)
		},
	}
	create.Flags().StringVar(&opts.email, "email", "", "user email (required)")
	create.Flags().StringVar(&opts.name, "name", "", "display name")
	create.Flags().StringVar(&opts.password, "password", "", "password, at least 8 characters (required)")
	create.Flags().BoolVar(&opts.admin, "admin", false, "grant admin rights")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func runCreateUser(cmd *cobra.Command, global *globalOptions, opts *createUserOptions) error {
	if opts.email == "" || opts.password == "" {
		return errors.New("--email and --password are required")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	db, err := openDB(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := newAuthService(cfg, db).CreateUser(ctx, opts.email, opts.name, opts.password, opts.admin)
	if err != nil {
		return err
	}
	config.NewLogger(global.logLevel).Info("user created", "id", user.ID, "email", user.Email, "admin", user.IsAdmin)
	fmt.Fprintln(cmd.OutOrStdout(), user.ID)
	return nil
}
