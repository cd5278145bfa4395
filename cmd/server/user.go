package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sitecraft/internal/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCreateUserCmd(opts *cliOptions) *cobra.Command {
	var email, password, displayName string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account if the email is not registered yet",
		Long: `Create an account with a bcrypt-hashed password.

The password may also be passed through SITECRAFT_PASSWORD so it does not
end up in shell history. Existing accounts are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("SITECRAFT_PASSWORD")
			}
			if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
				return errors.New("--email and --password are required")
			}

			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if err := db.Init(databaseOptions(cfg)); err != nil {
				return fmt.Errorf("init database: %w", err)
			}
			created, err := db.EnsureUser(db.DB, email, password, displayName)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			normalized := db.NormalizeEmail(email)
			if created {
				logger.Info("user created", zap.String("email", normalized))
				fmt.Fprintf(cmd.OutOrStdout(), "用户创建成功: %s\n", normalized)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "用户已存在，无需创建: %s\n", normalized)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&displayName, "name", "", "display name (defaults to the email)")
	return cmd
}

func newMigrateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if err := db.Init(databaseOptions(cfg)); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
			logger.Info("database migrated", zap.String("driver", cfg.DatabaseDriver))
			fmt.Fprintln(cmd.OutOrStdout(), "done")
			return nil
		},
	}
}
