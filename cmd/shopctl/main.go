// Command shopctl runs one-off maintenance tasks against the storefront
// database and redis: schema migration, admin accounts, and the order feed.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ariefcatur/go-storefront/internal/admin"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/feed"
	"github.com/ariefcatur/go-storefront/internal/logx"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "shopctl",
	Short:         "Maintenance commands for the storefront",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		cfg = config.Load()
		logx.Setup(cfg.LogLevel, cfg.LogPretty, cfg.ServiceName+"-shopctl")
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd, adminCmd, feedCmd)
	adminCmd.AddCommand(adminAddCmd)
	adminAddCmd.Flags().StringP("password", "p", "", "password (default: $SHOPCTL_ADMIN_PASSWORD)")
	feedCmd.Flags().IntP("limit", "n", 10, "number of entries")
}

func withDB(cmd *cobra.Command, fn func(ctx context.Context, db *pgxpool.Pool) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()
	return fn(ctx, db)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *pgxpool.Pool) error {
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		})
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin panel accounts",
}

var adminAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create an admin or reset its password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := strings.TrimSpace(args[0])
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("SHOPCTL_ADMIN_PASSWORD")
		}
		if username == "" || password == "" {
			return errors.New("username and password are required")
		}
		return withDB(cmd, func(ctx context.Context, db *pgxpool.Pool) error {
			if err := (&admin.Repo{DB: db}).Upsert(ctx, username, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q saved\n", username)
			return nil
		})
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print the most recent order activity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("limit")
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()

		entries, err := (&feed.Feed{Redis: rdb}).Recent(cmd.Context(), n)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", e.At.Local().Format("2006-01-02 15:04"), e.Text)
		}
		return nil
	},
}
