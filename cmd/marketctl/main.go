package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"marketplace/internal/app"
	"marketplace/internal/config"
	"marketplace/internal/repository/migrations"
	"marketplace/internal/seed"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// env is the state shared by commands. The caller must defer env.Close().
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *app.Database
}

// newEnv loads configuration and opens the database
func newEnv(ctx context.Context) (*env, error) {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := config.NewLogger(cfg, nil)

	db, err := app.OpenDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &env{cfg: cfg, logger: logger, db: db}, nil
}

func (e *env) Close() {
	e.db.Close()
}

// services builds the domain services with blob storage attached. The
// returned func releases the blob store.
func (e *env) services(ctx context.Context) (*app.Services, func(), error) {
	blobs, closeBlobs, err := app.OpenBlobStore(ctx, e.cfg, e.logger)
	if err != nil {
		return nil, nil, err
	}
	policy, err := config.LoadUploadPolicy(e.cfg.UploadPolicyFile)
	if err != nil {
		closeBlobs()
		return nil, nil, err
	}
	issuer, verifier, err := app.NewTokenAuth(ctx, e.cfg, e.logger)
	if err != nil {
		closeBlobs()
		return nil, nil, err
	}
	release := func() {
		verifier.Close()
		closeBlobs()
	}
	return app.NewServices(e.db.Store, blobs, policy, issuer, e.logger), release, nil
}

var rootCmd = &cobra.Command{
	Use:          "marketctl",
	Short:        "Marketplace administration",
	SilenceUsage: true,
}

// migrate commands
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		if err := migrations.MigrateUp(e.db.SQL, e.db.Dialect); err != nil {
			return err
		}
		return printStatus(e)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		all, _ := cmd.Flags().GetBool("all")
		if all {
			steps = 0
		} else if steps <= 0 {
			return errors.New("--steps must be positive (use --all to roll back everything)")
		}

		e, err := newEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		if e.cfg.Environment == "prod" {
			return errors.New("refusing to roll back migrations in production")
		}

		if err := migrations.MigrateDown(e.db.SQL, e.db.Dialect, steps); err != nil {
			return err
		}
		return printStatus(e)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()
		return printStatus(e)
	},
}

func printStatus(e *env) error {
	status, err := migrations.CheckStatus(e.db.SQL, e.db.Dialect)
	if err != nil {
		return err
	}
	fmt.Printf("Dialect: %s\n", e.db.Dialect)
	fmt.Printf("Version: %d of %d\n", status.Current, status.Latest)
	if status.Dirty {
		fmt.Println("State:   dirty (a migration failed halfway, fix it and force the version)")
	} else if status.UpToDate() {
		fmt.Println("State:   up to date")
	} else {
		fmt.Println("State:   pending migrations")
	}
	return nil
}

// seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo accounts, projects and proposals",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		ctx := cmd.Context()

		e, err := newEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		// SAFETY: demo accounts share one password
		if e.cfg.Environment == "prod" {
			return errors.New("refusing to seed demo data in production")
		}

		if err := migrations.MigrateUp(e.db.SQL, e.db.Dialect); err != nil {
			return err
		}

		svcs, release, err := e.services(ctx)
		if err != nil {
			return err
		}
		defer release()

		seeder := seed.NewSeeder(svcs.Users, svcs.Account, svcs.Project, svcs.Proposal, e.logger)
		summary, err := seeder.Seed(ctx, password)
		if err != nil {
			return err
		}

		if summary.Skipped {
			fmt.Printf("Database already seeded (%s exists)\n", seed.AdminEmail)
			return nil
		}
		fmt.Printf("Created %d users, %d projects, %d proposals\n", summary.Users, summary.Projects, summary.Proposals)
		fmt.Printf("All accounts use the password %q\n", password)
		return nil
	},
}

// files commands
var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Maintain uploaded files",
}

var filesReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Finish deletions whose blob removal failed",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := newEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		svcs, release, err := e.services(ctx)
		if err != nil {
			return err
		}
		defer release()

		result, err := svcs.File.ReconcilePendingDeletes(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Completed: %d\n", result.Completed)
		fmt.Printf("Failed:    %d\n", result.Failed)
		if result.Failed > 0 {
			return fmt.Errorf("%d deletions still pending", result.Failed)
		}
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateDownCmd.Flags().IntP("steps", "n", 1, "Number of migrations to roll back")
	migrateDownCmd.Flags().Bool("all", false, "Roll back every migration")
	migrateCmd.AddCommand(migrateStatusCmd)

	filesCmd.AddCommand(filesReconcileCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("password", "marketplace-demo", "Password for every seeded account")
	rootCmd.AddCommand(filesCmd)
}
