package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/Astemirdum/library-lending/library/app"
	"github.com/Astemirdum/library-lending/library/config"
	"github.com/Astemirdum/library-lending/library/migrations"
	"github.com/Astemirdum/library-lending/pkg/logger"
	"github.com/Astemirdum/library-lending/pkg/postgres"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

var (
	storeFlag string
	debugFlag bool
)

func loadConfig() *config.Config {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()
	level := zapcore.InfoLevel
	if debugFlag {
		level = zapcore.DebugLevel
	}
	return config.NewConfig(
		config.WithLogLevel(level),
		config.WithWriteTimeout(time.Minute),
		config.WithStore(storeFlag),
	)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "library",
		Short:         "Library lending service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&storeFlag, "store", "", "storage backend: postgres, mongo or memory (overrides STORE)")
	root.PersistentFlags().BoolVar(&debugFlag, "debug", false, "debug logging")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedCmd(),
		newCreateAdminCmd(),
		newPromoteCmd(),
	)
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Run: func(cmd *cobra.Command, args []string) {
			app.Run(loadConfig())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect the postgres schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			db, err := postgres.Connect(cmd.Context(), &cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()
			return postgres.Migrate(db, migrations.MigrationFiles, args[0])
		},
	}
}

// withCore runs fn against the configured store.
func withCore(cmd *cobra.Command, fn func(ctx context.Context, core *app.Core) error) error {
	cfg := loadConfig()
	log := logger.NewLogger(cfg.Log, "library-cli")
	core, err := app.NewCore(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer core.Close()
	return fn(cmd.Context(), core)
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add a few sample books to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(cmd, func(ctx context.Context, core *app.Core) error {
				return app.Seed(ctx, core, func(id, title string) {
					cmd.Printf("added %s %q\n", id, title)
				})
			})
		},
	}
}

func newCreateAdminCmd() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			confirm, err := readPassword("Repeat password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}
			return withCore(cmd, func(ctx context.Context, core *app.Core) error {
				id, err := app.CreateAdmin(ctx, core, name, email, password)
				if err != nil {
					return err
				}
				cmd.Printf("admin %s created (%s)\n", id, email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login e-mail")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newPromoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email>",
		Short: "Grant the admin role to an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(cmd, func(ctx context.Context, core *app.Core) error {
				if err := app.Promote(ctx, core, args[0]); err != nil {
					return err
				}
				cmd.Printf("%s is now an admin\n", args[0])
				return nil
			})
		},
	}
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	return strings.TrimSpace(string(b)), nil
}
