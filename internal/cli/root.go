// Package cli wires configuration, storage and the customer service into the
// policy-tracker command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/a3tai/policy-tracker/internal/config"
	"github.com/a3tai/policy-tracker/internal/customer"
	"github.com/a3tai/policy-tracker/internal/dates"
	"github.com/a3tai/policy-tracker/internal/extract"
	"github.com/a3tai/policy-tracker/internal/lifecycle"
	"github.com/a3tai/policy-tracker/internal/logging"
	"github.com/a3tai/policy-tracker/internal/pdf"
	"github.com/a3tai/policy-tracker/internal/storage"
)

// BuildInfo holds version information injected at build time.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// App carries the initialized dependencies through the command tree.
type App struct {
	Config    *config.Config
	Logger    logging.Logger
	Store     *storage.Store
	PDF       *pdf.Service
	Customers *customer.Service
}

// Close releases the database and flushes the logger.
func (a *App) Close() error {
	var errs []error
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	if a.Logger != nil {
		// Sync on stderr fails on some platforms; ignore it.
		_ = a.Logger.Sync()
	}
	return errors.Join(errs...)
}

type appContextKey struct{}

// now is the clock used for listings; tests replace it.
var now = time.Now

// NewRootCommand creates the root command with its global flags and
// subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy-tracker",
		Short: "Track insurance policy customers and their expiry dates",
		Long: `policy-tracker keeps a local list of insurance customers.

It reads policy PDFs into candidate records, stores reviewed records in a
SQLite file and lists them grouped into current, expiring soon and expired
policies. The serve command exposes the same operations as MCP tools.`,
		Version: info.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupApp(cmd, info)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate(VersionText(info))

	config.DefineFlags(cmd.PersistentFlags(), config.DefaultConfig())

	cmd.AddCommand(
		newExtractCmd(),
		newAddCmd(),
		newListCmd(),
		newUpdateCmd(),
		newDeleteCmd(),
		newCompaniesCmd(),
		newServeCmd(),
	)

	return cmd
}

// VersionText renders the --version output.
func VersionText(info BuildInfo) string {
	return fmt.Sprintf("Policy Tracker\nVersion: %s\nBuild Time: %s\nGit Commit: %s\nBuilt with: %s\n",
		info.Version, info.BuildTime, info.GitCommit, runtime.Version())
}

// setupApp loads configuration and builds every dependency, then stores the
// App in the command context.
func setupApp(cmd *cobra.Command, info BuildInfo) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if info.Version != "" && info.Version != "dev" {
		cfg.Version = info.Version
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: "stderr",
	})
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	logger.Debug("configuration loaded", logging.String("config", cfg.String()))

	app, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appContextKey{}, app))
	return nil
}

func buildApp(cfg *config.Config, logger logging.Logger) (*App, error) {
	store, err := storage.Open(cfg.DBPath, logger)
	if err != nil {
		return nil, err
	}

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create PDF service: %w", err)
	}

	normalizer := dates.New(cfg.DateLanguages...)
	customers, err := customer.NewService(customer.Options{
		Store:      store,
		Source:     pdfService,
		Extractor:  extract.New(cfg.ExtractConfig(), normalizer),
		Normalizer: normalizer,
		Classifier: lifecycle.NewClassifier(cfg.ExpiringWindowDays),
		Companies:  cfg.Companies,
		Now:        func() time.Time { return now() },
		Logger:     logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create customer service: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		PDF:       pdfService,
		Customers: customers,
	}, nil
}

// GetApp extracts the App from a command's context.
func GetApp(cmd *cobra.Command) (*App, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New("command context is nil")
	}
	app, ok := ctx.Value(appContextKey{}).(*App)
	if !ok || app == nil {
		return nil, errors.New("application not initialized")
	}
	return app, nil
}

// withApp adapts a handler that needs the App and closes it afterwards.
func withApp(fn func(cmd *cobra.Command, args []string, app *App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := GetApp(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := app.Close(); cerr != nil {
				app.Logger.Warn("failed to close application", logging.Err(cerr))
			}
		}()
		return fn(cmd, args, app)
	}
}
