// Package cli provides the command-line interface for askdb.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/joacominatel/askdb/internal/app"
	"github.com/joacominatel/askdb/internal/config"
	"github.com/joacominatel/askdb/internal/database"
	"github.com/joacominatel/askdb/internal/database/mysql"
	"github.com/joacominatel/askdb/internal/database/postgres"
	"github.com/joacominatel/askdb/internal/llm"
	"github.com/joacominatel/askdb/internal/logger"
	"github.com/joacominatel/askdb/internal/sqlgen"
)

// Version is set at build time.
var Version = "dev"

type globalFlags struct {
	dsn     string
	verbose bool
}

// runtime is everything a command needs once configuration is loaded.
type runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	service *app.Service
	// target is nil when no store could be resolved.
	target *config.Target
}

// NewRootCmd creates the askdb command tree.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "askdb",
		Short: "Ask questions about your database in plain language",
		Long: `askdb turns a natural-language question into SQL with a local language model,
runs it against PostgreSQL or MySQL and draws the answer as a bar, line or scatter chart.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.dsn, "dsn", "", "Connection URL (postgres://... or mysql://...), overrides DB_* variables")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newServeCmd(flags),
		newTUICmd(flags),
		newAskCmd(flags),
		newSchemaCmd(flags),
	)

	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// setup loads configuration, opens the log and builds the service.
// console receives log lines besides the log file.
func setup(flags *globalFlags, console io.Writer) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, &app.ErrConfig{Cause: err}
	}

	log, err := logger.New(logger.Options{
		Dir:     cfg.Log.Dir,
		Level:   cfg.Log.Level,
		Verbose: flags.verbose,
		Console: console,
	})
	if err != nil {
		return nil, &app.ErrConfig{Cause: err}
	}

	drivers, err := newDrivers(cfg.Database)
	if err != nil {
		_ = log.Close()
		return nil, &app.ErrConfig{Cause: err}
	}

	model, err := llm.NewOllama(llm.OllamaConfig{
		Host:        cfg.Model.Host,
		Model:       cfg.Model.Name,
		Temperature: cfg.Model.Temperature,
		MaxTokens:   cfg.Model.MaxTokens,
	}, http.DefaultClient)
	if err != nil {
		_ = log.Close()
		return nil, &app.ErrConfig{Cause: err}
	}

	service := app.NewService(app.Options{
		Drivers:      drivers,
		Generator:    sqlgen.NewGenerator(model, log),
		Logger:       log,
		DBTimeout:    cfg.Database.Timeout,
		ModelTimeout: cfg.Model.Timeout,
	})

	rt := &runtime{cfg: cfg, log: log, service: service}

	target, err := config.Resolve(cfg, flags.dsn)
	switch {
	case errors.Is(err, config.ErrNoConnection):
		// the TUI can still pick or enter a connection
	case err != nil:
		_ = log.Close()
		return nil, &app.ErrConfig{Cause: err}
	default:
		rt.target = &target
		service.SetTarget(app.Target(target))
		log.WithField("database", target.Name).Debug("resolved connection")
	}

	log.WithField("model", model.ModelName()).Debug("language model ready")
	return rt, nil
}

func newDrivers(db config.Database) (map[string]database.Driver, error) {
	pg, err := postgres.New(db.Client, db.Schema, db.ReadOnly)
	if err != nil {
		return nil, err
	}
	my := mysql.New(db.ReadOnly)
	return map[string]database.Driver{
		pg.Name(): pg,
		my.Name(): my,
	}, nil
}

// requireTarget fails commands that need a store when none was configured.
func (rt *runtime) requireTarget() error {
	if rt.target == nil {
		return &app.ErrConfig{Cause: fmt.Errorf("%w: set DB_NAME, pass --dsn or save a profile with 'askdb tui'", config.ErrNoConnection)}
	}
	return nil
}
