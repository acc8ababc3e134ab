package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/trigedasleng/trigdict/pkg/config"
	"github.com/trigedasleng/trigdict/pkg/db"
	"github.com/trigedasleng/trigdict/pkg/logging"
)

// app holds what every command needs once the root has initialized.
type app struct {
	v          *viper.Viper
	configFile string
	out        io.Writer

	cfg      *config.Config
	conn     *sql.DB
	caps     db.Capabilities
	closeLog func() error
	log      *slog.Logger
}

func newApp(out io.Writer) *app {
	return &app{v: config.New(), out: out}
}

// execute runs the command line args and releases the store and the log
// file whether or not the command succeeded.
func (a *app) execute(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	// cobra skips post-run hooks after a failed RunE, so shutdown runs here.
	if cerr := a.shutdown(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}

func (a *app) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "trigdict",
		Short:         "Trigedasleng dictionary store and legacy migration tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(a.out)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Path to a YAML config file")
	pf.String("db", "", "Path to the SQLite database")
	pf.String("log-level", "", "Log level: trace, debug, info, warn, error")
	pf.String("log-format", "", "Log format: text or json")
	pf.String("log-file", "", "Write logs to a rotated file instead of stderr")
	pf.String("dump", "", "Legacy dump location: a local path or an http(s) URL, optionally gzipped")
	a.bind("database.path", pf.Lookup("db"))
	a.bind("log.level", pf.Lookup("log-level"))
	a.bind("log.format", pf.Lookup("log-format"))
	a.bind("log.file", pf.Lookup("log-file"))
	a.bind("dump.location", pf.Lookup("dump"))

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.initialize()
	}

	rootCmd.AddCommand(
		a.migrateCommand(),
		a.fixOtherCommand(),
		a.dictionaryCommand(),
		a.wordCommand(),
		a.searchCommand(),
		a.learnCommand(),
		a.translationsCommand(),
		a.translationCommand(),
		a.sourcesCommand(),
		a.requestsCommand(),
		a.capabilitiesCommand(),
	)
	return rootCmd
}

// bind ties a flag to a config key; the flag wins only when it is set.
func (a *app) bind(key string, flag *pflag.Flag) {
	if err := a.v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

// initialize loads the configuration, installs the logger and opens the
// store with the collections the configuration asks for.
func (a *app) initialize() error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	closeLog, err := logging.Init(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	if err != nil {
		return err
	}
	a.closeLog = closeLog
	a.log = logging.ForService("cli")

	conn, err := db.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.conn = conn

	initFn := db.InitCoreDB
	if cfg.Database.Community {
		initFn = db.InitDB
	}
	if err := initFn(conn); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.caps, err = db.LoadCapabilities(conn)
	if err != nil {
		return err
	}
	a.log.Debug("store ready", "path", cfg.Database.Path, "collections", a.caps.Names())
	return nil
}

func (a *app) shutdown() error {
	var errs []error
	if a.conn != nil {
		errs = append(errs, a.conn.Close())
		a.conn = nil
	}
	if a.closeLog != nil {
		errs = append(errs, a.closeLog())
		a.closeLog = nil
	}
	return errors.Join(errs...)
}

// requireCore fails unless the store has every core collection.
func (a *app) requireCore() error {
	return a.caps.Require(db.CoreCollections...)
}

func (a *app) table(headers ...interface{}) table.Table {
	return table.New(headers...).WithWriter(a.out)
}
