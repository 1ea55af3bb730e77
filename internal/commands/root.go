package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sageflow/ptbrecover/internal/buildinfo"
	"github.com/sageflow/ptbrecover/internal/config"
)

// app carries the state shared by every subcommand once the root command's
// pre-run hook has loaded the config and built the logger.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "ptbrecover",
		Short:   "Recover ledger records from Peachtree backup archives",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultFile, "path to ptbrecover.yaml")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCommand(a),
		newInspectCommand(a),
		newExtractCommand(a),
		newImportCommand(a),
		newReconcileCommand(a),
		newServeCommand(a),
		newWatchCommand(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := newLogger(cfg.Log.Level, a.verbose)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	a.logger = logger
	return nil
}

// newLogger builds a production zap logger at level, or at debug when
// verbose is set. An empty level means info.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
		lvl = parsed
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// root is the directory relative config paths are resolved against.
func (a *app) root() string {
	return filepath.Dir(a.configPath)
}

// path resolves p against the config file's directory.
func (a *app) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.root(), p)
}

// company returns the flag value, falling back to the configured company.
func (a *app) company(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if a.cfg.Company.ID != "" {
		return a.cfg.Company.ID, nil
	}
	return "", fmt.Errorf("no company given: pass --company or set company.id in %s", a.configPath)
}
