package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/habitflow/habitflow"
	"github.com/arthur-debert/habitflow/habitflow/stats"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ViperCLI wires the tracker to cobra commands with layered configuration
type ViperCLI struct {
	rootCmd   *cobra.Command
	viperInst *viper.Viper

	logger    *slog.Logger
	logCloser io.Closer

	// clock is the tracker's time source; tests replace it
	clock func() time.Time
}

// NewViperCLI creates a new Viper-powered CLI
func NewViperCLI() *ViperCLI {
	cli := &ViperCLI{
		viperInst: viper.New(),
		logger:    slog.New(slog.DiscardHandler),
		clock:     time.Now,
	}

	cli.setupViperConfig()
	cli.createRootCommand()
	cli.addCommands()

	return cli
}

// setupViperConfig configures Viper with environment variables and config files
func (cli *ViperCLI) setupViperConfig() {
	// HABITFLOW_CONFIG names a config file explicitly
	if configFile := os.Getenv("HABITFLOW_CONFIG"); configFile != "" {
		cli.viperInst.SetConfigFile(configFile)
	} else {
		cli.viperInst.SetConfigName(appName)
		cli.viperInst.AddConfigPath(".")
		cli.viperInst.AddConfigPath("$HOME/.habitflow")
	}

	cli.viperInst.AutomaticEnv()
	cli.viperInst.SetEnvPrefix("HABITFLOW")

	// --no-color -> HABITFLOW_NO_COLOR
	cli.viperInst.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	cli.viperInst.SetDefault("log_level", "warn")
	cli.viperInst.SetDefault("week_start", "sunday")
	cli.viperInst.SetDefault("window", stats.DefaultWindowDays)

	// A missing config file is fine
	_ = cli.viperInst.ReadInConfig()
}

// createRootCommand creates the root Cobra command with Viper integration
func (cli *ViperCLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:   appName,
		Short: "Track daily habits, streaks and weekly progress",
		Long: `habitflow keeps a list of habits and records, day by day, whether each
one was done. It reports streaks, weekly progress and completion trends.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (HABITFLOW_*)
3. Configuration file (habitflow.json or habitflow.yaml)

Configuration File Discovery:
  HABITFLOW_CONFIG=/path/to/config.yaml  # Custom config file path
  ./habitflow.json                       # Current directory
  ~/.habitflow/habitflow.json            # User directory

Examples:
  habitflow init --samples
  habitflow add "Drink water" --category wellness --target 7
  habitflow toggle <id>
  habitflow toggle <id> --date 2024-06-11
  habitflow today
  habitflow stats --window 14 --format yaml`,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = cli.viperInst.BindPFlags(cmd.Flags())
			return cli.setupLogging(cmd)
		},
	}

	cli.addGlobalFlags()
}

// addGlobalFlags adds persistent flags that apply to all commands
func (cli *ViperCLI) addGlobalFlags() {
	flags := cli.rootCmd.PersistentFlags()

	flags.StringP("store", "s", "", "Path of the habits file (default ~/.habitflow/habits.json)")
	flags.StringP("format", "f", "table", "Output format (table|json|yaml)")
	flags.Bool("no-color", false, "Disable colored output")
	flags.BoolP("verbose", "v", false, "Mirror log records to stderr")

	for _, flag := range []string{"store", "format", "no-color", "verbose"} {
		_ = cli.viperInst.BindPFlag(flag, flags.Lookup(flag))
	}

	envVars := map[string]string{
		"store":      "STORE",
		"format":     "FORMAT",
		"no-color":   "NO_COLOR",
		"verbose":    "VERBOSE",
		"log_level":  "LOG_LEVEL",
		"week_start": "WEEK_START",
		"window":     "WINDOW",
	}
	for key, envVar := range envVars {
		_ = cli.viperInst.BindEnv(key, "HABITFLOW_"+envVar)
	}
}

func (cli *ViperCLI) setupLogging(cmd *cobra.Command) error {
	if cli.logCloser != nil {
		return nil
	}

	logger, closer, err := initLogging(
		cli.viperInst.GetString("log_level"),
		cli.viperInst.GetBool("verbose"),
		cmd.ErrOrStderr())
	if err != nil {
		// Logging is best effort; the command still runs
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		return nil
	}
	cli.logger = logger.With("command", cmd.Name())
	cli.logCloser = closer
	return nil
}

// addCommands adds all the CLI commands
func (cli *ViperCLI) addCommands() {
	// Setup and meta
	cli.addInitCommand()
	cli.addConfigCommand()

	// Habit registry
	cli.addAddCommand()
	cli.addUpdateCommand()
	cli.addDeleteCommand()
	cli.addListCommand()
	cli.addFindCommand()

	// Completion log
	cli.addToggleCommand()
	cli.addTodayCommand()
	cli.addStatsCommand()

	// Backup
	cli.addExportCommand()
	cli.addImportCommand()
	cli.addClearCommand()
}

// storePath resolves the habits file from flags, env and config
func (cli *ViperCLI) storePath() string {
	if path := cli.viperInst.GetString("store"); path != "" {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "habits.json"
	}
	return filepath.Join(homeDir, ".habitflow", "habits.json")
}

// weekStart parses the week_start setting
func (cli *ViperCLI) weekStart() (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(cli.viperInst.GetString("week_start")))
	for day := time.Sunday; day <= time.Saturday; day++ {
		if name == strings.ToLower(day.String()) || name == strings.ToLower(day.String()[:3]) {
			return day, nil
		}
	}
	return time.Sunday, NewConfigError("read configuration", fmt.Sprintf("unknown week_start %q", name),
		"Use a day name such as sunday or monday")
}

// openTracker opens the tracker on the configured store. A store that
// could not be read is reported on stderr; the tracker still opens empty.
func (cli *ViperCLI) openTracker(cmd *cobra.Command) (*habitflow.Tracker, error) {
	weekStart, err := cli.weekStart()
	if err != nil {
		return nil, err
	}

	tracker, err := habitflow.Open(cli.storePath(),
		habitflow.WithClock(cli.clock),
		habitflow.WithWeekStart(weekStart),
		habitflow.WithLogger(cli.logger))
	if err != nil {
		return nil, WrapError("open store", err, CommonSuggestions.CheckStore)
	}

	if err := tracker.Degraded(); err != nil {
		state := "starting empty"
		if tracker.LoadError() != nil {
			state = "starting empty, changes will not be saved"
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not read %s, %s: %v\n", tracker.StorePath(), state, err)
	}
	return tracker, nil
}

// checkSaved turns a failed save after a mutation into an error
func checkSaved(operation string, tracker *habitflow.Tracker) error {
	if err := tracker.Degraded(); err != nil {
		if errors.Is(err, habitflow.ErrStateNotLoaded) {
			return NewStoreError(operation, err,
				"The change was not written: the existing store could not be read",
				"Retry once no other habitflow process is running",
				CommonSuggestions.CheckPerms)
		}
		return NewStoreError(operation, err,
			"The change was not written to disk",
			CommonSuggestions.CheckPerms)
	}
	return nil
}

// Execute runs the CLI and closes the log file
func (cli *ViperCLI) Execute() error {
	err := cli.rootCmd.Execute()
	if err != nil {
		cli.logger.Error("command failed", "error", err)
	}
	if cli.logCloser != nil {
		_ = cli.logCloser.Close()
		cli.logCloser = nil
	}
	return err
}

// GetConfig returns the current Viper configuration
func (cli *ViperCLI) GetConfig(key string) interface{} {
	return cli.viperInst.Get(key)
}

// GetRootCommand returns the root Cobra command for testing
func (cli *ViperCLI) GetRootCommand() *cobra.Command {
	return cli.rootCmd
}
