package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sandeepkv93/sugardiff/internal/logging"
	"github.com/sandeepkv93/sugardiff/internal/storage"
	"github.com/sandeepkv93/sugardiff/internal/update"
)

var cfgFile string

// rootCmd starts the interactive recorder.
var rootCmd = &cobra.Command{
	Use:   "sugardiff",
	Short: "sugardiff - record levels and watch their trend",
	Long: `sugardiff records timestamped readings (for example blood sugar levels)
typed into the terminal, keeps them in time order, charts them over the day
and projects when the trend will cross the low (80) or high (300) mark.

Examples:
  sugardiff
  sugardiff --window 10 --log-file /tmp/sugardiff.log
  SUGARDIFF_CHART_WIDTH=80 sugardiff`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.sugardiff.yaml)")
	registerFlags(rootCmd.Flags())
}

func registerFlags(flags *pflag.FlagSet) {
	defaults := update.DefaultRuntimeConfig()
	flags.IntP("window", "w", defaults.WindowSize, "number of measurements shown in the list")
	flags.Int("chart-width", defaults.ChartWidth, "chart width in terminal cells")
	flags.Int("chart-height", defaults.ChartHeight, "chart height in terminal cells")
	flags.String("log-file", defaults.LogFile, "write JSON logs to this file")
	flags.String("log-level", defaults.LogLevel, "log level: debug, info, warn, error")
	flags.Duration("status-timeout", defaults.StatusTimeout, "how long status messages stay visible")
}

// resolveConfig merges, lowest first: defaults, config file, SUGARDIFF_*
// environment, explicitly set flags.
func resolveConfig(flags *pflag.FlagSet, configPath string) (update.RuntimeConfig, error) {
	v := update.NewViper()
	bindings := map[string]string{
		update.KeyWindow:      "window",
		update.KeyChartWidth:  "chart-width",
		update.KeyChartHeight: "chart-height",
		update.KeyLogFile:     "log-file",
		update.KeyLogLevel:    "log-level",
		update.KeyStatusTTL:   "status-timeout",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return update.RuntimeConfig{}, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	if err := readConfigFile(v, configPath); err != nil {
		return update.RuntimeConfig{}, err
	}
	return update.RuntimeConfigFromViper(v, update.DefaultRuntimeConfig()), nil
}

func readConfigFile(v *viper.Viper, configPath string) error {
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", configPath, err)
		}
		return nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigName(".sugardiff")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd.Flags(), cfgFile)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	journal, err := storage.OpenMemoryJournal(ctx)
	if err != nil {
		return fmt.Errorf("open session journal: %w", err)
	}
	defer func() { _ = journal.Close() }()

	logger.WithField("config", fmt.Sprintf("%+v", cfg)).Info("sugardiff starting")
	program := tea.NewProgram(
		update.NewModelWithConfig(cfg, journal, logger),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && errors.Is(ctx.Err(), context.Canceled) {
			logger.Info("interrupted")
			return nil
		}
		return fmt.Errorf("sugardiff failed: %w", err)
	}
	logger.Info("sugardiff stopped")
	return nil
}
