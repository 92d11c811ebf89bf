package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pavanmanishd/buddy"
)

const (
	envPrefix = "BUDDY"

	keyConfig     = "config"
	keyLogLevel   = "log-level"
	keyLogConsole = "log-console"
	keySource     = "source"
)

type baseConfiguration struct {
	// Optional config file (yaml, toml, json) with flag values.
	CfgFile    string
	LogLevel   string
	LogConsole bool
	Source     string

	log zerolog.Logger
}

func newApp() *cobra.Command {
	config := &baseConfiguration{log: zerolog.Nop()}
	baseCmd := &cobra.Command{
		Use:           "buddyctl",
		Short:         "Drive a buddy allocator pool from the command line",
		Long:          `buddyctl creates fixed-capacity buddy pools, runs scripted allocation sequences against them and prints utilization reports.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeConfig(cmd, config); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			return nil
		},
	}
	baseCmd.PersistentFlags().StringVar(&config.CfgFile, keyConfig, "", "config file with flag values")
	baseCmd.PersistentFlags().StringVar(&config.LogLevel, keyLogLevel, "warn", "log level (debug, info, warn, error, disabled)")
	baseCmd.PersistentFlags().BoolVar(&config.LogConsole, keyLogConsole, true, "human readable log output")
	baseCmd.PersistentFlags().StringVar(&config.Source, keySource, "mmap", "arena memory source (mmap, heap)")

	baseCmd.AddCommand(newRunCmd(config))
	baseCmd.AddCommand(newDemoCmd(config))
	baseCmd.AddCommand(newInspectCmd(config))
	return baseCmd
}

func initializeConfig(cmd *cobra.Command, config *baseConfiguration) error {
	v := viper.New()
	if config.CfgFile != "" {
		v.SetConfigFile(config.CfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	// Flags bind to BUDDY_* environment variables, e.g. --order-max to BUDDY_ORDER_MAX.
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := bindFlags(cmd, v); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	log, err := newLogger(cmd.ErrOrStderr(), config.LogLevel, config.LogConsole)
	if err != nil {
		return err
	}
	config.log = log
	return nil
}

// Bind each cobra flag to its associated viper configuration (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindFlagErr []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == keyConfig {
			return
		}

		// Environment variables can't have dashes in them, so bind them to their equivalent
		// keys with underscores, e.g. --order-max to BUDDY_ORDER_MAX
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				bindFlagErr = append(bindFlagErr, fmt.Errorf("binding env to flag %q: %w", f.Name, err))
				return
			}
		}

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				bindFlagErr = append(bindFlagErr, fmt.Errorf("setting flag %q value: %w", f.Name, err))
				return
			}
		}
	})

	return errors.Join(bindFlagErr...)
}

func newLogger(w io.Writer, level string, console bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parsing log level %q: %w", level, err)
	}
	if console {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05.000000"}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// poolOptions turns the shared flags into pool options.
func (c *baseConfiguration) poolOptions() ([]buddy.Option, error) {
	opts := []buddy.Option{buddy.WithLogger(c.log.With().Str("component", "buddy").Logger())}
	switch strings.ToLower(c.Source) {
	case "mmap", "":
		opts = append(opts, buddy.WithSource(buddy.MmapSource()))
	case "heap":
		opts = append(opts, buddy.WithSource(buddy.HeapSource()))
	default:
		return nil, fmt.Errorf("unknown memory source %q", c.Source)
	}
	return opts, nil
}
