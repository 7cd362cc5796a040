package cli

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/reactor"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the root command for the reactor CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "reactor",
		Short: "Reactive effect scheduler playground",
		Long: `Run the reactor scheduler through scripted scenarios and print the
order in which watchers, jobs and post-flush callbacks fire.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (trace|debug|info|warn|error|disabled)")

	cmd.AddCommand(NewDemoCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// Config returns the defaults, overridden by the config file and then by
// the flags.
func (o *RootOptions) Config() (reactor.Config, error) {
	cfg := reactor.DefaultConfig()

	if o.ConfigPath != "" {
		loaded, err := reactor.LoadConfig(o.ConfigPath)
		if err != nil {
			return reactor.Config{}, err
		}
		cfg = loaded
	}

	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
		if err := cfg.Validate(); err != nil {
			return reactor.Config{}, err
		}
	}

	return cfg, nil
}

// newLogger writes human readable logs to w. Without a configured level
// only warnings and errors are shown.
func newLogger(w io.Writer, cfg reactor.Config) zerolog.Logger {
	lvl, err := cfg.Level()
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}

	cw := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: consoleTimeFormat}
	return zerolog.New(cw).Level(lvl).With().Timestamp().Logger()
}
