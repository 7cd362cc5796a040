package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// DemoOptions holds flags for the demo command.
type DemoOptions struct {
	Loop    bool
	Timeout time.Duration
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DemoOptions{}

	names := make([]string, 0, len(scenarios))
	for _, sc := range scenarios {
		names = append(names, sc.Name)
	}

	cmd := &cobra.Command{
		Use:   "demo [scenario]",
		Short: "Run a scheduling scenario and print its trace",
		Long: `Run a scripted scenario against a fresh runtime and print every reaction,
job and cleanup in the order the scheduler ran them.

Without a scenario name, list the available scenarios.

Scenarios: ` + strings.Join(names, ", "),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listScenarios(cmd.OutOrStdout())
			}
			return runDemo(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Loop, "loop", false, "drive the runtime from an event loop instead of a manual host")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 5*time.Second, "how long to wait for a step on the event loop")

	return cmd
}

func listScenarios(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, sc := range scenarios {
		fmt.Fprintf(tw, "%s\t%s\n", sc.Name, sc.Description)
	}
	return tw.Flush()
}

func runDemo(cmd *cobra.Command, rootOpts *RootOptions, opts *DemoOptions, name string) error {
	sc, ok := FindScenario(name)
	if !ok {
		return fmt.Errorf("unknown scenario %q (run \"reactor demo\" to list them)", name)
	}

	cfg, err := rootOpts.Config()
	if err != nil {
		return err
	}

	log := newLogger(cmd.ErrOrStderr(), cfg)

	var d driver
	if opts.Loop {
		ld, err := newLoopDriver(log, opts.Timeout)
		if err != nil {
			return err
		}
		d = ld
	} else {
		d = newManualDriver()
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Debug().Err(err).Msg("close driver")
		}
	}()

	s := NewSession(cmd.OutOrStdout(), cfg, log, d)

	log.Debug().
		Str("scenario", sc.Name).
		Bool("loop", opts.Loop).
		Str("runtime", s.Runtime().ID()).
		Msg("running scenario")

	sc.Run(s)

	return nil
}
