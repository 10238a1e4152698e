package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/modu-ai/license/pkg/version"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath     string
	nonInteractive bool
	verbose        int
	quiet          bool
}

// NewRootCommand builds the command tree. The root command generates a
// license; subcommands cover the supporting operations.
func NewRootCommand(opts ...Option) *cobra.Command {
	s := newSettings(opts)
	g := &globalFlags{}

	root := newGenerateCommand(s)
	root.Version = version.GetVersion()
	root.SilenceErrors = true
	root.SilenceUsage = true
	root.SetVersionTemplate(fmt.Sprintf("license %s\n", version.GetFullVersion()))
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if g.quiet && g.verbose > 0 {
			return usageErrorf("--quiet and --verbose are mutually exclusive")
		}
		d, err := s.initDependencies(cmd, g)
		if err != nil {
			return err
		}
		s.deps = d
		return nil
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/license/config.yaml)")
	pf.BoolVar(&g.nonInteractive, "non-interactive", false, "Never prompt; fail when a value is missing")
	pf.CountVarP(&g.verbose, "verbose", "v", "Increase log verbosity (repeatable)")
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "Only log errors")

	root.AddCommand(newListCommand(s))
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCommand()
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), FormatError(err))
	}
	return ExitCodeFor(err)
}
