// Package cli provides the Cobra command tree for the license CLI. This
// file defines the Dependencies struct (Composition Root) that wires the
// domain packages together.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/modu-ai/license/internal/config"
	"github.com/modu-ai/license/internal/header"
	"github.com/modu-ai/license/internal/resolve"
	"github.com/modu-ai/license/internal/template"
	"github.com/modu-ai/license/internal/ui"
	"github.com/modu-ai/license/internal/writer"
)

// Dependencies holds the services used by the commands. Only
// initDependencies instantiates concrete types.
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Theme    *ui.Theme
	Headless *ui.HeadlessManager
	Prompt   *ui.Prompt
	Renderer template.Renderer
	Writer   *writer.Writer
	Stamper  *header.Stamper
	Resolver *resolve.Resolver
}

// Interactive reports whether prompts may be shown.
func (d *Dependencies) Interactive() bool {
	return !d.Config.NonInteractive && !d.Headless.IsHeadless()
}

// settings carries construction-time overrides, mostly for tests.
type settings struct {
	headless     *bool
	resolverOpts []resolve.Option
	loaderOpts   []config.LoaderOption
	writerOpts   []writer.Option
	getenv       func(string) string
	stdoutIsTerm func(io.Writer) bool
	deps         *Dependencies
}

// Option configures NewRootCommand.
type Option func(*settings)

// WithHeadless forces headless (true) or interactive (false) mode.
func WithHeadless(headless bool) Option {
	return func(s *settings) { s.headless = &headless }
}

// WithResolverOptions appends options for the variable resolver.
func WithResolverOptions(opts ...resolve.Option) Option {
	return func(s *settings) { s.resolverOpts = append(s.resolverOpts, opts...) }
}

// WithConfigLoaderOptions appends options for the config loader.
func WithConfigLoaderOptions(opts ...config.LoaderOption) Option {
	return func(s *settings) { s.loaderOpts = append(s.loaderOpts, opts...) }
}

// WithWriterOptions appends options for the file writer.
func WithWriterOptions(opts ...writer.Option) Option {
	return func(s *settings) { s.writerOpts = append(s.writerOpts, opts...) }
}

// WithEnv overrides environment lookup for NO_COLOR.
func WithEnv(getenv func(string) string) Option {
	return func(s *settings) { s.getenv = getenv }
}

func newSettings(opts []Option) *settings {
	s := &settings{
		getenv: os.Getenv,
		stdoutIsTerm: func(w io.Writer) bool {
			f, ok := w.(*os.File)
			return ok && ui.IsTerminal(f)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// logLevel maps -q and repeated -v to a slog level.
func logLevel(verbose int, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelError
	case verbose >= 2:
		return slog.LevelDebug
	case verbose == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// initDependencies creates and wires all dependencies once flags are parsed.
func (s *settings) initDependencies(cmd *cobra.Command, g *globalFlags) (*Dependencies, error) {
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel(g.verbose, g.quiet),
	}))

	cfg, err := config.NewLoader(append([]config.LoaderOption{config.WithLogger(logger)}, s.loaderOpts...)...).Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.nonInteractive {
		cfg.NonInteractive = true
	}

	theme := ui.NewTheme(ui.ThemeConfig{NoColor: s.getenv("NO_COLOR") != ""})
	hm := ui.NewHeadlessManager()
	if s.headless != nil {
		hm.ForceHeadless(*s.headless)
	}

	w := writer.New(append([]writer.Option{writer.WithLogger(logger)}, s.writerOpts...)...)

	d := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Theme:    theme,
		Headless: hm,
		Prompt:   ui.NewPrompt(theme, hm),
		Renderer: template.NewRenderer(template.WithLogger(logger)),
		Writer:   w,
		Stamper: header.NewStamper(
			header.WithWriter(w),
			header.WithProgress(ui.NewProgress(theme, hm, cmd.ErrOrStderr())),
			header.WithLogger(logger),
		),
	}

	resolverOpts := []resolve.Option{resolve.WithLogger(logger)}
	if d.Interactive() {
		resolverOpts = append(resolverOpts, resolve.WithPrompter(d.Prompt))
	}
	d.Resolver = resolve.New(append(resolverOpts, s.resolverOpts...)...)

	logger.Debug("dependencies initialized", "interactive", d.Interactive(), "config", g.configPath)
	return d, nil
}
