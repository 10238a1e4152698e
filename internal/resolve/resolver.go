// Package resolve derives the values substituted into a license template
// from explicit input, configured defaults, the environment and, as a last
// resort, an interactive prompt.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	gitconfig "github.com/go-git/go-git/v5/config"
	"golang.org/x/text/unicode/norm"

	"github.com/modu-ai/license/internal/license"
	"github.com/modu-ai/license/internal/template"
)

// Sentinel errors for variable resolution.
var (
	// ErrMissingVariable indicates a required variable could not be resolved.
	ErrMissingVariable = errors.New("resolve: missing variable")

	// ErrInvalidValue indicates a resolved value failed validation.
	ErrInvalidValue = errors.New("resolve: invalid value")
)

// Environment variables consulted for the copyright holder, in order.
const (
	EnvAuthor    = "LICENSE_AUTHOR"
	EnvGitAuthor = "GIT_AUTHOR_NAME"
)

var yearPattern = regexp.MustCompile(`^[1-9][0-9]{3}$`)

// MissingVariableError names the variable that could not be resolved.
type MissingVariableError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("resolve: missing variable %q", e.Name)
}

// Unwrap returns ErrMissingVariable for errors.Is support.
func (e *MissingVariableError) Unwrap() error {
	return ErrMissingVariable
}

// Prompter asks the user for a value. Implementations return an empty
// string when the user leaves the answer blank.
type Prompter interface {
	Input(ctx context.Context, title, placeholder string) (string, error)
}

// Input carries the caller-supplied values for one resolution.
type Input struct {
	// Values holds explicit values (command-line flags) keyed by variable name.
	Values map[string]string
	// Defaults holds configured values keyed by variable name.
	Defaults map[string]string
	// OutputDir is the directory the license is written to. Its base name
	// is the default project name.
	OutputDir string
}

// Resolver builds RenderContexts. The zero value is not usable; call New.
type Resolver struct {
	now      func() time.Time
	getenv   func(string) string
	gitName  func() (string, error)
	userName func() (string, error)
	prompter Prompter
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock overrides the clock used for the default year.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithEnv overrides environment lookup.
func WithEnv(getenv func(string) string) Option {
	return func(r *Resolver) { r.getenv = getenv }
}

// WithGitName overrides the git user.name lookup. A nil function disables it.
func WithGitName(fn func() (string, error)) Option {
	return func(r *Resolver) { r.gitName = fn }
}

// WithUserName overrides the OS account name lookup. A nil function disables it.
func WithUserName(fn func() (string, error)) Option {
	return func(r *Resolver) { r.userName = fn }
}

// WithPrompter enables interactive prompting for unresolved variables.
func WithPrompter(p Prompter) Option {
	return func(r *Resolver) { r.prompter = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver that consults the real clock, environment, git
// configuration and OS account. Prompting is off unless WithPrompter is given.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		now:      time.Now,
		getenv:   os.Getenv,
		gitName:  GitUserName,
		userName: AccountName,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a RenderContext holding every variable spec declares.
// Required variables must resolve to a non-empty value or Resolve fails
// with a *MissingVariableError; no partial context is returned.
func (r *Resolver) Resolve(ctx context.Context, in Input, spec license.TemplateSpec) (template.RenderContext, error) {
	rc := template.NewRenderContext()

	for _, name := range spec.Required {
		v, err := r.lookup(ctx, in, name, true)
		if err != nil {
			return nil, err
		}
		if v == "" {
			return nil, &MissingVariableError{Name: name}
		}
		rc[name] = v
	}

	for _, name := range spec.Optional {
		v, err := r.lookup(ctx, in, name, false)
		if err != nil {
			return nil, err
		}
		rc[name] = v
	}

	if y, ok := rc[license.VarYear]; ok && !yearPattern.MatchString(y) {
		return nil, fmt.Errorf("%w: year %q must be a four-digit year", ErrInvalidValue, y)
	}

	r.logger.Debug("resolved render context", "license", spec.SPDX, "variables", rc.Keys())
	return rc, nil
}

// lookup walks the sources for one variable: explicit value, configured
// default, computed default and finally the prompter.
func (r *Resolver) lookup(ctx context.Context, in Input, name string, required bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if v := clean(in.Values[name]); v != "" {
		r.logger.Debug("variable from flag", "name", name)
		return v, nil
	}
	if v := clean(in.Defaults[name]); v != "" {
		r.logger.Debug("variable from config", "name", name)
		return v, nil
	}
	if v := clean(r.computed(name, in)); v != "" {
		return v, nil
	}

	if r.prompter == nil || !promptable(name, required) {
		return "", nil
	}
	v, err := r.prompter.Input(ctx, promptTitle(name), "")
	if err != nil {
		return "", fmt.Errorf("prompt for %s: %w", name, err)
	}
	return clean(v), nil
}

// computed returns the built-in default for a variable.
func (r *Resolver) computed(name string, in Input) string {
	switch name {
	case license.VarYear:
		return strconv.Itoa(r.now().Year())
	case license.VarFullname:
		return r.defaultFullname()
	case license.VarProject:
		if in.OutputDir == "" {
			return ""
		}
		abs, err := filepath.Abs(in.OutputDir)
		if err != nil {
			return ""
		}
		base := filepath.Base(abs)
		if base == string(filepath.Separator) || base == "." {
			return ""
		}
		return base
	}
	return ""
}

func (r *Resolver) defaultFullname() string {
	for _, key := range []string{EnvAuthor, EnvGitAuthor} {
		if v := clean(r.getenv(key)); v != "" {
			r.logger.Debug("fullname from environment", "var", key)
			return v
		}
	}
	if r.gitName != nil {
		v, err := r.gitName()
		if err != nil {
			r.logger.Debug("git user.name unavailable", "error", err)
		} else if v = clean(v); v != "" {
			r.logger.Debug("fullname from git config")
			return v
		}
	}
	if r.userName != nil {
		v, err := r.userName()
		if err != nil {
			r.logger.Debug("account name unavailable", "error", err)
		} else if v = clean(v); v != "" {
			r.logger.Debug("fullname from OS account")
			return v
		}
	}
	return ""
}

// promptable reports whether an unresolved variable is worth asking for.
// The project name is never prompted; it is purely informational.
func promptable(name string, required bool) bool {
	if required {
		return true
	}
	return name == license.VarOrganization || name == license.VarWebsite
}

func promptTitle(name string) string {
	switch name {
	case license.VarYear:
		return "Copyright year"
	case license.VarFullname:
		return "Full name of the copyright holder"
	case license.VarOrganization:
		return "Organization (optional)"
	case license.VarWebsite:
		return "Organization website (optional)"
	}
	return name
}

// clean trims surrounding space and normalizes to NFC so that composed and
// decomposed spellings of a name render to identical bytes.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// GitUserName reads user.name from the global git configuration.
func GitUserName() (string, error) {
	cfg, err := gitconfig.LoadConfig(gitconfig.GlobalScope)
	if err != nil {
		return "", fmt.Errorf("load global git config: %w", err)
	}
	return cfg.User.Name, nil
}

// AccountName returns the full name of the current OS account. The GECOS
// field may carry extra comma-separated data; only the first entry is used.
func AccountName() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("current user: %w", err)
	}
	name, _, _ := strings.Cut(u.Name, ",")
	return name, nil
}
