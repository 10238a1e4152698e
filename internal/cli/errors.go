package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/modu-ai/license/internal/config"
	"github.com/modu-ai/license/internal/license"
	"github.com/modu-ai/license/internal/resolve"
	"github.com/modu-ai/license/internal/template"
	"github.com/modu-ai/license/internal/ui"
	"github.com/modu-ai/license/internal/writer"
)

// ErrUsage marks bad flags, arguments or flag values.
var ErrUsage = errors.New("usage error")

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitMissingVar = 3
	ExitConflict   = 4
	ExitIO         = 5
	ExitConfig     = 7
	ExitInternal   = 10
	ExitCancelled  = 130
)

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// ExitCodeFor maps an error returned by the command tree to a process exit code.
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage),
		errors.Is(err, license.ErrUnknownKind),
		errors.Is(err, resolve.ErrInvalidValue):
		return ExitUsage
	case errors.Is(err, resolve.ErrMissingVariable):
		return ExitMissingVar
	case errors.Is(err, writer.ErrAlreadyExists):
		return ExitConflict
	case errors.Is(err, writer.ErrPathNotFound),
		errors.Is(err, writer.ErrIsDirectory),
		errors.Is(err, writer.ErrIO):
		return ExitIO
	case errors.Is(err, config.ErrConfigNotFound),
		errors.Is(err, config.ErrInvalidYAML),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrDynamicToken):
		return ExitConfig
	case errors.Is(err, template.ErrTemplate):
		return ExitInternal
	case errors.Is(err, ui.ErrCancelled), errors.Is(err, context.Canceled):
		return ExitCancelled
	default:
		return ExitFailure
	}
}

// FormatError renders err for the terminal, adding a hint on how to fix
// the most common failures.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	msg := "Error: " + err.Error()

	var mv *resolve.MissingVariableError
	switch {
	case errors.As(err, &mv):
		return msg + "\n" + missingVariableHint(mv.Name)
	case errors.Is(err, writer.ErrAlreadyExists):
		return msg + "\nPass --force to overwrite it, or --output to choose another path."
	case errors.Is(err, writer.ErrPathNotFound):
		return msg + "\nCreate the directory first; it is never created automatically."
	case errors.Is(err, license.ErrUnknownKind):
		return msg
	case errors.Is(err, ErrUsage):
		return msg + "\nRun 'license --help' for usage."
	case errors.Is(err, template.ErrTemplate):
		return msg + "\nThis is a bug in the bundled license templates; please report it."
	case errors.Is(err, ui.ErrCancelled), errors.Is(err, context.Canceled):
		return "Cancelled."
	}
	return msg
}

func missingVariableHint(name string) string {
	switch name {
	case license.VarFullname:
		return "Set it with --author, the " + resolve.EnvAuthor + " environment variable, 'author' in the config file, or git's user.name."
	case license.VarYear:
		return "Set it with --year."
	}
	return "Set it with --" + name + " or in the config file."
}
