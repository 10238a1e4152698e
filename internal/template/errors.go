// Package template renders license templates into final text and carries
// the render context they are executed against.
package template

import (
	"errors"
	"fmt"
)

// ErrTemplate is the parent of every rendering failure. A rendering
// failure means the compiled-in templates and their declared variables
// disagree, so callers report it as an internal error.
var ErrTemplate = errors.New("template: render failed")

// Sentinel errors for template rendering.
var (
	// ErrTemplateNotFound indicates a spec without a template body.
	ErrTemplateNotFound = fmt.Errorf("%w: template not found", ErrTemplate)

	// ErrMissingTemplateKey indicates the template references a variable
	// that is not present in the render context.
	ErrMissingTemplateKey = fmt.Errorf("%w: missing template key", ErrTemplate)

	// ErrUnexpandedToken indicates placeholder markers survived rendering.
	ErrUnexpandedToken = fmt.Errorf("%w: unexpanded token in output", ErrTemplate)
)
