package template

import (
	"maps"
	"slices"

	"github.com/modu-ai/license/internal/license"
)

// RenderContext maps template variable names to resolved values.
type RenderContext map[string]string

// ContextOption configures a RenderContext.
type ContextOption func(RenderContext)

// NewRenderContext creates an empty RenderContext and applies any provided options.
func NewRenderContext(opts ...ContextOption) RenderContext {
	rc := make(RenderContext)
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// WithYear sets the copyright year.
func WithYear(year string) ContextOption {
	return WithValue(license.VarYear, year)
}

// WithFullname sets the copyright holder.
func WithFullname(name string) ContextOption {
	return WithValue(license.VarFullname, name)
}

// WithProject sets the project name.
func WithProject(name string) ContextOption {
	return WithValue(license.VarProject, name)
}

// WithOrganization sets the organization used by attribution clauses.
func WithOrganization(org string) ContextOption {
	return WithValue(license.VarOrganization, org)
}

// WithWebsite sets the organization website.
func WithWebsite(url string) ContextOption {
	return WithValue(license.VarWebsite, url)
}

// WithValue sets an arbitrary variable.
func WithValue(name, value string) ContextOption {
	return func(rc RenderContext) {
		rc[name] = value
	}
}

// Missing returns the names that are absent or empty in rc, in the order given.
func (rc RenderContext) Missing(names []string) []string {
	var out []string
	for _, n := range names {
		if rc[n] == "" {
			out = append(out, n)
		}
	}
	return out
}

// Keys returns the variable names in sorted order.
func (rc RenderContext) Keys() []string {
	return slices.Sorted(maps.Keys(rc))
}

// Clone returns a copy of rc.
func (rc RenderContext) Clone() RenderContext {
	return maps.Clone(rc)
}
