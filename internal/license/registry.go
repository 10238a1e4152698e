package license

import (
	"embed"
	"fmt"
	"maps"
	"slices"
)

// Variable names understood by the license templates.
const (
	VarYear         = "year"
	VarFullname     = "fullname"
	VarProject      = "project"
	VarOrganization = "organization"
	VarWebsite      = "website"
)

// DefaultFilename is the file name written when the output is a directory.
const DefaultFilename = "LICENSE"

//go:embed texts
var texts embed.FS

// TemplateSpec associates a Kind with its template text and the variables
// the template consumes. Specs are built once from the embedded texts and
// never mutated; Lookup hands out copies.
type TemplateSpec struct {
	Kind     Kind
	Name     string // human-readable title
	SPDX     string
	Filename string
	Body     string

	// Partials are named sub-templates invoked from Body with {{template}}.
	Partials map[string]string

	// Required variables must resolve to a non-empty value.
	Required []string
	// Optional variables are always present in the render context but may be empty.
	Optional []string

	// Notice is an optional template printed after the license is written,
	// e.g. the per-file boilerplate recommended by Apache-2.0.
	Notice string
}

// Variables returns the required and optional variable names.
func (s TemplateSpec) Variables() []string {
	out := make([]string, 0, len(s.Required)+len(s.Optional))
	out = append(out, s.Required...)
	return append(out, s.Optional...)
}

// SPDXLine returns the SPDX header line prefixed with the given comment marker.
func (s TemplateSpec) SPDXLine(comment string) string {
	return comment + " SPDX-License-Identifier: " + s.SPDX
}

func (s TemplateSpec) clone() TemplateSpec {
	c := s
	c.Partials = maps.Clone(s.Partials)
	c.Required = slices.Clone(s.Required)
	c.Optional = slices.Clone(s.Optional)
	return c
}

var registry = buildRegistry()

func buildRegistry() map[Kind]TemplateSpec {
	holder := []string{VarYear, VarFullname}
	bsd3 := mustRead("texts/bsd-3-clause.tmpl")

	specs := []TemplateSpec{
		{
			Kind:     MIT,
			Name:     "MIT License",
			Body:     mustRead("texts/mit.tmpl"),
			Required: holder,
			Optional: []string{VarProject},
		},
		{
			Kind:     Apache2,
			Name:     "Apache License 2.0",
			Body:     mustRead("texts/apache-2.0.tmpl"),
			Required: holder,
			Optional: []string{VarProject},
			Notice:   mustRead("texts/apache-2.0.notice.tmpl"),
		},
		{
			Kind:     BSD2Clause,
			Name:     `BSD 2-Clause "Simplified" License`,
			Body:     mustRead("texts/bsd-2-clause.tmpl"),
			Required: holder,
			Optional: []string{VarProject},
		},
		{
			Kind:     BSD3Clause,
			Name:     `BSD 3-Clause "New" or "Revised" License`,
			Body:     bsd3,
			Partials: bsdPartials("", ""),
			Required: holder,
			Optional: []string{VarProject},
		},
		{
			Kind:     BSD3ClauseAttribution,
			Name:     "BSD with Attribution",
			Body:     bsd3,
			Partials: bsdPartials(mustRead("texts/bsd-3-clause/attribution.tmpl"), ""),
			Required: holder,
			Optional: []string{VarProject, VarOrganization, VarWebsite},
		},
		{
			Kind:     BSD3ClauseModification,
			Name:     "BSD 3-Clause Modification",
			Body:     bsd3,
			Partials: bsdPartials(mustRead("texts/bsd-3-clause/modification.tmpl"), ""),
			Required: holder,
			Optional: []string{VarProject},
		},
		{
			Kind:     BSD3ClauseNoMilitary,
			Name:     "BSD 3-Clause No Military License",
			Body:     bsd3,
			Partials: bsdPartials("", mustRead("texts/bsd-3-clause/no-military.tmpl")),
			Required: holder,
			Optional: []string{VarProject},
		},
		{
			Kind:     ISC,
			Name:     "ISC License",
			Body:     mustRead("texts/isc.tmpl"),
			Required: holder,
			Optional: []string{VarProject},
		},
	}

	out := make(map[Kind]TemplateSpec, len(specs))
	for _, s := range specs {
		s.SPDX = s.Kind.String()
		s.Filename = DefaultFilename
		out[s.Kind] = s
	}
	return out
}

// bsdPartials fills the fourth clause and postamble slots of the BSD-3-Clause body.
func bsdPartials(fourth, postamble string) map[string]string {
	return map[string]string{
		"fourth":    fourth,
		"postamble": postamble,
	}
}

func mustRead(name string) string {
	data, err := texts.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("license: embedded text %s: %v", name, err))
	}
	return string(data)
}

// Lookup returns the TemplateSpec for kind. It never fails for the
// enumerated kinds; passing a value outside the enumeration is a
// programming error and panics.
func Lookup(kind Kind) TemplateSpec {
	spec, ok := registry[kind]
	if !ok {
		panic(fmt.Sprintf("license: no template registered for %s", kind))
	}
	return spec.clone()
}
