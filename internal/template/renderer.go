package template

import (
	"bytes"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"text/template"
	"text/template/parse"

	"github.com/modu-ai/license/internal/license"
)

// unexpandedTokenPattern detects placeholders in the literal text of a
// template: action markers that escaped parsing and the bracketed fields of
// the Apache boilerplate. Substituted values are never scanned.
var unexpandedTokenPattern = regexp.MustCompile(`\{\{.*?\}\}|\[yyyy\]|\[name of copyright owner\]`)

// Renderer renders license templates with strict mode enabled.
type Renderer interface {
	// Render executes spec.Body (with its partials) against rc. Returns
	// ErrMissingTemplateKey if the template references a variable absent
	// from rc and ErrUnexpandedToken if the template text itself still
	// carries placeholders. Values from rc are inserted verbatim.
	Render(spec license.TemplateSpec, rc RenderContext) ([]byte, error)

	// RenderNotice executes spec.Notice against rc. A spec without a
	// notice renders to nil.
	RenderNotice(spec license.TemplateSpec, rc RenderContext) ([]byte, error)
}

// renderer is the concrete implementation of Renderer.
type renderer struct {
	logger *slog.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*renderer)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) RendererOption {
	return func(r *renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...RendererOption) Renderer {
	r := &renderer{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render parses and executes the license body with missingkey=error.
func (r *renderer) Render(spec license.TemplateSpec, rc RenderContext) ([]byte, error) {
	if spec.Body == "" {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, spec.SPDX)
	}
	return r.execute(spec.SPDX, spec.Body, spec.Partials, rc)
}

// RenderNotice parses and executes the follow-up notice, if any.
func (r *renderer) RenderNotice(spec license.TemplateSpec, rc RenderContext) ([]byte, error) {
	if spec.Notice == "" {
		return nil, nil
	}
	return r.execute(spec.SPDX+" notice", spec.Notice, nil, rc)
}

func (r *renderer) execute(name, body string, partials map[string]string, rc RenderContext) ([]byte, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrTemplate, name, err)
	}

	// Sorted so that parse errors are reported deterministically.
	names := make([]string, 0, len(partials))
	for p := range partials {
		names = append(names, p)
	}
	slices.Sort(names)
	for _, p := range names {
		if _, err := tmpl.New(p).Parse(partials[p]); err != nil {
			return nil, fmt.Errorf("%w: parse partial %q of %q: %v", ErrTemplate, p, name, err)
		}
	}

	// The declared variable set and the template text are separate
	// artifacts; check every referenced field and the literal text before
	// executing.
	for _, t := range tmpl.Templates() {
		if t.Tree == nil {
			continue
		}
		if tok := literalPlaceholder(t.Tree.Root); tok != "" {
			return nil, fmt.Errorf("%w: found %q in %s", ErrUnexpandedToken, tok, t.Name())
		}
		for _, field := range referencedFields(t.Tree.Root) {
			if _, ok := rc[field]; !ok {
				return nil, fmt.Errorf("%w: %q referenced by %s", ErrMissingTemplateKey, field, t.Name())
			}
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]string(rc)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingTemplateKey, err)
	}

	result := buf.Bytes()
	r.logger.Debug("rendered template", "name", name, "bytes", len(result))
	return result, nil
}

// referencedFields returns the top-level field names used by a template
// tree, e.g. "year" for {{.year}}.
func referencedFields(root parse.Node) []string {
	var fields []string
	walkTree(root, func(n parse.Node) {
		if f, ok := n.(*parse.FieldNode); ok && len(f.Ident) > 0 && !slices.Contains(fields, f.Ident[0]) {
			fields = append(fields, f.Ident[0])
		}
	})
	return fields
}

// literalPlaceholder returns the first placeholder found in the tree's
// text nodes, or "".
func literalPlaceholder(root parse.Node) string {
	var found string
	walkTree(root, func(n parse.Node) {
		if t, ok := n.(*parse.TextNode); ok && found == "" {
			found = string(unexpandedTokenPattern.Find(t.Text))
		}
	})
	return found
}

// walkTree calls visit for every node reachable from n.
func walkTree(n parse.Node, visit func(parse.Node)) {
	switch n := n.(type) {
	case nil:
		return
	case *parse.ListNode:
		if n == nil {
			return
		}
		visit(n)
		for _, c := range n.Nodes {
			walkTree(c, visit)
		}
	case *parse.ActionNode:
		visit(n)
		walkTree(n.Pipe, visit)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		visit(n)
		for _, c := range n.Cmds {
			walkTree(c, visit)
		}
	case *parse.CommandNode:
		visit(n)
		for _, a := range n.Args {
			walkTree(a, visit)
		}
	case *parse.IfNode:
		visit(n)
		walkBranch(&n.BranchNode, visit)
	case *parse.RangeNode:
		visit(n)
		walkBranch(&n.BranchNode, visit)
	case *parse.WithNode:
		visit(n)
		walkBranch(&n.BranchNode, visit)
	case *parse.TemplateNode:
		visit(n)
		walkTree(n.Pipe, visit)
	default:
		visit(n)
	}
}

func walkBranch(b *parse.BranchNode, visit func(parse.Node)) {
	walkTree(b.Pipe, visit)
	walkTree(b.List, visit)
	if b.ElseList != nil {
		walkTree(b.ElseList, visit)
	}
}
