package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modu-ai/license/internal/header"
	"github.com/modu-ai/license/internal/license"
	"github.com/modu-ai/license/internal/resolve"
	"github.com/modu-ai/license/internal/ui"
	"github.com/modu-ai/license/internal/writer"
)

// stdoutPath is the --output value that selects standard output.
const stdoutPath = "-"

// generateFlags holds the flags of the generate (root) command.
type generateFlags struct {
	author       string
	year         string
	project      string
	organization string
	website      string
	output       string
	comment      string
	sourcePath   string
	force        bool
	stdout       bool
	addComment   bool
}

func newGenerateCommand(s *settings) *cobra.Command {
	f := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "license [KIND]",
		Short: "Generate an open-source license file",
		Long: `Generate a LICENSE file for a project from a bundled license template.

The copyright holder defaults to $LICENSE_AUTHOR, $GIT_AUTHOR_NAME, git's
user.name or the OS account name; the year defaults to the current year.
Values missing after that are prompted for when running in a terminal.

Examples:
  license mit --author "Jane Doe"        Write ./LICENSE
  license apache-2.0 -o docs/            Write docs/LICENSE
  license bsd-3-clause --stdout          Print the text instead of writing
  license mit -c -s src                  Also add SPDX headers under src/
  license mit -c --comment auto          Pick the comment syntax per file type
  license list                           Show the supported identifiers`,
		Args:    kindArgs,
		PreRunE: f.validate,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd, s.deps, f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.author, "author", "a", "", "Full name of the copyright holder")
	fl.StringVarP(&f.year, "year", "y", "", "Copyright year (default: current year)")
	fl.StringVarP(&f.project, "project", "p", "", "Project name (default: output directory name)")
	fl.StringVar(&f.organization, "organization", "", "Organization named by attribution clauses")
	fl.StringVar(&f.website, "website", "", "Organization website named by attribution clauses")
	fl.StringVarP(&f.output, "output", "o", "", `Output file or directory (default "LICENSE"; "-" for stdout)`)
	fl.BoolVarP(&f.force, "force", "f", false, "Overwrite an existing file")
	fl.BoolVar(&f.stdout, "stdout", false, "Print the license instead of writing a file")
	fl.BoolVarP(&f.addComment, "add-comment", "c", false, "Prepend an SPDX header to source files")
	fl.StringVar(&f.comment, "comment", "", `Comment prefix for the SPDX header, or "auto" to choose by file type (default "//")`)
	fl.StringVarP(&f.sourcePath, "source-path", "s", "src", "File or directory to add SPDX headers to")

	return cmd
}

// kindArgs accepts at most one positional argument, the license identifier.
func kindArgs(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return usageErrorf("expected at most one license identifier, got %d arguments", len(args))
	}
	return nil
}

// validate checks flag combinations before any work is done.
func (f *generateFlags) validate(cmd *cobra.Command, _ []string) error {
	if f.stdout && cmd.Flags().Changed("output") && f.output != stdoutPath {
		return usageErrorf("--stdout and --output are mutually exclusive")
	}
	if cmd.Flags().Changed("comment") && strings.TrimSpace(f.comment) == "" {
		return usageErrorf("--comment must not be blank")
	}
	if cmd.Flags().Changed("source-path") && !f.addComment {
		return usageErrorf("--source-path requires --add-comment")
	}
	return nil
}

// values returns the explicitly given template variables.
func (f *generateFlags) values() map[string]string {
	return map[string]string{
		license.VarFullname:     f.author,
		license.VarYear:         f.year,
		license.VarProject:      f.project,
		license.VarOrganization: f.organization,
		license.VarWebsite:      f.website,
	}
}

func runGenerate(ctx context.Context, cmd *cobra.Command, d *Dependencies, f *generateFlags, args []string) error {
	kind, err := chooseKind(ctx, d, args)
	if err != nil {
		return err
	}
	spec := license.Lookup(kind)

	output := f.output
	if !cmd.Flags().Changed("output") {
		output = d.Config.Output
	}
	toStdout := f.stdout || output == stdoutPath

	outputDir := "."
	var target writer.OutputTarget
	if !toStdout {
		target = writer.ResolveTarget(output, spec.Filename, f.force)
		// Fail on conflicts before asking any questions.
		if err := d.Writer.Check(target); err != nil {
			return err
		}
		outputDir = filepath.Dir(target.Path)
	}

	rc, err := d.Resolver.Resolve(ctx, resolve.Input{
		Values:    f.values(),
		Defaults:  d.Config.Values(),
		OutputDir: outputDir,
	}, spec)
	if err != nil {
		return err
	}

	text, err := d.Renderer.Render(spec, rc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if toStdout {
		if _, err := out.Write(text); err != nil {
			return fmt.Errorf("%w: write stdout: %v", writer.ErrIO, err)
		}
		// Keep stdout clean for redirection; summaries go to stderr.
		out = cmd.ErrOrStderr()
	} else {
		if err := d.Writer.Write(target, text); err != nil {
			return err
		}
		d.Logger.Info("license written", "path", target.Path, "license", spec.SPDX)
	}

	comment := f.comment
	if !cmd.Flags().Changed("comment") {
		comment = d.Config.Comment
	}
	spdxLine := spec.SPDXLine(comment)
	if strings.TrimSpace(comment) == header.AutoComment {
		spdxLine = header.SPDXTag + " " + spec.SPDX
	}

	if !toStdout {
		_, _ = fmt.Fprintln(out, d.Theme.SuccessCard(
			"Created "+target.Path,
			spec.Name+" ("+spec.SPDX+")",
			"Copyright "+rc[license.VarYear]+" "+rc[license.VarFullname],
			d.Theme.Muted("Source file header: "+spdxLine),
		))
	}

	notice, err := d.Renderer.RenderNotice(spec, rc)
	if err != nil {
		return err
	}
	if notice != nil {
		_, _ = fmt.Fprintln(out, d.Theme.Card("Add this notice to each source file", strings.TrimRight(string(notice), "\n")))
	}

	if f.addComment {
		res, err := d.Stamper.StampSPDX(ctx, f.sourcePath, spec.SPDX, comment)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, d.Theme.SuccessCard(
			fmt.Sprintf("Added SPDX headers to %d file(s)", len(res.Stamped)),
			fmt.Sprintf("%d file(s) skipped", res.Skipped),
		))
	}

	return nil
}

// chooseKind parses the positional identifier, or asks for one when
// running interactively.
func chooseKind(ctx context.Context, d *Dependencies, args []string) (license.Kind, error) {
	if len(args) == 1 {
		return license.Parse(args[0])
	}
	if !d.Interactive() {
		return 0, usageErrorf(`missing license identifier (run "license list" for supported identifiers)`)
	}

	items := make([]ui.SelectItem, 0, len(license.All()))
	for _, k := range license.All() {
		spec := license.Lookup(k)
		items = append(items, ui.SelectItem{Label: spec.SPDX, Value: spec.SPDX, Desc: spec.Name})
	}
	id, err := d.Prompt.Select(ctx, "Which license?", items)
	if err != nil {
		return 0, err
	}
	return license.Parse(id)
}
