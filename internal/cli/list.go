package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/modu-ai/license/internal/license"
)

func newListCommand(s *settings) *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the supported license identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			md := licenseTable()

			switch {
			case markdown:
				_, err := io.WriteString(out, md)
				return err
			case s.stdoutIsTerm(out) && !s.deps.Theme.NoColor:
				r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
				if err != nil {
					s.deps.Logger.Debug("glamour unavailable, using plain output", "error", err)
					return writePlainList(out)
				}
				rendered, err := r.Render(md)
				if err != nil {
					s.deps.Logger.Debug("glamour render failed, using plain output", "error", err)
					return writePlainList(out)
				}
				_, err = io.WriteString(out, rendered)
				return err
			default:
				return writePlainList(out)
			}
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print the table as Markdown")
	return cmd
}

func variablesColumn(spec license.TemplateSpec) string {
	col := strings.Join(spec.Required, ", ")
	if len(spec.Optional) > 0 {
		col += " (optional: " + strings.Join(spec.Optional, ", ") + ")"
	}
	return col
}

// licenseTable returns the supported licenses as a Markdown table.
func licenseTable() string {
	var b strings.Builder
	b.WriteString("| Identifier | Name | Variables |\n")
	b.WriteString("|---|---|---|\n")
	for _, k := range license.All() {
		spec := license.Lookup(k)
		fmt.Fprintf(&b, "| %s | %s | %s |\n", spec.SPDX, spec.Name, variablesColumn(spec))
	}
	return b.String()
}

func writePlainList(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "IDENTIFIER\tNAME\tVARIABLES")
	for _, k := range license.All() {
		spec := license.Lookup(k)
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", spec.SPDX, spec.Name, variablesColumn(spec))
	}
	return tw.Flush()
}
