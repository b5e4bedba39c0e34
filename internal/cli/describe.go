package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/reglet-dev/scripthost/domain/entities"
)

const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

func newDescribeCommand(a *app) *cobra.Command {
	var entry, format string
	var width int

	cmd := &cobra.Command{
		Use:   "describe <script>",
		Short: "Print the parameters of a script's entry type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatMarkdown {
				return fmt.Errorf("unknown format %q (expected json or markdown)", format)
			}

			ctx := cmd.Context()
			runner, err := a.newRunner(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = runner.Close(ctx) }()

			if err := a.load(ctx, runner, args[0], entry); err != nil {
				return err
			}

			if format == formatJSON {
				schema, err := runner.Schema()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
				return err
			}

			desc, err := runner.Descriptor()
			if err != nil {
				return err
			}
			out, err := renderMarkdown(descriptorMarkdown(desc), width)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVar(&entry, "entry", "Run", "name of the entry method")
	cmd.Flags().StringVar(&format, "format", formatJSON, "output format (json, markdown)")
	cmd.Flags().IntVar(&width, "width", 100, "word wrap width for markdown")
	return cmd
}

// descriptorMarkdown renders the descriptor as a markdown table.
func descriptorMarkdown(d entities.Descriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s.%s\n\n", d.Type, d.Entry)
	if len(d.Fields) == 0 {
		b.WriteString("No parameters.\n")
		return b.String()
	}
	b.WriteString("| Name | Direction | Kind | Description |\n")
	b.WriteString("|------|-----------|------|-------------|\n")
	for _, f := range d.Fields {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", f.Name, f.Direction, f.Kind, strings.ReplaceAll(f.Description, "|", `\|`))
	}
	return b.String()
}

func renderMarkdown(content string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}
