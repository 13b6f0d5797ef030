package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/phyloscope/pkg/pipeline"
	"github.com/matzehuels/phyloscope/pkg/render"
)

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	format      string // dot, svg, or png
	showLengths bool   // include branch lengths as edge labels
	output      string // output file path (stdout if empty)
}

// previewCommand creates the preview command.
//
// Preview renders the tree's topology with Graphviz, independent of the
// layout engine, for sanity-checking inputs.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{format: "dot"}

	cmd := &cobra.Command{
		Use:   "preview <newick-file>",
		Short: "Render a quick topology preview of a tree via Graphviz",
		Long: `Render the tree's parent/child structure with Graphviz. This is a
structural preview, not a layout: it shows the topology for sanity-checking
an input file before computing real coordinates.

Examples:
  phyloscope preview tree.nwk                       # DOT to stdout
  phyloscope preview tree.nwk -f svg -o tree.svg    # SVG file
  phyloscope preview tree.nwk -f png -o tree.png --lengths`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), &opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, png")
	cmd.Flags().BoolVar(&opts.showLengths, "lengths", false, "label edges with branch lengths")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// runPreview parses the tree and renders it in the requested format.
func (c *CLI) runPreview(ctx context.Context, opts *previewOpts, input string) error {
	src, err := readNewick(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	t, err := runner.Parse(ctx, pipeline.Options{Newick: src, Logger: c.Logger})
	if err != nil {
		return err
	}

	dot := render.ToDOT(t, render.Options{ShowLengths: opts.showLengths})

	var data []byte
	switch strings.ToLower(opts.format) {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = render.SVG(dot)
	case "png":
		data, err = render.PNG(dot)
	default:
		return fmt.Errorf("unknown format %q (expected dot, svg, or png)", opts.format)
	}
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0644); err != nil {
		return err
	}
	printSuccess("Rendered %s preview", strings.ToLower(opts.format))
	printFile(opts.output)
	return nil
}
