package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/phyloscope/pkg/pipeline"
	"github.com/matzehuels/phyloscope/pkg/viz"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	width         float64 // canvas width in pixels
	height        float64 // canvas height in pixels
	ignoreLengths bool    // draw a cladogram instead of honoring lengths
	refresh       bool    // recompute even if a cached payload exists
	noCache       bool    // disable the cache entirely
	output        string  // output file path (stdout if empty)
}

// layoutCommand creates the layout command.
//
// It reads Newick from a file (or stdin with "-"), runs the full layout
// pipeline, and writes the resulting payload JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOpts{
		width:         c.Config.Width,
		height:        c.Config.Height,
		ignoreLengths: c.Config.IgnoreLengths,
	}
	if opts.width == 0 {
		opts.width = pipeline.DefaultWidth
	}
	if opts.height == 0 {
		opts.height = pipeline.DefaultHeight
	}

	cmd := &cobra.Command{
		Use:   "layout <newick-file>",
		Short: "Compute all layouts for a tree and emit the payload JSON",
		Long: `Compute 2D coordinates for a phylogenetic tree under every layout
algorithm and emit a single JSON payload carrying all of them.

The input is a Newick file; pass "-" to read from stdin.

Examples:
  phyloscope layout tree.nwk                      # Payload to stdout
  phyloscope layout tree.nwk -o tree.json         # Payload to file
  phyloscope layout tree.nwk --ignore-lengths     # Length-agnostic cladogram
  cat tree.nwk | phyloscope layout -              # Read from stdin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), &opts, args[0])
		},
	}

	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "canvas width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "canvas height in pixels")
	cmd.Flags().BoolVar(&opts.ignoreLengths, "ignore-lengths", opts.ignoreLengths, "ignore branch lengths (cladogram)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// runLayout executes the layout pipeline for the given input.
func (c *CLI) runLayout(ctx context.Context, opts *layoutOpts, input string) error {
	src, err := readNewick(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinnerWithContext(ctx, "Computing layouts...")
	spin.Start()
	result, err := runner.Execute(ctx, pipeline.Options{
		Newick:        src,
		Width:         opts.width,
		Height:        opts.height,
		IgnoreLengths: opts.ignoreLengths,
		Refresh:       opts.refresh,
		Logger:        c.Logger,
	})
	if err != nil {
		spin.Stop()
		return err
	}
	spin.StopWithSuccess(fmt.Sprintf("Laid out %d nodes (default %s)",
		result.Stats.NodeCount, result.Payload.DefaultLayout))

	if err := writePayload(result.Payload, opts.output); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Wrote payload")
		printFile(opts.output)
		printStats(result.Stats.NodeCount, result.Stats.TipCount, result.CacheInfo.LayoutHit)
		printNewline()
		printNextStep("Attach a feature table", fmt.Sprintf("phyloscope export %s %s --table table.json", input, opts.output))
	}
	return nil
}

// readNewick reads Newick source from a file, or stdin when path is "-".
func readNewick(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// writePayload writes the payload JSON to path, or stdout when path is empty.
func writePayload(p *viz.Payload, path string) error {
	if path == "" {
		data, err := viz.Marshal(p)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return viz.WriteFile(p, path)
}
