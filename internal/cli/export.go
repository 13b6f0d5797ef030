package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/phyloscope/pkg/pipeline"
	"github.com/matzehuels/phyloscope/pkg/transport"
	"github.com/matzehuels/phyloscope/pkg/viz"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	table      string // feature table JSON
	sampleMD   string // sample metadata JSON
	ordination string // ordination JSON (sample/feature ID lists)
	tipMD      string // tip feature metadata JSON
	internalMD string // internal-node feature metadata JSON
	output     string // output file path (overwrites payload in place if empty)
}

// exportCommand creates the export command.
//
// It re-parses the tree, attaches the compact topology encoding to an
// existing payload, and optionally folds in a feature table and metadata.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export <newick-file> <payload-file>",
		Short: "Attach topology, table, and metadata encodings to a payload",
		Long: `Attach the compact topology encoding to an existing payload, plus
compressed table and metadata payloads when the corresponding inputs are
given.

The feature table must already be matched to the tree: its feature IDs
name tips, its sample IDs match the sample metadata rows.

Examples:
  phyloscope export tree.nwk tree.json
  phyloscope export tree.nwk tree.json --table table.json --sample-metadata samples.json
  phyloscope export tree.nwk tree.json --tip-metadata tips.json --int-metadata internal.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), &opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.table, "table", "", "feature table JSON file")
	cmd.Flags().StringVar(&opts.sampleMD, "sample-metadata", "", "sample metadata JSON file")
	cmd.Flags().StringVar(&opts.ordination, "ordination", "", "ordination JSON file (consistency check)")
	cmd.Flags().StringVar(&opts.tipMD, "tip-metadata", "", "tip feature metadata JSON file")
	cmd.Flags().StringVar(&opts.internalMD, "int-metadata", "", "internal-node feature metadata JSON file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (overwrites the payload file if empty)")

	return cmd
}

// runExport loads the inputs, runs the export stage, and writes the enriched
// payload back out.
func (c *CLI) runExport(ctx context.Context, opts *exportOpts, newickPath, payloadPath string) error {
	src, err := readNewick(newickPath)
	if err != nil {
		return err
	}
	payload, err := viz.ReadFile(payloadPath)
	if err != nil {
		return err
	}

	in, err := loadExportInputs(opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	t, err := runner.Parse(ctx, pipeline.Options{Newick: src, IgnoreLengths: !payload.UseLengths, Logger: c.Logger})
	if err != nil {
		return err
	}
	if t.Len() != len(payload.Nodes) {
		return fmt.Errorf("payload has %d nodes but tree has %d; were they produced from the same input?",
			len(payload.Nodes), t.Len())
	}

	prog := newProgress(c.Logger)
	if err := runner.Export(ctx, t, payload, in); err != nil {
		return err
	}
	prog.done("Attached transport encoding")

	out := opts.output
	if out == "" {
		out = payloadPath
	}
	if err := writePayload(payload, out); err != nil {
		return err
	}
	printSuccess("Wrote payload")
	printFile(out)
	if payload.Table != nil {
		printDetail("%d samples · %d features", len(payload.Table.SampleIDs), len(payload.Table.FeatureIDs))
	}
	return nil
}

// loadExportInputs reads the optional tabular artifacts named by the flags.
func loadExportInputs(opts *exportOpts) (pipeline.ExportInputs, error) {
	var in pipeline.ExportInputs

	if opts.table != "" {
		in.Table = &transport.Table{}
		if err := readJSON(opts.table, in.Table); err != nil {
			return in, err
		}
	}
	if opts.sampleMD != "" {
		if opts.table == "" {
			return in, fmt.Errorf("--sample-metadata requires --table")
		}
		in.SampleMetadata = &transport.SampleMetadata{}
		if err := readJSON(opts.sampleMD, in.SampleMetadata); err != nil {
			return in, err
		}
	}
	if opts.ordination != "" {
		in.Ordination = &transport.Ordination{}
		if err := readJSON(opts.ordination, in.Ordination); err != nil {
			return in, err
		}
	}
	if opts.tipMD != "" {
		in.TipMetadata = &transport.FeatureMetadata{}
		if err := readJSON(opts.tipMD, in.TipMetadata); err != nil {
			return in, err
		}
	}
	if opts.internalMD != "" {
		in.InternalMetadata = &transport.FeatureMetadata{}
		if err := readJSON(opts.internalMD, in.InternalMetadata); err != nil {
			return in, err
		}
	}
	return in, nil
}

// readJSON decodes a JSON file into v.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
