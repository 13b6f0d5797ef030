package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/phyloscope/pkg/cache"
	"github.com/matzehuels/phyloscope/pkg/layout"
	"github.com/matzehuels/phyloscope/pkg/observability"
	"github.com/matzehuels/phyloscope/pkg/transport"
	"github.com/matzehuels/phyloscope/pkg/tree"
	"github.com/matzehuels/phyloscope/pkg/viz"
)

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the parsed tree with geometry attributes populated.
	Tree *tree.Tree

	// TreeHash is the content hash of the Newick source.
	TreeHash string

	// Layouts holds the raw per-algorithm placements.
	Layouts *layout.Layouts

	// Payload is the client-facing serialization of the layouts.
	Payload *viz.Payload

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	TipCount   int
	ParseTime  time.Duration
	LayoutTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout payload came from cache
}

// layoutCacheTTL bounds how long a cached layout payload is kept. Layouts
// are deterministic, so the TTL exists only to stop unbounded growth.
const layoutCacheTTL = 30 * 24 * time.Hour

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Close releases the runner's cache resources.
func (r *Runner) Close() error { return r.Cache.Close() }

// Execute runs the complete parse → layout pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{TreeHash: cache.Hash([]byte(opts.Newick))}

	parseStart := time.Now()
	t, err := r.Parse(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Tree = t
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = t.Len()
	result.Stats.TipCount = len(t.Tips())

	r.Logger.Info("parsed tree",
		"nodes", result.Stats.NodeCount,
		"tips", result.Stats.TipCount,
		"duration", result.Stats.ParseTime)

	layoutStart := time.Now()
	payload, layouts, hit, err := r.ComputeLayout(ctx, t, result.TreeHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Payload = payload
	result.Layouts = layouts
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("computed layouts",
		"default", payload.DefaultLayout,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// Parse builds a tree from the options' Newick source and derives its
// geometry attributes.
func (r *Runner) Parse(ctx context.Context, opts Options) (*tree.Tree, error) {
	opts.SetLayoutDefaults()
	observability.Pipeline().OnParseStart(ctx, len(opts.Newick))
	start := time.Now()

	t, err := tree.ParseNewick(opts.Newick)
	if err != nil {
		observability.Pipeline().OnParseComplete(ctx, 0, time.Since(start), err)
		return nil, err
	}
	t.UpdateGeometry(opts.UseLengths())

	observability.Pipeline().OnParseComplete(ctx, t.Len(), time.Since(start), nil)
	return t, nil
}

// ComputeLayout runs every layout algorithm for t and assembles the client
// payload, consulting the cache first. The tree's geometry attributes must
// already be populated (as done by Parse). The returned Layouts is nil on a
// cache hit - the cached payload carries everything a client needs.
func (r *Runner) ComputeLayout(ctx context.Context, t *tree.Tree, treeHash string, opts Options) (*viz.Payload, *layout.Layouts, bool, error) {
	opts.SetLayoutDefaults()
	key := r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if p, err := viz.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return p, nil, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	observability.Pipeline().OnLayoutStart(ctx, t.Len())
	start := time.Now()

	layouts, err := layout.Compute(t, opts.Width, opts.Height)
	if err != nil {
		observability.Pipeline().OnLayoutComplete(ctx, t.Len(), time.Since(start), err)
		return nil, nil, false, err
	}
	payload := viz.FromTree(t, layouts, opts.Width, opts.Height, opts.UseLengths())

	observability.Pipeline().OnLayoutComplete(ctx, t.Len(), time.Since(start), nil)

	if data, err := viz.Marshal(payload); err == nil {
		if err := r.Cache.Set(ctx, key, data, layoutCacheTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return payload, layouts, false, nil
}

// ExportInputs are the optional tabular artifacts attached during export.
type ExportInputs struct {
	Table            *transport.Table
	SampleMetadata   *transport.SampleMetadata
	Ordination       *transport.Ordination
	TipMetadata      *transport.FeatureMetadata
	InternalMetadata *transport.FeatureMetadata
}

// Export attaches the transport encoding to an existing payload: the
// topology encoding always, plus compressed table and metadata when inputs
// carry them. The payload is modified in place.
func (r *Runner) Export(ctx context.Context, t *tree.Tree, payload *viz.Payload, in ExportInputs) error {
	observability.Pipeline().OnExportStart(ctx, t.Len())
	start := time.Now()

	err := r.export(t, payload, in)

	size := 0
	if err == nil {
		if data, merr := viz.Marshal(payload); merr == nil {
			size = len(data)
		}
	}
	observability.Pipeline().OnExportComplete(ctx, size, time.Since(start), err)
	return err
}

func (r *Runner) export(t *tree.Tree, payload *viz.Payload, in ExportInputs) error {
	enc := transport.EncodeTree(t)
	payload.Tree = &enc

	if in.Table != nil {
		table, md, err := transport.RemoveEmpty(in.Table, in.SampleMetadata, in.Ordination)
		if err != nil {
			return fmt.Errorf("filter table: %w", err)
		}
		ct := transport.CompressTable(table)
		payload.Table = ct

		if md != nil {
			sm, err := transport.CompressSampleMetadata(ct.SampleIndex, md)
			if err != nil {
				return fmt.Errorf("compress sample metadata: %w", err)
			}
			payload.SampleMetadata = sm
		}
	}

	if in.TipMetadata != nil || in.InternalMetadata != nil {
		fm, err := transport.CompressFeatureMetadata(in.TipMetadata, in.InternalMetadata)
		if err != nil {
			return fmt.Errorf("compress feature metadata: %w", err)
		}
		payload.FeatureMetadata = fm
	}
	return nil
}
