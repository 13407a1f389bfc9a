package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage cache lifetimes when positive.
	TTL time.Duration
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	root, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Tree = root
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = root.Count()
	result.Stats.Depth = root.Depth()
	result.CacheInfo.LoadHit = loadHit

	r.Logger.Info("loaded tree",
		"nodes", result.Stats.NodeCount,
		"depth", result.Stats.Depth,
		"size", root.Size,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.Layout(ctx, root, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.BlockCount = blockCount(res)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"blocks", result.Stats.BlockCount,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo reads opts.Input, decodes and aggregates it, and reports
// whether the aggregated tree came from cache.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*tree.Node, bool, error) {
	if opts.Input == "" {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "source %s not found", opts.Input)
		}
		return nil, false, fmt.Errorf("read %s: %w", opts.Input, err)
	}
	return r.LoadBytesWithCacheInfo(ctx, data, opts)
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*tree.Node, error) {
	root, _, err := r.LoadWithCacheInfo(ctx, opts)
	return root, err
}

// LoadReader decodes and aggregates a source document read from rd.
// opts.Format must be set unless opts.Input names a file with a known
// extension.
func (r *Runner) LoadReader(ctx context.Context, rd io.Reader, opts Options) (*tree.Node, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	root, _, err := r.LoadBytesWithCacheInfo(ctx, data, opts)
	return root, err
}

// LoadBytesWithCacheInfo decodes and aggregates an in-memory source document.
// The aggregated tree is cached under the document hash and the ingestion
// options.
func (r *Runner) LoadBytesWithCacheInfo(ctx context.Context, data []byte, opts Options) (root *tree.Node, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	format, err := SourceFormat(opts)
	if err != nil {
		return nil, false, err
	}

	name := opts.Input
	if name == "" {
		name = "-"
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name)
	start := time.Now()
	defer func() {
		count := 0
		if root != nil {
			count = root.Count()
		}
		hooks.OnLoadComplete(ctx, name, count, time.Since(start), err)
	}()

	cacheKey := r.Keyer.TreeKey(cache.Hash(data), opts.TreeKeyOpts(string(format)))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, ok := r.cachedTree(ctx, cacheKey); ok {
			return cached, true, nil
		}
	}

	root, err = LoadTree(data, format, opts)
	if err != nil {
		return nil, false, err
	}
	if enc, err := json.Marshal(root); err == nil {
		r.store(ctx, "tree", cacheKey, enc, TTLTree)
	}
	opts.logger().Debug("aggregated tree", "format", format, "nodes", root.Count())
	return root, false, nil
}

func (r *Runner) cachedTree(ctx context.Context, key string) (*tree.Node, bool) {
	data, ok := r.lookup(ctx, "tree", key)
	if !ok {
		return nil, false
	}
	var root tree.Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, false
	}
	return &root, true
}

// Layout lays out root with caching and reports whether the layout came
// from cache. The cache key is derived from the tree content and the layout
// options, so callers may pass freshly loaded or cached trees alike.
func (r *Runner) Layout(ctx context.Context, root *tree.Node, opts Options) (res *layout.Result, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	if root == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "no tree to lay out")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, root.Count())
	start := time.Now()
	defer func() {
		hooks.OnLayoutComplete(ctx, blockCount(res), time.Since(start), err)
	}()

	cacheKey := r.Keyer.LayoutKey(HashTree(root), opts.LayoutKeyOpts())
	if !opts.Refresh {
		if data, ok := r.lookup(ctx, "layout", cacheKey); ok {
			if cached, err := layout.UnmarshalLayout(data); err == nil {
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	res, err = ComputeLayout(root, opts)
	if err != nil {
		return nil, false, err
	}
	if data, err := layout.MarshalLayout(res); err == nil {
		r.store(ctx, "layout", cacheKey, data, TTLLayout)
	}
	return res, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *layout.Result, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	// Compute cache key from layout data
	layoutData, err := layout.MarshalLayout(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts = make(map[string][]byte, len(opts.Formats))
	hit = true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, ok := r.lookup(ctx, "artifact", key); ok {
			artifacts[format] = data
			continue
		}
		hit = false

		data, err := RenderFormat(res, format, opts)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		r.store(ctx, "artifact", key, data, TTLArtifact)
		opts.logger().Debug("rendered artifact", "format", format, "bytes", len(data))
	}
	return artifacts, hit, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
