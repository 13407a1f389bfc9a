// Package pipeline provides the treemap pipeline shared by the CLI and the
// HTTP service.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: decode a source document, aggregate it into a weighted tree and
//     optionally select a subtree
//  2. Layout: squarify the tree into a region
//  3. Render: generate output in various formats (HTML, SVG, JSON, text,
//     DOT, PDF, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "disk.xml",
//	    Formats: []string{"html", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html := result.Artifacts["html"]
//
// Run individual stages:
//
//	root, err := runner.Load(ctx, opts)
//	res, hit, err := runner.Layout(ctx, root, opts)
//	artifacts, err := runner.Render(ctx, res, opts)
package pipeline

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/source"
	"github.com/matzehuels/treemap/pkg/squarify"
	"github.com/matzehuels/treemap/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth and DefaultHeight size the layout region.
	DefaultWidth  = 100.0
	DefaultHeight = 100.0

	// DefaultMinArea is the area a node must receive before its children are
	// laid out.
	DefaultMinArea = squarify.DefaultMinArea

	// DefaultFrameWidth and DefaultFrameHeight size SVG, PDF and PNG output
	// in pixels.
	DefaultFrameWidth  = 1200.0
	DefaultFrameHeight = 800.0

	// DefaultTextWidth and DefaultTextHeight size text output in cells.
	DefaultTextWidth  = 80
	DefaultTextHeight = 24

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// DefaultStatsLabel labels the size line in HTML output.
	DefaultStatsLabel = "Size"
)

// Cache lifetimes per stage.
const (
	TTLTree     = cache.DefaultTTL
	TTLLayout   = cache.DefaultTTL
	TTLArtifact = cache.DefaultTTL
)

// Format constants for output formats.
const (
	FormatHTML = "html"
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatText = "text"
	FormatDOT  = "dot"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatSVG:  true,
	FormatJSON: true,
	FormatText: true,
	FormatDOT:  true,
	FormatPDF:  true,
	FormatPNG:  true,
}

// FormatNames lists the output formats in display order.
var FormatNames = []string{FormatHTML, FormatSVG, FormatJSON, FormatText, FormatDOT, FormatPDF, FormatPNG}

// Extension returns the file extension used for an output format.
func Extension(format string) string {
	if format == FormatText {
		return "txt"
	}
	return format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the treemap pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Input    string   `json:"input,omitempty"`
	Format   string   `json:"format,omitempty"` // source format, detected from Input when empty
	NameKey  string   `json:"name_key,omitempty"`
	SizeKey  string   `json:"size_key,omitempty"`
	ValueKey string   `json:"value_key,omitempty"`
	Subtree  []string `json:"subtree,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"`

	// Layout options
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	// MinArea of zero selects DefaultMinArea; a negative value lays out
	// every level.
	MinArea float64 `json:"min_area,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	FrameWidth  float64  `json:"frame_width,omitempty"`
	FrameHeight float64  `json:"frame_height,omitempty"`
	TextWidth   int      `json:"text_width,omitempty"`
	TextHeight  int      `json:"text_height,omitempty"`
	Caption     string   `json:"caption,omitempty"`
	StatsLabel  string   `json:"stats_label,omitempty"`
	MaxDepth    int      `json:"max_depth,omitempty"` // text and DOT only; zero draws every level
	Detailed    bool     `json:"detailed,omitempty"`  // detailed DOT labels
	Scale       float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the aggregated tree the layout was computed from.
	Tree *tree.Node

	// Layout is the annotated copy produced by the layout stage.
	Layout *layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	Depth      int
	BlockCount int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the aggregated tree came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming blanks and
// dropping duplicates.
func ParseFormats(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

func validDimension(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks and defaults the ingestion options.
func (o *Options) ValidateForLoad() error {
	defaults := tree.DefaultKeys()
	if o.NameKey == "" {
		o.NameKey = defaults.Name
	}
	if o.SizeKey == "" {
		o.SizeKey = defaults.Size
	}
	if o.ValueKey == "" {
		o.ValueKey = defaults.Value
	}
	for _, k := range []string{o.NameKey, o.SizeKey, o.ValueKey} {
		if err := errors.ValidateAttributeKey(k); err != nil {
			return err
		}
	}
	if o.Format != "" {
		f, err := source.ParseFormat(o.Format)
		if err != nil {
			return err
		}
		o.Format = string(f)
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.MinArea == 0 {
		o.MinArea = DefaultMinArea
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if !validDimension(o.Width) || !validDimension(o.Height) {
		return errors.New(errors.ErrCodeInvalidRegion, "region %gx%g has no area", o.Width, o.Height)
	}
	if math.IsNaN(o.MinArea) {
		return errors.New(errors.ErrCodeInvalidInput, "min_area is not a number")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	if o.FrameWidth == 0 {
		o.FrameWidth = DefaultFrameWidth
	}
	if o.FrameHeight == 0 {
		o.FrameHeight = DefaultFrameHeight
	}
	if o.TextWidth == 0 {
		o.TextWidth = DefaultTextWidth
	}
	if o.TextHeight == 0 {
		o.TextHeight = DefaultTextHeight
	}
	if o.StatsLabel == "" {
		o.StatsLabel = DefaultStatsLabel
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if !validDimension(o.FrameWidth) || !validDimension(o.FrameHeight) {
		return errors.New(errors.ErrCodeInvalidInput, "frame %gx%g has no area", o.FrameWidth, o.FrameHeight)
	}
	if o.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max depth %d is negative", o.MaxDepth)
	}
	if o.TextWidth < 0 || o.TextHeight < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "text size %dx%d is negative", o.TextWidth, o.TextHeight)
	}
	return nil
}

func (o *Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// Keys returns the attribute keys used for aggregation.
func (o *Options) Keys() tree.Keys {
	return tree.Keys{Name: o.NameKey, Size: o.SizeKey, Value: o.ValueKey}
}

// EffectiveMinArea returns the recursion threshold passed to the engine.
func (o *Options) EffectiveMinArea() float64 {
	switch {
	case o.MinArea == 0:
		return DefaultMinArea
	case o.MinArea < 0:
		return 0
	}
	return o.MinArea
}

// Region returns the rectangle the root's children are laid out in.
func (o *Options) Region() tree.Rect {
	return tree.Rect{Width: o.Width, Height: o.Height}
}

// TreeKeyOpts returns cache key options for the load stage.
func (o *Options) TreeKeyOpts(format string) cache.TreeKeyOpts {
	return cache.TreeKeyOpts{
		Format:   format,
		NameKey:  o.NameKey,
		SizeKey:  o.SizeKey,
		ValueKey: o.ValueKey,
		Subtree:  o.Subtree,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:   o.Width,
		Height:  o.Height,
		MinArea: o.EffectiveMinArea(),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatHTML:
		k.Caption, k.StatsLabel = o.Caption, o.StatsLabel
	case FormatSVG, FormatPDF:
		k.FrameWidth, k.FrameHeight = o.FrameWidth, o.FrameHeight
	case FormatPNG:
		k.FrameWidth, k.FrameHeight, k.Scale = o.FrameWidth, o.FrameHeight, o.Scale
	case FormatText:
		k.FrameWidth, k.FrameHeight, k.MaxDepth = float64(o.TextWidth), float64(o.TextHeight), o.MaxDepth
	case FormatDOT:
		k.MaxDepth, k.Detailed = o.MaxDepth, o.Detailed
	}
	return k
}

// Describe returns the options that shaped a layout as string pairs, for
// storing alongside it.
func (o *Options) Describe() map[string]string {
	m := map[string]string{
		"name_key":  o.NameKey,
		"size_key":  o.SizeKey,
		"value_key": o.ValueKey,
		"width":     fmt.Sprint(o.Width),
		"height":    fmt.Sprint(o.Height),
		"min_area":  fmt.Sprint(o.EffectiveMinArea()),
	}
	if o.Format != "" {
		m["format"] = o.Format
	}
	if len(o.Subtree) > 0 {
		m["subtree"] = strings.Join(o.Subtree, "/")
	}
	return m
}
