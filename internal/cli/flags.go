package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/pipeline"
)

// sourceFlags are the ingestion and layout flags shared by every command
// that reads a source document.
type sourceFlags struct {
	inputFormat string
	nameKey     string
	sizeKey     string
	valueKey    string
	subtree     string
	width       float64
	height      float64
	minArea     float64
	refresh     bool
	noCache     bool
}

// register adds the flags to cmd. Defaults shown in help are the pipeline
// defaults; configuration files may change them.
func (f *sourceFlags) register(cmd *cobra.Command) {
	opts := pipeline.Options{}
	_ = opts.ValidateForLoad()
	opts.SetLayoutDefaults()

	cmd.Flags().StringVarP(&f.inputFormat, "input-format", "i", "", "source format: xml, json, yaml, toml (default: from file extension)")
	cmd.Flags().StringVar(&f.nameKey, "name-key", opts.NameKey, "attribute holding node names")
	cmd.Flags().StringVar(&f.sizeKey, "size-key", opts.SizeKey, "attribute holding node sizes")
	cmd.Flags().StringVar(&f.valueKey, "value-key", opts.ValueKey, "attribute holding node values")
	cmd.Flags().StringVar(&f.subtree, "subtree", "", "lay out only the node at this path of names, e.g. usr/lib")
	cmd.Flags().Float64Var(&f.width, "width", opts.Width, "layout region width")
	cmd.Flags().Float64Var(&f.height, "height", opts.Height, "layout region height")
	cmd.Flags().Float64Var(&f.minArea, "min-area", opts.MinArea, "area a node needs before its children are laid out (negative: every level)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached trees and layouts")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// options builds pipeline options for input, applying configuration where
// flags were not given.
func (f *sourceFlags) options(cmd *cobra.Command, cfg *Config, input string) (pipeline.Options, error) {
	opts := pipeline.Options{
		Input:    input,
		Format:   f.inputFormat,
		NameKey:  f.nameKey,
		SizeKey:  f.sizeKey,
		ValueKey: f.valueKey,
		Width:    f.width,
		Height:   f.height,
		MinArea:  f.minArea,
		Refresh:  f.refresh,
	}
	cfg.applyLayoutConfig(cmd, &opts)

	path, err := errors.ValidatePath(f.subtree)
	if err != nil {
		return opts, err
	}
	opts.Subtree = path

	if err := opts.ValidateForLoad(); err != nil {
		return opts, err
	}
	return opts, opts.ValidateForLayout()
}

// outputFlags are the rendering flags shared by render and watch.
type outputFlags struct {
	formats     []string
	output      string
	caption     string
	statsLabel  string
	frameWidth  float64
	frameHeight float64
	textWidth   int
	textHeight  int
	depth       int
	scale       float64
	detailed    bool
	nodelink    bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	opts := pipeline.Options{}
	opts.SetRenderDefaults()

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple formats)")
	cmd.Flags().StringSliceVarP(&f.formats, "format", "f", opts.Formats, "output format(s): html, svg, json, text, dot, pdf, png")
	cmd.Flags().StringVar(&f.caption, "caption", "", "caption shown above the treemap (html)")
	cmd.Flags().StringVar(&f.statsLabel, "stats-label", opts.StatsLabel, "label of the size line (html)")
	cmd.Flags().Float64Var(&f.frameWidth, "frame-width", opts.FrameWidth, "image width in pixels (svg, pdf, png)")
	cmd.Flags().Float64Var(&f.frameHeight, "frame-height", opts.FrameHeight, "image height in pixels (svg, pdf, png)")
	cmd.Flags().IntVar(&f.textWidth, "text-width", opts.TextWidth, "columns (text)")
	cmd.Flags().IntVar(&f.textHeight, "text-height", opts.TextHeight, "lines (text)")
	cmd.Flags().IntVar(&f.depth, "depth", 0, "levels to draw, 0 for all (text, dot)")
	cmd.Flags().Float64Var(&f.scale, "scale", opts.Scale, "scale factor (png)")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "show sizes and rectangles in node labels (dot)")
	cmd.Flags().BoolVar(&f.nodelink, "nodelink", false, "render svg, pdf and png as a node-link diagram instead of a treemap")
}

// apply copies the rendering flags into opts, applying configuration where
// flags were not given.
func (f *outputFlags) apply(cmd *cobra.Command, cfg *Config, opts *pipeline.Options) error {
	opts.Formats = f.formats
	opts.Caption = f.caption
	opts.StatsLabel = f.statsLabel
	opts.FrameWidth = f.frameWidth
	opts.FrameHeight = f.frameHeight
	opts.TextWidth = f.textWidth
	opts.TextHeight = f.textHeight
	opts.MaxDepth = f.depth
	opts.Scale = f.scale
	opts.Detailed = f.detailed
	cfg.applyRenderConfig(cmd, opts)
	opts.Formats = pipeline.ParseFormats(strings.Join(opts.Formats, ","))
	return opts.ValidateForRender()
}
