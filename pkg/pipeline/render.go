package pipeline

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/render/nodelink"
	"github.com/matzehuels/treemap/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(res *layout.Result, opts Options) (map[string][]byte, error) {
	if res == nil || res.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no layout to render")
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(res, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat renders a single output format.
func RenderFormat(res *layout.Result, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatHTML:
		var buf bytes.Buffer
		err := sink.RenderHTML(&buf, res, htmlOptions(opts)...)
		return buf.Bytes(), err
	case FormatSVG:
		return sink.RenderSVG(res, svgOptions(opts)...), nil
	case FormatJSON:
		return sink.RenderJSON(res)
	case FormatText:
		textOpts := []sink.TextOption{sink.WithoutColor(), sink.WithMaxDepth(opts.MaxDepth)}
		return []byte(sink.RenderText(res, opts.TextWidth, opts.TextHeight, textOpts...)), nil
	case FormatDOT:
		return []byte(toDOT(res, opts)), nil
	case FormatPDF:
		return sink.RenderPDF(res, sink.WithPDFSVGOptions(svgOptions(opts)...))
	case FormatPNG:
		return sink.RenderPNG(res, sink.WithPNGSVGOptions(svgOptions(opts)...), sink.WithScale(opts.Scale))
	}
	return nil, ValidateFormat(format)
}

// RenderNodelink renders the laid-out hierarchy as a Graphviz diagram in
// svg, pdf or png.
func RenderNodelink(res *layout.Result, format string, opts Options) ([]byte, error) {
	dot := toDOT(res, opts)
	switch format {
	case FormatSVG:
		return nodelink.RenderSVG(dot)
	case FormatPDF:
		return nodelink.RenderPDF(dot)
	case FormatPNG:
		return nodelink.RenderPNG(dot, opts.Scale)
	case FormatDOT:
		return []byte(dot), nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported nodelink format: %s", format)
}

// RenderFromLayoutData decodes serialized layout JSON and renders it.
func RenderFromLayoutData(data []byte, opts Options) (map[string][]byte, error) {
	res, err := layout.UnmarshalLayout(data)
	if err != nil {
		return nil, err
	}
	return Render(res, opts)
}

func toDOT(res *layout.Result, opts Options) string {
	return nodelink.ToDOT(res.Root, nodelink.Options{Detailed: opts.Detailed, MaxDepth: opts.MaxDepth})
}

func htmlOptions(opts Options) []sink.HTMLOption {
	out := []sink.HTMLOption{sink.WithStatsLabel(opts.StatsLabel)}
	if opts.Caption != "" {
		out = append(out, sink.WithCaption(opts.Caption))
	}
	return out
}

func svgOptions(opts Options) []sink.SVGOption {
	return []sink.SVGOption{sink.WithFrame(opts.FrameWidth, opts.FrameHeight)}
}
