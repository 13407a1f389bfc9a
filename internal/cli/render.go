package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/pipeline"
)

// renderRequest bundles everything a single render pass needs.
type renderRequest struct {
	opts       pipeline.Options
	output     string
	nodelink   bool
	fromLayout bool
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		src        sourceFlags
		out        outputFlags
		fromLayout bool
	)

	cmd := &cobra.Command{
		Use:   "render [input|layout.json]",
		Short: "Render a treemap to HTML, SVG, JSON, text, DOT, PDF or PNG",
		Long: `Render a treemap to one or more output formats.

The input is either a source document (laid out on the fly, with caching) or
a layout.json file written by 'layout'. Files ending in .layout.json are
detected automatically; use --from-layout for other names.

PDF and PNG output require rsvg-convert (librsvg) on the PATH.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSourceFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := src.options(cmd, c.cfg(), args[0])
			if err != nil {
				return err
			}
			if err := out.apply(cmd, c.cfg(), &opts); err != nil {
				return err
			}
			req := renderRequest{
				opts:       opts,
				output:     out.output,
				nodelink:   out.nodelink,
				fromLayout: fromLayout || strings.HasSuffix(args[0], ".layout.json"),
			}
			return c.runRender(cmd.Context(), req, src.noCache)
		},
	}

	src.register(cmd)
	out.register(cmd)
	cmd.Flags().BoolVar(&fromLayout, "from-layout", false, "treat the input as a layout.json file")

	return cmd
}

// runRender renders the input once and reports the written files.
func (c *CLI) runRender(ctx context.Context, req renderRequest, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(req.opts.Formats, ", ")))
	spinner.Start()
	paths, cached, err := c.renderOnce(ctx, runner, req)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if len(paths) == 0 {
		return nil // written to stdout
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(0, 0, cached)
	return nil
}

// renderOnce loads or reads the layout, renders every requested format and
// writes the artifacts. It returns the written paths and whether every stage
// was served from cache.
func (c *CLI) renderOnce(ctx context.Context, runner *pipeline.Runner, req renderRequest) ([]string, bool, error) {
	logger := loggerFromContext(ctx)
	opts := req.opts

	var (
		res    *layout.Result
		cached = true
		err    error
	)
	if req.fromLayout {
		if opts.Input == "-" {
			res, err = layout.ReadLayout(os.Stdin)
		} else {
			res, err = layout.ReadLayoutFile(opts.Input)
		}
		if err != nil {
			return nil, false, fmt.Errorf("read layout %s: %w", opts.Input, err)
		}
	} else {
		p := newDebugProgress(logger)
		root, loadHit, err := c.loadSource(ctx, runner, opts)
		if err != nil {
			return nil, false, fmt.Errorf("load %s: %w", opts.Input, err)
		}
		var layoutHit bool
		res, layoutHit, err = runner.Layout(ctx, root, opts)
		if err != nil {
			return nil, false, fmt.Errorf("compute layout: %w", err)
		}
		cached = loadHit && layoutHit
		p.done("laid out", "nodes", root.Count(), "blocks", countBlocks(res), "cached", cached)
	}

	artifacts, renderHit, err := renderArtifacts(ctx, runner, res, opts, req.nodelink)
	if err != nil {
		return nil, false, err
	}
	cached = cached && renderHit

	paths, err := writeArtifacts(artifacts, opts.Formats, opts.Input, req.output)
	if err != nil {
		return nil, false, err
	}
	for _, p := range paths {
		logger.Debugf("Generated %s", p)
	}
	return paths, cached, nil
}

// renderArtifacts renders through the runner's artifact cache; with
// nodelink set, svg, pdf and png come from the Graphviz renderer instead.
func renderArtifacts(ctx context.Context, runner *pipeline.Runner, res *layout.Result, opts pipeline.Options, nodelink bool) (map[string][]byte, bool, error) {
	if !nodelink {
		return runner.RenderWithCacheInfo(ctx, res, opts)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var rest []string
	for _, format := range opts.Formats {
		switch format {
		case pipeline.FormatSVG, pipeline.FormatPDF, pipeline.FormatPNG:
			data, err := pipeline.RenderNodelink(res, format, opts)
			if err != nil {
				return nil, false, fmt.Errorf("render nodelink %s: %w", format, err)
			}
			artifacts[format] = data
		default:
			rest = append(rest, format)
		}
	}
	if len(rest) == 0 {
		return artifacts, false, nil
	}
	opts.Formats = rest
	more, err := runner.Render(ctx, res, opts)
	if err != nil {
		return nil, false, err
	}
	for f, data := range more {
		artifacts[f] = data
	}
	return artifacts, false, nil
}

// writeArtifacts writes each artifact to its file. A single format goes to
// output verbatim ("-" for stdout); multiple formats go to <base>.<ext>.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if len(formats) == 1 && output != "" {
		data := artifacts[formats[0]]
		if output == "-" {
			_, err := os.Stdout.Write(data)
			return nil, err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", output, err)
		}
		return []string{output}, nil
	}

	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + pipeline.Extension(format)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
