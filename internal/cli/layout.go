package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/httputil"
	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/source"
	"github.com/matzehuels/treemap/pkg/tree"
)

// layoutCommand creates the layout command for computing treemap layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  sourceFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [input]",
		Short: "Compute a treemap layout from a hierarchical document",
		Long: `Compute a treemap layout from a hierarchical document.

The layout command reads an XML, JSON, YAML or TOML document, aggregates node
sizes bottom-up and squarifies the tree into the layout region. The output is
a layout.json file (same format as 'render -f json') that can be rendered
with 'render'. Use "-" to read the document from stdin (requires
--input-format).

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSourceFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.cfg(), args[0])
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: <input>.layout.json, stdout for stdin)`)
	flags.register(cmd)

	return cmd
}

// runLayout loads the document, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	root, loadHit, err := c.loadSource(ctx, runner, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return fmt.Errorf("load %s: %w", opts.Input, err)
	}
	res, layoutHit, err := runner.Layout(ctx, root, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	switch {
	case outputPath == "" && opts.Input == "-":
		outputPath = "-"
	case outputPath == "":
		outputPath = basePath("", opts.Input) + ".layout.json"
	}
	if outputPath == "-" {
		return layout.WriteLayout(os.Stdout, res)
	}

	if err := layout.WriteLayoutFile(res, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(root.Count(), countBlocks(res), loadHit && layoutHit)
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}

// loadSource loads opts.Input, reading stdin for "-" and downloading
// http(s) URLs.
func (c *CLI) loadSource(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*tree.Node, bool, error) {
	switch {
	case opts.Input == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, false, fmt.Errorf("read stdin: %w", err)
		}
		return runner.LoadBytesWithCacheInfo(ctx, data, opts)
	case httputil.IsURL(opts.Input):
		if opts.Format == "" {
			f, err := source.DetectFormat(httputil.URLPath(opts.Input))
			if err != nil {
				return nil, false, err
			}
			opts.Format = string(f)
		}
		data, err := c.fetcher().Fetch(ctx, opts.Input, opts.Refresh)
		if err != nil {
			return nil, false, err
		}
		return runner.LoadBytesWithCacheInfo(ctx, data, opts)
	}
	return runner.LoadWithCacheInfo(ctx, opts)
}

// countBlocks returns the number of laid-out nodes below the root.
func countBlocks(res *layout.Result) int {
	return len(res.Blocks(res.Region))
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input ("layout" for
// stdin, and ".layout.json" as a whole).
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" || input == "" {
			return "layout"
		}
		if strings.HasSuffix(input, ".layout.json") {
			return strings.TrimSuffix(input, ".layout.json")
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if format := strings.TrimPrefix(ext, "."); pipeline.ValidFormats[format] || format == "txt" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
