package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/justgrid/pkg/errors"
	"github.com/matzehuels/justgrid/pkg/pipeline"
	"github.com/matzehuels/justgrid/pkg/render"
)

// renderCommand creates the render command for writing SVG, HTML or JSON.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output string
		lf     layoutFlags
		rf     renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render a gallery to SVG, HTML or JSON",
		Long: `Render a gallery to SVG, HTML or JSON.

The input is either a layout document written by the layout command
(*.layout.json), which is rendered as is, or any input the layout command
accepts, which is laid out first. Layout flags are ignored for layout
documents.

With one format, -o names the output file. With several, -o is a base
path and each format gets its own extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &lf, &rf)
			opts.Input = args[0]
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, lf.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	lf.register(cmd)
	rf.register(cmd)

	return cmd
}

// runRender lays out the input if needed and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	out := c.ui()
	timer := newStageTimer(c.Logger)
	spin := newSpinner(ctx, c.status(), "Rendering...").start()
	defer spin.stop()

	var (
		artifacts map[string][]byte
		cached    bool
		stats     layoutStats
	)
	if strings.HasSuffix(opts.Input, layoutSuffix) && !isRemote(opts.Input) {
		doc, err := readDocumentFile(opts.Input)
		if err != nil {
			spin.fail(out, "Render failed")
			return err
		}
		if opts.Title != "" {
			doc.Title = opts.Title
		}
		artifacts, cached, err = runner.RenderWithCacheInfo(ctx, doc, opts)
		if err != nil {
			spin.fail(out, "Render failed")
			return err
		}
		stats = layoutStats{
			frames: len(doc.Boxes()),
			rows:   len(doc.Rows),
			width:  doc.Width,
			height: doc.Height,
			cached: cached,
		}
	} else {
		result, err := runner.Execute(ctx, opts)
		if err != nil {
			spin.fail(out, "Render failed")
			return err
		}
		artifacts = result.Artifacts
		stats = layoutStats{
			frames: result.Stats.FrameCount,
			rows:   result.Stats.RowCount,
			width:  result.Document.Width,
			height: result.Document.Height,
			cached: result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
		}
	}
	spin.stop()
	if spin.interrupted() {
		return ctx.Err()
	}
	timer.mark("render", "formats", len(artifacts), "cached", stats.cached)

	paths := outputPaths(output, opts.Input, opts.Formats)
	for _, format := range sortedFormats(artifacts) {
		if err := os.WriteFile(paths[format], artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
	}

	timer.done("artifacts written", "formats", strings.Join(sortedFormats(artifacts), ","))

	out.success("Rendered %s", plural(len(artifacts), "format"))
	for _, format := range sortedFormats(artifacts) {
		out.file(paths[format])
	}
	out.stats(stats)

	return nil
}

// outputPaths maps each format to its output file. A single format writes
// to output as given; otherwise each format is <base>.<format>.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func sortedFormats(artifacts map[string][]byte) []string {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

func readDocumentFile(path string) (*render.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, err
	}
	defer f.Close()
	doc, err := render.ReadDocument(f)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}
