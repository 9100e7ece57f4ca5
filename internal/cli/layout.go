package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/justgrid/pkg/pipeline"
	"github.com/matzehuels/justgrid/pkg/render"
)

// layoutCommand creates the layout command for computing gallery layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		lf     layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout <input>",
		Short: "Compute a justified layout",
		Long: `Compute a justified layout for a gallery.

The input is a directory of images, a PDF, a manifest file (JSON, YAML or
TOML) or an http(s) URL of a manifest. The output is a layout document
(<input>.layout.json) that the render command turns into SVG or HTML.

Flags override the config file. Results are cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &lf, nil)
			opts.Input = args[0]
			return c.runLayout(cmd.Context(), opts, output, lf.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	lf.register(cmd)

	return cmd
}

// runLayout probes the input, computes the layout and writes the document.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	out := c.ui()
	timer := newStageTimer(c.Logger)
	spin := newSpinner(ctx, c.status(), "Probing "+opts.Input+"...").start()
	defer spin.stop()

	frames, err := runner.Probe(ctx, opts)
	if err != nil {
		spin.fail(out, "Probe failed")
		return err
	}
	timer.mark("probe", "frames", len(frames))

	spin.set("Computing layout...")
	doc, cacheHit, err := runner.LayoutWithCacheInfo(ctx, frames, opts)
	if err != nil {
		spin.fail(out, "Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spin.stop()
	if spin.interrupted() {
		return ctx.Err()
	}
	timer.mark("layout", "rows", len(doc.Rows), "cached", cacheHit)

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", opts.Input) + layoutSuffix
	}
	if err := writeDocumentFile(outputPath, doc); err != nil {
		return err
	}

	timer.done("layout written", "path", outputPath)

	out.success("Layout complete")
	out.file(outputPath)
	out.stats(layoutStats{
		frames: len(frames),
		rows:   len(doc.Rows),
		width:  doc.Width,
		height: doc.Height,
		cached: cacheHit,
	})
	out.next("Render", appName+" render "+outputPath)

	return nil
}

func writeDocumentFile(path string, doc *render.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render.WriteDocument(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
