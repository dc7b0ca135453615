package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/weavr/pkg/errors"
	"github.com/matzehuels/weavr/pkg/pipeline"
	"github.com/matzehuels/weavr/pkg/render/nodelink"
)

// renderFlags holds the flags for the render command.
type renderFlags struct {
	input    string
	output   string
	formats  string
	detailed bool
	scale    float64
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw an event model as a diagram",
		Long: `Render draws a fixed event model as a node-link diagram, one cluster per
slice, with nodes pinned to the layout coordinates. A model without a layout
is fixed in memory first; the input file is never modified.`,
		Example: `  weavr render
  weavr render --input weavr-model.json -f dot,svg -o diagrams/model`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "model to draw (default from config: "+pipeline.DefaultOutput+")")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path without extension (default: input name)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", pipeline.FormatSVG, "comma-separated formats: dot, svg")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show element types and ids in labels")
	cmd.Flags().Float64Var(&flags.scale, "scale", 0, "divide layout coordinates by this factor (default 1)")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, flags renderFlags) error {
	ctx := cmd.Context()
	cfg, err := c.config()
	if err != nil {
		return err
	}
	in := cfg.Paths.Output
	if flags.input != "" {
		in = flags.input
	}

	formats := parseFormats(flags.formats)
	for _, f := range formats {
		if err := pipeline.ValidateFormat(f); err != nil {
			return err
		}
	}

	data, format, err := pipeline.ReadInput(in)
	if errs.IsPrecondition(err) {
		printError("%s", errs.UserMessage(err))
		return nil
	}
	if err != nil {
		return err
	}
	doc, err := pipeline.Decode(data, format)
	if err != nil {
		return err
	}
	if len(doc.Layout) == 0 {
		loggerFromContext(ctx).Debug("model has no layout, fixing in memory", "input", in)
		if _, err := pipeline.Fix(doc, pipeline.Options{Layout: cfg.LayoutOptions(), Logger: c.Logger}); err != nil {
			if errs.IsPrecondition(err) {
				printError("%s", errs.UserMessage(err))
				return nil
			}
			return err
		}
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	artifacts, err := pipeline.Render(ctx, doc, formats, nodelink.Options{Detailed: flags.detailed, Scale: flags.scale})
	spinner.Stop()
	if err != nil {
		return err
	}

	base := flags.output
	if base == "" {
		base = strings.TrimSuffix(in, filepath.Ext(in))
	}
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	printSuccess("Rendered %d slices", len(doc.Slices()))
	for _, f := range formats {
		path := base + "." + f
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
