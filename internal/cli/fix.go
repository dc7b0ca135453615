package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/weavr/pkg/errors"
	"github.com/matzehuels/weavr/pkg/pipeline"
)

// fixFlags holds the flags for the fix command.
type fixFlags struct {
	input   string
	output  string
	refresh bool
}

// fixCommand creates the fix command.
func (c *CLI) fixCommand() *cobra.Command {
	var flags fixFlags

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Normalize, repair and lay out an event model",
		Long: `Fix reads an event model, rewrites element types into the schema vocabulary,
stores every dependency as an OUTBOUND edge on its predecessor, computes a
canvas layout and writes the result.

With no flags it reads weavr-self-model.json and writes weavr-model.json in
the current directory.`,
		Example: `  weavr fix
  weavr fix --input model.yaml --output build/model.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFix(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "input model (default from config: "+pipeline.DefaultInput+")")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output model (default from config: "+pipeline.DefaultOutput+")")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runFix(cmd *cobra.Command, flags fixFlags) error {
	ctx := cmd.Context()
	cfg, err := c.config()
	if err != nil {
		return err
	}
	in, out := cfg.Paths.Input, cfg.Paths.Output
	if flags.input != "" {
		in = flags.input
	}
	if flags.output != "" {
		out = flags.output
	}
	for _, p := range []string{in, out} {
		if err := errs.ValidateModelPath(p); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	res, err := runner.FixFile(ctx, in, out, pipeline.Options{
		Layout:  cfg.LayoutOptions(),
		Refresh: flags.refresh,
	})
	if errs.IsPrecondition(err) {
		printError("%s", errs.UserMessage(err))
		return nil
	}
	if err != nil {
		return fmt.Errorf("fix %s: %w", in, err)
	}
	prog.done("Fixed event model")

	printSuccess("Fixed %d dependencies", res.Transform.Added)
	if res.Transform.Dangling > 0 {
		printWarning("Skipped %d references to unknown elements", res.Transform.Dangling)
	}
	printStats(res.Stats.Elements, res.Stats.EdgesAfter, res.CacheInfo.Hit)
	printFile(out)
	printNextStep("Check the patterns", "weavr audit --input "+in)
	return nil
}
