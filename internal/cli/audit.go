package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/weavr/pkg/audit"
	errs "github.com/matzehuels/weavr/pkg/errors"
	"github.com/matzehuels/weavr/pkg/pipeline"
)

// auditFlags holds the flags for the audit command.
type auditFlags struct {
	input       string
	interactive bool
	refresh     bool
}

// auditCommand creates the audit command.
func (c *CLI) auditCommand() *cobra.Command {
	var flags auditFlags

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check an event model against the modeling patterns",
		Long: `Audit checks that every command, event, read model and automation has an
INBOUND dependency on an element that may precede it. The model is never
modified.

Run audit on the model before fix: fixed output stores OUTBOUND edges only.`,
		Example: `  weavr audit
  weavr audit --input model.yaml --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAudit(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "input model (default from config: "+pipeline.DefaultInput+")")
	cmd.Flags().BoolVar(&flags.interactive, "interactive", false, "browse violations in a terminal UI")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runAudit(cmd *cobra.Command, flags auditFlags) error {
	ctx := cmd.Context()
	cfg, err := c.config()
	if err != nil {
		return err
	}
	in := cfg.Paths.Input
	if flags.input != "" {
		in = flags.input
	}
	if err := errs.ValidateModelPath(in); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.AuditFile(ctx, in, pipeline.Options{Refresh: flags.refresh})
	if errs.IsPrecondition(err) {
		printError("%s", errs.UserMessage(err))
		return nil
	}
	if err != nil {
		return fmt.Errorf("audit %s: %w", in, err)
	}

	rep := res.Report
	if flags.interactive && !rep.Clean() {
		_, err := tea.NewProgram(newViolationModel(rep), tea.WithContext(ctx)).Run()
		return err
	}
	printReport(rep)
	return nil
}

// printReport writes the summary line followed by one line per violation.
func printReport(rep *audit.Report) {
	if rep.Clean() {
		printSuccess("%s", rep.Summary())
		return
	}
	printWarning("%s", rep.Summary())
	for _, line := range rep.Lines() {
		printLine(line)
	}
}
