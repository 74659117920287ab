package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/system-autopsy/internal/autopsyd"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/logger"
)

const wrapWidth = 80

var (
	explainScenario string
	explainJSON     bool
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Run a scenario and explain the outcome",
	Long: "explain runs a failure scenario and asks the configured model for an " +
		"explanation, falling back to a deterministic summary when it is unavailable.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, logger.Default)
		if err != nil {
			return err
		}
		resp, err := a.service.Explain(cmd.Context(), explainScenario)
		if err != nil {
			return err
		}
		if explainJSON {
			return writeJSON(cmd.OutOrStdout(), resp)
		}
		renderExplanation(cmd.OutOrStdout(), resp)
		return nil
	},
}

func init() {
	explainCmd.Flags().StringVarP(&explainScenario, "scenario", "s", "", "scenario id")
	explainCmd.Flags().BoolVar(&explainJSON, "json", false, "print the explanation and payload as JSON")
	_ = explainCmd.MarkFlagRequired("scenario")
}

func renderExplanation(w io.Writer, resp autopsyd.ExplainResponse) {
	heading := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s %s (%s, source: %s)\n\n", heading("Scenario:"), resp.Payload.Scenario, statusColor(resp.Payload.SystemMode)(resp.Payload.SystemMode), resp.Source)
	for _, line := range resp.Text {
		fmt.Fprintln(w, wordwrap.String(line, wrapWidth))
	}
	if len(resp.IdentifiedFactors) > 0 {
		fmt.Fprintf(w, "\n%s\n", heading("Identified factors"))
		for _, f := range resp.IdentifiedFactors {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
	if len(resp.MitigationSuggestions) > 0 {
		fmt.Fprintf(w, "\n%s\n", heading("Mitigations"))
		for _, m := range resp.MitigationSuggestions {
			fmt.Fprintf(w, "  - %s\n", wordwrap.String(m.Action+": "+m.Description, wrapWidth))
		}
	}
}
