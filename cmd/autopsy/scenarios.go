package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/system-autopsy/internal/failure"
)

var scenariosJSON bool

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the built-in failure scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := failure.DefaultCatalog()
		if scenariosJSON {
			return writeJSON(cmd.OutOrStdout(), catalog.Scenarios())
		}
		return renderScenarios(cmd.OutOrStdout(), catalog.Scenarios())
	},
}

func init() {
	scenariosCmd.Flags().BoolVar(&scenariosJSON, "json", false, "print the full catalog as JSON")
}

func renderScenarios(w io.Writer, scenarios []failure.Scenario) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTARGET\tTITLE")
	for _, sc := range scenarios {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", sc.ID, sc.Target.DisplayName(), sc.Title)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
