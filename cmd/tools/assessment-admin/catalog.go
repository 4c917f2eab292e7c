// cmd/tools/assessment-admin/catalog.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"finops-assessment/internal/catalog"
)

var catalogFormat string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the built-in capability catalog",
	RunE:  runCatalog,
}

func init() {
	catalogCmd.Flags().StringVar(&catalogFormat, "format", "table", "Output format (table, json)")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	c := catalog.Default()

	switch catalogFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"capabilities": c.Capabilities(),
			"lenses":       c.Lenses(),
			"answerLevels": c.AnswerLevels(),
			"scopes":       c.Scopes(),
		})
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DOMAIN\tCAPABILITY\tNAME\tQUESTIONS")
		for _, d := range c.Domains() {
			for _, capability := range c.CapabilitiesIn(d) {
				n := 0
				for _, lens := range c.Lenses() {
					if _, ok := c.Question(capability.ID, lens.ID); ok {
						n++
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", d, capability.ID, capability.Name, n)
			}
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "LENS\tWEIGHT")
		for _, lens := range c.Lenses() {
			fmt.Fprintf(w, "%s\t%d%%\n", lens.ID, lens.Weight)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format %q", catalogFormat)
	}
}
