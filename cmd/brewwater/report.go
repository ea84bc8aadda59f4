package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hopsmith/brewwater/internal/service"
)

var reportJSON bool

var reportCmd = &cobra.Command{
	Use:   "report <recipe.yaml>",
	Short: "Build a water report from a YAML recipe",
	Long: `Builds a full water treatment report from a YAML recipe file.

A manual recipe applies a fixed salt schedule:

    mode: manual
    source_water: pilsen
    additions:
      gypsum: 2.0
      calcium_chloride: 1.0
    volumes: {total: 32.2, mash: 17.0, sparge: 15.2}
    grain_bill:
      - {name: pilsner malt, weight_kg: 5.0, color: 1.6, type: base}
    target_ph: 5.4

An auto recipe solves for the salt schedule instead:

    mode: auto
    source_water: distilled
    target_water: dublin
    strategy: exact
    volumes: {total: 32.2, mash: 17.0, sparge: 15.2}`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the raw JSON report")
}

func runReport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read recipe: %w", err)
	}

	var req service.ReportRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse recipe: %w", err)
	}

	report, err := service.NewReportService().BuildReport(cmd.Context(), req)
	if err != nil {
		return err
	}

	if reportJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(report)
	return nil
}

func printReport(r *service.Report) {
	fmt.Printf("Report %s (%s mode)\n\n", r.ReportID, r.Mode)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "\tCa\tMg\tNa\tSO4\tCl\tHCO3\t")
	fmt.Fprintf(w, "source\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t\n",
		r.Source.Calcium, r.Source.Magnesium, r.Source.Sodium,
		r.Source.Sulfate, r.Source.Chloride, r.Source.Bicarbonate)
	fmt.Fprintf(w, "achieved\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t\n",
		r.Achieved.Calcium, r.Achieved.Magnesium, r.Achieved.Sodium,
		r.Achieved.Sulfate, r.Achieved.Chloride, r.Achieved.Bicarbonate)
	w.Flush()

	if len(r.Additions) > 0 {
		ids := make([]string, 0, len(r.Additions))
		for id := range r.Additions {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Println("\nAdditions:")
		for _, id := range ids {
			fmt.Printf("  %-20s %5.1f g\n", id, r.Additions[id])
		}
	}

	fmt.Printf("\nResidual alkalinity:  %.1f ppm as CaCO3\n", r.Metrics.ResidualAlkalinity)
	if r.Metrics.SulfateChlorideRatio != nil {
		fmt.Printf("Sulfate:chloride:     %.2f\n", *r.Metrics.SulfateChlorideRatio)
	} else {
		fmt.Println("Sulfate:chloride:     undefined (no chloride)")
	}
	fmt.Printf("Total hardness:       %.1f ppm as CaCO3\n", r.Metrics.TotalHardness)

	if r.PH != nil {
		fmt.Printf("\nEstimated mash pH (%s): %.2f\n", r.PH.Model, r.PH.PH)
	}
	if r.AcidDose != nil && r.AcidDose.Amount > 0 {
		fmt.Printf("Acid to reach target: %.1f %s %s (%.0f%%)\n",
			r.AcidDose.Amount, r.AcidDose.Unit, r.AcidDose.AcidID, r.AcidDose.ConcentrationPercent)
	}
	if r.Optimizer != nil {
		fmt.Printf("\nOptimizer: %s, score %.0f/100, total deviation %.1f ppm",
			r.Optimizer.Strategy, r.Optimizer.Score, r.Optimizer.TotalDeviation)
		switch {
		case r.Optimizer.Infeasible:
			fmt.Print(" (target infeasible)")
		case !r.Optimizer.Converged:
			fmt.Print(" (did not converge)")
		}
		fmt.Println()
	}

	for _, d := range r.Diagnostics {
		fmt.Printf("\nwarning: %s", d)
	}
	if len(r.Diagnostics) > 0 {
		fmt.Println()
	}
}
