package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hopsmith/brewwater/internal/catalog"
	"github.com/hopsmith/brewwater/internal/water"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the built-in salt, acid, grain, and water catalogs",
}

var catalogSaltsCmd = &cobra.Command{
	Use:   "salts",
	Short: "List brewing salts and their ion yields",
	Run: func(cmd *cobra.Command, args []string) {
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tFORMULA\tYIELDS (ppm/g/L)")
		for _, s := range catalog.Salts() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Formula, formatYields(s))
		}
		w.Flush()
	},
}

var catalogAcidsCmd = &cobra.Command{
	Use:   "acids",
	Short: "List acids and their tabulated strengths",
	Run: func(cmd *cobra.Command, args []string) {
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tFORM\tCONCENTRATIONS")
		for _, a := range catalog.Acids() {
			form := "liquid"
			if a.Solid {
				form = "solid"
			}
			percents := make([]string, len(a.Concentrations))
			for i, c := range a.Concentrations {
				percents[i] = fmt.Sprintf("%.0f%%", c.Percent)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Name, form, strings.Join(percents, ", "))
		}
		w.Flush()
	},
}

var catalogGrainsCmd = &cobra.Command{
	Use:   "grains",
	Short: "List the grain database",
	Run: func(cmd *cobra.Command, args []string) {
		w := newTable()
		fmt.Fprintln(w, "NAME\tTYPE\tCOLOR (SRM)\tDI pH\tBUFFER (mEq/kg/pH)")
		for _, g := range catalog.Grains() {
			fmt.Fprintf(w, "%s\t%s\t%.1f\t%.2f\t%.1f\n",
				g.Name, g.Type, g.Color, g.DistilledPH, g.BufferCapacity)
		}
		w.Flush()
	},
}

var catalogWatersCmd = &cobra.Command{
	Use:   "waters",
	Short: "List the classic water profiles",
	Run: func(cmd *cobra.Command, args []string) {
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tCa\tMg\tNa\tSO4\tCl\tHCO3")
		for _, p := range catalog.Waters() {
			fmt.Fprintf(w, "%s\t%s\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\n",
				p.ID, p.Name, p.Profile.Calcium, p.Profile.Magnesium, p.Profile.Sodium,
				p.Profile.Sulfate, p.Profile.Chloride, p.Profile.Bicarbonate)
		}
		w.Flush()
	},
}

func init() {
	catalogCmd.AddCommand(catalogSaltsCmd)
	catalogCmd.AddCommand(catalogAcidsCmd)
	catalogCmd.AddCommand(catalogGrainsCmd)
	catalogCmd.AddCommand(catalogWatersCmd)
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func formatYields(s catalog.Salt) string {
	parts := make([]string, 0, len(s.Yields)+1)
	for _, ion := range water.Ions {
		if ppm, ok := s.Yields[ion]; ok {
			parts = append(parts, fmt.Sprintf("%s %.1f", ion, ppm))
		}
	}
	if s.DissolvedHCO3Yield > 0 {
		parts = append(parts, fmt.Sprintf("bicarbonate %.1f (dissolved CO2)", s.DissolvedHCO3Yield))
	}
	return strings.Join(parts, ", ")
}
