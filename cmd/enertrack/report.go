package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/energy-tracker/internal/aggregate"
)

var (
	reportYear int
	reportJSON bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the yearly consumption report",
	Long: `Aggregates the selected year across all meters: the monthly series,
band and gas totals, power averages, auxiliary generation, the
machine-based load estimate, and the thermal users' gas demand.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportYear, "year", 0, "year to report (default: the project reference year)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "emit the report as JSON")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)

	year := reportYear
	if year == 0 {
		year = st.Project().Year
	}

	res := aggregate.Aggregate(st, year)
	load := aggregate.MachineLoad(st, year)

	if reportJSON {
		payload := struct {
			aggregate.Result
			Load aggregate.LoadEstimate `json:"load"`
		}{res, load}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	project := st.Project()
	fmt.Printf("%s — %d\n", project.Name, year)
	if project.Site != "" {
		fmt.Println(project.Site)
	}
	fmt.Println()

	fmt.Printf("%-8s %12s %12s %12s %12s\n", "month", "F1 kWh", "F2 kWh", "F3 kWh", "gas kWh")
	for _, m := range res.Series {
		fmt.Printf("%-8s %12.2f %12.2f %12.2f %12.2f\n", m.Month, m.F1, m.F2, m.F3, m.Gas)
	}
	fmt.Println(strings.Repeat("-", 62))
	fmt.Printf("%-8s %12.2f %12.2f %12.2f %12.2f\n", "total",
		res.Total.F1, res.Total.F2, res.Total.F3, res.Total.Gas)
	fmt.Printf("\nTotal consumption: %.2f kWh\n", res.Total.Tot)
	if res.AvgActivePower > 0 {
		fmt.Printf("Average active power: %.2f kW\n", res.AvgActivePower)
	}
	if res.AvgPowerFactor > 0 {
		fmt.Printf("Average power factor: %.2f\n", res.AvgPowerFactor)
	}
	if res.AuxProduced > 0 || res.AuxSelf > 0 {
		fmt.Printf("Auxiliary generation: %.2f kWh produced, %.2f kWh self-consumed\n",
			res.AuxProduced, res.AuxSelf)
	}

	fmt.Printf("\nMachine load estimate\n")
	fmt.Printf("  billed:    %12.2f kWh\n", load.Billed)
	fmt.Printf("  machines:  %12.2f kWh\n", load.Machines)
	fmt.Printf("  delta:     %12.2f kWh\n", load.Delta)
	if load.Ratio != nil {
		fmt.Printf("  coverage:  %11.1f%%\n", *load.Ratio)
	} else {
		fmt.Println("  coverage:  n/a (no billed consumption)")
	}

	users := st.ThermalUsers()
	if len(users) > 0 {
		fmt.Printf("\n%-24s %12s %12s %12s\n", "thermal user", "output kWh", "gas kWh", "gas Smc")
		for _, t := range users {
			fig := aggregate.ThermalOutput(t)
			fmt.Printf("%-24s %12.2f %12.2f %12.2f\n", t.Name, fig.ProducedTh, fig.GasKWh, fig.GasSmc)
		}
	}
	return nil
}
