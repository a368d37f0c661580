package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var demoYear int

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Replace the project with the demo dataset",
	Long: `Resets the snapshot to a synthetic project: two meters with a full
year of consumption data and three reference machines. Useful for
trying the report and export commands without real bills.`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().IntVar(&demoYear, "year", 2024, "reference year for the demo data")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)
	if len(st.Meters()) > 0 {
		if !confirm("This replaces the current project. Continue?") {
			fmt.Println("Aborted.")
			return nil
		}
	}
	st.LoadDemo(demoYear)
	if err := saveStore(st, cfg); err != nil {
		return err
	}
	fmt.Printf("Demo dataset loaded for %d (%d meters, %d machines)\n",
		demoYear, len(st.Meters()), len(st.Machines()))
	return nil
}
