package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/energy-tracker/internal/export"
)

var (
	exportYear     int
	exportOut      string
	exportFormat   string
	exportKind     string
	exportTemplate bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export project data as CSV or XLSX",
	Long: `Writes the selected year's data in a shape the import command can
read back. --template emits an empty fill-in file instead of data.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().IntVar(&exportYear, "year", 0, "year to export (default: the project reference year)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or xlsx")
	exportCmd.Flags().StringVar(&exportKind, "kind", "energy", "dataset: energy, aux, thermal or machines")
	exportCmd.Flags().BoolVar(&exportTemplate, "template", false, "emit an empty template instead of data")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)
	svc := export.NewService(st, nil)

	year := exportYear
	if year == 0 {
		year = st.Project().Year
	}

	var out []byte
	switch {
	case exportTemplate:
		switch exportKind {
		case "energy":
			out = []byte(export.EnergyTemplate(year))
		case "aux":
			out = []byte(export.AuxTemplate(year))
		case "thermal":
			out = []byte(export.ThermalTemplate())
		case "machines":
			out = []byte(export.MachineTemplate())
		default:
			return fmt.Errorf("unknown dataset %q", exportKind)
		}
	case exportFormat == "xlsx":
		if exportKind != "energy" {
			return fmt.Errorf("xlsx export supports the energy dataset only")
		}
		out, err = svc.EnergyXLSX(year)
		if err != nil {
			return err
		}
	case exportFormat == "csv":
		var body string
		switch exportKind {
		case "energy":
			body, err = svc.EnergyCSV(year)
		case "aux":
			body, err = svc.AuxCSV()
		case "thermal":
			body, err = svc.ThermalCSV()
		case "machines":
			body, err = svc.MachineCSV()
		default:
			return fmt.Errorf("unknown dataset %q", exportKind)
		}
		if err != nil {
			return err
		}
		out = []byte(body)
	default:
		return fmt.Errorf("unknown format %q", exportFormat)
	}

	if exportOut == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(exportOut, out, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d bytes)\n", exportOut, len(out))
	return nil
}
