package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/energy-tracker/constants"
	"github.com/joseph-ayodele/energy-tracker/internal/common"
	"github.com/joseph-ayodele/energy-tracker/internal/entity"
	"github.com/joseph-ayodele/energy-tracker/internal/store"
	"github.com/joseph-ayodele/energy-tracker/internal/tabular"
)

var (
	importMeter     string
	importYear      int
	importAux       bool
	importThermal   bool
	importMachines  bool
	importOverwrite bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv|file.xlsx>",
	Short: "Import tabular consumption, generation or equipment data",
	Long: `Reads a CSV or XLSX file through the column mapper. Energy rows go to
the meter named by --meter; --aux, --thermal and --machines switch to
the other row shapes. Rows that fail validation are listed and skipped,
never silently dropped. Existing months are only overwritten after a
single batch-level confirmation (or --overwrite).`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importMeter, "meter", "", "target meter reference (POD/PDR) for energy rows")
	importCmd.Flags().IntVar(&importYear, "year", 0, "target year (default: the project reference year)")
	importCmd.Flags().BoolVar(&importAux, "aux", false, "rows are auxiliary generation (produced/self-consumed)")
	importCmd.Flags().BoolVar(&importThermal, "thermal", false, "rows are thermal users")
	importCmd.Flags().BoolVar(&importMachines, "machines", false, "rows are equipment declarations")
	importCmd.Flags().BoolVar(&importOverwrite, "overwrite", false, "overwrite conflicting months without asking")
	rootCmd.AddCommand(importCmd)
}

func readRows(path string) ([]tabular.Row, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if _, ok := constants.TabularExtensions[ext]; !ok {
		return nil, fmt.Errorf("unsupported import extension %q (want csv or xlsx)", ext)
	}
	if ext == "xlsx" {
		return tabular.ReadXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tabular.ReadCSV(f)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)

	rows, err := readRows(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	mapper := tabular.NewMapper()

	switch {
	case importMachines:
		machines := mapper.MachineRows(rows)
		n := st.ImportMachines(machines)
		fmt.Printf("Imported %d machines (%d rows skipped)\n", n, len(rows)-n)
	case importAux:
		if err := importAuxRows(st, mapper.AuxRows(rows)); err != nil {
			return err
		}
	case importThermal:
		if err := importThermalRows(st, mapper.ThermalRows(rows)); err != nil {
			return err
		}
	default:
		if err := importEnergyRows(st, cfg, mapper.EnergyRows(rows)); err != nil {
			return err
		}
	}
	return saveStore(st, cfg)
}

func importEnergyRows(st *store.Store, cfg *common.Config, candidates []entity.Candidate) error {
	if importMeter == "" {
		return fmt.Errorf("--meter is required for energy imports")
	}
	meter, ok := st.MeterByRef(importMeter)
	if !ok {
		return fmt.Errorf("no meter with reference %q (see 'enertrack meters')", importMeter)
	}
	year := importYear
	if year == 0 {
		year = st.Project().Year
	}

	valid, invalid := splitCandidates(candidates)
	for _, c := range invalid {
		fmt.Printf("needs review (skipped): month=%q f1=%s f2=%s f3=%s\n",
			c.Month, optNum(c.F1), optNum(c.F2), optNum(c.F3))
	}

	// Surface all conflicts once, then one confirmation for the batch.
	existing := map[string]bool{}
	for _, r := range st.Records(meter.ID, year) {
		existing[r.Month] = true
	}
	var conflicts []string
	for _, c := range valid {
		if existing[c.Month] {
			conflicts = append(conflicts, c.Month)
		}
	}
	applyConflicts := importOverwrite
	if len(conflicts) > 0 && !applyConflicts {
		applyConflicts = confirm(fmt.Sprintf("Overwrite %d existing month(s) (%s)?",
			len(conflicts), strings.Join(conflicts, ", ")))
	}

	ar, err := openArchive(cfg)
	if err != nil {
		return err
	}
	defer ar.Close()

	imported, skipped := 0, 0
	for _, c := range valid {
		if existing[c.Month] && !applyConflicts {
			skipped++
			continue
		}
		rec := c.Record(meter.Kind, constants.SourceCSV)
		if _, err := st.Upsert(meter.ID, year, rec); err != nil {
			return fmt.Errorf("storing %s: %w", c.Month, err)
		}
		if err := ar.UpsertRecord(meter.ID, year, rec); err != nil {
			return err
		}
		imported++
	}
	st.Log(fmt.Sprintf("Import CSV consumi: %d righe (%d da rivedere, %d conflitti saltati)",
		imported, len(invalid), skipped))
	fmt.Printf("Imported %d records into %s/%d (%d need review, %d conflicts skipped)\n",
		imported, importMeter, year, len(invalid), skipped)
	return nil
}

func importAuxRows(st *store.Store, candidates []entity.AuxCandidate) error {
	imported, invalid := 0, 0
	for _, c := range candidates {
		if !c.Valid {
			invalid++
			fmt.Printf("needs review (skipped): month=%q type=%q\n", c.Month, c.Type)
			continue
		}
		st.AddAuxProduction(c.Production())
		imported++
	}
	fmt.Printf("Imported %d auxiliary-generation rows (%d need review)\n", imported, invalid)
	return nil
}

func importThermalRows(st *store.Store, candidates []entity.ThermalCandidate) error {
	imported, invalid := 0, 0
	for _, c := range candidates {
		if !c.Valid {
			invalid++
			fmt.Printf("needs review (skipped): name=%q\n", c.Name)
			continue
		}
		st.AddThermalUser(c.User())
		imported++
	}
	fmt.Printf("Imported %d thermal users (%d need review)\n", imported, invalid)
	return nil
}

func splitCandidates(candidates []entity.Candidate) (valid, invalid []entity.Candidate) {
	for _, c := range candidates {
		if c.Valid {
			valid = append(valid, c)
		} else {
			invalid = append(invalid, c)
		}
	}
	return valid, invalid
}

func optNum(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *p)
}
