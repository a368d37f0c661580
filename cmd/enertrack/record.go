package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/energy-tracker/constants"
	"github.com/joseph-ayodele/energy-tracker/internal/common"
	"github.com/joseph-ayodele/energy-tracker/internal/entity"
	"github.com/joseph-ayodele/energy-tracker/internal/normalize"
)

var (
	recordMeter string
	recordYear  int
	recordMonth string
	recordF1    string
	recordF2    string
	recordF3    string
	recordPower string
	recordCosfi string
	recordGas   string
	recordNote  string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Manually add or remove a monthly record",
}

var recordSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Write one month of consumption for a meter",
	Long: `Writes a monthly record by hand. Numeric flags accept Italian
formatting ("1.234,5"); an existing record for the same month is
replaced.`,
	RunE: runRecordSet,
}

var recordRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Delete one month's record",
	RunE:  runRecordRm,
}

func init() {
	for _, c := range []*cobra.Command{recordSetCmd, recordRmCmd} {
		c.Flags().StringVar(&recordMeter, "meter", "", "meter reference (POD/PDR)")
		c.Flags().IntVar(&recordYear, "year", 0, "target year (default: the project reference year)")
		c.Flags().StringVar(&recordMonth, "month", "", "period, e.g. 2024-03 or 03/2024")
	}
	recordSetCmd.Flags().StringVar(&recordF1, "f1", "", "F1 band consumption, kWh")
	recordSetCmd.Flags().StringVar(&recordF2, "f2", "", "F2 band consumption, kWh")
	recordSetCmd.Flags().StringVar(&recordF3, "f3", "", "F3 band consumption, kWh")
	recordSetCmd.Flags().StringVar(&recordPower, "power", "", "active power, kW")
	recordSetCmd.Flags().StringVar(&recordCosfi, "cosfi", "", "power factor")
	recordSetCmd.Flags().StringVar(&recordGas, "gas", "", "gas volume, kWh equivalent")
	recordSetCmd.Flags().StringVar(&recordNote, "note", "", "free-form note")
	recordCmd.AddCommand(recordSetCmd)
	recordCmd.AddCommand(recordRmCmd)
	rootCmd.AddCommand(recordCmd)
}

// parseNumFlag reads an optional numeric flag in the Italian locale.
func parseNumFlag(name, v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	n, ok := normalize.Italian.Parse(v)
	if !ok {
		return nil, fmt.Errorf("%w: --%s %q", common.ErrInvalidNumeric, name, v)
	}
	return &n, nil
}

func runRecordSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)

	if recordMeter == "" || recordMonth == "" {
		return fmt.Errorf("--meter and --month are required")
	}
	meter, ok := st.MeterByRef(recordMeter)
	if !ok {
		return fmt.Errorf("no meter with reference %q (see 'enertrack meters')", recordMeter)
	}
	year := recordYear
	if year == 0 {
		year = st.Project().Year
	}

	c := entity.Candidate{Month: recordMonth, Note: recordNote}
	for _, f := range []struct {
		name string
		flag string
		dst  **float64
	}{
		{"f1", recordF1, &c.F1},
		{"f2", recordF2, &c.F2},
		{"f3", recordF3, &c.F3},
		{"power", recordPower, &c.ActivePower},
		{"cosfi", recordCosfi, &c.PowerFactor},
		{"gas", recordGas, &c.Gas},
	} {
		if *f.dst, err = parseNumFlag(f.name, f.flag); err != nil {
			return err
		}
	}

	rec := c.Record(meter.Kind, constants.SourceManual)
	overwritten, err := st.Upsert(meter.ID, year, rec)
	if err != nil {
		return err
	}

	ar, err := openArchive(cfg)
	if err != nil {
		return err
	}
	defer ar.Close()
	if err := ar.UpsertRecord(meter.ID, year, rec); err != nil {
		return err
	}

	st.Log(fmt.Sprintf("Inserimento manuale: %s %s", recordMeter, rec.Month))
	if overwritten {
		fmt.Printf("Replaced record %s for %s\n", rec.Month, recordMeter)
	} else {
		fmt.Printf("Added record %s for %s\n", rec.Month, recordMeter)
	}
	return saveStore(st, cfg)
}

func runRecordRm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)

	if recordMeter == "" || recordMonth == "" {
		return fmt.Errorf("--meter and --month are required")
	}
	meter, ok := st.MeterByRef(recordMeter)
	if !ok {
		return fmt.Errorf("no meter with reference %q", recordMeter)
	}
	year := recordYear
	if year == 0 {
		year = st.Project().Year
	}
	month, ok := normalize.Month(recordMonth)
	if !ok {
		return fmt.Errorf("%w: %q", common.ErrInvalidPeriod, recordMonth)
	}

	if !st.DeleteRecord(meter.ID, year, month) {
		return fmt.Errorf("%w: no record for %s/%s", common.ErrNotFound, recordMeter, month)
	}
	fmt.Printf("Deleted record %s for %s\n", month, recordMeter)
	return saveStore(st, cfg)
}
