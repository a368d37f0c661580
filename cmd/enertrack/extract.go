package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/energy-tracker/constants"
	"github.com/joseph-ayodele/energy-tracker/internal/entity"
	"github.com/joseph-ayodele/energy-tracker/internal/ocr"
	"github.com/joseph-ayodele/energy-tracker/internal/pipeline"
)

var (
	extractMeter   string
	extractYear    int
	extractConfirm bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <pdf-file-or-directory>...",
	Short: "Extract tariff bands from PDF bills",
	Long: `Runs utility bills through the document pipeline: the PDF text layer
first, OCR of the first two pages when the text is missing or too thin.
Prints one candidate row per document. With --confirm, valid candidates
are written to the meter named by --meter after the usual batch-level
conflict confirmation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractMeter, "meter", "", "meter reference (POD/PDR) for confirmed candidates")
	extractCmd.Flags().IntVar(&extractYear, "year", 0, "target year (default: the project reference year)")
	extractCmd.Flags().BoolVar(&extractConfirm, "confirm", false, "persist valid candidates after review")
	rootCmd.AddCommand(extractCmd)
}

func collectPDFs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := constants.NormalizeExt(filepath.Ext(e.Name()))
			if _, ok := constants.AllowedExtensions[ext]; ok {
				paths = append(paths, filepath.Join(arg, e.Name()))
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)

	paths, err := collectPDFs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF documents found")
	}

	fallbackYear := cfg.FallbackYear
	if fallbackYear == 0 {
		fallbackYear = st.Project().Year
	}

	reader := ocr.NewReader(cfg.OCR, nil)
	recognizer := ocr.NewRecognizer(cfg.OCR, nil)
	p := pipeline.New(reader, recognizer, fallbackYear, cfg.OCR.MaxPages, nil)

	progress := func(pct int, label string) {
		fmt.Fprintf(os.Stderr, "\r[%3d%%] %-50s", pct, label)
	}
	candidates := p.ExtractBatch(cmd.Context(), paths, progress)
	fmt.Fprintln(os.Stderr)

	printCandidates(candidates)
	st.Log(fmt.Sprintf("Estrazione PDF completata: %d file", len(paths)))

	if !extractConfirm {
		if err := saveStore(st, cfg); err != nil {
			return err
		}
		fmt.Println("\nRe-run with --confirm --meter <ref> to persist the valid rows.")
		return nil
	}

	if extractMeter == "" {
		return fmt.Errorf("--confirm requires --meter")
	}
	meter, ok := st.MeterByRef(extractMeter)
	if !ok {
		return fmt.Errorf("no meter with reference %q", extractMeter)
	}
	year := extractYear
	if year == 0 {
		year = st.Project().Year
	}

	ar, err := openArchive(cfg)
	if err != nil {
		return err
	}
	defer ar.Close()

	existing := map[string]bool{}
	for _, r := range st.Records(meter.ID, year) {
		existing[r.Month] = true
	}
	var conflicts []string
	for _, c := range candidates {
		if c.Valid && existing[c.Month] {
			conflicts = append(conflicts, c.Month)
		}
	}
	applyConflicts := true
	if len(conflicts) > 0 {
		applyConflicts = confirm(fmt.Sprintf("Overwrite %d existing month(s) (%s)?",
			len(conflicts), strings.Join(conflicts, ", ")))
	}

	confirmed, skipped := 0, 0
	for _, c := range candidates {
		if !c.Valid {
			continue
		}
		if existing[c.Month] && !applyConflicts {
			skipped++
			continue
		}
		rec := c.Record(meter.Kind, c.Method.Provenance())
		if _, err := st.Upsert(meter.ID, year, rec); err != nil {
			return fmt.Errorf("storing %s: %w", c.Month, err)
		}
		if err := ar.UpsertRecord(meter.ID, year, rec); err != nil {
			return err
		}
		confirmed++
	}
	st.Log(fmt.Sprintf("Confermati %d mesi da estrazione PDF", confirmed))
	fmt.Printf("Confirmed %d records (%d conflicts skipped)\n", confirmed, skipped)
	return saveStore(st, cfg)
}

func printCandidates(candidates []entity.Candidate) {
	fmt.Printf("%-30s %-8s %10s %10s %10s %-6s %-12s %s\n",
		"source", "month", "f1", "f2", "f3", "method", "status", "confidence")
	for _, c := range candidates {
		fmt.Printf("%-30s %-8s %10s %10s %10s %-6s %-12s %s\n",
			c.Origin, c.Month, optNum(c.F1), optNum(c.F2), optNum(c.F3),
			c.Method, c.Status, c.Confidence)
	}
}
