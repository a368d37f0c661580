package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/energy-tracker/internal/archive"
	"github.com/joseph-ayodele/energy-tracker/internal/common"
	"github.com/joseph-ayodele/energy-tracker/internal/store"
)

var (
	cfgFile      string
	snapshotPath string
	archivePath  string
)

var rootCmd = &cobra.Command{
	Use:   "enertrack",
	Short: "Track utility consumption from bills, spreadsheets and scans",
	Long: `Enertrack ingests energy and gas consumption data from CSV/XLSX
imports and PDF bills (text extraction with OCR fallback), keeps it in a
JSON project snapshot plus a SQLite archive, and reports per-year
aggregates with an equipment-based cross-check.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./enertrack.yaml)")
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "project snapshot file (default is ./project.json)")
	rootCmd.PersistentFlags().StringVar(&archivePath, "archive", "", "archive database file (default is ./records.db)")
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "enertrack.yaml"
}

// loadConfig reads the YAML config and applies the CLI overrides.
func loadConfig() (*common.Config, error) {
	cfg, err := common.LoadConfig(getConfigPath())
	if err != nil {
		return nil, err
	}
	if snapshotPath != "" {
		cfg.SnapshotPath = snapshotPath
	}
	if archivePath != "" {
		cfg.ArchivePath = archivePath
	}
	return cfg, nil
}

// openStore loads the snapshot into a fresh store.
func openStore(cfg *common.Config) *store.Store {
	st := store.New(nil)
	st.Load(cfg.SnapshotPath)
	return st
}

// saveStore persists the snapshot back to disk.
func saveStore(st *store.Store, cfg *common.Config) error {
	return st.Save(cfg.SnapshotPath)
}

// openArchive opens the archive database, creating parent directories.
func openArchive(cfg *common.Config) (*archive.DB, error) {
	dir := filepath.Dir(cfg.ArchivePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}
	return archive.New(cfg.ArchivePath)
}

// confirm asks a yes/no question on the terminal.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
