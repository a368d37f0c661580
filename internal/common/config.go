package common

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	SnapshotPath string    `yaml:"snapshot_path,omitempty"`
	ArchivePath  string    `yaml:"archive_path,omitempty"`
	FallbackYear int       `yaml:"fallback_year,omitempty"` // used when a bill carries only a month number
	OCR          OCRConfig `yaml:"ocr,omitempty"`
}

// OCRConfig holds the external tool configuration for document extraction
type OCRConfig struct {
	Pdfinfo   string `yaml:"pdfinfo,omitempty"`
	Pdftotext string `yaml:"pdftotext,omitempty"`
	Pdftoppm  string `yaml:"pdftoppm,omitempty"`
	Tesseract string `yaml:"tesseract,omitempty"`
	Language  string `yaml:"language,omitempty"` // tesseract language hint, default "ita"
	DPI       int    `yaml:"dpi,omitempty"`
	MaxPages  int    `yaml:"max_pages,omitempty"`
}

// LoadConfig reads the YAML config file (missing file yields defaults) and
// applies environment-variable overrides on top.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, NewAppError("CONFIG_PARSE", fmt.Sprintf("parsing config file %s", path), err)
		}
	} else if !os.IsNotExist(err) {
		return nil, NewAppError("CONFIG_READ", fmt.Sprintf("reading config file %s", path), err)
	}

	cfg.SnapshotPath = getEnv("ET_SNAPSHOT", defaultStr(cfg.SnapshotPath, "project.json"))
	cfg.ArchivePath = getEnv("ET_ARCHIVE", defaultStr(cfg.ArchivePath, "records.db"))
	cfg.FallbackYear = getEnvAsInt("ET_FALLBACK_YEAR", cfg.FallbackYear)
	cfg.OCR.Pdfinfo = getEnv("ET_PDFINFO", defaultStr(cfg.OCR.Pdfinfo, "pdfinfo"))
	cfg.OCR.Pdftotext = getEnv("ET_PDFTOTEXT", defaultStr(cfg.OCR.Pdftotext, "pdftotext"))
	cfg.OCR.Pdftoppm = getEnv("ET_PDFTOPPM", defaultStr(cfg.OCR.Pdftoppm, "pdftoppm"))
	cfg.OCR.Tesseract = getEnv("ET_TESSERACT", defaultStr(cfg.OCR.Tesseract, "tesseract"))
	cfg.OCR.Language = getEnv("ET_OCR_LANG", defaultStr(cfg.OCR.Language, "ita"))
	cfg.OCR.DPI = getEnvAsInt("ET_OCR_DPI", defaultInt(cfg.OCR.DPI, 300))
	cfg.OCR.MaxPages = getEnvAsInt("ET_OCR_MAX_PAGES", defaultInt(cfg.OCR.MaxPages, 2))
	return cfg, nil
}

// Save writes the config to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultStr(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func defaultInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
