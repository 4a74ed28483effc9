// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Report   ReportConfig   `toml:"report"`
	Scraper  ScraperConfig  `toml:"scraper"`
}

// AnalysisConfig maps statistics-computation settings.
type AnalysisConfig struct {
	CorpusRootFile *string `toml:"corpus-root-file"`
	VerbFormsFile  *string `toml:"verb-forms-file"`
	Jobs           *int    `toml:"jobs"`
	LogLevel       *string `toml:"log-level"`
}

// ReportConfig maps top-N reporting settings.
type ReportConfig struct {
	Legislatures *string `toml:"legislatures"`
	TopForms     *int    `toml:"top-forms"`
	TopSpeakers  *int    `toml:"top-speakers"`
}

// ScraperConfig maps conjugation-scraper settings.
type ScraperConfig struct {
	VerbsFile  *string `toml:"verbs-file"`
	OutputFile *string `toml:"output-file"`
	CacheDB    *string `toml:"cache-db"`
	LogLevel   *string `toml:"log-level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
