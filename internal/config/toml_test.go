package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Analysis.CorpusRootFile != nil {
		t.Fatalf("expected empty config for missing file")
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := "[analysis]\njobs = -2\n\n[report]\ntop-speakers = 25\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Analysis.Jobs == nil || *cfg.Analysis.Jobs != -2 {
		t.Fatalf("unexpected jobs: %+v", cfg.Analysis.Jobs)
	}
	if cfg.Analysis.CorpusRootFile != nil {
		t.Fatalf("expected unset corpus-root-file to stay nil")
	}
	if cfg.Report.TopSpeakers == nil || *cfg.Report.TopSpeakers != 25 {
		t.Fatalf("unexpected top-speakers: %+v", cfg.Report.TopSpeakers)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
