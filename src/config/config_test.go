package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigsMissingFiles(t *testing.T) {
	dir := t.TempDir()

	cfg, dcfg, err := loadConfigs(dir, "config.json", "dataconfig.json")
	if err != nil {
		t.Fatalf("缺少配置文件时应使用缺省值: %v", err)
	}

	if cfg.InputPath(cfg.Inputs.MenuItem) != filepath.Join("input", "raw_MenuItem.csv") {
		t.Errorf("unexpected menu item input: %s", cfg.InputPath(cfg.Inputs.MenuItem))
	}
	if cfg.OutputPath("cleaned_Dish.csv") != filepath.Join("output", "cleaned_Dish.csv") {
		t.Errorf("unexpected output path: %s", cfg.OutputPath("cleaned_Dish.csv"))
	}
	if dcfg.DefaultCurrency != "DOLLARS" || dcfg.DefaultCurrencySymbol != "$" {
		t.Errorf("unexpected currency defaults: %q %q", dcfg.DefaultCurrency, dcfg.DefaultCurrencySymbol)
	}
	if dcfg.PopularCount != 10 {
		t.Errorf("PopularCount = %d, want 10", dcfg.PopularCount)
	}
}

func TestLoadConfigsOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json"), `{"output_dir": "out", "sample_rows": 5, "show_chart": false}`)
	writeFile(t, filepath.Join(dir, "dataconfig.json"), `{"popular_count": 3, "accepted_currencies": ["DOLLARS"]}`)

	cfg, dcfg, err := loadConfigs(dir, "config.json", "dataconfig.json")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.OutputDir != "out" || cfg.SampleRows != 5 || cfg.ShowChart {
		t.Errorf("config not applied: %+v", cfg)
	}
	// 未出现的字段保持缺省值
	if cfg.InputDir != "input" || !cfg.ExportExcel {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if dcfg.PopularCount != 3 {
		t.Errorf("PopularCount = %d, want 3", dcfg.PopularCount)
	}
	if dcfg.IsAccepted("CENTS") || !dcfg.IsAccepted("DOLLARS") {
		t.Errorf("accepted currencies not applied: %v", dcfg.AcceptedCurrencies)
	}
	if len(dcfg.CrucialColumns) != 4 {
		t.Errorf("crucial columns lost: %v", dcfg.CrucialColumns)
	}
}

func TestLoadConfigsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json"), `{"output_dir": `)
	writeFile(t, filepath.Join(dir, "dataconfig.json"), `{"popular_count": "ten"}`)

	if _, _, err := loadConfigs(dir, "config.json", "dataconfig.json"); err == nil {
		t.Fatal("expected error for malformed json")
	}
}

func TestLoadConfigsInvalidDivisor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dataconfig.json"), `{"cents_divisor": 0}`)

	if _, _, err := loadConfigs(dir, "config.json", "dataconfig.json"); err == nil {
		t.Fatal("expected error for zero divisor")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
