package processor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPlotPriceTrends(t *testing.T) {
	trends := frame(t, TrendColumns,
		[]string{"1", "Soup", "1900", "1.0", "0.5", "1.5"},
		[]string{"1", "Soup", "1910", "2.0", "2.0", "2.0"},
		[]string{"2", "Tea", "1900", na, na, na},
	)

	path := filepath.Join(t.TempDir(), "output", TrendChart)
	if err := PlotPriceTrends(trends, path); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("chart is empty")
	}
}

func TestPlotPriceTrendsNoData(t *testing.T) {
	trends := frame(t, TrendColumns)

	path := filepath.Join(t.TempDir(), TrendChart)
	if err := PlotPriceTrends(trends, path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}
