package processor

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"MenuCleaning/src/datasource/file"
	"MenuCleaning/src/utils"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotPriceTrends 每个菜品一条折线：x 为十年，y 为平均价格
func PlotPriceTrends(trends dataframe.DataFrame, path string) error {
	if err := utils.RequireColumns(trends, "trends", "dish_id", "name", "decade", "avg_price"); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Price Trends of Popular Dishes Over Decades"
	p.X.Label.Text = "Decade"
	p.Y.Label.Text = "Average Price (USD)"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	// 汇总表已按 dish_id, decade 排序
	ids := utils.Strings(trends, "dish_id")
	names := utils.Strings(trends, "name")
	decades := utils.Strings(trends, "decade")
	avgs := utils.Strings(trends, "avg_price")

	var lines []interface{}
	for start := 0; start < len(ids); {
		end := start
		var xys plotter.XYs
		for ; end < len(ids) && ids[end] == ids[start]; end++ {
			decade, err := strconv.Atoi(decades[end])
			if err != nil {
				return fmt.Errorf("decade %q: %w", decades[end], err)
			}
			avg, ok := utils.ParseNumber(avgs[end])
			if !ok {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(decade), Y: avg})
		}
		if len(xys) > 0 {
			lines = append(lines, names[start], xys)
		}
		start = end
	}

	if len(lines) > 0 {
		if err := plotutil.AddLinePoints(p, lines...); err != nil {
			return fmt.Errorf("add lines: %w", err)
		}
	}

	if err := file.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := p.Save(14*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

// showChart 用系统默认程序打开图片，不等待其退出
func showChart(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
