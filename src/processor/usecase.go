package processor

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"MenuCleaning/src/config"
	"MenuCleaning/src/datasource/file"
	"MenuCleaning/src/utils"

	"github.com/go-gota/gota/dataframe"
)

const (
	TrendChart = "popular_dish_price_trends_by_decade.png"
	TrendSheet = "popular_dish_price_trends_by_decade.xlsx"
)

// TrendColumns 价格趋势汇总表的列
var TrendColumns = []string{"dish_id", "name", "decade", "avg_price", "min_price", "max_price"}

// PopularDishes 返回 times_appeared 最大的 n 行，并列时保持输入顺序
func PopularDishes(dish dataframe.DataFrame, n int) (dataframe.DataFrame, error) {
	if err := utils.RequireColumns(dish, "Dish", "times_appeared"); err != nil {
		return dish, err
	}

	counts, present := utils.Numbers(utils.Strings(dish, "times_appeared"))
	idx := make([]int, 0, len(counts))
	for i := range counts {
		if present[i] {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return counts[idx[a]] > counts[idx[b]]
	})
	if len(idx) > n {
		idx = idx[:n]
	}
	return utils.SubsetRows(dish, idx)
}

// ConvertToUSD CENTS 除以 100 后向上取整，其它货币不变
func ConvertToUSD(price float64, currency string, dcfg *config.DataConfig) float64 {
	if currency == dcfg.CentsCurrency {
		return math.Ceil(price / dcfg.CentsDivisor)
	}
	return price
}

// Decade 年份向下取整到十年
func Decade(t time.Time) int {
	y := t.Year()
	if y < 0 {
		return -((-y + 9) / 10) * 10
	}
	return y / 10 * 10
}

type trendKey struct {
	dishID float64
	name   string
	decade int
}

type trendAgg struct {
	sum      float64
	n        int
	min, max float64
}

func (a *trendAgg) add(v float64) {
	if a.n == 0 || v < a.min {
		a.min = v
	}
	if a.n == 0 || v > a.max {
		a.max = v
	}
	a.sum += v
	a.n++
}

// rowIndex 按数值键建立行索引
func rowIndex(df dataframe.DataFrame, col string) map[float64][]int {
	index := make(map[float64][]int)
	for i, v := range utils.Strings(df, col) {
		if k, ok := utils.ParseNumber(v); ok {
			index[k] = append(index[k], i)
		}
	}
	return index
}

// PriceChangesOverTime 连接四张表，统计热门菜品每个十年的平均/最低/最高价格(美元)
func PriceChangesOverTime(item, dish, page, menu, popular dataframe.DataFrame, dcfg *config.DataConfig) (dataframe.DataFrame, error) {
	checks := []struct {
		df    dataframe.DataFrame
		table string
		cols  []string
	}{
		{item, "MenuItem", []string{"dish_id", "menu_page_id", "price"}},
		{dish, "Dish", []string{"id", "name"}},
		{page, "MenuPage", []string{"id", "menu_id"}},
		{menu, "Menu", []string{"id", "currency", "date"}},
		{popular, "Dish", []string{"id"}},
	}
	for _, c := range checks {
		if err := utils.RequireColumns(c.df, c.table, c.cols...); err != nil {
			return dataframe.DataFrame{}, err
		}
	}

	popularIDs := keySet(popular, "id")
	dishIdx := rowIndex(dish, "id")
	pageIdx := rowIndex(page, "id")
	menuIdx := rowIndex(menu, "id")

	dishNames := utils.Strings(dish, "name")
	pageMenus := utils.Strings(page, "menu_id")
	currencies := utils.Strings(menu, "currency")
	dates := utils.Strings(menu, "date")
	itemDishes := utils.Strings(item, "dish_id")
	itemPages := utils.Strings(item, "menu_page_id")
	prices := utils.Strings(item, "price")

	groups := make(map[trendKey]*trendAgg)
	var keys []trendKey

	// 内连接 MenuItem ⋈ Dish ⋈ MenuPage ⋈ Menu
	for i := range itemDishes {
		dishID, ok := utils.ParseNumber(itemDishes[i])
		if !ok {
			continue
		}
		if _, ok := popularIDs[dishID]; !ok {
			continue
		}
		pageID, ok := utils.ParseNumber(itemPages[i])
		if !ok {
			continue
		}
		price := parseAmount(prices[i])

		for _, d := range dishIdx[dishID] {
			if utils.IsNA(dishNames[d]) {
				continue
			}
			for _, pg := range pageIdx[pageID] {
				menuID, ok := utils.ParseNumber(pageMenus[pg])
				if !ok {
					continue
				}
				for _, m := range menuIdx[menuID] {
					if !dcfg.IsAccepted(currencies[m]) {
						continue
					}
					date, err := time.Parse(dcfg.MenuDateLayout, dates[m])
					if err != nil {
						continue
					}

					key := trendKey{dishID: dishID, name: dishNames[d], decade: Decade(date)}
					agg, found := groups[key]
					if !found {
						agg = &trendAgg{}
						groups[key] = agg
						keys = append(keys, key)
					}
					if price.ok {
						agg.add(ConvertToUSD(price.v, currencies[m], dcfg))
					}
				}
			}
		}
	}

	sort.Slice(keys, func(a, b int) bool {
		ka, kb := keys[a], keys[b]
		if ka.dishID != kb.dishID {
			return ka.dishID < kb.dishID
		}
		if ka.decade != kb.decade {
			return ka.decade < kb.decade
		}
		return ka.name < kb.name
	})

	cols := make([][]string, len(TrendColumns))
	for _, k := range keys {
		agg := groups[k]
		avg, lo, hi := amount{}, amount{}, amount{}
		if agg.n > 0 {
			avg = amount{v: agg.sum / float64(agg.n), ok: true}
			lo = amount{v: agg.min, ok: true}
			hi = amount{v: agg.max, ok: true}
		}
		row := []string{
			utils.FormatKey(k.dishID),
			k.name,
			strconv.Itoa(k.decade),
			avg.String(),
			lo.String(),
			hi.String(),
		}
		for c, v := range row {
			cols[c] = append(cols[c], v)
		}
	}
	for c := range cols {
		if cols[c] == nil {
			cols[c] = []string{}
		}
	}

	return utils.NewFrame(TrendColumns, cols)
}

// RunUseCase 输出热门菜品表、价格趋势表，并生成图表
func (p *DataProcessor) RunUseCase() error {
	dish, err := p.loadOutput(CleanedDish)
	if err != nil {
		return err
	}
	menu, err := p.loadOutput(CleanedMenu)
	if err != nil {
		return err
	}
	page, err := p.loadOutput(CleanedMenuPage)
	if err != nil {
		return err
	}
	item, err := p.loadOutput(CleanedMenuItem)
	if err != nil {
		return err
	}

	popular, err := PopularDishes(dish, p.dcfg.PopularCount)
	if err != nil {
		return fmt.Errorf("popular dishes: %w", err)
	}
	p.logger.Info(FormatTable(popular, "Popular Dishes"))

	trends, err := PriceChangesOverTime(item, dish, page, menu, popular, p.dcfg)
	if err != nil {
		return fmt.Errorf("price changes: %w", err)
	}
	p.logger.Println()
	p.logger.Info(FormatTable(trends, "Price Trends of Popular Dishes by Decade"))

	if p.cfg.ExportExcel {
		if err := p.exportTrends(trends); err != nil {
			return err
		}
	}

	p.logger.Info("\nCreating and displaying price trends over time visualization...")
	chartPath := p.cfg.OutputPath(TrendChart)
	removed, err := file.RemoveExisting(chartPath)
	if err != nil {
		return err
	}
	if removed {
		p.logger.Infof("Removing existing visualization: %s", chartPath)
	}
	if err := PlotPriceTrends(trends, chartPath); err != nil {
		return err
	}

	if p.cfg.ShowChart {
		if err := showChart(chartPath); err != nil {
			p.logger.Warning(fmt.Sprintf("could not display %s: %v", chartPath, err))
		}
	}
	return nil
}

func (p *DataProcessor) exportTrends(trends dataframe.DataFrame) error {
	path := p.cfg.OutputPath(TrendSheet)
	removed, err := file.RemoveExisting(path)
	if err != nil {
		return err
	}
	if removed {
		p.logger.Infof("Removing existing file: %s", path)
	}
	if err := file.SaveToExcel(trends, path, p.cfg.SheetName); err != nil {
		return err
	}
	p.logger.Infof("Price trend summary saved to: %s", path)
	return nil
}
