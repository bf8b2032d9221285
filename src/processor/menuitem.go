package processor

import (
	"fmt"

	"MenuCleaning/src/utils"

	"github.com/go-gota/gota/dataframe"
)

const timestampLayout = "2006-01-02T15:04:05"

var (
	menuItemTimeColumns = []string{"created_at", "updated_at"}
	dishBoundColumns    = []string{"lowest_price", "highest_price"}
)

// amount 可能缺失的价格
type amount struct {
	v  float64
	ok bool
}

func parseAmount(s string) amount {
	v, ok := utils.ParseNumber(s)
	return amount{v: v, ok: ok}
}

func (a amount) String() string {
	if !a.ok {
		return utils.NA
	}
	return utils.FormatFloat(a.v)
}

// NormalizeMenuItem 规范化文本、时间和数值字段，无法解析的值置为缺失
func NormalizeMenuItem(df dataframe.DataFrame, layouts []string) (dataframe.DataFrame, error) {
	required := append([]string{"dish_id", "price", "high_price"}, menuItemTimeColumns...)
	if err := utils.RequireColumns(df, "MenuItem", required...); err != nil {
		return df, err
	}

	var err error

	// 1. 去除首尾空白并压缩内部空白
	for _, col := range df.Names() {
		values := utils.Strings(df, col)
		out := make([]string, len(values))
		for i, v := range values {
			out[i] = v
			if utils.IsNA(v) {
				continue
			}
			if out[i] = utils.NormalizeWhitespace(v); out[i] == "" {
				out[i] = utils.NA
			}
		}
		if df, err = utils.SetColumn(df, col, out); err != nil {
			return df, err
		}
	}

	// 2. 时间字段统一为 YYYY-MM-DDTHH:MM:SS
	for _, col := range menuItemTimeColumns {
		values := utils.Strings(df, col)
		out := make([]string, len(values))
		for i, v := range values {
			if ts, ok := utils.ParseTimestamp(v, layouts); ok {
				out[i] = ts.Format(timestampLayout)
			} else {
				out[i] = utils.NA
			}
		}
		if df, err = utils.SetColumn(df, col, out); err != nil {
			return df, err
		}
	}

	// 3. 数值字段
	if df, err = utils.CoerceColumn(df, "price", utils.FormatFloat); err != nil {
		return df, err
	}
	if df, err = utils.CoerceColumn(df, "high_price", utils.FormatFloat); err != nil {
		return df, err
	}
	return utils.CoerceColumn(df, "dish_id", utils.FormatKey)
}

// MergeDish 按 dish_id = Dish.id 左连接 Dish 的价格上下限
// dish_id 缺失的行被丢弃；同一个 id 对应多行 Dish 时每行都会产生一条结果
func MergeDish(items, dish dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := utils.RequireColumns(items, "MenuItem", "dish_id"); err != nil {
		return items, err
	}
	if err := utils.RequireColumns(dish, "Dish", append([]string{"id"}, dishBoundColumns...)...); err != nil {
		return items, err
	}

	// 1. Dish 索引
	lowest := utils.Strings(dish, "lowest_price")
	highest := utils.Strings(dish, "highest_price")
	index := make(map[float64][]int)
	for i, v := range utils.Strings(dish, "id") {
		if id, ok := utils.ParseNumber(v); ok {
			index[id] = append(index[id], i)
		}
	}

	// 2. 逐行匹配
	var (
		keep       []int
		lowestOut  []string
		highestOut []string
	)
	for i, v := range utils.Strings(items, "dish_id") {
		id, ok := utils.ParseNumber(v)
		if !ok {
			continue
		}
		matches := index[id]
		if len(matches) == 0 {
			keep = append(keep, i)
			lowestOut = append(lowestOut, utils.NA)
			highestOut = append(highestOut, utils.NA)
			continue
		}
		for _, m := range matches {
			keep = append(keep, i)
			lowestOut = append(lowestOut, parseAmount(lowest[m]).String())
			highestOut = append(highestOut, parseAmount(highest[m]).String())
		}
	}

	merged, err := utils.SubsetRows(items, keep)
	if err != nil {
		return merged, err
	}
	if merged, err = utils.SetColumn(merged, "lowest_price", lowestOut); err != nil {
		return merged, err
	}
	return utils.SetColumn(merged, "highest_price", highestOut)
}

// priceState 两位状态：price 是否存在、high_price 是否存在
type priceState uint8

const (
	neitherPrice priceState = iota // 00
	highOnly                       // 01
	priceOnly                      // 10
	bothPrices                     // 11
)

func stateOf(price, high amount) priceState {
	var s priceState
	if price.ok {
		s |= priceOnly
	}
	if high.ok {
		s |= highOnly
	}
	return s
}

// imputePrice 按 (price, high_price) 是否存在补全价格
func imputePrice(price, high, lowest, highest amount) (amount, amount) {
	switch stateOf(price, high) {
	case bothPrices:
		return price, high
	case priceOnly:
		return price, highest
	case highOnly:
		return high, high
	default:
		mid := amount{}
		if lowest.ok && highest.ok {
			mid = amount{v: (lowest.v + highest.v) / 2, ok: true}
		}
		return mid, highest
	}
}

// fixHighPrice price 大于 high_price 时把 high_price 提高到 price
func fixHighPrice(price, high amount) (amount, amount) {
	if price.ok && high.ok && price.v > high.v {
		return price, price
	}
	return price, high
}

// rewritePrices 对每行的价格应用 fn
func rewritePrices(df dataframe.DataFrame, fn func(price, high, lowest, highest amount) (amount, amount)) (dataframe.DataFrame, error) {
	if err := utils.RequireColumns(df, "MenuItem", append([]string{"price", "high_price"}, dishBoundColumns...)...); err != nil {
		return df, err
	}

	prices := utils.Strings(df, "price")
	highs := utils.Strings(df, "high_price")
	lowest := utils.Strings(df, "lowest_price")
	highest := utils.Strings(df, "highest_price")

	priceOut := make([]string, len(prices))
	highOut := make([]string, len(prices))
	for i := range prices {
		p, h := fn(parseAmount(prices[i]), parseAmount(highs[i]), parseAmount(lowest[i]), parseAmount(highest[i]))
		priceOut[i], highOut[i] = p.String(), h.String()
	}

	df, err := utils.SetColumn(df, "price", priceOut)
	if err != nil {
		return df, err
	}
	return utils.SetColumn(df, "high_price", highOut)
}

// ImputePrices 用 Dish 的价格上下限补全缺失的 price / high_price
func ImputePrices(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	return rewritePrices(df, imputePrice)
}

// FixHighPrice 保证 price <= high_price
func FixHighPrice(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	return rewritePrices(df, func(price, high, _, _ amount) (amount, amount) {
		return fixHighPrice(price, high)
	})
}

// CleanMenuItem 规范化、合并 Dish、补全价格、修正价格顺序、去重
func CleanMenuItem(items, dish dataframe.DataFrame, layouts []string) (dataframe.DataFrame, error) {
	df, err := NormalizeMenuItem(items, layouts)
	if err != nil {
		return df, err
	}
	if df, err = MergeDish(df, dish); err != nil {
		return df, err
	}
	if df, err = ImputePrices(df); err != nil {
		return df, err
	}
	if df, err = FixHighPrice(df); err != nil {
		return df, err
	}

	df = df.Drop(dishBoundColumns)
	if df.Err != nil {
		return df, fmt.Errorf("drop dish bounds: %w", df.Err)
	}
	return utils.DropDuplicates(df)
}

// ProcessMenuItem 清洗 MenuItem，依赖已写出的 cleaned_Dish.csv
func (p *DataProcessor) ProcessMenuItem() error {
	p.logger.Info("Processing menu item data...")

	items, err := p.loadInput(p.cfg.Inputs.MenuItem)
	if err != nil {
		return err
	}
	dish, err := p.loadOutput(CleanedDish)
	if err != nil {
		return err
	}

	cleaned, err := CleanMenuItem(items, dish, p.dcfg.TimestampLayouts)
	if err != nil {
		return fmt.Errorf("clean menu item: %w", err)
	}
	p.logger.Debug(fmt.Sprintf("menu item rows: %d -> %d", items.Nrow(), cleaned.Nrow()))

	if err := p.save(cleaned, p.cfg.OutputPath(CleanedMenuItem)); err != nil {
		return err
	}

	p.logger.Info("Menu item data processing complete. Inspection slice created.\n")
	return nil
}
