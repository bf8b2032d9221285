package processor

import (
	"fmt"

	"MenuCleaning/src/config"
	"MenuCleaning/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// CleanMenu 填充货币字段、删除关键描述字段全部缺失的行并去重
func CleanMenu(df dataframe.DataFrame, dcfg *config.DataConfig) (dataframe.DataFrame, error) {
	required := append([]string{"currency", "currency_symbol"}, dcfg.CrucialColumns...)
	if err := utils.RequireColumns(df, "Menu", required...); err != nil {
		return df, err
	}

	// 1. 众数填充，整列缺失时使用缺省值
	fills := []struct {
		col      string
		fallback string
	}{
		{"currency", dcfg.DefaultCurrency},
		{"currency_symbol", dcfg.DefaultCurrencySymbol},
	}
	for _, f := range fills {
		values := utils.Strings(df, f.col)
		mode, ok := utils.Mode(values)
		if !ok {
			mode = f.fallback
		}

		var err error
		if df, err = utils.SetColumn(df, f.col, utils.FillNA(values, mode)); err != nil {
			return df, err
		}
	}

	// 2. 关键列至少有一个有值才保留，多个过滤条件之间为 OR
	if len(dcfg.CrucialColumns) > 0 {
		filters := make([]dataframe.F, 0, len(dcfg.CrucialColumns))
		for _, col := range dcfg.CrucialColumns {
			filters = append(filters, dataframe.F{
				Colname:    col,
				Comparator: series.CompFunc,
				Comparando: func(el series.Element) bool { return !el.IsNA() },
			})
		}
		df = df.Filter(filters...)
		if df.Err != nil {
			return df, fmt.Errorf("filter crucial columns: %w", df.Err)
		}
	}

	// 3. 去重
	return utils.DropDuplicates(df)
}

// ProcessMenu 清洗 Menu 并写入 output
func (p *DataProcessor) ProcessMenu() error {
	p.logger.Info("Processing menu data...")

	df, err := p.loadInput(p.cfg.Inputs.Menu)
	if err != nil {
		return err
	}

	cleaned, err := CleanMenu(df, p.dcfg)
	if err != nil {
		return fmt.Errorf("clean menu: %w", err)
	}
	p.logger.Debug(fmt.Sprintf("menu rows: %d -> %d", df.Nrow(), cleaned.Nrow()))

	if err := p.save(cleaned, p.cfg.OutputPath(CleanedMenu)); err != nil {
		return err
	}

	p.logger.Info("Menu data processing complete.\n")
	return nil
}
