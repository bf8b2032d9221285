package processor

import (
	"fmt"

	"MenuCleaning/src/utils"

	"github.com/go-gota/gota/dataframe"
)

var dishPriceColumns = []string{"lowest_price", "highest_price"}

// CleanDish 用各列均值(保留两位小数)填充缺失的价格上下限，并去重
func CleanDish(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := utils.RequireColumns(df, "Dish", dishPriceColumns...); err != nil {
		return df, err
	}

	for _, col := range dishPriceColumns {
		values := utils.Strings(df, col)
		mean, hasMean := utils.Mean(values)
		fill := utils.NA
		if hasMean {
			fill = utils.FormatFloat(utils.Round2(mean))
		}

		out := make([]string, len(values))
		for i, v := range values {
			if f, ok := utils.ParseNumber(v); ok {
				out[i] = utils.FormatFloat(f)
			} else {
				out[i] = fill
			}
		}

		var err error
		if df, err = utils.SetColumn(df, col, out); err != nil {
			return df, err
		}
	}

	return utils.DropDuplicates(df)
}

// ProcessDish 清洗 Dish 并写入 output
func (p *DataProcessor) ProcessDish() error {
	p.logger.Info("Processing dish data...")

	df, err := p.loadInput(p.cfg.Inputs.Dish)
	if err != nil {
		return err
	}

	cleaned, err := CleanDish(df)
	if err != nil {
		return fmt.Errorf("clean dish: %w", err)
	}

	if err := p.save(cleaned, p.cfg.OutputPath(CleanedDish)); err != nil {
		return err
	}

	p.logger.Info("Dish data processing complete.\n")
	return nil
}
