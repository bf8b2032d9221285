package processor

import (
	"fmt"

	"MenuCleaning/src/utils"
)

// CreateTestFiles 把每个清洗结果的前 SampleRows 行写到 output/test_*.csv
func (p *DataProcessor) CreateTestFiles() error {
	p.logger.Info("Creating test files...\n")

	datasets := []struct{ input, output string }{
		{CleanedDish, "test_Dish.csv"},
		{CleanedMenu, "test_Menu.csv"},
		{CleanedMenuItem, "test_MenuItem.csv"},
		{CleanedMenuPage, "test_MenuPage.csv"},
	}
	for _, d := range datasets {
		df, err := p.loadOutput(d.input)
		if err != nil {
			return err
		}
		sample, err := utils.HeadRows(df, p.cfg.SampleRows)
		if err != nil {
			return fmt.Errorf("sample %s: %w", d.input, err)
		}

		out := p.cfg.OutputPath(d.output)
		if err := p.save(sample, out); err != nil {
			return err
		}
		p.logger.Infof("Test file created: %s", out)
	}
	p.logger.Println()

	p.logger.Info("Test files created.\n")
	return nil
}
