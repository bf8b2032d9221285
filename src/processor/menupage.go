package processor

import (
	"fmt"

	"MenuCleaning/src/utils"

	"github.com/go-gota/gota/dataframe"
)

// CleanMenuPage 只做去重
func CleanMenuPage(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	return utils.DropDuplicates(df)
}

func (p *DataProcessor) ProcessMenuPage() error {
	p.logger.Info("Processing menu page data...")

	df, err := p.loadInput(p.cfg.Inputs.MenuPage)
	if err != nil {
		return err
	}

	cleaned, err := CleanMenuPage(df)
	if err != nil {
		return fmt.Errorf("clean menu page: %w", err)
	}

	if err := p.save(cleaned, p.cfg.OutputPath(CleanedMenuPage)); err != nil {
		return err
	}

	p.logger.Info("Menu page data processing complete.\n")
	return nil
}
