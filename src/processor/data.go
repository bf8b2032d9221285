// data.go
package processor

import (
	"fmt"

	"MenuCleaning/src/config"
	"MenuCleaning/src/datasource/file"
	"MenuCleaning/src/storage"

	"github.com/go-gota/gota/dataframe"
)

// 清洗后的输出文件名
const (
	CleanedDish     = "cleaned_Dish.csv"
	CleanedMenu     = "cleaned_Menu.csv"
	CleanedMenuItem = "cleaned_MenuItem.csv"
	CleanedMenuPage = "cleaned_MenuPage.csv"
)

// DataProcessor 按固定顺序执行清洗、完整性检查和价格分析
type DataProcessor struct {
	cfg    *config.Config
	dcfg   *config.DataConfig
	logger *storage.Logger
}

func NewDataProcessor(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger) *DataProcessor {
	return &DataProcessor{cfg: cfg, dcfg: dcfg, logger: logger}
}

// Run 执行完整的批处理流程，任一阶段出错立即返回
func (p *DataProcessor) Run() error {
	if err := p.CleanData(); err != nil {
		return err
	}
	if err := p.CheckIntegrity(); err != nil {
		return err
	}
	if p.cfg.SampleRows > 0 {
		if err := p.CreateTestFiles(); err != nil {
			return err
		}
	}
	return p.CalculateMetrics()
}

// CleanData 依次清洗 Dish, Menu, MenuItem, MenuPage
func (p *DataProcessor) CleanData() error {
	p.logger.Info("Starting data processing...\n")

	// MenuItem 依赖清洗后的 Dish
	steps := []func() error{
		p.ProcessDish,
		p.ProcessMenu,
		p.ProcessMenuItem,
		p.ProcessMenuPage,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			p.logger.Error(err.Error())
			return err
		}
	}

	p.logger.Info("Data processing complete.\n")
	return nil
}

// CheckIntegrity 引用完整性检查
func (p *DataProcessor) CheckIntegrity() error {
	p.logger.Info("Starting referential integrity checks...\n")
	if err := p.RunIntegrityChecks(); err != nil {
		return err
	}
	p.logger.Info("Referential integrity checks complete.")
	return nil
}

// CalculateMetrics 热门菜品价格趋势分析
func (p *DataProcessor) CalculateMetrics() error {
	return p.RunUseCase()
}

// loadInput 读取原始输入，使用配置的编码
func (p *DataProcessor) loadInput(name string) (dataframe.DataFrame, error) {
	path := p.cfg.InputPath(name)
	df, err := file.ReadTable(path, p.cfg.InputEncoding, "")
	if err != nil {
		return df, fmt.Errorf("load input: %w", err)
	}
	p.logger.Debug(fmt.Sprintf("loaded %s: %d rows, %d columns", path, df.Nrow(), df.Ncol()))
	return df, nil
}

// loadOutput 读取本程序写出的清洗结果
func (p *DataProcessor) loadOutput(name string) (dataframe.DataFrame, error) {
	path := p.cfg.OutputPath(name)
	df, err := file.ReadCSV(path, "")
	if err != nil {
		return df, fmt.Errorf("load cleaned data: %w", err)
	}
	return df, nil
}

// save 先删除已存在的文件再写入
func (p *DataProcessor) save(df dataframe.DataFrame, path string) error {
	removed, err := file.RemoveExisting(path)
	if err != nil {
		return err
	}
	if removed {
		p.logger.Infof("Removing existing file: %s", path)
	}
	if err := file.SaveToCSV(df, path); err != nil {
		return err
	}
	p.logger.Debug(fmt.Sprintf("wrote %s: %d rows", path, df.Nrow()))
	return nil
}
