package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"MenuCleaning/src/utils"
)

// 缺省货币策略，某列完全没有取值时使用
const (
	DefaultCurrency       = "DOLLARS"
	DefaultCurrencySymbol = "$"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	InputDir  string `json:"input_dir"`  // 原始数据目录
	OutputDir string `json:"output_dir"` // 清洗结果目录

	Inputs struct {
		Dish     string `json:"dish"`
		Menu     string `json:"menu"`
		MenuItem string `json:"menu_item"`
		MenuPage string `json:"menu_page"`
	} `json:"inputs"`

	// 引用完整性检查后的文件写入位置
	IntegrityDirs struct {
		MenuItem string `json:"menu_item"`
		MenuPage string `json:"menu_page"`
	} `json:"integrity_dirs"`

	InputEncoding string `json:"input_encoding"` // utf-8, gbk, latin1, windows-1252
	SheetName     string `json:"sheet_name"`     // xlsx 输入/输出使用的工作表
	LogName       string `json:"log_name"`
	LogMaxSize    string `json:"log_max_size"` // 例如 "10 * 1024 * 1024"
	Verbose       bool   `json:"verbose"`

	SampleRows  int  `json:"sample_rows"`  // 大于0时生成 test_*.csv 样本
	ShowChart   bool `json:"show_chart"`   // 保存后是否打开图表
	ExportExcel bool `json:"export_excel"` // 是否导出价格趋势 xlsx
}

// DataConfig 数据清洗策略
type DataConfig struct {
	CrucialColumns        []string `json:"crucial_columns"`
	DefaultCurrency       string   `json:"default_currency"`
	DefaultCurrencySymbol string   `json:"default_currency_symbol"`
	AcceptedCurrencies    []string `json:"accepted_currencies"`
	CentsCurrency         string   `json:"cents_currency"`
	CentsDivisor          float64  `json:"cents_divisor"`
	MenuDateLayout        string   `json:"menu_date_layout"`
	TimestampLayouts      []string `json:"timestamp_layouts"`
	PopularCount          int      `json:"popular_count"`
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	loadErr            error
)

// Default 返回与固定目录布局一致的缺省配置
func Default() *Config {
	cfg := &Config{
		InputDir:      "input",
		OutputDir:     "output",
		InputEncoding: "utf-8",
		SheetName:     "Sheet1",
		LogName:       "app.log",
		LogMaxSize:    "10 * 1024 * 1024",
		ShowChart:     true,
		ExportExcel:   true,
	}
	cfg.Inputs.Dish = "refined_Dish.csv"
	cfg.Inputs.Menu = "refined_Menu.csv"
	cfg.Inputs.MenuItem = "raw_MenuItem.csv"
	cfg.Inputs.MenuPage = "refined_MenuPage.csv"
	cfg.IntegrityDirs.MenuItem = "MenuItem"
	cfg.IntegrityDirs.MenuPage = "MenuPage"
	return cfg
}

// DefaultData 返回缺省的数据清洗策略
func DefaultData() *DataConfig {
	return &DataConfig{
		CrucialColumns:        []string{"sponsor", "event", "venue", "place"},
		DefaultCurrency:       DefaultCurrency,
		DefaultCurrencySymbol: DefaultCurrencySymbol,
		AcceptedCurrencies:    []string{"DOLLARS", "CENTS"},
		CentsCurrency:         "CENTS",
		CentsDivisor:          100,
		MenuDateLayout:        "2006-01-02T15:04:05Z",
		TimestampLayouts: []string{
			"2006-01-02 15:04:05 MST",
			"2006-01-02 15:04:05 -0700",
			"2006-01-02T15:04:05Z07:00",
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
			"2006-01-02 15:04",
			"2006-01-02",
			"2006/01/02 15:04:05",
			"2006/01/02",
			"01/02/2006 15:04:05",
			"01/02/2006",
		},
		PopularCount: 10,
	}
}

// LoadConfig 加载配置，进程内只加载一次
func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	once.Do(func() {
		instance, dataConfigInstance, loadErr = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, loadErr
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	var errs []error

	// 1. 文件不存在时使用缺省值
	cfg := Default()
	if data, err := readFile(configFile); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			errs = append(errs, fmt.Errorf("解析Config失败: %w", err))
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, fmt.Errorf("读取配置文件失败: %w", err))
	}

	dcfg := DefaultData()
	if data, err := readFile(dataConfigFile); err == nil {
		if err := json.Unmarshal(data, dcfg); err != nil {
			errs = append(errs, fmt.Errorf("解析DataConfig失败: %w", err))
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, fmt.Errorf("读取数据配置文件失败: %w", err))
	}

	if len(errs) > 0 {
		return nil, nil, combineErrors(errs)
	}

	// 2. 校验
	if err := dcfg.validate(); err != nil {
		return nil, nil, err
	}

	return cfg, dcfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	msg := "配置加载遇到多个错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

func (dc *DataConfig) validate() error {
	if dc.CentsDivisor <= 0 {
		return fmt.Errorf("cents_divisor must be positive, got %v", dc.CentsDivisor)
	}
	if dc.PopularCount < 0 {
		return fmt.Errorf("popular_count must not be negative, got %d", dc.PopularCount)
	}
	if dc.MenuDateLayout == "" {
		return fmt.Errorf("menu_date_layout is empty")
	}
	return nil
}

// IsAccepted 判断货币是否参与价格分析
func (dc *DataConfig) IsAccepted(currency string) bool {
	return utils.Contains(dc.AcceptedCurrencies, currency)
}

// InputPath 返回某个实体的原始输入文件路径
func (c *Config) InputPath(name string) string {
	return filepath.Join(c.InputDir, name)
}

// OutputPath 返回 output 目录下的文件路径
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.OutputDir, name)
}
