package file

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"MenuCleaning/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

// EnsureDir 确保目录存在
func EnsureDir(dirPath string) error {
	if dirPath == "" || dirPath == "." {
		return nil
	}
	if info, err := os.Stat(dirPath); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", dirPath)
	}
	return os.MkdirAll(dirPath, 0755)
}

// RemoveExisting 删除已存在的输出文件，返回是否删除了文件
func RemoveExisting(filePath string) (bool, error) {
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := os.Remove(filePath); err != nil {
		return false, fmt.Errorf("remove %s: %w", filePath, err)
	}
	return true, nil
}

// SaveToCSV 将DataFrame写入 csv，缺失值写为空字段
func SaveToCSV(df dataframe.DataFrame, filePath string) error {
	if df.Err != nil {
		return fmt.Errorf("save %s: %w", filePath, df.Err)
	}
	if err := EnsureDir(filepath.Dir(filePath)); err != nil {
		return err
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create %s: %w", filePath, err)
	}

	w := csv.NewWriter(f)
	_ = w.Write(df.Names())
	for _, row := range utils.Rows(df) {
		for i, v := range row {
			if utils.IsNA(v) {
				row[i] = ""
			}
		}
		_ = w.Write(row)
	}
	w.Flush()

	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filePath, err)
	}
	return f.Close()
}

// SaveToExcel 将DataFrame保存为 xlsx，数值单元格写为数字
func SaveToExcel(df dataframe.DataFrame, filePath, sheetName string) error {
	if df.Err != nil {
		return fmt.Errorf("save %s: %w", filePath, df.Err)
	}
	if err := EnsureDir(filepath.Dir(filePath)); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = "Sheet1"
	}
	if sheetName != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheetName); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	// 写入列名
	colNames := df.Names()
	for i, name := range colNames {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return err
		}
	}

	// 写入数据
	for rowIdx, row := range utils.Rows(df) {
		for colIdx, v := range row {
			if utils.IsNA(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			var value interface{} = v
			if num, ok := utils.ParseNumber(v); ok {
				value = num
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	// 保存文件
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}
