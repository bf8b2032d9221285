// reader.go
package file

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"MenuCleaning/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadTable 根据扩展名读取 csv 或 xlsx 文件，所有列均为字符串类型
func ReadTable(filePath, encoding, sheetName string) (dataframe.DataFrame, error) {
	if strings.EqualFold(filepath.Ext(filePath), ".xlsx") {
		return ReadXLSX(filePath, sheetName)
	}
	return ReadCSV(filePath, encoding)
}

// ReadCSV 读取带表头的 csv 文件
func ReadCSV(filePath, encoding string) (dataframe.DataFrame, error) {
	// 1. 打开文件，读取结束后立即关闭
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	// 2. 按配置的编码转为 UTF-8
	input, err := charsetReader(encoding, f)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%s: %w", filePath, err)
	}

	// 3. 去掉 UTF-8 BOM
	br := bufio.NewReader(input)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%s: read csv: %w", filePath, err)
	}

	df, err := recordsToDataFrame(records)
	if err != nil {
		return df, fmt.Errorf("%s: %w", filePath, err)
	}
	return df, nil
}

// ReadXLSX 读取 xlsx 工作表，sheetName 为空时读取第一个工作表
func ReadXLSX(filePath, sheetName string) (dataframe.DataFrame, error) {
	// 1. 使用tealeg/xlsx打开Excel文件
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("xlsx open file false: %w", err)
	}

	// 2. 获取工作表
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%s: excel文件中没有工作表", filePath)
	}
	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("%s: sheet %q not found", filePath, sheetName)
		}
		sheet = s
	}

	// 3. 转换为Gota DataFrame
	df, err := recordsToDataFrame(sheetRecords(sheet))
	if err != nil {
		return df, fmt.Errorf("%s: %w", filePath, err)
	}
	return df, nil
}

// sheetRecords 将xlsx.Sheet转换为二维字符串表，第一行是标题行
func sheetRecords(sheet *xlsx.Sheet) [][]string {
	records := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		rec := make([]string, len(row.Cells))
		blank := true
		for i, cell := range row.Cells {
			if cell != nil {
				rec[i] = cell.Value
				blank = blank && cell.Value == ""
			}
		}
		// 跳过空行，与 csv 读取一致
		if blank {
			continue
		}
		// 去掉行尾带格式的空单元格
		for len(rec) > 0 && rec[len(rec)-1] == "" {
			rec = rec[:len(rec)-1]
		}
		records = append(records, rec)
	}
	return records
}

// recordsToDataFrame 第一行为表头，缺失标记统一转为 NaN
func recordsToDataFrame(records [][]string) (dataframe.DataFrame, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("no header row")
	}
	header := records[0]
	width := len(header)

	// 只有表头时 LoadRecords 会报错，单独构造空表
	if len(records) == 1 {
		cols := make([]series.Series, width)
		for i, name := range header {
			cols[i] = series.New([]string{}, series.String, name)
		}
		df := dataframe.New(cols...)
		return df, df.Err
	}

	// 字段不足的行补空，超出表头的行视为错误
	for i := 1; i < len(records); i++ {
		switch n := len(records[i]); {
		case n < width:
			padded := make([]string, width)
			copy(padded, records[i])
			records[i] = padded
		case n > width:
			return dataframe.DataFrame{}, fmt.Errorf("line %d: expected %d fields, saw %d", i+1, width, n)
		}
	}

	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.HasHeader(true),
		dataframe.NaNValues(utils.MissingTokens),
	)
	if df.Err != nil {
		return df, fmt.Errorf("load records: %w", df.Err)
	}
	return df, nil
}
