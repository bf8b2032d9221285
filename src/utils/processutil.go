package utils

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// NA 是 gota 字符串列中缺失值的表示
const NA = "NaN"

// MissingTokens 读取时视为缺失的取值
var MissingTokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a",
	"nan", "null",
}

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// IsNA 判断取值是否缺失
func IsNA(s string) bool {
	return s == NA
}

// 辅助函数：判断DataFrame是否有某列
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// RequireColumns 缺少任意一列时返回错误
func RequireColumns(df dataframe.DataFrame, table string, names ...string) error {
	for _, name := range names {
		if !HasColumn(df, name) {
			return fmt.Errorf("%s: missing required column %q", table, name)
		}
	}
	return nil
}

// Strings 返回某列的全部取值，缺失值为 NA
func Strings(df dataframe.DataFrame, name string) []string {
	return df.Col(name).Records()
}

// NewFrame 按列构造全部为字符串类型的DataFrame，允许0行
func NewFrame(names []string, columns [][]string) (dataframe.DataFrame, error) {
	if len(names) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("new frame: no columns")
	}
	if len(names) != len(columns) {
		return dataframe.DataFrame{}, fmt.Errorf("new frame: %d names for %d columns", len(names), len(columns))
	}

	list := make([]series.Series, len(names))
	for i, name := range names {
		list[i] = series.New(columns[i], series.String, name)
	}
	df := dataframe.New(list...)
	if df.Err != nil {
		return df, fmt.Errorf("new frame: %w", df.Err)
	}
	return df, nil
}

// FromRecords 由 表头+数据行 构造DataFrame
func FromRecords(header []string, rows [][]string) (dataframe.DataFrame, error) {
	columns := make([][]string, len(header))
	for c := range header {
		columns[c] = make([]string, len(rows))
		for r, row := range rows {
			columns[c][r] = row[c]
		}
	}
	return NewFrame(header, columns)
}

// Rows 返回不含表头的全部数据行
func Rows(df dataframe.DataFrame) [][]string {
	names := df.Names()
	cols := make([][]string, len(names))
	for i, name := range names {
		cols[i] = Strings(df, name)
	}

	rows := make([][]string, df.Nrow())
	for r := range rows {
		row := make([]string, len(names))
		for c := range names {
			row[c] = cols[c][r]
		}
		rows[r] = row
	}
	return rows
}

// SetColumn 替换或追加一列
func SetColumn(df dataframe.DataFrame, name string, values []string) (dataframe.DataFrame, error) {
	out := df.Mutate(series.New(values, series.String, name))
	if out.Err != nil {
		return out, fmt.Errorf("set column %s: %w", name, out.Err)
	}
	return out, nil
}

// SubsetRows 按行号取子集，允许空集和重复行号
func SubsetRows(df dataframe.DataFrame, idx []int) (dataframe.DataFrame, error) {
	if idx == nil {
		idx = []int{}
	}
	out := df.Subset(idx)
	if out.Err != nil {
		return out, fmt.Errorf("subset: %w", out.Err)
	}
	return out, nil
}

// DropDuplicates 删除完全相同的行，保留第一次出现
// 数值按值比较：101 与 101.0 视为相同
func DropDuplicates(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	seen := make(map[string]struct{}, df.Nrow())
	keep := make([]int, 0, df.Nrow())

	for i, row := range Rows(df) {
		key := strings.Join(dedupeKey(row), "\x1f")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}

	if len(keep) == df.Nrow() {
		return df, nil
	}
	return SubsetRows(df, keep)
}

func dedupeKey(row []string) []string {
	key := make([]string, len(row))
	for i, v := range row {
		if f, ok := ParseNumber(v); ok {
			key[i] = FormatFloat(f)
		} else {
			key[i] = v
		}
	}
	return key
}

// HeadRows 返回前 n 行
func HeadRows(df dataframe.DataFrame, n int) (dataframe.DataFrame, error) {
	if n >= df.Nrow() {
		return df, nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return SubsetRows(df, idx)
}

// ParseNumber 将字符串转为数值，无法解析或缺失时 ok 为 false
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || IsNA(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Numbers 将整列转为数值，present 标记是否有值
func Numbers(values []string) (nums []float64, present []bool) {
	nums = make([]float64, len(values))
	present = make([]bool, len(values))
	for i, v := range values {
		nums[i], present[i] = ParseNumber(v)
	}
	return nums, present
}

// FormatFloat 浮点列的输出格式：整数值保留一位小数
func FormatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e16 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatKey 主键/外键列的输出格式：整数值不带小数
func FormatKey(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e16 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// CoerceColumn 将一列转为数值并按 format 重新格式化，无法解析的值置为缺失
func CoerceColumn(df dataframe.DataFrame, name string, format func(float64) string) (dataframe.DataFrame, error) {
	values := Strings(df, name)
	out := make([]string, len(values))
	for i, v := range values {
		if f, ok := ParseNumber(v); ok {
			out[i] = format(f)
		} else {
			out[i] = NA
		}
	}
	return SetColumn(df, name, out)
}

// Round2 保留两位小数，按二进制精确值舍入，恰好居中时取偶数
func Round2(f float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 2, 64), 64)
	if err != nil {
		return f
	}
	return r
}

// Mean 计算非缺失数值的平均值
func Mean(values []string) (float64, bool) {
	var sum float64
	var n int
	for _, v := range values {
		if f, ok := ParseNumber(v); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Mode 计算众数，并列时取字典序最小者
func Mode(values []string) (string, bool) {
	counts := make(map[string]int)
	for _, v := range values {
		if IsNA(v) {
			continue
		}
		counts[v]++
	}
	if len(counts) == 0 {
		return "", false
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best, true
}

// FillNA 用 value 填充缺失值
func FillNA(values []string, value string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if IsNA(v) {
			out[i] = value
		} else {
			out[i] = v
		}
	}
	return out
}

// NormalizeWhitespace 去除首尾空白并把连续空白压缩为一个空格
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseTimestamp 依次尝试多种时间格式
func ParseTimestamp(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || IsNA(s) {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
