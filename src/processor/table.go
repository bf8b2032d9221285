package processor

import (
	"strings"
	"unicode/utf8"

	"MenuCleaning/src/utils"

	"github.com/go-gota/gota/dataframe"
)

// FormatTable 把DataFrame渲染为带边框的定宽文本表
//
//	=====================
//	|       title       |
//	=====================
//	col_a | col_b
//	------+------
//	...
//	=====================
func FormatTable(df dataframe.DataFrame, title string) string {
	names := df.Names()
	rows := utils.Rows(df)

	// 列宽取表头和内容的最大宽度
	widths := make([]int, len(names))
	for c, name := range names {
		widths[c] = utf8.RuneCountInString(name)
	}
	for _, row := range rows {
		for c, v := range row {
			if w := utf8.RuneCountInString(cellText(v)); w > widths[c] {
				widths[c] = w
			}
		}
	}

	total := len(widths)*3 - 1
	for _, w := range widths {
		total += w
	}

	lines := make([]string, 0, len(rows)+6)
	rule := strings.Repeat("=", total)
	lines = append(lines, rule, "| "+center(title, total-4)+" |", rule)

	lines = append(lines, joinPadded(names, widths))
	dashes := make([]string, len(widths))
	for c, w := range widths {
		dashes[c] = strings.Repeat("-", w)
	}
	lines = append(lines, strings.Join(dashes, "-+-"))

	for _, row := range rows {
		cells := make([]string, len(row))
		for c, v := range row {
			cells[c] = cellText(v)
		}
		lines = append(lines, joinPadded(cells, widths))
	}
	lines = append(lines, rule)

	return strings.Join(lines, "\n")
}

func cellText(v string) string {
	if utils.IsNA(v) {
		return "nan"
	}
	return v
}

func joinPadded(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for c, s := range cells {
		padded[c] = padRight(s, widths[c])
	}
	return strings.Join(padded, " | ")
}

func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// center 居中，奇数余量的分配方式与 Python str.center 相同
func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if width <= n {
		return s
	}
	marg := width - n
	left := marg/2 + (marg & width & 1)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", marg-left)
}
