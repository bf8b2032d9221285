package processor

import (
	"fmt"
	"path/filepath"

	"MenuCleaning/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// IntegrityResult 单次引用完整性检查的结果
type IntegrityResult struct {
	MenuItem dataframe.DataFrame
	MenuPage dataframe.DataFrame

	InvalidDish dataframe.DataFrame // dish_id 不在 Dish.id 中的 MenuItem 行
	InvalidPage dataframe.DataFrame // menu_page_id 不在 MenuPage.id 中的 MenuItem 行
	InvalidMenu dataframe.DataFrame // menu_id 不在 Menu.id 中的 MenuPage 行
}

// keySet 可解析为数值的主键集合
func keySet(df dataframe.DataFrame, col string) map[float64]struct{} {
	set := make(map[float64]struct{}, df.Nrow())
	for _, v := range utils.Strings(df, col) {
		if k, ok := utils.ParseNumber(v); ok {
			set[k] = struct{}{}
		}
	}
	return set
}

// splitByKey 按外键是否存在于 keys 把行分成有效和无效两部分，缺失的外键永远无效
func splitByKey(df dataframe.DataFrame, col string, keys map[float64]struct{}) (valid, invalid dataframe.DataFrame, err error) {
	inKeys := func(el series.Element) bool {
		k, ok := utils.ParseNumber(el.String())
		if !ok {
			return false
		}
		_, found := keys[k]
		return found
	}

	valid = df.Filter(dataframe.F{Colname: col, Comparator: series.CompFunc, Comparando: inKeys})
	if valid.Err != nil {
		return valid, invalid, fmt.Errorf("filter %s: %w", col, valid.Err)
	}
	invalid = df.Filter(dataframe.F{
		Colname:    col,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool { return !inKeys(el) },
	})
	if invalid.Err != nil {
		return valid, invalid, fmt.Errorf("filter %s: %w", col, invalid.Err)
	}
	return valid, invalid, nil
}

// CheckReferentialIntegrity 单次检查三条外键关系
//  1. MenuItem.dish_id -> Dish.id
//  2. MenuItem.menu_page_id -> MenuPage.id
//  3. MenuPage.menu_id -> Menu.id
//
// 所有检查都使用过滤前的父表，不迭代到不动点。Dish 和 Menu 不会被过滤。
func CheckReferentialIntegrity(item, dish, page, menu dataframe.DataFrame) (IntegrityResult, error) {
	var res IntegrityResult

	if err := utils.RequireColumns(item, "MenuItem", "dish_id", "menu_page_id"); err != nil {
		return res, err
	}
	if err := utils.RequireColumns(dish, "Dish", "id"); err != nil {
		return res, err
	}
	if err := utils.RequireColumns(page, "MenuPage", "id", "menu_id"); err != nil {
		return res, err
	}
	if err := utils.RequireColumns(menu, "Menu", "id"); err != nil {
		return res, err
	}

	// 1. 键列统一转为数值，无法解析的置为缺失
	var err error
	for _, col := range []string{"dish_id", "menu_page_id"} {
		if item, err = utils.CoerceColumn(item, col, utils.FormatKey); err != nil {
			return res, err
		}
	}
	for _, col := range []string{"id", "menu_id"} {
		if page, err = utils.CoerceColumn(page, col, utils.FormatKey); err != nil {
			return res, err
		}
	}

	dishKeys := keySet(dish, "id")
	pageKeys := keySet(page, "id")
	menuKeys := keySet(menu, "id")

	// 2. MenuItem -> Dish
	if item, res.InvalidDish, err = splitByKey(item, "dish_id", dishKeys); err != nil {
		return res, err
	}

	// 3. MenuItem -> MenuPage，使用过滤前的 MenuPage
	if item, res.InvalidPage, err = splitByKey(item, "menu_page_id", pageKeys); err != nil {
		return res, err
	}

	// 4. MenuPage -> Menu
	if page, res.InvalidMenu, err = splitByKey(page, "menu_id", menuKeys); err != nil {
		return res, err
	}

	res.MenuItem = item
	res.MenuPage = page
	return res, nil
}

// RunIntegrityChecks 读取四个清洗结果，打印并删除违反外键约束的行，写出 MenuItem 和 MenuPage
func (p *DataProcessor) RunIntegrityChecks() error {
	item, err := p.loadOutput(CleanedMenuItem)
	if err != nil {
		return err
	}
	dish, err := p.loadOutput(CleanedDish)
	if err != nil {
		return err
	}
	page, err := p.loadOutput(CleanedMenuPage)
	if err != nil {
		return err
	}
	menu, err := p.loadOutput(CleanedMenu)
	if err != nil {
		return err
	}

	res, err := CheckReferentialIntegrity(item, dish, page, menu)
	if err != nil {
		return fmt.Errorf("referential integrity: %w", err)
	}

	p.reportInvalid("Removing invalid dish_id in MenuItem:", res.InvalidDish)
	p.reportInvalid("Removing invalid page_id in MenuItem:", res.InvalidPage)
	p.reportInvalid("Removing invalid menu_id in MenuPage:", res.InvalidMenu)

	p.logger.Info("Saving cleaned dataframes back to their respective files...\n")

	itemPath := filepath.Join(p.cfg.IntegrityDirs.MenuItem, CleanedMenuItem)
	if err := p.save(res.MenuItem, itemPath); err != nil {
		return err
	}
	pagePath := filepath.Join(p.cfg.IntegrityDirs.MenuPage, CleanedMenuPage)
	return p.save(res.MenuPage, pagePath)
}

func (p *DataProcessor) reportInvalid(title string, invalid dataframe.DataFrame) {
	if invalid.Nrow() > 0 {
		p.logger.Info(title)
		p.logger.Info(invalid.String())
	}
	p.logger.Println()
}
