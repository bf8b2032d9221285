package processor

import (
	"testing"

	"MenuCleaning/src/config"
	"MenuCleaning/src/utils"
)

var menuItemHeader = []string{"id", "menu_page_id", "price", "high_price", "dish_id", "created_at", "updated_at", "xpos"}

func TestNormalizeMenuItem(t *testing.T) {
	df := frame(t, menuItemHeader,
		[]string{" 1 ", "10", " 0.40 ", "abc", "12.0", "2011-03-28 15:00:44 UTC", "garbage", "  a   b "},
		[]string{"2", "10", "3", "4", "x", na, "2011-04-19", "   "},
	)

	out, err := NormalizeMenuItem(df, config.DefaultData().TimestampLayouts)
	if err != nil {
		t.Fatal(err)
	}

	assertColumn(t, out, "id", "1", "2")
	assertColumn(t, out, "menu_page_id", "10", "10")
	assertColumn(t, out, "price", "0.4", "3.0")
	assertColumn(t, out, "high_price", na, "4.0")
	assertColumn(t, out, "dish_id", "12", na)
	assertColumn(t, out, "created_at", "2011-03-28T15:00:44", na)
	assertColumn(t, out, "updated_at", na, "2011-04-19T00:00:00")
	assertColumn(t, out, "xpos", "a b", na)
}

func TestMergeDish(t *testing.T) {
	items := frame(t, []string{"id", "dish_id"},
		[]string{"a", "1"},
		[]string{"b", "2"},
		[]string{"c", na},
		[]string{"d", "3"},
	)
	dish := frame(t, []string{"id", "name", "lowest_price", "highest_price"},
		[]string{"1", "Soup", "4", "10"},
		[]string{"2", "Tea", "1", "5"},
		[]string{"2", "Tea", "2", "6"},
	)

	out, err := MergeDish(items, dish)
	if err != nil {
		t.Fatal(err)
	}

	// MenuItem 自己的 id 保留，Dish 的 name 不会带过来
	if utils.HasColumn(out, "name") {
		t.Error("only the price bounds should be borrowed from Dish")
	}
	assertColumn(t, out, "id", "a", "b", "b", "d")
	assertColumn(t, out, "lowest_price", "4.0", "1.0", "2.0", na)
	assertColumn(t, out, "highest_price", "10.0", "5.0", "6.0", na)
}

func TestImputePrices(t *testing.T) {
	df := frame(t, []string{"price", "high_price", "lowest_price", "highest_price"},
		[]string{na, na, "4", "10"},
		[]string{"5", na, "1", "8"},
		[]string{na, "6", "1", "8"},
		[]string{"3", "4", "1", "8"},
		[]string{na, na, na, "8"},
	)

	out, err := ImputePrices(df)
	if err != nil {
		t.Fatal(err)
	}
	assertColumn(t, out, "price", "7.0", "5.0", "6.0", "3.0", na)
	assertColumn(t, out, "high_price", "10.0", "8.0", "6.0", "4.0", "8.0")
}

func TestFixHighPrice(t *testing.T) {
	df := frame(t, []string{"price", "high_price", "lowest_price", "highest_price"},
		[]string{"15", "10", na, na},
		[]string{"3", "4", na, na},
		[]string{na, "8", na, na},
	)

	out, err := FixHighPrice(df)
	if err != nil {
		t.Fatal(err)
	}
	assertColumn(t, out, "price", "15.0", "3.0", na)
	assertColumn(t, out, "high_price", "15.0", "4.0", "8.0")
}

func TestImputePriceTable(t *testing.T) {
	some := func(v float64) amount { return amount{v: v, ok: true} }
	none := amount{}

	tests := []struct {
		name            string
		price, high     amount
		lowest, highest amount
		wantP, wantH    amount
	}{
		{"both present", some(2), some(3), some(1), some(9), some(2), some(3)},
		{"price only", some(2), none, some(1), some(9), some(2), some(9)},
		{"high only", none, some(3), some(1), some(9), some(3), some(3)},
		{"neither", none, none, some(1), some(9), some(5), some(9)},
		{"neither without dish", none, none, none, none, none, none},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, h := imputePrice(tt.price, tt.high, tt.lowest, tt.highest)
			if p != tt.wantP || h != tt.wantH {
				t.Errorf("got (%v, %v), want (%v, %v)", p, h, tt.wantP, tt.wantH)
			}
		})
	}
}

func TestCleanMenuItem(t *testing.T) {
	items := frame(t, menuItemHeader,
		[]string{"1", "10", na, na, "1", na, na, "0.1"},
		[]string{"2", "10", "15", "10", "1", na, na, "0.1"},
		[]string{"3", "10", "2", na, na, na, na, "0.1"},
		[]string{"2", "10", "15", "10", "1.0", na, na, "0.1"},
	)
	dish := frame(t, []string{"id", "lowest_price", "highest_price"},
		[]string{"1", "4", "10"},
	)

	out, err := CleanMenuItem(items, dish, config.DefaultData().TimestampLayouts)
	if err != nil {
		t.Fatal(err)
	}

	if utils.HasColumn(out, "lowest_price") || utils.HasColumn(out, "highest_price") {
		t.Errorf("borrowed columns not dropped: %v", out.Names())
	}
	assertColumn(t, out, "id", "1", "2")
	assertColumn(t, out, "price", "7.0", "15.0")
	assertColumn(t, out, "high_price", "10.0", "15.0")

	prices, _ := utils.Numbers(utils.Strings(out, "price"))
	highs, _ := utils.Numbers(utils.Strings(out, "high_price"))
	for i := range prices {
		if prices[i] > highs[i] {
			t.Errorf("row %d: price %v > high_price %v", i, prices[i], highs[i])
		}
	}
}
