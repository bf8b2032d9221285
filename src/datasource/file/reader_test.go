package file

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"MenuCleaning/src/utils"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReadCSVMissingTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refined_Dish.csv")
	writeFile(t, path, []byte("\xEF\xBB\xBFid,name,lowest_price\n1,Soup,0.2\n2,,NA\n3,Tea\n"))

	df, err := ReadCSV(path, "utf-8")
	if err != nil {
		t.Fatal(err)
	}

	if got := df.Names(); !reflect.DeepEqual(got, []string{"id", "name", "lowest_price"}) {
		t.Fatalf("names = %v", got)
	}
	if df.Nrow() != 3 {
		t.Fatalf("Nrow = %d", df.Nrow())
	}
	if !df.Col("name").Elem(1).IsNA() || !df.Col("lowest_price").Elem(1).IsNA() {
		t.Errorf("empty field and NA should be missing")
	}
	// 字段不足的行补为缺失
	if !df.Col("lowest_price").Elem(2).IsNA() {
		t.Errorf("short row should be padded with missing values")
	}
	if got := df.Col("lowest_price").Elem(0).String(); got != "0.2" {
		t.Errorf("lowest_price = %q", got)
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refined_MenuPage.csv")
	writeFile(t, path, []byte("id,menu_id,page_number\n"))

	df, err := ReadCSV(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if df.Nrow() != 0 || df.Ncol() != 3 {
		t.Errorf("dims = %dx%d", df.Nrow(), df.Ncol())
	}
}

func TestReadCSVErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadCSV(filepath.Join(dir, "missing.csv"), ""); err == nil {
		t.Error("expected error for missing file")
	}

	long := filepath.Join(dir, "long.csv")
	writeFile(t, long, []byte("id,name\n1,a,extra\n"))
	if _, err := ReadCSV(long, ""); err == nil {
		t.Error("expected error for row wider than header")
	}

	empty := filepath.Join(dir, "empty.csv")
	writeFile(t, empty, nil)
	if _, err := ReadCSV(empty, ""); err == nil {
		t.Error("expected error for file without header")
	}

	if _, err := ReadCSV(long, "ebcdic"); err == nil {
		t.Error("expected error for unsupported encoding")
	}
}

func TestReadCSVGBK(t *testing.T) {
	encoded, err := simplifiedchinese.GBK.NewEncoder().String("id,name\n1,清汤\n")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "gbk.csv")
	writeFile(t, path, []byte(encoded))

	df, err := ReadCSV(path, "gbk")
	if err != nil {
		t.Fatal(err)
	}
	if got := df.Col("name").Elem(0).String(); got != "清汤" {
		t.Errorf("name = %q", got)
	}
}

func TestSaveToCSV(t *testing.T) {
	df, err := utils.FromRecords(
		[]string{"id", "note"},
		[][]string{{"1", utils.NA}, {"2", "a, b"}},
	)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "output", "cleaned.csv")
	if err := SaveToCSV(df, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "id,note\n1,\n2,\"a, b\"\n"
	if string(data) != want {
		t.Errorf("csv = %q, want %q", data, want)
	}

	// 写回后再读取应得到同样的缺失值
	back, err := ReadTable(path, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if !back.Col("note").Elem(0).IsNA() {
		t.Error("missing value not preserved")
	}
}

func TestRemoveExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned_Menu.csv")

	removed, err := RemoveExisting(path)
	if err != nil || removed {
		t.Fatalf("removed=%v err=%v for absent file", removed, err)
	}

	writeFile(t, path, []byte("x"))
	removed, err = RemoveExisting(path)
	if err != nil || !removed {
		t.Fatalf("removed=%v err=%v", removed, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists")
	}
}

func TestExcelRoundTrip(t *testing.T) {
	df, err := utils.FromRecords(
		[]string{"dish_id", "name", "avg_price"},
		[][]string{{"1", "Consomme", "0.35"}, {"2", "Coffee", utils.NA}},
	)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "trends.xlsx")
	if err := SaveToExcel(df, path, "trends"); err != nil {
		t.Fatal(err)
	}

	back, err := ReadTable(path, "", "trends")
	if err != nil {
		t.Fatal(err)
	}
	if got := back.Names(); !reflect.DeepEqual(got, []string{"dish_id", "name", "avg_price"}) {
		t.Fatalf("names = %v", got)
	}
	if back.Nrow() != 2 {
		t.Fatalf("Nrow = %d", back.Nrow())
	}
	if got := back.Col("name").Elem(1).String(); got != "Coffee" {
		t.Errorf("name = %q", got)
	}
	if v, ok := utils.ParseNumber(back.Col("avg_price").Elem(0).String()); !ok || v != 0.35 {
		t.Errorf("avg_price = %v", back.Col("avg_price").Elem(0))
	}
	if !back.Col("avg_price").Elem(1).IsNA() {
		t.Error("missing cell should read back as missing")
	}

	if _, err := ReadXLSX(path, "nope"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected sheet not found error, got %v", err)
	}
}
