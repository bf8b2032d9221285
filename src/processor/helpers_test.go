package processor

import (
	"reflect"
	"testing"

	"MenuCleaning/src/utils"

	"github.com/go-gota/gota/dataframe"
)

const na = utils.NA

func frame(t *testing.T, header []string, rows ...[]string) dataframe.DataFrame {
	t.Helper()
	df, err := utils.FromRecords(header, rows)
	if err != nil {
		t.Fatal(err)
	}
	return df
}

func assertColumn(t *testing.T, df dataframe.DataFrame, col string, want ...string) {
	t.Helper()
	if got := utils.Strings(df, col); !reflect.DeepEqual(got, want) {
		t.Errorf("%s = %v, want %v", col, got, want)
	}
}
