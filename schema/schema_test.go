package schema

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

// ============================================================================
// CATALOG
// ============================================================================

func TestDefaultCatalog(t *testing.T) {
	sch := Default()

	assertEqual(t, strings.Join(sch.DimensionKeys(), ","), "entity,code,year", "dimension keys")
	assertEqual(t, strings.Join(sch.MeasureKeys(), ","),
		"richest_1,next_9,middle_40,poorest_50,life_expectancy", "measure keys")

	m, ok := sch.MeasureByKey("poorest_50")
	if !ok {
		t.Fatal("poorest_50 missing from catalog")
	}
	assertEqual(t, m.DisplayName, "Poorest 50%", "display name")
	assertEqual(t, m.Unit, "percent", "unit")

	if _, ok := sch.MeasureByKey("gini"); ok {
		t.Error("unexpected measure gini")
	}
}

func TestAxisLabel(t *testing.T) {
	sch := Default()
	assertEqual(t, sch.AxisLabel("poorest_50"), "Poorest 50% (% of national income)", "poverty label")
	assertEqual(t, sch.AxisLabel("life_expectancy"), "Life Expectancy (years)", "life label")
	assertEqual(t, sch.AxisLabel("some_thing"), "Some Thing", "unknown label")
}

// ============================================================================
// HEADER RESOLUTION
// ============================================================================

func TestResolveExactHeaders(t *testing.T) {
	headers := []string{"Entity", "Code", "Year", "Richest 1%", "Next 9%", "Middle 40%", "Poorest 50%", "Life expectancy"}
	cols, err := Default().Resolve(headers)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	assertEqual(t, strconv.Itoa(cols.Index("year")), "2", "year index")
	assertEqual(t, strconv.Itoa(cols.Index("life_expectancy")), "7", "life index")
	assertEqual(t, strconv.Itoa(cols.Index("nope")), "-1", "unknown index")
}

func TestResolveToleratesCaseOrderAndBOM(t *testing.T) {
	headers := []string{"\ufeffentity", " LIFE EXPECTANCY ", "year", "code", "poorest_50", "middle_40", "next_9", "richest_1", "Extra"}
	cols, err := Default().Resolve(headers)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	assertEqual(t, strconv.Itoa(cols.Index("entity")), "0", "entity index")
	assertEqual(t, strconv.Itoa(cols.Index("life_expectancy")), "1", "life index")
	assertEqual(t, strconv.Itoa(cols.Index("richest_1")), "7", "richest index")
}

func TestResolveReportsEveryMissingColumn(t *testing.T) {
	_, err := Default().Resolve([]string{"Entity", "Code", "Poorest 50%"})
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	for _, col := range []string{"Year", "Richest 1%", "Life expectancy"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("error %q should mention %s", err.Error(), col)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"Richest 1%":      "richest_1",
		"Life expectancy": "life_expectancy",
		"lifeExpectancy":  "life_expectancy",
		"Middle-40%":      "middle_40",
		"Year":            "year",
	}
	for in, want := range cases {
		assertEqual(t, NormalizeKey(in), want, in)
	}
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func assertEqual(t *testing.T, got, want, msg string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %q, want %q", msg, got, want)
	}
}
