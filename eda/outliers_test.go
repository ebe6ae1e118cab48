package eda

import (
	"math"
	"testing"

	"github.com/rushteam/riskit/core"
)

func TestIQRBounds(t *testing.T) {
	b := IQRBounds([]float64{100, 1, 2, 3, 4, 5, -50})
	if b.Q1 != 1.5 || b.Q3 != 4.5 || b.IQR != 3 || b.Lower != -3 || b.Upper != 9 {
		t.Errorf("IQRBounds() = %+v", b)
	}
	if !math.IsNaN(IQRBounds(nil).Upper) {
		t.Error("IQRBounds(nil) upper is not NaN")
	}
}

func TestListOutliers(t *testing.T) {
	quiet(t)
	tb := table(t, map[string][]core.Value{
		"CLAIM_PAID": nums(-50, 1, 2, 3, 4, 5, 100, nil),
		"MAKE":       nums("a", "b", "c", "d", "e", "f", "g", "h"),
	}, "CLAIM_PAID", "MAKE")

	reps, err := ListOutliers(tb, "CLAIM_PAID")
	if err != nil {
		t.Fatalf("ListOutliers() error = %v", err)
	}
	rep := reps[0]
	if rep.Count != 7 || len(rep.Outliers) != 2 {
		t.Fatalf("report = %+v", rep)
	}
	if rep.Outliers[0] != (Outlier{Row: 0, Value: -50}) || rep.Outliers[1] != (Outlier{Row: 6, Value: 100}) {
		t.Errorf("Outliers = %+v", rep.Outliers)
	}
	if rep.Box.Median != 3 || rep.Box.WhiskerLow != 1 || rep.Box.WhiskerHigh != 5 || rep.Box.Min != -50 || rep.Box.Max != 100 {
		t.Errorf("Box = %+v", rep.Box)
	}

	if _, err := ListOutliers(tb, "MAKE"); err == nil {
		t.Error("ListOutliers(non numeric) error = nil")
	}
}

func TestCapUpper(t *testing.T) {
	tb := table(t, map[string][]core.Value{
		"PREMIUM": nums(1, 2, 3, 4, 5, 100, nil),
	}, "PREMIUM")

	n, err := CapUpper(tb, "PREMIUM")
	if err != nil {
		t.Fatalf("CapUpper() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CapUpper() = %d, want 1", n)
	}

	const median, upper = 3.5, 8.5
	col, _ := tb.Column("PREMIUM")
	if got, _ := col.Values[5].Float(); got != median {
		t.Errorf("capped value = %v, want median %v", got, median)
	}
	if !col.Values[6].IsNull() {
		t.Error("null value modified")
	}
	for _, f := range col.Floats() {
		if f > math.Max(median, upper) {
			t.Errorf("value %v above max(median, upper)", f)
		}
	}
}

func TestCapUpper_NothingAbove(t *testing.T) {
	tb := table(t, map[string][]core.Value{"A": nums(1, 2, 3)}, "A")
	n, err := CapUpper(tb, "A")
	if err != nil || n != 0 {
		t.Errorf("CapUpper() = %d, %v", n, err)
	}
}
