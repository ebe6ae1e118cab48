package eda

import (
	"math"
	"testing"

	"github.com/rushteam/riskit/core"
)

func TestDescribe(t *testing.T) {
	tb := table(t, map[string][]core.Value{
		"PREMIUM": nums(1, 2, 2, 3, 7),
		"MAKE":    nums("a", "b", "c", "d", "e"),
		"SEATS":   nums(4, 4, 4, 4, nil),
	}, "PREMIUM", "MAKE", "SEATS")

	stats := Describe(tb)
	if len(stats) != 2 || stats[0].Column != "PREMIUM" || stats[1].Column != "SEATS" {
		t.Fatalf("Describe() columns = %+v", stats)
	}
	p := stats[0]
	if p.Mean != 3 || p.Median != 2 || p.Mode != 2 || p.Std != 2.345 {
		t.Errorf("PREMIUM center/spread = %+v", p)
	}
	if p.Min != 1 || p.P25 != 2 || p.P50 != 2 || p.P75 != 3 || p.Max != 7 || p.Range != 6 || p.IQR != 1 {
		t.Errorf("PREMIUM quantiles = %+v", p)
	}
	if s := stats[1]; s.Count != 4 || s.Std != 0 || s.Range != 0 {
		t.Errorf("SEATS = %+v", s)
	}
}

func TestTopBy(t *testing.T) {
	stats := []ColumnStats{
		{Column: "A", Std: 1, Range: 10},
		{Column: "B", Std: math.NaN(), Range: 5},
		{Column: "C", Std: 3, Range: 1},
		{Column: "D", Std: 2, Range: 20},
	}

	top, err := TopBy(stats, "std", 3)
	if err != nil {
		t.Fatal(err)
	}
	if top[0].Column != "C" || top[1].Column != "D" || top[2].Column != "A" {
		t.Errorf("TopBy(std) = %v %v %v", top[0].Column, top[1].Column, top[2].Column)
	}

	top, err = TopBy(stats, "range", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 4 || top[0].Column != "D" || top[3].Column != "C" {
		t.Errorf("TopBy(range) = %+v", top)
	}

	if _, err := TopBy(stats, "kurtosis", 1); err == nil {
		t.Error("TopBy(unknown) error = nil")
	}
}

func TestValueCounts(t *testing.T) {
	tb := table(t, map[string][]core.Value{
		"USAGE": nums("CARGA", "PARTICULAR", "CARGA", nil, "PUBLICO", "PARTICULAR", "CARGA"),
	}, "USAGE")
	got, err := ValueCounts(tb, "USAGE")
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		text  string
		count int
	}{{"CARGA", 3}, {"PARTICULAR", 2}, {"", 1}, {"PUBLICO", 1}}
	if len(got) != len(want) {
		t.Fatalf("ValueCounts() = %+v", got)
	}
	for i, w := range want {
		if got[i].Value.Text() != w.text || got[i].Count != w.count {
			t.Errorf("ValueCounts()[%d] = %q:%d, want %q:%d", i, got[i].Value.Text(), got[i].Count, w.text, w.count)
		}
	}
}
