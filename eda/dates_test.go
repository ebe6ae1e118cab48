package eda

import (
	"testing"
	"time"

	"github.com/rushteam/riskit/core"
)

func TestConvertDates(t *testing.T) {
	tb := table(t, map[string][]core.Value{
		"START_DATE": nums("15-Mar-23", "15/03/2023", "garbage", nil, "1 enero 2024"),
	}, "START_DATE")

	got, err := ConvertDates(tb, "START_DATE")
	if err != nil {
		t.Fatalf("ConvertDates() error = %v", err)
	}
	if got[0].Parsed != 3 || got[0].Nulls != 2 {
		t.Errorf("ConvertDates() = %+v", got[0])
	}
	col, _ := tb.Column("START_DATE")
	want := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, i := range []int{0, 1} {
		if tm, ok := col.Values[i].TimeValue(); !ok || !tm.Equal(want) {
			t.Errorf("row %d = %v, want %v", i, tm, want)
		}
	}
	if !col.Values[2].IsNull() {
		t.Error("unparseable date not nulled")
	}

	// 已转换的列再次转换不变
	again, err := ConvertDates(tb, "START_DATE")
	if err != nil || again[0].Parsed != 3 {
		t.Errorf("second ConvertDates() = %+v, %v", again, err)
	}
}

func TestSummarizeDates(t *testing.T) {
	tb := table(t, map[string][]core.Value{
		"D":    nums("01/01/2023", "11/01/2023", "bad", "01/01/2023"),
		"NONE": nums(nil, "x", nil, nil),
	}, "D", "NONE")

	got, err := SummarizeDates(tb, "D", "NONE")
	if err != nil {
		t.Fatal(err)
	}
	d := got[0]
	if !d.HasRange || d.RangeDays != 10 || d.Nulls != 1 || d.Unique != 2 {
		t.Errorf("D summary = %+v", d)
	}
	if n := got[1]; n.HasRange || n.Nulls != 4 || n.Unique != 0 {
		t.Errorf("NONE summary = %+v", n)
	}
}

func TestDateCounts(t *testing.T) {
	tb := table(t, map[string][]core.Value{
		"D": nums("01/01/2023", "15/01/2023", "01/02/2023", "01/01/2022", "bad"),
	}, "D")

	got, err := DateCounts(tb, "D", FreqMonth)
	if err != nil {
		t.Fatal(err)
	}
	want := []PeriodCount{{"2022-01", 1}, {"2023-01", 2}, {"2023-02", 1}}
	if len(got) != len(want) {
		t.Fatalf("DateCounts() = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DateCounts()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
