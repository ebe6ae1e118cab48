package frame

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rushteam/riskit/core"
)

func TestReadCSV_Inference(t *testing.T) {
	in := "\ufeffSEX , PREMIUM,START_DATE,EMPTY\nF,100,01/02/2020,\nM,NaN,15-Mar-23,\nN/A,250.5,,\n"
	tb, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got := strings.Join(tb.Names(), ","); got != "SEX,PREMIUM,START_DATE,EMPTY" {
		t.Errorf("Names() = %s", got)
	}
	if tb.NumRows() != 3 {
		t.Fatalf("NumRows() = %d", tb.NumRows())
	}
	if got := strings.Join(tb.NumericColumns(), ","); got != "PREMIUM,EMPTY" {
		t.Errorf("NumericColumns() = %s", got)
	}

	tests := []struct {
		col  string
		row  int
		want core.Value
	}{
		{"SEX", 0, core.String("F")},
		{"SEX", 2, core.Null()},
		{"PREMIUM", 0, core.Number(100)},
		{"PREMIUM", 1, core.Null()},
		{"PREMIUM", 2, core.Number(250.5)},
		{"START_DATE", 1, core.String("15-Mar-23")},
		{"START_DATE", 2, core.Null()},
		{"EMPTY", 0, core.Null()},
	}
	for _, tt := range tests {
		c, _ := tb.Column(tt.col)
		if got := c.Values[tt.row]; !got.Equal(tt.want) {
			t.Errorf("%s[%d] = %v, want %v", tt.col, tt.row, got.Interface(), tt.want.Interface())
		}
	}
	c, _ := tb.Column("PREMIUM")
	if c.NullCount() != 1 || len(c.Floats()) != 2 {
		t.Errorf("PREMIUM nulls=%d floats=%v", c.NullCount(), c.Floats())
	}
}

func TestReadCSV_NonFiniteIsText(t *testing.T) {
	in := "PREMIUM,SEATS\n100,2\ninf,0x1p3\n-Infinity,4\n"
	tb, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got := tb.NumericColumns(); len(got) != 0 {
		t.Errorf("NumericColumns() = %v, want none", got)
	}
	c, _ := tb.Column("PREMIUM")
	if got := c.Values[1]; !got.Equal(core.String("inf")) {
		t.Errorf("PREMIUM[1] = %v, want text inf", got.Interface())
	}
	if _, ok := c.Values[1].Float(); ok {
		t.Error("inf must not convert to a number")
	}
}

func TestReadCSV_Errors(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Error("empty input should fail")
	}
	if _, err := ReadCSV(strings.NewReader("A,B\n1,2,3\n")); err == nil {
		t.Error("row longer than header should fail")
	}
	if _, err := ReadCSV(strings.NewReader("A,A\n1,2\n")); err == nil {
		t.Error("duplicate header should fail")
	}
	tb, err := ReadCSV(strings.NewReader("A,B\n1\n"))
	if err != nil {
		t.Fatalf("short row: %v", err)
	}
	if b, _ := tb.Column("B"); !b.Values[0].IsNull() {
		t.Error("missing trailing cell should be null")
	}
}

func TestTable_AppendRecordAndWrite(t *testing.T) {
	tb := New()
	rec := core.NewRecord([]string{"A", "B"}, []core.Value{core.Number(1), core.String("x")})
	if err := tb.AppendRecord(rec); err != nil {
		t.Fatal(err)
	}
	// 字段顺序不同、缺少 B、多出 C
	rec2 := core.NewRecord([]string{"C", "A"}, []core.Value{core.String("ignored"), core.Number(2.5)})
	if err := tb.AppendRecord(rec2); err != nil {
		t.Fatal(err)
	}
	if tb.NumRows() != 2 || len(tb.Names()) != 2 {
		t.Fatalf("table = %d rows %v", tb.NumRows(), tb.Names())
	}

	var buf bytes.Buffer
	if err := tb.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "A,B\n1,x\n2.5,\n"; got != want {
		t.Errorf("WriteCSV() = %q, want %q", got, want)
	}

	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	if err := tb.WriteCSVFile(path); err != nil {
		t.Fatalf("WriteCSVFile() error = %v", err)
	}
	back, err := ReadCSVFile(path)
	if err != nil {
		t.Fatal(err)
	}
	row, _ := back.Row(1)
	if v, _ := row.Get("A"); !v.Equal(core.Number(2.5)) {
		t.Errorf("round trip A = %v", v.Interface())
	}
	if _, err := back.Row(2); err == nil {
		t.Error("Row(2) should be out of range")
	}
}

func TestTable_AddColumn(t *testing.T) {
	tb := New("A")
	if err := tb.AppendRow([]core.Value{core.Number(1)}); err != nil {
		t.Fatal(err)
	}
	if err := tb.AddColumn("B", nil); err != nil {
		t.Fatal(err)
	}
	b, _ := tb.Column("B")
	if len(b.Values) != 1 || !b.Values[0].IsNull() {
		t.Errorf("B = %v", b.Values)
	}
	if err := tb.AddColumn("C", []core.Value{core.Null(), core.Null()}); err == nil {
		t.Error("length mismatch should fail")
	}
	if _, err := tb.MustColumn("missing"); !core.IsNotFound(err) {
		t.Errorf("MustColumn(missing) error = %v", err)
	}
}
