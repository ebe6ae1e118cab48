package conv

import (
	"reflect"
	"testing"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{3, 3, true},
		{int64(4), 4, true},
		{3.0, 3, true},
		{3.5, 0, false},
		{"3", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToInt(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ToInt(%v) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{1, 1, true},
		{float32(0.5), 0.5, true},
		{true, 1, true},
		{" 2.25 ", 2.25, true},
		{"abc", 0, false},
		{[]int{1}, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToFloat64(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ToFloat64(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestConfigGetters(t *testing.T) {
	cfg := map[string]any{
		"path":    "kmeans.json",
		"timeout": 5.0,
		"ratio":   1,
		"fields":  []any{"SEX", 3},
		"ids":     []any{3, 4.0},
		"bad_ids": []any{3, "x"},
		"sets":    map[string]any{"Very High": []any{3}},
	}
	if got := ConfigGet(cfg, "path", ""); got != "kmeans.json" {
		t.Errorf("ConfigGet(path) = %q", got)
	}
	if got := ConfigGet(cfg, "timeout", "x"); got != "x" {
		t.Errorf("ConfigGet with wrong type = %q, want default", got)
	}
	if got := ConfigGetInt64(cfg, "timeout", 1); got != 5 {
		t.Errorf("ConfigGetInt64(timeout) = %d", got)
	}
	if got := ConfigGetFloat64(cfg, "ratio", 0); got != 1 {
		t.Errorf("ConfigGetFloat64(ratio) = %v", got)
	}
	if got := ConfigGetStrings(cfg, "fields"); !reflect.DeepEqual(got, []string{"SEX", "3"}) {
		t.Errorf("ConfigGetStrings(fields) = %v", got)
	}
	if got, err := SliceAnyToInt(cfg["ids"]); err != nil || !reflect.DeepEqual(got, []int{3, 4}) {
		t.Errorf("SliceAnyToInt(ids) = %v, %v", got, err)
	}
	if _, err := SliceAnyToInt(cfg["bad_ids"]); err == nil {
		t.Error("SliceAnyToInt(bad_ids) should fail")
	}
	if m := ConfigGetMap(cfg, "sets"); len(m) != 1 {
		t.Errorf("ConfigGetMap(sets) = %v", m)
	}
	if ConfigGetMap(nil, "sets") != nil {
		t.Error("ConfigGetMap(nil) should be nil")
	}
}
