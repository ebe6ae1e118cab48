package eda

import (
	"fmt"
	"math"
	"sort"

	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/feature"
	"github.com/rushteam/riskit/frame"
)

// ColumnStats 是数值列的描述统计，保留 3 位小数。
// Range 与 IQR 由舍入后的值计算。
type ColumnStats struct {
	Column string
	Count  int
	Mean   float64
	Median float64
	Mode   float64
	Std    float64 // 样本标准差（ddof=1）
	Min    float64
	P25    float64
	P50    float64
	P75    float64
	Max    float64
	Range  float64
	IQR    float64
}

// Describe 对表中每个数值列计算描述统计（按列顺序）。
func Describe(t *frame.Table) []ColumnStats {
	names := t.NumericColumns()
	out := make([]ColumnStats, 0, len(names))
	for _, name := range names {
		col, _ := t.Column(name)
		out = append(out, describeColumn(col))
	}
	return out
}

func describeColumn(col *frame.Column) ColumnStats {
	values := col.Floats()
	nan := math.NaN()
	s := ColumnStats{
		Column: col.Name,
		Count:  len(values),
		Mean:   nan, Median: nan, Mode: nan, Std: nan,
		Min: nan, P25: nan, P50: nan, P75: nan, Max: nan,
	}
	if len(values) > 0 {
		st := feature.ComputeStatistics(values)
		s.Mean, s.Median, s.Std = st.Mean, st.Median, st.Std
		s.Min, s.P25, s.P50, s.P75, s.Max = st.Min, st.P25, st.Median, st.P75, st.Max
		if m, ok := Mode(col.Values); ok {
			s.Mode, _ = m.Float()
		}
	}

	r := func(v float64) float64 { return feature.Round(v, 3) }
	s.Mean, s.Median, s.Mode, s.Std = r(s.Mean), r(s.Median), r(s.Mode), r(s.Std)
	s.Min, s.P25, s.P50, s.P75, s.Max = r(s.Min), r(s.P25), r(s.P50), r(s.P75), r(s.Max)
	s.Range = s.Max - s.Min
	s.IQR = s.P75 - s.P25
	return s
}

// Metric 返回指定指标的值：mean / median / mode / std / min / max / range / iqr。
func (s ColumnStats) Metric(name string) (float64, error) {
	switch name {
	case "mean":
		return s.Mean, nil
	case "median":
		return s.Median, nil
	case "mode":
		return s.Mode, nil
	case "std":
		return s.Std, nil
	case "min":
		return s.Min, nil
	case "max":
		return s.Max, nil
	case "range":
		return s.Range, nil
	case "iqr":
		return s.IQR, nil
	default:
		return 0, core.NewDomainError(core.ModuleEDA, core.ErrorCodeNotSupported, fmt.Sprintf("eda: unknown metric %q", name))
	}
}

// TopBy 按指标降序返回前 n 个列（NaN 排在最后，相同值保持原顺序）。
// 用于找出离散程度最大的“主要”数值变量。
func TopBy(stats []ColumnStats, metric string, n int) ([]ColumnStats, error) {
	type keyed struct {
		s ColumnStats
		v float64
	}
	ks := make([]keyed, len(stats))
	for i, s := range stats {
		v, err := s.Metric(metric)
		if err != nil {
			return nil, err
		}
		ks[i] = keyed{s, v}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		a, b := ks[i].v, ks[j].v
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		return a > b
	})
	if n > len(ks) || n < 0 {
		n = len(ks)
	}
	out := make([]ColumnStats, n)
	for i := range out {
		out[i] = ks[i].s
	}
	return out, nil
}

// ValueCount 是一个类别值的出现次数。
type ValueCount struct {
	Value core.Value
	Count int
}

// ValueCounts 统计列中各值的出现次数（包括空值），按次数降序，次数相同按值升序。
func ValueCounts(t *frame.Table, name string) ([]ValueCount, error) {
	col, err := t.MustColumn(name)
	if err != nil {
		return nil, err
	}
	var out []ValueCount
	nulls := 0
	for _, v := range col.Values {
		if v.IsNull() {
			nulls++
			continue
		}
		found := false
		for i := range out {
			if out[i].Value.Equal(v) {
				out[i].Count++
				found = true
				break
			}
		}
		if !found {
			out = append(out, ValueCount{Value: v, Count: 1})
		}
	}
	if nulls > 0 {
		out = append(out, ValueCount{Value: core.Null(), Count: nulls})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value.Less(out[j].Value)
	})
	return out, nil
}
