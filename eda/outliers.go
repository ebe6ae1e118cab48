package eda

import (
	"math"
	"sort"

	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/feature"
	"github.com/rushteam/riskit/frame"
)

// IQRMultiplier 是 Tukey 围栏系数。
const IQRMultiplier = 1.5

// Bounds 是 IQR 方法的异常值边界。
type Bounds struct {
	Q1, Q3 float64
	IQR    float64
	Lower  float64 // Q1 - 1.5*IQR
	Upper  float64 // Q3 + 1.5*IQR
}

// IQRBounds 计算四分位数（线性插值）与异常值边界；空输入时各项为 NaN。
func IQRBounds(values []float64) Bounds {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return boundsSorted(sorted)
}

func boundsSorted(sorted []float64) Bounds {
	q1 := feature.Percentile(sorted, 0.25)
	q3 := feature.Percentile(sorted, 0.75)
	iqr := q3 - q1
	return Bounds{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - IQRMultiplier*iqr,
		Upper: q3 + IQRMultiplier*iqr,
	}
}

// IsOutlier 判断值是否落在边界之外。
func (b Bounds) IsOutlier(v float64) bool {
	return v < b.Lower || v > b.Upper
}

// BoxSummary 是箱线图所需的数据：五数概括与须线端点（边界内的最值）。
type BoxSummary struct {
	Min, Q1, Median, Q3, Max float64
	WhiskerLow, WhiskerHigh  float64
}

// Outlier 是一个异常值及其行号。
type Outlier struct {
	Row   int
	Value float64
}

// OutlierReport 是一列的异常值报告。
type OutlierReport struct {
	Column   string
	Count    int // 非空值个数
	Bounds   Bounds
	Box      BoxSummary
	Outliers []Outlier // 两侧的异常值，按行号排列
}

// ListOutliers 对每个数值列用 IQR 方法找出异常值（忽略空值），不修改数据。
func ListOutliers(t *frame.Table, cols ...string) ([]OutlierReport, error) {
	out := make([]OutlierReport, 0, len(cols))
	for _, name := range cols {
		col, err := numericColumn(t, name)
		if err != nil {
			return nil, err
		}
		values := col.Floats()
		sorted := make([]float64, len(values))
		copy(sorted, values)
		sort.Float64s(sorted)

		rep := OutlierReport{Column: name, Count: len(values), Bounds: boundsSorted(sorted)}
		rep.Box = boxSummary(sorted, rep.Bounds)
		for i, v := range col.Values {
			f, ok := v.Float()
			if !ok || v.IsNull() {
				continue
			}
			if rep.Bounds.IsOutlier(f) {
				rep.Outliers = append(rep.Outliers, Outlier{Row: i, Value: f})
			}
		}
		Logf("[riskit] %s: n outliers=%d (lower=%.3f upper=%.3f)", name, len(rep.Outliers), rep.Bounds.Lower, rep.Bounds.Upper)
		out = append(out, rep)
	}
	return out, nil
}

func boxSummary(sorted []float64, b Bounds) BoxSummary {
	if len(sorted) == 0 {
		nan := math.NaN()
		return BoxSummary{nan, nan, nan, nan, nan, nan, nan}
	}
	s := BoxSummary{
		Min:         sorted[0],
		Q1:          b.Q1,
		Median:      feature.Percentile(sorted, 0.5),
		Q3:          b.Q3,
		Max:         sorted[len(sorted)-1],
		WhiskerLow:  math.NaN(),
		WhiskerHigh: math.NaN(),
	}
	for _, v := range sorted {
		if v >= b.Lower {
			s.WhiskerLow = v
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= b.Upper {
			s.WhiskerHigh = sorted[i]
			break
		}
	}
	return s
}

// CapUpper 把高于上边界 (Q3 + 1.5*IQR) 的值替换为该列中位数，返回替换个数。
// 中位数与四分位数在替换前计算；空值不变。
func CapUpper(t *frame.Table, name string) (int, error) {
	col, err := numericColumn(t, name)
	if err != nil {
		return 0, err
	}
	values := col.Floats()
	if len(values) == 0 {
		return 0, nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	median := feature.Percentile(sorted, 0.5)
	upper := boundsSorted(sorted).Upper

	capped := 0
	for i, v := range col.Values {
		f, ok := v.Float()
		if !ok || v.IsNull() {
			continue
		}
		if f > upper {
			col.Values[i] = core.Number(median)
			capped++
		}
	}
	return capped, nil
}
