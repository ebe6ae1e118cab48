package eda

import (
	"fmt"
	"math"

	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/feature"
	"github.com/rushteam/riskit/frame"
)

// DefaultSkewThreshold 是选择中位数/众数的默认偏度阈值。
const DefaultSkewThreshold = 0.5

// Strategy 是填充方式。
type Strategy string

const (
	StrategyNone   Strategy = "none"   // 没有空值，未处理
	StrategyMedian Strategy = "median" // 近似对称分布，使用中位数
	StrategyMode   Strategy = "mode"   // 偏态分布或非数值列，使用众数
)

// Imputation 记录一列的填充结果。
type Imputation struct {
	Column   string
	Numeric  bool
	Strategy Strategy
	Value    core.Value // 填充值
	Filled   int        // 被填充的单元格数

	// 数值列的分布信息；少于 3 个非空值时 Skewness 为 NaN
	Skewness float64
	Mean     float64
	Median   float64
}

// Impute 按分布填充各列空值：
//   - 没有空值的列不处理
//   - 数值列：|偏度| < threshold 用中位数，否则（包括偏度无定义）用众数
//   - 非数值列：用众数
//
// 全为空值的列无法确定填充值，返回 NO_IMPUTATION_VALUE 错误并停止；
// 之前已处理的列保持填充后的状态，返回值包含已完成的列。
func Impute(t *frame.Table, threshold float64, cols ...string) ([]Imputation, error) {
	out := make([]Imputation, 0, len(cols))
	for _, name := range cols {
		im, err := imputeColumn(t, name, threshold)
		if err != nil {
			return out, err
		}
		out = append(out, im)
	}
	return out, nil
}

func imputeColumn(t *frame.Table, name string, threshold float64) (Imputation, error) {
	col, err := t.MustColumn(name)
	if err != nil {
		return Imputation{}, err
	}
	im := Imputation{Column: name, Strategy: StrategyNone, Numeric: col.IsNumeric()}
	nulls := col.NullCount()
	if nulls == 0 {
		return im, nil
	}

	mode, ok := Mode(col.Values)
	if !ok {
		return im, &core.DomainError{
			Module:  core.ModuleEDA,
			Code:    core.ErrorCodeNoImputationValue,
			Message: fmt.Sprintf("eda: column %q has only null values, nothing to impute from", name),
			Fields:  []string{name},
		}
	}

	if im.Numeric {
		values := col.Floats()
		im.Skewness = feature.Skewness(values)
		im.Mean = feature.Mean(values)
		im.Median = feature.Median(values)
		Logf("[riskit] %s: skewness=%.3f mean=%.3f median=%.3f mode=%s", name, im.Skewness, im.Mean, im.Median, mode.Text())

		// NaN 比较恒为 false，偏度无定义时落入众数分支
		if math.Abs(im.Skewness) < threshold {
			Logf("[riskit] %s: roughly symmetric (|skew| < %g), filling with median", name, threshold)
			im.Strategy, im.Value = StrategyMedian, core.Number(im.Median)
		} else {
			Logf("[riskit] %s: skewed (|skew| >= %g), filling with mode", name, threshold)
			im.Strategy, im.Value = StrategyMode, mode
		}
	} else {
		Logf("[riskit] %s: not numeric, filling with mode %s", name, mode.Text())
		im.Strategy, im.Value = StrategyMode, mode
	}

	for i, v := range col.Values {
		if v.IsNull() {
			col.Values[i] = im.Value
		}
	}
	im.Filled = nulls
	return im, nil
}

// NullReport 是一列的空值统计。
type NullReport struct {
	Column  string
	Nulls   int
	Percent float64
}

// NullColumns 检查给定的若干组列，返回含空值的列（按传入顺序），并逐列输出日志。
func NullColumns(t *frame.Table, groups ...[]string) ([]NullReport, error) {
	var out []NullReport
	rows := t.NumRows()
	for _, group := range groups {
		for _, name := range group {
			col, err := t.MustColumn(name)
			if err != nil {
				return nil, err
			}
			n := col.NullCount()
			if n == 0 {
				Logf("[riskit] column %q has no null values", name)
				continue
			}
			pct := 0.0
			if rows > 0 {
				pct = float64(n) / float64(rows) * 100
			}
			Logf("[riskit] column %q has null values: %d (%.2f%%)", name, n, pct)
			out = append(out, NullReport{Column: name, Nulls: n, Percent: pct})
		}
	}
	return out, nil
}
