package feature

import (
	"fmt"
	"math"

	"github.com/rushteam/riskit/core"
)

// Scaler 是单列数值缩放。参数在拟合时确定，之后只读。
type Scaler interface {
	// Name 返回缩放方式（zscore / minmax / robust / log / sqrt）
	Name() string
	Scale(value float64) float64
}

// ZScoreScaler z = (x - μ) / σ；σ 为 0 时只做中心化。
type ZScoreScaler struct {
	Mean float64
	Std  float64
}

func (s ZScoreScaler) Name() string { return "zscore" }

func (s ZScoreScaler) Scale(v float64) float64 {
	if s.Std > 0 {
		return (v - s.Mean) / s.Std
	}
	return v - s.Mean
}

// MinMaxScaler x' = (x - min) / (max - min)，训练区间外的值不截断。
type MinMaxScaler struct {
	Min float64
	Max float64
}

func (s MinMaxScaler) Name() string { return "minmax" }

func (s MinMaxScaler) Scale(v float64) float64 {
	if r := s.Max - s.Min; r > 0 {
		return (v - s.Min) / r
	}
	return v - s.Min
}

// RobustScaler x' = (x - median) / IQR，对异常值不敏感。
type RobustScaler struct {
	Median float64
	IQR    float64
}

func (s RobustScaler) Name() string { return "robust" }

func (s RobustScaler) Scale(v float64) float64 {
	if s.IQR > 0 {
		return (v - s.Median) / s.IQR
	}
	return v - s.Median
}

// LogScaler x' = log(1 + x)，用于保额、保费这类长尾列；负值记为 0。
type LogScaler struct{}

func (LogScaler) Name() string { return "log" }

func (LogScaler) Scale(v float64) float64 {
	if v < 0 {
		return 0
	}
	return math.Log1p(v)
}

// SqrtScaler x' = sqrt(x)；负值记为 0。
type SqrtScaler struct{}

func (SqrtScaler) Name() string { return "sqrt" }

func (SqrtScaler) Scale(v float64) float64 {
	if v < 0 {
		return 0
	}
	return math.Sqrt(v)
}

// newScaler 按列描述构建缩放器；Scaler 为空表示原样输出，返回 nil。
func newScaler(c ColumnSpec) (Scaler, error) {
	switch c.Scaler {
	case "":
		return nil, nil
	case "zscore":
		return ZScoreScaler{Mean: c.Mean, Std: c.Std}, nil
	case "minmax":
		return MinMaxScaler{Min: c.Min, Max: c.Max}, nil
	case "robust":
		return RobustScaler{Median: c.Median, IQR: c.IQR}, nil
	case "log":
		return LogScaler{}, nil
	case "sqrt":
		return SqrtScaler{}, nil
	default:
		return nil, invalidArtifact("column %q: unknown scaler %q", c.Name, c.Scaler)
	}
}

// FitScaler 用样本拟合指定方式的缩放器（zscore 使用样本标准差）。
func FitScaler(name string, values []float64) (Scaler, error) {
	if len(values) == 0 {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
			fmt.Sprintf("fit %s scaler: no values", name))
	}
	st := ComputeStatistics(values)
	switch name {
	case "zscore":
		return ZScoreScaler{Mean: st.Mean, Std: st.Std}, nil
	case "minmax":
		return MinMaxScaler{Min: st.Min, Max: st.Max}, nil
	case "robust":
		return RobustScaler{Median: st.Median, IQR: st.IQR()}, nil
	case "log":
		return LogScaler{}, nil
	case "sqrt":
		return SqrtScaler{}, nil
	default:
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotSupported,
			fmt.Sprintf("fit scaler: unknown scaler %q", name))
	}
}

// Fit 用一批数值样本填充列描述中的缩放参数，返回新的列描述。
func (c ColumnSpec) Fit(values []float64) (ColumnSpec, error) {
	s, err := FitScaler(c.Scaler, values)
	if err != nil {
		return c, fmt.Errorf("column %q: %w", c.Name, err)
	}
	switch s := s.(type) {
	case ZScoreScaler:
		c.Mean, c.Std = s.Mean, s.Std
	case MinMaxScaler:
		c.Min, c.Max = s.Min, s.Max
	case RobustScaler:
		c.Median, c.IQR = s.Median, s.IQR
	}
	return c, nil
}
