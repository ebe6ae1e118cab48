package feature

import (
	"math"
	"sort"
)

// FeatureStatistics 特征统计信息
type FeatureStatistics struct {
	Count  int
	Mean   float64
	Std    float64 // 样本标准差（ddof=1）
	Min    float64
	Max    float64
	Median float64
	P25    float64
	P75    float64
	P95    float64
	P99    float64
}

// IQR 返回四分位距 P75 - P25。
func (s *FeatureStatistics) IQR() float64 { return s.P75 - s.P25 }

// Range 返回极差 Max - Min。
func (s *FeatureStatistics) Range() float64 { return s.Max - s.Min }

// ComputeStatistics 计算特征统计信息
func ComputeStatistics(values []float64) *FeatureStatistics {
	if len(values) == 0 {
		return &FeatureStatistics{}
	}

	// 复制并排序
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	stats := &FeatureStatistics{
		Count: len(values),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Mean:  Mean(values),
		Std:   StdDev(values, 1),
	}

	// 计算分位数
	stats.Median = Percentile(sorted, 0.5)
	stats.P25 = Percentile(sorted, 0.25)
	stats.P75 = Percentile(sorted, 0.75)
	stats.P95 = Percentile(sorted, 0.95)
	stats.P99 = Percentile(sorted, 0.99)

	return stats
}

// Percentile 计算已排序数据的分位数，使用相邻两点线性插值。
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Quantile 对未排序数据计算分位数。
func Quantile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return Percentile(sorted, p)
}

// Median 计算中位数；空输入返回 NaN。
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Mean 计算均值；空输入返回 NaN。
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev 计算标准差，ddof 为自由度修正（样本标准差传 1）。
// 样本数不大于 ddof 时返回 NaN。
func StdDev(values []float64, ddof int) float64 {
	n := len(values)
	if n <= ddof {
		return math.NaN()
	}
	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(n-ddof))
}

// Skewness 计算样本偏度（调整后的 Fisher-Pearson 系数 G1）。
//
//	g1 = m3 / m2^1.5，G1 = g1 * sqrt(n(n-1)) / (n-2)
//
// 少于 3 个样本时偏度无定义，返回 NaN；方差为 0 时返回 0。
func Skewness(values []float64) float64 {
	n := float64(len(values))
	if n < 3 {
		return math.NaN()
	}
	mean := Mean(values)
	var m2, m3 float64
	for _, v := range values {
		d := v - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0
	}
	g1 := m3 / math.Pow(m2, 1.5)
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// Round 四舍五入到 places 位小数。
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
