package model

import (
	"fmt"
	"math"

	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/pkg/artifact"
)

// KMeansArtifact 是离线训练导出的 k-means 模型文件。
//
//	{"kind": "kmeans", "version": "v3", "centroids": [[...], [...], ...]}
type KMeansArtifact struct {
	artifact.Metadata `yaml:",inline"`
	Centroids         [][]float64 `json:"centroids" yaml:"centroids"`
}

// KMeans 实现了 k-means 的预测部分：返回距离最近的聚类中心编号。
//
// 预测原理：
// 1. 对每个中心 c_k 计算平方欧氏距离 d_k = sum((x_i - c_ki)^2)
// 2. 返回 argmin_k d_k；距离相同时取编号较小者
//
// 构建后只读，可并发使用。
type KMeans struct {
	version   string
	Centroids [][]float64
}

// NewKMeans 校验中心并创建模型：至少一个中心，且各中心维度一致。
func NewKMeans(a KMeansArtifact) (*KMeans, error) {
	if len(a.Centroids) == 0 {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidArtifact, "kmeans: no centroids")
	}
	dim := len(a.Centroids[0])
	if dim == 0 {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidArtifact, "kmeans: empty centroid")
	}
	for i, c := range a.Centroids {
		if len(c) != dim {
			return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidArtifact,
				fmt.Sprintf("kmeans: centroid %d has dimension %d, want %d", i, len(c), dim))
		}
		if err := checkFinite("kmeans", c); err != nil {
			return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidArtifact,
				fmt.Sprintf("kmeans: centroid %d is not finite", i))
		}
	}
	return &KMeans{version: a.Version, Centroids: a.Centroids}, nil
}

// LoadKMeans 从 JSON/YAML 文件加载 k-means 模型。
func LoadKMeans(path string) (*KMeans, error) {
	var a KMeansArtifact
	if err := artifact.Load(path, &a); err != nil {
		return nil, err
	}
	m, err := NewKMeans(a)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (m *KMeans) Name() string { return "kmeans" }

// Version 返回模型版本。
func (m *KMeans) Version() string { return m.version }

// K 返回聚类数。
func (m *KMeans) K() int { return len(m.Centroids) }

// Dim 返回输入维度。
func (m *KMeans) Dim() int { return len(m.Centroids[0]) }

func (m *KMeans) Predict(vec []float64) (int, error) {
	if len(vec) != m.Dim() {
		return 0, dimensionMismatch("kmeans", len(vec), m.Dim())
	}
	if err := checkFinite("kmeans", vec); err != nil {
		return 0, err
	}
	best, bestDist := 0, -1.0
	for k, c := range m.Centroids {
		var d float64
		for i, x := range vec {
			diff := x - c[i]
			d += diff * diff
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	return best, nil
}

func dimensionMismatch(model string, got, want int) error {
	return &core.DomainError{
		Module:  core.ModuleModel,
		Code:    core.ErrorCodeDimensionMismatch,
		Message: fmt.Sprintf("%s: input has %d features, model expects %d", model, got, want),
	}
}

// checkFinite 拒绝含 NaN 或 ±Inf 的向量，否则所有距离都不可比较。
func checkFinite(model string, vec []float64) error {
	for i, x := range vec {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return core.NewDomainError(core.ModuleModel, core.ErrorCodeNotNumeric,
				fmt.Sprintf("%s: feature %d is %v", model, i, x))
		}
	}
	return nil
}
