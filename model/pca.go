package model

import (
	"fmt"
	"math"

	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/pkg/artifact"
)

// PCAArtifact 是离线训练导出的 PCA 文件。
// Components 每行是一个主成分（长度等于输入维度）；Whiten 为 true 时需要 ExplainedVariance。
type PCAArtifact struct {
	artifact.Metadata `yaml:",inline"`
	Mean              []float64   `json:"mean" yaml:"mean"`
	Components        [][]float64 `json:"components" yaml:"components"`
	ExplainedVariance []float64   `json:"explained_variance,omitempty" yaml:"explained_variance,omitempty"`
	Whiten            bool        `json:"whiten,omitempty" yaml:"whiten,omitempty"`
}

// PCA 把向量投影到主成分：y_j = sum_i (x_i - mean_i) * W_ji，白化时再除以 sqrt(var_j)。
type PCA struct {
	version    string
	mean       []float64
	components [][]float64
	scale      []float64 // 白化系数，未白化时为 nil
}

// NewPCA 校验并创建投影器。
func NewPCA(a PCAArtifact) (*PCA, error) {
	invalid := func(format string, args ...any) error {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidArtifact, fmt.Sprintf("pca: "+format, args...))
	}
	if len(a.Mean) == 0 {
		return nil, invalid("empty mean")
	}
	if len(a.Components) == 0 {
		return nil, invalid("no components")
	}
	for j, c := range a.Components {
		if len(c) != len(a.Mean) {
			return nil, invalid("component %d has dimension %d, want %d", j, len(c), len(a.Mean))
		}
	}
	p := &PCA{version: a.Version, mean: a.Mean, components: a.Components}
	if a.Whiten {
		if len(a.ExplainedVariance) != len(a.Components) {
			return nil, invalid("whiten needs %d explained variances, got %d", len(a.Components), len(a.ExplainedVariance))
		}
		p.scale = make([]float64, len(a.ExplainedVariance))
		for j, v := range a.ExplainedVariance {
			if v <= 0 {
				return nil, invalid("explained variance %d is not positive", j)
			}
			p.scale[j] = 1 / math.Sqrt(v)
		}
	}
	return p, nil
}

// LoadPCA 从 JSON/YAML 文件加载 PCA。
func LoadPCA(path string) (*PCA, error) {
	var a PCAArtifact
	if err := artifact.Load(path, &a); err != nil {
		return nil, err
	}
	p, err := NewPCA(a)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func (p *PCA) Name() string { return "pca" }

// Version 返回模型版本。
func (p *PCA) Version() string { return p.version }

// Components 返回主成分个数（输出维度）。
func (p *PCA) Components() int { return len(p.components) }

func (p *PCA) Project(vec []float64) ([]float64, error) {
	if len(vec) != len(p.mean) {
		return nil, dimensionMismatch("pca", len(vec), len(p.mean))
	}
	if err := checkFinite("pca", vec); err != nil {
		return nil, err
	}
	out := make([]float64, len(p.components))
	for j, w := range p.components {
		var y float64
		for i, x := range vec {
			y += (x - p.mean[i]) * w[i]
		}
		if p.scale != nil {
			y *= p.scale[j]
		}
		out[j] = y
	}
	return out, nil
}
