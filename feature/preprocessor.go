package feature

import (
	"fmt"
	"math"

	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/pkg/artifact"
	"github.com/rushteam/riskit/pkg/conv"
)

// 列类型
const (
	ColumnNumeric     = "numeric"
	ColumnCategorical = "categorical"
)

// ColumnSpec 描述预处理文件中的一列：空值填充 + 数值缩放或类别编码。
//
// 示例（YAML）：
//
//	- name: INSURED_VALUE
//	  kind: numeric
//	  fill: 15000
//	  scaler: zscore
//	  mean: 18250.4
//	  std: 9210.7
//	- name: USAGE
//	  kind: categorical
//	  fill: PARTICULAR
//	  encoder: onehot
//	  categories: [CARGA, PARTICULAR, PUBLICO]
type ColumnSpec struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
	// Fill 空值填充值（训练时的中位数/众数），为空表示不允许空值
	Fill any `json:"fill,omitempty" yaml:"fill,omitempty"`

	// 数值列：zscore / minmax / robust / log / sqrt，为空表示原样输出
	Scaler string  `json:"scaler,omitempty" yaml:"scaler,omitempty"`
	Mean   float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	Std    float64 `json:"std,omitempty" yaml:"std,omitempty"`
	Min    float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max    float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Median float64 `json:"median,omitempty" yaml:"median,omitempty"`
	IQR    float64 `json:"iqr,omitempty" yaml:"iqr,omitempty"`

	// 类别列：onehot / label / ordinal / frequency / target
	Encoder     string             `json:"encoder,omitempty" yaml:"encoder,omitempty"`
	Categories  []string           `json:"categories,omitempty" yaml:"categories,omitempty"`
	Frequencies map[string]float64 `json:"frequencies,omitempty" yaml:"frequencies,omitempty"`
	Targets     map[string]float64 `json:"targets,omitempty" yaml:"targets,omitempty"`
	// Unknown 未知类别的编码值（label / ordinal 使用 Unknown，target 作为全局均值）
	Unknown float64 `json:"unknown,omitempty" yaml:"unknown,omitempty"`
}

// PreprocessorArtifact 是预处理文件的结构。
type PreprocessorArtifact struct {
	artifact.Metadata `yaml:",inline"`
	Columns           []ColumnSpec `json:"columns" yaml:"columns"`
}

// Preprocessor 是已拟合的预处理流水线：把一条记录转换成聚类模型的输入向量。
// 构建后只读，可并发使用。
type Preprocessor struct {
	version string
	columns []ColumnSpec
	scaler  map[string]Scaler  // 列名 → 缩放器
	encoder map[string]Encoder // 列名 → 编码器
	dim     int
}

// LoadPreprocessor 从 JSON/YAML 文件加载预处理流水线。
func LoadPreprocessor(path string) (*Preprocessor, error) {
	var a PreprocessorArtifact
	if err := artifact.Load(path, &a); err != nil {
		return nil, err
	}
	p, err := NewPreprocessor(a)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func invalidArtifact(format string, args ...any) error {
	return core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidArtifact, fmt.Sprintf("preprocessor: "+format, args...))
}

// NewPreprocessor 根据列描述构建预处理流水线，每列独立构建缩放器或编码器。
func NewPreprocessor(a PreprocessorArtifact) (*Preprocessor, error) {
	if len(a.Columns) == 0 {
		return nil, invalidArtifact("no columns")
	}

	p := &Preprocessor{
		version: a.Version,
		columns: append([]ColumnSpec(nil), a.Columns...),
		scaler:  make(map[string]Scaler),
		encoder: make(map[string]Encoder),
	}

	seen := make(map[string]struct{}, len(a.Columns))
	for _, c := range a.Columns {
		if c.Name == "" {
			return nil, invalidArtifact("column without name")
		}
		if _, dup := seen[c.Name]; dup {
			return nil, invalidArtifact("duplicate column %q", c.Name)
		}
		seen[c.Name] = struct{}{}

		switch c.Kind {
		case ColumnNumeric:
			if c.Fill != nil {
				if _, ok := conv.ToFloat64(c.Fill); !ok {
					return nil, invalidArtifact("column %q: numeric fill %v", c.Name, c.Fill)
				}
			}
			sc, err := newScaler(c)
			if err != nil {
				return nil, err
			}
			if sc != nil {
				p.scaler[c.Name] = sc
			}
			p.dim++

		case ColumnCategorical:
			enc, err := newEncoder(c)
			if err != nil {
				return nil, err
			}
			p.encoder[c.Name] = enc
			p.dim += enc.Width()

		default:
			return nil, invalidArtifact("column %q: unknown kind %q", c.Name, c.Kind)
		}
	}
	return p, nil
}

// Fields 返回流水线需要的字段（按输入顺序）。
func (p *Preprocessor) Fields() []string {
	out := make([]string, len(p.columns))
	for i, c := range p.columns {
		out[i] = c.Name
	}
	return out
}

// Dim 返回输出向量维度。
func (p *Preprocessor) Dim() int { return p.dim }

// Version 返回文件中的版本号。
func (p *Preprocessor) Version() string { return p.version }

// Transform 把记录转换为模型输入向量。
// 字段缺失、空值且无填充值、数值列出现非数值时返回错误。
func (p *Preprocessor) Transform(rec *core.Record) ([]float64, error) {
	vec := make([]float64, 0, p.dim)
	for _, c := range p.columns {
		v, ok := rec.Get(c.Name)
		if !ok {
			return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
				fmt.Sprintf("preprocessor: field %q not in record", c.Name))
		}

		switch c.Kind {
		case ColumnNumeric:
			f, err := numericInput(c, v)
			if err != nil {
				return nil, err
			}
			if sc, ok := p.scaler[c.Name]; ok {
				f = sc.Scale(f)
			}
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotNumeric,
					fmt.Sprintf("preprocessor: field %q transforms to %v", c.Name, f))
			}
			vec = append(vec, f)

		case ColumnCategorical:
			cat, err := categoricalInput(c, v)
			if err != nil {
				return nil, err
			}
			enc := p.encoder[c.Name].Encode(cat)
			for _, f := range enc {
				if math.IsNaN(f) || math.IsInf(f, 0) {
					return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotNumeric,
						fmt.Sprintf("preprocessor: field %q value %q encodes to %v", c.Name, cat, f))
				}
			}
			vec = append(vec, enc...)
		}
	}
	return vec, nil
}

func numericInput(c ColumnSpec, v core.Value) (float64, error) {
	if v.IsNull() {
		if c.Fill == nil {
			return 0, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
				fmt.Sprintf("preprocessor: field %q is null and has no fill value", c.Name))
		}
		f, _ := conv.ToFloat64(c.Fill)
		return f, nil
	}
	f, ok := v.Float()
	if !ok {
		return 0, core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotNumeric,
			fmt.Sprintf("preprocessor: field %q value %q is not numeric", c.Name, v.Text()))
	}
	return f, nil
}

func categoricalInput(c ColumnSpec, v core.Value) (string, error) {
	if v.IsNull() {
		if c.Fill == nil {
			return "", core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
				fmt.Sprintf("preprocessor: field %q is null and has no fill value", c.Name))
		}
		return fmt.Sprintf("%v", c.Fill), nil
	}
	return v.Text(), nil
}
