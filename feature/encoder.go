package feature

// Encoder 是单列类别编码，输出定长向量。
type Encoder interface {
	// Name 返回编码方式（onehot / label / ordinal / frequency / target）
	Name() string
	// Width 返回编码后的维度
	Width() int
	// Encode 编码一个类别，长度恒为 Width()
	Encode(category string) []float64
}

// OneHotEncoder 每个类别对应一个维度；未知类别编码为全 0。
type OneHotEncoder struct {
	Categories []string
}

func (e OneHotEncoder) Name() string { return "onehot" }

func (e OneHotEncoder) Width() int { return len(e.Categories) }

func (e OneHotEncoder) Encode(category string) []float64 {
	out := make([]float64, len(e.Categories))
	for i, cat := range e.Categories {
		if cat == category {
			out[i] = 1
		}
	}
	return out
}

// LabelEncoder 把类别映射为整数（0, 1, 2, ...）。
type LabelEncoder struct {
	Labels  map[string]int
	Unknown float64 // 未知类别的编码值
}

// NewLabelEncoder 按类别出现顺序编号。
func NewLabelEncoder(categories []string, unknown float64) LabelEncoder {
	labels := make(map[string]int, len(categories))
	for i, cat := range categories {
		if _, dup := labels[cat]; !dup {
			labels[cat] = i
		}
	}
	return LabelEncoder{Labels: labels, Unknown: unknown}
}

func (e LabelEncoder) Name() string { return "label" }

func (e LabelEncoder) Width() int { return 1 }

func (e LabelEncoder) Encode(category string) []float64 {
	if n, ok := e.Labels[category]; ok {
		return []float64{float64(n)}
	}
	return []float64{e.Unknown}
}

// OrdinalEncoder 按有序类别列表（从小到大）编码，例如车辆用途的风险顺序。
type OrdinalEncoder struct {
	Order   []string
	Unknown float64
}

func (e OrdinalEncoder) Name() string { return "ordinal" }

func (e OrdinalEncoder) Width() int { return 1 }

func (e OrdinalEncoder) Encode(category string) []float64 {
	for i, cat := range e.Order {
		if cat == category {
			return []float64{float64(i)}
		}
	}
	return []float64{e.Unknown}
}

// FrequencyEncoder 用训练集中的出现频率编码，适合品牌（MAKE）这类高基数列；未知类别为 0。
type FrequencyEncoder struct {
	Frequencies map[string]float64
}

func (e FrequencyEncoder) Name() string { return "frequency" }

func (e FrequencyEncoder) Width() int { return 1 }

func (e FrequencyEncoder) Encode(category string) []float64 {
	return []float64{e.Frequencies[category]}
}

// TargetEncoder 用目标均值（如平均赔付）编码；未知类别使用全局均值 Prior。
type TargetEncoder struct {
	Encodings map[string]float64
	Prior     float64
}

func (e TargetEncoder) Name() string { return "target" }

func (e TargetEncoder) Width() int { return 1 }

func (e TargetEncoder) Encode(category string) []float64 {
	if v, ok := e.Encodings[category]; ok {
		return []float64{v}
	}
	return []float64{e.Prior}
}

func newEncoder(c ColumnSpec) (Encoder, error) {
	switch c.Encoder {
	case "onehot":
		if len(c.Categories) == 0 {
			return nil, invalidArtifact("column %q: onehot needs categories", c.Name)
		}
		return OneHotEncoder{Categories: c.Categories}, nil
	case "label":
		return NewLabelEncoder(c.Categories, c.Unknown), nil
	case "ordinal":
		return OrdinalEncoder{Order: c.Categories, Unknown: c.Unknown}, nil
	case "frequency":
		return FrequencyEncoder{Frequencies: c.Frequencies}, nil
	case "target":
		return TargetEncoder{Encodings: c.Targets, Prior: c.Unknown}, nil
	default:
		return nil, invalidArtifact("column %q: unknown encoder %q", c.Name, c.Encoder)
	}
}
