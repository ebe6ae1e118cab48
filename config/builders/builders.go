package builders

import (
	"fmt"
	"sort"
	"time"

	"github.com/rushteam/riskit/config"
	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/feature"
	"github.com/rushteam/riskit/model"
	"github.com/rushteam/riskit/pipeline"
	"github.com/rushteam/riskit/pkg/conv"
	"github.com/rushteam/riskit/risk"
)

func init() {
	config.Register("validate.schema", BuildValidateNode)
	config.Register("transform.preprocess", BuildTransformNode)
	config.Register("predict.cluster", BuildClusterNode)
	config.Register("project.pca", BuildProjectionNode)
	config.Register("classify.static", BuildStaticClassifyNode)
	config.Register("classify.rules", BuildRuleClassifyNode)
}

// BuildValidateNode
//
//	fields: [SEX, INSURED_VALUE, ...]   # 为空时使用 feature.DefaultClientFields
//	inject: {RISK_CATEGORY: Normal}     # 或 [{field: RISK_CATEGORY, value: Normal}]
func BuildValidateNode(cfg map[string]any) (pipeline.Node, error) {
	schema := feature.NewSchema(conv.ConfigGetStrings(cfg, "fields"))

	var inject []feature.Constant
	switch raw := cfg["inject"].(type) {
	case nil:
	case map[string]any:
		fields := make([]string, 0, len(raw))
		for f := range raw {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			inject = append(inject, feature.Constant{Field: f, Value: constantValue(raw[f])})
		}
	case []any:
		for i, item := range raw {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("inject[%d]: expected map, got %T", i, item)
			}
			field := conv.ConfigGet(m, "field", "")
			if field == "" {
				return nil, fmt.Errorf("inject[%d]: field is required", i)
			}
			inject = append(inject, feature.Constant{Field: field, Value: constantValue(m["value"])})
		}
	default:
		return nil, fmt.Errorf("inject: unsupported type %T", raw)
	}
	return &feature.ValidateNode{Schema: schema, Inject: inject}, nil
}

func constantValue(v any) core.Value {
	if v == nil {
		return core.Null()
	}
	if s, ok := v.(string); ok {
		return core.String(s)
	}
	if f, ok := conv.ToFloat64(v); ok {
		return core.Number(f)
	}
	return core.String(fmt.Sprintf("%v", v))
}

// BuildTransformNode
//
//	path: models/preprocessor.yaml
func BuildTransformNode(cfg map[string]any) (pipeline.Node, error) {
	path := conv.ConfigGet(cfg, "path", "")
	if path == "" {
		return nil, fmt.Errorf("path not found")
	}
	p, err := feature.LoadPreprocessor(path)
	if err != nil {
		return nil, err
	}
	return &feature.TransformNode{Preprocessor: p}, nil
}

// BuildClusterNode 从本地 k-means 文件或远程服务构建预测节点。
//
//	path: models/kmeans.json
//
// 或
//
//	endpoint: http://localhost:8080/v1/models/kmeans:predict
//	timeout: 5
//	name: kmeans-remote
func BuildClusterNode(cfg map[string]any) (pipeline.Node, error) {
	if endpoint := conv.ConfigGet(cfg, "endpoint", ""); endpoint != "" {
		timeout := 5 * time.Second
		if sec := conv.ConfigGetInt64(cfg, "timeout", 5); sec > 0 {
			timeout = time.Duration(sec) * time.Second
		}
		name := conv.ConfigGet(cfg, "name", "")
		return &model.ClusterNode{Model: model.NewRPCClusterModel(name, endpoint, timeout)}, nil
	}
	path := conv.ConfigGet(cfg, "path", "")
	if path == "" {
		return nil, fmt.Errorf("path or endpoint not found")
	}
	km, err := model.LoadKMeans(path)
	if err != nil {
		return nil, err
	}
	return &model.ClusterNode{Model: km}, nil
}

// BuildProjectionNode
//
//	path: models/pca.json
func BuildProjectionNode(cfg map[string]any) (pipeline.Node, error) {
	path := conv.ConfigGet(cfg, "path", "")
	if path == "" {
		return nil, fmt.Errorf("path not found")
	}
	p, err := model.LoadPCA(path)
	if err != nil {
		return nil, err
	}
	return &model.ProjectionNode{Projector: p}, nil
}

// BuildStaticClassifyNode
//
//	very_high: [3, 4]                    # 简写
//	sets: {"Very High": [3, 4]}          # 或完整映射
//	default: Normal
func BuildStaticClassifyNode(cfg map[string]any) (pipeline.Node, error) {
	sets := make(map[risk.Level][]int)
	if raw, ok := cfg["very_high"]; ok {
		ids, err := conv.SliceAnyToInt(raw)
		if err != nil {
			return nil, fmt.Errorf("very_high: %w", err)
		}
		sets[risk.VeryHigh] = ids
	}
	for level, raw := range conv.ConfigGetMap(cfg, "sets") {
		ids, err := conv.SliceAnyToInt(raw)
		if err != nil {
			return nil, fmt.Errorf("sets.%s: %w", level, err)
		}
		sets[risk.Level(level)] = append(sets[risk.Level(level)], ids...)
	}
	if len(sets) == 0 {
		sets[risk.VeryHigh] = risk.DefaultVeryHighClusters
	}
	sc, err := risk.NewStaticClassifier(sets, risk.Level(conv.ConfigGet(cfg, "default", "")))
	if err != nil {
		return nil, err
	}
	return &risk.ClassifyNode{Classifier: sc}, nil
}

// BuildRuleClassifyNode
//
//	rules:
//	  - {name: high_clusters, expr: "cluster in [3, 4]", level: Very High}
//	default: Normal
func BuildRuleClassifyNode(cfg map[string]any) (pipeline.Node, error) {
	raw, ok := cfg["rules"].([]any)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("rules not found or invalid")
	}
	rules := make([]risk.Rule, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("rules[%d]: expected map, got %T", i, item)
		}
		rules = append(rules, risk.Rule{
			Name:  conv.ConfigGet(m, "name", ""),
			Expr:  conv.ConfigGet(m, "expr", ""),
			Level: risk.Level(conv.ConfigGet(m, "level", "")),
		})
	}
	rc, err := risk.NewRuleClassifier(rules, risk.Level(conv.ConfigGet(cfg, "default", "")))
	if err != nil {
		return nil, err
	}
	return &risk.ClassifyNode{Classifier: rc}, nil
}
