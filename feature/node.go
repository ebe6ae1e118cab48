package feature

import (
	"context"
	"fmt"
	"strings"

	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/pipeline"
	"github.com/rushteam/riskit/pkg/utils"
)

// Constant 是校验后追加到记录中的固定字段。
// 例如带 PCA 投影的模型在训练时包含 RISK_CATEGORY 列，评分前需补上 RISK_CATEGORY=Normal。
type Constant struct {
	Field string
	Value core.Value
}

// ValidateNode 是输入校验节点：字段比对、丢弃多余字段、注入常量。
// 任一客户缺失必需字段即返回错误，后续节点不会执行。
type ValidateNode struct {
	Schema *Schema
	Inject []Constant
}

func (n *ValidateNode) Name() string        { return "validate.schema" }
func (n *ValidateNode) Kind() pipeline.Kind { return pipeline.KindValidate }

func (n *ValidateNode) Process(
	_ context.Context,
	_ *core.ScoreContext,
	clients []*core.Client,
) ([]*core.Client, error) {
	schema := n.Schema
	if schema == nil {
		schema = NewSchema(nil)
	}
	for _, c := range clients {
		if c == nil {
			continue
		}
		rec, check, err := schema.Conform(c.Record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", c.Row, err)
		}
		for _, k := range n.Inject {
			rec.Set(k.Field, k.Value)
		}
		c.Record = rec
		value := "ok"
		if len(check.Extra) > 0 {
			value = "dropped:" + strings.Join(check.Extra, ",")
		}
		c.PutLabel("schema", utils.Label{Value: value, Source: string(pipeline.KindValidate)})
	}
	return clients, nil
}

// TransformNode 是预处理节点：把校验后的记录转换为模型输入向量。
type TransformNode struct {
	Preprocessor *Preprocessor
}

func (n *TransformNode) Name() string        { return "transform.preprocess" }
func (n *TransformNode) Kind() pipeline.Kind { return pipeline.KindTransform }

func (n *TransformNode) Process(
	_ context.Context,
	_ *core.ScoreContext,
	clients []*core.Client,
) ([]*core.Client, error) {
	if n.Preprocessor == nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput, "transform: preprocessor not configured")
	}
	for _, c := range clients {
		if c == nil {
			continue
		}
		vec, err := n.Preprocessor.Transform(c.Record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", c.Row, err)
		}
		c.Vector = vec
		if v := n.Preprocessor.Version(); v != "" {
			c.PutLabel("preprocess", utils.Label{Value: v, Source: string(pipeline.KindTransform)})
		}
	}
	return clients, nil
}
