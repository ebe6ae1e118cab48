package pipeline

import (
	"context"

	"github.com/rushteam/riskit/core"
)

// Kind 用于标记 Node 类型，方便观测/编排（例如按阶段打点）。
type Kind string

const (
	KindValidate  Kind = "validate"  // 校验阶段：字段比对、丢弃多余字段、注入常量
	KindTransform Kind = "transform" // 预处理阶段：填充、缩放、编码为向量
	KindPredict   Kind = "predict"   // 预测阶段：聚类编号
	KindProject   Kind = "project"   // 投影阶段：PCA 坐标
	KindClassify  Kind = "classify"  // 分级阶段：聚类 → 风险等级
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 clients -> 输出 clients”的形态；任一节点出错则整条链路中止，不产生部分结果。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		sctx *core.ScoreContext,
		clients []*core.Client,
	) ([]*core.Client, error)
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(config map[string]any) (Node, error)
