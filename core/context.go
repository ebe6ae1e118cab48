package core

import "github.com/rushteam/riskit/pkg/utils"

// ScoreContext 承载一次评分任务的运行信息，贯穿整个 Pipeline 透传。
type ScoreContext struct {
	// RunID 标识一次评分运行（CLI 每次调用生成一个）
	RunID string

	// Source 是输入来源（文件路径等），仅用于日志与结果追踪
	Source string

	// Labels 是运行级标签，例如模型版本、配置名
	Labels map[string]utils.Label

	// Params 运行级参数，节点可按需读取
	Params map[string]any
}

// PutLabel 写入运行级 Label。
func (sctx *ScoreContext) PutLabel(key string, lbl utils.Label) {
	if sctx.Labels == nil {
		sctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := sctx.Labels[key]; ok {
		sctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	sctx.Labels[key] = lbl
}

// GetLabel 获取运行级 Label。
func (sctx *ScoreContext) GetLabel(key string) (utils.Label, bool) {
	if sctx == nil || sctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := sctx.Labels[key]
	return lbl, ok
}
