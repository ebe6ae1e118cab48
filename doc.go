// Package riskit 是一个车险客户风险评估工具包（Risk Kit）。
//
// 设计要点：
// - Pipeline-first: 评分逻辑通过 Node 串联（Validate → Transform → Predict → Project → Classify）
// - Labels-first: 每个节点写入标签，结果可解释（使用了哪个模型版本、命中哪条规则）
// - Artifact 驱动: 预处理、k-means、PCA 均由离线训练导出的 JSON/YAML 文件加载
// - EDA: 表级的空值检查、按分布填充、IQR 异常值与日期整理见 eda 包
package riskit

import (
	"github.com/rushteam/riskit/pipeline"
	"github.com/rushteam/riskit/risk"
)

// 轻量 facade：便于用户直接 import "riskit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind
type Level = risk.Level

const (
	KindValidate  = pipeline.KindValidate
	KindTransform = pipeline.KindTransform
	KindPredict   = pipeline.KindPredict
	KindProject   = pipeline.KindProject
	KindClassify  = pipeline.KindClassify

	VeryHigh = risk.VeryHigh
	Normal   = risk.Normal
)
