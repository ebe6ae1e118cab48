package risk

import (
	"context"
	"fmt"

	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/pipeline"
	"github.com/rushteam/riskit/pkg/utils"
)

// ClassifyNode 是分级节点：为每个已聚类的客户写入风险等级与 risk_level 标签。
type ClassifyNode struct {
	NodeName   string
	Classifier Classifier
}

func (n *ClassifyNode) Name() string {
	if n.NodeName != "" {
		return n.NodeName
	}
	return "classify." + n.classifier().Name()
}

func (n *ClassifyNode) Kind() pipeline.Kind { return pipeline.KindClassify }

func (n *ClassifyNode) classifier() Classifier {
	if n.Classifier == nil {
		return defaultClassifier
	}
	return n.Classifier
}

func (n *ClassifyNode) Process(
	ctx context.Context,
	sctx *core.ScoreContext,
	clients []*core.Client,
) ([]*core.Client, error) {
	cls := n.classifier()
	for _, c := range clients {
		if c == nil {
			continue
		}
		if !c.Scored {
			return nil, core.NewDomainError(core.ModuleRisk, core.ErrorCodeInvalidInput,
				fmt.Sprintf("row %d: no cluster to classify", c.Row))
		}
		d, err := cls.Classify(ctx, sctx, c)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", c.Row, err)
		}
		c.RiskLevel = string(d.Level)
		c.PutLabel("risk_level", utils.Label{Value: d.Reason, Source: cls.Name()})
	}
	return clients, nil
}
