package model

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/pipeline"
	"github.com/rushteam/riskit/pkg/utils"
)

// ClusterNode 是预测节点：用 ClusterModel 给每个客户分配聚类编号。
// 模型支持批量接口时一次请求完成全部客户的预测。
type ClusterNode struct {
	Model ClusterModel
}

func (n *ClusterNode) Name() string        { return "predict.cluster" }
func (n *ClusterNode) Kind() pipeline.Kind { return pipeline.KindPredict }

func (n *ClusterNode) Process(
	ctx context.Context,
	_ *core.ScoreContext,
	clients []*core.Client,
) ([]*core.Client, error) {
	if n.Model == nil || len(clients) == 0 {
		return clients, nil
	}

	var clusters []int
	switch m := n.Model.(type) {
	case *RPCClusterModel:
		vecs := collectVectors(clients)
		got, err := m.PredictBatchContext(ctx, vecs)
		if err != nil {
			return nil, err
		}
		clusters = got
	case BatchClusterModel:
		got, err := m.PredictBatch(collectVectors(clients))
		if err != nil {
			return nil, err
		}
		clusters = got
	default:
		clusters = make([]int, len(clients))
		for i, c := range clients {
			k, err := n.Model.Predict(c.Vector)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", c.Row, err)
			}
			clusters[i] = k
		}
	}

	for i, c := range clients {
		c.Cluster = clusters[i]
		c.Scored = true
		c.PutLabel("cluster", utils.Label{Value: strconv.Itoa(c.Cluster), Source: n.Model.Name()})
	}
	return clients, nil
}

func collectVectors(clients []*core.Client) [][]float64 {
	vecs := make([][]float64, len(clients))
	for i, c := range clients {
		vecs[i] = c.Vector
	}
	return vecs
}

// ProjectionNode 是投影节点：输出 PCA 坐标，随结果写入 PCA1, PCA2, ...
type ProjectionNode struct {
	Projector Projector
}

func (n *ProjectionNode) Name() string        { return "project.pca" }
func (n *ProjectionNode) Kind() pipeline.Kind { return pipeline.KindProject }

func (n *ProjectionNode) Process(
	_ context.Context,
	_ *core.ScoreContext,
	clients []*core.Client,
) ([]*core.Client, error) {
	if n.Projector == nil {
		return clients, nil
	}
	for _, c := range clients {
		p, err := n.Projector.Project(c.Vector)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", c.Row, err)
		}
		c.Projection = p
	}
	return clients, nil
}
