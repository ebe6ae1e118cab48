package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/riskit/core"
)

// Pipeline 把评分逻辑拆成可组合的 Node 链：validate → transform → predict → project → classify。
type Pipeline struct {
	Nodes []Node
}

// Run 依次执行各节点；节点错误会带上节点名返回，已处理的结果全部丢弃。
func (p *Pipeline) Run(
	ctx context.Context,
	sctx *core.ScoreContext,
	clients []*core.Client,
) ([]*core.Client, error) {
	cur := clients
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, sctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

// Kinds 返回各节点的阶段，按执行顺序。
func (p *Pipeline) Kinds() []Kind {
	out := make([]Kind, len(p.Nodes))
	for i, n := range p.Nodes {
		out[i] = n.Kind()
	}
	return out
}
