// Package risk 把聚类编号映射为风险等级。
package risk

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/riskit/core"
)

// Level 是风险等级标签。
type Level string

const (
	VeryHigh Level = "Very High"
	Normal   Level = "Normal"
)

// DefaultVeryHighClusters 是默认判为高风险的聚类编号。
var DefaultVeryHighClusters = []int{3, 4}

// Decision 是一次分级结果；Reason 说明命中的映射或规则。
type Decision struct {
	Level  Level
	Reason string
}

// Classifier 是风险分级的抽象：对任意已聚类的客户恰好给出一个等级。
type Classifier interface {
	Name() string
	Classify(ctx context.Context, sctx *core.ScoreContext, c *core.Client) (Decision, error)
}

// StaticClassifier 是静态查表：聚类编号 → 等级，未列出的编号取 Default。
// 纯函数，对所有整数都有定义。
type StaticClassifier struct {
	Default Level
	index   map[int]Level
}

// NewStaticClassifier 根据等级 → 聚类编号集合创建分级器。
// 同一编号出现在多个等级中时返回错误；def 为空时使用 Normal。
func NewStaticClassifier(sets map[Level][]int, def Level) (*StaticClassifier, error) {
	if def == "" {
		def = Normal
	}
	levels := make([]string, 0, len(sets))
	for l := range sets {
		levels = append(levels, string(l))
	}
	sort.Strings(levels)

	index := make(map[int]Level)
	for _, l := range levels {
		for _, k := range sets[Level(l)] {
			if prev, ok := index[k]; ok && prev != Level(l) {
				return nil, core.NewDomainError(core.ModuleRisk, core.ErrorCodeInvalidInput,
					fmt.Sprintf("risk: cluster %d mapped to both %q and %q", k, prev, l))
			}
			index[k] = Level(l)
		}
	}
	return &StaticClassifier{Default: def, index: index}, nil
}

// DefaultStaticClassifier 返回默认映射：{3, 4} → Very High，其余 → Normal。
func DefaultStaticClassifier() *StaticClassifier {
	s, _ := NewStaticClassifier(map[Level][]int{VeryHigh: DefaultVeryHighClusters}, Normal)
	return s
}

func (s *StaticClassifier) Name() string { return "static" }

// Level 返回聚类编号对应的等级。
func (s *StaticClassifier) Level(cluster int) Level {
	if l, ok := s.index[cluster]; ok {
		return l
	}
	return s.Default
}

func (s *StaticClassifier) Classify(_ context.Context, _ *core.ScoreContext, c *core.Client) (Decision, error) {
	return Decision{Level: s.Level(c.Cluster), Reason: fmt.Sprintf("cluster=%d", c.Cluster)}, nil
}

var defaultClassifier = DefaultStaticClassifier()

// Classify 使用默认映射给出聚类编号的等级。
func Classify(cluster int) Level {
	return defaultClassifier.Level(cluster)
}
