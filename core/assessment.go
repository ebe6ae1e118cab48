package core

import (
	"time"

	"github.com/google/uuid"
)

// Assessment 是一次客户评分的持久化结果。
type Assessment struct {
	ID         string
	RunID      string
	Row        int
	Record     *Record // 输出行（含追加的派生字段）
	Cluster    int
	RiskLevel  string
	Projection []float64
	ScoredAt   time.Time
}

// NewAssessment 由评分完成的 Client 生成结果，ID 使用 UUID。
func NewAssessment(runID string, c *Client, now time.Time) *Assessment {
	return &Assessment{
		ID:         uuid.NewString(),
		RunID:      runID,
		Row:        c.Row,
		Record:     c.ResultRecord(),
		Cluster:    c.Cluster,
		RiskLevel:  c.RiskLevel,
		Projection: append([]float64(nil), c.Projection...),
		ScoredAt:   now,
	}
}
