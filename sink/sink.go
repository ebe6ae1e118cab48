// Package sink 把评分结果写到文件、键值存储或 Postgres。
package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rushteam/riskit/core"
)

// Sink 是评分结果的输出目标。
type Sink interface {
	Name() string
	Write(ctx context.Context, runID string, assessments []*core.Assessment) error
	Close() error
}

// Stager 是支持两阶段写入的 Sink：Stage 准备好结果但不对外可见，Commit 后才生效。
type Stager interface {
	Stage(ctx context.Context, runID string, assessments []*core.Assessment) (Staged, error)
}

// Staged 是一次已准备、尚未提交的写入。
type Staged interface {
	Commit() error
	Abort() error
}

// Multi 把结果写到多个 Sink，任一失败则整体失败。
//
// 写入顺序：先把全部 Document 编码一遍，再准备各 Stager，然后依次写其余 Sink，
// 最后提交已准备的写入。任一步失败时丢弃已准备的写入，文件类输出不会残留半成品。
type Multi []Sink

func (m Multi) Name() string { return "multi" }

func (m Multi) Write(ctx context.Context, runID string, assessments []*core.Assessment) error {
	if err := Validate(assessments); err != nil {
		return err
	}
	var staged []Staged
	abort := func() {
		for _, st := range staged {
			_ = st.Abort()
		}
	}
	var direct []Sink
	for _, s := range m {
		st, ok := s.(Stager)
		if !ok {
			direct = append(direct, s)
			continue
		}
		p, err := st.Stage(ctx, runID, assessments)
		if err != nil {
			abort()
			return fmt.Errorf("%s sink: %w", s.Name(), err)
		}
		staged = append(staged, p)
	}
	for _, s := range direct {
		if err := s.Write(ctx, runID, assessments); err != nil {
			abort()
			return err
		}
	}
	for i, st := range staged {
		if err := st.Commit(); err != nil {
			for _, rest := range staged[i+1:] {
				_ = rest.Abort()
			}
			return err
		}
	}
	return nil
}

// Validate 确认每条结果都能编码为 Document（例如不含 NaN/±Inf）。
func Validate(assessments []*core.Assessment) error {
	for _, a := range assessments {
		if _, err := marshalDocument(a); err != nil {
			return core.NewDomainError(core.ModuleSink, core.ErrorCodeInvalidInput,
				fmt.Sprintf("sink: row %d: %v", a.Row, err))
		}
	}
	return nil
}

// Close 关闭全部 Sink，返回合并后的错误。
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// Document 是评分结果的 JSON 表示（StoreSink 写入的内容，Postgres 的 record 列）。
type Document struct {
	ID         string         `json:"id"`
	RunID      string         `json:"run_id"`
	Row        int            `json:"row"`
	Cluster    int            `json:"cluster"`
	RiskLevel  string         `json:"risk_level"`
	Projection []float64      `json:"projection,omitempty"`
	Record     map[string]any `json:"record"`
	ScoredAt   time.Time      `json:"scored_at"`
}

// NewDocument 把 Assessment 转为 Document。
func NewDocument(a *core.Assessment) Document {
	return Document{
		ID:         a.ID,
		RunID:      a.RunID,
		Row:        a.Row,
		Cluster:    a.Cluster,
		RiskLevel:  a.RiskLevel,
		Projection: a.Projection,
		Record:     a.Record.Map(),
		ScoredAt:   a.ScoredAt.UTC(),
	}
}

func marshalDocument(a *core.Assessment) ([]byte, error) {
	return json.Marshal(NewDocument(a))
}
