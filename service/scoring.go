// Package service 组装评分链路：加载配置中的模型文件、执行 Pipeline、写出结果。
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/riskit/config"
	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/frame"
	"github.com/rushteam/riskit/pipeline"
	"github.com/rushteam/riskit/pkg/utils"
	"github.com/rushteam/riskit/sink"
)

// ScoringService 对新客户执行评分链路并写出结果。
// 构建后只读，可并发调用。
type ScoringService struct {
	Name     string
	Pipeline *pipeline.Pipeline
	Sink     sink.Sink // 可为 nil
	Workers  int

	// Now 生成评分时间，测试时可替换
	Now func() time.Time
}

// Result 是一次评分运行的输出。
type Result struct {
	RunID       string
	Clients     []*core.Client
	Assessments []*core.Assessment
}

// Table 返回结果表（与 CSV 输出一致）。
func (r *Result) Table() (*frame.Table, error) {
	t := frame.New()
	for _, a := range r.Assessments {
		if err := t.AppendRecord(a.Record); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// New 根据配置构建 Pipeline（节点并发加载模型文件）并打开结果输出。
// 调用方需 import _ "github.com/rushteam/riskit/config/builders"。
func New(ctx context.Context, app *config.App) (*ScoringService, error) {
	p, err := app.BuildPipeline(config.DefaultFactory())
	if err != nil {
		return nil, err
	}
	sinks, err := OpenSinks(ctx, app)
	if err != nil {
		return nil, err
	}
	s := &ScoringService{
		Name:     app.Pipeline.Name,
		Pipeline: p,
		Workers:  app.Workers,
	}
	if len(sinks) > 0 {
		s.Sink = sinks
	}
	return s, nil
}

// Close 关闭结果输出。
func (s *ScoringService) Close() error {
	if s.Sink == nil {
		return nil
	}
	return s.Sink.Close()
}

func (s *ScoringService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *ScoringService) newContext(source string) *core.ScoreContext {
	sctx := &core.ScoreContext{RunID: uuid.NewString(), Source: source}
	if s.Name != "" {
		sctx.PutLabel("pipeline", utils.Label{Value: s.Name, Source: "service"})
	}
	return sctx
}

// ScoreFirst 只评分表中的第一行（单客户评分）。表为空时返回错误。
func (s *ScoringService) ScoreFirst(ctx context.Context, t *frame.Table, source string) (*Result, error) {
	rec, err := t.Row(0)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput,
			fmt.Sprintf("%s: no client rows", source))
	}
	return s.run(ctx, source, []*core.Client{core.NewClient(0, rec)})
}

// ScoreTable 评分表中的每一行；结果顺序与输入一致。
func (s *ScoringService) ScoreTable(ctx context.Context, t *frame.Table, source string) (*Result, error) {
	records := t.Records()
	clients := make([]*core.Client, len(records))
	for i, rec := range records {
		clients[i] = core.NewClient(i, rec)
	}
	return s.run(ctx, source, clients)
}

// ScoreFile 读取 CSV 并评分；all 为 false 时只评分第一行。
func (s *ScoringService) ScoreFile(ctx context.Context, path string, all bool) (*Result, error) {
	t, err := frame.ReadCSVFile(path)
	if err != nil {
		return nil, err
	}
	if all {
		return s.ScoreTable(ctx, t, path)
	}
	return s.ScoreFirst(ctx, t, path)
}

func (s *ScoringService) run(ctx context.Context, source string, clients []*core.Client) (*Result, error) {
	sctx := s.newContext(source)
	scored, err := s.ScoreClients(ctx, sctx, clients)
	if err != nil {
		return nil, err
	}

	now := s.now()
	res := &Result{RunID: sctx.RunID, Clients: scored, Assessments: make([]*core.Assessment, len(scored))}
	for i, c := range scored {
		res.Assessments[i] = core.NewAssessment(sctx.RunID, c, now)
	}
	if err := sink.Validate(res.Assessments); err != nil {
		return nil, err
	}
	if s.Sink != nil {
		if err := s.Sink.Write(ctx, sctx.RunID, res.Assessments); err != nil {
			return nil, err
		}
	}
	log.Printf("[riskit] run %s: scored %d client(s) from %s", sctx.RunID, len(scored), source)
	return res, nil
}

// ScoreClients 执行 Pipeline。客户按 Workers 分块并发处理，结果按输入顺序返回；
// 任一分块失败则整体失败，不返回部分结果。
func (s *ScoringService) ScoreClients(ctx context.Context, sctx *core.ScoreContext, clients []*core.Client) ([]*core.Client, error) {
	if s.Pipeline == nil {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput, "scoring: pipeline not configured")
	}
	workers := s.Workers
	if workers <= 1 || len(clients) <= 1 {
		return s.Pipeline.Run(ctx, sctx, clients)
	}

	size := (len(clients) + workers - 1) / workers
	out := make([]*core.Client, len(clients))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(clients); start += size {
		end := min(start+size, len(clients))
		g.Go(func() error {
			chunk, err := s.Pipeline.Run(gctx, sctx, clients[start:end])
			if err != nil {
				return err
			}
			if len(chunk) != end-start {
				return fmt.Errorf("scoring: rows %d-%d: pipeline returned %d clients", start, end-1, len(chunk))
			}
			copy(out[start:end], chunk)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
