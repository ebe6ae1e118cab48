package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/frame"
)

// CSVSink 把结果行写成 CSV 文件：校验后的字段 + PCA 坐标 + CLUSTER_KMEANS + RISK_LEVEL。
// 每次写入覆盖整个文件；内容先写到同目录的临时文件，提交时改名替换。
type CSVSink struct {
	Path string
}

func NewCSVSink(path string) *CSVSink { return &CSVSink{Path: path} }

func (s *CSVSink) Name() string { return "csv" }

func (s *CSVSink) Write(ctx context.Context, runID string, assessments []*core.Assessment) error {
	st, err := s.Stage(ctx, runID, assessments)
	if err != nil {
		return fmt.Errorf("csv sink: %w", err)
	}
	return st.Commit()
}

// Stage 把结果写到临时文件，Commit 前 Path 保持不变。
func (s *CSVSink) Stage(_ context.Context, _ string, assessments []*core.Assessment) (Staged, error) {
	t := frame.New()
	for _, a := range assessments {
		if err := t.AppendRecord(a.Record); err != nil {
			return nil, fmt.Errorf("row %d: %w", a.Row, err)
		}
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	if err := t.WriteCSV(f); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("write %s: %w", s.Path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, err
	}
	return &stagedFile{tmp: f.Name(), path: s.Path}, nil
}

func (s *CSVSink) Close() error { return nil }

type stagedFile struct {
	tmp  string
	path string
}

func (f *stagedFile) Commit() error {
	if err := os.Rename(f.tmp, f.path); err != nil {
		_ = os.Remove(f.tmp)
		return fmt.Errorf("csv sink: %w", err)
	}
	return nil
}

func (f *stagedFile) Abort() error {
	if err := os.Remove(f.tmp); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

var _ Stager = (*CSVSink)(nil)
