package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/riskit/core"
)

// DefaultKeyPrefix 是 StoreSink 的默认 key 前缀。
const DefaultKeyPrefix = "riskit:"

// StoreSink 把结果以 JSON 写入 core.Store：
//   - {prefix}assessment:{id} → Document
//   - {prefix}run:{run_id}   → 该次运行的 id 列表（按输入顺序）
type StoreSink struct {
	Store  core.Store
	Prefix string
	TTL    int // 秒，0 表示不过期
}

func NewStoreSink(s core.Store, prefix string, ttl int) *StoreSink {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &StoreSink{Store: s, Prefix: prefix, TTL: ttl}
}

func (s *StoreSink) Name() string { return "store." + s.Store.Name() }

// AssessmentKey 返回单条结果的 key。
func (s *StoreSink) AssessmentKey(id string) string { return s.Prefix + "assessment:" + id }

// RunKey 返回运行索引的 key。
func (s *StoreSink) RunKey(runID string) string { return s.Prefix + "run:" + runID }

func (s *StoreSink) Write(ctx context.Context, runID string, assessments []*core.Assessment) error {
	kvs := make(map[string][]byte, len(assessments)+1)
	ids := make([]string, 0, len(assessments))
	for _, a := range assessments {
		data, err := marshalDocument(a)
		if err != nil {
			return fmt.Errorf("store sink: marshal %s: %w", a.ID, err)
		}
		kvs[s.AssessmentKey(a.ID)] = data
		ids = append(ids, a.ID)
	}
	index, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("store sink: marshal run index: %w", err)
	}
	kvs[s.RunKey(runID)] = index

	if err := s.Store.BatchSet(ctx, kvs, s.TTL); err != nil {
		return fmt.Errorf("store sink: %w", err)
	}
	return nil
}

// Load 读取一次运行的全部结果（按写入顺序）。
func (s *StoreSink) Load(ctx context.Context, runID string) ([]Document, error) {
	raw, err := s.Store.Get(ctx, s.RunKey(runID))
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("store sink: run index: %w", err)
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.AssessmentKey(id)
	}
	vals, err := s.Store.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make([]Document, 0, len(ids))
	for _, k := range keys {
		data, ok := vals[k]
		if !ok {
			continue
		}
		var d Document
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("store sink: %s: %w", k, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *StoreSink) Close() error { return s.Store.Close() }
