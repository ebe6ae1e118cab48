package service

import (
	"context"
	"fmt"

	"github.com/rushteam/riskit/config"
	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/sink"
	"github.com/rushteam/riskit/store"
)

// NewStore 根据配置创建 core.Store 实例（工厂方法）。
func NewStore(ctx context.Context, cfg *config.StoreSink) (core.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("store config is required")
	}
	switch cfg.Backend {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		return store.OpenSQLite(cfg.Path)
	case "redis":
		return store.NewRedisStore(ctx, store.RedisOptions{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}

// OpenSinks 按配置打开全部结果输出：output 不为空时写 CSV，其后是 store 与 postgres。
// 任一输出打开失败时关闭已打开的部分并返回错误。
func OpenSinks(ctx context.Context, app *config.App) (sink.Multi, error) {
	var sinks sink.Multi
	if app.Output != "" {
		sinks = append(sinks, sink.NewCSVSink(app.Output))
	}
	if cfg := app.Sinks.Store; cfg != nil {
		s, err := NewStore(ctx, cfg)
		if err != nil {
			_ = sinks.Close()
			return nil, fmt.Errorf("open store sink: %w", err)
		}
		sinks = append(sinks, sink.NewStoreSink(s, cfg.Prefix, cfg.TTL))
	}
	if cfg := app.Sinks.Postgres; cfg != nil {
		pg, err := sink.OpenPostgres(ctx, cfg.Driver, cfg.URL)
		if err != nil {
			_ = sinks.Close()
			return nil, fmt.Errorf("open postgres sink: %w", err)
		}
		sinks = append(sinks, pg)
	}
	return sinks, nil
}
