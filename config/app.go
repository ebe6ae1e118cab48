package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/riskit/pipeline"
)

// 默认文件名（相对 model_dir）。
const (
	DefaultPreprocessorFile = "preprocessor.yaml"
	DefaultKMeansFile       = "kmeans.json"
	DefaultPCAFile          = "pca.json"
)

// App 是 riskit 的运行配置。
//
// 示例：
//
//	input: data/new_client.csv
//	output: out/scored.csv
//	model_dir: models
//	workers: 4
//	pipeline:
//	  name: risk
//	  nodes:
//	    - type: validate.schema
//	    - type: transform.preprocess
//	      config: {path: preprocessor.yaml}
//	    - type: predict.cluster
//	      config: {path: kmeans.json}
//	    - type: classify.static
//	      config: {very_high: [3, 4]}
//	sinks:
//	  store: {backend: sqlite, path: riskit.db}
//	  postgres: {driver: pgx, url: "postgres://..."}
type App struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	ModelDir string `yaml:"model_dir"`
	Workers  int    `yaml:"workers"`

	pipeline.Config `yaml:",inline"`

	Sinks Sinks `yaml:"sinks"`

	// dir 是配置文件所在目录，相对路径以此为基准
	dir string
}

// Sinks 描述评分结果除 CSV 外的落地方式，均为可选。
type Sinks struct {
	Store    *StoreSink    `yaml:"store"`
	Postgres *PostgresSink `yaml:"postgres"`
}

// StoreSink 配置 core.Store 后端：memory / redis / sqlite。
type StoreSink struct {
	Backend  string `yaml:"backend"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Path     string `yaml:"path"`
	Prefix   string `yaml:"prefix"`
	TTL      int    `yaml:"ttl"`
}

// PostgresSink 配置 Postgres 连接；Driver 为 postgres（lib/pq）或 pgx。
type PostgresSink struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
}

// Env 是可通过环境变量覆盖的配置项。
type Env struct {
	Config      string `env:"RISKIT_CONFIG"`
	ModelDir    string `env:"RISKIT_MODEL_DIR"`
	Workers     int    `env:"RISKIT_WORKERS"`
	RedisAddr   string `env:"RISKIT_REDIS_ADDR"`
	PostgresURL string `env:"RISKIT_POSTGRES_URL"`
}

// ParseEnv 读取环境变量。
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Load 读取 YAML 配置文件，应用环境变量覆盖、默认值与路径解析。
// path 为空时使用 RISKIT_CONFIG；两者都为空时只使用默认值（相对路径以当前目录为基准）。
func Load(path string) (*App, error) {
	e, err := ParseEnv()
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = e.Config
	}

	app := &App{dir: "."}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, app); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		app.dir = filepath.Dir(path)
	}
	app.ApplyEnv(e)
	if err := app.Finalize(); err != nil {
		return nil, err
	}
	return app, nil
}

// ApplyEnv 用非空的环境变量覆盖配置。
func (a *App) ApplyEnv(e Env) {
	if e.ModelDir != "" {
		a.ModelDir = e.ModelDir
	}
	if e.Workers > 0 {
		a.Workers = e.Workers
	}
	if e.RedisAddr != "" {
		if a.Sinks.Store == nil {
			a.Sinks.Store = &StoreSink{}
		}
		a.Sinks.Store.Backend = "redis"
		a.Sinks.Store.Addr = e.RedisAddr
	}
	if e.PostgresURL != "" {
		if a.Sinks.Postgres == nil {
			a.Sinks.Postgres = &PostgresSink{}
		}
		a.Sinks.Postgres.URL = e.PostgresURL
	}
}

// Finalize 填充默认值、解析相对路径并校验 pipeline。
func (a *App) Finalize() error {
	if a.dir == "" {
		a.dir = "."
	}
	if a.Workers <= 0 {
		a.Workers = runtime.NumCPU()
	}
	a.ModelDir = a.resolve(a.ModelDir)
	a.Input = a.resolve(a.Input)
	a.Output = a.resolve(a.Output)

	if len(a.Pipeline.Nodes) == 0 {
		a.Pipeline.Name = "default"
		a.Pipeline.Nodes = DefaultNodes()
	}
	for i := range a.Pipeline.Nodes {
		nc := &a.Pipeline.Nodes[i]
		p, ok := nc.Config["path"].(string)
		if !ok || p == "" || filepath.IsAbs(p) {
			continue
		}
		if a.ModelDir != "" {
			nc.Config["path"] = filepath.Join(a.ModelDir, p)
		} else {
			nc.Config["path"] = filepath.Join(a.dir, p)
		}
	}

	if s := a.Sinks.Store; s != nil {
		switch s.Backend {
		case "", "memory":
			s.Backend = "memory"
		case "sqlite":
			if s.Path == "" {
				return fmt.Errorf("sinks.store: sqlite needs path")
			}
			if s.Path != ":memory:" {
				s.Path = a.resolve(s.Path)
			}
		case "redis":
			if s.Addr == "" {
				return fmt.Errorf("sinks.store: redis needs addr")
			}
		default:
			return fmt.Errorf("sinks.store: unknown backend %q", s.Backend)
		}
	}
	if p := a.Sinks.Postgres; p != nil && p.URL == "" {
		return fmt.Errorf("sinks.postgres: url is required")
	}
	return ValidatePipelineConfig(&a.Config)
}

func (a *App) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.dir, p)
}

// DefaultNodes 返回默认评分链路：校验 → 预处理 → k-means → 静态分级。
func DefaultNodes() []pipeline.NodeConfig {
	return []pipeline.NodeConfig{
		{Type: "validate.schema", Config: map[string]any{}},
		{Type: "transform.preprocess", Config: map[string]any{"path": DefaultPreprocessorFile}},
		{Type: "predict.cluster", Config: map[string]any{"path": DefaultKMeansFile}},
		{Type: "classify.static", Config: map[string]any{}},
	}
}
