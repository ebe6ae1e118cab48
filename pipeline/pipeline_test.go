package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/pkg/utils"
)

type stepNode struct {
	name string
	kind Kind
	err  error
}

func (n *stepNode) Name() string { return n.name }
func (n *stepNode) Kind() Kind   { return n.kind }

func (n *stepNode) Process(_ context.Context, _ *core.ScoreContext, clients []*core.Client) ([]*core.Client, error) {
	if n.err != nil {
		return nil, n.err
	}
	for _, c := range clients {
		c.PutLabel(n.name, utils.Label{Value: "seen", Source: string(n.kind)})
	}
	return clients, nil
}

func TestPipeline_Run(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		nodes   []Node
		wantErr string
	}{
		{name: "all nodes run", nodes: []Node{&stepNode{name: "a", kind: KindValidate}, &stepNode{name: "b", kind: KindPredict}}},
		{name: "error names the node", nodes: []Node{&stepNode{name: "a"}, &stepNode{name: "predict.cluster", err: boom}}, wantErr: "predict.cluster: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pipeline{Nodes: tt.nodes}
			clients := []*core.Client{core.NewClient(0, nil)}
			out, err := p.Run(context.Background(), &core.ScoreContext{}, clients)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr || out != nil {
					t.Fatalf("Run() = %v, %v; want nil, %q", out, err, tt.wantErr)
				}
				if !errors.Is(err, boom) {
					t.Error("error should wrap the node error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(out[0].Labels) != len(tt.nodes) {
				t.Errorf("labels = %v", out[0].Labels)
			}
		})
	}
}

func TestPipeline_RunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &Pipeline{Nodes: []Node{&stepNode{name: "a"}}}
	if _, err := p.Run(ctx, &core.ScoreContext{}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestConfig_BuildPipeline(t *testing.T) {
	f := NewNodeFactory()
	for _, k := range []Kind{KindValidate, KindTransform, KindPredict, KindClassify} {
		f.Register(string(k), func(cfg map[string]any) (Node, error) {
			if cfg == nil {
				return nil, fmt.Errorf("nil config")
			}
			return &stepNode{name: string(k), kind: k}, nil
		})
	}
	f.Register("broken", func(map[string]any) (Node, error) { return nil, errors.New("bad artifact") })

	cfg := &Config{}
	for _, typ := range []string{"validate", "transform", "predict", "classify"} {
		cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, NodeConfig{Type: typ})
	}
	p, err := cfg.BuildPipeline(f)
	if err != nil {
		t.Fatalf("BuildPipeline() error = %v", err)
	}
	want := []Kind{KindValidate, KindTransform, KindPredict, KindClassify}
	for i, k := range p.Kinds() {
		if k != want[i] {
			t.Errorf("Kinds()[%d] = %s, want %s", i, k, want[i])
		}
	}

	cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, NodeConfig{Type: "broken"}, NodeConfig{Type: "missing"})
	if _, err := cfg.BuildPipeline(f); err == nil {
		t.Error("BuildPipeline() should fail on broken/unknown nodes")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "p.yaml")
	jsonPath := filepath.Join(dir, "p.json")
	yamlBody := "pipeline:\n  name: risk\n  nodes:\n    - type: predict.cluster\n      config:\n        path: kmeans.json\n"
	jsonBody := `{"pipeline":{"name":"risk","nodes":[{"type":"predict.cluster","config":{"path":"kmeans.json"}}]}}`
	if err := os.WriteFile(yamlPath, []byte(yamlBody), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(jsonPath, []byte(jsonBody), 0o644); err != nil {
		t.Fatal(err)
	}

	for name, load := range map[string]func(string) (*Config, error){yamlPath: LoadFromYAML, jsonPath: LoadFromJSON} {
		cfg, err := load(name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if cfg.Pipeline.Name != "risk" || len(cfg.Pipeline.Nodes) != 1 || cfg.Pipeline.Nodes[0].Config["path"] != "kmeans.json" {
			t.Errorf("%s: cfg = %+v", filepath.Ext(name), cfg.Pipeline)
		}
	}
	if _, err := LoadFromYAML(filepath.Join(dir, "nope.yaml")); err == nil || !strings.Contains(err.Error(), "read file") {
		t.Errorf("missing file error = %v", err)
	}
}
