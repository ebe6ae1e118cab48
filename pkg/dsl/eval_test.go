package dsl

import (
	"testing"

	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/pkg/utils"
)

func testClient(cluster int) *core.Client {
	c := core.NewClient(0, core.NewRecord(
		[]string{"CLAIM_PAID", "USAGE"},
		[]core.Value{core.Number(2500), core.String("CARGA")},
	))
	c.Cluster = cluster
	c.PutLabel("preprocess", utils.Label{Value: "v3", Source: "transform"})
	return c
}

func TestProgram_Eval(t *testing.T) {
	sctx := &core.ScoreContext{RunID: "r1", Params: map[string]any{"region": "north"}}
	tests := []struct {
		expr    string
		cluster int
		want    bool
	}{
		{expr: "cluster in [3, 4]", cluster: 3, want: true},
		{expr: "cluster in [3, 4]", cluster: 0, want: false},
		{expr: "cluster == 2 && record.CLAIM_PAID > 1000.0", cluster: 2, want: true},
		{expr: `record.USAGE == "PARTICULAR"`, cluster: 2, want: false},
		{expr: `label.preprocess == "v3"`, cluster: 0, want: true},
		{expr: `sctx.params.region == "north"`, cluster: 0, want: true},
		{expr: "has(record.CCM_TON)", cluster: 0, want: false},
		{expr: "", cluster: 0, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			got, err := p.Eval(testClient(tt.cluster), sctx)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	for _, expr := range []string{"cluster ==", "cluster + 1", "unknown_var > 1"} {
		if _, err := Compile(expr); err == nil {
			t.Errorf("Compile(%q) error = nil", expr)
		}
	}
}

func TestEvaluate_MissingField(t *testing.T) {
	if _, err := Evaluate("record.CCM_TON > 1.0", testClient(0), nil); err == nil {
		t.Error("Evaluate() error = nil, want missing key error")
	}
}
