package feature

import (
	"context"
	"testing"

	"github.com/rushteam/riskit/core"
)

func TestValidateNode_Process(t *testing.T) {
	fields := append([]string{"POLICY_ID"}, DefaultClientFields...)
	c := core.NewClient(0, clientRecord(fields...))

	node := &ValidateNode{
		Schema: NewSchema(nil),
		Inject: []Constant{{Field: "RISK_CATEGORY", Value: core.String("Normal")}},
	}
	node.Schema.Logf = func(string, ...any) {}

	out, err := node.Process(context.Background(), &core.ScoreContext{}, []*core.Client{c})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	rec := out[0].Record
	if rec.Has("POLICY_ID") {
		t.Error("extra field not dropped")
	}
	if rec.Len() != len(DefaultClientFields)+1 {
		t.Errorf("fields = %v", rec.Fields())
	}
	if v, _ := rec.Get("RISK_CATEGORY"); v.Text() != "Normal" {
		t.Errorf("RISK_CATEGORY = %q", v.Text())
	}
	if lbl := out[0].Labels["schema"]; lbl.Value != "dropped:POLICY_ID" || lbl.Source != "validate" {
		t.Errorf("label = %+v", lbl)
	}
}

func TestValidateNode_MissingFieldAborts(t *testing.T) {
	ok := core.NewClient(0, clientRecord(DefaultClientFields...))
	bad := core.NewClient(1, clientRecord(without(DefaultClientFields, "USAGE")...))

	node := &ValidateNode{Schema: NewSchema(nil)}
	out, err := node.Process(context.Background(), &core.ScoreContext{}, []*core.Client{ok, bad})
	if !core.IsMissingFields(err) {
		t.Fatalf("Process() error = %v, want MISSING_FIELDS", err)
	}
	if out != nil {
		t.Errorf("Process() returned partial result: %v", out)
	}
}

func TestTransformNode_Process(t *testing.T) {
	p, err := NewPreprocessor(PreprocessorArtifact{
		Columns: []ColumnSpec{
			{Name: "PREMIUM", Kind: ColumnNumeric, Scaler: "log"},
			{Name: "SEATS_NUM", Kind: ColumnNumeric, Scaler: "sqrt"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	c := core.NewClient(0, record("PREMIUM", core.Number(0), "SEATS_NUM", core.Number(4)))

	out, err := (&TransformNode{Preprocessor: p}).Process(context.Background(), &core.ScoreContext{}, []*core.Client{c})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if want := []float64{0, 2}; !equalVec(out[0].Vector, want) {
		t.Errorf("Vector = %v, want %v", out[0].Vector, want)
	}
}
