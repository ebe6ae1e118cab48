package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rushteam/riskit/config"
	_ "github.com/rushteam/riskit/config/builders"
	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/feature"
	"github.com/rushteam/riskit/frame"
	"github.com/rushteam/riskit/model"
	"github.com/rushteam/riskit/pipeline"
	"github.com/rushteam/riskit/risk"
	"github.com/rushteam/riskit/sink"
)

var testdata = filepath.Join("..", "testdata")

func loadApp(t *testing.T) *config.App {
	t.Helper()
	for _, k := range []string{"RISKIT_CONFIG", "RISKIT_MODEL_DIR", "RISKIT_WORKERS", "RISKIT_REDIS_ADDR", "RISKIT_POSTGRES_URL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	app, err := config.Load(filepath.Join(testdata, "riskit.yaml"))
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	app.Output = filepath.Join(t.TempDir(), "scored.csv")
	app.Sinks.Store = &config.StoreSink{Backend: "memory"}
	return app
}

func TestScoringService_EndToEnd(t *testing.T) {
	app := loadApp(t)
	ctx := context.Background()
	svc, err := New(ctx, app)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer svc.Close()

	res, err := svc.ScoreFile(ctx, app.Input, true)
	if err != nil {
		t.Fatalf("ScoreFile() error = %v", err)
	}
	want := []struct {
		cluster int
		level   string
	}{{3, "Very High"}, {0, "Normal"}, {1, "Normal"}}
	if len(res.Assessments) != len(want) {
		t.Fatalf("assessments = %d, want %d", len(res.Assessments), len(want))
	}
	for i, w := range want {
		a := res.Assessments[i]
		if a.Row != i || a.Cluster != w.cluster || a.RiskLevel != w.level {
			t.Errorf("row %d = (%d, %d, %q), want (%d, %q)", i, a.Row, a.Cluster, a.RiskLevel, w.cluster, w.level)
		}
	}

	out, err := frame.ReadCSVFile(app.Output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	wantCols := append(append([]string(nil), feature.DefaultClientFields...), "PCA1", "PCA2", core.FieldCluster, core.FieldRiskLevel)
	if got := out.Names(); len(got) != len(wantCols) {
		t.Fatalf("output columns = %v, want %v", got, wantCols)
	} else {
		for i := range got {
			if got[i] != wantCols[i] {
				t.Errorf("column %d = %q, want %q", i, got[i], wantCols[i])
			}
		}
	}

	multi := svc.Sink.(sink.Multi)
	docs, err := multi[1].(*sink.StoreSink).Load(ctx, res.RunID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(docs) != 3 || docs[0].RiskLevel != "Very High" {
		t.Errorf("stored docs = %+v", docs)
	}
}

func TestScoringService_ScoreFirst(t *testing.T) {
	app := loadApp(t)
	app.Sinks.Store = nil
	ctx := context.Background()
	svc, err := New(ctx, app)
	if err != nil {
		t.Fatal(err)
	}
	fixed := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return fixed }

	res, err := svc.ScoreFile(ctx, app.Input, false)
	if err != nil {
		t.Fatalf("ScoreFile() error = %v", err)
	}
	if len(res.Assessments) != 1 {
		t.Fatalf("ScoreFirst scored %d rows", len(res.Assessments))
	}
	a := res.Assessments[0]
	if a.RiskLevel != string(risk.VeryHigh) || !a.ScoredAt.Equal(fixed) {
		t.Errorf("assessment = %+v", a)
	}
	if _, err := svc.ScoreFirst(ctx, frame.New("SEX"), "empty"); err == nil {
		t.Error("ScoreFirst on empty table should fail")
	}
}

func TestScoringService_NonFiniteInputFails(t *testing.T) {
	app := loadApp(t)
	ctx := context.Background()
	svc, err := New(ctx, app)
	if err != nil {
		t.Fatal(err)
	}
	defer svc.Close()

	input := filepath.Join(t.TempDir(), "clients.csv")
	data := "SEX,INSURED_VALUE,PREMIUM,SEATS_NUM,CARRYING_CAPACITY,CCM_TON,MAKE,USAGE,CLAIM_PAID\n" +
		"M,30000,inf,2,15,12,NISSAN,CARGA,0\n"
	if err := os.WriteFile(input, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := svc.ScoreFile(ctx, input, true)
	if err == nil {
		t.Fatalf("ScoreFile() scored %+v, want error", res.Assessments[0])
	}
	if de := core.GetDomainError(err); de == nil || de.Code != core.ErrorCodeNotNumeric {
		t.Errorf("ScoreFile() error = %v, want NOT_NUMERIC", err)
	}
	if _, err := os.Stat(app.Output); !os.IsNotExist(err) {
		t.Errorf("output written for invalid input: %v", err)
	}
}

type failingSink struct{}

func (failingSink) Name() string { return "failing" }
func (failingSink) Write(context.Context, string, []*core.Assessment) error {
	return errors.New("connection refused")
}
func (failingSink) Close() error { return nil }

func TestScoringService_SinkFailureLeavesNoOutput(t *testing.T) {
	app := loadApp(t)
	app.Sinks.Store = nil
	ctx := context.Background()
	svc, err := New(ctx, app)
	if err != nil {
		t.Fatal(err)
	}
	svc.Sink = sink.Multi{sink.NewCSVSink(app.Output), failingSink{}}

	if _, err := svc.ScoreFile(ctx, app.Input, true); err == nil {
		t.Fatal("ScoreFile() error = nil")
	}
	if _, err := os.Stat(app.Output); !os.IsNotExist(err) {
		t.Errorf("csv output left behind after sink failure: %v", err)
	}
}

type spyModel struct{ calls atomic.Int32 }

func (m *spyModel) Name() string { return "spy" }
func (m *spyModel) Predict([]float64) (int, error) {
	m.calls.Add(1)
	return 3, nil
}

func TestScoringService_MissingFieldsBeforePredict(t *testing.T) {
	spy := &spyModel{}
	svc := &ScoringService{
		Pipeline: &pipeline.Pipeline{Nodes: []pipeline.Node{
			&feature.ValidateNode{Schema: feature.NewSchema(nil)},
			&model.ClusterNode{Model: spy},
			&risk.ClassifyNode{Classifier: risk.DefaultStaticClassifier()},
		}},
		Workers: 1,
	}

	tb, err := frame.ReadCSVFile(filepath.Join(testdata, "clients.csv"))
	if err != nil {
		t.Fatal(err)
	}
	col, _ := tb.Column("CLAIM_PAID")
	trimmed := frame.New()
	for _, name := range tb.Names() {
		if name == col.Name {
			continue
		}
		c, _ := tb.Column(name)
		if err := trimmed.AddColumn(name, c.Values); err != nil {
			t.Fatal(err)
		}
	}

	_, err = svc.ScoreFirst(context.Background(), trimmed, "trimmed")
	if !core.IsMissingFields(err) {
		t.Fatalf("error = %v, want MISSING_FIELDS", err)
	}
	if n := spy.calls.Load(); n != 0 {
		t.Errorf("model called %d times before validation failed", n)
	}
}

func TestScoringService_ConcurrentOrder(t *testing.T) {
	spy := &spyModel{}
	svc := &ScoringService{
		Pipeline: &pipeline.Pipeline{Nodes: []pipeline.Node{
			&model.ClusterNode{Model: spy},
		}},
		Workers: 3,
	}
	clients := make([]*core.Client, 10)
	for i := range clients {
		clients[i] = core.NewClient(i, nil)
		clients[i].Vector = []float64{float64(i)}
	}
	out, err := svc.ScoreClients(context.Background(), &core.ScoreContext{}, clients)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range out {
		if c.Row != i || !c.Scored {
			t.Errorf("out[%d] = row %d scored=%v", i, c.Row, c.Scored)
		}
	}
	if n := spy.calls.Load(); n != 10 {
		t.Errorf("calls = %d, want 10", n)
	}
}
