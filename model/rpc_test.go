package model

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestRPCClusterModel_PredictBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Instances [][]float64 `json:"instances"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		clusters := make([]int, len(req.Instances))
		for i, v := range req.Instances {
			clusters[i] = int(v[0])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"clusters": clusters})
	}))
	defer srv.Close()

	m := NewRPCClusterModel("remote-kmeans", srv.URL, 0)
	got, err := m.PredictBatch([][]float64{{3, 1}, {0, 2}, {4, 0}})
	if err != nil {
		t.Fatalf("PredictBatch() error = %v", err)
	}
	if want := []int{3, 0, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("PredictBatch() = %v, want %v", got, want)
	}

	k, err := m.Predict([]float64{2})
	if err != nil || k != 2 {
		t.Errorf("Predict() = %d, %v", k, err)
	}
}

func TestRPCClusterModel_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "count mismatch",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"clusters": []}`))
			},
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			if _, err := NewRPCClusterModel("", srv.URL, 0).Predict([]float64{1}); err == nil {
				t.Error("Predict() error = nil")
			}
		})
	}
}
