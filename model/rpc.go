package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RPCClusterModel 是通过 HTTP 调用外部聚类服务的 ClusterModel 实现。
// 适用于模型由独立的 Python/Serving 服务托管的部署方式。
type RPCClusterModel struct {
	name     string
	Endpoint string // 例如 "http://localhost:8080/predict"
	Timeout  time.Duration
	Client   *http.Client
}

func NewRPCClusterModel(name, endpoint string, timeout time.Duration) *RPCClusterModel {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	if name == "" {
		name = "rpc"
	}
	return &RPCClusterModel{
		name:     name,
		Endpoint: endpoint,
		Timeout:  timeout,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (m *RPCClusterModel) Name() string {
	return m.name
}

// Predict 调用远程服务预测单条向量（内部调用批量接口）。
func (m *RPCClusterModel) Predict(vec []float64) (int, error) {
	clusters, err := m.PredictBatch([][]float64{vec})
	if err != nil {
		return 0, err
	}
	return clusters[0], nil
}

// PredictBatch 调用远程服务批量预测。
func (m *RPCClusterModel) PredictBatch(vecs [][]float64) ([]int, error) {
	return m.PredictBatchContext(context.Background(), vecs)
}

// PredictBatchContext 调用远程服务批量预测。
// 请求格式（JSON）：
//
//	{"instances": [[0.12, -1.3, ...], ...]}
//
// 响应格式（JSON）：
//
//	{"clusters": [3, 0, ...]}
func (m *RPCClusterModel) PredictBatchContext(ctx context.Context, vecs [][]float64) ([]int, error) {
	if m.Client == nil {
		m.Client = &http.Client{Timeout: m.Timeout}
	}

	if len(vecs) == 0 {
		return []int{}, nil
	}

	// 构建请求
	reqBody := map[string]any{
		"instances": vecs,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// 发送请求
	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("rpc error: status=%d, read body failed: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("rpc error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	// 解析响应
	var result struct {
		Clusters []int `json:"clusters"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(result.Clusters) != len(vecs) {
		return nil, fmt.Errorf("response clusters count mismatch: expected %d, got %d", len(vecs), len(result.Clusters))
	}

	return result.Clusters, nil
}
