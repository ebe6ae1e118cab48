package model

// ClusterModel 是聚类阶段的最小抽象：输入预处理后的向量，输出聚类编号。
// 具体实现可以是本地模型（KMeans）或远程 RPC 服务。
type ClusterModel interface {
	Name() string
	Predict(vec []float64) (int, error)
}

// BatchClusterModel 支持一次预测多条向量（远程模型减少往返次数）。
type BatchClusterModel interface {
	ClusterModel
	PredictBatch(vecs [][]float64) ([]int, error)
}

// Projector 把向量投影到低维空间（PCA1, PCA2, ...）。
type Projector interface {
	Name() string
	Project(vec []float64) ([]float64, error)
}
