package core

import (
	"strconv"

	"github.com/rushteam/riskit/pkg/utils"
)

// 评分结果追加到输出行的默认列名。
const (
	FieldCluster          = "CLUSTER_KMEANS"
	FieldRiskLevel        = "RISK_LEVEL"
	FieldProjectionPrefix = "PCA"
)

// Client 是评分链路中的统一承载结构：原始记录、预处理向量、聚类、投影、风险等级与标签。
// Labels 用于解释（哪个节点、哪个模型、命中哪条规则）；Cluster/RiskLevel 是最终决策。
type Client struct {
	// Row 是输入文件中的行号（从 0 开始，不含表头），用于批量评分时保持顺序与定位错误
	Row int

	Record     *Record
	Vector     []float64
	Cluster    int
	Scored     bool // Cluster 是否已由模型给出
	Projection []float64
	RiskLevel  string
	Labels     map[string]utils.Label
}

func NewClient(row int, rec *Record) *Client {
	if rec == nil {
		rec = &Record{}
	}
	return &Client{
		Row:     row,
		Record:  rec,
		Cluster: -1,
		Labels:  make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Client) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// ResultRecord 返回输出行：校验后的字段 + 投影坐标（PCA1, PCA2, ...）+ 聚类 + 风险等级。
// 原记录不会被修改。
func (c *Client) ResultRecord() *Record {
	out := c.Record.Clone()
	if out == nil {
		out = &Record{}
	}
	for i, p := range c.Projection {
		out.Set(FieldProjectionPrefix+strconv.Itoa(i+1), Number(p))
	}
	if c.Scored {
		out.Set(FieldCluster, Number(float64(c.Cluster)))
	}
	if c.RiskLevel != "" {
		out.Set(FieldRiskLevel, String(c.RiskLevel))
	}
	return out
}
