package types

// TraceEntry 一条被捕获的网络请求记录
// Finished 为 false 表示只观察到了响应头,响应体尚未加载完成
type TraceEntry struct {
	RequestID string
	URL       string
	Finished  bool
}

// ScrollStats 滚动容器统计,仅用于观测
type ScrollStats struct {
	TotalContainers    int `json:"totalContainers"`
	ScrolledContainers int `json:"scrolledContainers"`
}
