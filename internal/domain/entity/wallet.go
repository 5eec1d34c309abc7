package entity

import (
	"bytes"
	"encoding/json"
)

// WalletSummary 钱包统计摘要,来自wallet_stat响应的data对象,原样透传不做校验
type WalletSummary map[string]any

// HoldingEntry 单个持仓,来自wallet_holdings响应的data.holdings数组,原样透传
type HoldingEntry map[string]any

// Number 读取数值字段,缺失或类型不符时返回0
func numberField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Text 读取字符串字段,缺失时返回占位符
func textField(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func (ws WalletSummary) Number(key string) float64        { return numberField(ws, key) }
func (ws WalletSummary) Text(key, fallback string) string { return textField(ws, key, fallback) }
func (he HoldingEntry) Number(key string) float64         { return numberField(he, key) }
func (he HoldingEntry) Text(key, fallback string) string  { return textField(he, key, fallback) }

// ExtractionResult 单个地址的提取结果,成功与失败两种形态互斥
// 成功时序列化为 {"wallet_summary":…,"wallet_holdings":[…]},Summary为nil是合法结果
// 失败时序列化为 {"error":…}
type ExtractionResult struct {
	Summary  WalletSummary
	Holdings []HoldingEntry
	Err      string
}

func NewExtractionResult(summary WalletSummary, holdings []HoldingEntry) *ExtractionResult {
	return &ExtractionResult{Summary: summary, Holdings: holdings}
}

func NewErrorResult(message string) *ExtractionResult {
	return &ExtractionResult{Err: message}
}

func (er *ExtractionResult) IsError() bool {
	return er.Err != ""
}

func (er *ExtractionResult) MarshalJSON() ([]byte, error) {
	if er.IsError() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: er.Err})
	}
	holdings := er.Holdings
	if holdings == nil {
		holdings = []HoldingEntry{}
	}
	return json.Marshal(struct {
		Summary  WalletSummary  `json:"wallet_summary"`
		Holdings []HoldingEntry `json:"wallet_holdings"`
	}{Summary: er.Summary, Holdings: holdings})
}

// BatchResult 地址到提取结果的有序映射,插入顺序即请求顺序
type BatchResult struct {
	order   []string
	results map[string]*ExtractionResult
}

func NewBatchResult() *BatchResult {
	return &BatchResult{results: make(map[string]*ExtractionResult)}
}

// Set 记录一个地址的结果,重复写入保留首次的顺序位置
func (br *BatchResult) Set(address string, result *ExtractionResult) {
	if _, ok := br.results[address]; !ok {
		br.order = append(br.order, address)
	}
	br.results[address] = result
}

func (br *BatchResult) Get(address string) (*ExtractionResult, bool) {
	r, ok := br.results[address]
	return r, ok
}

func (br *BatchResult) Addresses() []string {
	out := make([]string, len(br.order))
	copy(out, br.order)
	return out
}

func (br *BatchResult) Len() int {
	return len(br.order)
}

// MarshalJSON 按请求顺序输出JSON对象,保证批次结果的键序稳定
func (br *BatchResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, address := range br.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(address)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(br.results[address])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
