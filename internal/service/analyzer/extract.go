package analyzer

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/LouYuanbo1/walletagent/internal/domain/entity"
	"github.com/LouYuanbo1/walletagent/internal/infra/browser/types"
)

// 目标站数据API的路径片段,只做字面匹配,站点改版即失效
const (
	summaryPathFragment  = "/api/v1/wallet_stat/sol/"
	holdingsPathFragment = "/api/v1/wallet_holdings"
)

// entryOutcome 单条网络记录的处理结果,失败隔离到每条记录
type entryOutcome int

const (
	outcomeSummary entryOutcome = iota
	outcomeHoldings
	outcomeSkipped
	outcomeFailed
)

type traceExtractor struct {
	// fetchBody 按请求ID带外拉取响应体,由会话提供
	fetchBody func(requestID string) ([]byte, error)
}

func newTraceExtractor(fetchBody func(requestID string) ([]byte, error)) *traceExtractor {
	return &traceExtractor{fetchBody: fetchBody}
}

// Extract 遍历网络记录重建提取结果
// 摘要取最后一次匹配(不合并),持仓在所有匹配中累加,单条记录失败不影响其余
func (te *traceExtractor) Extract(entries []types.TraceEntry) *entity.ExtractionResult {
	var summary entity.WalletSummary
	var holdings []entity.HoldingEntry
	counts := make(map[entryOutcome]int)

	for _, entry := range entries {
		outcome := te.processEntry(entry, &summary, &holdings)
		counts[outcome]++
	}

	log.Printf("网络记录提取完成: 共 %d 条, 摘要 %d, 持仓 %d, 跳过 %d, 失败 %d",
		len(entries), counts[outcomeSummary], counts[outcomeHoldings],
		counts[outcomeSkipped], counts[outcomeFailed])
	return entity.NewExtractionResult(summary, holdings)
}

func (te *traceExtractor) processEntry(entry types.TraceEntry, summary *entity.WalletSummary, holdings *[]entity.HoldingEntry) entryOutcome {
	// 响应体没加载完的记录拿不到body,直接跳过
	if !entry.Finished {
		return outcomeSkipped
	}

	switch {
	case strings.Contains(entry.URL, summaryPathFragment):
		body, err := te.fetchBody(entry.RequestID)
		if err != nil {
			log.Printf("拉取摘要响应体失败 (URL: %s): %v", entry.URL, err)
			return outcomeFailed
		}
		var payload struct {
			Data entity.WalletSummary `json:"data"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			log.Printf("解析摘要响应失败 (URL: %s): %v", entry.URL, err)
			return outcomeFailed
		}
		if payload.Data == nil {
			log.Printf("摘要响应缺少data字段 (URL: %s)", entry.URL)
			return outcomeFailed
		}
		// 观察到多个摘要响应时以最后一个为准,失败不会清掉先前捕获的摘要
		*summary = payload.Data
		log.Printf("捕获钱包摘要: %s", entry.URL)
		return outcomeSummary

	case strings.Contains(entry.URL, holdingsPathFragment):
		body, err := te.fetchBody(entry.RequestID)
		if err != nil {
			log.Printf("拉取持仓响应体失败 (URL: %s): %v", entry.URL, err)
			return outcomeFailed
		}
		var payload struct {
			Data struct {
				Holdings []entity.HoldingEntry `json:"holdings"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			log.Printf("解析持仓响应失败 (URL: %s): %v", entry.URL, err)
			return outcomeFailed
		}
		// 滚动会触发多次持仓请求,这里只做累加,不按代币去重
		*holdings = append(*holdings, payload.Data.Holdings...)
		log.Printf("捕获钱包持仓 %d 条: %s", len(payload.Data.Holdings), entry.URL)
		return outcomeHoldings

	default:
		return outcomeSkipped
	}
}
