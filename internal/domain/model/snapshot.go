package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/LouYuanbo1/walletagent/internal/domain/entity"
	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
)

const (
	snapshotIndexPrefix = "wallet_snapshots-"
	// NoDataPlaceholder 缺失字符串字段的占位符
	NoDataPlaceholder = "无数据"
	// holdingsTextLimit 持仓文本只展示前几个代币,完整列表仍保留在提取结果里
	holdingsTextLimit = 5
)

// WalletSnapshot 一行反规范化的钱包快照,按日期分索引存储
// 字段顺序与原表头保持一致:地址,抓取时间,余额,总价值,买入,卖出,盈亏,
// 已实现/未实现/总利润,胜率,代币数量,成本字段,最后活跃时间,持有代币
type WalletSnapshot struct {
	WalletAddress         string    `json:"wallet_address"`
	ScrapedAt             time.Time `json:"scraped_at"`
	BalanceSol            float64   `json:"balance_sol"`
	TotalValueUsd         float64   `json:"total_value_usd"`
	BuyUsd                float64   `json:"buy_usd"`
	SellUsd               float64   `json:"sell_usd"`
	PnlUsd                float64   `json:"pnl_usd"`
	RealizedProfitUsd     float64   `json:"realized_profit_usd"`
	UnrealizedProfitUsd   float64   `json:"unrealized_profit_usd"`
	TotalProfitUsd        float64   `json:"total_profit_usd"`
	Winrate               float64   `json:"winrate"`
	TokenNum              float64   `json:"token_num"`
	HistoryBoughtCostUsd  float64   `json:"history_bought_cost_usd"`
	TokenAvgCostUsd       float64   `json:"token_avg_cost_usd"`
	TokenSoldAvgProfitUsd float64   `json:"token_sold_avg_profit_usd"`
	LastActiveAt          string    `json:"last_active_at"`
	HoldingsText          string    `json:"holdings_text"`
}

// NewWalletSnapshot 把一次提取结果压成快照行,缺失数值按0,缺失字符串按占位符
func NewWalletSnapshot(address string, result *entity.ExtractionResult, now time.Time) *WalletSnapshot {
	summary := result.Summary
	if summary == nil {
		summary = entity.WalletSummary{}
	}

	lastActive := NoDataPlaceholder
	if ts := int64(summary.Number("last_active_timestamp")); ts > 0 {
		lastActive = time.Unix(ts, 0).Format("2006-01-02 15:04:05")
	}

	return &WalletSnapshot{
		WalletAddress:         address,
		ScrapedAt:             now,
		BalanceSol:            summary.Number("balance"),
		TotalValueUsd:         summary.Number("total_value"),
		BuyUsd:                summary.Number("buy"),
		SellUsd:               summary.Number("sell"),
		PnlUsd:                summary.Number("pnl"),
		RealizedProfitUsd:     summary.Number("realized_profit"),
		UnrealizedProfitUsd:   summary.Number("unrealized_profit"),
		TotalProfitUsd:        summary.Number("total_profit"),
		Winrate:               summary.Number("winrate"),
		TokenNum:              summary.Number("token_num"),
		HistoryBoughtCostUsd:  summary.Number("history_bought_cost"),
		TokenAvgCostUsd:       summary.Number("token_avg_cost"),
		TokenSoldAvgProfitUsd: summary.Number("token_sold_avg_profit"),
		LastActiveAt:          lastActive,
		HoldingsText:          FormatHoldingsText(result.Holdings),
	}
}

// FormatHoldingsText 把持仓列表压成一段展示文本,只取前五个代币
// 这是展示层的截断,提取结果本身始终保留完整列表
func FormatHoldingsText(holdings []entity.HoldingEntry) string {
	if len(holdings) == 0 {
		return ""
	}
	tokens := make([]string, 0, holdingsTextLimit)
	for _, token := range holdings {
		if len(tokens) >= holdingsTextLimit {
			break
		}
		tokens = append(tokens, fmt.Sprintf("%s: %v ($%v)",
			token.Text("symbol", NoDataPlaceholder),
			token.Number("amount"),
			token.Number("value"),
		))
	}
	text := strings.Join(tokens, ", ")
	if len(holdings) > holdingsTextLimit {
		text += fmt.Sprintf(" 和其他 %d 个代币", len(holdings)-holdingsTextLimit)
	}
	return text
}

func (ws *WalletSnapshot) GetID() string {
	return fmt.Sprintf("%s-%d", ws.WalletAddress, ws.ScrapedAt.Unix())
}

// GetIndex 按快照日期返回索引名,nil接收者(仅用于取schema)按当天计算
func (ws *WalletSnapshot) GetIndex() string {
	t := time.Now()
	if ws != nil && !ws.ScrapedAt.IsZero() {
		t = ws.ScrapedAt
	}
	return snapshotIndexPrefix + t.Format("2006-01-02")
}

func (ws *WalletSnapshot) GetTypeMapping() *types.TypeMapping {
	return &types.TypeMapping{
		Properties: map[string]types.Property{
			"wallet_address":            types.NewKeywordProperty(),
			"scraped_at":                types.NewDateProperty(),
			"balance_sol":               types.NewDoubleNumberProperty(),
			"total_value_usd":           types.NewDoubleNumberProperty(),
			"buy_usd":                   types.NewDoubleNumberProperty(),
			"sell_usd":                  types.NewDoubleNumberProperty(),
			"pnl_usd":                   types.NewDoubleNumberProperty(),
			"realized_profit_usd":       types.NewDoubleNumberProperty(),
			"unrealized_profit_usd":     types.NewDoubleNumberProperty(),
			"total_profit_usd":          types.NewDoubleNumberProperty(),
			"winrate":                   types.NewDoubleNumberProperty(),
			"token_num":                 types.NewDoubleNumberProperty(),
			"history_bought_cost_usd":   types.NewDoubleNumberProperty(),
			"token_avg_cost_usd":        types.NewDoubleNumberProperty(),
			"token_sold_avg_profit_usd": types.NewDoubleNumberProperty(),
			"last_active_at":            types.NewKeywordProperty(),
			"holdings_text":             types.NewTextProperty(),
		},
	}
}
