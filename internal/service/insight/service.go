package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/LouYuanbo1/walletagent/internal/domain/entity"
	"github.com/LouYuanbo1/walletagent/internal/domain/model"
	"github.com/LouYuanbo1/walletagent/internal/infra/llm"
	"github.com/cloudwego/eino/schema"
)

const systemPrompt = `你是一个Solana钱包分析助手。根据给出的钱包统计数据,用两三句话点评这个钱包的交易表现,语气客观,不要给出投资建议。`

// InsightService 根据钱包摘要生成一段自然语言点评,纯增强功能
type InsightService interface {
	Comment(ctx context.Context, address string, result *entity.ExtractionResult) (string, error)
}

type insightService struct {
	llm llm.LLM
}

func InitInsightService(llm llm.LLM) InsightService {
	return &insightService{llm: llm}
}

func (is *insightService) Comment(ctx context.Context, address string, result *entity.ExtractionResult) (string, error) {
	if result == nil || result.IsError() || result.Summary == nil {
		return "", fmt.Errorf("没有可点评的摘要数据 (钱包: %s)", address)
	}
	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(buildPrompt(address, result)),
	}
	resp, err := is.llm.Model().Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("生成点评失败: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}

// buildPrompt 把摘要里的关键字段压成一段提示词,缺失数值按0处理
func buildPrompt(address string, result *entity.ExtractionResult) string {
	summary := result.Summary
	var b strings.Builder
	fmt.Fprintf(&b, "钱包地址: %s\n", address)
	fmt.Fprintf(&b, "余额(SOL): %.4f\n", summary.Number("balance"))
	fmt.Fprintf(&b, "总价值($): %.2f\n", summary.Number("total_value"))
	fmt.Fprintf(&b, "盈亏($): %.2f\n", summary.Number("pnl"))
	fmt.Fprintf(&b, "已实现利润($): %.2f\n", summary.Number("realized_profit"))
	fmt.Fprintf(&b, "未实现利润($): %.2f\n", summary.Number("unrealized_profit"))
	fmt.Fprintf(&b, "胜率: %.2f%%\n", summary.Number("winrate")*100)
	fmt.Fprintf(&b, "持有代币数: %d\n", int(summary.Number("token_num")))
	if text := model.FormatHoldingsText(result.Holdings); text != "" {
		fmt.Fprintf(&b, "主要持仓: %s\n", text)
	}
	return b.String()
}
