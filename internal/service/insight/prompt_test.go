package insight

import (
	"testing"

	"github.com/LouYuanbo1/walletagent/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestBuildPromptIncludesKeyFields(t *testing.T) {
	result := entity.NewExtractionResult(entity.WalletSummary{
		"balance":     12.3456,
		"total_value": 1000.5,
		"pnl":         -42.0,
		"winrate":     0.65,
		"token_num":   7.0,
	}, []entity.HoldingEntry{
		{"symbol": "BONK", "amount": 100.0, "value": 50.0},
	})

	prompt := buildPrompt("walletA", result)

	assert.Contains(t, prompt, "钱包地址: walletA")
	assert.Contains(t, prompt, "余额(SOL): 12.3456")
	assert.Contains(t, prompt, "盈亏($): -42.00")
	assert.Contains(t, prompt, "胜率: 65.00%")
	assert.Contains(t, prompt, "持有代币数: 7")
	assert.Contains(t, prompt, "BONK")
}

func TestBuildPromptMissingFieldsAsZero(t *testing.T) {
	result := entity.NewExtractionResult(entity.WalletSummary{}, nil)

	prompt := buildPrompt("walletA", result)

	assert.Contains(t, prompt, "余额(SOL): 0.0000")
	assert.Contains(t, prompt, "胜率: 0.00%")
	// 没有持仓就不带持仓段落
	assert.NotContains(t, prompt, "主要持仓")
}
