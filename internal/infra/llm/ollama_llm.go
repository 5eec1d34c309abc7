package llm

import (
	"context"
	"strconv"

	"github.com/LouYuanbo1/walletagent/internal/config"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	einomodel "github.com/cloudwego/eino/components/model"
)

type LLM interface {
	Model() einomodel.BaseChatModel
}

type ollamaLLM struct {
	model *ollama.ChatModel
}

// InitLLM 初始化Ollama聊天模型
func InitLLM(ctx context.Context, cfg *config.Config) (LLM, error) {
	model, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
		BaseURL: cfg.LLM.Host + ":" + strconv.Itoa(cfg.LLM.Port),
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, err
	}
	return &ollamaLLM{model: model}, nil
}

func (l *ollamaLLM) Model() einomodel.BaseChatModel {
	return l.model
}
