package main

import (
	"context"
	_ "embed"
	"log"

	"github.com/LouYuanbo1/walletagent/internal/config"
	"github.com/LouYuanbo1/walletagent/internal/domain/entity"
	"github.com/LouYuanbo1/walletagent/internal/domain/model"
	"github.com/LouYuanbo1/walletagent/internal/infra/browser"
	"github.com/LouYuanbo1/walletagent/internal/infra/llm"
	"github.com/LouYuanbo1/walletagent/internal/infra/persistence/es"
	"github.com/LouYuanbo1/walletagent/internal/service/analyzer"
	"github.com/LouYuanbo1/walletagent/internal/service/bot"
	"github.com/LouYuanbo1/walletagent/internal/service/insight"
	"github.com/LouYuanbo1/walletagent/internal/service/snapshot"
	"github.com/LouYuanbo1/walletagent/param"
)

//使用go:embed嵌入appconfig.json文件
//在实际使用时，注意与文件名的对应，仓库里保存的appconfig.json为样例，以实际为准
//When using it in practice, pay attention to the correspondence between the filename
//and your actual config file.

//go:embed appconfig/appconfig.json
var appConfig []byte

// 同时分析的最大并发数,每次分析都会拉起一个完整的浏览器进程,代价很高
const maxConcurrentAnalyses = 2

func main() {
	cfg, err := config.ParseConfig(appConfig)
	if err != nil {
		log.Fatalf("解析配置失败: %v", err)
	}

	ctx := context.Background()

	//运行前确保es服务启动完成
	esClient, err := es.InitTypedEsClient[*model.WalletSnapshot](cfg)
	if err != nil {
		log.Fatalf("初始化Elasticsearch客户端失败: %v", err)
	}
	sink := snapshot.InitSnapshotService(esClient)

	// AI点评是可选能力,LLM不可用时机器人照常工作
	var insightService insight.InsightService
	if cfg.LLM.Host != "" {
		llmClient, err := llm.InitLLM(ctx, cfg)
		if err != nil {
			log.Printf("初始化LLM失败,AI点评不可用: %v", err)
		} else {
			insightService = insight.InitInsightService(llmClient)
		}
	}

	analyzeParams := &param.Analyze{
		PageLoadWaitSeconds: cfg.Analyzer.PageLoadWaitSeconds,
		ElementWaitSeconds:  cfg.Analyzer.ElementWaitSeconds,
		SettleWaitSeconds:   cfg.Analyzer.SettleWaitSeconds,
	}

	// 每个批次使用一个独立的浏览器会话,会话内严格串行
	analyze := func(ctx context.Context, addresses []string) *entity.BatchResult {
		session, err := browser.InitChromedpSession(ctx, cfg)
		if err != nil {
			// 没有会话就没有任何结果,每个地址都带上同一个初始化错误
			batch := entity.NewBatchResult()
			for _, address := range addresses {
				batch.Set(address, entity.NewErrorResult(err.Error()))
			}
			return batch
		}
		defer session.Close()
		return analyzer.InitAnalyzerService(session, analyzeParams).AnalyzeBatch(ctx, addresses)
	}

	botService, err := bot.InitBotService(cfg.Telegram.Token, analyze, sink, insightService, maxConcurrentAnalyses)
	if err != nil {
		log.Fatalf("初始化Telegram Bot失败: %v", err)
	}

	log.Printf("钱包分析机器人已启动")
	if err := botService.Run(ctx); err != nil {
		log.Fatalf("机器人运行失败: %v", err)
	}
}
