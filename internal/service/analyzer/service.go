package analyzer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/LouYuanbo1/walletagent/internal/domain/entity"
	"github.com/LouYuanbo1/walletagent/internal/infra/browser"
	"github.com/LouYuanbo1/walletagent/param"
)

// walletURLTemplate 目标站的钱包页模板,与API路径片段一样是字面耦合
const walletURLTemplate = "https://gmgn.ai/sol/address/%s"

type AnalyzerService interface {
	// AnalyzeBatch 在同一个会话里顺序处理所有地址,每个地址恰好产生一个结果
	// 单个地址的失败被隔离为该地址的错误结果,批次不会因此中断
	AnalyzeBatch(ctx context.Context, addresses []string) *entity.BatchResult
}

type analyzerService struct {
	session      browser.Session
	pageLoadWait time.Duration
	elementWait  time.Duration
	settleWait   time.Duration
}

func InitAnalyzerService(session browser.Session, p *param.Analyze) AnalyzerService {
	return &analyzerService{
		session:      session,
		pageLoadWait: p.PageLoadWait(),
		elementWait:  p.ElementWait(),
		settleWait:   p.SettleWait(),
	}
}

func (as *analyzerService) AnalyzeBatch(ctx context.Context, addresses []string) *entity.BatchResult {
	log.Printf("开始批量分析 %d 个钱包", len(addresses))
	batch := entity.NewBatchResult()
	for _, address := range addresses {
		if err := ctx.Err(); err != nil {
			batch.Set(address, entity.NewErrorResult(err.Error()))
			continue
		}
		batch.Set(address, as.analyzeOne(address))
	}
	log.Printf("批量分析完成: %d 个结果", batch.Len())
	return batch
}

// analyzeOne 单个地址的完整流水线,所有异常都收敛在这个边界
func (as *analyzerService) analyzeOne(address string) (result *entity.ExtractionResult) {
	// Rod实现里的部分失败以panic形式抛出,在这里统一转成错误结果
	defer func() {
		if r := recover(); r != nil {
			log.Printf("分析钱包 %s 时发生异常: %v", address, r)
			result = entity.NewErrorResult(fmt.Sprint(r))
		}
	}()

	log.Printf("开始分析钱包: %s", address)

	// 先清掉上一个地址残留的流量,保证trace只属于本地址
	as.session.DrainTrace()

	if err := as.session.Navigate(fmt.Sprintf(walletURLTemplate, address)); err != nil {
		return entity.NewErrorResult(err.Error())
	}
	time.Sleep(as.pageLoadWait)

	onboarding := newOnboardingController(as.session, as.elementWait, as.settleWait)
	state := onboarding.Run()
	log.Printf("引导流程结束于状态: %s", state)
	onboarding.ActivateContentTab()

	revealer := newContentRevealer(as.session, as.settleWait)
	if _, err := revealer.Run(); err != nil {
		return entity.NewErrorResult(err.Error())
	}

	extractor := newTraceExtractor(as.session.ResponseBody)
	result = extractor.Extract(as.session.DrainTrace())
	log.Printf("钱包 %s 分析完成 (摘要: %v, 持仓: %d 条)",
		address, result.Summary != nil, len(result.Holdings))
	return result
}
