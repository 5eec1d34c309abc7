package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/LouYuanbo1/walletagent/internal/domain/entity"
	"github.com/LouYuanbo1/walletagent/internal/domain/model"
	"github.com/LouYuanbo1/walletagent/internal/service/insight"
	"github.com/LouYuanbo1/walletagent/internal/service/snapshot"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/semaphore"
)

const startText = `您好！

我是钱包分析机器人,可以帮您分析 Solana 钱包地址。

使用 /analyze 加上钱包地址来分析一个钱包
或者直接发送钱包地址给我。

使用 /help 获取更多帮助。`

const helpText = `📊 钱包分析机器人使用说明 📊

命令列表:
/start - 开始使用机器人
/help - 显示此帮助信息
/analyze <钱包地址> - 分析指定的钱包地址

直接使用:
您也可以直接发送 Solana 钱包地址,我会自动为您分析。
支持多个地址(每行一个)。

注意:
分析过程可能需要一些时间,请耐心等待。`

// AnalyzeFunc 执行一批钱包分析,由装配方决定会话的创建方式
type AnalyzeFunc func(ctx context.Context, addresses []string) *entity.BatchResult

type BotService interface {
	Run(ctx context.Context) error
}

type botService struct {
	api     *tgbotapi.BotAPI
	analyze AnalyzeFunc
	sink    snapshot.SnapshotService
	insight insight.InsightService

	// 浏览器会话是独占且昂贵的资源,分析请求经有界信号量排队,不做无界并发
	sem *semaphore.Weighted

	mu sync.Mutex
	// lastResults 每个会话最近一次的分析结果,供保存按钮回调使用
	lastResults map[int64]map[string]*entity.ExtractionResult
}

// InitBotService 初始化Telegram机器人,insightSvc可以为nil表示不启用AI点评
func InitBotService(
	token string,
	analyze AnalyzeFunc,
	sink snapshot.SnapshotService,
	insightSvc insight.InsightService,
	maxConcurrent int64,
) (BotService, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("初始化Telegram Bot失败: %w", err)
	}
	log.Printf("Telegram Bot已授权: %s", api.Self.UserName)
	return &botService{
		api:         api,
		analyze:     analyze,
		sink:        sink,
		insight:     insightSvc,
		sem:         semaphore.NewWeighted(maxConcurrent),
		lastResults: make(map[int64]map[string]*entity.ExtractionResult),
	}, nil
}

func (bs *botService) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bs.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			bs.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			bs.dispatch(ctx, update)
		}
	}
}

func (bs *botService) dispatch(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		go bs.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}
	msg := update.Message
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			bs.reply(msg.Chat.ID, startText)
		case "help":
			bs.reply(msg.Chat.ID, helpText)
		case "analyze":
			addresses := strings.Fields(msg.CommandArguments())
			if len(addresses) == 0 {
				bs.reply(msg.Chat.ID, "请提供要分析的钱包地址。\n例如: /analyze 5YEdmMQcEt6MEKikYRZdrUwPwL5xhH5fqR2VZ4XXTL7c")
				return
			}
			go bs.handleAnalyze(ctx, msg.Chat.ID, addresses)
		default:
			bs.reply(msg.Chat.ID, "未知命令,使用 /help 查看帮助。")
		}
		return
	}
	// 非命令消息按钱包地址处理,支持每行一个地址
	addresses := strings.Fields(msg.Text)
	if len(addresses) == 0 {
		return
	}
	go bs.handleAnalyze(ctx, msg.Chat.ID, addresses)
}

func (bs *botService) handleAnalyze(ctx context.Context, chatID int64, addresses []string) {
	bs.reply(chatID, fmt.Sprintf("正在分析 %d 个钱包地址,这可能需要一些时间,请耐心等待...", len(addresses)))

	if err := bs.sem.Acquire(ctx, 1); err != nil {
		log.Printf("获取分析信号量失败: %v", err)
		return
	}
	defer bs.sem.Release(1)

	batch := bs.analyze(ctx, addresses)
	for _, address := range batch.Addresses() {
		result, _ := batch.Get(address)
		bs.cacheResult(chatID, address, result)

		msg := tgbotapi.NewMessage(chatID, renderResult(address, result))
		if !result.IsError() {
			msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("💾 保存快照", "save:"+address),
				),
			)
		}
		if _, err := bs.api.Send(msg); err != nil {
			log.Printf("发送分析结果失败: %v", err)
		}

		bs.sendInsight(ctx, chatID, address, result)
	}
}

func (bs *botService) sendInsight(ctx context.Context, chatID int64, address string, result *entity.ExtractionResult) {
	if bs.insight == nil || result.IsError() || result.Summary == nil {
		return
	}
	comment, err := bs.insight.Comment(ctx, address, result)
	if err != nil {
		log.Printf("生成AI点评失败 (钱包: %s): %v", address, err)
		return
	}
	if comment != "" {
		bs.reply(chatID, "🤖 AI点评:\n"+comment)
	}
}

func (bs *botService) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := bs.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("应答回调失败: %v", err)
	}
	address, ok := strings.CutPrefix(query.Data, "save:")
	if !ok || query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID

	result, found := bs.cachedResult(chatID, address)
	if !found {
		bs.reply(chatID, "找不到该钱包的分析结果,请重新分析后再保存。")
		return
	}
	link, saved := bs.sink.Save(ctx, address, result)
	if !saved {
		bs.reply(chatID, "保存快照失败,请稍后重试。")
		return
	}
	bs.reply(chatID, "快照已保存:\n"+link)
}

func (bs *botService) cacheResult(chatID int64, address string, result *entity.ExtractionResult) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if bs.lastResults[chatID] == nil {
		bs.lastResults[chatID] = make(map[string]*entity.ExtractionResult)
	}
	bs.lastResults[chatID][address] = result
}

func (bs *botService) cachedResult(chatID int64, address string) (*entity.ExtractionResult, bool) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	result, ok := bs.lastResults[chatID][address]
	return result, ok
}

func (bs *botService) reply(chatID int64, text string) {
	if _, err := bs.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("发送消息失败: %v", err)
	}
}

// renderResult 把单个钱包的结果渲染成聊天文本
// 缺失的数值字段按0展示,缺失的字符串字段用占位符
func renderResult(address string, result *entity.ExtractionResult) string {
	if result.IsError() {
		return fmt.Sprintf("❌ 分析失败\n地址: %s\n原因: %s", address, result.Err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 钱包分析结果\n地址: %s\n\n", address)
	if result.Summary == nil {
		b.WriteString("未捕获到钱包摘要数据\n")
	} else {
		summary := result.Summary
		fmt.Fprintf(&b, "余额(SOL): %.4f\n", summary.Number("balance"))
		fmt.Fprintf(&b, "总价值($): %.2f\n", summary.Number("total_value"))
		fmt.Fprintf(&b, "盈亏($): %.2f\n", summary.Number("pnl"))
		fmt.Fprintf(&b, "总利润($): %.2f\n", summary.Number("total_profit"))
		fmt.Fprintf(&b, "胜率: %.2f%%\n", summary.Number("winrate")*100)
		fmt.Fprintf(&b, "代币数量: %d\n", int(summary.Number("token_num")))
	}
	if text := model.FormatHoldingsText(result.Holdings); text != "" {
		fmt.Fprintf(&b, "\n持有代币: %s\n", text)
	}
	return b.String()
}
