package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/LouYuanbo1/walletagent/internal/config"
	"github.com/LouYuanbo1/walletagent/internal/infra/browser"
	"github.com/LouYuanbo1/walletagent/internal/service/analyzer"
	"github.com/LouYuanbo1/walletagent/param"
	"github.com/spf13/cobra"
)

//使用go:embed嵌入appconfig.json文件
//在实际使用时，注意与文件名的对应，仓库里保存的appconfig.json为样例，以实际为准
//When using it in practice, pay attention to the correspondence between the filename
//and your actual config file.

//go:embed appconfig/appconfig.json
var appConfig []byte

var (
	keepOpen bool
	clean    bool
	engine   string
)

var rootCmd = &cobra.Command{
	Use:   "analyze <钱包地址> [钱包地址...]",
	Short: "分析Solana钱包并以JSON输出结果",
	Long: `通过自动化浏览器访问gmgn.ai的钱包页,从页面自身的后台请求里
重建钱包摘要和持仓数据,结果以JSON输出到标准输出。`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	rootCmd.Flags().BoolVar(&keepOpen, "keep-open", false, "输出结果后保持浏览器打开,仅用于人工检查,进程不会退出")
	rootCmd.Flags().BoolVar(&clean, "clean", false, "紧凑JSON输出(无缩进),字段内容与默认输出完全一致")
	rootCmd.Flags().StringVar(&engine, "engine", "chromedp", "浏览器引擎: chromedp 或 rod")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.ParseConfig(appConfig)
	if err != nil {
		return fmt.Errorf("解析配置失败: %w", err)
	}

	ctx := context.Background()

	// 会话起不来就没有任何结果,直接终止整批任务
	var session browser.Session
	switch engine {
	case "rod":
		session, err = browser.InitRodSession(cfg)
	default:
		session, err = browser.InitChromedpSession(ctx, cfg)
	}
	if err != nil {
		return err
	}

	analyzeParams := &param.Analyze{
		PageLoadWaitSeconds: cfg.Analyzer.PageLoadWaitSeconds,
		ElementWaitSeconds:  cfg.Analyzer.ElementWaitSeconds,
		SettleWaitSeconds:   cfg.Analyzer.SettleWaitSeconds,
	}
	service := analyzer.InitAnalyzerService(session, analyzeParams)
	batch := service.AnalyzeBatch(ctx, args)

	var out []byte
	if clean {
		out, err = json.Marshal(batch)
	} else {
		out, err = json.MarshalIndent(batch, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("序列化结果失败: %w", err)
	}
	fmt.Println(string(out))

	if keepOpen {
		// 仅供人工检查的分支:浏览器保持存活,这条路径永远不返回
		log.Printf("浏览器保持打开以供检查,按 Ctrl+C 退出")
		for {
			time.Sleep(3 * time.Second)
		}
	}

	session.Close()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("分析失败: %v", err)
	}
}
