package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/LouYuanbo1/walletagent/internal/config"
	"github.com/LouYuanbo1/walletagent/internal/infra/browser/types"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

type chromedpSession struct {
	allocCtx    context.Context
	allocCtxFuc context.CancelFunc
	pageCtx     context.Context
	pageCtxFuc  context.CancelFunc

	navTimeout time.Duration

	mu      sync.Mutex
	pending map[network.RequestID]string
	trace   []types.TraceEntry
}

// InitChromedpSession 启动一个带反检测参数和全量网络监听的Chrome会话
func InitChromedpSession(ctx context.Context, cfg *config.Config) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Chromedp.Headless),
		chromedp.Flag("disable-blink-features", cfg.Chromedp.DisableBlinkFeatures),
		chromedp.Flag("incognito", cfg.Chromedp.Incognito),
		chromedp.Flag("disable-dev-shm-usage", cfg.Chromedp.DisableDevShmUsage),
		chromedp.Flag("no-sandbox", cfg.Chromedp.NoSandbox),
		chromedp.UserDataDir(cfg.Chromedp.UserDataDir),
		chromedp.UserAgent(cfg.Chromedp.UserAgent),
	)
	// 容器内运行时把宿主的显示目标转发给浏览器
	if display := os.Getenv("DISPLAY"); display != "" {
		opts = append(opts, chromedp.Flag("display", display))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	pageCtx, cancelPage := chromedp.NewContext(allocCtx)

	cs := &chromedpSession{
		allocCtx:    allocCtx,
		allocCtxFuc: cancelAlloc,
		pageCtx:     pageCtx,
		pageCtxFuc:  cancelPage,
		navTimeout:  time.Duration(cfg.Analyzer.NavigationTimeoutSeconds) * time.Second,
		pending:     make(map[network.RequestID]string),
	}
	cs.setNetworkListener()

	// 第一次Run才会真正拉起浏览器进程,在这里暴露启动失败
	if err := chromedp.Run(pageCtx, network.Enable()); err != nil {
		cs.Close()
		return nil, fmt.Errorf("%w: %v", ErrSessionInit, err)
	}
	return cs, nil
}

func (cs *chromedpSession) Close() {
	cs.pageCtxFuc()
	cs.allocCtxFuc()
}

// setNetworkListener 记录所有响应头,在响应体加载完成时把记录提升到trace缓存
func (cs *chromedpSession) setNetworkListener() {
	chromedp.ListenTarget(cs.pageCtx, func(ev any) {
		switch ev := ev.(type) {
		case *network.EventResponseReceived:
			cs.mu.Lock()
			cs.pending[ev.RequestID] = ev.Response.URL
			cs.mu.Unlock()
		case *network.EventLoadingFinished:
			cs.mu.Lock()
			if url, ok := cs.pending[ev.RequestID]; ok {
				delete(cs.pending, ev.RequestID)
				cs.trace = append(cs.trace, types.TraceEntry{
					RequestID: string(ev.RequestID),
					URL:       url,
					Finished:  true,
				})
			}
			cs.mu.Unlock()
		}
	})
}

func (cs *chromedpSession) Navigate(url string) error {
	tctx, cancel := context.WithTimeout(cs.pageCtx, cs.navTimeout)
	defer cancel()
	err := chromedp.Run(tctx,
		network.Enable(),
		chromedp.Navigate(url),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", ErrNavigationTimeout, url)
		}
		return fmt.Errorf("导航失败: %w", err)
	}
	return nil
}

func (cs *chromedpSession) Eval(js string, res any) error {
	// chromedp以表达式求值,把约定的箭头函数包成IIFE
	return chromedp.Run(cs.pageCtx, chromedp.Evaluate("("+js+")()", res))
}

func (cs *chromedpSession) Click(selector string, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(cs.pageCtx, timeout)
	defer cancel()
	return chromedp.Run(tctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
}

func (cs *chromedpSession) ClickX(xpath string, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(cs.pageCtx, timeout)
	defer cancel()
	return chromedp.Run(tctx,
		chromedp.WaitVisible(xpath, chromedp.BySearch),
		chromedp.Click(xpath, chromedp.BySearch),
	)
}

func (cs *chromedpSession) DrainTrace() []types.TraceEntry {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := cs.trace
	cs.trace = nil
	// 响应体未加载完的记录也一并排出,由提取器按Finished跳过
	for id, url := range cs.pending {
		out = append(out, types.TraceEntry{RequestID: string(id), URL: url})
		delete(cs.pending, id)
	}
	return out
}

func (cs *chromedpSession) ResponseBody(requestID string) ([]byte, error) {
	c := chromedp.FromContext(cs.pageCtx)
	ctx := cdp.WithExecutor(cs.pageCtx, c.Target)
	body, err := network.GetResponseBody(network.RequestID(requestID)).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取响应体失败 (RequestID: %s): %w", requestID, err)
	}
	return body, nil
}
