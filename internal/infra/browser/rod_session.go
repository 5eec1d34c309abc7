package browser

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/LouYuanbo1/walletagent/internal/config"
	"github.com/LouYuanbo1/walletagent/internal/infra/browser/types"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

type rodSession struct {
	browser *rod.Browser
	page    *rod.Page

	navTimeout time.Duration

	mu      sync.Mutex
	pending map[proto.NetworkRequestID]string
	trace   []types.TraceEntry
}

// InitRodSession 基于Rod+stealth的会话实现,与chromedp版本提供相同的语义
func InitRodSession(cfg *config.Config) (Session, error) {
	l := launcher.New().
		Headless(cfg.Rod.Headless).
		Leakless(cfg.Rod.Leakless)
	if cfg.Rod.Bin != "" {
		l = l.Bin(cfg.Rod.Bin)
	}
	if cfg.Rod.UserDataDir != "" {
		l = l.UserDataDir(cfg.Rod.UserDataDir)
	}
	if cfg.Rod.NoSandbox {
		l = l.Set("no-sandbox")
	}
	if cfg.Rod.DisableDevShmUsage {
		l = l.Set("disable-dev-shm-usage")
	}
	if cfg.Rod.DisableBlinkFeatures != "" {
		l = l.Set("disable-blink-features", cfg.Rod.DisableBlinkFeatures)
	}
	if cfg.Rod.Incognito {
		l = l.Set("incognito")
	}
	if cfg.Rod.UserAgent != "" {
		l = l.Set("user-agent", cfg.Rod.UserAgent)
	}
	if display := os.Getenv("DISPLAY"); display != "" {
		l = l.Set("display", display)
	}

	urlStr, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionInit, err)
	}
	b := rod.New().ControlURL(urlStr)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionInit, err)
	}
	page, err := stealth.Page(b)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("%w: %v", ErrSessionInit, err)
	}

	rs := &rodSession{
		browser:    b,
		page:       page,
		navTimeout: time.Duration(cfg.Analyzer.NavigationTimeoutSeconds) * time.Second,
		pending:    make(map[proto.NetworkRequestID]string),
	}
	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		b.Close()
		return nil, fmt.Errorf("%w: %v", ErrSessionInit, err)
	}
	go rs.page.EachEvent(
		func(e *proto.NetworkResponseReceived) {
			rs.mu.Lock()
			rs.pending[e.RequestID] = e.Response.URL
			rs.mu.Unlock()
		},
		func(e *proto.NetworkLoadingFinished) {
			rs.mu.Lock()
			if url, ok := rs.pending[e.RequestID]; ok {
				delete(rs.pending, e.RequestID)
				rs.trace = append(rs.trace, types.TraceEntry{
					RequestID: string(e.RequestID),
					URL:       url,
					Finished:  true,
				})
			}
			rs.mu.Unlock()
		},
	)()
	return rs, nil
}

func (rs *rodSession) Close() {
	rs.browser.Close()
}

func (rs *rodSession) Navigate(url string) error {
	p := rs.page.Timeout(rs.navTimeout)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("导航失败: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", ErrNavigationTimeout, url)
		}
		return fmt.Errorf("等待加载失败: %w", err)
	}
	return nil
}

func (rs *rodSession) Eval(js string, res any) error {
	obj, err := rs.page.Eval(js)
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}
	data, err := json.Marshal(obj.Value.Val())
	if err != nil {
		return err
	}
	return json.Unmarshal(data, res)
}

func (rs *rodSession) Click(selector string, timeout time.Duration) error {
	el, err := rs.page.Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("查找元素失败: %w", err)
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (rs *rodSession) ClickX(xpath string, timeout time.Duration) error {
	el, err := rs.page.Timeout(timeout).ElementX(xpath)
	if err != nil {
		return fmt.Errorf("查找元素失败: %w", err)
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (rs *rodSession) DrainTrace() []types.TraceEntry {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := rs.trace
	rs.trace = nil
	for id, url := range rs.pending {
		out = append(out, types.TraceEntry{RequestID: string(id), URL: url})
		delete(rs.pending, id)
	}
	return out
}

func (rs *rodSession) ResponseBody(requestID string) ([]byte, error) {
	res, err := proto.NetworkGetResponseBody{RequestID: proto.NetworkRequestID(requestID)}.Call(rs.page)
	if err != nil {
		return nil, fmt.Errorf("获取响应体失败 (RequestID: %s): %w", requestID, err)
	}
	if res.Base64Encoded {
		return base64.StdEncoding.DecodeString(res.Body)
	}
	return []byte(res.Body), nil
}
