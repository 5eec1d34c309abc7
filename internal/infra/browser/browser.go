package browser

import (
	"errors"
	"time"

	"github.com/LouYuanbo1/walletagent/internal/infra/browser/types"
)

var (
	// ErrSessionInit 浏览器进程无法启动,整批任务终止
	ErrSessionInit = errors.New("浏览器会话初始化失败")
	// ErrNavigationTimeout 页面加载超出预算,仅影响当前地址
	ErrNavigationTimeout = errors.New("导航超时")
)

// Session 一个可编程的浏览器会话,同一时刻只允许一条流水线使用
// Eval 的 js 参数约定为零参箭头函数,例如 `() => document.title`
type Session interface {
	Navigate(url string) error
	Eval(js string, res any) error
	Click(selector string, timeout time.Duration) error
	ClickX(xpath string, timeout time.Duration) error
	// DrainTrace 返回自上次调用以来捕获的全部网络记录并清空缓存
	// 调用方需要在导航前先清空,保证每个地址只看到自己的流量
	DrainTrace() []types.TraceEntry
	ResponseBody(requestID string) ([]byte, error)
	Close()
}
