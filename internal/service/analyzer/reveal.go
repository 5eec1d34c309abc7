package analyzer

import (
	"fmt"
	"log"
	"time"

	"github.com/LouYuanbo1/walletagent/internal/infra/browser"
	"github.com/LouYuanbo1/walletagent/internal/infra/browser/types"
)

// revealScript 在页面上下文里找出所有可滚动容器并拉到底
// 判定条件:计算样式overflowY为scroll或auto,且内容高度超过可视高度
const revealScript = `() => {
  let containers = Array.from(document.querySelectorAll('*')).filter(el => {
    let style = window.getComputedStyle(el);
    return (style.overflowY === 'scroll' || style.overflowY === 'auto') &&
           el.scrollHeight > el.clientHeight;
  });

  let scrolledContainers = 0;
  containers.forEach(container => {
    container.scrollTop = container.scrollHeight;
    scrolledContainers++;
  });

  return {
    totalContainers: containers.length,
    scrolledContainers: scrolledContainers
  };
}`

type contentRevealer struct {
	session    browser.Session
	settleWait time.Duration
}

func newContentRevealer(session browser.Session, settleWait time.Duration) *contentRevealer {
	return &contentRevealer{session: session, settleWait: settleWait}
}

// Run 执行两轮全量滚动:第一轮可能触发新的懒加载,第二轮把新内容也拉出来
// 找不到任何可滚动容器不算失败,返回的统计仅用于观测
func (cr *contentRevealer) Run() (types.ScrollStats, error) {
	var stats types.ScrollStats
	if err := cr.session.Eval(revealScript, &stats); err != nil {
		return stats, fmt.Errorf("滚动脚本执行失败: %w", err)
	}
	log.Printf("发现 %d 个可滚动容器,已滚动 %d 个", stats.TotalContainers, stats.ScrolledContainers)
	time.Sleep(cr.settleWait)

	if err := cr.session.Eval(revealScript, &stats); err != nil {
		return stats, fmt.Errorf("第二轮滚动脚本执行失败: %w", err)
	}
	log.Printf("第二轮滚动完成,捕获动态加载的内容")
	time.Sleep(cr.settleWait)

	return stats, nil
}
