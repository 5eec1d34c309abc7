package param

import "time"

// Analyze 一次批量钱包分析的等待参数
type Analyze struct {
	PageLoadWaitSeconds int `json:"page_load_wait_seconds"`
	ElementWaitSeconds  int `json:"element_wait_seconds"`
	SettleWaitSeconds   int `json:"settle_wait_seconds"`
}

func (a *Analyze) IsValid() bool {
	return a.PageLoadWaitSeconds > 0 &&
		a.ElementWaitSeconds > 0 &&
		a.SettleWaitSeconds > 0
}

func (a *Analyze) PageLoadWait() time.Duration {
	return time.Duration(a.PageLoadWaitSeconds) * time.Second
}

func (a *Analyze) ElementWait() time.Duration {
	return time.Duration(a.ElementWaitSeconds) * time.Second
}

func (a *Analyze) SettleWait() time.Duration {
	return time.Duration(a.SettleWaitSeconds) * time.Second
}
