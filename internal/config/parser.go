package config

import (
	"encoding/json"
	"path/filepath"
)

// 分析引擎的默认等待参数,单位秒
const (
	defaultNavigationTimeoutSeconds = 60
	defaultPageLoadWaitSeconds      = 3
	defaultElementWaitSeconds       = 10
	defaultSettleWaitSeconds        = 2
)

func ParseConfig(byteConfig []byte) (*Config, error) {
	var cfg Config
	err := json.Unmarshal(byteConfig, &cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Chromedp.UserDataDir != "" {
		absPath, err := filepath.Abs(cfg.Chromedp.UserDataDir)
		if err != nil {
			return nil, err
		}
		cfg.Chromedp.UserDataDir = absPath
	}
	if cfg.Analyzer.NavigationTimeoutSeconds <= 0 {
		cfg.Analyzer.NavigationTimeoutSeconds = defaultNavigationTimeoutSeconds
	}
	if cfg.Analyzer.PageLoadWaitSeconds <= 0 {
		cfg.Analyzer.PageLoadWaitSeconds = defaultPageLoadWaitSeconds
	}
	if cfg.Analyzer.ElementWaitSeconds <= 0 {
		cfg.Analyzer.ElementWaitSeconds = defaultElementWaitSeconds
	}
	if cfg.Analyzer.SettleWaitSeconds <= 0 {
		cfg.Analyzer.SettleWaitSeconds = defaultSettleWaitSeconds
	}
	return &cfg, nil
}
