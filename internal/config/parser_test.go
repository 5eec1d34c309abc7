package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigAppliesAnalyzerDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"chromedp":{"headless":true}}`))
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Analyzer.NavigationTimeoutSeconds)
	assert.Equal(t, 3, cfg.Analyzer.PageLoadWaitSeconds)
	assert.Equal(t, 10, cfg.Analyzer.ElementWaitSeconds)
	assert.Equal(t, 2, cfg.Analyzer.SettleWaitSeconds)
}

func TestParseConfigKeepsExplicitValues(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"chromedp": {"no_sandbox": true, "user_agent": "ua"},
		"analyzer": {"navigation_timeout_seconds": 30, "element_wait_seconds": 5}
	}`))
	require.NoError(t, err)

	assert.True(t, cfg.Chromedp.NoSandbox)
	assert.Equal(t, "ua", cfg.Chromedp.UserAgent)
	assert.Equal(t, 30, cfg.Analyzer.NavigationTimeoutSeconds)
	assert.Equal(t, 5, cfg.Analyzer.ElementWaitSeconds)
	// 未显式给出的字段仍然补默认值
	assert.Equal(t, 2, cfg.Analyzer.SettleWaitSeconds)
}

func TestParseConfigRejectsInvalidJSON(t *testing.T) {
	_, err := ParseConfig([]byte(`{`))
	require.Error(t, err)
}

func TestParseConfigResolvesUserDataDir(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"chromedp":{"user_data_dir":"./data"}}`))
	require.NoError(t, err)
	assert.NotEqual(t, "./data", cfg.Chromedp.UserDataDir)
	assert.Contains(t, cfg.Chromedp.UserDataDir, "data")
}
