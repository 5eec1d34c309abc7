package config

type Config struct {
	Chromedp struct {
		UserDataDir          string `json:"user_data_dir"`
		Headless             bool   `json:"headless"`
		DisableBlinkFeatures string `json:"disable_blink_features"`
		Incognito            bool   `json:"incognito"`
		DisableDevShmUsage   bool   `json:"disable_dev_shm_usage"`
		NoSandbox            bool   `json:"no_sandbox"`
		UserAgent            string `json:"user_agent"`
	} `json:"chromedp"`

	Rod struct {
		UserDataDir          string `json:"user_data_dir"`
		Headless             bool   `json:"headless"`
		DisableBlinkFeatures string `json:"disable_blink_features"`
		Incognito            bool   `json:"incognito"`
		DisableDevShmUsage   bool   `json:"disable_dev_shm_usage"`
		NoSandbox            bool   `json:"no_sandbox"`
		UserAgent            string `json:"user_agent"`
		Leakless             bool   `json:"leakless"`
		Bin                  string `json:"bin"`
	} `json:"rod"`

	Elasticsearch struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Address  string `json:"address"`
	} `json:"elasticsearch"`

	Telegram struct {
		Token string `json:"token"`
	} `json:"telegram"`

	LLM struct {
		Host  string `json:"host"`
		Port  int    `json:"port"`
		Model string `json:"model"`
	} `json:"llm"`

	// Analyzer 钱包分析引擎的等待参数,全部以秒为单位
	// 零值在解析时会被填充为默认值,见parser.go
	Analyzer struct {
		NavigationTimeoutSeconds int `json:"navigation_timeout_seconds"`
		PageLoadWaitSeconds      int `json:"page_load_wait_seconds"`
		ElementWaitSeconds       int `json:"element_wait_seconds"`
		SettleWaitSeconds        int `json:"settle_wait_seconds"`
	} `json:"analyzer"`
}
