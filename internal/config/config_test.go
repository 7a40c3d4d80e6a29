package config

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SYMBOL", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "DATABASE_URL", "REDIS_URL",
		"MARKET_DATA_BASE_URL", "MARKET_DATA_API_KEY", "MARKET_POLL_SECS",
		"HTTP_PORT", "ALERTS_ENABLED", "TRADE_BUDGET",
		"MCP_TRANSPORT", "MCP_HTTP_ENABLED", "MCP_HTTP_BIND", "MCP_HTTP_PORT",
		"MCP_AUTH_TOKEN", "MCP_REQUEST_TIMEOUT_SECS", "MCP_RATE_LIMIT_PER_MIN",
		"OPENAI_API_KEY", "OPENAI_MODEL", "ADVISOR_MAX_HISTORY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.Symbol != "SPX" {
		t.Fatalf("expected default symbol SPX, got %s", cfg.Symbol)
	}
	if cfg.RedisURL != "localhost:6379" {
		t.Fatalf("expected default redis url, got %s", cfg.RedisURL)
	}
	if cfg.PollSecs != 5 {
		t.Fatalf("expected default poll secs 5, got %d", cfg.PollSecs)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("expected default http port 8080, got %d", cfg.HTTPPort)
	}
	if !cfg.AlertsEnabled {
		t.Fatal("alerts should default to enabled")
	}
	if cfg.TradeBudget != 1000 {
		t.Fatalf("expected default budget 1000, got %v", cfg.TradeBudget)
	}
	if cfg.MCPTransport != "stdio" {
		t.Fatalf("expected default MCP transport stdio, got %s", cfg.MCPTransport)
	}
	if cfg.MCPHTTPBind != "127.0.0.1" || cfg.MCPHTTPPort != 8090 {
		t.Fatalf("unexpected MCP http defaults: %s:%d", cfg.MCPHTTPBind, cfg.MCPHTTPPort)
	}
	if cfg.MCPRequestTimeoutSecs != 5 || cfg.MCPRateLimitPerMin != 60 {
		t.Fatalf("unexpected MCP defaults: timeout=%d rate=%d", cfg.MCPRequestTimeoutSecs, cfg.MCPRateLimitPerMin)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" || cfg.AdvisorMaxHistory != 20 {
		t.Fatalf("unexpected advisor defaults: %s history=%d", cfg.OpenAIModel, cfg.AdvisorMaxHistory)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SYMBOL", "NDX")
	t.Setenv("MARKET_POLL_SECS", "15")
	t.Setenv("ALERTS_ENABLED", "false")
	t.Setenv("TRADE_BUDGET", "2500")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123456")
	t.Setenv("MCP_TRANSPORT", "http")

	cfg := Load()
	if cfg.Symbol != "NDX" {
		t.Fatalf("symbol = %s, want NDX", cfg.Symbol)
	}
	if cfg.PollSecs != 15 {
		t.Fatalf("poll secs = %d, want 15", cfg.PollSecs)
	}
	if cfg.AlertsEnabled {
		t.Fatal("alerts should be disabled")
	}
	if cfg.TradeBudget != 2500 {
		t.Fatalf("budget = %v, want 2500", cfg.TradeBudget)
	}
	if cfg.TelegramChatID != -100123456 {
		t.Fatalf("chat id = %d, want -100123456", cfg.TelegramChatID)
	}
	if cfg.MCPTransport != "http" {
		t.Fatalf("transport = %s, want http", cfg.MCPTransport)
	}
}

func TestLoadRejectsGarbageNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("MARKET_POLL_SECS", "zero")
	t.Setenv("HTTP_PORT", "-1")
	t.Setenv("MCP_TRANSPORT", "carrier-pigeon")

	cfg := Load()
	if cfg.PollSecs != 5 || cfg.HTTPPort != 8080 {
		t.Fatalf("garbage numeric env should fall back to defaults: %+v", cfg)
	}
	if cfg.MCPTransport != "stdio" {
		t.Fatalf("unsupported transport should fall back to stdio, got %s", cfg.MCPTransport)
	}
}
