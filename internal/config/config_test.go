package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEffective_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadEffective(filepath.Join(t.TempDir(), "akwamd.json"))
	if err != nil {
		t.Fatalf("文件不存在不应报错：%v", err)
	}
	if cfg.Listen != DefaultListen {
		t.Fatalf("listen 默认值错误：%q", cfg.Listen)
	}
	if cfg.RateLimitMax != DefaultRateMax || cfg.RateLimitWindow != DefaultRateWindow {
		t.Fatalf("限流默认值错误：%+v", cfg)
	}
	if cfg.CacheTTL != DefaultCacheTTL {
		t.Fatalf("TTL 默认值错误：%v", cfg.CacheTTL)
	}
	if cfg.CacheFailedLookups {
		t.Fatalf("默认不缓存 failed 结果")
	}
	if cfg.FetchWorkers != DefaultFetchWorker {
		t.Fatalf("worker 默认值错误：%d", cfg.FetchWorkers)
	}
}

func TestLoadEffective_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "akwamd.json")
	write(t, path, `{
		"listen": ":9090",
		"base_url": "https://mirror.example",
		"rate_limit_max": 10,
		"rate_limit_window_seconds": 30,
		"cache_ttl_minutes": 5,
		"cache_failed_lookups": true,
		"fetch_workers": 99
	}`)

	cfg, err := LoadEffective(path)
	if err != nil {
		t.Fatalf("读取配置失败：%v", err)
	}
	if cfg.Listen != ":9090" || cfg.BaseURL != "https://mirror.example" {
		t.Fatalf("覆盖字段错误：%+v", cfg)
	}
	if cfg.RateLimitMax != 10 || cfg.RateLimitWindow != 30*time.Second {
		t.Fatalf("限流覆盖错误：%+v", cfg)
	}
	if cfg.CacheTTL != 5*time.Minute || !cfg.CacheFailedLookups {
		t.Fatalf("缓存覆盖错误：%+v", cfg)
	}
	// 超出 [1,15] 截断。
	if cfg.FetchWorkers != 15 {
		t.Fatalf("worker 应被截断到 15：%d", cfg.FetchWorkers)
	}
}

func TestLoadEffective_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "akwamd.json")
	write(t, path, `{broken`)

	_, err := LoadEffective(path)
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("坏 JSON 应报 config_invalid：%v", err)
	}
}

func TestLoadEffective_InvalidBaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "akwamd.json")
	write(t, path, `{"base_url": "ftp://x"}`)

	_, err := LoadEffective(path)
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("非 http/https 的 base_url 应报错：%v", err)
	}
}

func TestLoadEffective_PortEnvOverride(t *testing.T) {
	t.Setenv("PORT", "7777")
	cfg, err := LoadEffective(filepath.Join(t.TempDir(), "akwamd.json"))
	if err != nil {
		t.Fatalf("读取配置失败：%v", err)
	}
	if cfg.Listen != ":7777" {
		t.Fatalf("PORT 应覆盖 listen：%q", cfg.Listen)
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入测试配置失败：%v", err)
	}
}
