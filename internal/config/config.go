// Package config 读取 akwamd.json 并合并为最终配置。
//
// 发现规则（固定）：配置文件可选；不存在时全部取内置默认值。
// 环境变量只覆盖监听端口（PORT，部署平台的约定）。
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	DefaultListen      = ":8000"
	DefaultRateMax     = 30
	DefaultRateWindow  = time.Minute
	DefaultCacheTTL    = time.Hour
	DefaultFetchWorker = 12
)

// FileConfig 对应 akwamd.json 的解析结构。
type FileConfig struct {
	Listen  string `json:"listen"`
	BaseURL string `json:"base_url"`

	RateLimitMax     int `json:"rate_limit_max"`
	RateLimitWindowS int `json:"rate_limit_window_seconds"`

	CacheTTLMinutes    int  `json:"cache_ttl_minutes"`
	CacheFailedLookups bool `json:"cache_failed_lookups"`

	FetchWorkers int `json:"fetch_workers"`

	Proxy *ProxyConfig `json:"proxy"`
}

type ProxyConfig struct {
	URL string `json:"url"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置
//（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	Listen  string
	BaseURL string

	RateLimitMax    int
	RateLimitWindow time.Duration

	CacheTTL           time.Duration
	CacheFailedLookups bool

	FetchWorkers int
	ProxyURL     string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 读取可选的配置文件并与环境变量/默认值合并。
//
// 覆盖优先级（固定）：
// - listen：PORT 环境变量 > config listen > 默认 :8000
// - 其他字段：config > 内置默认值
func LoadEffective(path string) (EffectiveConfig, error) {
	fc, _, err := readFileConfig(path)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}
	return merge(path, fc)
}

func merge(cfgPath string, fc FileConfig) (EffectiveConfig, error) {
	listen := strings.TrimSpace(fc.Listen)
	if listen == "" {
		listen = DefaultListen
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("PORT 无效：%q", port)}
		}
		listen = ":" + port
	}

	baseURL := strings.TrimSpace(fc.BaseURL)
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("base_url 无效：%q", baseURL)}
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("base_url 必须是 http/https：%q", baseURL)}
		}
	}

	rateMax := fc.RateLimitMax
	if rateMax == 0 {
		rateMax = DefaultRateMax
	}
	if rateMax < 1 {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("rate_limit_max 必须为正数：%d", fc.RateLimitMax)}
	}

	rateWindow := DefaultRateWindow
	if fc.RateLimitWindowS > 0 {
		rateWindow = time.Duration(fc.RateLimitWindowS) * time.Second
	} else if fc.RateLimitWindowS < 0 {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("rate_limit_window_seconds 必须为正数：%d", fc.RateLimitWindowS)}
	}

	cacheTTL := DefaultCacheTTL
	if fc.CacheTTLMinutes > 0 {
		cacheTTL = time.Duration(fc.CacheTTLMinutes) * time.Minute
	} else if fc.CacheTTLMinutes < 0 {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("cache_ttl_minutes 必须为正数：%d", fc.CacheTTLMinutes)}
	}

	workers := fc.FetchWorkers
	if workers == 0 {
		workers = DefaultFetchWorker
	}
	// 文档约定：范围 [1, 15]；超出截断。
	if workers < 1 {
		workers = 1
	}
	if workers > 15 {
		workers = 15
	}

	proxyURL := ""
	if fc.Proxy != nil {
		proxyURL = strings.TrimSpace(fc.Proxy.URL)
	}
	if proxyURL != "" {
		if _, err := url.Parse(proxyURL); err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("proxy.url 无效：%w", err)}
		}
	}

	return EffectiveConfig{
		Listen:             listen,
		BaseURL:            baseURL,
		RateLimitMax:       rateMax,
		RateLimitWindow:    rateWindow,
		CacheTTL:           cacheTTL,
		CacheFailedLookups: fc.CacheFailedLookups,
		FetchWorkers:       workers,
		ProxyURL:           proxyURL,
	}, nil
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
