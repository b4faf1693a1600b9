// Package httpx 把“浏览器指纹 + UA 池 + 固定请求头 + 按跳转链路更新 Referer”
// 固化为统一的页面抓取策略。
//
// 设计目标：解析层只负责“定位页面 + 解析 HTML”，不关心网络策略细节。
package httpx

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 20 * time.Second

// Client 是面向站点的页面抓取器。
//
// 约束：
// - 每次 Fetch 独立携带 Referer，请求之间不泄漏头部状态
// - 不做重试：超时/传输失败对该请求就是终态（上层也不重试）
// - 超时由调用方通过 ctx 控制（按端点 6~15 秒不等）；Timeout 只是外层保险
type Client struct {
	hc     *http.Client
	origin string
	ua     *uaPool
}

// New 构造页面抓取客户端。
//
// 规则：
// - proxyURL 非空：走标准 Transport + 代理，禁用 keep-alive（每请求新连接）
// - proxyURL 为空：走 uTLS Chrome 指纹连接（绕过基于 TLS 指纹的反爬拦截）
// - origin 写入 Origin 头（站点校验来源）
func New(origin, proxyURL string) (*Client, error) {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		return nil, errors.New("origin 不能为空")
	}

	var rt http.RoundTripper
	proxyURL = strings.TrimSpace(proxyURL)
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, err
		}
		rt = &http.Transport{
			Proxy: http.ProxyURL(u),
			// 代理模式强制每请求新连接（代理池轮换依赖该行为）。
			DisableKeepAlives:     true,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
		}
	} else {
		rt = newUTLSRoundTripper()
	}

	return &Client{
		hc: &http.Client{
			Transport: rt,
			Timeout:   defaultTimeout,
		},
		origin: origin,
		ua:     globalUA,
	}, nil
}

// Fetch 抓取一个页面，返回状态码与响应文本。
//
// referer 非空时按站点要求做保守的百分号转义后写入 Referer 头
//（媒体页会拒绝 Referer 与上一跳不符的请求）。
func (c *Client) Fetch(ctx context.Context, rawURL string, params url.Values, referer string) (int, string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return 0, "", errors.New("url 不能为空")
	}

	target := rawURL
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("User-Agent", c.ua.random())
	req.Header.Set("Origin", c.origin)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,ar;q=0.8")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if strings.TrimSpace(referer) != "" {
		req.Header.Set("Referer", escapeReferer(referer))
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(b), nil
}

// escapeReferer 按最小集做百分号转义：保留 URL 结构字符 :/%?=& 与非保留字符，
// 其余字节（含已在 URL 里的非 ASCII，如阿拉伯语路径）逐字节转义。
func escapeReferer(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			b.WriteByte(ch)
		case ch == '-' || ch == '_' || ch == '.' || ch == '~':
			b.WriteByte(ch)
		case ch == ':' || ch == '/' || ch == '%' || ch == '?' || ch == '=' || ch == '&':
			b.WriteByte(ch)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[ch>>4])
			b.WriteByte(upperhex[ch&0x0f])
		}
	}
	return b.String()
}

const upperhex = "0123456789ABCDEF"

type uaPool struct {
	mu  sync.Mutex
	rnd *rand.Rand
	uas []string
}

func (p *uaPool) random() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uas[p.rnd.Intn(len(p.uas))]
}

var globalUA = newUAPool()

func newUAPool() *uaPool {
	// 尽量保持 UA 列表短小但多样；未来可扩充（不对外暴露配置）。
	uas := []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	}
	return &uaPool{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		uas: uas,
	}
}
