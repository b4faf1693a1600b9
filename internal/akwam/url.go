// Package akwam 实现 Akwam 站点页面的定位与 HTML 解析。
//
// 约束（与 provider 层同款）：
// - 解析必须是纯函数：相同输入 => 相同输出（可离线用 HTML fixture 测试）
// - 不做缓存/重试/限速（由上层统一控制）
// - 站点结构变化被限制在本包内部；上层只依赖稳定的 domain 记录
package akwam

import (
	"regexp"
	"strings"
)

// DefaultBaseURL 是站点默认域名；可通过配置切换镜像域名。
const DefaultBaseURL = "https://ak.sv"

// FixURL 把站内相对链接补全为绝对 URL；已是绝对 URL 时原样返回。
func FixURL(base, u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if strings.HasPrefix(u, "/") {
		return base + u
	}
	return base + "/" + u
}

var thumbRE = regexp.MustCompile(`/thumb/[^/]+`)

// StripThumb 剥离缩略图路径段，还原原始分辨率的图片 URL。
//
// 约束：幂等——对已经不含 /thumb/ 段的 URL 原样返回。
func StripThumb(u string) string {
	if u == "" {
		return ""
	}
	return thumbRE.ReplaceAllString(u, "")
}
