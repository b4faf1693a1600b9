package akwam

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/akwamd/internal/domain"
)

// sourceRE 匹配 <source ... src=... size=...>，两种属性顺序都要认。
var sourceRE = regexp.MustCompile(
	`<source[^>]*src=["']([^"']+)["'][^>]*size=["'](\d+)["']` +
		`|<source[^>]*size=["'](\d+)["'][^>]*src=["']([^"']+)["']`)

// clickHereRE 匹配“点此跳转”式锚点：阿拉伯语与英语两种文案，大小写不敏感。
var clickHereRE = regexp.MustCompile(`(?i)<a[^>]*href=["']([^"']+)["'][^>]*>(?:اضغط هنا|Click here)`)

// HasNativePlayer 报告页面是否已内嵌带 player 标识的原生视频元素。
// 只做子串探测，不建树——这是热路径，页面可能很大。
func HasNativePlayer(raw string) bool {
	return strings.Contains(raw, "<video") && strings.Contains(raw, `id="player"`)
}

// SourceExtractor 从最终页面提取可播放直链（模式策略，DOM 兜底）。
//
// 约束：
// - 正则优先（速度）；零匹配时退回 goquery 扫 video#player source（稳）
// - 零结果不是错误：返回空切片，由上层决定 failed 语义
type SourceExtractor struct{}

func (SourceExtractor) Extract(raw string) ([]domain.ResolvedVideo, error) {
	videos := make([]domain.ResolvedVideo, 0, 2)
	for _, m := range sourceRE.FindAllStringSubmatch(raw, -1) {
		src, size := m[1], m[2]
		if src == "" {
			src, size = m[4], m[3]
		}
		if src == "" || size == "" {
			continue
		}
		videos = append(videos, domain.ResolvedVideo{
			Quality: size + "p",
			Link:    src,
			Type:    "mp4",
		})
	}
	if len(videos) > 0 {
		return videos, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}
	doc.Find("video#player source").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		size, _ := s.Attr("size")
		if strings.TrimSpace(src) == "" || strings.TrimSpace(size) == "" {
			return
		}
		videos = append(videos, domain.ResolvedVideo{
			Quality: size + "p",
			Link:    src,
			Type:    "mp4",
		})
	})
	return videos, nil
}

// RedirectFinder 在页面中定位内嵌的跳转目标（模式策略）。
//
// 两个模式按严格优先级回退：
// 1) 指向站内 <host>/watch 的锚点
// 2) “اضغط هنا / Click here”文案的锚点
type RedirectFinder struct {
	watchRE *regexp.Regexp
}

// NewRedirectFinder 按站点域名预编译模式 1。baseURL 为空时使用 DefaultBaseURL。
func NewRedirectFinder(baseURL string) RedirectFinder {
	host := DefaultBaseURL
	if strings.TrimSpace(baseURL) != "" {
		host = baseURL
	}
	if u, err := url.Parse(host); err == nil && u.Host != "" {
		host = u.Host
	} else {
		host = strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://")
	}
	return RedirectFinder{
		watchRE: regexp.MustCompile(`<a[^>]*href=["']([^"']*` + regexp.QuoteMeta(host) + `/watch[^"']*)["']`),
	}
}

func (f RedirectFinder) Extract(raw string) (string, error) {
	if m := f.watchRE.FindStringSubmatch(raw); m != nil {
		return m[1], nil
	}
	if m := clickHereRE.FindStringSubmatch(raw); m != nil {
		return m[1], nil
	}
	return "", nil
}
