// Package service 把抓取、解析、缓存与并发上限编排为对外的提取入口。
//
// 约束：
// - 每个入口是“输入 + 共享缓存状态”的函数：要么返回完整结果，要么返回
//   类型化错误，绝不向调用方可见状态写入半成品
// - 不持锁跨网络 I/O；抓取并发由信号量统一封顶
// - 任何环节都不重试
package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/John-Robertt/akwamd/internal/akwam"
	"github.com/John-Robertt/akwamd/internal/domain"
	"github.com/John-Robertt/akwamd/internal/infra/cache"
)

// Fetcher 是页面抓取能力的最小契约（httpx.Client 实现；测试注入假实现）。
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, params url.Values, referer string) (status int, body string, err error)
}

// Options 是编排层的全部可调参数（零值可用）。
type Options struct {
	// BaseURL 为空时使用 akwam.DefaultBaseURL。
	BaseURL string

	// CacheFailed 控制 failed 结果是否写缓存。
	// 默认 false：瞬时故障不应污染一小时的缓存窗口。
	CacheFailed bool

	// Workers 是同时在途的上游抓取上限；超出 [1,15] 截断，0 取默认 12。
	Workers int

	ListTimeout   time.Duration // 默认 10s
	DetailTimeout time.Duration // 默认 15s
	WatchTimeout  time.Duration // 默认 10s
}

const defaultWorkers = 12

type Service struct {
	fetch Fetcher
	memo  *cache.Memo
	log   *zap.Logger
	sem   *semaphore.Weighted
	opts  Options

	grid     akwam.GridExtractor
	movie    akwam.MovieExtractor
	series   akwam.SeriesExtractor
	sources  akwam.SourceExtractor
	redirect akwam.RedirectFinder
}

func New(fetch Fetcher, memo *cache.Memo, log *zap.Logger, opts Options) *Service {
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = akwam.DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Workers == 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Workers > 15 {
		opts.Workers = 15
	}
	if opts.ListTimeout <= 0 {
		opts.ListTimeout = 10 * time.Second
	}
	if opts.DetailTimeout <= 0 {
		opts.DetailTimeout = 15 * time.Second
	}
	if opts.WatchTimeout <= 0 {
		opts.WatchTimeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		fetch:    fetch,
		memo:     memo,
		log:      log,
		sem:      semaphore.NewWeighted(int64(opts.Workers)),
		opts:     opts,
		grid:     akwam.GridExtractor{BaseURL: opts.BaseURL},
		movie:    akwam.MovieExtractor{BaseURL: opts.BaseURL},
		series:   akwam.SeriesExtractor{BaseURL: opts.BaseURL},
		redirect: akwam.NewRedirectFinder(opts.BaseURL),
	}
}

// Movies 抓取电影列表页。page 从 1 起；category=0 表示全部分类。
func (s *Service) Movies(ctx context.Context, page, category int) (domain.Listing, error) {
	return s.listing(ctx, s.opts.BaseURL+"/movies", sectionParams(page, category))
}

// Series 抓取剧集列表页。
func (s *Service) Series(ctx context.Context, page, category int) (domain.Listing, error) {
	return s.listing(ctx, s.opts.BaseURL+"/series", sectionParams(page, category))
}

// Search 搜索站内内容。
//
// 约束：trim 后不足 2 个字符直接拒绝，不发起任何抓取。
func (s *Service) Search(ctx context.Context, q string, page int) (domain.Listing, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < 2 {
		return domain.Listing{}, invalidInput("Search query too short")
	}
	params := url.Values{"q": {q}}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	return s.listing(ctx, s.opts.BaseURL+"/search", params)
}

func (s *Service) listing(ctx context.Context, pageURL string, params url.Values) (domain.Listing, error) {
	body, err := s.fetchPage(ctx, pageURL, params, pageURL, s.opts.ListTimeout, "Page not found")
	if err != nil {
		return domain.Listing{}, err
	}
	out, err := s.grid.Extract(body)
	if err != nil {
		return domain.Listing{}, internal("parse listing page", err)
	}
	return out, nil
}

// Movie 抓取并解析电影详情页。
func (s *Service) Movie(ctx context.Context, rawURL string) (domain.MovieDetail, error) {
	u := akwam.FixURL(s.opts.BaseURL, rawURL)
	if u == "" {
		return domain.MovieDetail{}, invalidInput("url 不能为空")
	}
	body, err := s.fetchPage(ctx, u, nil, u, s.opts.DetailTimeout, "Content not found")
	if err != nil {
		return domain.MovieDetail{}, err
	}
	out, err := s.movie.Extract(body)
	if err != nil {
		return domain.MovieDetail{}, internal("parse movie page", err)
	}
	return out, nil
}

// SeriesDetail 抓取并解析剧集详情页。
func (s *Service) SeriesDetail(ctx context.Context, rawURL string) (domain.SeriesDetail, error) {
	u := akwam.FixURL(s.opts.BaseURL, rawURL)
	if u == "" {
		return domain.SeriesDetail{}, invalidInput("url 不能为空")
	}
	body, err := s.fetchPage(ctx, u, nil, u, s.opts.DetailTimeout, "Content not found")
	if err != nil {
		return domain.SeriesDetail{}, err
	}
	out, err := s.series.Extract(body)
	if err != nil {
		return domain.SeriesDetail{}, internal("parse series page", err)
	}
	return out, nil
}

// ResolveWatch 把 watch 页解析为可播放直链。
//
// 流程（最多两次抓取）：
// 1) 抓 watch 页（Referer = 自身）
// 2) 页面已带原生播放器：直接跑源提取
// 3) 否则按优先级找跳转锚点；找不到 => failed
// 4) 找到：以跳转目标为 URL 和 Referer 再抓一次，对结果页跑源提取
// 5) 零片源 => failed；否则 success
//
// success 结果写缓存；failed 结果仅在 CacheFailed=true 时写缓存；
// 抓取本身失败（超时/非 200）作为错误上抛，永不写缓存。
func (s *Service) ResolveWatch(ctx context.Context, rawURL string) (domain.Outcome, error) {
	u := akwam.FixURL(s.opts.BaseURL, rawURL)
	if u == "" {
		return domain.Outcome{}, invalidInput("url 不能为空")
	}

	if out, ok := s.memo.Get(u); ok {
		s.log.Debug("watch 缓存命中", zap.String("url", u))
		return out, nil
	}

	body, err := s.fetchPage(ctx, u, nil, u, s.opts.WatchTimeout, "Page not found")
	if err != nil {
		return domain.Outcome{}, err
	}

	if akwam.HasNativePlayer(body) {
		videos, err := s.sources.Extract(body)
		if err != nil {
			return domain.Outcome{}, internal("extract video sources", err)
		}
		if len(videos) == 0 {
			return s.finish(u, domain.Failed("No sources found")), nil
		}
		return s.finish(u, domain.Success(u, videos)), nil
	}

	target, err := s.redirect.Extract(body)
	if err != nil {
		return domain.Outcome{}, internal("locate redirect", err)
	}
	if target == "" {
		return s.finish(u, domain.Failed("Direct link not found")), nil
	}

	finalURL := akwam.FixURL(s.opts.BaseURL, target)
	s.log.Debug("跟随页面内跳转",
		zap.String("from", u),
		zap.String("to", finalURL))

	// 第二跳必须把 Referer 换成跳转目标本身：媒体页校验上一跳。
	finalBody, err := s.fetchPage(ctx, finalURL, nil, finalURL, s.opts.WatchTimeout, "Page not found")
	if err != nil {
		return domain.Outcome{}, err
	}

	videos, err := s.sources.Extract(finalBody)
	if err != nil {
		return domain.Outcome{}, internal("extract video sources", err)
	}
	if len(videos) == 0 {
		return s.finish(u, domain.Failed("No sources found")), nil
	}
	return s.finish(u, domain.Success(finalURL, videos)), nil
}

// finish 按缓存策略落盘并返回结果。key 始终是原始 watch URL。
func (s *Service) finish(key string, out domain.Outcome) domain.Outcome {
	if out.OK() || s.opts.CacheFailed {
		s.memo.Put(key, out)
	}
	return out
}

// fetchPage 在信号量与端点超时约束下抓取一个页面。
func (s *Service) fetchPage(ctx context.Context, u string, params url.Values, referer string, timeout time.Duration, notFoundMsg string) (string, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", transport("acquire fetch slot", err)
	}
	defer s.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	status, body, err := s.fetch.Fetch(ctx, u, params, referer)
	if err != nil {
		s.log.Warn("抓取失败", zap.String("url", u), zap.Error(err))
		return "", transport("fetch "+u, err)
	}
	if status != http.StatusOK {
		return "", notFound(notFoundMsg)
	}
	return body, nil
}

func sectionParams(page, category int) url.Values {
	params := url.Values{
		"category": {strconv.Itoa(category)},
		"formats":  {"0"},
		"language": {"0"},
		"quality":  {"0"},
		"rating":   {"0"},
		"section":  {"0"},
		"year":     {"0"},
	}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	return params
}
