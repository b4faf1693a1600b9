package akwam

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/akwamd/internal/domain"
)

// MovieExtractor 把电影详情页解析为 MovieDetail（结构化策略）。
//
// 约束：
// - 标题解析失败回退 "Unknown"，不报错
// - 某个清晰度 tab 找不到对应内容块：该 tab 不产出 Variant，不报错
type MovieExtractor struct {
	BaseURL string
}

func (m MovieExtractor) Extract(raw string) (domain.MovieDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return domain.MovieDetail{}, err
	}

	title, poster, story := commonDetail(doc, m.BaseURL)

	links := make([]domain.Variant, 0, 4)
	doc.Find("ul.header-tabs li a").Each(func(_ int, tab *goquery.Selection) {
		href, ok := tab.Attr("href")
		// tab 的 href 是页面内锚（"#tab-1"），同时也是内容块的选择器。
		if !ok || !strings.HasPrefix(href, "#") || len(href) < 2 {
			return
		}
		content := doc.Find(href).First()
		if content.Length() == 0 {
			return
		}

		v := domain.Variant{
			Quality: strings.TrimSpace(tab.Text()),
			Size:    strings.TrimSpace(content.Find("a.link-download span.font-size-14").First().Text()),
		}
		if w, ok := content.Find("a.link-show").First().Attr("href"); ok {
			v.WatchURL = &w
		}
		if d, ok := content.Find("a.link-download").First().Attr("href"); ok {
			v.DownloadURL = &d
		}
		links = append(links, v)
	})

	return domain.MovieDetail{Title: title, Poster: poster, Story: story, Links: links}, nil
}

// SeriesExtractor 把剧集详情页解析为 SeriesDetail（结构化策略）。
//
// 约束：缺 h2>a 的剧集卡片被丢弃；缺图的剧集 Image 为空串。
type SeriesExtractor struct {
	BaseURL string
}

func (se SeriesExtractor) Extract(raw string) (domain.SeriesDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return domain.SeriesDetail{}, err
	}

	title, poster, story := commonDetail(doc, se.BaseURL)

	episodes := make([]domain.Episode, 0, 16)
	container := doc.Find("#series-episodes .widget-body .row").First()
	container.Find(`div[class*="col-lg-4"]`).Each(func(_ int, card *goquery.Selection) {
		a := card.Find("h2 a").First()
		name := strings.TrimSpace(a.Text())
		href, ok := a.Attr("href")
		if name == "" || !ok || strings.TrimSpace(href) == "" {
			return
		}
		image := ""
		if src, ok := card.Find("img").First().Attr("src"); ok && strings.TrimSpace(src) != "" {
			image = FixURL(se.BaseURL, StripThumb(src))
		}
		episodes = append(episodes, domain.Episode{
			Name:  name,
			Link:  FixURL(se.BaseURL, href),
			Image: image,
		})
	})

	return domain.SeriesDetail{
		Title:         title,
		Poster:        poster,
		Story:         story,
		EpisodesCount: len(episodes),
		Episodes:      episodes,
	}, nil
}

// commonDetail 提取电影/剧集共用的标题、海报、简介。
func commonDetail(doc *goquery.Document, baseURL string) (title, poster, story string) {
	title = strings.TrimSpace(doc.Find("h1.entry-title").First().Text())
	if title == "" {
		title = "Unknown"
	}

	// 海报优先级：ld+json 结构化元数据里的首个 image 字段 > 封面节点。
	// 畸形/缺失的 JSON 块直接跳过（站点经常塞坏的）。
	poster = posterFromJSONLD(doc)
	if poster == "" {
		if src, ok := doc.Find("div.movie-cover img").First().Attr("src"); ok && strings.TrimSpace(src) != "" {
			poster = FixURL(baseURL, StripThumb(src))
		}
	}

	story = strings.TrimSpace(doc.Find("div.widget-body h2 .text-white").First().Text())
	return title, poster, story
}

func posterFromJSONLD(doc *goquery.Document) string {
	poster := ""
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return true
		}
		var blob any
		if err := json.Unmarshal([]byte(text), &blob); err != nil {
			return true
		}
		// 顶层可能是单对象或对象数组；image 可能是字符串或字符串数组。
		obj, ok := blob.(map[string]any)
		if !ok {
			arr, ok := blob.([]any)
			if !ok || len(arr) == 0 {
				return true
			}
			obj, ok = arr[0].(map[string]any)
			if !ok {
				return true
			}
		}
		switch img := obj["image"].(type) {
		case string:
			poster = strings.TrimSpace(img)
		case []any:
			if len(img) > 0 {
				if s, ok := img[0].(string); ok {
					poster = strings.TrimSpace(s)
				}
			}
		}
		return poster == ""
	})
	return poster
}
