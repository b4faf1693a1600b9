package akwam

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/akwamd/internal/domain"
)

// GridExtractor 把列表/搜索结果页解析为 Listing（结构化策略）。
//
// 约束：
// - 卡片缺标题或缺链接：丢弃该卡片，不影响其余卡片（容忍半残页面）
// - Rating/Quality/Year 缺失取固定默认值
// - 输出顺序 = 文档顺序
type GridExtractor struct {
	// BaseURL 用于补全站内相对链接；为空时使用 DefaultBaseURL。
	BaseURL string
}

func (g GridExtractor) Extract(raw string) (domain.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return domain.Listing{}, err
	}

	items := make([]domain.Summary, 0, 16)
	doc.Find("div.entry-box").Each(func(_ int, card *goquery.Selection) {
		a := card.Find("h3.entry-title a").First()
		title := strings.TrimSpace(a.Text())
		href, ok := a.Attr("href")
		if title == "" || !ok || strings.TrimSpace(href) == "" {
			return
		}

		img := card.Find("div.entry-image img").First()
		// 懒加载站点把真实图放在 data-src，src 常是占位图。
		rawImage, exists := img.Attr("data-src")
		if !exists || strings.TrimSpace(rawImage) == "" {
			rawImage, _ = img.Attr("src")
		}
		image := ""
		if strings.TrimSpace(rawImage) != "" {
			image = FixURL(g.BaseURL, StripThumb(rawImage))
		}

		items = append(items, domain.Summary{
			Title:   title,
			Link:    FixURL(g.BaseURL, href),
			Image:   image,
			Rating:  textOr(card.Find("span.label.rating").First(), "0.0"),
			Quality: textOr(card.Find("span.label.quality").First(), "N/A"),
			Year:    textOr(card.Find("span.badge-secondary").First(), "N/A"),
		})
	})

	return domain.Listing{
		Items:   items,
		HasNext: doc.Find(`a[rel="next"]`).Length() > 0,
		Count:   len(items),
	}, nil
}

func textOr(s *goquery.Selection, fallback string) string {
	t := strings.TrimSpace(s.Text())
	if t == "" {
		return fallback
	}
	return t
}
