package akwam

import "github.com/John-Robertt/akwamd/internal/domain"

// Strategy 统一“原始页面文本 -> 结构化结果”的提取入口。
//
// 两种实现：
// - 结构化（goquery 建树）：稳，用于列表/详情这类字段多、嵌套深的页面
// - 模式（预编译正则直扫）：快，用于 watch 源提取与跳转定位（不值得为两个
//   属性建整棵 DOM 树）
//
// 约束：实现必须是纯函数，且对残缺/畸形输入只降级、不崩溃。
type Strategy[R any] interface {
	Extract(raw string) (R, error)
}

var (
	_ Strategy[domain.Listing]         = GridExtractor{}
	_ Strategy[domain.MovieDetail]     = MovieExtractor{}
	_ Strategy[domain.SeriesDetail]    = SeriesExtractor{}
	_ Strategy[[]domain.ResolvedVideo] = SourceExtractor{}
	_ Strategy[string]                 = RedirectFinder{}
)
