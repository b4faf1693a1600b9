package domain

// Summary 是列表/搜索结果页上的一张卡片（最小可用集）。
//
// 约束：
// - Title 与 Link 必须同时存在（缺任一项的卡片在解析阶段直接丢弃）
// - Image 已做缩略图还原（/thumb/ 路径段剥离）并补全为绝对 URL
// - Rating/Quality/Year 缺失时取固定默认值，不视为错误
type Summary struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Image   string `json:"image"`
	Rating  string `json:"rating"`
	Quality string `json:"quality"`
	Year    string `json:"year"`
}

// Listing 是一页列表的解析结果。顺序与文档顺序一致（有语义）。
//
// 约束：Count 必须等于 len(Items)。
type Listing struct {
	Items   []Summary `json:"data"`
	HasNext bool      `json:"has_next"`
	Count   int       `json:"count"`
}

// Variant 是电影详情页上的一个清晰度选项。
//
// WatchURL/DownloadURL 允许为 nil（页面可能只给其中一个，甚至都不给）。
type Variant struct {
	Quality     string  `json:"quality"`
	Size        string  `json:"size"`
	WatchURL    *string `json:"watch_url"`
	DownloadURL *string `json:"download_url"`
}

// MovieDetail 是电影详情页的解析结果。
//
// 约束：
// - Title 解析失败时为 "Unknown"（不报错）
// - Poster/Story 允许为空串
type MovieDetail struct {
	Title  string    `json:"title"`
	Poster string    `json:"poster"`
	Story  string    `json:"story"`
	Links  []Variant `json:"links"`
}

// Episode 是剧集列表中的一集。
type Episode struct {
	Name  string `json:"name"`
	Link  string `json:"link"`
	Image string `json:"image"`
}

// SeriesDetail 是剧集详情页的解析结果。
//
// 约束：EpisodesCount 必须等于 len(Episodes)。
type SeriesDetail struct {
	Title         string    `json:"title"`
	Poster        string    `json:"poster"`
	Story         string    `json:"story"`
	EpisodesCount int       `json:"episodes_count"`
	Episodes      []Episode `json:"episodes"`
}

// ResolvedVideo 是最终可播放的一个直链。
type ResolvedVideo struct {
	Quality string `json:"quality"` // "<height>p"，例如 "720p"
	Link    string `json:"link"`
	Type    string `json:"type"` // 目前恒为 "mp4"
}
