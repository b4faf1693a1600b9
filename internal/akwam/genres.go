package akwam

// Genre 是站点的一个分类（用于列表过滤）。ID 与站点查询参数一一对应。
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// genres 是站点分类的静态快照。ID 是站点自己的编号，不连续。
var genres = []Genre{
	{ID: 0, Name: "الكل"}, {ID: 18, Name: "أكشن"},
	{ID: 20, Name: "كوميدي"}, {ID: 23, Name: "دراما"},
	{ID: 22, Name: "رعب"}, {ID: 35, Name: "إثارة"},
	{ID: 34, Name: "غموض"}, {ID: 24, Name: "خيال علمي"},
	{ID: 27, Name: "رومانسي"}, {ID: 19, Name: "مغامرة"},
	{ID: 21, Name: "جريمة"}, {ID: 43, Name: "فانتازيا"},
	{ID: 33, Name: "عائلي"}, {ID: 30, Name: "أنمي"},
	{ID: 28, Name: "وثائقي"}, {ID: 25, Name: "حربي"},
	{ID: 26, Name: "تاريخي"}, {ID: 29, Name: "سيرة ذاتية"},
	{ID: 31, Name: "موسيقي"}, {ID: 32, Name: "رياضي"},
	{ID: 87, Name: "رمضان"}, {ID: 72, Name: "Netflix"},
}

// Genres 返回分类表的副本（调用方可随意改动，不影响内部表）。
func Genres() []Genre {
	out := make([]Genre, len(genres))
	copy(out, genres)
	return out
}
