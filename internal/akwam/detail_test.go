package akwam

import "testing"

const movieFixture = `
<html><body>
<h1 class="entry-title">فيلم التجربة</h1>
<script type="application/ld+json">{oops not json</script>
<script type="application/ld+json">[{"@type":"Movie","image":["https://img.ak.sv/uploads/poster-full.jpg","x.jpg"]}]</script>
<div class="movie-cover"><img src="https://img.ak.sv/thumb/260x380/uploads/cover.jpg"></div>
<div class="widget-body"><h2><span class="text-white">قصة الفيلم هنا.</span></h2></div>
<ul class="header-tabs">
  <li><a href="#tab-1">1080p</a></li>
  <li><a href="#tab-2">720p</a></li>
  <li><a href="#tab-missing">480p</a></li>
</ul>
<div id="tab-1">
  <a class="link-show" href="/watch/10/x">مشاهدة</a>
  <a class="link-download" href="/download/10/x"><span class="font-size-14">2.1 GB</span></a>
</div>
<div id="tab-2">
  <a class="link-download" href="/download/11/x"><span class="font-size-14">1.0 GB</span></a>
</div>
</body></html>`

func TestMovieExtract(t *testing.T) {
	d, err := MovieExtractor{}.Extract(movieFixture)
	if err != nil {
		t.Fatalf("Extract 失败：%v", err)
	}

	if d.Title != "فيلم التجربة" {
		t.Fatalf("标题错误：%q", d.Title)
	}
	// 坏的 ld+json 块被跳过，好的块提供海报（image 数组取第一个）。
	if d.Poster != "https://img.ak.sv/uploads/poster-full.jpg" {
		t.Fatalf("海报错误：%q", d.Poster)
	}
	if d.Story != "قصة الفيلم هنا." {
		t.Fatalf("简介错误：%q", d.Story)
	}

	// tab-missing 找不到内容块，不产出 Variant。
	if len(d.Links) != 2 {
		t.Fatalf("期望 2 个清晰度选项，实际 %d", len(d.Links))
	}

	v1 := d.Links[0]
	if v1.Quality != "1080p" || v1.Size != "2.1 GB" {
		t.Fatalf("第一个选项字段错误：%+v", v1)
	}
	if v1.WatchURL == nil || *v1.WatchURL != "/watch/10/x" {
		t.Fatalf("watch_url 错误：%+v", v1.WatchURL)
	}
	if v1.DownloadURL == nil || *v1.DownloadURL != "/download/10/x" {
		t.Fatalf("download_url 错误：%+v", v1.DownloadURL)
	}

	v2 := d.Links[1]
	if v2.WatchURL != nil {
		t.Fatalf("缺 watch 链接时应为 nil：%+v", v2)
	}
	if v2.DownloadURL == nil || *v2.DownloadURL != "/download/11/x" {
		t.Fatalf("download_url 错误：%+v", v2.DownloadURL)
	}
}

func TestMovieExtract_PosterFallback(t *testing.T) {
	d, err := MovieExtractor{}.Extract(`
<html><body>
<script type="application/ld+json">{broken</script>
<div class="movie-cover"><img src="https://img.ak.sv/thumb/260x380/uploads/cover.jpg"></div>
</body></html>`)
	if err != nil {
		t.Fatalf("Extract 失败：%v", err)
	}
	if d.Title != "Unknown" {
		t.Fatalf("无标题时应回退 Unknown：%q", d.Title)
	}
	// ld+json 全部失败时回退封面节点，并做缩略图剥离。
	if d.Poster != "https://img.ak.sv/uploads/cover.jpg" {
		t.Fatalf("海报回退错误：%q", d.Poster)
	}
	if d.Story != "" {
		t.Fatalf("无简介时应为空串：%q", d.Story)
	}
}

const seriesFixture = `
<html><body>
<h1 class="entry-title">مسلسل التجربة</h1>
<div id="series-episodes"><div class="widget-body"><div class="row">
  <div class="col-lg-4 col-md-6">
    <img src="https://img.ak.sv/thumb/130x190/uploads/ep1.jpg">
    <h2><a href="/episode/1">الحلقة 1</a></h2>
  </div>
  <div class="col-lg-4 col-md-6">
    <!-- 没有 h2>a：该集应被丢弃 -->
    <img src="https://img.ak.sv/uploads/ep2.jpg">
  </div>
  <div class="col-lg-4 col-md-6">
    <h2><a href="/episode/3">الحلقة 3</a></h2>
  </div>
</div></div></div>
</body></html>`

func TestSeriesExtract(t *testing.T) {
	d, err := SeriesExtractor{}.Extract(seriesFixture)
	if err != nil {
		t.Fatalf("Extract 失败：%v", err)
	}

	if d.EpisodesCount != len(d.Episodes) {
		t.Fatalf("EpisodesCount 与条目数不一致：%d != %d", d.EpisodesCount, len(d.Episodes))
	}
	if len(d.Episodes) != 2 {
		t.Fatalf("期望 2 集（缺 h2>a 的被丢弃），实际 %d", len(d.Episodes))
	}

	ep1 := d.Episodes[0]
	if ep1.Name != "الحلقة 1" || ep1.Link != "https://ak.sv/episode/1" {
		t.Fatalf("第一集字段错误：%+v", ep1)
	}
	if ep1.Image != "https://img.ak.sv/uploads/ep1.jpg" {
		t.Fatalf("第一集图片未做缩略图剥离：%q", ep1.Image)
	}

	if d.Episodes[1].Image != "" {
		t.Fatalf("缺图的剧集 Image 应为空串：%q", d.Episodes[1].Image)
	}
}
