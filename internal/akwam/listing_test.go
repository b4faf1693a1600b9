package akwam

import "testing"

const listingFixture = `
<html><body>
<div class="entry-box">
  <div class="entry-image">
    <img src="/placeholder.png" data-src="https://img.ak.sv/thumb/260x380/uploads/one.jpg">
  </div>
  <h3 class="entry-title"><a href="/movie/1/one">فيلم الأول</a></h3>
  <span class="label rating">8.1</span>
  <span class="label quality">1080p</span>
  <span class="badge-secondary">2023</span>
</div>
<div class="entry-box">
  <div class="entry-image"><img src="https://img.ak.sv/uploads/two.jpg"></div>
  <h3 class="entry-title"><a href="/movie/2/two">Second Movie</a></h3>
</div>
<div class="entry-box">
  <div class="entry-image"><img src="https://img.ak.sv/uploads/broken.jpg"></div>
  <!-- 没有标题锚点：整张卡片应被丢弃 -->
</div>
<a rel="next" href="/movies?page=2">التالي</a>
</body></html>`

func TestGridExtract(t *testing.T) {
	l, err := GridExtractor{}.Extract(listingFixture)
	if err != nil {
		t.Fatalf("Extract 失败：%v", err)
	}

	if l.Count != len(l.Items) {
		t.Fatalf("Count 与条目数不一致：count=%d len=%d", l.Count, len(l.Items))
	}
	if len(l.Items) != 2 {
		t.Fatalf("期望 2 张卡片（无标题的被丢弃），实际 %d", len(l.Items))
	}
	if !l.HasNext {
		t.Fatalf("期望 has_next=true（存在 rel=next 锚点）")
	}

	first := l.Items[0]
	if first.Title != "فيلم الأول" {
		t.Fatalf("标题错误：%q", first.Title)
	}
	if first.Link != "https://ak.sv/movie/1/one" {
		t.Fatalf("链接未补全：%q", first.Link)
	}
	// data-src 优先于占位 src，且缩略图段被剥离。
	if first.Image != "https://img.ak.sv/uploads/one.jpg" {
		t.Fatalf("图片错误：%q", first.Image)
	}
	if first.Rating != "8.1" || first.Quality != "1080p" || first.Year != "2023" {
		t.Fatalf("标签字段错误：%+v", first)
	}

	second := l.Items[1]
	if second.Rating != "0.0" || second.Quality != "N/A" || second.Year != "N/A" {
		t.Fatalf("缺失标签未取默认值：%+v", second)
	}
	if second.Image != "https://img.ak.sv/uploads/two.jpg" {
		t.Fatalf("无 data-src 时应回退 src：%q", second.Image)
	}
}

func TestGridExtract_NoNext(t *testing.T) {
	l, err := GridExtractor{}.Extract(`<html><body><div class="entry-box"></div></body></html>`)
	if err != nil {
		t.Fatalf("Extract 失败：%v", err)
	}
	if l.HasNext {
		t.Fatalf("无 rel=next 时 has_next 应为 false")
	}
	if l.Count != 0 || len(l.Items) != 0 {
		t.Fatalf("空页面应产出空列表：%+v", l)
	}
}
