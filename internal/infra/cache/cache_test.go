package cache

import (
	"testing"
	"time"

	"github.com/John-Robertt/akwamd/internal/domain"
)

func TestMemo_PutGet(t *testing.T) {
	m := New(time.Hour)
	out := domain.Success("https://ak.sv/watch/1", []domain.ResolvedVideo{
		{Quality: "720p", Link: "https://cdn.ak.sv/v.mp4", Type: "mp4"},
	})

	if _, ok := m.Get("https://ak.sv/watch/1"); ok {
		t.Fatalf("空缓存不应命中")
	}

	m.Put("https://ak.sv/watch/1", out)
	got, ok := m.Get("https://ak.sv/watch/1")
	if !ok {
		t.Fatalf("写入后应命中")
	}
	if got.Status != domain.StatusSuccess || len(got.Videos) != 1 {
		t.Fatalf("缓存内容不一致：%+v", got)
	}
}

func TestMemo_LazyExpiry(t *testing.T) {
	m := New(time.Hour)
	now := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return now }

	m.Put("k", domain.Failed("x"))

	// TTL 内命中。
	now = now.Add(59 * time.Minute)
	if _, ok := m.Get("k"); !ok {
		t.Fatalf("TTL 内应命中")
	}

	// 过期：miss，且条目被顺手删除。
	now = now.Add(2 * time.Minute)
	if _, ok := m.Get("k"); ok {
		t.Fatalf("过期后不应命中")
	}
	if m.Len() != 0 {
		t.Fatalf("过期条目应在读取时被删除，剩余 %d", m.Len())
	}
}

func TestMemo_Overwrite(t *testing.T) {
	m := New(time.Hour)
	m.Put("k", domain.Failed("旧"))
	m.Put("k", domain.Failed("新"))

	got, ok := m.Get("k")
	if !ok || got.Message != "新" {
		t.Fatalf("Put 应无条件覆盖：%+v ok=%v", got, ok)
	}
	if m.Len() != 1 {
		t.Fatalf("覆盖不应新增条目：%d", m.Len())
	}
}
