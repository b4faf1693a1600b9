// Package cache 提供 watch 解析结果的进程内 TTL 备忘录。
//
// 约束：
// - 淘汰完全惰性：只在读到过期条目时删除，没有后台清扫协程
// - 无容量上限（键空间 = 被请求过的 watch URL，自然有界）
// - 进程重启即失效，不持久化
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/John-Robertt/akwamd/internal/domain"
)

// DefaultTTL 是解析结果的默认生存期。
const DefaultTTL = time.Hour

// Memo 按原始 watch URL 记住解析结果。
// 锁内只做 map 读写与时间比较（微秒级），绝不做网络 I/O。
type Memo struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

type entry struct {
	outcome domain.Outcome
	at      time.Time
}

func New(ttl time.Duration) *Memo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memo{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Get 返回未过期的缓存结果；读到过期条目时顺手删除并按 miss 处理。
func (m *Memo) Get(key string) (domain.Outcome, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.Outcome{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return domain.Outcome{}, false
	}
	if m.now().Sub(e.at) >= m.ttl {
		delete(m.entries, key)
		return domain.Outcome{}, false
	}
	return e.outcome, true
}

// Put 以当前时间写入结果，无条件覆盖旧条目。
func (m *Memo) Put(key string, o domain.Outcome) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{outcome: o, at: m.now()}
}

// Len 返回当前条目数（含尚未被读到的过期条目）；仅用于观测。
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
