// Package ratelimit 实现按客户端身份的滑动窗口准入控制。
//
// 语义（精确，不是令牌桶近似）：
// - 窗口 W 内同一身份最多放行 N 次
// - 第 N+1 次拒绝，且拒绝不记账（不延长对方的惩罚期）
// - 窗口滑过后自动恢复放行
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultMax    = 30
	DefaultWindow = time.Minute

	// sweepThreshold 触发全量清扫的身份数阈值。
	// 正常淘汰是惰性的：某身份修剪后窗口为空即从 map 删除；
	// 全量清扫只兜底“大量一次性客户端”导致的 map 膨胀。
	sweepThreshold = 4096
)

// Limiter 维护每个身份在滑动窗口内的请求时间戳。
// 锁内只做切片修剪与 map 读写，绝不做网络 I/O。
type Limiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	now    func() time.Time
	byID   map[string][]time.Time
}

func New(max int, window time.Duration) *Limiter {
	if max <= 0 {
		max = DefaultMax
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		max:    max,
		window: window,
		now:    time.Now,
		byID:   make(map[string][]time.Time),
	}
}

// Allow 判定该身份的本次请求是否放行；放行时记账，拒绝时不记账。
func (l *Limiter) Allow(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := prune(l.byID[identity], now, l.window)

	if len(kept) >= l.max {
		l.byID[identity] = kept
		return false
	}

	l.byID[identity] = append(kept, now)

	if len(l.byID) > sweepThreshold {
		l.sweepLocked(now)
	}
	return true
}

// prune 丢弃窗口外的时间戳。窗口内条目在稳态被 max 约束，切片不会无界增长。
func prune(ts []time.Time, now time.Time, window time.Duration) []time.Time {
	i := 0
	for ; i < len(ts); i++ {
		if now.Sub(ts[i]) < window {
			break
		}
	}
	return ts[i:]
}

func (l *Limiter) sweepLocked(now time.Time) {
	for id, ts := range l.byID {
		kept := prune(ts, now, l.window)
		if len(kept) == 0 {
			delete(l.byID, id)
			continue
		}
		l.byID[id] = kept
	}
}

// Identities 返回当前被跟踪的身份数；仅用于观测。
func (l *Limiter) Identities() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byID)
}
