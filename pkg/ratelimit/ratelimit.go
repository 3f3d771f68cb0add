// Package ratelimit 滑动窗口限速，用于客户端侧遵守 Polymarket 各 API 的限流。
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter 滑动窗口限速器：窗口内最多 limit 次请求。
type Limiter struct {
	limit  int
	window time.Duration

	mu       sync.Mutex
	requests []time.Time
}

// New 创建限速器。limit <= 0 表示不限速。
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{limit: limit, window: window}
}

// Allow 尝试占用一个请求名额
func (l *Limiter) Allow() bool {
	if l.limit <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.trim(now)
	if len(l.requests) >= l.limit {
		return false
	}
	l.requests = append(l.requests, now)
	return true
}

// Wait 阻塞直到拿到请求名额或 ctx 取消
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}

		l.mu.Lock()
		wait := 100 * time.Millisecond
		if len(l.requests) > 0 {
			if d := l.window - time.Since(l.requests[0]); d > wait {
				wait = d
			}
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Remaining 当前窗口剩余名额
func (l *Limiter) Remaining() int {
	if l.limit <= 0 {
		return int(^uint(0) >> 1)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trim(time.Now())
	if n := l.limit - len(l.requests); n > 0 {
		return n
	}
	return 0
}

// trim 丢弃窗口外的时间戳；调用方持锁
func (l *Limiter) trim(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.requests) && !l.requests[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.requests = append(l.requests[:0], l.requests[i:]...)
	}
}
