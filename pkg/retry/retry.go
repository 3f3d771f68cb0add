// Package retry 提供有界重试策略（次数上限 + 固定/退避延迟）。
// 用于连通性自检等场景，替代写死在控制流里的 sleep 循环。
package retry

import (
	"context"
	"time"

	"github.com/betbot/volarb/pkg/duration"
)

// Policy 重试策略
type Policy struct {
	// MaxAttempts 最大尝试次数（含首次），<=0 视为 1
	MaxAttempts int `yaml:"maxAttempts" json:"maxAttempts"`
	// Delay 两次尝试之间的基础延迟
	Delay duration.Duration `yaml:"delay" json:"delay"`
	// Backoff 延迟倍增系数（<=1 表示固定延迟）
	Backoff float64 `yaml:"backoff" json:"backoff"`
	// MaxDelay 延迟上限（0 表示不设上限）
	MaxDelay duration.Duration `yaml:"maxDelay" json:"maxDelay"`
}

// DefaultPolicy 默认策略：3 次，1.5s 固定间隔
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, Delay: duration.New(1500 * time.Millisecond)}
}

// Do 按策略执行 fn，直到成功或尝试次数耗尽。
// 返回最后一次的错误；ctx 取消时立即返回 ctx.Err()。
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	delay := p.Delay.Duration
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
		if p.Backoff > 1 {
			delay = time.Duration(float64(delay) * p.Backoff)
			if p.MaxDelay.Duration > 0 && delay > p.MaxDelay.Duration {
				delay = p.MaxDelay.Duration
			}
		}
	}
	return lastErr
}
