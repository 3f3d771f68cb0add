package retry

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/betbot/volarb/pkg/duration"
)

func TestPolicy_DoSucceedsAfterRetries(t *testing.T) {
	p := Policy{MaxAttempts: 3, Delay: duration.New(time.Millisecond)}

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("暂时失败")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("第三次应成功: %v", err)
	}
	if calls != 3 {
		t.Fatalf("期望尝试 3 次，实际 %d 次", calls)
	}
}

func TestPolicy_DoExhausted(t *testing.T) {
	p := Policy{MaxAttempts: 2, Delay: duration.New(time.Millisecond)}

	want := errors.New("一直失败")
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("应返回最后一次错误，得到 %v", err)
	}
	if calls != 2 {
		t.Fatalf("期望尝试 2 次，实际 %d 次", calls)
	}
}

func TestPolicy_DoZeroAttemptsMeansOne(t *testing.T) {
	var p Policy
	calls := 0
	_ = p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("x")
	})
	if calls != 1 {
		t.Fatalf("MaxAttempts<=0 应至少尝试一次，实际 %d", calls)
	}
}

func TestPolicy_DoContextCancelled(t *testing.T) {
	p := Policy{MaxAttempts: 5, Delay: duration.New(time.Hour)}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- p.Do(ctx, func(ctx context.Context) error {
			calls++
			return errors.New("失败")
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("取消后应返回 ctx.Err()，得到 %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("取消后 Do 应立即返回")
	}
	if calls != 1 {
		t.Fatalf("取消前只应尝试一次，实际 %d", calls)
	}
}

func TestPolicy_Backoff(t *testing.T) {
	p := Policy{
		MaxAttempts: 4,
		Delay:       duration.New(time.Millisecond),
		Backoff:     2,
		MaxDelay:    duration.New(2 * time.Millisecond),
	}
	start := time.Now()
	_ = p.Do(context.Background(), func(ctx context.Context) error {
		return errors.New("失败")
	})
	// 1ms + 2ms + 2ms（封顶）≈ 5ms，只验证下界避免计时抖动
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Fatalf("退避延迟过短: %v", elapsed)
	}
}
