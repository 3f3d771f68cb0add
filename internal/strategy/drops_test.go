package strategy

import (
	"math"
	"testing"
	"testing/quick"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDropTracker_Basic(t *testing.T) {
	dt := newDropTracker(16)

	if stats := dt.Stats(); stats != nil {
		t.Fatalf("无样本时统计应为 nil，得到 %+v", stats)
	}

	dt.Observe(0.50)
	dt.Observe(0.60)
	dt.Observe(0.45)

	stats := dt.Stats()
	if stats == nil {
		t.Fatal("有样本后统计不应为 nil")
	}
	if stats.WindowHigh != 0.60 {
		t.Fatalf("窗口高点期望 0.60，得到 %.5f", stats.WindowHigh)
	}
	if !almostEqual(stats.DropRatio, (0.60-0.45)/0.60) {
		t.Fatalf("当前回撤期望 %.5f，得到 %.5f", (0.60-0.45)/0.60, stats.DropRatio)
	}
	if stats.Samples != 3 {
		t.Fatalf("样本数期望 3，得到 %d", stats.Samples)
	}

	// 反弹后当前回撤缩小，最大回撤保留
	dt.Observe(0.58)
	stats = dt.Stats()
	if !almostEqual(stats.DropRatio, (0.60-0.58)/0.60) {
		t.Fatalf("反弹后当前回撤期望 %.5f，得到 %.5f", (0.60-0.58)/0.60, stats.DropRatio)
	}
	if !almostEqual(stats.MaxDropRatio, (0.60-0.45)/0.60) {
		t.Fatalf("最大回撤应保留 %.5f，得到 %.5f", (0.60-0.45)/0.60, stats.MaxDropRatio)
	}
}

func TestDropTracker_HighIsMonotone(t *testing.T) {
	dt := newDropTracker(4)
	for _, p := range []float64{0.80, 0.10, 0.20, 0.30, 0.40, 0.50} {
		dt.Observe(p)
	}
	// 缓冲区已滚动丢弃 0.80，但窗口高点在持仓期内单调不回落
	stats := dt.Stats()
	if stats.WindowHigh != 0.80 {
		t.Fatalf("高点应保持 0.80，得到 %.5f", stats.WindowHigh)
	}
	if dt.Len() != 4 {
		t.Fatalf("缓冲区应裁剪到 4，得到 %d", dt.Len())
	}
	if stats.Samples != 6 {
		t.Fatalf("样本计数应跨越裁剪累计，得到 %d", stats.Samples)
	}
}

func TestDropTracker_Properties(t *testing.T) {
	f := func(raw []uint16) bool {
		dt := newDropTracker(32)
		high := 0.0
		for _, r := range raw {
			p := float64(r%9999+1) / 10000 // (0,1) 内的价格
			dt.Observe(p)
			if p > high {
				high = p
			}
		}
		if len(raw) == 0 {
			return dt.Stats() == nil
		}
		stats := dt.Stats()
		if stats == nil {
			return false
		}
		// 高点与逐笔最大值一致；回撤落在 [0,1)；最大回撤 ≥ 当前回撤
		return almostEqual(stats.WindowHigh, high) &&
			stats.DropRatio >= 0 && stats.DropRatio < 1 &&
			stats.MaxDropRatio >= stats.DropRatio-1e-9
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatalf("回撤统计性质不成立: %v", err)
	}
}
