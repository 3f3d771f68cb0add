package execution

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBuy(t *testing.T) {
	var q Quantizer

	tests := []struct {
		name      string
		price     float64
		size      float64
		wantPrice float64
		wantSize  float64
	}{
		{"整齐输入原样通过", 0.52, 10, 0.52, 10},
		{"价格向上取整到 2 位", 0.5212, 10, 0.53, 10},
		{"数量向上取整到 4 位", 0.52, 10.00001, 0.52, 10.0001},
		{"二进制浮点欠量仍向上取整", 0.1 + 0.2, 10, 0.30, 10},
		{"名义不足 $1 回退整数份数", 0.50, 1, 0.50, 2},
		{"循环小数回退取上整", 0.03, 1, 0.03, 34},
		{"名义恰好 $1 不触发回退", 0.50, 2, 0.50, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, size, err := q.NormalizeBuy(tt.price, tt.size)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantPrice, price, 1e-9)
			assert.InDelta(t, tt.wantSize, size, 1e-9)
			assert.GreaterOrEqual(t, price*size, 1.0-1e-9, "量化后名义金额必须 >= $1")
		})
	}

	_, _, err := q.NormalizeBuy(0, 10)
	require.Error(t, err)
	_, _, err = q.NormalizeBuy(0.5, -1)
	require.Error(t, err)
}

func TestNormalizeSell(t *testing.T) {
	var q Quantizer

	tests := []struct {
		name      string
		price     float64
		size      float64
		wantPrice float64
		wantSize  float64
	}{
		{"整齐输入原样通过", 0.525, 10, 0.525, 10},
		{"价格向下取整到 4 位", 0.52789, 10, 0.5278, 10},
		{"数量向下取整到 2 位", 0.52, 10.999, 0.52, 10.99},
		{"数量恰好最小份数", 0.52, 0.01, 0.52, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, size, err := q.NormalizeSell(tt.price, tt.size)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantPrice, price, 1e-9)
			assert.InDelta(t, tt.wantSize, size, 1e-9)
		})
	}

	// 取整后不足 0.01 份 → 尘埃
	_, _, err := q.NormalizeSell(0.52, 0.009)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDustSize))

	_, _, err = q.NormalizeSell(0, 1)
	require.Error(t, err)
}
