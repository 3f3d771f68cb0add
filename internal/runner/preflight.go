// Package runner 把各部件拼成一次交易会话：
// 行情槽 → 策略引擎 → 执行器 → 成交回调，外加周期性持仓对账与余额闸门。
package runner

import (
	"context"

	"github.com/pkg/errors"

	"github.com/betbot/volarb/internal/ports"
	"github.com/betbot/volarb/pkg/retry"
)

// ConnectivityVerifier 启动前连通性自检
type ConnectivityVerifier interface {
	VerifyConnectivity(ctx context.Context, policy retry.Policy) error
}

// Preflight 启动前自检：
// 先断言客户端具备会话需要的全部能力（缺失立即报具名错误），
// 再在重试策略内验证 REST 可达性。
func Preflight(ctx context.Context, client any, policy retry.Policy) error {
	if err := ports.Require(client, "order-submit", "balance", "positions"); err != nil {
		return errors.Wrap(err, "客户端能力检查失败")
	}
	v, ok := client.(ConnectivityVerifier)
	if !ok {
		return &ports.ErrUnsupportedCapability{Capability: "connectivity"}
	}
	if err := v.VerifyConnectivity(ctx, policy); err != nil {
		return errors.Wrap(err, "连通性自检失败")
	}
	return nil
}
