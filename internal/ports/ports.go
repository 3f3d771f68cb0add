// Package ports defines small capability interfaces shared across layers.
//
// Callers declare which capabilities they require via Require, and the
// system fails fast with a named "unsupported capability" error instead of
// probing methods at runtime.
package ports

import (
	"context"
	"fmt"

	"github.com/betbot/volarb/clob/types"
)

// ErrUnsupportedCapability is returned when a required capability is missing.
type ErrUnsupportedCapability struct {
	Capability string
}

func (e *ErrUnsupportedCapability) Error() string {
	return fmt.Sprintf("unsupported capability: %s", e.Capability)
}

// BestPriceGetter returns top-of-book prices as decimal floats.
type BestPriceGetter interface {
	GetBestPrice(ctx context.Context, tokenID string) (bestBid, bestAsk float64, err error)
}

// OrderSubmitter builds a signed order and submits it with a FOK/FAK policy.
type OrderSubmitter interface {
	CreateOrder(ctx context.Context, args types.OrderArgs, tick types.TickSize) (*types.SignedOrder, error)
	PostOrder(ctx context.Context, order *types.SignedOrder, orderType types.OrderType) (*types.OrderResponse, error)
}

// BalanceGetter reports the available collateral balance in USDC.
type BalanceGetter interface {
	GetCollateralBalance(ctx context.Context) (float64, error)
}

// PositionQuerier is the external source of truth for position sizes.
type PositionQuerier interface {
	GetPositionSize(ctx context.Context, tokenID string) (size, avgPrice float64, err error)
}

// Require checks that client implements every named capability.
// Supported names: best-price, order-submit, balance, positions.
func Require(client any, capabilities ...string) error {
	for _, capability := range capabilities {
		var ok bool
		switch capability {
		case "best-price":
			_, ok = client.(BestPriceGetter)
		case "order-submit":
			_, ok = client.(OrderSubmitter)
		case "balance":
			_, ok = client.(BalanceGetter)
		case "positions":
			_, ok = client.(PositionQuerier)
		default:
			return &ErrUnsupportedCapability{Capability: capability}
		}
		if !ok {
			return &ErrUnsupportedCapability{Capability: capability}
		}
	}
	return nil
}
