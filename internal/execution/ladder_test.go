package execution

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/betbot/volarb/clob/types"
)

// fakeSubmitter 按提交顺序回放预置应答的假撮合端
type fakeSubmitter struct {
	created []types.OrderArgs
	ticks   []types.TickSize
	posted  []types.OrderType

	responses []*types.OrderResponse
	errs      []error
	createErr error
}

func (f *fakeSubmitter) CreateOrder(_ context.Context, args types.OrderArgs, tick types.TickSize) (*types.SignedOrder, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, args)
	f.ticks = append(f.ticks, tick)
	return &types.SignedOrder{TokenID: args.TokenID}, nil
}

func (f *fakeSubmitter) PostOrder(_ context.Context, _ *types.SignedOrder, orderType types.OrderType) (*types.OrderResponse, error) {
	i := len(f.posted)
	f.posted = append(f.posted, orderType)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return &types.OrderResponse{Success: false, Status: "unmatched"}, nil
}

func TestExecuteSell_FirstRungFills(t *testing.T) {
	fake := &fakeSubmitter{
		responses: []*types.OrderResponse{{Success: true, Status: "matched", OrderID: "o-1"}},
	}
	x := NewExecutor(fake)

	resp, err := x.ExecuteSell(context.Background(), "tok", 0.60, 10)
	if err != nil {
		t.Fatalf("首档成交不应报错: %v", err)
	}
	if resp == nil || resp.OrderID != "o-1" {
		t.Fatalf("应返回首档应答，得到 %+v", resp)
	}
	if len(fake.created) != 1 {
		t.Fatalf("首档成交后不应继续降档，共下单 %d 次", len(fake.created))
	}
	if fake.created[0].Price != 0.60 || fake.created[0].Side != types.SideSell {
		t.Fatalf("首档应原价卖出: %+v", fake.created[0])
	}
	if fake.posted[0] != types.OrderTypeFOK {
		t.Fatalf("卖出必须走 FOK，得到 %s", fake.posted[0])
	}
	if fake.ticks[0] != types.TickSize00001 {
		t.Fatalf("卖出价格精度应为 0.0001，得到 %s", fake.ticks[0])
	}
}

func TestExecuteSell_LadderPricesDescendByBps(t *testing.T) {
	// 全部未成交，验证 5 档价格序列
	fake := &fakeSubmitter{}
	x := NewExecutor(fake)

	resp, err := x.ExecuteSell(context.Background(), "tok", 0.60, 10)
	if err != nil {
		t.Fatalf("全部未成交不是错误: %v", err)
	}
	if resp == nil || resp.Filled() {
		t.Fatalf("应返回最后一次未成交应答，得到 %+v", resp)
	}
	want := []float64{0.60, 0.594, 0.588, 0.582, 0.576}
	if len(fake.created) != len(want) {
		t.Fatalf("应尝试 %d 档，实际 %d 档", len(want), len(fake.created))
	}
	for i, w := range want {
		if math.Abs(fake.created[i].Price-w) > 1e-9 {
			t.Fatalf("第 %d 档价格期望 %.4f，得到 %.4f", i, w, fake.created[i].Price)
		}
	}
}

func TestExecuteSell_MidRungFillStopsLadder(t *testing.T) {
	fake := &fakeSubmitter{
		responses: []*types.OrderResponse{
			{Status: "unmatched"},
			{Status: "unmatched"},
			{Success: true, Status: "matched", OrderID: "o-3"},
		},
	}
	x := NewExecutor(fake)

	resp, err := x.ExecuteSell(context.Background(), "tok", 0.60, 10)
	if err != nil {
		t.Fatalf("中档成交不应报错: %v", err)
	}
	if resp == nil || resp.OrderID != "o-3" {
		t.Fatalf("应返回成交档应答: %+v", resp)
	}
	if len(fake.created) != 3 {
		t.Fatalf("成交后应停止降档，共 %d 档", len(fake.created))
	}
}

func TestExecuteSell_RungErrorContinues(t *testing.T) {
	fake := &fakeSubmitter{
		errs: []error{errors.New("网络抖动"), nil},
		responses: []*types.OrderResponse{
			nil,
			{Success: true, Status: "matched", OrderID: "o-2"},
		},
	}
	x := NewExecutor(fake)

	resp, err := x.ExecuteSell(context.Background(), "tok", 0.60, 10)
	if err != nil {
		t.Fatalf("单档错误应被吞掉继续降档: %v", err)
	}
	if resp == nil || resp.OrderID != "o-2" {
		t.Fatalf("应在次档成交: %+v", resp)
	}
}

func TestExecuteSell_DustSizeRejected(t *testing.T) {
	fake := &fakeSubmitter{}
	x := NewExecutor(fake)

	_, err := x.ExecuteSell(context.Background(), "tok", 0.60, 0.005)
	if !errors.Is(err, ErrDustSize) {
		t.Fatalf("尘埃数量应返回 ErrDustSize，得到 %v", err)
	}
	if len(fake.created) != 0 {
		t.Fatal("尘埃数量不应触达交易所")
	}
}

func TestExecuteBuy_SingleFAK(t *testing.T) {
	fake := &fakeSubmitter{
		responses: []*types.OrderResponse{{Success: true, Status: "matched", OrderID: "b-1"}},
	}
	x := NewExecutor(fake)

	resp, err := x.ExecuteBuy(context.Background(), "tok", 0.5212, 10)
	if err != nil {
		t.Fatalf("买入失败: %v", err)
	}
	if resp.OrderID != "b-1" {
		t.Fatalf("应返回交易所应答: %+v", resp)
	}
	if len(fake.created) != 1 {
		t.Fatalf("买入只下一笔单，实际 %d", len(fake.created))
	}
	got := fake.created[0]
	if got.Price != 0.53 || got.Side != types.SideBuy {
		t.Fatalf("买价应向上取整到 0.53: %+v", got)
	}
	if fake.posted[0] != types.OrderTypeFAK {
		t.Fatalf("买入必须走 FAK，得到 %s", fake.posted[0])
	}
	if fake.ticks[0] != types.TickSize001 {
		t.Fatalf("买入价格精度应为 0.01，得到 %s", fake.ticks[0])
	}
}

func TestExecuteBuy_MinNotionalFallback(t *testing.T) {
	fake := &fakeSubmitter{
		responses: []*types.OrderResponse{{Success: true, Status: "matched"}},
	}
	x := NewExecutor(fake)

	if _, err := x.ExecuteBuy(context.Background(), "tok", 0.50, 1); err != nil {
		t.Fatalf("买入失败: %v", err)
	}
	got := fake.created[0]
	if got.Size != 2 {
		t.Fatalf("名义不足 $1 时应回退为整数份数 2，得到 %.4f", got.Size)
	}
}
