package signing

import (
	"encoding/base64"
	"math/big"
	"strings"
	"testing"

	"github.com/betbot/volarb/clob/types"
)

// 公开的测试私钥（anvil/hardhat 默认账户 0），仅用于单元测试
const (
	testKeyHex  = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testKeyAddr = "0xf39Fd6e5aEED88F6F4ce6aB8827279cffFb92266"
)

func TestPrivateKeyFromHex(t *testing.T) {
	for _, in := range []string{testKeyHex, "0x" + testKeyHex, "0X" + testKeyHex} {
		key, err := PrivateKeyFromHex(in)
		if err != nil {
			t.Fatalf("解析私钥失败 (%q): %v", in[:4], err)
		}
		if got := GetAddressFromPrivateKey(key).Hex(); got != testKeyAddr {
			t.Fatalf("地址不匹配: got=%s want=%s", got, testKeyAddr)
		}
	}

	if _, err := PrivateKeyFromHex("not-a-key"); err == nil {
		t.Fatal("非法私钥应报错")
	}
}

func TestBuildClobAuthSignature(t *testing.T) {
	key, err := PrivateKeyFromHex(testKeyHex)
	if err != nil {
		t.Fatalf("解析私钥失败: %v", err)
	}

	sig, err := BuildClobAuthSignature(key, types.ChainPolygon, 1700000000, 0)
	if err != nil {
		t.Fatalf("构建签名失败: %v", err)
	}
	if !strings.HasPrefix(sig, "0x") || len(sig) != 2+65*2 {
		t.Fatalf("签名格式错误: len=%d sig=%s", len(sig), sig)
	}

	// 确定性：同一输入必须产出同一签名
	sig2, err := BuildClobAuthSignature(key, types.ChainPolygon, 1700000000, 0)
	if err != nil {
		t.Fatalf("构建签名失败: %v", err)
	}
	if sig != sig2 {
		t.Fatal("相同输入的签名应当一致")
	}

	// timestamp 变化必须改变签名
	sig3, err := BuildClobAuthSignature(key, types.ChainPolygon, 1700000001, 0)
	if err != nil {
		t.Fatalf("构建签名失败: %v", err)
	}
	if sig == sig3 {
		t.Fatal("不同 timestamp 的签名不应相同")
	}
}

func TestBuildOrderSignature(t *testing.T) {
	key, err := PrivateKeyFromHex(testKeyHex)
	if err != nil {
		t.Fatalf("解析私钥失败: %v", err)
	}

	order := &OrderData{
		Salt:          12345,
		Maker:         testKeyAddr,
		Signer:        testKeyAddr,
		Taker:         "0x0000000000000000000000000000000000000000",
		TokenID:       big.NewInt(77),
		MakerAmount:   big.NewInt(1_000_000),
		TakerAmount:   big.NewInt(2_000_000),
		Expiration:    big.NewInt(0),
		Nonce:         big.NewInt(0),
		FeeRateBps:    big.NewInt(0),
		Side:          types.SideBuy,
		SignatureType: types.SignatureTypePolyGnosisSafe,
	}

	const exchange = "0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E"
	sig, err := BuildOrderSignature(key, types.ChainPolygon, exchange, order)
	if err != nil {
		t.Fatalf("构建订单签名失败: %v", err)
	}
	if !strings.HasPrefix(sig, "0x") || len(sig) != 2+65*2 {
		t.Fatalf("签名格式错误: len=%d", len(sig))
	}

	// BUY/SELL 参与 EIP712 哈希，方向不同签名必须不同
	order.Side = types.SideSell
	sellSig, err := BuildOrderSignature(key, types.ChainPolygon, exchange, order)
	if err != nil {
		t.Fatalf("构建订单签名失败: %v", err)
	}
	if sig == sellSig {
		t.Fatal("BUY 与 SELL 的签名不应相同")
	}
}

func TestBuildPolyHmacSignature(t *testing.T) {
	secret := base64.URLEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

	sig, err := BuildPolyHmacSignature(secret, 1700000000, "POST", "/order", nil)
	if err != nil {
		t.Fatalf("构建 HMAC 签名失败: %v", err)
	}
	if sig == "" {
		t.Fatal("签名不应为空")
	}
	if strings.ContainsAny(sig, "+/") {
		t.Fatalf("签名应为 URL 安全 base64: %s", sig)
	}

	// 确定性
	sig2, _ := BuildPolyHmacSignature(secret, 1700000000, "POST", "/order", nil)
	if sig != sig2 {
		t.Fatal("相同输入的 HMAC 应当一致")
	}

	// body 参与签名
	body := `{"orderID":"1"}`
	sig3, _ := BuildPolyHmacSignature(secret, 1700000000, "POST", "/order", &body)
	if sig == sig3 {
		t.Fatal("带 body 的签名不应与不带 body 的相同")
	}

	if _, err := BuildPolyHmacSignature("!!!not-base64!!!", 1700000000, "GET", "/", nil); err == nil {
		t.Fatal("非法 secret 应报错")
	}
}
