package client

import (
	"fmt"

	"github.com/betbot/volarb/clob/types"
)

// ContractConfig 各链的交易所合约配置
type ContractConfig struct {
	Exchange         string
	NegRiskExchange  string
	Collateral       string
	ConditionalToken string
}

var contractConfigs = map[types.Chain]ContractConfig{
	types.ChainPolygon: {
		Exchange:         "0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E",
		NegRiskExchange:  "0xC5d563A36AE78145C45a50134d48A1215220f80a",
		Collateral:       "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174",
		ConditionalToken: "0x4D97DCd97eC945f40cF65F87097ACe5EA0476045",
	},
	types.ChainAmoy: {
		Exchange:         "0xdFE02Eb6733538f8Ea35D585af8DE5958AD99E40",
		NegRiskExchange:  "0xC5d563A36AE78145C45a50134d48A1215220f80a",
		Collateral:       "0x9c4e1703476e875070ee25b56a58b008cfb8fa78",
		ConditionalToken: "0x69308FB512518e39F9b16112fA8d994F4e2Bf8bB",
	},
}

// GetContractConfig 返回指定链的合约配置
func GetContractConfig(chainID types.Chain) (ContractConfig, error) {
	cfg, ok := contractConfigs[chainID]
	if !ok {
		return ContractConfig{}, fmt.Errorf("不支持的链 ID: %d", chainID)
	}
	return cfg, nil
}

// CollateralTokenDecimals USDC 精度
const CollateralTokenDecimals = 6
