package model

import "github.com/ethereum/go-ethereum/common"

// NativeToken is the sentinel address used for the chain's native asset.
var NativeToken = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// IsNative reports whether token is the native asset sentinel.
func IsNative(token common.Address) bool {
	return token == NativeToken
}

// TokenMeta captures ERC20 metadata.
type TokenMeta struct {
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
}
