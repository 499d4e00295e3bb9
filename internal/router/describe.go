package router

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"swapRoute/internal/model"
)

// DescribeRoute renders a route as "A → B (amount B) → C". Intermediate tokens
// carry the amount received at that hop. Output depends only on the route and labels.
func DescribeRoute(route *model.RouteResult, labels TokenLabeler) string {
	if route == nil || len(route.Path) == 0 {
		return ""
	}

	var b strings.Builder
	last := len(route.Path) - 1
	for i, token := range route.Path {
		symbol, decimals := tokenLabel(token, labels)
		b.WriteString(symbol)
		if i == last {
			break
		}
		if i > 0 && i-1 < len(route.IntermediateOutputs) {
			fmt.Fprintf(&b, " (%s %s)", formatAmount(route.IntermediateOutputs[i-1], decimals), symbol)
		}
		b.WriteString(" → ")
	}
	return b.String()
}

func tokenLabel(token common.Address, labels TokenLabeler) (string, int32) {
	if labels != nil {
		if meta, ok := labels.Lookup(token); ok && meta.Symbol != "" {
			return meta.Symbol, int32(meta.Decimals)
		}
	}
	if model.IsNative(token) {
		return "NATIVE", 18
	}
	hex := token.Hex()
	return hex[:6] + "…" + hex[len(hex)-4:], 0
}

func formatAmount(amount *uint256.Int, decimals int32) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount.ToBig(), -decimals).String()
}
