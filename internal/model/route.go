package model

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// RouteRequest is the caller input for route discovery.
type RouteRequest struct {
	From        common.Address
	To          common.Address
	Amount      *uint256.Int
	SlippageBps int
	MaxHops     int
}

// HopQuote is the simulated outcome of one edge of a path.
type HopQuote struct {
	TokenIn   common.Address
	TokenOut  common.Address
	AmountIn  *uint256.Int
	AmountOut *uint256.Int
	Fee       *uint256.Int
	Gas       uint64
}

// RouteResult aggregates the simulation of a full path. Values handed out by the
// router are never mutated afterwards; use Clone before modifying a copy.
type RouteResult struct {
	Path           Path
	AmountIn       *uint256.Int
	ExpectedOutput *uint256.Int
	MinOutput      *uint256.Int
	Fee            *uint256.Int
	EstimatedGas   uint64
	// IntermediateOutputs holds the output of every hop; the last one equals ExpectedOutput.
	IntermediateOutputs []*uint256.Int
	Hops                []HopQuote
	SlippageBps         int
	// NetOutput is ExpectedOutput minus the gas cost, and may be negative.
	NetOutput *big.Int
}

func (r *RouteResult) Clone() *RouteResult {
	if r == nil {
		return nil
	}
	out := &RouteResult{
		Path:           r.Path.Clone(),
		AmountIn:       cloneAmount(r.AmountIn),
		ExpectedOutput: cloneAmount(r.ExpectedOutput),
		MinOutput:      cloneAmount(r.MinOutput),
		Fee:            cloneAmount(r.Fee),
		EstimatedGas:   r.EstimatedGas,
		SlippageBps:    r.SlippageBps,
	}
	if r.NetOutput != nil {
		out.NetOutput = new(big.Int).Set(r.NetOutput)
	}
	if r.IntermediateOutputs != nil {
		out.IntermediateOutputs = make([]*uint256.Int, len(r.IntermediateOutputs))
		for i, amount := range r.IntermediateOutputs {
			out.IntermediateOutputs[i] = cloneAmount(amount)
		}
	}
	if r.Hops != nil {
		out.Hops = make([]HopQuote, len(r.Hops))
		for i, hop := range r.Hops {
			out.Hops[i] = HopQuote{
				TokenIn:   hop.TokenIn,
				TokenOut:  hop.TokenOut,
				AmountIn:  cloneAmount(hop.AmountIn),
				AmountOut: cloneAmount(hop.AmountOut),
				Fee:       cloneAmount(hop.Fee),
				Gas:       hop.Gas,
			}
		}
	}
	return out
}

type hopQuoteJSON struct {
	TokenIn   string `json:"token_in"`
	TokenOut  string `json:"token_out"`
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
	Fee       string `json:"fee"`
	Gas       uint64 `json:"gas"`
}

type routeResultJSON struct {
	Path                []string       `json:"path"`
	AmountIn            string         `json:"amount_in"`
	ExpectedOutput      string         `json:"expected_output"`
	MinOutput           string         `json:"min_output"`
	Fee                 string         `json:"fee"`
	EstimatedGas        uint64         `json:"estimated_gas"`
	IntermediateOutputs []string       `json:"intermediate_outputs"`
	Hops                []hopQuoteJSON `json:"hops"`
	SlippageBps         int            `json:"slippage_bps"`
	NetOutput           string         `json:"net_output"`
}

// MarshalJSON encodes amounts as decimal strings.
func (r RouteResult) MarshalJSON() ([]byte, error) {
	out := routeResultJSON{
		Path:                make([]string, 0, len(r.Path)),
		AmountIn:            AmountString(r.AmountIn),
		ExpectedOutput:      AmountString(r.ExpectedOutput),
		MinOutput:           AmountString(r.MinOutput),
		Fee:                 AmountString(r.Fee),
		EstimatedGas:        r.EstimatedGas,
		IntermediateOutputs: make([]string, 0, len(r.IntermediateOutputs)),
		Hops:                make([]hopQuoteJSON, 0, len(r.Hops)),
		SlippageBps:         r.SlippageBps,
		NetOutput:           "0",
	}
	for _, token := range r.Path {
		out.Path = append(out.Path, token.Hex())
	}
	for _, amount := range r.IntermediateOutputs {
		out.IntermediateOutputs = append(out.IntermediateOutputs, AmountString(amount))
	}
	for _, hop := range r.Hops {
		out.Hops = append(out.Hops, hopQuoteJSON{
			TokenIn:   hop.TokenIn.Hex(),
			TokenOut:  hop.TokenOut.Hex(),
			AmountIn:  AmountString(hop.AmountIn),
			AmountOut: AmountString(hop.AmountOut),
			Fee:       AmountString(hop.Fee),
			Gas:       hop.Gas,
		})
	}
	if r.NetOutput != nil {
		out.NetOutput = r.NetOutput.String()
	}
	return json.Marshal(out)
}

// AmountString renders an amount in decimal, treating nil as zero.
func AmountString(amount *uint256.Int) string {
	if amount == nil {
		return "0"
	}
	return amount.Dec()
}

func cloneAmount(amount *uint256.Int) *uint256.Int {
	if amount == nil {
		return nil
	}
	return amount.Clone()
}
