package dex

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"swapRoute/internal/model"
)

// TokenBook caches token display metadata. Once a token has been resolved its
// label stays available; the TTL only decides when Warm asks the chain again.
// A failed refresh keeps the previous entry. Preset entries are never refreshed.
type TokenBook struct {
	caller ContractCaller
	known  *cache.Cache
	fresh  *cache.Cache
	logger *zap.Logger
}

func NewTokenBook(caller ContractCaller, ttl time.Duration, logger *zap.Logger) *TokenBook {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenBook{
		caller: caller,
		known:  cache.New(cache.NoExpiration, 0),
		fresh:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// Preset registers metadata that is known without a chain call.
func (b *TokenBook) Preset(token common.Address, meta model.TokenMeta) {
	if meta.Address == "" {
		meta.Address = token.Hex()
	}
	key := tokenKey(token)
	b.known.Set(key, meta, cache.NoExpiration)
	b.fresh.Set(key, struct{}{}, cache.NoExpiration)
}

// Lookup returns cached metadata without touching the chain.
func (b *TokenBook) Lookup(token common.Address) (model.TokenMeta, bool) {
	value, ok := b.known.Get(tokenKey(token))
	if !ok {
		return model.TokenMeta{}, false
	}
	meta, ok := value.(model.TokenMeta)
	return meta, ok
}

// Warm fetches metadata for tokens that are missing or due for a refresh.
// Failures are logged and skipped.
func (b *TokenBook) Warm(ctx context.Context, tokens ...common.Address) {
	if b.caller == nil {
		return
	}
	for _, token := range tokens {
		key := tokenKey(token)
		if _, ok := b.fresh.Get(key); ok {
			continue
		}
		meta, err := FetchTokenMeta(ctx, b.caller, token, b.logger)
		if err != nil {
			b.logger.Warn("token metadata fetch failed", zap.String("token", token.Hex()), zap.Error(err))
			continue
		}
		b.known.Set(key, meta, cache.NoExpiration)
		b.fresh.SetDefault(key, struct{}{})
	}
}

func tokenKey(token common.Address) string {
	return strings.ToLower(token.Hex())
}

// FetchTokenMeta loads token metadata via ERC20 calls, falling back to bytes32 symbol and name.
func FetchTokenMeta(ctx context.Context, caller ContractCaller, token common.Address, logger *zap.Logger) (model.TokenMeta, error) {
	meta := model.TokenMeta{Address: token.Hex()}
	if caller == nil {
		return meta, fmt.Errorf("contract caller is nil")
	}

	stringABI, err := erc20ABIString.get()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 string abi: %w", err)
	}
	bytes32ABI, err := erc20ABIBytes32.get()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}

	values, err := callMethod(ctx, caller, token, stringABI, "decimals")
	if err != nil {
		return meta, err
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return meta, err
	}
	meta.Decimals = decimals

	meta.Symbol = fetchText(ctx, caller, token, "symbol", stringABI, bytes32ABI, logger)
	meta.Name = fetchText(ctx, caller, token, "name", stringABI, bytes32ABI, logger)

	return meta, nil
}

func fetchText(ctx context.Context, caller ContractCaller, token common.Address, method string, stringABI, bytes32ABI abi.ABI, logger *zap.Logger) string {
	values, err := callMethod(ctx, caller, token, stringABI, method)
	if err == nil {
		if text, ok := values[0].(string); ok {
			return text
		}
	}
	values, err = callMethod(ctx, caller, token, bytes32ABI, method)
	if err == nil {
		if text, ok := bytes32ToString(values[0]); ok {
			return text
		}
	}
	if err != nil && logger != nil {
		logger.Debug(method+" call failed", zap.String("token", token.Hex()), zap.Error(err))
	}
	return ""
}
