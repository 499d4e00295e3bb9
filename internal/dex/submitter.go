package dex

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"swapRoute/internal/model"
)

// SwapRouter02 sentinel recipient meaning "the router itself".
var routerSelf = common.BigToAddress(big.NewInt(2))

// Backend is the chain surface needed to sign, send and confirm swaps.
type Backend interface {
	ContractCaller
	ChainID(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	WaitReceipt(ctx context.Context, txHash common.Hash, poll time.Duration, timeout time.Duration) (*types.Receipt, error)
}

// SubmitterConfig configures on-chain hop execution through SwapRouter02.
type SubmitterConfig struct {
	Router         common.Address
	PrivateKey     string
	ReceiptPoll    time.Duration
	ReceiptTimeout time.Duration
	Deadline       time.Duration
}

// Submitter executes single hops through SwapRouter02 and reports the confirmed output.
type Submitter struct {
	backend Backend
	pools   PoolResolver
	router  common.Address
	key     *ecdsa.PrivateKey
	from    common.Address
	cfg     SubmitterConfig
	logger  *zap.Logger
}

type exactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

func NewSubmitter(cfg SubmitterConfig, backend Backend, pools PoolResolver, logger *zap.Logger) (*Submitter, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is nil")
	}
	if pools == nil {
		return nil, fmt.Errorf("pool resolver is nil")
	}
	if cfg.Router == (common.Address{}) {
		return nil, fmt.Errorf("swap router address is required")
	}
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("private key is required")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	if cfg.ReceiptPoll <= 0 {
		cfg.ReceiptPoll = 2 * time.Second
	}
	if cfg.ReceiptTimeout <= 0 {
		cfg.ReceiptTimeout = 2 * time.Minute
	}
	if cfg.Deadline <= 0 {
		cfg.Deadline = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{
		backend: backend,
		pools:   pools,
		router:  cfg.Router,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// Sender returns the account that signs swaps.
func (s *Submitter) Sender() common.Address {
	return s.from
}

// Submit performs one swap and blocks until it is confirmed. A mined but reverted
// transaction is reported through Status rather than as an error.
func (s *Submitter) Submit(ctx context.Context, tokenIn, tokenOut common.Address, amountIn, minAmountOut *uint256.Int) (model.SubmitResult, error) {
	if amountIn == nil || amountIn.IsZero() {
		return model.SubmitResult{}, fmt.Errorf("amount in is zero")
	}
	if minAmountOut == nil {
		minAmountOut = new(uint256.Int)
	}

	params, err := s.pools.StaticParams(ctx, tokenIn, tokenOut)
	if err != nil {
		return model.SubmitResult{}, fmt.Errorf("pool params: %w", err)
	}
	resolvedIn, resolvedOut := s.pools.Resolve(tokenIn), s.pools.Resolve(tokenOut)

	value := new(big.Int)
	if model.IsNative(tokenIn) {
		value = amountIn.ToBig()
	} else if err := s.ensureAllowance(ctx, resolvedIn, amountIn); err != nil {
		return model.SubmitResult{}, err
	}

	data, err := s.swapCalldata(ctx, params, resolvedIn, resolvedOut, amountIn, minAmountOut, model.IsNative(tokenOut))
	if err != nil {
		return model.SubmitResult{}, err
	}

	receipt, err := s.sendAndWait(ctx, s.router, value, data)
	if err != nil {
		return model.SubmitResult{}, fmt.Errorf("swap: %w", err)
	}

	result := model.SubmitResult{TxHash: receipt.TxHash, GasUsed: receipt.GasUsed, Status: model.HopFailure}
	if receipt.Status != types.ReceiptStatusSuccessful {
		s.logger.Warn("swap reverted",
			zap.String("tx", receipt.TxHash.Hex()),
			zap.String("pool", params.Pool.Hex()),
		)
		return result, nil
	}

	outBig, err := swapOutputFromLogs(receipt.Logs, params.Pool, resolvedOut == params.Token0)
	if err != nil {
		return result, fmt.Errorf("read swap output: %w", err)
	}
	amountOut, overflow := uint256.FromBig(outBig)
	if overflow {
		return result, fmt.Errorf("swap output out of range: %s", outBig.String())
	}

	result.Status = model.HopSuccess
	result.AmountOut = amountOut

	s.logger.Info("swap confirmed",
		zap.String("tx", receipt.TxHash.Hex()),
		zap.String("pool", params.Pool.Hex()),
		zap.String("amount_in", amountIn.Dec()),
		zap.String("amount_out", amountOut.Dec()),
		zap.Uint64("gas_used", receipt.GasUsed),
	)
	return result, nil
}

func (s *Submitter) swapCalldata(ctx context.Context, params model.PoolParams, tokenIn, tokenOut common.Address, amountIn, minAmountOut *uint256.Int, unwrap bool) ([]byte, error) {
	routerABI, err := SwapRouter02ABI()
	if err != nil {
		return nil, fmt.Errorf("parse router abi: %w", err)
	}

	recipient := s.from
	if unwrap {
		recipient = routerSelf
	}

	swap, err := routerABI.Pack("exactInputSingle", exactInputSingleParams{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		Fee:               new(big.Int).SetUint64(uint64(params.FeeTier)),
		Recipient:         recipient,
		AmountIn:          amountIn.ToBig(),
		AmountOutMinimum:  minAmountOut.ToBig(),
		SqrtPriceLimitX96: new(big.Int),
	})
	if err != nil {
		return nil, fmt.Errorf("pack exactInputSingle: %w", err)
	}

	calls := [][]byte{swap}
	if unwrap {
		unwrapCall, err := routerABI.Pack("unwrapWETH9", minAmountOut.ToBig(), s.from)
		if err != nil {
			return nil, fmt.Errorf("pack unwrapWETH9: %w", err)
		}
		calls = append(calls, unwrapCall)
	}

	header, err := s.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("latest header: %w", err)
	}
	deadline := new(big.Int).SetUint64(header.Time + uint64(s.cfg.Deadline/time.Second))

	data, err := routerABI.Pack("multicall", deadline, calls)
	if err != nil {
		return nil, fmt.Errorf("pack multicall: %w", err)
	}
	return data, nil
}

func (s *Submitter) ensureAllowance(ctx context.Context, token common.Address, amount *uint256.Int) error {
	erc20, err := erc20ABIString.get()
	if err != nil {
		return fmt.Errorf("parse erc20 abi: %w", err)
	}

	values, err := callMethod(ctx, s.backend, token, erc20, "allowance", s.from, s.router)
	if err != nil {
		return err
	}
	current, err := asBigInt(values[0])
	if err != nil {
		return fmt.Errorf("allowance: %w", err)
	}
	if current.Cmp(amount.ToBig()) >= 0 {
		return nil
	}

	data, err := erc20.Pack("approve", s.router, amount.ToBig())
	if err != nil {
		return fmt.Errorf("pack approve: %w", err)
	}
	receipt, err := s.sendAndWait(ctx, token, new(big.Int), data)
	if err != nil {
		return fmt.Errorf("approve: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("approve reverted: %s", receipt.TxHash.Hex())
	}
	s.logger.Info("allowance granted",
		zap.String("token", token.Hex()),
		zap.String("spender", s.router.Hex()),
		zap.String("amount", amount.Dec()),
	)
	return nil
}

func (s *Submitter) sendAndWait(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Receipt, error) {
	chainID, err := s.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}
	nonce, err := s.backend.PendingNonceAt(ctx, s.from)
	if err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	gasPrice, err := s.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("gas price: %w", err)
	}
	gasLimit, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{From: s.from, To: &to, Value: value, Data: data})
	if err != nil {
		return nil, fmt.Errorf("estimate gas: %w", err)
	}
	gasLimit += gasLimit / 5

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("sign tx: %w", err)
	}
	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("send tx: %w", err)
	}

	s.logger.Debug("tx sent", zap.String("tx", signed.Hash().Hex()), zap.Uint64("nonce", nonce))

	return s.backend.WaitReceipt(ctx, signed.Hash(), s.cfg.ReceiptPoll, s.cfg.ReceiptTimeout)
}
