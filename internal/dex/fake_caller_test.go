package dex

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

type callHandler func(args []interface{}) ([]interface{}, error)

type registeredMethod struct {
	method  abi.Method
	handler callHandler
}

// fakeCaller answers eth_calls by contract address and method selector.
type fakeCaller struct {
	mu      sync.Mutex
	methods map[common.Address]map[string]registeredMethod
	calls   map[string]int
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{
		methods: make(map[common.Address]map[string]registeredMethod),
		calls:   make(map[string]int),
	}
}

func (f *fakeCaller) handle(to common.Address, parsed abi.ABI, name string, handler callHandler) {
	method, ok := parsed.Methods[name]
	if !ok {
		panic("unknown method " + name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.methods[to] == nil {
		f.methods[to] = make(map[string]registeredMethod)
	}
	f.methods[to][string(method.ID)] = registeredMethod{method: method, handler: handler}
}

func (f *fakeCaller) count(to common.Address, name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[to.Hex()+":"+name]
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if msg.To == nil || len(msg.Data) < 4 {
		return nil, fmt.Errorf("bad call")
	}
	f.mu.Lock()
	reg, ok := f.methods[*msg.To][string(msg.Data[:4])]
	if ok {
		f.calls[msg.To.Hex()+":"+reg.method.Name]++
	}
	f.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("execution reverted")
	}

	args, err := reg.method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	out, err := reg.handler(args)
	if err != nil {
		return nil, err
	}
	return reg.method.Outputs.Pack(out...)
}

func mustABI(l *lazyABI) abi.ABI {
	parsed, err := l.get()
	if err != nil {
		panic(err)
	}
	return parsed
}
