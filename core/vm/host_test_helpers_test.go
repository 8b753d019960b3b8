package vm

import (
	"github.com/holiman/uint256"

	"github.com/oi2996814/evmone/core/types"
)

// fakeHost is a minimal, map-backed Host used by this package's own tests.
// It is not exported: a production host backs the same interface with a
// real state trie and access-list tracker.
type fakeHost struct {
	balances  map[types.Address]*uint256.Int
	code      map[types.Address][]byte
	storage   map[types.Address]map[types.Hash]types.Hash
	committed map[types.Address]map[types.Hash]types.Hash
	transient map[types.Address]map[types.Hash]types.Hash
	warmAddr  map[types.Address]bool
	warmSlot  map[types.Address]map[types.Hash]bool
	logs           []types.Log
	refund         int64
	callFn         func(msg *Message) *CallResult
	txContext      TxContext
	selfDestructed bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		balances:  make(map[types.Address]*uint256.Int),
		code:      make(map[types.Address][]byte),
		storage:   make(map[types.Address]map[types.Hash]types.Hash),
		committed: make(map[types.Address]map[types.Hash]types.Hash),
		transient: make(map[types.Address]map[types.Hash]types.Hash),
		warmAddr:  make(map[types.Address]bool),
		warmSlot:  make(map[types.Address]map[types.Hash]bool),
	}
}

func (h *fakeHost) AccountExists(addr types.Address) bool {
	_, ok := h.balances[addr]
	return ok
}

func (h *fakeHost) GetBalance(addr types.Address) *uint256.Int {
	if b, ok := h.balances[addr]; ok {
		return b.Clone()
	}
	return uint256.NewInt(0)
}

func (h *fakeHost) GetCodeSize(addr types.Address) int { return len(h.code[addr]) }
func (h *fakeHost) GetCodeHash(addr types.Address) types.Hash {
	return types.Hash{}
}
func (h *fakeHost) GetCode(addr types.Address) []byte { return h.code[addr] }

func (h *fakeHost) GetStorage(addr types.Address, key types.Hash) types.Hash {
	if m, ok := h.storage[addr]; ok {
		return m[key]
	}
	return types.Hash{}
}

func (h *fakeHost) GetCommittedStorage(addr types.Address, key types.Hash) types.Hash {
	if m, ok := h.committed[addr]; ok {
		return m[key]
	}
	return types.Hash{}
}

func (h *fakeHost) SetStorage(addr types.Address, key, value types.Hash) StorageStatus {
	if h.storage[addr] == nil {
		h.storage[addr] = make(map[types.Hash]types.Hash)
	}
	h.storage[addr][key] = value
	return StorageAssigned
}

func (h *fakeHost) GetTransientStorage(addr types.Address, key types.Hash) types.Hash {
	if m, ok := h.transient[addr]; ok {
		return m[key]
	}
	return types.Hash{}
}

func (h *fakeHost) SetTransientStorage(addr types.Address, key, value types.Hash) {
	if h.transient[addr] == nil {
		h.transient[addr] = make(map[types.Hash]types.Hash)
	}
	h.transient[addr][key] = value
}

func (h *fakeHost) SelfDestruct(addr, beneficiary types.Address) bool {
	h.selfDestructed = true
	return true
}

func (h *fakeHost) EmitLog(addr types.Address, topics []types.Hash, data []byte) {
	h.logs = append(h.logs, types.Log{Address: addr, Topics: topics, Data: data})
}

func (h *fakeHost) Call(msg *Message) *CallResult {
	if h.callFn != nil {
		return h.callFn(msg)
	}
	return &CallResult{GasLeft: msg.Gas}
}

func (h *fakeHost) GetBlockHash(number uint64) types.Hash { return types.Hash{} }
func (h *fakeHost) GetTxContext() TxContext                { return h.txContext }

func (h *fakeHost) AccessAccount(addr types.Address) AccessStatus {
	if h.warmAddr[addr] {
		return AccessStatusWarm
	}
	h.warmAddr[addr] = true
	return AccessStatusCold
}

func (h *fakeHost) AccessStorage(addr types.Address, key types.Hash) AccessStatus {
	if h.warmSlot[addr] != nil && h.warmSlot[addr][key] {
		return AccessStatusWarm
	}
	if h.warmSlot[addr] == nil {
		h.warmSlot[addr] = make(map[types.Hash]bool)
	}
	h.warmSlot[addr][key] = true
	return AccessStatusCold
}

func (h *fakeHost) AddRefund(delta int64) { h.refund += delta }
