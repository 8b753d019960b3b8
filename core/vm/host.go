package vm

import (
	"github.com/holiman/uint256"

	"github.com/oi2996814/evmone/core/types"
)

// AccessStatus reports whether an account or storage slot had already been
// touched earlier in the same transaction, per EIP-2929. The interpreter
// asks the host for this status before charging SLOAD/BALANCE/EXTCODE*/CALL*
// gas, since only the host (which owns the access-list for the whole
// transaction, not just this call frame) can answer it.
type AccessStatus int

const (
	AccessStatusCold AccessStatus = iota
	AccessStatusWarm
)

// StorageStatus classifies an SSTORE transition for gas and refund
// accounting purposes, mirroring the EIP-2200/3529 state machine.
type StorageStatus int

const (
	StorageAssigned StorageStatus = iota
	StorageAdded
	StorageDeleted
	StorageModified
	StorageDeletedAdded
	StorageModifiedDeleted
	StorageDeletedRestored
	StorageAddedDeleted
	StorageModifiedRestored
)

// TxContext carries the transaction- and block-scoped values the
// environment opcodes (ORIGIN, GASPRICE, COINBASE, TIMESTAMP, ...) read.
type TxContext struct {
	Origin      types.Address
	GasPrice    *uint256.Int
	Coinbase    types.Address
	Number      uint64
	Timestamp   uint64
	GasLimit    uint64
	PrevRandao  types.Hash
	ChainID     *uint256.Int
	BaseFee     *uint256.Int
	BlobHashes  []types.Hash
	BlobBaseFee *uint256.Int
}

// CallKind distinguishes the six ways one contract invokes another (or
// itself, for CREATE), matching the opcode that triggered the call.
type CallKind int

const (
	CallKindCall CallKind = iota
	CallKindCallCode
	CallKindDelegateCall
	CallKindStaticCall
	CallKindCreate
	CallKindCreate2
)

// Message describes a call or contract-creation request issued by one
// frame to the host, which is responsible for running the nested
// execution (a further interpreter invocation, or a precompile) and
// returning the result.
type Message struct {
	Kind        CallKind
	Depth       int
	Gas         uint64
	Recipient   types.Address
	Sender      types.Address
	Value       *uint256.Int
	Input       []byte
	Salt        types.Hash // CREATE2 only
	IsStatic    bool
	CodeAddress types.Address // DELEGATECALL/CALLCODE: whose code actually runs
}

// CallResult is what the host hands back after running a nested Message.
type CallResult struct {
	Status      error // nil on success, ErrExecutionReverted on REVERT, other errs on halt
	GasLeft     uint64
	GasRefund   int64
	Output      []byte
	CreateAddr  types.Address // populated for CallKindCreate/Create2
}

// Host is everything the interpreter needs from its embedding
// environment: account and storage state, logging, nested calls, and the
// read-only parts of the transaction/block context. A production host
// backs this with a state trie and access-list tracker; a test host can
// back it with a plain map, which is exactly how this module's own
// interpreter tests exercise it.
type Host interface {
	AccountExists(addr types.Address) bool
	GetBalance(addr types.Address) *uint256.Int
	GetCodeSize(addr types.Address) int
	GetCodeHash(addr types.Address) types.Hash
	GetCode(addr types.Address) []byte

	GetStorage(addr types.Address, key types.Hash) types.Hash
	// GetCommittedStorage returns the slot's value as of the start of the
	// current transaction, the "original" value SSTORE's refund formula
	// (EIP-2200/3529) compares against.
	GetCommittedStorage(addr types.Address, key types.Hash) types.Hash
	SetStorage(addr types.Address, key, value types.Hash) StorageStatus
	GetTransientStorage(addr types.Address, key types.Hash) types.Hash
	SetTransientStorage(addr types.Address, key, value types.Hash)

	SelfDestruct(addr, beneficiary types.Address) bool
	EmitLog(addr types.Address, topics []types.Hash, data []byte)

	Call(msg *Message) *CallResult

	GetBlockHash(number uint64) types.Hash
	GetTxContext() TxContext

	AccessAccount(addr types.Address) AccessStatus
	AccessStorage(addr types.Address, key types.Hash) AccessStatus

	// AddRefund adjusts the transaction-wide gas refund counter; delta may
	// be negative (undoing an earlier clear's refund, per EIP-3529).
	AddRefund(delta int64)
}
