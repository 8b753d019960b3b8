package vm

import "github.com/oi2996814/evmone/core/types"

// --- memorySizeFunc helpers ---
//
// Each returns the highest byte offset the opcode will touch, built from
// one or two (offset, size) stack pairs. All arithmetic is overflow-checked
// since a malicious contract can push near-2^256 offsets.

func addOverflow(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum < a
}

// memoryOffsetSize builds a memorySizeFunc for the common case of a single
// (offset, size) pair at the given stack depths.
func memoryOffsetSize(offsetPos, sizePos int) memorySizeFunc {
	return func(stack *Stack) (uint64, bool) {
		offset := stack.Back(offsetPos)
		size := stack.Back(sizePos)
		if size.IsZero() {
			return 0, false
		}
		if !offset.IsUint64() || !size.IsUint64() {
			return 0, true
		}
		return addOverflow(offset.Uint64(), size.Uint64())
	}
}

// memoryWord builds a memorySizeFunc for a fixed 32-byte access at offsetPos.
func memoryWord(offsetPos int) memorySizeFunc {
	return func(stack *Stack) (uint64, bool) {
		offset := stack.Back(offsetPos)
		if !offset.IsUint64() {
			return 0, true
		}
		return addOverflow(offset.Uint64(), 32)
	}
}

// memoryByte builds a memorySizeFunc for a fixed 1-byte access at offsetPos.
func memoryByte(offsetPos int) memorySizeFunc {
	return func(stack *Stack) (uint64, bool) {
		offset := stack.Back(offsetPos)
		if !offset.IsUint64() {
			return 0, true
		}
		return addOverflow(offset.Uint64(), 1)
	}
}

// memoryCall returns the memory size for CALL/CALLCODE.
// Stack (top to bottom): gas, addr, value, argsOffset, argsLength, retOffset, retLength.
func memoryCall(stack *Stack) (uint64, bool) {
	return memoryCallArgs(stack, 3, 4, 5, 6)
}

// memoryDelegateCall returns the memory size for DELEGATECALL/STATICCALL.
// Stack (top to bottom): gas, addr, argsOffset, argsLength, retOffset, retLength.
func memoryDelegateCall(stack *Stack) (uint64, bool) {
	return memoryCallArgs(stack, 2, 3, 4, 5)
}

func memoryCallArgs(stack *Stack, argsOffPos, argsLenPos, retOffPos, retLenPos int) (uint64, bool) {
	argsOff, argsLen := stack.Back(argsOffPos), stack.Back(argsLenPos)
	retOff, retLen := stack.Back(retOffPos), stack.Back(retLenPos)
	if !argsOff.IsUint64() || !argsLen.IsUint64() || !retOff.IsUint64() || !retLen.IsUint64() {
		return 0, true
	}
	argsEnd, overflow := addOverflow(argsOff.Uint64(), argsLen.Uint64())
	if overflow {
		return 0, true
	}
	retEnd, overflow := addOverflow(retOff.Uint64(), retLen.Uint64())
	if overflow {
		return 0, true
	}
	if argsEnd > retEnd {
		return argsEnd, false
	}
	return retEnd, false
}

// memoryMcopy returns the memory size for MCOPY. Stack: dest, src, size.
func memoryMcopy(stack *Stack) (uint64, bool) {
	dest, src, size := stack.Back(0), stack.Back(1), stack.Back(2)
	if size.IsZero() {
		return 0, false
	}
	if !dest.IsUint64() || !src.IsUint64() || !size.IsUint64() {
		return 0, true
	}
	destEnd, overflow := addOverflow(dest.Uint64(), size.Uint64())
	if overflow {
		return 0, true
	}
	srcEnd, overflow := addOverflow(src.Uint64(), size.Uint64())
	if overflow {
		return 0, true
	}
	if destEnd > srcEnd {
		return destEnd, false
	}
	return srcEnd, false
}

// --- per-opcode dynamicGasFunc implementations ---

func gasExp(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	exponent := stack.Back(1)
	if exponent.IsZero() {
		return 0, nil
	}
	byteLen := uint64((exponent.BitLen() + 7) / 8)
	return 50 * byteLen, nil
}

func gasKeccak256(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	size := stack.Back(1)
	if !size.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	return GasKeccak256Word * toWordSize(size.Uint64()), nil
}

func gasCalldataCopy(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	length := stack.Back(2)
	if !length.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	return CopyGas(length.Uint64()), nil
}

func gasCodeCopy(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	length := stack.Back(2)
	if !length.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	return CopyGas(length.Uint64()), nil
}

func gasMcopy(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	size := stack.Back(2)
	if !size.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	return CopyGas(size.Uint64()), nil
}

func gasBalance(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	addr := types.BytesToAddress(stack.Back(0).Bytes())
	return AccountAccessGas(in.Host, addr), nil
}

func gasExtcodesize(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	addr := types.BytesToAddress(stack.Back(0).Bytes())
	return AccountAccessGas(in.Host, addr), nil
}

func gasExtcodehash(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	addr := types.BytesToAddress(stack.Back(0).Bytes())
	return AccountAccessGas(in.Host, addr), nil
}

func gasExtcodecopy(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	addr := types.BytesToAddress(stack.Back(0).Bytes())
	length := stack.Back(3)
	if !length.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	return AccountAccessGas(in.Host, addr) + CopyGas(length.Uint64()), nil
}

func gasSload(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	key := types.BytesToHash(stack.Back(0).Bytes())
	return StorageAccessGas(in.Host, contract.Address, key), nil
}

func gasSstore(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	key := types.BytesToHash(stack.Back(0).Bytes())
	newVal := types.BytesToHash(stack.Back(1).Bytes())
	cold := in.Host.AccessStorage(contract.Address, key) == AccessStatusCold
	current := in.Host.GetStorage(contract.Address, key)
	original := in.Host.GetCommittedStorage(contract.Address, key)
	gas, refund := SstoreGas(original, current, newVal, cold)
	if refund != 0 {
		in.Host.AddRefund(refund)
	}
	return gas, nil
}

func makeGasLog(n int) dynamicGasFunc {
	return func(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
		size := stack.Back(1)
		if !size.IsUint64() {
			return 0, ErrGasUintOverflow
		}
		return LogGas(uint64(n), size.Uint64()), nil
	}
}

func gasCreate(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	length := stack.Back(2)
	if !length.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	return InitCodeWordGas * toWordSize(length.Uint64()), nil
}

func gasCreate2(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	length := stack.Back(2)
	if !length.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	words := toWordSize(length.Uint64())
	return (InitCodeWordGas+GasKeccak256Word)*words, nil
}

func gasCall(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	addr := types.BytesToAddress(stack.Back(1).Bytes())
	value := stack.Back(2)
	gas := AccountAccessGas(in.Host, addr)
	if !value.IsZero() {
		gas += CallValueTransferGas
		if !in.Host.AccountExists(addr) {
			gas += CallNewAccountGas
		}
	}
	return gas, nil
}

func gasCallCode(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	addr := types.BytesToAddress(stack.Back(1).Bytes())
	value := stack.Back(2)
	gas := AccountAccessGas(in.Host, addr)
	if !value.IsZero() {
		gas += CallValueTransferGas
	}
	return gas, nil
}

func gasDelegateCall(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	addr := types.BytesToAddress(stack.Back(1).Bytes())
	return AccountAccessGas(in.Host, addr), nil
}

func gasStaticCall(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	addr := types.BytesToAddress(stack.Back(1).Bytes())
	return AccountAccessGas(in.Host, addr), nil
}

func gasSelfdestruct(in *Interpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	beneficiary := types.BytesToAddress(stack.Back(0).Bytes())
	var gas uint64
	if in.Host.AccessAccount(beneficiary) == AccessStatusCold {
		gas += ColdAccountAccessCost
	}
	if !in.Host.AccountExists(beneficiary) && !in.Host.GetBalance(contract.Address).IsZero() {
		gas += CallNewAccountGas
	}
	return gas, nil
}
