package vm

import (
	"github.com/holiman/uint256"

	"github.com/oi2996814/evmone/core/types"
	"github.com/oi2996814/evmone/crypto/evmmax"
)

func opAdd(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Peek()
	y.Add(&x, y)
	return nil, nil
}

func opSub(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Peek()
	y.Sub(&x, y)
	return nil, nil
}

func opMul(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Peek()
	y.Mul(&x, y)
	return nil, nil
}

func opDiv(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Peek()
	y.Div(&x, y)
	return nil, nil
}

func opSdiv(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Peek()
	y.SDiv(&x, y)
	return nil, nil
}

func opMod(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Peek()
	y.Mod(&x, y)
	return nil, nil
}

func opSmod(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Peek()
	y.SMod(&x, y)
	return nil, nil
}

func opAddmod(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y, z := stack.Pop(), stack.Pop(), stack.Peek()
	z.AddMod(&x, &y, z)
	return nil, nil
}

func opMulmod(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y, z := stack.Pop(), stack.Pop(), stack.Peek()
	z.MulMod(&x, &y, z)
	return nil, nil
}

func opExp(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	base, exponent := stack.Pop(), stack.Peek()
	exponent.Exp(&base, exponent)
	return nil, nil
}

func opSignExtend(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	back, num := stack.Pop(), stack.Peek()
	num.ExtendSign(num, &back)
	return nil, nil
}

func opLt(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opGt(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSlt(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSgt(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opEq(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opIsZero(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x := stack.Peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil, nil
}

func opAnd(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Peek()
	y.And(&x, y)
	return nil, nil
}

func opOr(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Peek()
	y.Or(&x, y)
	return nil, nil
}

func opXor(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Peek()
	y.Xor(&x, y)
	return nil, nil
}

func opNot(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x := stack.Peek()
	x.Not(x)
	return nil, nil
}

func opByte(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	th, val := stack.Pop(), stack.Peek()
	val.Byte(&th)
	return nil, nil
}

func opSHL(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	shift, value := stack.Pop(), stack.Peek()
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opSHR(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	shift, value := stack.Pop(), stack.Peek()
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opSAR(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	shift, value := stack.Pop(), stack.Peek()
	if shift.GtUint64(255) {
		if value.Sign() >= 0 {
			value.Clear()
		} else {
			value.SetAllOne()
		}
		return nil, nil
	}
	value.SRsh(value, uint(shift.Uint64()))
	return nil, nil
}

func opKeccak256(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	offset, size := stack.Pop(), stack.Peek()
	data := memory.Get(offset.Uint64(), size.Uint64())
	size.SetBytes(evmmax.Keccak256(data))
	return nil, nil
}

func opCalldataLoad(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x := stack.Peek()
	offset := x.Uint64()
	data := make([]byte, 32)
	if x.IsUint64() && offset < uint64(len(contract.Input)) {
		copy(data, contract.Input[offset:])
	}
	x.SetBytes(data)
	return nil, nil
}

func opCalldataSize(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(new(uint256.Int).SetUint64(uint64(len(contract.Input))))
}

func opCalldataCopy(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	memOffset, dataOffset, length := stack.Pop(), stack.Pop(), stack.Pop()
	l := length.Uint64()
	if l == 0 {
		return nil, nil
	}
	data := make([]byte, l)
	if dataOffset.IsUint64() {
		if dOff := dataOffset.Uint64(); dOff < uint64(len(contract.Input)) {
			copy(data, contract.Input[dOff:])
		}
	}
	memory.Set(memOffset.Uint64(), l, data)
	return nil, nil
}

func opCodeSize(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(new(uint256.Int).SetUint64(uint64(len(contract.Code))))
}

func opCodeCopy(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	memOffset, codeOffset, length := stack.Pop(), stack.Pop(), stack.Pop()
	l := length.Uint64()
	if l == 0 {
		return nil, nil
	}
	data := make([]byte, l)
	if codeOffset.IsUint64() {
		if cOff := codeOffset.Uint64(); cOff < uint64(len(contract.Code)) {
			copy(data, contract.Code[cOff:])
		}
	}
	memory.Set(memOffset.Uint64(), l, data)
	return nil, nil
}

func opAddress(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(new(uint256.Int).SetBytes(contract.Address[:]))
}

func opOrigin(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	tx := in.Host.GetTxContext()
	return nil, stack.Push(new(uint256.Int).SetBytes(tx.Origin[:]))
}

func opCaller(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(new(uint256.Int).SetBytes(contract.CallerAddress[:]))
}

func opCallValue(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	v := new(uint256.Int)
	if contract.Value != nil {
		v.Set(contract.Value)
	}
	return nil, stack.Push(v)
}

func opGasPrice(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	tx := in.Host.GetTxContext()
	v := new(uint256.Int)
	if tx.GasPrice != nil {
		v.Set(tx.GasPrice)
	}
	return nil, stack.Push(v)
}

func opCoinbase(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	tx := in.Host.GetTxContext()
	return nil, stack.Push(new(uint256.Int).SetBytes(tx.Coinbase[:]))
}

func opTimestamp(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	tx := in.Host.GetTxContext()
	return nil, stack.Push(new(uint256.Int).SetUint64(tx.Timestamp))
}

func opNumber(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	tx := in.Host.GetTxContext()
	return nil, stack.Push(new(uint256.Int).SetUint64(tx.Number))
}

func opPrevRandao(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	tx := in.Host.GetTxContext()
	return nil, stack.Push(new(uint256.Int).SetBytes(tx.PrevRandao[:]))
}

func opGasLimit(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	tx := in.Host.GetTxContext()
	return nil, stack.Push(new(uint256.Int).SetUint64(tx.GasLimit))
}

func opChainID(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	tx := in.Host.GetTxContext()
	v := new(uint256.Int)
	if tx.ChainID != nil {
		v.Set(tx.ChainID)
	}
	return nil, stack.Push(v)
}

func opBaseFee(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	tx := in.Host.GetTxContext()
	v := new(uint256.Int)
	if tx.BaseFee != nil {
		v.Set(tx.BaseFee)
	}
	return nil, stack.Push(v)
}

func opBlobHash(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	idx := stack.Peek()
	tx := in.Host.GetTxContext()
	if idx.IsUint64() {
		if i := idx.Uint64(); i < uint64(len(tx.BlobHashes)) {
			idx.SetBytes(tx.BlobHashes[i][:])
			return nil, nil
		}
	}
	idx.Clear()
	return nil, nil
}

func opBlobBaseFee(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	tx := in.Host.GetTxContext()
	v := new(uint256.Int)
	if tx.BlobBaseFee != nil {
		v.Set(tx.BlobBaseFee)
	}
	return nil, stack.Push(v)
}

func opBlockhash(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	num := stack.Peek()
	tx := in.Host.GetTxContext()

	var lower uint64
	if tx.Number > 256 {
		lower = tx.Number - 256
	}

	if num.IsUint64() {
		if n := num.Uint64(); n >= lower && n < tx.Number {
			h := in.Host.GetBlockHash(n)
			num.SetBytes(h[:])
			return nil, nil
		}
	}
	num.Clear()
	return nil, nil
}

func opPop(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.Pop()
	return nil, nil
}

func opMload(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	offset := stack.Peek()
	offset.SetBytes(memory.GetPtr(offset.Uint64(), 32))
	return nil, nil
}

func opMstore(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	offset, val := stack.Pop(), stack.Pop()
	memory.Set32(offset.Uint64(), &val)
	return nil, nil
}

func opMstore8(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	offset, val := stack.Pop(), stack.Pop()
	memory.Set(offset.Uint64(), 1, []byte{byte(val.Uint64())})
	return nil, nil
}

func opSload(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	loc := stack.Peek()
	key := types.BytesToHash(loc.Bytes())
	val := in.Host.GetStorage(contract.Address, key)
	loc.SetBytes(val[:])
	return nil, nil
}

func opSstore(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	loc, val := stack.Pop(), stack.Pop()
	key := types.BytesToHash(loc.Bytes())
	value := types.BytesToHash(val.Bytes())
	in.Host.SetStorage(contract.Address, key, value)
	return nil, nil
}

func opJump(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	pos := stack.Pop()
	if !contract.ValidJumpdest(&pos) {
		return nil, ErrInvalidJump
	}
	*pc = pos.Uint64()
	return nil, nil
}

func opJumpi(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	pos, cond := stack.Pop(), stack.Pop()
	if !cond.IsZero() {
		if !contract.ValidJumpdest(&pos) {
			return nil, ErrInvalidJump
		}
		*pc = pos.Uint64()
	} else {
		*pc++
	}
	return nil, nil
}

func opJumpdest(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, nil
}

func opPc(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(new(uint256.Int).SetUint64(*pc))
}

func opMsize(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(new(uint256.Int).SetUint64(uint64(memory.Len())))
}

func opGas(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(new(uint256.Int).SetUint64(contract.Gas))
}

func opPush0(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(new(uint256.Int))
}

// makePush returns an executionFunc that pushes size bytes of immediate
// data starting right after the opcode, zero-padded if code runs out.
func makePush(size uint64) executionFunc {
	return func(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
		start := *pc + 1
		codeLen := uint64(len(contract.Code))

		var data []byte
		if start >= codeLen {
			data = make([]byte, size)
		} else if end := start + size; end > codeLen {
			data = make([]byte, size)
			copy(data, contract.Code[start:codeLen])
		} else {
			data = contract.Code[start:end]
		}

		if err := stack.Push(new(uint256.Int).SetBytes(data)); err != nil {
			return nil, err
		}
		*pc += size
		return nil, nil
	}
}

// makeDup returns an executionFunc that duplicates the nth stack item
// (1-indexed from the top, matching DUP1..DUP16).
func makeDup(n int) executionFunc {
	return func(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
		stack.Dup(n)
		return nil, nil
	}
}

// makeSwap returns an executionFunc that swaps the top item with the nth
// item below it, matching SWAP1..SWAP16.
func makeSwap(n int) executionFunc {
	return func(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
		stack.Swap(n)
		return nil, nil
	}
}

func opStop(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, nil
}

func opReturn(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	offset, size := stack.Pop(), stack.Pop()
	return memory.Get(offset.Uint64(), size.Uint64()), nil
}

func opRevert(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	offset, size := stack.Pop(), stack.Pop()
	return memory.Get(offset.Uint64(), size.Uint64()), ErrExecutionReverted
}

func opInvalid(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, ErrInvalidOpcode
}

func opReturndataSize(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(new(uint256.Int).SetUint64(uint64(len(in.returnData))))
}

func opReturndataCopy(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	memOffset, dataOffset, length := stack.Pop(), stack.Pop(), stack.Pop()
	l := length.Uint64()
	if l == 0 {
		return nil, nil
	}
	if !dataOffset.IsUint64() {
		return nil, ErrReturnDataOutOfBounds
	}
	dOff := dataOffset.Uint64()
	end, overflow := addOverflow(dOff, l)
	if overflow || end > uint64(len(in.returnData)) {
		return nil, ErrReturnDataOutOfBounds
	}
	memory.Set(memOffset.Uint64(), l, in.returnData[dOff:end])
	return nil, nil
}

func opSelfBalance(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(in.Host.GetBalance(contract.Address))
}

func opBalance(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	slot := stack.Peek()
	addr := types.BytesToAddress(slot.Bytes())
	slot.Set(in.Host.GetBalance(addr))
	return nil, nil
}

// makeLog returns an executionFunc for LOG0..LOG4.
func makeLog(n int) executionFunc {
	return func(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
		offset, size := stack.Pop(), stack.Pop()
		topics := make([]types.Hash, n)
		for i := 0; i < n; i++ {
			t := stack.Pop()
			topics[i] = types.BytesToHash(t.Bytes())
		}
		data := memory.Get(offset.Uint64(), size.Uint64())
		in.Host.EmitLog(contract.Address, topics, data)
		return nil, nil
	}
}

// opCall implements the CALL opcode.
// Stack: gas, addr, value, argsOffset, argsLength, retOffset, retLength.
// Pushes 1 on success, 0 on failure.
func opCall(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	gasVal := stack.Pop()
	addr := stack.Pop()
	value := stack.Pop()
	inOffset, inSize := stack.Pop(), stack.Pop()
	retOffset, retSize := stack.Pop(), stack.Pop()

	args := memory.Get(inOffset.Uint64(), inSize.Uint64())
	if !value.IsZero() && in.readOnly {
		return nil, ErrWriteProtection
	}

	callGas := CallGas(contract.Gas, gasVal.Uint64())
	contract.UseGas(callGas)
	if !value.IsZero() {
		callGas += CallStipend
	}

	recipient := types.BytesToAddress(addr.Bytes())
	res := in.call(CallKindCall, contract, recipient, recipient, &value, args, callGas, false)
	contract.RefundGas(res.GasLeft)
	writeCallResult(memory, retOffset.Uint64(), retSize.Uint64(), res.Output)
	return nil, stack.Push(successFlag(res.Status))
}

// opCallCode implements the CALLCODE opcode: runs addr's code with the
// current contract's storage and address.
func opCallCode(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	gasVal := stack.Pop()
	addr := stack.Pop()
	value := stack.Pop()
	inOffset, inSize := stack.Pop(), stack.Pop()
	retOffset, retSize := stack.Pop(), stack.Pop()

	args := memory.Get(inOffset.Uint64(), inSize.Uint64())

	callGas := CallGas(contract.Gas, gasVal.Uint64())
	contract.UseGas(callGas)
	if !value.IsZero() {
		callGas += CallStipend
	}

	codeAddr := types.BytesToAddress(addr.Bytes())
	res := in.call(CallKindCallCode, contract, codeAddr, contract.Address, &value, args, callGas, false)
	contract.RefundGas(res.GasLeft)
	writeCallResult(memory, retOffset.Uint64(), retSize.Uint64(), res.Output)
	return nil, stack.Push(successFlag(res.Status))
}

// opDelegateCall implements the DELEGATECALL opcode: runs addr's code with
// the current contract's storage, address, caller and value.
func opDelegateCall(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	gasVal := stack.Pop()
	addr := stack.Pop()
	inOffset, inSize := stack.Pop(), stack.Pop()
	retOffset, retSize := stack.Pop(), stack.Pop()

	args := memory.Get(inOffset.Uint64(), inSize.Uint64())

	callGas := CallGas(contract.Gas, gasVal.Uint64())
	contract.UseGas(callGas)

	codeAddr := types.BytesToAddress(addr.Bytes())
	res := in.call(CallKindDelegateCall, contract, codeAddr, contract.Address, contract.Value, args, callGas, false)
	contract.RefundGas(res.GasLeft)
	writeCallResult(memory, retOffset.Uint64(), retSize.Uint64(), res.Output)
	return nil, stack.Push(successFlag(res.Status))
}

// opStaticCall implements the STATICCALL opcode: like a CALL with zero
// value under a static (no state mutation) restriction.
func opStaticCall(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	gasVal := stack.Pop()
	addr := stack.Pop()
	inOffset, inSize := stack.Pop(), stack.Pop()
	retOffset, retSize := stack.Pop(), stack.Pop()

	args := memory.Get(inOffset.Uint64(), inSize.Uint64())

	callGas := CallGas(contract.Gas, gasVal.Uint64())
	contract.UseGas(callGas)

	recipient := types.BytesToAddress(addr.Bytes())
	res := in.call(CallKindStaticCall, contract, recipient, recipient, new(uint256.Int), args, callGas, true)
	contract.RefundGas(res.GasLeft)
	writeCallResult(memory, retOffset.Uint64(), retSize.Uint64(), res.Output)
	return nil, stack.Push(successFlag(res.Status))
}

// opCreate implements the CREATE opcode.
// Stack: value, offset, length. Pushes the new address on success, 0 on failure.
func opCreate(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	value := stack.Pop()
	offset, size := stack.Pop(), stack.Pop()
	initCode := memory.Get(offset.Uint64(), size.Uint64())
	if len(initCode) > MaxInitCodeSize {
		return nil, ErrMaxInitCodeSizeExceeded
	}

	callGas := contract.Gas - contract.Gas/CallGasFraction
	contract.UseGas(callGas)

	res := in.call(CallKindCreate, contract, types.Address{}, types.Address{}, &value, initCode, callGas, false)
	contract.RefundGas(res.GasLeft)
	if res.Status != nil {
		return nil, stack.Push(new(uint256.Int))
	}
	return nil, stack.Push(new(uint256.Int).SetBytes(res.CreateAddr[:]))
}

// opCreate2 implements the CREATE2 opcode. Stack: value, offset, length, salt.
func opCreate2(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	value := stack.Pop()
	offset, size := stack.Pop(), stack.Pop()
	salt := stack.Pop()
	initCode := memory.Get(offset.Uint64(), size.Uint64())
	if len(initCode) > MaxInitCodeSize {
		return nil, ErrMaxInitCodeSizeExceeded
	}

	callGas := contract.Gas - contract.Gas/CallGasFraction
	contract.UseGas(callGas)

	msg := &Message{
		Kind:      CallKindCreate2,
		Depth:     in.depth + 1,
		Gas:       callGas,
		Sender:    contract.Address,
		Value:     &value,
		Input:     initCode,
		Salt:      types.BytesToHash(salt.Bytes()),
		IsStatic:  in.readOnly,
	}
	res := in.Host.Call(msg)
	in.returnData = res.Output
	contract.RefundGas(res.GasLeft)
	if res.Status != nil {
		return nil, stack.Push(new(uint256.Int))
	}
	return nil, stack.Push(new(uint256.Int).SetBytes(res.CreateAddr[:]))
}

func opExtcodesize(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	slot := stack.Peek()
	addr := types.BytesToAddress(slot.Bytes())
	slot.SetUint64(uint64(in.Host.GetCodeSize(addr)))
	return nil, nil
}

func opExtcodecopy(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	addrVal := stack.Pop()
	memOffset, codeOffset, length := stack.Pop(), stack.Pop(), stack.Pop()

	l := length.Uint64()
	if l == 0 {
		return nil, nil
	}

	addr := types.BytesToAddress(addrVal.Bytes())
	code := in.Host.GetCode(addr)

	data := make([]byte, l)
	if codeOffset.IsUint64() {
		if cOff := codeOffset.Uint64(); cOff < uint64(len(code)) {
			copy(data, code[cOff:])
		}
	}
	memory.Set(memOffset.Uint64(), l, data)
	return nil, nil
}

func opExtcodehash(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	slot := stack.Peek()
	addr := types.BytesToAddress(slot.Bytes())
	if !in.Host.AccountExists(addr) {
		slot.Clear()
		return nil, nil
	}
	hash := in.Host.GetCodeHash(addr)
	slot.SetBytes(hash[:])
	return nil, nil
}

func opTload(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	loc := stack.Peek()
	key := types.BytesToHash(loc.Bytes())
	val := in.Host.GetTransientStorage(contract.Address, key)
	loc.SetBytes(val[:])
	return nil, nil
}

func opTstore(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	loc, val := stack.Pop(), stack.Pop()
	key := types.BytesToHash(loc.Bytes())
	value := types.BytesToHash(val.Bytes())
	in.Host.SetTransientStorage(contract.Address, key, value)
	return nil, nil
}

// opMcopy implements the MCOPY opcode (EIP-5656): copies
// memory[src:src+size] to memory[dest:dest+size], overlap-safe.
func opMcopy(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	dest, src, size := stack.Pop(), stack.Pop(), stack.Pop()
	l := size.Uint64()
	if l == 0 {
		return nil, nil
	}
	memory.CopyWithinMemory(dest.Uint64(), src.Uint64(), l)
	return nil, nil
}

// opSelfdestruct implements the SELFDESTRUCT opcode. Post-EIP-6780
// (Cancun), the account is only actually removed if it was created earlier
// in the same transaction; that bookkeeping belongs to the host, which
// SelfDestruct's bool return reports.
func opSelfdestruct(pc *uint64, in *Interpreter, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	beneficiary := stack.Pop()
	addr := types.BytesToAddress(beneficiary.Bytes())
	in.Host.SelfDestruct(contract.Address, addr)
	return nil, nil
}

func writeCallResult(memory *Memory, retOffset, retSize uint64, output []byte) {
	if retSize == 0 || len(output) == 0 {
		return
	}
	n := retSize
	if uint64(len(output)) < n {
		n = uint64(len(output))
	}
	memory.Set(retOffset, n, output[:n])
}

func successFlag(status error) *uint256.Int {
	if status != nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).SetOne()
}
