package vm

import "errors"

// Sentinel errors returned by the interpreter. All of them are "expected"
// outcomes of executing untrusted bytecode (as opposed to programmer
// errors, which panic), and a host is expected to map them onto whatever
// receipt/trace status it surfaces.
var (
	ErrOutOfGas                 = errors.New("out of gas")
	ErrStackOverflow             = errors.New("stack overflow")
	ErrStackUnderflow            = errors.New("stack underflow")
	ErrInvalidJump               = errors.New("invalid jump destination")
	ErrInvalidOpcode             = errors.New("invalid opcode")
	ErrWriteProtection           = errors.New("write protection: state-modifying op in static call")
	ErrReturnDataOutOfBounds     = errors.New("return data out of bounds")
	ErrGasUintOverflow           = errors.New("gas computation overflowed uint64")
	ErrDepth                     = errors.New("max call depth exceeded")
	ErrInsufficientBalance       = errors.New("insufficient balance for transfer")
	ErrContractAddressCollision  = errors.New("contract address collision")
	ErrExecutionReverted         = errors.New("execution reverted")
	ErrMaxCodeSizeExceeded       = errors.New("max code size exceeded")
	ErrMaxInitCodeSizeExceeded   = errors.New("max initcode size exceeded")
	ErrInvalidCode               = errors.New("invalid code: must not begin with 0xEF")
	ErrNonceUintOverflow         = errors.New("nonce uint64 overflow")
)

// haltingError reports whether err is one of the sentinel errors that
// should consume all remaining call-frame gas, as opposed to REVERT
// (ErrExecutionReverted), which preserves the remaining gas for the caller.
func haltingError(err error) bool {
	return err != nil && err != ErrExecutionReverted
}
