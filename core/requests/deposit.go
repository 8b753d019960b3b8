// Package requests decodes EIP-6110 deposit logs out of transaction
// receipts and aggregates them into the block's requests hash.
package requests

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"github.com/oi2996814/evmone/core/types"
	"github.com/oi2996814/evmone/crypto/evmmax"
)

// DepositContractAddress is the canonical EIP-6110 deposit contract.
var DepositContractAddress = types.HexToAddress("0x00000000219ab540356cBB839Cbe05303d7705Fa")

// depositEventSignatureHash is keccak256("DepositEvent(bytes,bytes,bytes,bytes,bytes)").
var depositEventSignatureHash = types.BytesToHash(
	evmmax.Keccak256([]byte("DepositEvent(bytes,bytes,bytes,bytes,bytes)")),
)

// Deposit log ABI layout (EIP-6110): a head of five 32-byte offsets,
// followed by five length-prefixed dynamic fields. The offsets below point
// at each field's length word; the field's bytes start 32 bytes later.
const (
	wordSize = 32

	pubkeyOffset     = 0xA0
	pubkeySize       = 48
	withdrawalOffset = 0x100
	withdrawalSize   = 32
	amountOffset     = 0x140
	amountSize       = 8
	signatureOffset  = 0x180
	signatureSize    = 96
	indexOffset      = 0x200
	indexSize        = 8

	depositLogSize = indexOffset + wordSize + wordSize // index field is word-padded
)

// ErrMalformedDepositLog is returned when a log addressed to the deposit
// contract with the deposit event topic does not match the EIP-6110 ABI.
var ErrMalformedDepositLog = errors.New("requests: malformed deposit log")

// DepositPayload is the request payload extracted from a single deposit
// log: pubkey‖withdrawal_credentials‖amount‖signature‖index, concatenated
// in that order with no ABI padding.
type DepositPayload []byte

// CollectDepositRequests scans logs for EIP-6110 deposit events and decodes
// each into a DepositPayload. Logs not addressed to the deposit contract,
// or whose first topic is not the deposit event signature, are silently
// skipped. A matching log whose data does not fit the expected ABI layout
// fails the whole collection, per EIP-6110's block-validity rule.
func CollectDepositRequests(logs []types.Log) ([]DepositPayload, error) {
	var payloads []DepositPayload
	for _, log := range logs {
		if log.Address != DepositContractAddress {
			continue
		}
		if len(log.Topics) == 0 || log.Topics[0] != depositEventSignatureHash {
			continue
		}
		payload, err := decodeDepositLog(log.Data)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, payload)
	}
	return payloads, nil
}

func decodeDepositLog(data []byte) (DepositPayload, error) {
	if len(data) != depositLogSize {
		return nil, ErrMalformedDepositLog
	}

	offsets := [5]int{pubkeyOffset, withdrawalOffset, amountOffset, signatureOffset, indexOffset}
	for i, want := range offsets {
		got, ok := readWordAsSize(data, i*wordSize)
		if !ok || got != uint32(want) {
			return nil, ErrMalformedDepositLog
		}
	}

	if !validFieldSize(data, pubkeyOffset, pubkeySize) ||
		!validFieldSize(data, withdrawalOffset, withdrawalSize) ||
		!validFieldSize(data, amountOffset, amountSize) ||
		!validFieldSize(data, signatureOffset, signatureSize) ||
		!validFieldSize(data, indexOffset, indexSize) {
		return nil, ErrMalformedDepositLog
	}

	payload := make(DepositPayload, 0, pubkeySize+withdrawalSize+amountSize+signatureSize+indexSize)
	payload = append(payload, field(data, pubkeyOffset, pubkeySize)...)
	payload = append(payload, field(data, withdrawalOffset, withdrawalSize)...)
	payload = append(payload, field(data, amountOffset, amountSize)...)
	payload = append(payload, field(data, signatureOffset, signatureSize)...)
	payload = append(payload, field(data, indexOffset, indexSize)...)
	return payload, nil
}

func field(data []byte, offset, size int) []byte {
	start := offset + wordSize
	return data[start : start+size]
}

func validFieldSize(data []byte, offset, want int) bool {
	got, ok := readWordAsSize(data, offset)
	return ok && got == uint32(want)
}

// readWordAsSize interprets the 32-byte word at pos as a big-endian size,
// failing if the value does not fit a uint32 (the ABI encodes lengths and
// offsets as full words, but this decoder only ever expects small values).
func readWordAsSize(data []byte, pos int) (uint32, bool) {
	word := data[pos : pos+wordSize]
	for _, b := range word[:wordSize-4] {
		if b != 0 {
			return 0, false
		}
	}
	return binary.BigEndian.Uint32(word[wordSize-4:]), true
}

// RequestsHash computes SHA256(concat_i SHA256(payload_i)) over the given
// payloads. Empty payloads are omitted before hashing.
func RequestsHash(payloads []DepositPayload) types.Hash {
	var concat []byte
	for _, p := range payloads {
		if len(p) == 0 {
			continue
		}
		sum := sha256.Sum256(p)
		concat = append(concat, sum[:]...)
	}
	return types.Hash(sha256.Sum256(concat))
}
