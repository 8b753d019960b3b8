package evmmax

import "golang.org/x/crypto/sha3"

// Keccak256 calculates the Keccak-256 hash of the concatenation of its
// arguments.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}
