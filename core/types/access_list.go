package types

// AccessList is a list of address-slot pairs pre-declared as accessed,
// per EIP-2929/EIP-2930. Addresses and storage keys named in an access
// list are charged the warm access price on their first touch instead
// of the cold price.
type AccessList []AccessTuple

// AccessTuple is a single address and the storage slots within it named
// by an AccessList entry.
type AccessTuple struct {
	Address     Address
	StorageKeys []Hash
}

// StorageKeys returns the number of storage keys named across the whole
// access list, the quantity EIP-2930 charges gas per.
func (al AccessList) StorageKeys() int {
	n := 0
	for _, tuple := range al {
		n += len(tuple.StorageKeys)
	}
	return n
}
