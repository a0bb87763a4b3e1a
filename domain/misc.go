package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerPtr() *Address {
	res := a.ToLower()
	return &res
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

// IsValid reports whether a is a 20 byte hex party identifier that is not the
// zero address.
func (a Address) IsValid() bool {
	return common.IsHexAddress(string(a)) && !a.Equals(EmptyAddress)
}

func (a Address) String() string {
	return string(a)
}

// DeriveAddress returns a deterministic party identifier for a named
// resource, the last 20 bytes of keccak256(name).
func DeriveAddress(name string) Address {
	return Address(common.BytesToAddress(crypto.Keccak256([]byte(name))[12:]).Hex()).ToLower()
}

type TokenId string

func (i TokenId) String() string {
	return string(i)
}

func (i TokenId) IsEmpty() bool {
	return len(i) == 0
}
