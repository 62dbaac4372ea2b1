package common

import (
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"
)

// Hash is a 32-byte digest.
type Hash [32]byte

var keccakHasherPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}

// Keccak256 computes the keccak256 digest of the given data.
func Keccak256(data []byte) Hash {
	hasher := keccakHasherPool.Get().(hash.Hash)
	hasher.Reset()
	hasher.Write(data)
	var res Hash
	hasher.Sum(res[0:0])
	keccakHasherPool.Put(hasher)
	return res
}
