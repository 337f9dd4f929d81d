package ecdsa

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Hasher turns a message into the digest that is signed.
type Hasher interface {
	// Digest returns the hash of msg.
	Digest(msg []byte) []byte

	// Name returns the identifier used by HasherByName.
	Name() string
}

// Keccak256Hasher is the legacy (pre-FIPS 202) Keccak-256 used by Ethereum.
// It is the default hasher.
type Keccak256Hasher struct{}

// Digest implements Hasher.
func (Keccak256Hasher) Digest(msg []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(msg)
	return h.Sum(nil)
}

// Name implements Hasher.
func (Keccak256Hasher) Name() string { return "keccak256" }

// SHA256Hasher hashes messages with SHA-256.
type SHA256Hasher struct{}

// Digest implements Hasher.
func (SHA256Hasher) Digest(msg []byte) []byte {
	h := sha256.Sum256(msg)
	return h[:]
}

// Name implements Hasher.
func (SHA256Hasher) Name() string { return "sha256" }

// DefaultHasher returns Keccak256Hasher.
func DefaultHasher() Hasher {
	return Keccak256Hasher{}
}

// HasherByName returns the hasher registered under name (case-insensitive).
func HasherByName(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "", "keccak256", "keccak":
		return Keccak256Hasher{}, nil
	case "sha256":
		return SHA256Hasher{}, nil
	default:
		return nil, fmt.Errorf("ecdsa: unknown hash %q", name)
	}
}

// DigestToInt converts a big-endian digest into the integer z used by the
// signature equations, keeping only the leftmost bitlen(n) bits when the
// digest is longer than the order.
func DigestToInt(digest []byte, n *big.Int) *big.Int {
	z := new(big.Int).SetBytes(digest)
	if excess := len(digest)*8 - n.BitLen(); excess > 0 {
		z.Rsh(z, uint(excess))
	}
	return z
}

// HashMessage hashes msg with h and converts the digest for the order n.
// A nil h selects the default hasher.
func HashMessage(h Hasher, msg []byte, n *big.Int) *big.Int {
	if h == nil {
		h = DefaultHasher()
	}
	return DigestToInt(h.Digest(msg), n)
}
