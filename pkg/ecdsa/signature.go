package ecdsa

import (
	"fmt"
	"math/big"

	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/curve"
	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/field"
)

// Signature is an ECDSA signature (r, s). Both components lie in [1, n-1]
// for a well-formed signature.
type Signature struct {
	R *big.Int
	S *big.Int
}

// NewSignature returns a signature holding copies of r and s.
func NewSignature(r, s *big.Int) *Signature {
	sig := &Signature{}
	if r != nil {
		sig.R = new(big.Int).Set(r)
	}
	if s != nil {
		sig.S = new(big.Int).Set(s)
	}
	return sig
}

// Validate reports ErrInvalidSignature unless both components are in [1, n-1].
func (sig *Signature) Validate(n *big.Int) error {
	if sig == nil {
		return fmt.Errorf("%w: nil signature", ErrInvalidSignature)
	}
	if !field.InRange(sig.R, n) {
		return fmt.Errorf("%w: r out of range", ErrInvalidSignature)
	}
	if !field.InRange(sig.S, n) {
		return fmt.Errorf("%w: s out of range", ErrInvalidSignature)
	}
	return nil
}

// Equal reports whether both signatures have the same components.
func (sig *Signature) Equal(other *Signature) bool {
	if sig == nil || other == nil {
		return sig == other
	}
	return sig.R.Cmp(other.R) == 0 && sig.S.Cmp(other.S) == 0
}

// Bytes returns r || s, each left-padded to the byte length of the curve
// order. The signature must have been validated against params.
func (sig *Signature) Bytes(params *curve.Params) []byte {
	size := scalarSize(params)
	out := make([]byte, 2*size)
	sig.R.FillBytes(out[:size])
	sig.S.FillBytes(out[size:])
	return out
}

// ParseSignature decodes the r || s form produced by Bytes and checks both
// components are in range.
func ParseSignature(params *curve.Params, b []byte) (*Signature, error) {
	size := scalarSize(params)
	if len(b) != 2*size {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidSignature, 2*size, len(b))
	}
	sig := &Signature{
		R: new(big.Int).SetBytes(b[:size]),
		S: new(big.Int).SetBytes(b[size:]),
	}
	if err := sig.Validate(params.N()); err != nil {
		return nil, err
	}
	return sig, nil
}

// scalarSize is the byte length of scalars modulo the curve order.
func scalarSize(params *curve.Params) int {
	return (params.N().BitLen() + 7) / 8
}
