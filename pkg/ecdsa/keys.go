package ecdsa

import (
	"fmt"
	"io"
	"math/big"

	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/curve"
	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/field"
)

// PublicKey is a curve point Q = d·G. It is never the point at infinity and
// always lies on its curve.
type PublicKey struct {
	params *curve.Params
	point  curve.Point
}

// PrivateKey holds the secret scalar d in [1, n-1] together with its public
// key.
type PrivateKey struct {
	PublicKey
	d *big.Int
}

// NewPublicKey wraps pt as a public key on params.
func NewPublicKey(params *curve.Params, pt curve.Point) (*PublicKey, error) {
	if pt.IsInfinity() {
		return nil, fmt.Errorf("%w: point at infinity", ErrInvalidPublicKey)
	}
	if !params.Equal(pt.Curve()) {
		return nil, fmt.Errorf("%w: point belongs to curve %q", ErrInvalidPublicKey, pt.Curve().Name())
	}
	if !params.IsOnCurve(pt) {
		return nil, fmt.Errorf("%w: point not on curve", ErrInvalidPublicKey)
	}
	return &PublicKey{params: params, point: pt}, nil
}

// ParsePublicKey decodes a 0x04 || X || Y encoded public key.
func ParsePublicKey(params *curve.Params, b []byte) (*PublicKey, error) {
	pt, err := curve.ParseUncompressed(params, b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	return NewPublicKey(params, pt)
}

// Params returns the curve the key belongs to.
func (k *PublicKey) Params() *curve.Params { return k.params }

// Point returns Q.
func (k *PublicKey) Point() curve.Point { return k.point }

// Bytes returns the uncompressed encoding of Q.
func (k *PublicKey) Bytes() []byte {
	b, err := curve.MarshalUncompressed(k.point)
	if err != nil {
		// Unreachable: constructors reject the point at infinity.
		panic(err)
	}
	return b
}

// Equal reports whether both keys are the same point on the same curve.
func (k *PublicKey) Equal(other *PublicKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.point.Equal(other.point)
}

// valid re-checks the public key invariants for values that may have been
// built as a zero PublicKey.
func (k *PublicKey) valid() bool {
	return k != nil && k.params != nil && !k.point.IsInfinity() && k.params.IsOnCurve(k.point)
}

// NewPrivateKey builds a key pair from the secret scalar d.
func NewPrivateKey(params *curve.Params, d *big.Int) (*PrivateKey, error) {
	pub, err := DerivePublicKey(params, d)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{PublicKey: *pub, d: new(big.Int).Set(d)}, nil
}

// GenerateKey draws d uniformly from [1, n-1] using rand.
func GenerateKey(params *curve.Params, rand io.Reader) (*PrivateKey, error) {
	d, err := RandomScalar(rand, params.N())
	if err != nil {
		return nil, fmt.Errorf("ecdsa: generate key: %w", err)
	}
	return NewPrivateKey(params, d)
}

// DerivePublicKey computes Q = d·G.
func DerivePublicKey(params *curve.Params, d *big.Int) (*PublicKey, error) {
	if !field.InRange(d, params.N()) {
		return nil, ErrInvalidPrivateKey
	}
	q, err := params.Generator().ScalarMult(d)
	if err != nil {
		return nil, err
	}
	return NewPublicKey(params, q)
}

// Public returns the public half of the key pair.
func (k *PrivateKey) Public() *PublicKey {
	pub := k.PublicKey
	return &pub
}

// D returns a copy of the secret scalar.
func (k *PrivateKey) D() *big.Int { return new(big.Int).Set(k.d) }

// Bytes returns d big-endian, left-padded to the byte length of n.
func (k *PrivateKey) Bytes() []byte {
	return k.d.FillBytes(make([]byte, scalarSize(k.params)))
}

// ParsePrivateKey decodes a big-endian secret scalar of any length up to the
// byte length of n.
func ParsePrivateKey(params *curve.Params, b []byte) (*PrivateKey, error) {
	if len(b) == 0 || len(b) > scalarSize(params) {
		return nil, fmt.Errorf("%w: bad length %d", ErrInvalidPrivateKey, len(b))
	}
	return NewPrivateKey(params, new(big.Int).SetBytes(b))
}
