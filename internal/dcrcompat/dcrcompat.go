// Package dcrcompat converts keys and signatures between this module and
// github.com/decred/dcrd/dcrec/secp256k1/v4, so that results computed with
// the affine big.Int arithmetic can be checked against an independent,
// constant-time implementation of secp256k1.
package dcrcompat

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/curve"
	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/ecdsa"
)

// ErrNotSecp256k1 is returned for keys defined over another curve.
var ErrNotSecp256k1 = errors.New("dcrcompat: key is not on secp256k1")

func checkCurve(params *curve.Params) error {
	if !params.Equal(curve.Secp256k1()) {
		return fmt.Errorf("%w: got %q", ErrNotSecp256k1, params.Name())
	}
	return nil
}

// ToDecredPublicKey converts pub through its uncompressed encoding.
func ToDecredPublicKey(pub *ecdsa.PublicKey) (*secp256k1.PublicKey, error) {
	if err := checkCurve(pub.Params()); err != nil {
		return nil, err
	}
	return secp256k1.ParsePubKey(pub.Bytes())
}

// FromDecredPublicKey converts a decred public key.
func FromDecredPublicKey(pub *secp256k1.PublicKey) (*ecdsa.PublicKey, error) {
	return ecdsa.ParsePublicKey(curve.Secp256k1(), pub.SerializeUncompressed())
}

// ToDecredPrivateKey converts priv. The caller should Zero the result when
// done with it.
func ToDecredPrivateKey(priv *ecdsa.PrivateKey) (*secp256k1.PrivateKey, error) {
	if err := checkCurve(priv.Params()); err != nil {
		return nil, err
	}
	return secp256k1.PrivKeyFromBytes(priv.Bytes()), nil
}

// ToDecredSignature converts sig. Components must be in [1, n-1].
func ToDecredSignature(sig *ecdsa.Signature) (*dcrecdsa.Signature, error) {
	if err := sig.Validate(secp256k1.Params().N); err != nil {
		return nil, err
	}
	var r, s secp256k1.ModNScalar
	if r.SetByteSlice(sig.R.FillBytes(make([]byte, 32))) || s.SetByteSlice(sig.S.FillBytes(make([]byte, 32))) {
		return nil, fmt.Errorf("%w: component overflows the group order", ecdsa.ErrInvalidSignature)
	}
	return dcrecdsa.NewSignature(&r, &s), nil
}

// FromDecredSignature converts a decred signature.
func FromDecredSignature(sig *dcrecdsa.Signature) *ecdsa.Signature {
	r, s := sig.R(), sig.S()
	rb, sb := r.Bytes(), s.Bytes()
	return ecdsa.NewSignature(new(big.Int).SetBytes(rb[:]), new(big.Int).SetBytes(sb[:]))
}

// digestBytes returns z mod n as the 32-byte hash decred expects.
func digestBytes(z *big.Int) []byte {
	return new(big.Int).Mod(z, secp256k1.Params().N).FillBytes(make([]byte, 32))
}

// Verify checks sig over the digest integer z with the decred verifier. It
// returns false for keys on other curves and malformed signatures.
func Verify(pub *ecdsa.PublicKey, z *big.Int, sig *ecdsa.Signature) bool {
	if pub == nil || z == nil || z.Sign() < 0 {
		return false
	}
	dpub, err := ToDecredPublicKey(pub)
	if err != nil {
		return false
	}
	dsig, err := ToDecredSignature(sig)
	if err != nil {
		return false
	}
	return dsig.Verify(digestBytes(z), dpub)
}

// Sign produces a deterministic RFC 6979 signature over z with the decred
// signer. Its S component is always in the lower half of the order.
func Sign(priv *ecdsa.PrivateKey, z *big.Int) (*ecdsa.Signature, error) {
	if z == nil || z.Sign() < 0 {
		return nil, ecdsa.ErrInvalidDigest
	}
	dpriv, err := ToDecredPrivateKey(priv)
	if err != nil {
		return nil, err
	}
	defer dpriv.Zero()
	return FromDecredSignature(dcrecdsa.Sign(dpriv, digestBytes(z))), nil
}

// MarshalDER encodes sig in DER form with S normalized to the lower half of
// the order.
func MarshalDER(sig *ecdsa.Signature) ([]byte, error) {
	dsig, err := ToDecredSignature(sig)
	if err != nil {
		return nil, err
	}
	return dsig.Serialize(), nil
}

// ParseDER decodes a strict DER signature.
func ParseDER(b []byte) (*ecdsa.Signature, error) {
	dsig, err := dcrecdsa.ParseDERSignature(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ecdsa.ErrInvalidSignature, err)
	}
	return FromDecredSignature(dsig), nil
}
