package ecdsa

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/curve"
	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/field"
)

// recoverAffine solves for the private key of two signatures whose nonces
// satisfy k2 = a·k1 + b:
//
//	d = (a·s2·z1 − s1·z2 + b·s1·s2) / (r2·s1 − a·r1·s2) mod n
func recoverAffine(n, z1, z2 *big.Int, sig1, sig2 *Signature, a, b *big.Int) (*big.Int, error) {
	num := new(big.Int).Mul(a, sig2.S)
	num.Mul(num, z1)
	num.Sub(num, new(big.Int).Mul(sig1.S, z2))
	bs := new(big.Int).Mul(b, sig1.S)
	num.Add(num, bs.Mul(bs, sig2.S))

	den := new(big.Int).Mul(sig2.R, sig1.S)
	ar := new(big.Int).Mul(a, sig1.R)
	den.Sub(den, ar.Mul(ar, sig2.S))

	denInv, err := field.Inverse(den, n)
	if err != nil {
		return nil, err
	}
	return field.Mul(denInv, num, n), nil
}

// RecoverFromNonceReuse recovers the private key behind two signatures that
// were produced with the same nonce k (or with n − k, which gives the same r).
// When pub is non-nil the candidate key must match it.
func RecoverFromNonceReuse(params *curve.Params, z1 *big.Int, sig1 *Signature, z2 *big.Int, sig2 *Signature, pub *PublicKey) (*PrivateKey, error) {
	n := params.N()
	if err := sig1.Validate(n); err != nil {
		return nil, err
	}
	if err := sig2.Validate(n); err != nil {
		return nil, err
	}
	if sig1.R.Cmp(sig2.R) != 0 {
		return nil, ErrNoNonceReuse
	}

	var lastErr error = ErrNoNonceReuse
	for _, a := range []int64{1, -1} {
		d, err := recoverAffine(n, z1, z2, sig1, sig2, big.NewInt(a), new(big.Int))
		if err != nil {
			lastErr = err
			continue
		}
		priv, err := NewPrivateKey(params, d)
		if err != nil {
			lastErr = err
			continue
		}
		if pub != nil && !pub.Equal(&priv.PublicKey) {
			lastErr = errors.New("ecdsa: recovered key does not match public key")
			continue
		}
		if pub == nil && !(Verify(&priv.PublicKey, z1, sig1) && Verify(&priv.PublicKey, z2, sig2)) {
			lastErr = errors.New("ecdsa: recovered key does not verify both signatures")
			continue
		}
		return priv, nil
	}
	return nil, fmt.Errorf("ecdsa: nonce reuse recovery failed: %w", lastErr)
}
