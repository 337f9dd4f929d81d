package field

import (
	"errors"
	"math/big"
)

// ErrNotInvertible is returned when a value has no inverse modulo the given
// modulus, i.e. it is congruent to zero or shares a factor with the modulus.
var ErrNotInvertible = errors.New("field: value is not invertible")

// Mod returns x mod m in the range [0, m). Negative x is handled, unlike
// big.Int.Rem.
func Mod(x, m *big.Int) *big.Int {
	return new(big.Int).Mod(x, m)
}

// Inverse returns y such that x*y ≡ 1 (mod m), with y in [0, m).
//
// It fails with ErrNotInvertible when x ≡ 0 (mod m) or gcd(x, m) != 1.
func Inverse(x, m *big.Int) (*big.Int, error) {
	if m == nil || m.Sign() <= 0 {
		return nil, errors.New("field: modulus must be positive")
	}

	r := Mod(x, m)
	if r.Sign() == 0 {
		return nil, ErrNotInvertible
	}

	// ModInverse returns nil when gcd(r, m) != 1.
	inv := new(big.Int).ModInverse(r, m)
	if inv == nil {
		return nil, ErrNotInvertible
	}
	return inv, nil
}

// Add returns (a + b) mod m.
func Add(a, b, m *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, m)
}

// Sub returns (a - b) mod m.
func Sub(a, b, m *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, m)
}

// Mul returns (a * b) mod m.
func Mul(a, b, m *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, m)
}

// InRange reports whether 1 <= x <= m-1.
func InRange(x, m *big.Int) bool {
	return x != nil && x.Sign() > 0 && x.Cmp(m) < 0
}
