package curve

import (
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/field"
)

// Params holds the parameters of a short Weierstrass curve
// y² = x³ + ax + b over the prime field F_p, together with a base point G of
// order n and the cofactor h.
//
// A Params value is validated once by NewParams and never mutated afterwards.
// All accessors return copies, so a *Params may be shared between goroutines
// without synchronization.
type Params struct {
	name   string
	a, b   *big.Int
	p      *big.Int
	n      *big.Int
	h      *big.Int
	gx, gy *big.Int
}

// NewParams validates and returns curve parameters.
//
// The base point must satisfy the curve equation (ErrInvalidGenerator) and the
// curve must be non-singular, 4a³ + 27b² ≢ 0 (mod p) (ErrSingularCurve).
// The arguments are copied; later changes by the caller have no effect.
func NewParams(name string, a, b, p, n, h, gx, gy *big.Int) (*Params, error) {
	for _, v := range []*big.Int{a, b, gx, gy} {
		if v == nil {
			return nil, makeError(ErrInvalidParams, "curve coefficients and base point must be set")
		}
	}
	if p == nil || p.Cmp(big.NewInt(2)) <= 0 {
		return nil, makeError(ErrInvalidParams, "field prime must be greater than 2")
	}
	if n == nil || n.Sign() <= 0 {
		return nil, makeError(ErrInvalidParams, "group order must be positive")
	}
	if h == nil || h.Sign() <= 0 {
		return nil, makeError(ErrInvalidParams, "cofactor must be positive")
	}

	c := &Params{
		name: name,
		a:    field.Mod(a, p),
		b:    field.Mod(b, p),
		p:    new(big.Int).Set(p),
		n:    new(big.Int).Set(n),
		h:    new(big.Int).Set(h),
		gx:   new(big.Int).Set(gx),
		gy:   new(big.Int).Set(gy),
	}

	if !c.inField(gx) || !c.inField(gy) || !c.IsOnCurveXY(gx, gy) {
		str := fmt.Sprintf("generator (%s, %s) is not on curve %q", gx, gy, name)
		return nil, makeError(ErrInvalidGenerator, str)
	}

	// 4a³ + 27b²
	a3 := new(big.Int).Exp(c.a, big.NewInt(3), nil)
	a3.Mul(a3, big.NewInt(4))
	b2 := new(big.Int).Mul(c.b, c.b)
	b2.Mul(b2, big.NewInt(27))
	if field.Add(a3, b2, c.p).Sign() == 0 {
		str := fmt.Sprintf("curve %q is singular: discriminant is zero mod p", name)
		return nil, makeError(ErrSingularCurve, str)
	}

	return c, nil
}

// Secp256k1 returns the parameters of the secp256k1 curve (a = 0, b = 7,
// h = 1) as published in SEC 2. The constants are taken from the decred
// secp256k1 package. Each call returns a new, independently owned value.
func Secp256k1() *Params {
	std := secp256k1.Params()
	c, err := NewParams(
		secp256k1.S256().Name,
		big.NewInt(0),
		secp256k1.S256().B,
		std.P,
		std.N,
		big.NewInt(int64(std.H)),
		std.Gx,
		std.Gy,
	)
	if err != nil {
		panic("invalid secp256k1 constants: " + err.Error())
	}
	return c
}

// Name returns the canonical name of the curve.
func (c *Params) Name() string { return c.name }

// A returns the linear coefficient a.
func (c *Params) A() *big.Int { return new(big.Int).Set(c.a) }

// B returns the constant coefficient b.
func (c *Params) B() *big.Int { return new(big.Int).Set(c.b) }

// P returns the field prime.
func (c *Params) P() *big.Int { return new(big.Int).Set(c.p) }

// N returns the order of the base point.
func (c *Params) N() *big.Int { return new(big.Int).Set(c.n) }

// H returns the cofactor.
func (c *Params) H() *big.Int { return new(big.Int).Set(c.h) }

// ByteSize returns the number of bytes needed to hold a field element.
func (c *Params) ByteSize() int {
	return (c.p.BitLen() + 7) / 8
}

// Equal reports whether c and other describe the same curve. Parameters are
// compared by value; the name is ignored.
func (c *Params) Equal(other *Params) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	return c.a.Cmp(other.a) == 0 &&
		c.b.Cmp(other.b) == 0 &&
		c.p.Cmp(other.p) == 0 &&
		c.n.Cmp(other.n) == 0 &&
		c.h.Cmp(other.h) == 0 &&
		c.gx.Cmp(other.gx) == 0 &&
		c.gy.Cmp(other.gy) == 0
}

// inField reports whether 0 <= v < p.
func (c *Params) inField(v *big.Int) bool {
	return v.Sign() >= 0 && v.Cmp(c.p) < 0
}

// polynomial returns x³ + ax + b (mod p).
func (c *Params) polynomial(x *big.Int) *big.Int {
	r := new(big.Int).Mul(x, x)
	r.Add(r, c.a)
	r.Mul(r, x)
	r.Add(r, c.b)
	return r.Mod(r, c.p)
}

// IsOnCurveXY reports whether y² ≡ x³ + ax + b (mod p).
func (c *Params) IsOnCurveXY(x, y *big.Int) bool {
	y2 := field.Mul(y, y, c.p)
	return c.polynomial(x).Cmp(y2) == 0
}

// IsOnCurve reports whether pt lies on this curve. The point at infinity is
// always on the curve.
func (c *Params) IsOnCurve(pt Point) bool {
	if pt.IsInfinity() {
		return true
	}
	return c.IsOnCurveXY(pt.x, pt.y)
}

// Infinity returns the identity element of the curve group.
func (c *Params) Infinity() Point {
	return Point{kind: kindInfinity, curve: c}
}

// Generator returns the base point G.
func (c *Params) Generator() Point {
	return c.affine(c.gx, c.gy)
}

// NewPoint returns the affine point (x, y) after checking that both
// coordinates are reduced field elements and that the point satisfies the
// curve equation.
func (c *Params) NewPoint(x, y *big.Int) (Point, error) {
	if x == nil || y == nil {
		return Point{}, makeError(ErrPointNotOnCurve, "point coordinates must be set")
	}
	if !c.inField(x) || !c.inField(y) {
		return Point{}, makeError(ErrPointNotOnCurve, "point coordinates are not reduced field elements")
	}
	if !c.IsOnCurveXY(x, y) {
		str := fmt.Sprintf("point (%s, %s) is not on curve %q", x, y, c.name)
		return Point{}, makeError(ErrPointNotOnCurve, str)
	}
	return c.affine(x, y), nil
}

// affine builds an affine point without validation. Coordinates are copied.
func (c *Params) affine(x, y *big.Int) Point {
	return Point{
		kind:  kindAffine,
		x:     new(big.Int).Set(x),
		y:     new(big.Int).Set(y),
		curve: c,
	}
}
