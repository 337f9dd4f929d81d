package curve

import (
	"fmt"
	"math/big"

	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/field"
)

type pointKind uint8

const (
	kindInfinity pointKind = iota
	kindAffine
)

// Point is an element of the group of points of a curve: either the point at
// infinity (the identity) or an affine point (x, y).
//
// Points are immutable values. Every operation returns a new Point and the
// coordinate accessors return copies. The zero Point is the point at
// infinity of no particular curve; it behaves as the identity under Add.
//
// Points are created through Params.Infinity, Params.Generator,
// Params.NewPoint or ParseUncompressed. Only NewPoint and ParseUncompressed
// check the curve equation; the group operations assume valid inputs.
type Point struct {
	kind  pointKind
	x, y  *big.Int
	curve *Params
}

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool {
	return p.kind == kindInfinity
}

// Curve returns the curve p belongs to.
func (p Point) Curve() *Params {
	return p.curve
}

// Coordinates returns copies of the affine coordinates of p. ok is false for
// the point at infinity.
func (p Point) Coordinates() (x, y *big.Int, ok bool) {
	if p.IsInfinity() {
		return nil, nil, false
	}
	return new(big.Int).Set(p.x), new(big.Int).Set(p.y), true
}

// X returns a copy of the x coordinate, or nil for the point at infinity.
func (p Point) X() *big.Int {
	if p.IsInfinity() {
		return nil
	}
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the y coordinate, or nil for the point at infinity.
func (p Point) Y() *big.Int {
	if p.IsInfinity() {
		return nil
	}
	return new(big.Int).Set(p.y)
}

// Equal reports whether p and q are the same group element. Two points at
// infinity are always equal. Affine points are equal when their coordinates
// match and their curves have the same parameters.
func (p Point) Equal(q Point) bool {
	switch {
	case p.IsInfinity() && q.IsInfinity():
		return true
	case p.IsInfinity() || q.IsInfinity():
		return false
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0 && p.curve.Equal(q.curve)
}

// Neg returns -p.
func (p Point) Neg() Point {
	if p.IsInfinity() {
		return p
	}
	return p.curve.affine(p.x, field.Sub(big.NewInt(0), p.y, p.curve.p))
}

// Double returns 2p.
//
// A point with y ≡ 0 has order two: its tangent is vertical and the result is
// the point at infinity.
func (p Point) Double() Point {
	if p.IsInfinity() {
		return p
	}
	c := p.curve

	denom, err := field.Inverse(new(big.Int).Lsh(p.y, 1), c.p)
	if err != nil {
		return c.Infinity()
	}

	// s = (3x² + a) / 2y
	s := new(big.Int).Mul(p.x, p.x)
	s.Mul(s, big.NewInt(3))
	s.Add(s, c.a)
	s = field.Mul(s, denom, c.p)

	return c.line(s, p.x, p.y, p.x)
}

// Add returns p + q.
//
// The point at infinity is the identity. Points with equal x and opposite y
// sum to infinity, and p + p is computed as p.Double(). Adding points of
// different curves fails with ErrCurveMismatch. ErrNotInvertible is only
// returned when an input is not on its curve.
func (p Point) Add(q Point) (Point, error) {
	if p.IsInfinity() {
		return q, nil
	}
	if q.IsInfinity() {
		return p, nil
	}
	if !p.curve.Equal(q.curve) {
		return Point{}, makeError(ErrCurveMismatch, "cannot add points of different curves")
	}
	c := p.curve

	if p.x.Cmp(q.x) == 0 {
		if field.Add(p.y, q.y, c.p).Sign() == 0 {
			return c.Infinity(), nil
		}
		if p.y.Cmp(q.y) == 0 {
			return p.Double(), nil
		}
	}

	denom, err := field.Inverse(field.Sub(q.x, p.x, c.p), c.p)
	if err != nil {
		return Point{}, fmt.Errorf("curve: chord slope: %w", err)
	}
	s := field.Mul(field.Sub(q.y, p.y, c.p), denom, c.p)

	return c.line(s, p.x, p.y, q.x), nil
}

// ScalarMult returns k·p using double-and-add over the bits of k, from the
// least significant to the most significant.
//
// The running time and the sequence of group operations depend on the bit
// pattern of k. This is not suitable for secret scalars in settings where an
// attacker can measure timing; such callers need a constant-time ladder.
//
// A negative k fails with ErrInvalidScalar. k = 0 yields the point at
// infinity.
func (p Point) ScalarMult(k *big.Int) (Point, error) {
	if k == nil || k.Sign() < 0 {
		return Point{}, makeError(ErrInvalidScalar, "scalar must be non-negative")
	}

	result := p.curve.Infinity()
	addend := p
	for i := 0; i < k.BitLen(); i++ {
		if k.Bit(i) == 1 {
			var err error
			if result, err = result.Add(addend); err != nil {
				return Point{}, err
			}
		}
		addend = addend.Double()
	}
	return result, nil
}

// String returns a human-readable form of the point.
func (p Point) String() string {
	if p.IsInfinity() {
		return "Point(infinity)"
	}
	return fmt.Sprintf("Point(%x, %x)", p.x, p.y)
}

// line returns the third intersection of the line with slope s through
// (x1, y1) and a point with x coordinate x2, reflected over the x axis:
//
//	x3 = s² - x1 - x2
//	y3 = s(x1 - x3) - y1
func (c *Params) line(s, x1, y1, x2 *big.Int) Point {
	x3 := new(big.Int).Mul(s, s)
	x3.Sub(x3, x1)
	x3.Sub(x3, x2)
	x3.Mod(x3, c.p)

	y3 := new(big.Int).Sub(x1, x3)
	y3.Mul(y3, s)
	y3.Sub(y3, y1)
	y3.Mod(y3, c.p)

	return Point{kind: kindAffine, x: x3, y: y3, curve: c}
}
