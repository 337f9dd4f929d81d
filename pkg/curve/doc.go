/*
Package curve implements the group of points of a short Weierstrass elliptic
curve y² = x³ + ax + b over a prime field, using affine coordinates and
math/big arithmetic.

Curve parameters are described by Params, which is validated once when it is
constructed and is immutable afterwards:

	c := curve.Secp256k1()
	g := c.Generator()
	q, err := g.ScalarMult(k)

Points are represented by the Point value type, which carries an explicit
variant tag: the point at infinity or an affine point. Operations never modify
their receiver.

The package also provides the 65-byte uncompressed point encoding
(0x04 || X || Y) used for secp256k1 public keys.

Scalar multiplication is a plain double-and-add and is not constant time.
*/
package curve
