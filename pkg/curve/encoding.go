package curve

import (
	"fmt"
	"math/big"
)

// PubKeyFormatUncompressed is the tag byte of an uncompressed point.
const PubKeyFormatUncompressed byte = 0x04

// UncompressedLen returns the length of an uncompressed encoding on c: one tag
// byte followed by both coordinates, 65 bytes for secp256k1.
func (c *Params) UncompressedLen() int {
	return 1 + 2*c.ByteSize()
}

// MarshalUncompressed serializes pt as 0x04 || X || Y with each coordinate a
// fixed-width big-endian integer. The point at infinity has no encoding.
func MarshalUncompressed(pt Point) ([]byte, error) {
	if pt.IsInfinity() {
		return nil, makeError(ErrInvalidEncoding, "the point at infinity cannot be encoded")
	}
	size := pt.curve.ByteSize()
	b := make([]byte, pt.curve.UncompressedLen())
	b[0] = PubKeyFormatUncompressed
	pt.x.FillBytes(b[1 : 1+size])
	pt.y.FillBytes(b[1+size:])
	return b, nil
}

// ParseUncompressed decodes an uncompressed point on c.
//
// The encoding must have exactly c.UncompressedLen() bytes and start with
// 0x04, and both coordinates must be below the field prime; otherwise
// ErrInvalidEncoding is returned. A well-formed encoding of a point that does
// not satisfy the curve equation fails with ErrPointNotOnCurve.
func ParseUncompressed(c *Params, b []byte) (Point, error) {
	if len(b) != c.UncompressedLen() {
		str := fmt.Sprintf("malformed uncompressed point: got %d bytes, want %d",
			len(b), c.UncompressedLen())
		return Point{}, makeError(ErrInvalidEncoding, str)
	}
	if b[0] != PubKeyFormatUncompressed {
		str := fmt.Sprintf("malformed uncompressed point: invalid tag 0x%02x", b[0])
		return Point{}, makeError(ErrInvalidEncoding, str)
	}

	size := c.ByteSize()
	x := new(big.Int).SetBytes(b[1 : 1+size])
	y := new(big.Int).SetBytes(b[1+size:])
	if !c.inField(x) || !c.inField(y) {
		return Point{}, makeError(ErrInvalidEncoding, "malformed uncompressed point: coordinate exceeds field prime")
	}
	return c.NewPoint(x, y)
}
