package ecdsa

import (
	"errors"
	"math/big"
	"testing"

	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/curve"
)

// constReader yields the same byte forever, making nonces deterministic.
type constReader byte

func (r constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r)
	}
	return len(p), nil
}

var errBrokenReader = errors.New("broken reader")

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errBrokenReader }

// toyCurve is y² = x³ + 2x + 3 over F₉₇ with G = (3, 6) of prime order 5.
func toyCurve(t *testing.T) *curve.Params {
	t.Helper()
	c, err := curve.NewParams("toy", big.NewInt(2), big.NewInt(3), big.NewInt(97),
		big.NewInt(5), big.NewInt(20), big.NewInt(3), big.NewInt(6))
	if err != nil {
		t.Fatalf("Failed to build toy curve: %v", err)
	}
	return c
}

func mustPrivateKey(t *testing.T, params *curve.Params, d int64) *PrivateKey {
	t.Helper()
	priv, err := NewPrivateKey(params, big.NewInt(d))
	if err != nil {
		t.Fatalf("Failed to create private key: %v", err)
	}
	return priv
}
