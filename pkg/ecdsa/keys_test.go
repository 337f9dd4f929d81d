package ecdsa

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/curve"
)

const secp256k1GeneratorHex = "04" +
	"79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798" +
	"483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"

func TestNewPrivateKeyRange(t *testing.T) {
	params := curve.Secp256k1()
	n := params.N()

	for _, d := range []*big.Int{nil, big.NewInt(0), big.NewInt(-1), n, new(big.Int).Add(n, big.NewInt(1))} {
		_, err := NewPrivateKey(params, d)
		assert.ErrorIs(t, err, ErrInvalidPrivateKey, "d = %v", d)
	}

	priv, err := NewPrivateKey(params, new(big.Int).Sub(n, big.NewInt(1)))
	require.NoError(t, err)
	assert.True(t, priv.Point().Equal(params.Generator().Neg()))
}

func TestPublicKeyEncoding(t *testing.T) {
	params := curve.Secp256k1()
	priv := mustPrivateKey(t, params, 1)

	assert.Equal(t, secp256k1GeneratorHex, hex.EncodeToString(priv.Public().Bytes()))

	raw, _ := hex.DecodeString(secp256k1GeneratorHex)
	pub, err := ParsePublicKey(params, raw)
	require.NoError(t, err)
	assert.True(t, pub.Equal(priv.Public()))

	_, err = ParsePublicKey(params, raw[:64])
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
	assert.ErrorIs(t, err, curve.ErrInvalidEncoding)

	raw[64] ^= 1
	_, err = ParsePublicKey(params, raw)
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
	assert.ErrorIs(t, err, curve.ErrPointNotOnCurve)
}

func TestNewPublicKeyRejects(t *testing.T) {
	params := curve.Secp256k1()
	toy := toyCurve(t)

	_, err := NewPublicKey(params, params.Infinity())
	assert.ErrorIs(t, err, ErrInvalidPublicKey)

	_, err = NewPublicKey(params, toy.Generator())
	assert.ErrorIs(t, err, ErrInvalidPublicKey)

	pub, err := NewPublicKey(params, params.Generator())
	require.NoError(t, err)
	assert.Same(t, params, pub.Params())
}

func TestPrivateKeyBytes(t *testing.T) {
	params := curve.Secp256k1()
	priv, err := GenerateKey(params, rand.Reader)
	require.NoError(t, err)

	b := priv.Bytes()
	require.Len(t, b, 32)

	parsed, err := ParsePrivateKey(params, b)
	require.NoError(t, err)
	assert.Equal(t, 0, parsed.D().Cmp(priv.D()))
	assert.True(t, parsed.Public().Equal(priv.Public()))

	small := mustPrivateKey(t, params, 1)
	assert.Equal(t, append(make([]byte, 31), 1), small.Bytes())

	_, err = ParsePrivateKey(params, make([]byte, 33))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
	_, err = ParsePrivateKey(params, make([]byte, 32))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func TestPrivateKeyDIsCopy(t *testing.T) {
	params := curve.Secp256k1()
	d := big.NewInt(99)
	priv, err := NewPrivateKey(params, d)
	require.NoError(t, err)

	d.SetInt64(5)
	got := priv.D()
	assert.Equal(t, int64(99), got.Int64())
	got.SetInt64(7)
	assert.Equal(t, int64(99), priv.D().Int64())
}

func TestGenerateKeyReaderError(t *testing.T) {
	_, err := GenerateKey(curve.Secp256k1(), failingReader{})
	assert.ErrorIs(t, err, errBrokenReader)
}
