package ecdsa

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/mahdiidarabi/ecdsa-weierstrass/internal/logging"
	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/field"
)

var one = big.NewInt(1)

// Config configures a Signer.
type Config struct {
	// MaxSignAttempts bounds the number of nonces drawn for one signature
	// before giving up with ErrNonceRetryExhausted.
	MaxSignAttempts int
}

// DefaultConfig returns the configuration used by Sign.
func DefaultConfig() Config {
	return Config{
		MaxSignAttempts: 1000,
	}
}

// WithMaxSignAttempts returns a copy of c with the attempt limit replaced.
func (c Config) WithMaxSignAttempts(n int) Config {
	c.MaxSignAttempts = n
	return c
}

// Signer produces ECDSA signatures with random nonces.
type Signer struct {
	config Config
	logger logging.Logger
}

// SignerOption customizes a Signer.
type SignerOption func(*Signer)

// WithSignerLogger sets the logger used to report nonce retries.
func WithSignerLogger(l logging.Logger) SignerOption {
	return func(s *Signer) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSigner creates a Signer. A non-positive attempt limit falls back to
// DefaultConfig.
func NewSigner(config Config, opts ...SignerOption) *Signer {
	if config.MaxSignAttempts <= 0 {
		config.MaxSignAttempts = DefaultConfig().MaxSignAttempts
	}
	s := &Signer{config: config, logger: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "signer")
	return s
}

// Sign signs the digest integer z with a Signer using DefaultConfig.
func Sign(priv *PrivateKey, z *big.Int, rand io.Reader) (*Signature, error) {
	return NewSigner(DefaultConfig()).Sign(context.Background(), priv, z, rand)
}

// Sign signs the digest integer z:
//
//	k ← [1, n-1], R = k·G, r = R.x mod n, s = k⁻¹(z + r·d) mod n
//
// A nonce giving r = 0 or s = 0 is discarded and a new one drawn, at most
// MaxSignAttempts times. A nil rand uses crypto/rand.Reader.
func (s *Signer) Sign(ctx context.Context, priv *PrivateKey, z *big.Int, rand io.Reader) (*Signature, error) {
	if priv == nil || priv.d == nil || priv.params == nil {
		return nil, ErrInvalidPrivateKey
	}
	if z == nil {
		return nil, ErrInvalidDigest
	}
	if rand == nil {
		rand = defaultReader()
	}
	n := priv.params.N()

	for attempt := 1; attempt <= s.config.MaxSignAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		k, err := RandomScalar(rand, n)
		if err != nil {
			return nil, fmt.Errorf("ecdsa: draw nonce: %w", err)
		}
		sig, err := signWithNonce(priv, z, k)
		if errors.Is(err, errDegenerateNonce) {
			s.logger.Debug(ctx, "discarding nonce", "attempt", attempt, "reason", err.Error(), logging.Redacted("nonce"))
			continue
		}
		if err != nil {
			return nil, err
		}
		return sig, nil
	}

	s.logger.Error(ctx, "nonce retry limit exhausted", "attempts", s.config.MaxSignAttempts, "curve", priv.params.Name())
	return nil, ErrNonceRetryExhausted
}

var errDegenerateNonce = errors.New("degenerate nonce")

// signWithNonce computes the signature for a fixed nonce k. It returns
// errDegenerateNonce when k yields r = 0 or s = 0.
func signWithNonce(priv *PrivateKey, z, k *big.Int) (*Signature, error) {
	params := priv.params
	n := params.N()

	rp, err := params.Generator().ScalarMult(k)
	if err != nil {
		return nil, err
	}
	if rp.IsInfinity() {
		return nil, fmt.Errorf("%w: k·G is infinity", errDegenerateNonce)
	}
	r := field.Mod(rp.X(), n)
	if r.Sign() == 0 {
		return nil, fmt.Errorf("%w: r = 0", errDegenerateNonce)
	}

	kInv, err := field.Inverse(k, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errDegenerateNonce, err)
	}
	e := field.Add(z, field.Mul(r, priv.d, n), n)
	sv := field.Mul(kInv, e, n)
	if sv.Sign() == 0 {
		return nil, fmt.Errorf("%w: s = 0", errDegenerateNonce)
	}
	return &Signature{R: r, S: sv}, nil
}

// Verify reports whether sig is a valid signature of the digest integer z
// under pub. Malformed input of any kind yields false.
func Verify(pub *PublicKey, z *big.Int, sig *Signature) bool {
	if !pub.valid() || z == nil || sig == nil {
		return false
	}
	params := pub.params
	n := params.N()
	if sig.Validate(n) != nil {
		return false
	}

	w, err := field.Inverse(sig.S, n)
	if err != nil {
		return false
	}
	u1 := field.Mul(z, w, n)
	u2 := field.Mul(sig.R, w, n)

	p1, err := params.Generator().ScalarMult(u1)
	if err != nil {
		return false
	}
	p2, err := pub.point.ScalarMult(u2)
	if err != nil {
		return false
	}
	x, err := p1.Add(p2)
	if err != nil || x.IsInfinity() {
		return false
	}
	return field.Mod(x.X(), n).Cmp(sig.R) == 0
}

// RandomScalar returns a uniformly random integer in [1, n-1] read from r.
func RandomScalar(r io.Reader, n *big.Int) (*big.Int, error) {
	if n == nil || n.Cmp(big.NewInt(2)) < 0 {
		return nil, errors.New("ecdsa: order must be at least 2")
	}
	k, err := rand.Int(r, new(big.Int).Sub(n, one))
	if err != nil {
		return nil, err
	}
	return k.Add(k, one), nil
}

func defaultReader() io.Reader {
	return rand.Reader
}

// SignMessage hashes msg with h (nil selects the default) and signs the
// result.
func SignMessage(priv *PrivateKey, msg []byte, h Hasher, rand io.Reader) (*Signature, error) {
	if priv == nil || priv.params == nil {
		return nil, ErrInvalidPrivateKey
	}
	return Sign(priv, HashMessage(h, msg, priv.params.N()), rand)
}

// VerifyMessage hashes msg with h (nil selects the default) and verifies
// sig against the result.
func VerifyMessage(pub *PublicKey, msg []byte, sig *Signature, h Hasher) bool {
	if !pub.valid() {
		return false
	}
	return Verify(pub, HashMessage(h, msg, pub.params.N()), sig)
}
