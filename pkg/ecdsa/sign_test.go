package ecdsa

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/mahdiidarabi/ecdsa-weierstrass/internal/logging"
	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/curve"
)

func TestSignVerifyToyCurve(t *testing.T) {
	params := toyCurve(t)
	priv := mustPrivateKey(t, params, 2)

	// Reader of zero bytes gives k = 1, so R = G = (3, 6) and r = 3.
	sig, err := Sign(priv, big.NewInt(3), constReader(0))
	if err != nil {
		t.Fatalf("Failed to sign: %v", err)
	}
	if sig.R.Int64() != 3 || sig.S.Int64() != 4 {
		t.Fatalf("Expected signature (3, 4), got (%s, %s)", sig.R, sig.S)
	}
	if !Verify(priv.Public(), big.NewInt(3), sig) {
		t.Error("Signature should verify")
	}
	// z = 4 makes u1·G + u2·Q = 5G, the point at infinity.
	if Verify(priv.Public(), big.NewInt(4), sig) {
		t.Error("Signature should not verify for another digest")
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	params := curve.Secp256k1()

	for i := 0; i < 5; i++ {
		priv, err := GenerateKey(params, rand.Reader)
		if err != nil {
			t.Fatalf("Failed to generate key: %v", err)
		}
		msg := []byte{byte(i), 'm', 's', 'g'}
		for j := 0; j < 3; j++ {
			sig, err := SignMessage(priv, msg, nil, rand.Reader)
			if err != nil {
				t.Fatalf("Failed to sign: %v", err)
			}
			if err := sig.Validate(params.N()); err != nil {
				t.Fatalf("Signature out of range: %v", err)
			}
			if !VerifyMessage(priv.Public(), msg, sig, nil) {
				t.Fatalf("Trial %d/%d: signature did not verify", i, j)
			}
		}
	}
}

func TestSignTestMessageWithUnitKey(t *testing.T) {
	params := curve.Secp256k1()
	priv := mustPrivateKey(t, params, 1)

	if !priv.Point().Equal(params.Generator()) {
		t.Fatal("Public key of d = 1 must equal the generator")
	}

	msg := []byte("test")
	sig, err := SignMessage(priv, msg, Keccak256Hasher{}, nil)
	if err != nil {
		t.Fatalf("Failed to sign: %v", err)
	}
	if !VerifyMessage(priv.Public(), msg, sig, Keccak256Hasher{}) {
		t.Error("Signature over \"test\" should verify")
	}
	if VerifyMessage(priv.Public(), msg, sig, SHA256Hasher{}) {
		t.Error("Signature should not verify with another hash")
	}
}

func TestVerifyRejectsBitFlips(t *testing.T) {
	params := curve.Secp256k1()
	priv, err := GenerateKey(params, rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	msg := []byte("Elliptic curves are cool")
	sig, err := SignMessage(priv, msg, nil, rand.Reader)
	if err != nil {
		t.Fatalf("Failed to sign: %v", err)
	}
	pub := priv.Public()

	for i := 0; i < len(msg)*8; i += 7 {
		mutated := append([]byte(nil), msg...)
		mutated[i/8] ^= 1 << (i % 8)
		if VerifyMessage(pub, mutated, sig, nil) {
			t.Errorf("Message with bit %d flipped verified", i)
		}
	}

	raw := sig.Bytes(params)
	for i := 0; i < len(raw)*8; i += 11 {
		mutated := append([]byte(nil), raw...)
		mutated[i/8] ^= 1 << (i % 8)
		bad, err := ParseSignature(params, mutated)
		if err != nil {
			continue
		}
		if VerifyMessage(pub, msg, bad, nil) {
			t.Errorf("Signature with bit %d flipped verified", i)
		}
	}
}

func TestVerifyRejectsMalformedInput(t *testing.T) {
	params := curve.Secp256k1()
	priv := mustPrivateKey(t, params, 12345)
	z := big.NewInt(42)
	sig, err := Sign(priv, z, rand.Reader)
	if err != nil {
		t.Fatalf("Failed to sign: %v", err)
	}
	n := params.N()
	other := mustPrivateKey(t, params, 54321)

	tests := []struct {
		name string
		pub  *PublicKey
		z    *big.Int
		sig  *Signature
	}{
		{"nil public key", nil, z, sig},
		{"zero public key", &PublicKey{}, z, sig},
		{"nil digest", priv.Public(), nil, sig},
		{"nil signature", priv.Public(), z, nil},
		{"r zero", priv.Public(), z, NewSignature(big.NewInt(0), sig.S)},
		{"s zero", priv.Public(), z, NewSignature(sig.R, big.NewInt(0))},
		{"r equals n", priv.Public(), z, NewSignature(n, sig.S)},
		{"s equals n", priv.Public(), z, NewSignature(sig.R, n)},
		{"r plus n", priv.Public(), z, NewSignature(new(big.Int).Add(sig.R, n), sig.S)},
		{"wrong key", other.Public(), z, sig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Verify(tt.pub, tt.z, tt.sig) {
				t.Error("Verify should return false")
			}
		})
	}

	if !Verify(priv.Public(), z, sig) {
		t.Error("Original signature should still verify")
	}
}

func TestSignRetryExhausted(t *testing.T) {
	params := toyCurve(t)
	priv := mustPrivateKey(t, params, 2)

	// Reader of 0x01 bytes always gives k = 2; 2G = (80, 10) and 80 ≡ 0 (mod 5).
	signer := NewSigner(DefaultConfig().WithMaxSignAttempts(3), WithSignerLogger(logging.Nop()))
	_, err := signer.Sign(context.Background(), priv, big.NewInt(3), constReader(1))
	if !errors.Is(err, ErrNonceRetryExhausted) {
		t.Fatalf("Expected ErrNonceRetryExhausted, got %v", err)
	}

	_, err = Sign(priv, big.NewInt(3), constReader(1))
	if !errors.Is(err, ErrNonceRetryExhausted) {
		t.Fatalf("Expected ErrNonceRetryExhausted with default config, got %v", err)
	}
}

func TestSignErrors(t *testing.T) {
	params := toyCurve(t)
	priv := mustPrivateKey(t, params, 2)

	if _, err := Sign(priv, big.NewInt(3), failingReader{}); !errors.Is(err, errBrokenReader) {
		t.Errorf("Expected reader error, got %v", err)
	}
	if _, err := Sign(priv, nil, constReader(0)); !errors.Is(err, ErrInvalidDigest) {
		t.Errorf("Expected ErrInvalidDigest, got %v", err)
	}
	if _, err := Sign(nil, big.NewInt(3), constReader(0)); !errors.Is(err, ErrInvalidPrivateKey) {
		t.Errorf("Expected ErrInvalidPrivateKey, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSigner(DefaultConfig()).Sign(ctx, priv, big.NewInt(3), constReader(0)); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestSignerLogsComponent(t *testing.T) {
	params := toyCurve(t)
	priv := mustPrivateKey(t, params, 2)

	var buf bytes.Buffer
	signer := NewSigner(DefaultConfig().WithMaxSignAttempts(2),
		WithSignerLogger(logging.NewText(&buf, slog.LevelDebug)))
	if _, err := signer.Sign(context.Background(), priv, big.NewInt(3), constReader(1)); !errors.Is(err, ErrNonceRetryExhausted) {
		t.Fatalf("Expected ErrNonceRetryExhausted, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "component=signer") {
		t.Errorf("Expected component tag in log output, got %q", out)
	}
	if !strings.Contains(out, "nonce="+logging.RedactedValue) {
		t.Errorf("Expected redacted nonce in log output, got %q", out)
	}
}

func TestNewSignerDefaults(t *testing.T) {
	s := NewSigner(Config{})
	if s.config.MaxSignAttempts != 1000 {
		t.Errorf("Expected default of 1000 attempts, got %d", s.config.MaxSignAttempts)
	}
}

func TestRandomScalar(t *testing.T) {
	n := big.NewInt(5)
	for i := 0; i < 200; i++ {
		k, err := RandomScalar(rand.Reader, n)
		if err != nil {
			t.Fatalf("Failed to draw scalar: %v", err)
		}
		if k.Sign() <= 0 || k.Cmp(n) >= 0 {
			t.Fatalf("Scalar %s outside [1, 4]", k)
		}
	}

	if _, err := RandomScalar(rand.Reader, big.NewInt(1)); err == nil {
		t.Error("Expected error for order 1")
	}
}
