package ecdsa

import "errors"

var (
	// ErrInvalidPrivateKey is returned when a private scalar is outside [1, n-1].
	ErrInvalidPrivateKey = errors.New("ecdsa: invalid private key")

	// ErrInvalidPublicKey is returned for the point at infinity, points that
	// are not on the curve, or points of another curve.
	ErrInvalidPublicKey = errors.New("ecdsa: invalid public key")

	// ErrInvalidSignature is returned when a signature cannot be parsed or
	// one of its components is outside [1, n-1].
	ErrInvalidSignature = errors.New("ecdsa: invalid signature")

	// ErrInvalidDigest is returned when signing a nil digest.
	ErrInvalidDigest = errors.New("ecdsa: invalid digest")

	// ErrNonceRetryExhausted is returned when every nonce drawn within the
	// configured number of attempts produced r = 0 or s = 0. With a working
	// random source this is practically impossible on a cryptographic curve.
	ErrNonceRetryExhausted = errors.New("ecdsa: nonce retry limit exhausted")

	// ErrNoNonceReuse is returned by key recovery when the two signatures do
	// not share the same r.
	ErrNoNonceReuse = errors.New("ecdsa: signatures do not share a nonce")
)
