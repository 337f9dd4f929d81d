package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"strings"

	"github.com/mahdiidarabi/ecdsa-weierstrass/internal/dcrcompat"
	"github.com/mahdiidarabi/ecdsa-weierstrass/internal/logging"
	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/ecdsa"
)

// errVerificationFailed makes the process exit with status 1 after the
// result has already been printed.
var errVerificationFailed = errors.New("verification failed")

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) keygen(args []string) error {
	fs := a.newFlagSet("keygen")
	if err := fs.Parse(args); err != nil {
		return err
	}

	priv, err := ecdsa.GenerateKey(a.params, rand.Reader)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "[+] Private key: 0x%s\n", hex.EncodeToString(priv.Bytes()))
	fmt.Fprintf(a.stdout, "[+] Public key: %s\n", hex.EncodeToString(priv.Public().Bytes()))
	return nil
}

func (a *app) sign(ctx context.Context, args []string) error {
	fs := a.newFlagSet("sign")
	keyHex := fs.String("key", "", "Private key in hex format")
	message := fs.String("message", "", "Message to sign")
	hashName := fs.String("hash", "keccak256", "Message hash (keccak256 or sha256)")
	deterministic := fs.Bool("deterministic", false, "Use RFC 6979 nonces instead of random ones")
	maxAttempts := fs.Int("max-attempts", ecdsa.DefaultConfig().MaxSignAttempts, "Maximum nonces drawn before giving up")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *keyHex == "" {
		return fmt.Errorf("-key is required")
	}

	keyBytes, err := decodeHex(*keyHex)
	if err != nil {
		return fmt.Errorf("failed to parse private key: %w", err)
	}
	priv, err := ecdsa.ParsePrivateKey(a.params, keyBytes)
	if err != nil {
		return err
	}
	hasher, err := ecdsa.HasherByName(*hashName)
	if err != nil {
		return err
	}

	z := ecdsa.HashMessage(hasher, []byte(*message), a.params.N())
	var sig *ecdsa.Signature
	if *deterministic {
		sig, err = dcrcompat.Sign(priv, z)
	} else {
		signer := ecdsa.NewSigner(ecdsa.DefaultConfig().WithMaxSignAttempts(*maxAttempts),
			ecdsa.WithSignerLogger(a.logger))
		sig, err = signer.Sign(ctx, priv, z, rand.Reader)
	}
	if err != nil {
		return err
	}

	a.logger.Debug(ctx, "signed message", "hash", hasher.Name(), "deterministic", *deterministic, logging.Redacted("private_key"))
	return ecdsa.WriteJSON(a.stdout, []*ecdsa.Record{{Message: []byte(*message), Signature: sig}})
}

func (a *app) verify(args []string) error {
	fs := a.newFlagSet("verify")
	pubHex := fs.String("pub", "", "Public key in hex format (uncompressed, 130 chars)")
	message := fs.String("message", "", "Signed message")
	rHex := fs.String("r", "", "Signature r component in hex")
	sHex := fs.String("s", "", "Signature s component in hex")
	hashName := fs.String("hash", "keccak256", "Message hash (keccak256 or sha256)")
	crossCheck := fs.Bool("cross-check", false, "Also verify with the decred secp256k1 implementation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *pubHex == "" || *rHex == "" || *sHex == "" {
		return fmt.Errorf("-pub, -r and -s are required")
	}

	pub, err := a.parsePublicKey(*pubHex)
	if err != nil {
		return err
	}
	r, err := parseHexInt(*rHex)
	if err != nil {
		return fmt.Errorf("failed to parse r: %w", err)
	}
	s, err := parseHexInt(*sHex)
	if err != nil {
		return fmt.Errorf("failed to parse s: %w", err)
	}
	hasher, err := ecdsa.HasherByName(*hashName)
	if err != nil {
		return err
	}

	sig := ecdsa.NewSignature(r, s)
	z := ecdsa.HashMessage(hasher, []byte(*message), a.params.N())
	valid := ecdsa.Verify(pub, z, sig)
	fmt.Fprintf(a.stdout, "[+] Signature valid? %v\n", valid)

	if *crossCheck {
		dcrValid := dcrcompat.Verify(pub, z, sig)
		fmt.Fprintf(a.stdout, "[+] decred secp256k1 agrees? %v\n", dcrValid == valid)
		if dcrValid != valid {
			return fmt.Errorf("implementations disagree: ours=%v decred=%v", valid, dcrValid)
		}
	}
	if !valid {
		return errVerificationFailed
	}
	return nil
}

func (a *app) verifyFile(ctx context.Context, args []string) error {
	fs := a.newFlagSet("verify-file")
	signaturesFile := fs.String("signatures", "", "Path to signatures file (JSON or CSV)")
	format := fs.String("format", "json", "Signature file format (json or csv)")
	pubHex := fs.String("pub", "", "Public key in hex format (uncompressed, 130 chars)")
	hashName := fs.String("hash", "keccak256", "Hash applied to records without a z field")
	numWorkers := fs.Int("workers", 0, "Number of parallel workers (0 = auto-detect based on CPU cores)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *signaturesFile == "" || *pubHex == "" {
		return fmt.Errorf("-signatures and -pub are required")
	}

	var parser ecdsa.SignatureParser
	switch *format {
	case "json":
		parser = &ecdsa.JSONParser{}
	case "csv":
		parser = &ecdsa.CSVParser{}
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	hasher, err := ecdsa.HasherByName(*hashName)
	if err != nil {
		return err
	}

	client := ecdsa.NewClient(a.params).
		WithParser(parser).
		WithHasher(hasher).
		WithLogger(a.logger).
		WithConfig(ecdsa.ClientConfig{NumWorkers: *numWorkers})

	report, err := client.VerifyFile(ctx, *signaturesFile, *pubHex)
	if err != nil {
		return err
	}

	for _, res := range report.Results {
		if !res.Valid {
			fmt.Fprintf(a.stdout, "    ✗ record %d: invalid signature\n", res.Index)
		}
	}
	fmt.Fprintf(a.stdout, "[+] %d valid, %d invalid\n", report.Valid, report.Invalid)
	for _, reuse := range report.Reuse {
		fmt.Fprintf(a.stdout, "[!] Nonce reuse in records %d and %d (r = 0x%s)\n", reuse.Pair[0], reuse.Pair[1], reuse.R.Text(16))
		if reuse.PrivateKey != nil {
			fmt.Fprintln(a.stdout, "    Private key is recoverable from this pair")
		}
	}
	if report.Invalid > 0 || len(report.Reuse) > 0 {
		return errVerificationFailed
	}
	return nil
}

func (a *app) parsePublicKey(s string) (*ecdsa.PublicKey, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return ecdsa.ParsePublicKey(a.params, b)
}

// decodeHex decodes a hex string, handling 0x prefix.
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return hex.DecodeString(s)
}

func parseHexInt(s string) (*big.Int, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}
