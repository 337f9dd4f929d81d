// Package ecdsa implements ECDSA signing and verification over the curves of
// package curve, together with key handling, message hashing and tooling for
// auditing files of signatures.
//
// # Quick Start
//
//	params := curve.Secp256k1()
//
//	priv, err := ecdsa.GenerateKey(params, rand.Reader)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	msg := []byte("Elliptic curves are cool")
//	sig, err := ecdsa.SignMessage(priv, msg, nil, rand.Reader)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(ecdsa.VerifyMessage(priv.Public(), msg, sig, nil))
//
// Messages are hashed with Keccak-256 unless another Hasher is supplied.
//
// # Signing Configuration
//
// Sign draws a fresh random nonce per signature and retries when the nonce
// yields r = 0 or s = 0. The number of attempts is bounded:
//
//	signer := ecdsa.NewSigner(ecdsa.DefaultConfig().WithMaxSignAttempts(10),
//	    ecdsa.WithSignerLogger(logger))
//	sig, err := signer.Sign(ctx, priv, z, rand.Reader)
//
// # Signature Files
//
// A Client verifies every record of a JSON or CSV signature file in parallel
// and reports records that share a nonce, recovering the private key from
// them when possible:
//
//	client := ecdsa.NewClient(params).WithParser(&ecdsa.CSVParser{})
//	report, err := client.VerifyFile(ctx, "signatures.csv", "04...")
package ecdsa
