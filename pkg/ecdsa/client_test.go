package ecdsa

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/ecdsa-weierstrass/internal/logging"
	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/curve"
)

func signedRecords(t *testing.T, priv *PrivateKey, count int) []*Record {
	t.Helper()
	records := make([]*Record, 0, count)
	for i := 0; i < count; i++ {
		msg := []byte(fmt.Sprintf("message %d", i))
		sig, err := SignMessage(priv, msg, nil, rand.Reader)
		require.NoError(t, err)
		records = append(records, &Record{Message: msg, Signature: sig})
	}
	return records
}

func TestClient_VerifyFile(t *testing.T) {
	params := curve.Secp256k1()
	priv, err := GenerateKey(params, rand.Reader)
	require.NoError(t, err)

	records := signedRecords(t, priv, 20)
	records[3].Message = []byte("tampered")
	records[7].Signature = NewSignature(records[7].Signature.S, records[7].Signature.R)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, records))
	path := filepath.Join(t.TempDir(), "signatures.json")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	client := NewClient(params).WithConfig(ClientConfig{NumWorkers: 4})
	report, err := client.VerifyFile(context.Background(), path, "0x"+hex.EncodeToString(priv.Public().Bytes()))
	require.NoError(t, err)

	assert.Equal(t, 18, report.Valid)
	assert.Equal(t, 2, report.Invalid)
	require.Len(t, report.Results, 20)
	for i, res := range report.Results {
		assert.Equal(t, i, res.Index)
		assert.Equal(t, i != 3 && i != 7, res.Valid, "record %d", i)
	}
	assert.Empty(t, report.Reuse)
}

func TestClient_VerifyFileCSVWithSHA256(t *testing.T) {
	params := curve.Secp256k1()
	priv := mustPrivateKey(t, params, 777)

	var sb strings.Builder
	sb.WriteString("message,r,s\n")
	for i := 0; i < 3; i++ {
		msg := fmt.Sprintf("csv %d", i)
		sig, err := SignMessage(priv, []byte(msg), SHA256Hasher{}, rand.Reader)
		require.NoError(t, err)
		fmt.Fprintf(&sb, "%s,0x%s,0x%s\n", msg, sig.R.Text(16), sig.S.Text(16))
	}
	path := writeFixture(t, "sigs.csv", sb.String())

	client := NewClient(params).WithParser(&CSVParser{}).WithHasher(SHA256Hasher{})
	report, err := client.VerifyFile(context.Background(), path, hex.EncodeToString(priv.Public().Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 3, report.Valid)

	report, err = client.WithHasher(Keccak256Hasher{}).VerifyFile(context.Background(), path, hex.EncodeToString(priv.Public().Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Valid)
}

func TestClient_DetectNonceReuse(t *testing.T) {
	params := curve.Secp256k1()
	priv, err := GenerateKey(params, rand.Reader)
	require.NoError(t, err)

	records := signedRecords(t, priv, 4)
	for _, msg := range []string{"reused 1", "reused 2"} {
		sig, err := SignMessage(priv, []byte(msg), nil, constReader(9))
		require.NoError(t, err)
		records = append(records, &Record{Message: []byte(msg), Signature: sig})
	}

	var logs bytes.Buffer
	client := NewClient(params).WithLogger(logging.NewText(&logs, slog.LevelDebug))
	report, err := client.VerifyRecords(context.Background(), records, priv.Public())
	require.NoError(t, err)
	assert.Equal(t, 6, report.Valid)

	require.Len(t, report.Reuse, 1)
	reuse := report.Reuse[0]
	assert.Equal(t, [2]int{4, 5}, reuse.Pair)
	require.NotNil(t, reuse.PrivateKey)
	assert.Equal(t, 0, reuse.PrivateKey.D().Cmp(priv.D()))

	assert.Contains(t, logs.String(), "nonce reuse detected")
	assert.Contains(t, logs.String(), "component=client")
	assert.NotContains(t, logs.String(), priv.D().Text(16))
}

func TestClient_Errors(t *testing.T) {
	params := curve.Secp256k1()
	client := NewClient(params)
	priv := mustPrivateKey(t, params, 5)
	pubHex := hex.EncodeToString(priv.Public().Bytes())

	_, err := client.VerifyFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"), pubHex)
	assert.Error(t, err)

	path := writeFixture(t, "sigs.json", `[{"message": "m", "r": "1", "s": "2"}]`)
	_, err = client.VerifyFile(context.Background(), path, "zz")
	assert.Error(t, err)

	_, err = client.VerifyFile(context.Background(), path, pubHex[:64])
	assert.ErrorIs(t, err, ErrInvalidPublicKey)

	_, err = client.VerifyRecords(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
}

func TestClient_Cancelled(t *testing.T) {
	params := curve.Secp256k1()
	priv := mustPrivateKey(t, params, 5)
	records := []*Record{{Z: big.NewInt(1), Signature: NewSignature(big.NewInt(1), big.NewInt(1))}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(params).VerifyRecords(ctx, records, priv.Public())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_RepeatedSignaturesAreNotNonceReuse(t *testing.T) {
	params := curve.Secp256k1()
	priv, err := GenerateKey(params, rand.Reader)
	require.NoError(t, err)
	n := params.N()

	rec := signedRecords(t, priv, 1)[0]
	duplicate := &Record{Message: rec.Message, Signature: NewSignature(rec.Signature.R, rec.Signature.S)}
	twin := &Record{Message: rec.Message, Signature: NewSignature(rec.Signature.R, new(big.Int).Sub(n, rec.Signature.S))}

	tests := []struct {
		name    string
		records []*Record
	}{
		{"duplicated record", []*Record{rec, duplicate}},
		{"negated s", []*Record{rec, twin}},
		{"duplicate and twin", []*Record{rec, duplicate, twin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := NewClient(params).VerifyRecords(context.Background(), tt.records, priv.Public())
			require.NoError(t, err)
			assert.Equal(t, len(tt.records), report.Valid)
			assert.Zero(t, report.Invalid)
			assert.Empty(t, report.Reuse)
		})
	}
}

func TestClient_NonceReuseAfterDuplicate(t *testing.T) {
	params := curve.Secp256k1()
	priv, err := GenerateKey(params, rand.Reader)
	require.NoError(t, err)

	var records []*Record
	for _, msg := range []string{"same", "same", "other"} {
		sig, err := SignMessage(priv, []byte(msg), nil, constReader(3))
		require.NoError(t, err)
		records = append(records, &Record{Message: []byte(msg), Signature: sig})
	}

	found := NewClient(params).DetectNonceReuse(context.Background(), records, priv.Public())
	require.Len(t, found, 2)
	assert.Equal(t, [2]int{0, 2}, found[0].Pair)
	assert.Equal(t, [2]int{1, 2}, found[1].Pair)
	for _, reuse := range found {
		require.NotNil(t, reuse.PrivateKey)
		assert.Equal(t, 0, reuse.PrivateKey.D().Cmp(priv.D()))
	}
}

func TestClient_NilRecords(t *testing.T) {
	params := curve.Secp256k1()
	priv := mustPrivateKey(t, params, 5)
	good := signedRecords(t, priv, 1)[0]
	records := []*Record{nil, good, {Message: []byte("no signature")}}

	client := NewClient(params)
	assert.Empty(t, client.DetectNonceReuse(context.Background(), records, priv.Public()))

	report, err := client.VerifyRecords(context.Background(), records, priv.Public())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Valid)
	assert.Equal(t, 2, report.Invalid)
	assert.False(t, report.Results[0].Valid)
	assert.True(t, report.Results[1].Valid)
}
