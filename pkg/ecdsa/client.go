package ecdsa

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mahdiidarabi/ecdsa-weierstrass/internal/logging"
	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/curve"
	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/field"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	// NumWorkers controls parallel verification (0 = runtime.NumCPU).
	NumWorkers int
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		NumWorkers: 0,
	}
}

// Client verifies and audits signature files for one curve.
type Client struct {
	params *curve.Params
	parser SignatureParser
	hasher Hasher
	logger logging.Logger
	config ClientConfig
}

// NewClient creates a client for params with a JSON parser, the default
// hasher and a discarding logger.
func NewClient(params *curve.Params) *Client {
	return &Client{
		params: params,
		parser: &JSONParser{},
		hasher: DefaultHasher(),
		logger: logging.Nop().With("component", "client"),
		config: DefaultClientConfig(),
	}
}

// WithParser sets a custom signature parser.
func (c *Client) WithParser(parser SignatureParser) *Client {
	c.parser = parser
	return c
}

// WithHasher sets the hasher applied to records without a digest.
func (c *Client) WithHasher(h Hasher) *Client {
	c.hasher = h
	return c
}

// WithLogger sets the logger. Records are tagged component=client.
func (c *Client) WithLogger(l logging.Logger) *Client {
	if l != nil {
		c.logger = l.With("component", "client")
	}
	return c
}

// WithConfig sets the client configuration.
func (c *Client) WithConfig(config ClientConfig) *Client {
	c.config = config
	return c
}

// VerifyResult is the outcome for one record.
type VerifyResult struct {
	Index  int
	Record *Record
	Valid  bool
}

// NonceReuse describes two records that share r.
type NonceReuse struct {
	Pair [2]int
	R    *big.Int
	// PrivateKey is the key recovered from the pair, nil when recovery failed.
	PrivateKey *PrivateKey
}

// VerifyReport summarizes the verification of a set of records.
type VerifyReport struct {
	Results []VerifyResult
	Valid   int
	Invalid int
	Reuse   []NonceReuse
}

// VerifyFile parses the signature file at source and verifies every record
// against the hex encoded uncompressed public key.
func (c *Client) VerifyFile(ctx context.Context, source string, publicKeyHex string) (*VerifyReport, error) {
	records, err := c.parser.ParseSignatures(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signatures: %w", err)
	}
	pub, err := c.parsePublicKeyHex(publicKeyHex)
	if err != nil {
		return nil, err
	}
	c.logger.Info(ctx, "verifying signature file", "source", source, "records", len(records))
	return c.VerifyRecords(ctx, records, pub)
}

// VerifyRecords verifies in-memory records against pub using a bounded pool
// of workers, then scans them for nonce reuse.
func (c *Client) VerifyRecords(ctx context.Context, records []*Record, pub *PublicKey) (*VerifyReport, error) {
	if pub == nil {
		return nil, ErrInvalidPublicKey
	}

	numWorkers := c.config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	n := c.params.N()
	results := make([]VerifyResult, len(records))
	workChan := make(chan int, numWorkers*4)
	var valid int64

	go func() {
		defer close(workChan)
		for i := range records {
			select {
			case <-ctx.Done():
				return
			case workChan <- i:
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-workChan:
					if !ok {
						return
					}
					rec := records[i]
					good := rec != nil && Verify(pub, rec.Digest(c.hasher, n), rec.Signature)
					if good {
						atomic.AddInt64(&valid, 1)
					}
					results[i] = VerifyResult{Index: i, Record: rec, Valid: good}
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &VerifyReport{
		Results: results,
		Valid:   int(valid),
		Invalid: len(records) - int(valid),
		Reuse:   c.DetectNonceReuse(ctx, records, pub),
	}
	c.logger.Info(ctx, "verification finished", "valid", report.Valid, "invalid", report.Invalid)
	return report, nil
}

// DetectNonceReuse reports every pair of records that share r but sign
// different digests, and tries to recover the private key from each pair.
// Repeated records and (r, n-s) twins over the same digest are not reuse.
// pub may be nil.
func (c *Client) DetectNonceReuse(ctx context.Context, records []*Record, pub *PublicKey) []NonceReuse {
	n := c.params.N()
	byR := make(map[string][]int)
	digests := make([]*big.Int, len(records))
	var found []NonceReuse

	for j, rec := range records {
		if rec == nil || rec.Signature == nil || rec.Signature.R == nil {
			continue
		}
		digests[j] = rec.Digest(c.hasher, n)
		key := rec.Signature.R.Text(16)

		for _, i := range byR[key] {
			if field.Mod(digests[i], n).Cmp(field.Mod(digests[j], n)) == 0 {
				continue
			}
			reuse := NonceReuse{Pair: [2]int{i, j}, R: new(big.Int).Set(rec.Signature.R)}
			priv, err := RecoverFromNonceReuse(c.params, digests[i], records[i].Signature, digests[j], rec.Signature, pub)
			if err == nil {
				reuse.PrivateKey = priv
			}
			c.logger.Warn(ctx, "nonce reuse detected", "first", i, "second", j, "recovered", err == nil, logging.Redacted("private_key"))
			found = append(found, reuse)
		}
		byR[key] = append(byR[key], j)
	}
	return found
}

func (c *Client) parsePublicKeyHex(publicKeyHex string) (*PublicKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(publicKeyHex, "0x"), "0X"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return ParsePublicKey(c.params, b)
}
