package ecdsa

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
)

// Record is one entry of a signature file: the signed message or its digest
// integer, and the signature.
type Record struct {
	Message   []byte   // Signed message; ignored when Z is set
	Z         *big.Int // Digest integer; nil means hash Message
	Signature *Signature
}

// Digest returns Z when present, otherwise Message hashed with h for the
// order n.
func (r *Record) Digest(h Hasher, n *big.Int) *big.Int {
	if r.Z != nil {
		return new(big.Int).Set(r.Z)
	}
	return HashMessage(h, r.Message, n)
}

// SignatureParser defines the interface for parsing signature files.
type SignatureParser interface {
	// ParseSignatures parses the records stored at source.
	ParseSignatures(source string) ([]*Record, error)
}

// JSONParser parses signature records from a JSON array of objects.
type JSONParser struct {
	MessageField string // Field name for message (default: "message")
	ZField       string // Field name for the digest (default: "z")
	RField       string // Field name for r (default: "r")
	SField       string // Field name for s (default: "s")
}

// ParseSignatures parses records from a JSON file.
//
// Expected format:
//
//	[
//	  {"message": "...", "r": "0x...", "s": "0x..."},
//	  {"z": "0x...", "r": "0x...", "s": "0x..."}
//	]
func (p *JSONParser) ParseSignatures(jsonFile string) ([]*Record, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse parses records from r.
func (p *JSONParser) Parse(r io.Reader) ([]*Record, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var items []map[string]any
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	messageField := orDefault(p.MessageField, "message")
	zField := orDefault(p.ZField, "z")
	rField := orDefault(p.RField, "r")
	sField := orDefault(p.SField, "s")

	records := make([]*Record, 0, len(items))
	for i, item := range items {
		var err error
		rec := &Record{Signature: &Signature{}}

		if zVal, ok := item[zField]; ok {
			z, err := parseBigInt(zVal)
			if err != nil {
				return nil, fmt.Errorf("record %d: failed to parse z: %w", i, err)
			}
			rec.Z = z
		}
		if msgVal, ok := item[messageField]; ok {
			msg, ok := msgVal.(string)
			if !ok {
				return nil, fmt.Errorf("record %d: message field must be a string", i)
			}
			rec.Message = []byte(msg)
		} else if rec.Z == nil {
			return nil, fmt.Errorf("record %d: missing message or z field", i)
		}

		rVal, ok := item[rField]
		if !ok {
			return nil, fmt.Errorf("record %d: missing r field", i)
		}
		if rec.Signature.R, err = parseBigInt(rVal); err != nil {
			return nil, fmt.Errorf("record %d: failed to parse r: %w", i, err)
		}

		sVal, ok := item[sField]
		if !ok {
			return nil, fmt.Errorf("record %d: missing s field", i)
		}
		if rec.Signature.S, err = parseBigInt(sVal); err != nil {
			return nil, fmt.Errorf("record %d: failed to parse s: %w", i, err)
		}

		records = append(records, rec)
	}

	return records, nil
}

// CSVParser parses signature records from a CSV file with a header row.
type CSVParser struct {
	MessageCol string // Column name for message (default: "message")
	ZCol       string // Column name for the digest (default: "z")
	RCol       string // Column name for r (default: "r")
	SCol       string // Column name for s (default: "s")
}

// ParseSignatures parses records from a CSV file.
func (p *CSVParser) ParseSignatures(csvFile string) ([]*Record, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse parses records from r.
func (p *CSVParser) Parse(r io.Reader) ([]*Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	messageIdx, zIdx, rIdx, sIdx := -1, -1, -1, -1
	for i, col := range header {
		switch col {
		case orDefault(p.MessageCol, "message"):
			messageIdx = i
		case orDefault(p.ZCol, "z"):
			zIdx = i
		case orDefault(p.RCol, "r"):
			rIdx = i
		case orDefault(p.SCol, "s"):
			sIdx = i
		}
	}
	if rIdx == -1 || sIdx == -1 {
		return nil, fmt.Errorf("missing required columns: r or s")
	}
	if messageIdx == -1 && zIdx == -1 {
		return nil, fmt.Errorf("missing message or z column")
	}

	records := make([]*Record, 0)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		rec := &Record{Signature: &Signature{}}
		if zIdx >= 0 && row[zIdx] != "" {
			if rec.Z, err = parseBigInt(row[zIdx]); err != nil {
				return nil, fmt.Errorf("line %d: failed to parse z: %w", line, err)
			}
		}
		if messageIdx >= 0 {
			rec.Message = []byte(row[messageIdx])
		} else if rec.Z == nil {
			return nil, fmt.Errorf("line %d: empty z column", line)
		}
		if rec.Signature.R, err = parseBigInt(row[rIdx]); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse r: %w", line, err)
		}
		if rec.Signature.S, err = parseBigInt(row[sIdx]); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse s: %w", line, err)
		}

		records = append(records, rec)
	}

	return records, nil
}

// jsonRecord is the on-disk form written by WriteJSON.
type jsonRecord struct {
	Message string `json:"message,omitempty"`
	Z       string `json:"z,omitempty"`
	R       string `json:"r"`
	S       string `json:"s"`
}

// WriteJSON writes records in the format read by JSONParser, with integers
// as 0x-prefixed hex.
func WriteJSON(w io.Writer, records []*Record) error {
	out := make([]jsonRecord, 0, len(records))
	for _, rec := range records {
		jr := jsonRecord{
			Message: string(rec.Message),
			R:       formatHex(rec.Signature.R),
			S:       formatHex(rec.Signature.S),
		}
		if rec.Z != nil {
			jr.Z = formatHex(rec.Z)
		}
		out = append(out, jr)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func formatHex(v *big.Int) string {
	return "0x" + v.Text(16)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// parseBigInt parses a non-negative integer from a JSON value or CSV cell.
// Strings with a 0x prefix or containing hex letters are read as hex,
// all-digit strings as decimal.
func parseBigInt(val any) (*big.Int, error) {
	switch v := val.(type) {
	case string:
		s := strings.TrimSpace(v)
		if h, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
			return parseHex(h, v)
		}
		if strings.ContainsAny(s, "abcdefABCDEF") {
			return parseHex(s, v)
		}
		z, ok := new(big.Int).SetString(s, 10)
		if !ok || z.Sign() < 0 {
			return nil, fmt.Errorf("invalid number format: %s", v)
		}
		return z, nil

	case json.Number:
		z, ok := new(big.Int).SetString(string(v), 10)
		if !ok || z.Sign() < 0 {
			return nil, fmt.Errorf("invalid number format: %s", v)
		}
		return z, nil

	default:
		return nil, fmt.Errorf("unsupported type: %T", val)
	}
}

func parseHex(s, orig string) (*big.Int, error) {
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil || len(b) == 0 {
		return nil, fmt.Errorf("invalid hex number: %s", orig)
	}
	return new(big.Int).SetBytes(b), nil
}
