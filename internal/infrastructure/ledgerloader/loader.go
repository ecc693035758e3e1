package ledgerloader

import (
	"fmt"
	"io"
	"os"

	"portfolio_tracker/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

const DefaultLedgerFilePath = "data/wallets.json"

// maxLedgerSize bounds ledger documents read from a request body.
const maxLedgerSize = 8 << 20

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode parses a wallet-keyed ledger document and validates it.
func Decode(data []byte) (entity.Ledger, error) {
	var ledger entity.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return entity.Ledger{}, &entity.ValidationError{Problems: []string{err.Error()}}
	}
	if err := ledger.Validate(); err != nil {
		return entity.Ledger{}, err
	}
	return ledger, nil
}

// DecodeReader reads at most maxLedgerSize bytes from r and decodes them.
func DecodeReader(r io.Reader) (entity.Ledger, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxLedgerSize+1))
	if err != nil {
		return entity.Ledger{}, fmt.Errorf("failed to read ledger: %w", err)
	}
	if len(data) > maxLedgerSize {
		return entity.Ledger{}, &entity.ValidationError{Problems: []string{"ledger: document too large"}}
	}
	return Decode(data)
}

// Load reads and validates the ledger file at path.
func Load(path string) (entity.Ledger, error) {
	if path == "" {
		path = DefaultLedgerFilePath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.Ledger{}, fmt.Errorf("failed to open ledger file %s: %w", path, err)
	}
	ledger, err := Decode(data)
	if err != nil {
		return entity.Ledger{}, fmt.Errorf("ledger file %s: %w", path, err)
	}
	return ledger, nil
}
