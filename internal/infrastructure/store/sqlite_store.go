package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"

	_ "modernc.org/sqlite"
)

const maxSymbolLength = 32

const createCacheTable = `
CREATE TABLE IF NOT EXISTS cache (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	chain VARCHAR(64) NOT NULL,
	token VARCHAR(42) NOT NULL,
	decimals SMALLINT NOT NULL CHECK (decimals >= 0 AND decimals <= 255),
	symbol VARCHAR(32) NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS cache_chain_token ON cache (chain, token);`

// SQLiteStore is a DecimalsStore persisted in a sqlite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating when needed) the decimals cache database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}
	// sqlite allows a single writer; one connection avoids SQLITE_BUSY under concurrent misses.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Lookup returns the row stored for (chain, token).
func (s *SQLiteStore) Lookup(ctx context.Context, chain, token string) (entity.DecimalsEntry, bool, error) {
	var (
		entry    = entity.DecimalsEntry{Chain: chain, Token: token}
		decimals int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT decimals, symbol FROM cache WHERE chain = ? AND token = ?`, chain, token,
	).Scan(&decimals, &entry.Symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.DecimalsEntry{}, false, nil
	}
	if err != nil {
		return entity.DecimalsEntry{}, false, fmt.Errorf("failed to query decimals for %s/%s: %w", chain, token, err)
	}
	if decimals < 0 || decimals > 255 {
		return entity.DecimalsEntry{}, false, fmt.Errorf("stored decimals %d for %s/%s out of range", decimals, chain, token)
	}
	entry.Decimals = uint8(decimals)
	return entry, true, nil
}

// Insert stores the entry unless a row for (chain, token) already exists.
func (s *SQLiteStore) Insert(ctx context.Context, entry entity.DecimalsEntry) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cache (chain, token, decimals, symbol) VALUES (?, ?, ?, ?)
		 ON CONFLICT (chain, token) DO NOTHING`,
		entry.Chain, entry.Token, int(entry.Decimals), truncateSymbol(entry.Symbol))
	if err != nil {
		return false, fmt.Errorf("failed to insert decimals for %s/%s: %w", entry.Chain, entry.Token, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return n == 1, nil
}

// truncateSymbol cuts s to at most maxSymbolLength bytes on a rune boundary.
func truncateSymbol(s string) string {
	if len(s) <= maxSymbolLength {
		return s
	}
	cut := maxSymbolLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Count returns the number of rows stored for (chain, token).
func (s *SQLiteStore) Count(ctx context.Context, chain, token string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache WHERE chain = ? AND token = ?`, chain, token).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ port.DecimalsStore = (*SQLiteStore)(nil)
