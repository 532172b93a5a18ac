// Package numbering assigns human-readable, per-owner sequential document
// numbers such as Q-2026-0001 and ORD-2026-0001.
//
// Sequences live in document_counters and are advanced inside the caller's
// transaction, so a number is only consumed if the document insert commits.
// The first time an owner/kind/year is seen, the counter is seeded from the
// suffix of that owner's most recently inserted document.
package numbering

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Kind identifies the document family being numbered.
type Kind string

const (
	KindQuote Kind = "quote"
	KindOrder Kind = "order"
)

// Prefix returns the number prefix for the kind.
func (k Kind) Prefix() string {
	switch k {
	case KindQuote:
		return "Q"
	case KindOrder:
		return "ORD"
	default:
		return ""
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k.Prefix() != ""
}

// Querier is satisfied by pgx.Tx, *pgxpool.Pool and *pgx.Conn.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Format renders <PREFIX>-<year>-<seq> with seq zero padded to four digits.
// Wider sequences are printed in full.
func Format(kind Kind, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", kind.Prefix(), year, seq)
}

// ParseSequence extracts the sequence from a number issued for kind and year.
func ParseSequence(kind Kind, year int, number string) (int64, bool) {
	prefix := fmt.Sprintf("%s-%d-", kind.Prefix(), year)
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	seq, err := strconv.ParseInt(strings.TrimPrefix(number, prefix), 10, 64)
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}

const bumpCounterQuery = `
	UPDATE document_counters
	SET last_number = last_number + 1, updated_at = now()
	WHERE owner_id = $1 AND kind = $2 AND year = $3
	RETURNING last_number`

const seedCounterQuery = `
	INSERT INTO document_counters (owner_id, kind, year, last_number)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (owner_id, kind, year)
	DO UPDATE SET last_number = document_counters.last_number + 1, updated_at = now()
	RETURNING last_number`

const lastQuoteNumberQuery = `
	SELECT quote_number FROM quotes
	WHERE owner_id = $1 AND quote_number LIKE $2
	ORDER BY seq DESC
	LIMIT 1`

const lastOrderNumberQuery = `
	SELECT order_number FROM orders
	WHERE owner_id = $1 AND order_number LIKE $2
	ORDER BY seq DESC
	LIMIT 1`

// Next reserves the next number for owner, kind and year on q.
// Run it on the same transaction as the insert that uses the number.
func Next(ctx context.Context, q Querier, ownerID uuid.UUID, kind Kind, year int) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("unknown document kind %q", kind)
	}

	var seq int64
	err := q.QueryRow(ctx, bumpCounterQuery, ownerID, string(kind), year).Scan(&seq)
	if err == nil {
		return Format(kind, year, seq), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("advance %s counter: %w", kind, err)
	}

	last, err := lastIssued(ctx, q, ownerID, kind, year)
	if err != nil {
		return "", err
	}

	if err := q.QueryRow(ctx, seedCounterQuery, ownerID, string(kind), year, last+1).Scan(&seq); err != nil {
		return "", fmt.Errorf("seed %s counter: %w", kind, err)
	}
	return Format(kind, year, seq), nil
}

func lastIssued(ctx context.Context, q Querier, ownerID uuid.UUID, kind Kind, year int) (int64, error) {
	query := lastQuoteNumberQuery
	if kind == KindOrder {
		query = lastOrderNumberQuery
	}

	pattern := fmt.Sprintf("%s-%d-%%", kind.Prefix(), year)

	var number string
	err := q.QueryRow(ctx, query, ownerID, pattern).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read last %s number: %w", kind, err)
	}

	seq, ok := ParseSequence(kind, year, number)
	if !ok {
		return 0, nil
	}
	return seq, nil
}
