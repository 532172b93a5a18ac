package repository

import (
	"strconv"
	"strings"
	"testing"
)

func TestOwnerScopedQueries(t *testing.T) {
	queries := map[string]string{
		"update": updateQuoteQuery,
		"items":  selectItemsQuery,
		"list":   listQuotesQuery,
		"stats":  quoteStatsQuery,
	}

	for name, query := range queries {
		if !strings.Contains(strings.ToLower(query), "owner_id = $") {
			t.Fatalf("%s query must be scoped to the owner", name)
		}
	}
}

func TestListQueryOrdersNewestFirst(t *testing.T) {
	query := strings.ToLower(listQuotesQuery)
	if !strings.Contains(query, "order by created_at desc, seq desc") {
		t.Fatal("expected newest-first ordering with insertion tie-break")
	}
}

func TestItemsQueryKeepsInsertionOrder(t *testing.T) {
	if !strings.Contains(strings.ToLower(selectItemsQuery), "order by qi.sort_order asc") {
		t.Fatal("expected items ordered by sort_order")
	}
}

func TestExpireOverdueOnlyTouchesOpenQuotes(t *testing.T) {
	query := strings.ToLower(expireOverdueQuery)
	for _, fragment := range []string{
		"status in ('draft', 'sent')",
		"valid_until < $1::date",
		"set status = 'expired'",
	} {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected fragment %q in expiry query", fragment)
		}
	}
}

func TestInsertColumnsMatchPlaceholders(t *testing.T) {
	cols := strings.Count(quoteColumns, ",") + 1
	if !strings.Contains(insertQuoteQuery, "$"+strconv.Itoa(cols)+")") {
		t.Fatalf("insert query should bind %d parameters", cols)
	}
}

func TestUpdateDerivesTotalsFromLockedSubtotal(t *testing.T) {
	query := strings.ToLower(updateQuoteQuery)
	for _, fragment := range []string{
		"subtotal = case when $15::boolean then $7::double precision else subtotal end",
		"else subtotal * $8::double precision / 100 end",
		"else subtotal - subtotal * $8::double precision / 100 end",
		"returning subtotal, discount_amount, total",
	} {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected fragment %q in update query", fragment)
		}
	}
}
