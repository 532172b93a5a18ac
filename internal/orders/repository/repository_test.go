package repository

import (
	"strings"
	"testing"
)

func TestOwnerScopedQueries(t *testing.T) {
	queries := map[string]string{
		"items":      selectOrderItemsQuery,
		"list":       listOrdersQuery,
		"update":     updateOrderQuery,
		"stats":      orderStatsQuery,
		"lock quote": lockQuoteForConversionQuery,
		"confirm":    confirmQuoteApprovedQuery,
	}

	for name, query := range queries {
		if !strings.Contains(strings.ToLower(query), "owner_id = $2") && !strings.Contains(strings.ToLower(query), "owner_id = $1") {
			t.Fatalf("%s query must be scoped to the owner", name)
		}
	}
}

func TestUpdateOnlyTouchesStatusAndNotes(t *testing.T) {
	query := strings.ToLower(updateOrderQuery)
	setClause := query[strings.Index(query, "update orders o set"):strings.Index(query, "from prev")]

	for _, immutable := range []string{"subtotal", "total =", "customer_name", "discount", "order_number"} {
		if strings.Contains(setClause, immutable) {
			t.Fatalf("update must not write %q", immutable)
		}
	}
	for _, mutable := range []string{"status = coalesce", "notes = case", "updated_at = now()"} {
		if !strings.Contains(setClause, mutable) {
			t.Fatalf("expected %q in update", mutable)
		}
	}
	if !strings.Contains(query, "returning prev.status") {
		t.Fatal("update must return the previous status")
	}
}

func TestConversionLocksQuoteRow(t *testing.T) {
	if !strings.Contains(strings.ToLower(lockQuoteForConversionQuery), "for update") {
		t.Fatal("conversion must lock the source quote")
	}
}

func TestConversionCopiesFinancialsVerbatim(t *testing.T) {
	query := strings.ToLower(insertOrderFromQuoteQuery)
	for _, fragment := range []string{
		"q.subtotal, q.discount_percent, q.discount_amount, q.total",
		"'pending', q.notes",
		"q.customer_name, q.customer_email, q.customer_phone, q.customer_address",
	} {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected fragment %q in order insert", fragment)
		}
	}
}

func TestConversionCopiesItemsWithoutRecalculating(t *testing.T) {
	query := strings.ToLower(copyQuoteItemsQuery)
	if !strings.Contains(query, "qi.unit_price, qi.quantity, qi.line_total, qi.sort_order") {
		t.Fatal("items must be copied verbatim from the quote")
	}
	if strings.Contains(query, "*") {
		t.Fatal("line totals must not be recomputed during conversion")
	}
}

func TestConfirmWriteKeepsQuoteApproved(t *testing.T) {
	if !strings.Contains(confirmQuoteApprovedQuery, "status = 'approved'") {
		t.Fatal("conversion must confirm the quote as approved")
	}
}

func TestListQueryOrdersNewestFirst(t *testing.T) {
	if !strings.Contains(strings.ToLower(listOrdersQuery), "order by created_at desc, seq desc") {
		t.Fatal("expected newest-first ordering with insertion tie-break")
	}
}
