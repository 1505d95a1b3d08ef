package repository

import (
	"context"
	"testing"

	"github.com/clubmate/lora-training/internal/domain/model"
)

func TestLedger_RecordAndQuery(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger()

	if n := ledger.TimesCompared(ctx, "a.jpg", "b.jpg"); n != 0 {
		t.Errorf("expected 0 for unseen pair, got %d", n)
	}
	if _, ok := ledger.LastSeen(ctx, "a.jpg", "b.jpg"); ok {
		t.Error("expected no last-seen for unseen pair")
	}

	err := ledger.Record(ctx, model.Comparison{A: "a.jpg", B: "b.jpg", Outcome: model.AWins, Seq: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = ledger.Record(ctx, model.Comparison{A: "b.jpg", B: "a.jpg", Outcome: model.Skipped, Seq: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Pair identity is symmetric: both orders hit the same entry.
	if n := ledger.TimesCompared(ctx, "a.jpg", "b.jpg"); n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
	if n := ledger.TimesCompared(ctx, "b.jpg", "a.jpg"); n != 2 {
		t.Errorf("expected 2 for swapped order, got %d", n)
	}

	seq, ok := ledger.LastSeen(ctx, "a.jpg", "b.jpg")
	if !ok || seq != 2 {
		t.Errorf("expected last seen seq 2, got %d (ok=%v)", seq, ok)
	}

	if n := ledger.Len(ctx); n != 2 {
		t.Errorf("expected 2 log entries, got %d", n)
	}
}

func TestLedger_SymmetryInvariant(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger()

	pairs := [][2]string{
		{"x.png", "y.png"},
		{"y.png", "x.png"},
		{"x.png", "z.png"},
		{"z.png", "y.png"},
	}
	for i, p := range pairs {
		err := ledger.Record(ctx, model.Comparison{A: p[0], B: p[1], Outcome: model.AWins, Seq: uint64(i + 1)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	for _, p := range [][2]string{{"x.png", "y.png"}, {"x.png", "z.png"}, {"y.png", "z.png"}} {
		ab := ledger.TimesCompared(ctx, p[0], p[1])
		ba := ledger.TimesCompared(ctx, p[1], p[0])
		if ab != ba {
			t.Errorf("symmetry violated for %v: %d vs %d", p, ab, ba)
		}
	}

	if n := ledger.TimesCompared(ctx, "x.png", "y.png"); n != 2 {
		t.Errorf("expected {x,y} counted twice, got %d", n)
	}
}

func TestLedger_RejectsMalformed(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger()

	if err := ledger.Record(ctx, model.Comparison{A: "a.jpg", B: "a.jpg", Outcome: model.AWins, Seq: 1}); err == nil {
		t.Error("expected error for self-pair")
	}
	if err := ledger.Record(ctx, model.Comparison{A: "", B: "b.jpg", Outcome: model.AWins, Seq: 1}); err == nil {
		t.Error("expected error for empty id")
	}
	if n := ledger.Len(ctx); n != 0 {
		t.Errorf("malformed records must not be logged, got %d", n)
	}
}

func TestLedger_HistoryIsCopy(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger()

	err := ledger.Record(ctx, model.Comparison{A: "a.jpg", B: "b.jpg", Outcome: model.BWins, Seq: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history := ledger.History(ctx)
	history[0].A = "mutated"

	if got := ledger.History(ctx)[0].A; got != "a.jpg" {
		t.Errorf("ledger log mutated through returned slice: %s", got)
	}
}
