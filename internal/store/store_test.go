package store

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"expensetracker/internal/models"
)

func sample(ids ...string) []models.Transaction {
	out := make([]models.Transaction, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Transaction{
			Base:     models.Base{ID: id},
			Amount:   decimal.NewFromInt(-10),
			Category: models.CategoryFood,
		})
	}
	return out
}

func TestStore_StartsEmpty(t *testing.T) {
	s := New()
	if !s.IsEmpty() || s.Len() != 0 {
		t.Fatal("new store should be empty")
	}
	if snap := s.Snapshot(); snap == nil || len(snap) != 0 {
		t.Errorf("expected empty non-nil snapshot, got %#v", snap)
	}
	if s.Version() != 0 {
		t.Errorf("expected version 0, got %d", s.Version())
	}
}

func TestStore_ReplaceIsWholesale(t *testing.T) {
	s := New()
	s.Replace(sample("a", "b", "c"))
	s.Replace(sample("d"))

	snap := s.Snapshot()
	if len(snap) != 1 || snap[0].ID != "d" {
		t.Fatalf("expected only the latest snapshot, got %+v", snap)
	}
	if s.Version() != 2 {
		t.Errorf("expected version 2, got %d", s.Version())
	}

	s.Replace(nil)
	if !s.IsEmpty() {
		t.Error("replacing with nil should empty the store")
	}
}

func TestStore_KeepsServerOrderAndDuplicates(t *testing.T) {
	s := New()
	s.Replace(sample("z", "a", "a"))

	snap := s.Snapshot()
	if len(snap) != 3 || snap[0].ID != "z" || snap[1].ID != "a" || snap[2].ID != "a" {
		t.Errorf("snapshot must match server order verbatim, got %+v", snap)
	}
}

func TestStore_CopiesAreIsolated(t *testing.T) {
	input := sample("a", "b")
	s := New()
	s.Replace(input)

	input[0].ID = "mutated"
	snap := s.Snapshot()
	if snap[0].ID != "a" {
		t.Error("mutating the replaced slice must not affect the store")
	}

	snap[1].ID = "mutated"
	if s.Snapshot()[1].ID != "b" {
		t.Error("mutating a returned snapshot must not affect the store")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Replace(sample("a", "b", "c"))
		}()
		go func() {
			defer wg.Done()
			if n := len(s.Snapshot()); n != 0 && n != 3 {
				t.Errorf("observed partial snapshot of length %d", n)
			}
		}()
	}
	wg.Wait()

	if s.Version() != 20 {
		t.Errorf("expected 20 replacements, got %d", s.Version())
	}
}
