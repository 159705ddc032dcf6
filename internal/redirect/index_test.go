package redirect

import "testing"

func TestRecordSkipsNonRedirects(t *testing.T) {
	idx := New()
	idx.Record(1, 2, 2)

	if idx.Len() != 0 {
		t.Fatalf("expected natural write to not be recorded, got len %d", idx.Len())
	}
	stats := idx.Stats()
	if stats.TotalRedirects != 0 {
		t.Fatalf("expected 0 total redirects, got %d", stats.TotalRedirects)
	}
}

func TestRecordAndLookup(t *testing.T) {
	idx := New()
	idx.Record(1, 0, 3)

	actual, ok := idx.Lookup(1)
	if !ok {
		t.Fatal("expected lookup to find redirected key")
	}
	if actual != 3 {
		t.Fatalf("expected actual partition 3, got %d", actual)
	}

	stats := idx.Stats()
	if stats.TotalRedirects != 1 {
		t.Fatalf("expected 1 total redirect, got %d", stats.TotalRedirects)
	}
	if stats.Lookups != 1 || stats.Hits != 1 {
		t.Fatalf("expected 1 lookup and 1 hit, got %+v", stats)
	}
}

func TestLookupMissIsCountedButNotAHit(t *testing.T) {
	idx := New()
	_, ok := idx.Lookup(42)
	if ok {
		t.Fatal("expected miss on empty index")
	}

	stats := idx.Stats()
	if stats.Lookups != 1 || stats.Hits != 0 {
		t.Fatalf("expected 1 lookup, 0 hits, got %+v", stats)
	}
}

func TestRemove(t *testing.T) {
	idx := New()
	idx.Record(1, 0, 2)
	idx.Remove(1)

	if _, ok := idx.Lookup(1); ok {
		t.Fatal("expected key to be gone after Remove")
	}
}

func TestClearResetsEverything(t *testing.T) {
	idx := New()
	idx.Record(1, 0, 2)
	idx.Lookup(1)
	idx.Clear()

	if idx.Len() != 0 {
		t.Fatalf("expected empty index after Clear, got len %d", idx.Len())
	}
	stats := idx.Stats()
	if stats.TotalRedirects != 0 || stats.Lookups != 0 || stats.Hits != 0 {
		t.Fatalf("expected all counters reset, got %+v", stats)
	}
}

func TestGCRemovesEntriesThatNowRouteNaturally(t *testing.T) {
	idx := New()
	idx.Record(1, 0, 2) // key 1 now "actually" routes to 2
	idx.Record(2, 0, 3) // key 2 redirect is still needed

	// Simulate a router that now sends key 1 to partition 2 naturally
	// (e.g. after a rebalance), but still sends key 2 to partition 0.
	current := func(key int64) int {
		if key == 1 {
			return 2
		}
		return 0
	}

	removed := idx.GC(current)
	if removed != 1 {
		t.Fatalf("expected 1 entry removed, got %d", removed)
	}
	if _, ok := idx.Lookup(1); ok {
		t.Fatal("expected key 1's now-redundant redirect to be gone")
	}
	if _, ok := idx.Lookup(2); !ok {
		t.Fatal("expected key 2's still-needed redirect to survive GC")
	}
}

func TestGCOnEmptyIndexIsNoop(t *testing.T) {
	idx := New()
	removed := idx.GC(func(int64) int { return 0 })
	if removed != 0 {
		t.Fatalf("expected 0 removed on empty index, got %d", removed)
	}
}
