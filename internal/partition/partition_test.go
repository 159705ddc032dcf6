package partition

import (
	"sync"
	"testing"
)

func TestNewPartitionEmpty(t *testing.T) {
	p := New[string]()

	if p.Size() != 0 {
		t.Fatalf("expected empty partition, got size %d", p.Size())
	}
	b := p.GetBounds()
	if b.HasKeys {
		t.Fatal("expected HasKeys=false on empty partition")
	}
}

func TestInsertAndGet(t *testing.T) {
	tests := []struct {
		name string
		key  int64
		val  string
	}{
		{name: "zero key", key: 0, val: "zero"},
		{name: "negative key", key: -42, val: "neg"},
		{name: "large key", key: 1 << 40, val: "large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New[string]()
			_, replaced := p.Insert(tt.key, tt.val)
			if replaced {
				t.Fatal("expected first insert to not replace anything")
			}

			got, ok := p.Get(tt.key)
			if !ok {
				t.Fatal("expected key to be present")
			}
			if got != tt.val {
				t.Fatalf("Get returned %q, want %q", got, tt.val)
			}
		})
	}
}

func TestInsertReplacesAndReturnsPrevious(t *testing.T) {
	p := New[string]()
	p.Insert(1, "v1")
	prev, replaced := p.Insert(1, "v2")

	if !replaced {
		t.Fatal("expected second insert of same key to report replaced=true")
	}
	if prev != "v1" {
		t.Fatalf("expected previous value v1, got %q", prev)
	}
	if p.Size() != 1 {
		t.Fatalf("replacing a key must not change size, got %d", p.Size())
	}
}

func TestRemove(t *testing.T) {
	p := New[string]()
	p.Insert(1, "v1")

	if !p.Remove(1) {
		t.Fatal("expected Remove to report true for a present key")
	}
	if p.Remove(1) {
		t.Fatal("expected second Remove of the same key to report false")
	}
	if p.Contains(1) {
		t.Fatal("key must not be contained after removal")
	}
}

// TestBoundsRecomputeOnRemove exercises the rule that bounds are
// recomputed by scanning the map's extremes when the removed key was min
// or max.
func TestBoundsRecomputeOnRemove(t *testing.T) {
	p := New[int]()
	for _, k := range []int64{5, 1, 9, 3} {
		p.Insert(k, int(k))
	}

	b := p.GetBounds()
	if b.Min != 1 || b.Max != 9 {
		t.Fatalf("expected bounds [1,9], got [%d,%d]", b.Min, b.Max)
	}

	p.Remove(9)
	b = p.GetBounds()
	if b.Max != 5 {
		t.Fatalf("expected max to recompute to 5 after removing 9, got %d", b.Max)
	}

	p.Remove(1)
	b = p.GetBounds()
	if b.Min != 3 {
		t.Fatalf("expected min to recompute to 3 after removing 1, got %d", b.Min)
	}
}

func TestIntersectsConservative(t *testing.T) {
	p := New[int]()
	p.Insert(10, 1)
	p.Insert(20, 2)

	if !p.Intersects(15, 25) {
		t.Fatal("expected overlap with [15,25]")
	}
	if !p.Intersects(10, 10) {
		t.Fatal("expected overlap at exact boundary key")
	}
	if p.Intersects(21, 30) {
		t.Fatal("expected no overlap beyond max key")
	}
	if p.Intersects(0, 9) {
		t.Fatal("expected no overlap before min key")
	}
}

func TestIntersectsEmptyPartition(t *testing.T) {
	p := New[int]()
	if p.Intersects(0, 100) {
		t.Fatal("an empty partition cannot intersect any range")
	}
}

func TestRangeInclusiveBothEnds(t *testing.T) {
	p := New[int]()
	for k := int64(0); k < 10; k++ {
		p.Insert(k, int(k))
	}

	var got []int64
	p.Range(2, 5, func(e Entry[int]) bool {
		got = append(got, e.Key)
		return true
	})

	want := []int64{2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

// TestRangeLoGreaterThanHi covers the empty-result edge case when lo > hi.
func TestRangeLoGreaterThanHi(t *testing.T) {
	p := New[int]()
	p.Insert(5, 5)

	var got []int64
	p.Range(10, 1, func(e Entry[int]) bool {
		got = append(got, e.Key)
		return true
	})
	if len(got) != 0 {
		t.Fatalf("expected no results for lo > hi, got %v", got)
	}
}

func TestRangeStopsOnSaturation(t *testing.T) {
	p := New[int]()
	for k := int64(0); k < 10; k++ {
		p.Insert(k, int(k))
	}

	var got []int64
	p.Range(0, 9, func(e Entry[int]) bool {
		got = append(got, e.Key)
		return len(got) < 3
	})
	if len(got) != 3 {
		t.Fatalf("expected sink to stop the range after 3 entries, got %d", len(got))
	}
}

func TestExtractAllEmptiesPartition(t *testing.T) {
	p := New[int]()
	for k := int64(0); k < 5; k++ {
		p.Insert(k, int(k*10))
	}

	entries := p.ExtractAll()
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Key != int64(i) || e.Value != i*10 {
			t.Fatalf("entry %d = %+v, want key %d value %d", i, e, i, i*10)
		}
	}

	if p.Size() != 0 {
		t.Fatalf("expected partition empty after ExtractAll, got size %d", p.Size())
	}
	if p.GetBounds().HasKeys {
		t.Fatal("expected HasKeys=false after ExtractAll")
	}
}

func TestClearResetsCountersAndBounds(t *testing.T) {
	p := New[int]()
	p.Insert(1, 1)
	p.Insert(2, 2)
	p.Remove(1)

	p.Clear()

	if p.Size() != 0 {
		t.Fatal("expected size 0 after Clear")
	}
	if p.GetBounds().HasKeys {
		t.Fatal("expected HasKeys=false after Clear")
	}
	stats := p.GetStats()
	if stats.Inserts != 0 {
		t.Fatalf("expected insert counter reset to 0 after Clear, got %d", stats.Inserts)
	}
	if stats.Removes != 0 {
		t.Fatalf("expected remove counter reset to 0 after Clear, got %d", stats.Removes)
	}
	if stats.Lookups != 0 {
		t.Fatalf("expected lookup counter reset to 0 after Clear, got %d", stats.Lookups)
	}
}

func TestConcurrentInsertsPreserveSize(t *testing.T) {
	p := New[int]()
	const n = 500

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(k int64) {
			defer wg.Done()
			p.Insert(k, int(k))
		}(int64(i))
	}
	wg.Wait()

	if p.Size() != n {
		t.Fatalf("expected size %d after concurrent inserts, got %d", n, p.Size())
	}
}
