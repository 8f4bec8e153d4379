package sslctx

import "testing"

func TestNameIndexExactBeatsWildcard(t *testing.T) {
	idx := newNameIndex()
	exact := &ContextHandle{}
	wildcard := &ContextHandle{}

	idx.insert(ContextKey{Name: "www.example.com", Tier: BestAvailable}, exact, true)
	idx.insert(ContextKey{Name: ".example.com", Tier: BestAvailable}, wildcard, true)

	got := idx.lookup("www.example.com", BestAvailable)
	if got != exact {
		t.Fatalf("lookup returned wildcard handle, want exact match")
	}

	got = idx.lookup("other.example.com", BestAvailable)
	if got != wildcard {
		t.Fatalf("lookup did not fall back to wildcard match")
	}
}

func TestNameIndexInsertNoOverwrite(t *testing.T) {
	idx := newNameIndex()
	first := &ContextHandle{}
	second := &ContextHandle{}

	key := ContextKey{Name: "example.com", Tier: BestAvailable}
	idx.insert(key, first, false)
	idx.insert(key, second, false)

	if idx[key] != first {
		t.Fatalf("no-overwrite insert replaced the existing handle")
	}
}

func TestNameIndexInsertOverwrite(t *testing.T) {
	idx := newNameIndex()
	first := &ContextHandle{}
	second := &ContextHandle{}

	key := ContextKey{Name: "example.com", Tier: BestAvailable}
	idx.insert(key, first, true)
	idx.insert(key, second, true)

	if idx[key] != second {
		t.Fatalf("overwrite insert kept the old handle")
	}
}

func TestNameIndexInsertSameHandleIsNoop(t *testing.T) {
	idx := newNameIndex()
	h := &ContextHandle{}

	key := ContextKey{Name: "example.com", Tier: BestAvailable}
	idx.insert(key, h, false)
	idx.insert(key, h, false)

	if len(idx) != 1 {
		t.Fatalf("got %d entries, want 1", len(idx))
	}
}

func TestNameIndexLookupSuffixRequiresDot(t *testing.T) {
	idx := newNameIndex()
	if got := idx.lookupSuffix("example", BestAvailable); got != nil {
		t.Fatalf("lookupSuffix matched a name with no dot")
	}
}
