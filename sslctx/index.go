package sslctx

import "strings"

// ContextKey is the sole lookup key of the Name Index: a normalized
// domain name paired with the crypto tier it was indexed at.
type ContextKey struct {
	Name DomainName
	Tier CryptoTier
}

// nameIndex maps a ContextKey to the handle serving it. Multiple keys
// may point at the same handle: a certificate with N SANs produces N
// entries sharing one handle, and a Weak certificate additionally
// occupies its BestAvailable key as a fallback (spec.md §4.3).
type nameIndex map[ContextKey]*ContextHandle

func newNameIndex() nameIndex {
	return make(nameIndex)
}

// lookupExact is getSSLCtxByExactDomain in wangle: a direct key hit.
func (idx nameIndex) lookupExact(name DomainName, tier CryptoTier) *ContextHandle {
	return idx[ContextKey{Name: name, Tier: tier}]
}

// lookupSuffix is getSSLCtxBySuffix in wangle: take the portion of name
// from its first '.' onward (dot included) and look that up as a
// wildcard key. Only ever matches a single label of wildcard, since
// storage form keeps exactly one leading dot.
func (idx nameIndex) lookupSuffix(name DomainName, tier CryptoTier) *ContextHandle {
	s := string(name)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return nil
	}
	return idx[ContextKey{Name: DomainName(s[dot:]), Tier: tier}]
}

// lookup tries an exact match, then a suffix (wildcard) match, at the
// given tier. Exact always beats wildcard (spec.md §4.4).
func (idx nameIndex) lookup(name DomainName, tier CryptoTier) *ContextHandle {
	if h := idx.lookupExact(name, tier); h != nil {
		return h
	}
	return idx.lookupSuffix(name, tier)
}

// insert applies wangle's insertIntoDnMap semantics: if the key is
// empty, always insert; if it already points at the same handle, it's a
// silent no-op (spec.md §4.3 rule 5); otherwise apply/withhold the
// caller's overwrite policy.
func (idx nameIndex) insert(key ContextKey, handle *ContextHandle, overwrite bool) {
	existing, ok := idx[key]
	if !ok {
		idx[key] = handle
		return
	}
	if existing == handle {
		return
	}
	if overwrite {
		idx[key] = handle
	}
}

// names returns the set of distinct DomainName keys in the index,
// regardless of tier.
func (idx nameIndex) names() map[DomainName]struct{} {
	out := make(map[DomainName]struct{}, len(idx))
	for k := range idx {
		out[k.Name] = struct{}{}
	}
	return out
}
