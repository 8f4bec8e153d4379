package sslctx

import (
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// ContextHandle is a fully configured TLS server context: one
// certificate identity's *tls.Config plus its extracted identity and
// ticket-manager binding. Go's garbage collector plays the role
// spec.md §9 assigns to reference counting — a handle stays alive for
// as long as any in-flight handshake still holds the *tls.Config
// returned from GetConfigForClient, and is collected once nothing
// references it, with no explicit refcount required.
type ContextHandle struct {
	TLSConfig *tls.Config
	Identity  Identity
	IsDefault bool
	Ticket    TicketManager
}

// ContextSet is the atomic unit of replacement (spec.md §3): an ordered
// list of contexts, the designated default, its domain, and the Name
// Index built from every context's identities.
type ContextSet struct {
	contexts       []*ContextHandle
	defaultContext *ContextHandle
	defaultDomain  DomainName
	index          nameIndex
}

func newContextSet() *ContextSet {
	return &ContextSet{index: newNameIndex()}
}

// Contexts returns the ordered list of built contexts, used for bulk
// operations like ticket-key rotation.
func (cs *ContextSet) Contexts() []*ContextHandle {
	out := make([]*ContextHandle, len(cs.contexts))
	copy(out, cs.contexts)
	return out
}

// DefaultContext returns the context installed with isDefault, or nil
// if the set has none yet (only legal mid-construction).
func (cs *ContextSet) DefaultContext() *ContextHandle {
	return cs.defaultContext
}

// insert implements spec.md §4.3: star-only-CN special case, wildcard
// normalization, tier-scoped overwrite/no-overwrite insertion, and
// default bookkeeping. strict controls whether a bad wildcard name is
// fatal or merely logged and skipped.
func (cs *ContextSet) insert(h *ContextHandle, strict bool) error {
	cn := h.Identity.CommonName

	// Star-only CN: indexed nowhere, must be the default.
	if cn == "*" {
		if !h.IsDefault {
			return buildErr(KindBadWildcard, cn, fmt.Errorf("%w: bare '*' CN is not the default", ErrBadWildcard))
		}
		cs.defaultContext = h
		cs.contexts = append(cs.contexts, h)
		return nil
	}

	if err := cs.insertName(cn, h, strict); err != nil {
		return err
	}
	for _, san := range h.Identity.SubjectAltNames {
		if san == "" {
			continue
		}
		if err := cs.insertName(san, h, strict); err != nil {
			return err
		}
	}

	if h.IsDefault {
		norm, err := normalizeDomain(cn)
		if err != nil {
			return buildErr(KindIdentityMissing, cn, err)
		}
		cs.defaultDomain = DomainName(norm)
		cs.defaultContext = h
	}

	cs.contexts = append(cs.contexts, h)
	return nil
}

// insertName is insertSSLCtxByDomainName/insertSSLCtxByDomainNameImpl in
// wangle: normalize wildcard form, reject disallowed '*' placement and
// bare '.', then insert at the handle's tier (overwrite) and, if Weak,
// at BestAvailable too (no-overwrite fallback).
func (cs *ContextSet) insertName(raw string, h *ContextHandle, strict bool) error {
	name, err := normalizeDomain(raw)
	if err != nil {
		return cs.wildcardErr(raw, err, strict)
	}

	if strings.HasPrefix(name, "*.") {
		name = name[1:] // keep the leading dot: wildcard storage form
	} else if strings.Contains(name, "*") {
		return cs.wildcardErr(raw, fmt.Errorf("%w: '*' only allowed as a leading \"*.\" label", ErrBadWildcard), strict)
	}

	if name == "." {
		return cs.wildcardErr(raw, fmt.Errorf("%w: name is bare '.' after stripping wildcard", ErrBadWildcard), strict)
	}

	if strings.HasPrefix(name, ".") && MinWildcardLabels > 0 {
		if labelCount(name) < MinWildcardLabels || !validDNSSuffix(name) {
			return cs.wildcardErr(raw, fmt.Errorf("%w: wildcard suffix %q has too few labels", ErrBadWildcard, name), strict)
		}
	}

	key := ContextKey{Name: DomainName(name), Tier: h.Identity.Tier}
	cs.index.insert(key, h, true)

	if h.Identity.Tier != BestAvailable {
		fallback := ContextKey{Name: DomainName(name), Tier: BestAvailable}
		cs.index.insert(fallback, h, false)
	}

	return nil
}

func (cs *ContextSet) wildcardErr(raw string, cause error, strict bool) error {
	if strict {
		return buildErr(KindBadWildcard, raw, cause)
	}
	log.Warn().Str("name", raw).Err(cause).Msg("sslctx: skipping invalid name in non-strict mode")
	return nil
}
