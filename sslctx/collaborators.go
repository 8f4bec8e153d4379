package sslctx

import (
	"crypto/tls"
	"crypto/x509"
)

// TicketSeeds carries the three ordered seed generations used for TLS
// session ticket encryption: Current mints new tickets, Old still
// decrypts tickets minted before the last rotation, New pre-positions
// the next generation (spec.md §3).
type TicketSeeds struct {
	Old     [][]byte
	Current [][]byte
	New     [][]byte
}

// Empty reports whether no seed has ever been set, used by the Manager
// to decide whether ticket-seed carry-over found anything to carry.
func (s TicketSeeds) Empty() bool {
	return len(s.Old) == 0 && len(s.Current) == 0 && len(s.New) == 0
}

// Equal does an order-sensitive byte comparison across all three
// generations, used by tests asserting carry-over preserved seeds
// exactly (spec.md §8 testable property 4).
func (s TicketSeeds) Equal(o TicketSeeds) bool {
	return equalByteLists(s.Old, o.Old) &&
		equalByteLists(s.Current, o.Current) &&
		equalByteLists(s.New, o.New)
}

func equalByteLists(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if string(a[i]) != string(b[i]) {
			return false
		}
	}
	return true
}

// TicketManager is the external collaborator that owns session-ticket
// key material for one context (spec.md §6: "ticket manager — attach,
// get_seeds, set_seeds"). The core only wires seeds in and reads them
// back for carry-over; it never generates or stores keys itself.
type TicketManager interface {
	// Attach binds the manager to cfg (e.g. via
	// cfg.SetSessionTicketKeys) using the given starting seeds.
	Attach(cfg *tls.Config, seeds TicketSeeds) error
	// Seeds returns the manager's current (old, current, new) seeds.
	Seeds() TicketSeeds
	// SetSeeds pushes a new seed generation in place, without rebuilding
	// the bound *tls.Config. Used by Manager.RotateTicketKeys.
	SetSeeds(seeds TicketSeeds)
}

// CacheOptions configures the session-resumption cache a
// SessionCacheProvider attaches to a context. Field names follow
// wangle's SSLCacheOptions.
type CacheOptions struct {
	MaxEntries   int
	SkipIfInUse  bool
	InitialCapacity int
}

// ExternalCache is an optional out-of-process cache (e.g. shared across
// multiple listener processes) a SessionCacheProvider may additionally
// consult; spec.md §6 passes it through to the provider untouched.
type ExternalCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// SessionCacheProvider is the external collaborator that wires a
// session-resumption cache into a context (spec.md §6: "session cache
// provider — attach(context, cache_options, vip_address, external_cache,
// primary_cn, ...)").
type SessionCacheProvider interface {
	Attach(cfg *tls.Config, opts CacheOptions, vipAddress string, external ExternalCache, primaryCN string) error
}

// ClientCertVerifier lets a caller override per-connection client
// certificate verification; when registered on the Manager it wins over
// a context's configured ClientVerification mode (spec.md §4.2 step 6).
type ClientCertVerifier interface {
	VerifyPeerCertificate(rawCerts [][]byte, verifiedChains [][]*x509.Certificate) error
}

// NoMatchFunc is invoked at most once per ClientHello when SNI selection
// finds no context for the requested name (spec.md §4.4 step d). It may
// call Manager.Add to provision a new certificate and return true to
// request a retry; returning false leaves the handshake at NotFound.
type NoMatchFunc func(mgr *Manager, serverName string) bool
