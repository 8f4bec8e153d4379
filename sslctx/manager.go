package sslctx

import (
	"crypto/tls"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Manager is the per-listener TLS context manager (spec.md §3): a
// live, atomically-swappable ContextSet plus the collaborators needed
// to build new contexts during a no-match retry. One Manager serves
// exactly one VIP:PORT listener, the way wangle's SSLContextManager
// serves one VirtualEventBase-bound acceptor.
type Manager struct {
	live atomic.Pointer[ContextSet]

	rotateMu sync.Mutex

	buildOpts BuildOptions
	noMatch   NoMatchFunc
	strict    bool
}

// NewManager constructs an empty Manager. opts supplies the
// collaborators (session cache, ticket manager factory, client
// verifier) every BuildContext call during Reset/Add will use.
func NewManager(opts BuildOptions) *Manager {
	m := &Manager{buildOpts: opts, strict: opts.Strict}
	m.live.Store(newContextSet())
	return m
}

// SetNoMatchFunc installs the no-match hook (spec.md §4.4 step d),
// invoked at most once per handshake when SNI selection otherwise
// fails.
func (m *Manager) SetNoMatchFunc(f NoMatchFunc) {
	m.noMatch = f
}

// Reset builds a brand new ContextSet from cfg and atomically
// installs it, replacing whatever was live (spec.md §3, §8 testable
// property "atomic reload": in-flight handshakes keep using the old
// set's *tls.Config until they finish; new handshakes see the new
// set as of this call's return). Per spec.md §4.2 step 9, ticket
// seeds are carried over from the outgoing set unless the Manager's
// BuildOptions already specify them explicitly.
func (m *Manager) Reset(cfg Config) error {
	seeds := m.buildOpts.TicketSeeds
	if seeds.Empty() {
		if carried, ok := m.carryOverSeeds(); ok {
			seeds = carried
		}
	}

	next := newContextSet()
	var defaults int
	for _, entry := range cfg.Certificates {
		opts := m.buildOpts
		opts.TicketSeeds = seeds
		opts.CacheOptions = cfg.CacheOptions

		handle, err := BuildContext(entry, opts)
		if err != nil {
			return err
		}
		if handle.IsDefault {
			defaults++
			if defaults > 1 {
				return buildErr(KindDuplicateDefault, handle.Identity.CommonName, ErrDuplicateDefault)
			}
		}
		if err := next.insert(handle, m.strict); err != nil {
			return err
		}
	}

	m.live.Store(next)
	return nil
}

// carryOverSeeds scans the live set for the first context with a
// non-empty TicketManager.Seeds(), satisfying spec.md §8 testable
// property 4: a reload with no explicit new seeds must not break
// resumption of tickets minted before it.
func (m *Manager) carryOverSeeds() (TicketSeeds, bool) {
	for _, h := range m.live.Load().Contexts() {
		if h.Ticket == nil {
			continue
		}
		if seeds := h.Ticket.Seeds(); !seeds.Empty() {
			return seeds, true
		}
	}
	return TicketSeeds{}, false
}

// Add builds one new context and inserts it into a copy of the live
// set, then atomically swaps it in. Used both for incremental config
// changes and by the no-match hook's auto-provisioning retry path.
func (m *Manager) Add(entry CertEntry) (*ContextHandle, error) {
	cur := m.live.Load()

	opts := m.buildOpts
	if seeds, ok := m.carryOverSeeds(); ok {
		opts.TicketSeeds = seeds
	}

	handle, err := BuildContext(entry, opts)
	if err != nil {
		return nil, err
	}

	next := cloneContextSet(cur)
	if err := next.insert(handle, m.strict); err != nil {
		return nil, err
	}
	m.live.Store(next)
	return handle, nil
}

func cloneContextSet(cs *ContextSet) *ContextSet {
	next := newContextSet()
	for k, v := range cs.index {
		next.index[k] = v
	}
	next.contexts = append(next.contexts, cs.contexts...)
	next.defaultContext = cs.defaultContext
	next.defaultDomain = cs.defaultDomain
	return next
}

// GetConfigForClient is installed as the tls.Config.GetConfigForClient
// hook for the listener: it implements the two-pass SNI lookup of
// spec.md §4.4, inferring the requested crypto tier from the
// ClientHello's advertised signature schemes and calling the no-match
// hook at most once before falling back to NotFound.
func (m *Manager) GetConfigForClient(hello *tls.ClientHelloInfo) (*tls.Config, error) {
	handle, err := m.Select(hello.ServerName, inferTier(hello))
	if err != nil {
		return nil, err
	}
	return handle.TLSConfig, nil
}

// inferTier is spec.md §4.4 step 2: default to BestAvailable, downgrade
// to Weak if the ClientHello's advertised signature-algorithm list has
// no SHA-256-family entry, then force BestAvailable back if the
// ClientHello carries an SNI extension at all — presence of SNI is
// taken as proof of a modern-enough client even if it failed to
// advertise SHA-256 signature schemes. hello.ServerName is non-empty
// exactly when the client sent an SNI extension with a name, which is
// what this step means by "carries an SNI extension".
func inferTier(hello *tls.ClientHelloInfo) CryptoTier {
	tier := BestAvailable
	if !hasSHA256Family(hello.SignatureSchemes) {
		tier = Weak
	}
	if hello.ServerName != "" {
		tier = BestAvailable
	}
	return tier
}

func hasSHA256Family(schemes []tls.SignatureScheme) bool {
	for _, s := range schemes {
		switch s {
		case tls.PKCS1WithSHA256, tls.PSSWithSHA256, tls.ECDSAWithP256AndSHA256:
			return true
		}
	}
	return false
}

// Select runs the SNI selection algorithm directly, independent of a
// *tls.ClientHelloInfo — exposed so tests and callers building their
// own handshake plumbing can exercise it without a real handshake.
// It implements spec.md §4.4 steps 1-4 exactly: an unmatched non-empty
// SNI returns NotFound rather than silently falling back to the
// default context — "fall through to the default" is left to the
// caller's own policy, same as spec.md step 4 describes it.
func (m *Manager) Select(serverName string, tier CryptoTier) (*ContextHandle, error) {
	name := serverName
	if name == "" {
		// spec.md §4.4 step 1: an empty SNI (client offered none) is
		// substituted with the set's default domain.
		if cs := m.live.Load(); cs.defaultDomain != "" {
			name = string(cs.defaultDomain)
		}
	}

	if handle := m.lookup(name, tier); handle != nil {
		return handle, nil
	}

	if m.noMatch != nil && m.noMatch(m, serverName) {
		if handle := m.lookup(name, tier); handle != nil {
			return handle, nil
		}
	}

	log.Debug().Str("sni", serverName).Msg("sslctx: no matching context found")
	return nil, fmt.Errorf("%w: %s", ErrNotFound, serverName)
}

// lookup tries the requested tier first, then falls back to
// BestAvailable — the "tier-upgrade" pass of spec.md §4.4, needed
// because a Weak-tier client asking for a name that only has a
// BestAvailable certificate should still get it rather than fail.
func (m *Manager) lookup(name string, tier CryptoTier) *ContextHandle {
	norm, err := normalizeDomain(name)
	if err != nil {
		return nil
	}
	idx := m.live.Load().index
	if h := idx.lookup(DomainName(norm), tier); h != nil {
		return h
	}
	if tier != BestAvailable {
		return idx.lookup(DomainName(norm), BestAvailable)
	}
	return nil
}

func (m *Manager) defaultFallback() *ContextHandle {
	return m.live.Load().DefaultContext()
}

// DefaultContext exposes the live set's default, e.g. for a listener
// that wants to pre-bind a *tls.Config before any ClientHello arrives.
func (m *Manager) DefaultContext() *ContextHandle {
	return m.defaultFallback()
}

// RotateTicketKeys pushes a new ticket-seed generation to every live
// context's TicketManager, serialized under rotateMu so concurrent
// rotation calls can't interleave a partial update across contexts
// (spec.md §4.2 step 9, §8 testable property 4).
func (m *Manager) RotateTicketKeys(seeds TicketSeeds) {
	m.rotateMu.Lock()
	defer m.rotateMu.Unlock()

	for _, h := range m.live.Load().Contexts() {
		if h.Ticket != nil {
			h.Ticket.SetSeeds(seeds)
		}
	}
}

// Clear installs an empty ContextSet, e.g. before shutting a listener
// down.
func (m *Manager) Clear() {
	m.live.Store(newContextSet())
}
