// Package sessioncache provides a reference sslctx.SessionCacheProvider
// backed by an in-process bounded LRU, optionally spilling to an
// external cache for cross-process resumption.
package sessioncache

import (
	"crypto/tls"
	"strconv"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/ngsec/sslctxmgr/sslctx"
)

// entry is what's stored per session ticket: the encrypted ticket plus
// the uuid tag that was logged when it was wrapped, for tracing.
type entry struct {
	id      string
	session []byte
}

// LRUSessionCache implements sslctx.SessionCacheProvider using a
// bounded in-process LRU of encrypted session tickets (Go 1.21's
// UnwrapSession/WrapSession hooks), the native replacement for
// wangle's SSLSessionCacheManager attach() step. Every ticket is
// encrypted and authenticated through cfg.EncryptTicket/DecryptTicket
// before it is ever cached or handed back to crypto/tls — WrapSession's
// return value is exposed on the wire in plaintext unless the
// application encrypts it itself (crypto/tls.Config.WrapSession docs),
// so this cache never stores or returns a raw tls.SessionState.Bytes().
type LRUSessionCache struct {
	mu        sync.Mutex
	cfg       *tls.Config
	cache     *lru.Cache[string, entry]
	external  sslctx.ExternalCache
	vip       string
	primaryCN string
}

// NewLRUSessionCache constructs a provider; the cache is sized per
// CacheOptions.MaxEntries on Attach, since that's only known once a
// context is being built.
func NewLRUSessionCache() *LRUSessionCache {
	return &LRUSessionCache{}
}

// Attach sizes the LRU from opts.MaxEntries (falling back to a sane
// default when unset) and wires WrapSession/UnwrapSession onto cfg.
func (c *LRUSessionCache) Attach(cfg *tls.Config, opts sslctx.CacheOptions, vipAddress string, external sslctx.ExternalCache, primaryCN string) error {
	size := opts.MaxEntries
	if size <= 0 {
		size = 20000
	}
	cache, err := lru.New[string, entry](size)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.cfg = cfg
	c.cache = cache
	c.external = external
	c.vip = vipAddress
	c.primaryCN = primaryCN
	c.mu.Unlock()

	cfg.WrapSession = c.wrapSession
	cfg.UnwrapSession = c.unwrapSession
	return nil
}

// wrapSession is the Go 1.21+ replacement for the classic
// "new_session_cb": it encrypts the session state under the config's
// ticket keys via EncryptTicket (the same keys HKDFTicketManager
// rotates into cfg via SetSessionTicketKeys) before handing it back to
// be embedded in the ticket the client stores, and also caches a copy
// keyed by server name and TLS version (sessionKey), locally and in the
// cross-process ExternalCache.
func (c *LRUSessionCache) wrapSession(cs tls.ConnectionState, ss *tls.SessionState) ([]byte, error) {
	c.mu.Lock()
	cfg := c.cfg
	c.mu.Unlock()

	encrypted, err := cfg.EncryptTicket(cs, ss)
	if err != nil {
		return nil, err
	}

	key := sessionKey(cs)
	tag := uuid.New().String()
	c.mu.Lock()
	if c.cache != nil {
		c.cache.Add(key, entry{id: tag, session: encrypted})
	}
	ext := c.external
	vip := c.vip
	cn := c.primaryCN
	c.mu.Unlock()

	log.Debug().Str("entry", tag).Str("vip", vip).Str("cn", cn).Msg("sessioncache: wrapped new session")

	if ext != nil {
		ext.Set(key, encrypted)
	}
	return encrypted, nil
}

// unwrapSession is the companion read side: crypto/tls hands back
// whatever wrapSession produced, so this decrypts and authenticates it
// through DecryptTicket rather than trusting the bytes directly. The
// local/external cache lookup exists for deployments that want an
// ExternalCache consulted even when the ticket bytes came from
// elsewhere (e.g. an LB health check warming the cache); whatever is
// found there is still an EncryptTicket-produced blob, so it still
// goes through DecryptTicket.
func (c *LRUSessionCache) unwrapSession(identity []byte, cs tls.ConnectionState) (*tls.SessionState, error) {
	c.mu.Lock()
	cfg := c.cfg
	c.mu.Unlock()

	if len(identity) == 0 {
		key := sessionKey(cs)
		c.mu.Lock()
		var cached bool
		if c.cache != nil {
			if e, ok := c.cache.Get(key); ok {
				identity = e.session
				cached = true
			}
		}
		ext := c.external
		c.mu.Unlock()

		if !cached && ext != nil {
			if state, ok := ext.Get(key); ok {
				identity = state
			}
		}
		if len(identity) == 0 {
			return nil, nil
		}
	}
	return cfg.DecryptTicket(identity, cs)
}

func sessionKey(cs tls.ConnectionState) string {
	return cs.ServerName + "|" + strconv.Itoa(int(cs.Version))
}
