package sessioncache

import (
	"crypto/tls"
	"testing"

	"github.com/ngsec/sslctxmgr/sslctx"
)

type fakeExternalCache struct {
	data map[string][]byte
}

func newFakeExternalCache() *fakeExternalCache {
	return &fakeExternalCache{data: map[string][]byte{}}
}

func (f *fakeExternalCache) Get(key string) ([]byte, bool) {
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeExternalCache) Set(key string, value []byte) {
	f.data[key] = value
}

var _ sslctx.ExternalCache = (*fakeExternalCache)(nil)

func TestAttachWiresWrapAndUnwrapHooks(t *testing.T) {
	c := NewLRUSessionCache()
	cfg := &tls.Config{}

	if err := c.Attach(cfg, sslctx.CacheOptions{}, "10.0.0.1", nil, "www.example.com"); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if cfg.WrapSession == nil || cfg.UnwrapSession == nil {
		t.Fatalf("Attach did not wire WrapSession/UnwrapSession onto the config")
	}
}

func TestAttachDefaultsMaxEntriesWhenUnset(t *testing.T) {
	c := NewLRUSessionCache()
	cfg := &tls.Config{}
	if err := c.Attach(cfg, sslctx.CacheOptions{MaxEntries: 0}, "", nil, ""); err != nil {
		t.Fatalf("Attach with zero MaxEntries should fall back to a default size: %v", err)
	}
}

func TestUnwrapSessionEmptyIdentityNoCacheReturnsNil(t *testing.T) {
	c := NewLRUSessionCache()
	cfg := &tls.Config{}
	if err := c.Attach(cfg, sslctx.CacheOptions{}, "", nil, ""); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	state, err := c.unwrapSession(nil, tls.ConnectionState{ServerName: "www.example.com", Version: tls.VersionTLS13})
	if err != nil {
		t.Fatalf("unexpected error on an unpopulated cache: %v", err)
	}
	if state != nil {
		t.Fatalf("expected a nil session on a cache miss, got %v", state)
	}
}

func TestUnwrapSessionFallsBackToExternalCacheOnLocalMiss(t *testing.T) {
	c := NewLRUSessionCache()
	cfg := &tls.Config{}
	ext := newFakeExternalCache()
	if err := c.Attach(cfg, sslctx.CacheOptions{}, "", ext, "www.example.com"); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	cs := tls.ConnectionState{ServerName: "www.example.com", Version: tls.VersionTLS13}
	ext.Set(sessionKey(cs), []byte("not-a-real-encrypted-ticket"))

	// The external cache is consulted on a local miss; whatever it
	// returns still has to pass DecryptTicket's AES-CTR+HMAC check, so
	// garbage bytes that were never produced by EncryptTicket come back
	// as a nil session rather than a decrypted (and therefore forged)
	// one.
	state, err := c.unwrapSession(nil, cs)
	if err != nil {
		t.Fatalf("DecryptTicket reports undecryptable tickets via a nil session, not an error: %v", err)
	}
	if state != nil {
		t.Fatalf("expected a nil session for an unencrypted/forged external cache entry")
	}
}

func TestUnwrapSessionWithNonEmptyIdentityRejectsForgedTicket(t *testing.T) {
	c := NewLRUSessionCache()
	cfg := &tls.Config{}
	if err := c.Attach(cfg, sslctx.CacheOptions{}, "", nil, ""); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	state, err := c.unwrapSession([]byte("not-a-real-encrypted-ticket"), tls.ConnectionState{})
	if err != nil {
		t.Fatalf("DecryptTicket reports undecryptable tickets via a nil session, not an error: %v", err)
	}
	if state != nil {
		t.Fatalf("expected a nil session for identity bytes that don't decrypt/authenticate")
	}
}

func TestUnwrapSessionRejectsRawSessionStateBytes(t *testing.T) {
	c := NewLRUSessionCache()
	cfg := &tls.Config{}
	if err := c.Attach(cfg, sslctx.CacheOptions{}, "", nil, ""); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	// unwrapSession goes through cfg.DecryptTicket, so bytes framed like
	// a raw, unencrypted SessionState must fail authentication on the
	// read side rather than be parsed as a session.
	cs := tls.ConnectionState{ServerName: "www.example.com", Version: tls.VersionTLS13}
	forged := []byte{0x03, 0x04, 0x01, 0x00, 0x00} // looks like a raw SessionState prefix, not a real encrypted ticket
	state, err := c.unwrapSession(forged, cs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != nil {
		t.Fatalf("a hand-crafted plaintext SessionState must not be accepted as a valid encrypted ticket")
	}
}

func TestSessionKeyIncludesServerNameAndVersion(t *testing.T) {
	a := sessionKey(tls.ConnectionState{ServerName: "a.example.com", Version: tls.VersionTLS13})
	b := sessionKey(tls.ConnectionState{ServerName: "b.example.com", Version: tls.VersionTLS13})
	c := sessionKey(tls.ConnectionState{ServerName: "a.example.com", Version: tls.VersionTLS12})

	if a == b {
		t.Fatalf("sessionKey should differ across server names")
	}
	if a == c {
		t.Fatalf("sessionKey should differ across TLS versions")
	}
}
