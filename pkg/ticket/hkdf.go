// Package ticket provides a reference sslctx.TicketManager that
// derives crypto/tls session ticket keys from arbitrary-length seed
// material via HKDF, the way a deployment would feed in a rotated
// secret (e.g. pulled from a secrets manager) without that secret
// needing to already be exactly 32 bytes.
package ticket

import (
	"crypto/sha256"
	"crypto/tls"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/hkdf"

	"github.com/ngsec/sslctxmgr/sslctx"
)

const ticketKeyInfo = "sslctx session ticket key v1"

// HKDFTicketManager implements sslctx.TicketManager. It never stores
// raw ticket keys: SetSessionTicketKeys is called with keys freshly
// derived from the seeds every time Attach or SetSeeds runs, so the
// seeds themselves are the only secret that needs to be carried across
// a reload (sslctx.Manager does exactly that via TicketSeeds
// carry-over).
type HKDFTicketManager struct {
	mu    sync.Mutex
	cfg   *tls.Config
	seeds sslctx.TicketSeeds
}

// NewHKDFTicketManager returns a manager with no seeds and no attached
// config yet; pass it as the BuildOptions.NewTicketManager factory.
func NewHKDFTicketManager() *HKDFTicketManager {
	return &HKDFTicketManager{}
}

// Attach derives ticket keys from seeds (current, then new, then old,
// current-first so SetSessionTicketKeys' "first key encrypts new
// tickets" rule mints with the current generation) and installs them
// on cfg.
func (m *HKDFTicketManager) Attach(cfg *tls.Config, seeds sslctx.TicketSeeds) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cfg = cfg
	m.seeds = seeds
	return m.apply()
}

// Seeds returns the manager's current seed set.
func (m *HKDFTicketManager) Seeds() sslctx.TicketSeeds {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seeds
}

// SetSeeds pushes a new seed generation and re-derives the live
// config's ticket keys in place, without rebuilding the *tls.Config —
// the hook sslctx.Manager.RotateTicketKeys calls on every live
// context.
func (m *HKDFTicketManager) SetSeeds(seeds sslctx.TicketSeeds) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seeds = seeds
	if m.cfg != nil {
		_ = m.apply()
	}
}

func (m *HKDFTicketManager) apply() error {
	if m.seeds.Empty() {
		return nil
	}

	var ordered [][]byte
	ordered = append(ordered, m.seeds.Current...)
	ordered = append(ordered, m.seeds.New...)
	ordered = append(ordered, m.seeds.Old...)

	keys := make([][32]byte, 0, len(ordered))
	for _, seed := range ordered {
		key, err := deriveKey(seed)
		if err != nil {
			return err
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil
	}
	m.cfg.SetSessionTicketKeys(keys)
	return nil
}

func deriveKey(seed []byte) ([32]byte, error) {
	var key [32]byte
	r := hkdf.New(sha256.New, seed, nil, []byte(ticketKeyInfo))
	if _, err := io.ReadFull(r, key[:]); err != nil {
		return key, fmt.Errorf("ticket: deriving key: %w", err)
	}
	return key, nil
}
