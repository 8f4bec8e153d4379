package ticket

import (
	"crypto/tls"
	"testing"

	"github.com/ngsec/sslctxmgr/sslctx"
)

func TestHKDFTicketManagerAttachRecordsSeeds(t *testing.T) {
	m := NewHKDFTicketManager()
	cfg := &tls.Config{}
	seeds := sslctx.TicketSeeds{Current: [][]byte{[]byte("generation-1-secret")}}

	if err := m.Attach(cfg, seeds); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if !m.Seeds().Equal(seeds) {
		t.Fatalf("Seeds() did not return what was attached")
	}
}

func TestHKDFTicketManagerAttachEmptySeedsIsNoop(t *testing.T) {
	m := NewHKDFTicketManager()
	cfg := &tls.Config{}

	if err := m.Attach(cfg, sslctx.TicketSeeds{}); err != nil {
		t.Fatalf("Attach with empty seeds should not error: %v", err)
	}
}

func TestHKDFTicketManagerSetSeedsReDerivesWithoutNewConfig(t *testing.T) {
	m := NewHKDFTicketManager()
	cfg := &tls.Config{}
	if err := m.Attach(cfg, sslctx.TicketSeeds{Current: [][]byte{[]byte("gen-1")}}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	next := sslctx.TicketSeeds{Old: [][]byte{[]byte("gen-1")}, Current: [][]byte{[]byte("gen-2")}}
	m.SetSeeds(next)

	if !m.Seeds().Equal(next) {
		t.Fatalf("SetSeeds did not update the stored seed set")
	}
}

func TestHKDFTicketManagerSetSeedsBeforeAttachDoesNotPanic(t *testing.T) {
	m := NewHKDFTicketManager()
	m.SetSeeds(sslctx.TicketSeeds{Current: [][]byte{[]byte("gen-1")}})
	if m.Seeds().Empty() {
		t.Fatalf("expected seeds to be recorded even before Attach")
	}
}

func TestDeriveKeyIsDeterministicAndSeedDependent(t *testing.T) {
	a, err := deriveKey([]byte("seed-a"))
	if err != nil {
		t.Fatalf("deriveKey failed: %v", err)
	}
	aAgain, err := deriveKey([]byte("seed-a"))
	if err != nil {
		t.Fatalf("deriveKey failed: %v", err)
	}
	if a != aAgain {
		t.Fatalf("deriveKey is not deterministic for the same seed")
	}

	b, err := deriveKey([]byte("seed-b"))
	if err != nil {
		t.Fatalf("deriveKey failed: %v", err)
	}
	if a == b {
		t.Fatalf("deriveKey produced identical keys for different seeds")
	}
}

func TestHKDFTicketManagerAttachWithAllThreeGenerations(t *testing.T) {
	m := NewHKDFTicketManager()
	cfg := &tls.Config{}
	seeds := sslctx.TicketSeeds{
		Old:     [][]byte{[]byte("old-seed")},
		Current: [][]byte{[]byte("current-seed")},
		New:     [][]byte{[]byte("new-seed")},
	}
	if err := m.Attach(cfg, seeds); err != nil {
		t.Fatalf("Attach with all three generations failed: %v", err)
	}
	if cfg.SessionTicketKey != [32]byte{} {
		t.Fatalf("SetSessionTicketKeys should not touch the legacy single-key field")
	}
}
