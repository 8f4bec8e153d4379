package sslctx

import (
	"errors"
	"testing"
)

func TestBuildContextBasic(t *testing.T) {
	cf := genCertFiles(t, "www.example.com", []string{"www.example.com", "example.com"}, false)
	entry := CertEntry{
		Certificates:      []CertFile{cf},
		IsLocalPrivateKey: true,
		SSLCiphers:        []string{"ECDHE-RSA-AES128-GCM-SHA256"},
	}

	handle, err := BuildContext(entry, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildContext failed: %v", err)
	}
	if handle.Identity.CommonName != "www.example.com" {
		t.Fatalf("unexpected CN: %s", handle.Identity.CommonName)
	}
	if handle.Identity.Tier != BestAvailable {
		t.Fatalf("expected BestAvailable tier, got %s", handle.Identity.Tier)
	}
	if len(handle.TLSConfig.Certificates) != 1 {
		t.Fatalf("expected one certificate in tls.Config, got %d", len(handle.TLSConfig.Certificates))
	}
}

func TestBuildContextWeakTier(t *testing.T) {
	cf := genCertFiles(t, "legacy.example.com", nil, true)
	entry := CertEntry{
		Certificates:      []CertFile{cf},
		IsLocalPrivateKey: true,
	}

	handle, err := BuildContext(entry, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildContext failed: %v", err)
	}
	if handle.Identity.Tier != Weak {
		t.Fatalf("expected Weak tier for SHA1WithRSA cert, got %s", handle.Identity.Tier)
	}
}

func TestBuildContextRejectsUnknownCipher(t *testing.T) {
	cf := genCertFiles(t, "www.example.com", nil, false)
	entry := CertEntry{
		Certificates:      []CertFile{cf},
		IsLocalPrivateKey: true,
		SSLCiphers:        []string{"NOT-A-REAL-CIPHER"},
	}

	if _, err := BuildContext(entry, BuildOptions{}); err == nil {
		t.Fatalf("expected error for unresolvable cipher name")
	}
}

func TestBuildContextRejectsUnknownCurve(t *testing.T) {
	cf := genCertFiles(t, "www.example.com", nil, false)
	entry := CertEntry{
		Certificates:      []CertFile{cf},
		IsLocalPrivateKey: true,
		ECCCurveName:      "not-a-curve",
	}

	if _, err := BuildContext(entry, BuildOptions{}); err == nil {
		t.Fatalf("expected error for unresolvable curve name")
	}
}

func TestBuildContextNoOffloadNoLocalKeyFails(t *testing.T) {
	cf := genCertFiles(t, "www.example.com", nil, false)
	entry := CertEntry{
		Certificates:      []CertFile{cf},
		IsLocalPrivateKey: false,
		KeyOffloadParams:  KeyOffloadParams{OffloadType: "external"},
	}

	if _, err := BuildContext(entry, BuildOptions{}); err == nil {
		t.Fatalf("expected ErrMissingFeature when offload requested but no provider configured")
	}
}

func TestBuildContextRejectsEmptyEntry(t *testing.T) {
	if _, err := BuildContext(CertEntry{}, BuildOptions{}); err == nil {
		t.Fatalf("expected error for entry with no certificates")
	}
}

func TestBuildContextRejectsMismatchedIdentityAcrossCerts(t *testing.T) {
	first := genCertFiles(t, "www.example.com", nil, false)
	second := genCertFiles(t, "different.example.net", nil, false)
	entry := CertEntry{
		Certificates:      []CertFile{first, second},
		IsLocalPrivateKey: true,
	}

	_, err := BuildContext(entry, BuildOptions{})
	if err == nil {
		t.Fatalf("expected IdentityMismatch for certs with different identities")
	}
	if !errors.Is(err, ErrIdentityMismatch) {
		t.Fatalf("expected ErrIdentityMismatch, got %v", err)
	}
}
