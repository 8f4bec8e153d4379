package sslctx

import (
	"crypto/x509"
	"sort"
)

// Identity is the result of the Identity Extractor (spec.md §4.1): the
// Common Name, the canonicalized and sorted Subject Alternative DNS
// names, and the certificate's crypto tier.
type Identity struct {
	CommonName      string
	SubjectAltNames []string
	Tier            CryptoTier
}

// ExtractIdentity reads the Common Name, SAN DNS names, and signature
// tier out of a parsed certificate. It fails with ErrIdentityMissing if
// no Common Name is present, mirroring wangle's
// "Cannot get CN for X509 <path>" check.
func ExtractIdentity(cert *x509.Certificate) (Identity, error) {
	cn := cert.Subject.CommonName
	if cn == "" {
		return Identity{}, buildErr(KindIdentityMissing, "", ErrIdentityMissing)
	}

	sans := make([]string, len(cert.DNSNames))
	for i, n := range cert.DNSNames {
		norm, err := normalizeDomain(n)
		if err != nil {
			continue
		}
		sans[i] = norm
	}
	sort.Strings(sans)

	return Identity{
		CommonName:      cn,
		SubjectAltNames: sans,
		Tier:            classifyTier(cert),
	}, nil
}

// classifyTier is Weak iff the certificate was signed with RSA-SHA1 or
// ECDSA-SHA1 — the same pair wangle checks via
// X509_get_signature_nid() against NID_sha1WithRSAEncryption and
// NID_ecdsa_with_SHA1. DSA-SHA1 is included too, rounding out the
// SHA-1 family, since the intent ("anything signed with a broken hash is
// weak") is the same.
func classifyTier(cert *x509.Certificate) CryptoTier {
	switch cert.SignatureAlgorithm {
	case x509.SHA1WithRSA, x509.ECDSAWithSHA1, x509.DSAWithSHA1:
		return Weak
	default:
		return BestAvailable
	}
}

// sameIdentitySet reports whether two SAN lists are identical after
// sorting, used by the Context Builder to enforce that every certificate
// in a multi-cert entry shares one identity (spec.md §4.2 step 1).
func sameIdentitySet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
