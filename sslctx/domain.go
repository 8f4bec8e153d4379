// Package sslctx implements a per-listener TLS context manager: it
// indexes a set of pre-built *tls.Config "contexts" by certificate
// identity and selects the right one for each handshake from the
// client's SNI, the way wangle's SSLContextManager does for OpenSSL.
package sslctx

import (
	"strings"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

// DomainName is a case-normalized DNS label sequence, stored in the
// wildcard "leading-dot" form (".example.com") when it originated from a
// "*.example.com" identity. Equality is byte equality after normalization.
type DomainName string

// CryptoTier classifies the signature strength of a certificate, used as
// a secondary selection axis alongside the domain name. Treated as a
// closed two-point lattice: Weak < BestAvailable.
type CryptoTier uint8

const (
	// BestAvailable is any signature algorithm that isn't in the SHA-1
	// family. It is the default and the tier new selections prefer.
	BestAvailable CryptoTier = iota
	// Weak marks RSA-SHA1 or ECDSA-SHA1 signed certificates.
	Weak
)

func (t CryptoTier) String() string {
	if t == Weak {
		return "weak"
	}
	return "best-available"
}

// MinWildcardLabels is the floor on the number of labels that must
// follow a wildcard's leading dot for the wildcard to be accepted at
// build time. Zero (the default) reproduces the original's permissive
// behavior, where "*.com" is a legal (if useless) SAN. Implementations
// that want the defensive floor mentioned in spec.md's Open Questions
// can raise this package variable; it applies to every ContextSet
// insert in the process.
var MinWildcardLabels = 0

// normalizeDomain lowercases and Punycode-normalizes a raw CN/SAN value
// using the IDNA "Lookup" profile (the profile intended for resolving a
// name a client handed you, as opposed to registering one). A name that
// fails IDNA normalization falls back to a plain ASCII lowercase so that
// legacy non-IDNA-clean certificates (still common in internal CAs)
// don't hard-fail the whole build.
func normalizeDomain(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errEmptyName
	}
	ascii, err := idna.Lookup.ToASCII(raw)
	if err != nil {
		return strings.ToLower(raw), nil
	}
	return strings.ToLower(ascii), nil
}

// labelCount returns the number of dot-separated labels in a wildcard's
// suffix, e.g. labelCount(".example.com") == 2.
func labelCount(wildcardSuffix string) int {
	trimmed := strings.TrimPrefix(wildcardSuffix, ".")
	if trimmed == "" {
		return 0
	}
	return strings.Count(trimmed, ".") + 1
}

// validDNSSuffix reports whether the wildcard suffix (without its
// leading dot) looks like a real DNS name per RFC 1035 label rules. Used
// only when MinWildcardLabels > 0 requires deeper validation than a bare
// label count.
func validDNSSuffix(wildcardSuffix string) bool {
	trimmed := strings.TrimPrefix(wildcardSuffix, ".")
	if trimmed == "" {
		return true
	}
	_, ok := dns.IsDomainName(trimmed)
	return ok
}

// IsDomainName reports whether dns.IsDomainName accepts s; exported so
// reference NoMatchFunc implementations can validate a raw SNI string
// before trying to provision a certificate for it.
func IsDomainName(s string) bool {
	_, ok := dns.IsDomainName(s)
	return ok
}
