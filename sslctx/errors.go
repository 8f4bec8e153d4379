package sslctx

import "errors"

// Sentinel error kinds per spec.md §7. Build-time failures wrap one of
// these with errors.Is-compatible %w chains so callers can branch on
// kind without parsing messages.
var (
	errEmptyName = errors.New("sslctx: empty domain name")

	// ErrCertLoad: a certificate file was unreadable or malformed.
	ErrCertLoad = errors.New("sslctx: certificate load failed")
	// ErrKeyLoad: a private key was missing, unreadable, wrongly
	// passworded, or did not match its certificate.
	ErrKeyLoad = errors.New("sslctx: private key load failed")
	// ErrIdentityMismatch: a multi-certificate entry disagreed on CN or
	// SAN list between its certificates.
	ErrIdentityMismatch = errors.New("sslctx: certificate identity mismatch")
	// ErrIdentityMissing: no Common Name could be extracted.
	ErrIdentityMissing = errors.New("sslctx: certificate has no common name")
	// ErrBadWildcard: a '*' appeared in a disallowed position, or a name
	// was a bare '.' after stripping a wildcard prefix.
	ErrBadWildcard = errors.New("sslctx: invalid wildcard name")
	// ErrDuplicateDefault: more than one config entry was marked default.
	ErrDuplicateDefault = errors.New("sslctx: more than one default context")
	// ErrUnknownCurve: the configured ECDHE curve name doesn't resolve.
	ErrUnknownCurve = errors.New("sslctx: unknown ECDHE curve name")
	// ErrInvalidCipherList: a configured cipher name doesn't resolve, or
	// the resulting list was rejected.
	ErrInvalidCipherList = errors.New("sslctx: invalid cipher list")
	// ErrMissingFeature: the configuration requires a feature this
	// build's TLS stack cannot provide (see DESIGN.md for the specific
	// stdlib crypto/tls gaps this covers).
	ErrMissingFeature = errors.New("sslctx: required TLS feature unavailable")

	// ErrNotFound: Select found no context for the requested name, even
	// after the no-match hook ran (spec.md §6: select(...) -> ContextHandle
	// | NotFound; §7: "handshake-time failures (no SNI match) are not
	// errors of the core"). Deliberately not a Kind/BuildError: it isn't a
	// certificate-build defect, it's the routine "nobody serves this name"
	// outcome of an ordinary handshake, and must stay distinguishable from
	// ErrIdentityMissing so a caller checking for a broken cert config
	// doesn't also trip on every unmatched SNI.
	ErrNotFound = errors.New("sslctx: no context found for server name")
)

// BuildError annotates one of the sentinel kinds above with the
// offending path/name, mirroring wangle's "error loading SSL certificate
// <path>: <cause>" messages.
type BuildError struct {
	Kind Kind
	Path string
	Err  error
}

// Kind names one of the error sentinels above, for callers that want to
// switch on it without an errors.Is chain per sentinel.
type Kind string

const (
	KindCertLoad          Kind = "cert_load"
	KindKeyLoad           Kind = "key_load"
	KindIdentityMismatch  Kind = "identity_mismatch"
	KindIdentityMissing   Kind = "identity_missing"
	KindBadWildcard       Kind = "bad_wildcard"
	KindDuplicateDefault  Kind = "duplicate_default"
	KindUnknownCurve      Kind = "unknown_curve"
	KindInvalidCipherList Kind = "invalid_cipher_list"
	KindMissingFeature    Kind = "missing_feature"
)

func (e *BuildError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Path
}

func (e *BuildError) Unwrap() error { return e.Err }

func buildErr(kind Kind, path string, sentinel error) *BuildError {
	return &BuildError{Kind: kind, Path: path, Err: sentinel}
}
