package sslctx

import (
	"crypto/tls"
	"fmt"

	"github.com/rs/zerolog/log"
)

// BuildOptions carries the collaborators and shared parameters the
// Context Builder wires into every context it builds for one reload
// (spec.md §4.2 steps 7-9, §6).
type BuildOptions struct {
	CacheOptions     CacheOptions
	TicketSeeds      TicketSeeds
	VIPAddress       string
	ExternalCache    ExternalCache
	SessionCache     SessionCacheProvider
	NewTicketManager func() TicketManager
	ClientVerifier   ClientCertVerifier
	KeyOffload       KeyOffloadProvider
	Strict           bool
}

// BuildContext is the Context Builder (spec.md §4.2): it loads every
// certificate in entry, validates that they share one identity, builds
// one *tls.Config, and wires in ciphers, curve, client auth, session
// cache and ticket manager. It never touches a live ContextSet — the
// caller (Manager.Reset/Add) is responsible for inserting the result.
func BuildContext(entry CertEntry, opts BuildOptions) (*ContextHandle, error) {
	if len(entry.Certificates) == 0 {
		return nil, buildErr(KindCertLoad, "", fmt.Errorf("%w: entry has no certificates", ErrCertLoad))
	}

	local := entry.IsLocalPrivateKey || entry.KeyOffloadParams.OffloadType == ""

	var (
		certs    []tls.Certificate
		identity Identity
		lastPath string
	)
	for i, cf := range entry.Certificates {
		cert, leaf, err := loadOneCertificate(cf, local, opts.KeyOffload, entry.KeyOffloadParams)
		if err != nil {
			return nil, err
		}

		id, err := ExtractIdentity(leaf)
		if err != nil {
			return nil, err
		}

		if i == 0 {
			identity = id
		} else if identity.CommonName != id.CommonName || !sameIdentitySet(identity.SubjectAltNames, id.SubjectAltNames) {
			return nil, buildErr(KindIdentityMismatch, cf.CertPath,
				fmt.Errorf("%w: does not match %s", ErrIdentityMismatch, lastPath))
		}

		certs = append(certs, cert)
		lastPath = cf.CertPath
	}

	cfg := &tls.Config{
		Certificates: certs,
		// Equivalent of SSL_OP_CIPHER_SERVER_PREFERENCE /
		// SSL_OP_SINGLE_DH_USE / SSL_OP_SINGLE_ECDH_USE /
		// SSL_OP_DONT_INSERT_EMPTY_FRAGMENTS: crypto/tls always picks
		// its own preferred suite from the client's offer and has no
		// empty-fragment or single-use-DH knobs to disable, so there is
		// nothing left to set for this step beyond disabling
		// renegotiation, which plays a similar "don't trust the old
		// handshake tricks" role.
		Renegotiation: tls.RenegotiateNever,
	}

	if err := applyCiphers(cfg, entry); err != nil {
		return nil, err
	}

	if entry.ECCCurveName != "" {
		curve, err := resolveCurve(entry.ECCCurveName)
		if err != nil {
			return nil, err
		}
		cfg.CurvePreferences = []tls.CurveID{curve}
	}

	if entry.MinVersion != 0 {
		cfg.MinVersion = entry.MinVersion
	}
	if entry.MaxVersion != 0 {
		cfg.MaxVersion = entry.MaxVersion
	}

	if entry.ClientCAFile != "" {
		pool, err := loadCAFile(entry.ClientCAFile)
		if err != nil {
			return nil, buildErr(KindCertLoad, entry.ClientCAFile, fmt.Errorf("%w: loading client CA: %v", ErrCertLoad, err))
		}
		cfg.ClientCAs = pool
		if opts.ClientVerifier != nil {
			// External callback wins over the configured mode.
			cfg.ClientAuth = tls.RequireAnyClientCert
			cfg.VerifyPeerCertificate = opts.ClientVerifier.VerifyPeerCertificate
		} else {
			cfg.ClientAuth = entry.ClientVerification
		}
	}

	if opts.SessionCache != nil {
		if err := opts.SessionCache.Attach(cfg, opts.CacheOptions, opts.VIPAddress, opts.ExternalCache, identity.CommonName); err != nil {
			return nil, fmt.Errorf("sslctx: attaching session cache for %s: %w", identity.CommonName, err)
		}
	}

	var tm TicketManager
	if opts.NewTicketManager != nil {
		tm = opts.NewTicketManager()
		if err := tm.Attach(cfg, opts.TicketSeeds); err != nil {
			return nil, fmt.Errorf("sslctx: attaching ticket manager for %s: %w", identity.CommonName, err)
		}
	}

	if len(entry.TLS11Ciphers) > 0 || len(entry.TLS11AltCipherlist) > 0 {
		// wangle registers a client-hello callback here that swaps the
		// cipher list when it sees TLS >= 1.1. Go negotiates the cipher
		// suite as part of version negotiation and exposes no
		// mid-handshake override point, and TLS 1.1 is disabled by
		// default in modern Go anyway, so this is a documented no-op.
		log.Debug().Str("cn", identity.CommonName).Msg("sslctx: tls11Ciphers/tls11AltCipherlist configured but unsupported on this TLS stack")
	}

	if len(entry.NextProtocols) > 0 {
		cfg.NextProtos = append([]string{}, entry.NextProtocols...)
	}

	return &ContextHandle{
		TLSConfig: cfg,
		Identity:  identity,
		IsDefault: entry.IsDefault,
		Ticket:    tm,
	}, nil
}

// applyCiphers is the probe-then-overwrite ordering from spec.md §4.2
// step 4: tls11Ciphers is validated first purely to fail fast on a bad
// list, then sslCiphers is resolved and applied, unconditionally
// overwriting whatever the probe would have set.
func applyCiphers(cfg *tls.Config, entry CertEntry) error {
	if len(entry.TLS11Ciphers) > 0 {
		if _, err := resolveCiphers(entry.TLS11Ciphers); err != nil {
			return err
		}
	}
	if len(entry.SSLCiphers) > 0 {
		suites, err := resolveCiphers(entry.SSLCiphers)
		if err != nil {
			return err
		}
		cfg.CipherSuites = suites
	}
	return nil
}
