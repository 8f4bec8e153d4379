package sslctx

import "crypto/tls"

// cipherSuiteByName resolves OpenSSL-style cipher names to a
// tls.CipherSuite, the same table shape caddy's setup.go builds for its
// own CipherSuites config option. Only suites crypto/tls actually
// implements are listed; TLS 1.3 suites are fixed by the stdlib and
// never configurable, so they're absent here by design.
var cipherSuiteByName = map[string]uint16{
	"ECDHE-RSA-AES256-GCM-SHA384":   tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	"ECDHE-ECDSA-AES256-GCM-SHA384": tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	"ECDHE-RSA-AES128-GCM-SHA256":   tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	"ECDHE-ECDSA-AES128-GCM-SHA256": tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	"ECDHE-RSA-CHACHA20-POLY1305":   tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
	"ECDHE-ECDSA-CHACHA20-POLY1305": tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
	"ECDHE-RSA-AES128-CBC-SHA":      tls.TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA,
	"ECDHE-RSA-AES256-CBC-SHA":      tls.TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA,
	"ECDHE-ECDSA-AES128-CBC-SHA":    tls.TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA,
	"ECDHE-ECDSA-AES256-CBC-SHA":    tls.TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA,
	"RSA-AES128-CBC-SHA":            tls.TLS_RSA_WITH_AES_128_CBC_SHA,
	"RSA-AES256-CBC-SHA":            tls.TLS_RSA_WITH_AES_256_CBC_SHA,
	"RSA-AES128-GCM-SHA256":         tls.TLS_RSA_WITH_AES_128_GCM_SHA256,
	"RSA-AES256-GCM-SHA384":         tls.TLS_RSA_WITH_AES_256_GCM_SHA384,
	"RSA-3DES-EDE-CBC-SHA":          tls.TLS_RSA_WITH_3DES_EDE_CBC_SHA,
}

// resolveCiphers turns a configured cipher-name list into CipherSuite
// ids, failing closed (ErrInvalidCipherList) on the first unresolved
// name — the same validity-probe role wangle's setCiphersOrThrow plays
// for the TLS-1.1 list in the build pipeline.
func resolveCiphers(names []string) ([]uint16, error) {
	out := make([]uint16, 0, len(names))
	for _, n := range names {
		id, ok := cipherSuiteByName[n]
		if !ok {
			return nil, buildErr(KindInvalidCipherList, n, ErrInvalidCipherList)
		}
		out = append(out, id)
	}
	return out, nil
}

// curveByName resolves an ECDHE curve name to its tls.CurveID, the live
// equivalent of wangle's set_key_from_curve / OBJ_sn2nid lookup. Go's
// crypto/tls only negotiates named curves (never classic DHE), so this
// is the entirety of the "install ECDHE parameters" step.
var curveByName = map[string]tls.CurveID{
	"prime256v1": tls.CurveP256,
	"P-256":      tls.CurveP256,
	"secp384r1":  tls.CurveP384,
	"P-384":      tls.CurveP384,
	"secp521r1":  tls.CurveP521,
	"P-521":      tls.CurveP521,
	"X25519":     tls.X25519,
}

func resolveCurve(name string) (tls.CurveID, error) {
	id, ok := curveByName[name]
	if !ok {
		return 0, buildErr(KindUnknownCurve, name, ErrUnknownCurve)
	}
	return id, nil
}
