package sslctx

import (
	"crypto"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
)

// readPasswordFile reads a private key's passphrase from a file,
// trimming every trailing '\r' and '\n' character — the direct equivalent of
// wangle's PasswordInFile collector (spec.md §4.2 step 2), applied
// inline by loadOneCertificate rather than through a collector
// interface since every CertFile in this spec names its password file
// directly.
func readPasswordFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

// KeyOffloadProvider is the external collaborator for asynchronous
// private-key operations (spec.md §4.2 step 2, out of scope per §1):
// when a CertEntry requests offload, the core never reads the key file
// at all — it asks this provider for a crypto.Signer and trusts it to
// do the right thing, synchronously or not, on its own time.
type KeyOffloadProvider interface {
	Signer(certPath string, params KeyOffloadParams) (crypto.Signer, error)
}

// loadOneCertificate is step 1-2 of the Context Builder pipeline for a
// single CertFile: load the certificate, then either load its key
// locally (optionally password-protected) or delegate to offload.
func loadOneCertificate(cf CertFile, local bool, offload KeyOffloadProvider, params KeyOffloadParams) (tls.Certificate, *x509.Certificate, error) {
	certPEM, err := os.ReadFile(cf.CertPath)
	if err != nil {
		return tls.Certificate{}, nil, buildErr(KindCertLoad, cf.CertPath, fmt.Errorf("%w: %v", ErrCertLoad, err))
	}
	block, _ := pem.Decode(certPEM)
	if block == nil {
		return tls.Certificate{}, nil, buildErr(KindCertLoad, cf.CertPath, fmt.Errorf("%w: no PEM certificate block", ErrCertLoad))
	}
	leaf, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return tls.Certificate{}, nil, buildErr(KindCertLoad, cf.CertPath, fmt.Errorf("%w: %v", ErrCertLoad, err))
	}

	if !local && offload != nil {
		signer, err := offload.Signer(cf.CertPath, params)
		if err != nil {
			return tls.Certificate{}, nil, buildErr(KindKeyLoad, cf.CertPath, fmt.Errorf("%w: offload: %v", ErrKeyLoad, err))
		}
		return tls.Certificate{
			Certificate: [][]byte{block.Bytes},
			PrivateKey:  signer,
			Leaf:        leaf,
		}, leaf, nil
	}
	if !local && offload == nil {
		return tls.Certificate{}, nil, buildErr(KindMissingFeature, cf.CertPath, fmt.Errorf("%w: key offload requested but no KeyOffloadProvider configured", ErrMissingFeature))
	}

	var cert tls.Certificate
	if cf.PasswordPath != "" {
		password, err := readPasswordFile(cf.PasswordPath)
		if err != nil {
			return tls.Certificate{}, nil, buildErr(KindKeyLoad, cf.PasswordPath, fmt.Errorf("%w: reading password file: %v", ErrKeyLoad, err))
		}
		cert, err = loadEncryptedKeyPair(cf.CertPath, cf.KeyPath, certPEM, password)
		if err != nil {
			return tls.Certificate{}, nil, buildErr(KindKeyLoad, cf.KeyPath, fmt.Errorf("%w: %v", ErrKeyLoad, err))
		}
	} else {
		cert, err = tls.LoadX509KeyPair(cf.CertPath, cf.KeyPath)
		if err != nil {
			return tls.Certificate{}, nil, buildErr(KindKeyLoad, cf.KeyPath, fmt.Errorf("%w: %v", ErrKeyLoad, err))
		}
	}
	cert.Leaf = leaf
	return cert, leaf, nil
}

// loadEncryptedKeyPair handles the one case tls.LoadX509KeyPair can't:
// a password-protected PEM-encoded private key. x509.DecryptPEMBlock is
// deprecated upstream (RFC 1423 PEM encryption is weak) but remains the
// only stdlib path for it, and no library in the pack's dependency set
// covers legacy encrypted-PEM decryption either — documented as a
// stdlib-only gap in DESIGN.md.
func loadEncryptedKeyPair(certPath, keyPath string, certPEM []byte, password string) (tls.Certificate, error) {
	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return tls.Certificate{}, err
	}
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return tls.Certificate{}, fmt.Errorf("no PEM key block in %s", keyPath)
	}

	der := block.Bytes
	if x509.IsEncryptedPEMBlock(block) { //lint:ignore SA1019 no replacement for legacy RFC1423 PEM encryption in stdlib
		der, err = x509.DecryptPEMBlock(block, []byte(password)) //lint:ignore SA1019 see above
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("decrypting %s: %w", keyPath, err)
		}
	}

	key, err := parsePrivateKeyDER(der)
	if err != nil {
		return tls.Certificate{}, err
	}

	certBlock, _ := pem.Decode(certPEM)
	if certBlock == nil {
		return tls.Certificate{}, fmt.Errorf("no PEM certificate block in %s", certPath)
	}
	return tls.Certificate{
		Certificate: [][]byte{certBlock.Bytes},
		PrivateKey:  key,
	}, nil
}

func parsePrivateKeyDER(der []byte) (crypto.Signer, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		if signer, ok := key.(crypto.Signer); ok {
			return signer, nil
		}
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	return nil, fmt.Errorf("unrecognized private key encoding")
}

func loadCAFile(path string) (*x509.CertPool, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, fmt.Errorf("no certificates found in %s", path)
	}
	return pool, nil
}
