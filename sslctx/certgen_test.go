package sslctx

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// genCertFiles writes a self-signed certificate and key to t.TempDir(),
// returning a CertFile ready to feed into loadOneCertificate/BuildContext.
// weak requests a SHA-1-signed RSA certificate (CryptoTier Weak);
// otherwise an ECDSA/SHA-256 certificate (CryptoTier BestAvailable).
func genCertFiles(t *testing.T, cn string, sans []string, weak bool) CertFile {
	t.Helper()

	dir := t.TempDir()
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: cn},
		DNSNames:     sans,
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
	}

	var der, keyDER []byte
	var keyType string

	if weak {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("generating RSA key: %v", err)
		}
		template.SignatureAlgorithm = x509.SHA1WithRSA
		der = mustCreateCertificate(t, template, &key.PublicKey, key)
		keyDER = x509.MarshalPKCS1PrivateKey(key)
		keyType = "RSA PRIVATE KEY"
	} else {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			t.Fatalf("generating ECDSA key: %v", err)
		}
		der = mustCreateCertificate(t, template, &key.PublicKey, key)
		ecDER, err := x509.MarshalECPrivateKey(key)
		if err != nil {
			t.Fatalf("marshaling EC key: %v", err)
		}
		keyDER = ecDER
		keyType = "EC PRIVATE KEY"
	}

	writePEM(t, certPath, "CERTIFICATE", der)
	writePEM(t, keyPath, keyType, keyDER)

	return CertFile{CertPath: certPath, KeyPath: keyPath}
}

func mustCreateCertificate(t *testing.T, template *x509.Certificate, pub any, priv any) []byte {
	t.Helper()
	der, err := x509.CreateCertificate(rand.Reader, template, template, pub, priv)
	if err != nil {
		t.Fatalf("creating certificate: %v", err)
	}
	return der
}

func writePEM(t *testing.T, path, blockType string, der []byte) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()
	if err := pem.Encode(f, &pem.Block{Type: blockType, Bytes: der}); err != nil {
		t.Fatalf("encoding PEM to %s: %v", path, err)
	}
}
