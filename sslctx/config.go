package sslctx

import "crypto/tls"

// CertFile describes one certificate/key pair within a CertEntry. A
// multi-cert entry (e.g. one RSA cert, one ECDSA cert, same identity)
// lists more than one of these (spec.md §4.2 step 1).
type CertFile struct {
	CertPath     string `yaml:"certPath"`
	KeyPath      string `yaml:"keyPath"`
	PasswordPath string `yaml:"passwordPath,omitempty"`
}

// KeyOffloadParams configures async private-key offload. The core never
// inspects these beyond deciding whether to skip direct key load: actual
// offload is delegated entirely to an external Signer (spec.md §4.2
// step 2; out of scope per spec.md §1).
type KeyOffloadParams struct {
	OffloadType string `yaml:"offloadType,omitempty"`
}

// CertEntry is one configuration entry: the unit the Context Builder
// turns into a single ContextHandle. Field names mirror wangle's
// SSLContextConfig.
type CertEntry struct {
	Certificates  []CertFile `yaml:"certificates"`
	IsLocalPrivateKey bool `yaml:"isLocalPrivateKey,omitempty"`
	KeyOffloadParams  KeyOffloadParams `yaml:"keyOffloadParams,omitempty"`

	SSLCiphers         []string `yaml:"sslCiphers,omitempty"`
	TLS11Ciphers       []string `yaml:"tls11Ciphers,omitempty"`
	TLS11AltCipherlist []string `yaml:"tls11AltCipherlist,omitempty"`

	ECCCurveName string `yaml:"eccCurveName,omitempty"`

	ClientCAFile       string          `yaml:"clientCAFile,omitempty"`
	ClientVerification tls.ClientAuthType `yaml:"clientVerification,omitempty"`

	NextProtocols []string `yaml:"nextProtocols,omitempty"`

	IsDefault bool `yaml:"isDefault,omitempty"`

	MinVersion uint16 `yaml:"minVersion,omitempty"`
	MaxVersion uint16 `yaml:"maxVersion,omitempty"`
}

// Config is the top-level configuration consumed by Manager.Reset: the
// entries for one VIP:PORT listener plus the session-cache options.
// Parsing arbitrary config *files* into this struct is an external
// concern per spec.md §1 — LoadConfig below is a convenience, not the
// only way to populate it.
type Config struct {
	Certificates []CertEntry  `yaml:"certificates"`
	CacheOptions CacheOptions `yaml:"cacheOptions,omitempty"`
}
