package sslctx

import (
	"io"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML-encoded Config, the same convenience the
// teacher's tls.Load(cfg Config) provided over the raw struct — parsing
// of an on-disk config file into bytes is still the caller's job; this
// only covers the bytes-to-struct step.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
