// Package autoprovision provides a reference sslctx.NoMatchFunc that
// mints a certificate on demand for any SNI name matching a configured
// pattern set, instead of failing the handshake outright.
package autoprovision

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ngsec/sslctxmgr/pkg/groupexp"
	"github.com/ngsec/sslctxmgr/sslctx"
)

// Issuer obtains a CertEntry for a previously-unseen, pattern-approved
// server name — e.g. by driving an ACME client, out of scope for this
// package itself.
type Issuer interface {
	Issue(serverName string) (sslctx.CertEntry, error)
}

// PatternProvisioner is a NoMatchFunc: it allows auto-provisioning only
// for server names in scope of Policy, delegates issuance to Issuer,
// and adds the result to the manager so the retried lookup succeeds.
type PatternProvisioner struct {
	Policy groupexp.Policy
	Issuer Issuer
}

// New builds a PatternProvisioner from DNS-shorthand allow/deny host
// patterns (e.g. "*.example.com") and an issuer. deny may be nil,
// meaning every name matching an allow pattern is in scope.
func New(allowPatterns, denyPatterns []string, issuer Issuer) (*PatternProvisioner, error) {
	policy, err := groupexp.NewPolicy(allowPatterns, denyPatterns)
	if err != nil {
		return nil, fmt.Errorf("autoprovision: compiling allow/deny patterns: %w", err)
	}
	return &PatternProvisioner{Policy: policy, Issuer: issuer}, nil
}

// Hook adapts p to sslctx.NoMatchFunc.
func (p *PatternProvisioner) Hook() sslctx.NoMatchFunc {
	return p.onNoMatch
}

func (p *PatternProvisioner) onNoMatch(mgr *sslctx.Manager, serverName string) bool {
	if serverName == "" || !sslctx.IsDomainName(serverName) {
		return false
	}
	if !p.Policy.Allowed(serverName) {
		log.Debug().Str("sni", serverName).Msg("autoprovision: name not in allow/deny policy scope")
		return false
	}

	entry, err := p.Issuer.Issue(serverName)
	if err != nil {
		log.Warn().Err(err).Str("sni", serverName).Msg("autoprovision: issuance failed")
		return false
	}

	if _, err := mgr.Add(entry); err != nil {
		log.Warn().Err(err).Str("sni", serverName).Msg("autoprovision: adding issued context failed")
		return false
	}
	return true
}
