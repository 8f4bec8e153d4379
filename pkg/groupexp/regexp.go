// Package groupexp turns configured hostname patterns — the shorthand
// a config file writer types, like "*.example.com" — into compiled
// matchers, and combines an allow set with an optional deny set into
// the single "is this SNI name in scope" gate the no-match
// auto-provisioning hook actually needs.
package groupexp

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// PatternSet is an ordered list of compiled patterns evaluated as a
// disjunction: MatchString reports true as soon as any pattern hits.
type PatternSet []*regexp2.Regexp

// MatchString reports whether s matches at least one pattern in the
// set.
func (p PatternSet) MatchString(s string) bool {
	ru := []rune(s)
	for _, re := range p {
		if ok, _ := re.MatchRunes(ru); ok {
			return true
		}
	}
	return false
}

// Strings returns the source text of every pattern in the set, in
// compile order, for logging and diagnostics.
func (p PatternSet) Strings() (out []string) {
	for _, re := range p {
		out = append(out, re.String())
	}
	return
}

// Compile compiles each already-anchored regular expression in exps
// under the RE2 syntax restriction, failing on the first pattern that
// doesn't compile. Use this for genuine regexes; for the "*.example.com"
// shorthand a config file writes, use CompileHostPatterns instead.
func Compile(exps []string) (PatternSet, error) {
	p := make(PatternSet, len(exps))
	for i, exp := range exps {
		re, err := regexp2.Compile(exp, regexp2.RE2)
		if err != nil {
			return nil, err
		}
		p[i] = re
	}
	return p, nil
}

// MustCompile is Compile, panicking on a bad pattern. Intended for
// patterns fixed at startup from a trusted config file, not user
// input.
func MustCompile(exps []string) PatternSet {
	p := make(PatternSet, len(exps))
	for i, exp := range exps {
		p[i] = regexp2.MustCompile(exp, regexp2.RE2)
	}
	return p
}

// CompileHostPatterns compiles DNS-shorthand patterns — literal labels
// plus a "*" wildcard standing in for any run of characters, dots
// included (so "*.example.com" matches subdomains at any depth), e.g.
// "*.example.com" or "corp.example.net" — into an anchored PatternSet. Config files list allow/deny scope this way
// rather than as raw regex source, since a raw "." in a hostname
// pattern is meant literally, not as "any character".
func CompileHostPatterns(patterns []string) (PatternSet, error) {
	return Compile(hostPatternsToRegexps(patterns))
}

// MustCompileHostPatterns is CompileHostPatterns, panicking on a bad
// pattern.
func MustCompileHostPatterns(patterns []string) PatternSet {
	return MustCompile(hostPatternsToRegexps(patterns))
}

func hostPatternsToRegexps(patterns []string) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		escaped := strings.ReplaceAll(p, ".", `\.`)
		escaped = strings.ReplaceAll(escaped, "*", ".*")
		out[i] = "^" + escaped + "$"
	}
	return out
}

// Policy gates a name through an allow set and an optional deny set:
// a name is in scope only if Allow matches it and Deny does not.
// This is the shape the auto-provisioning no-match hook needs — an
// operator wants "any subdomain of example.com" without also handing
// out certificates for a handful of names carved out of that range.
type Policy struct {
	Allow PatternSet
	Deny  PatternSet
}

// NewPolicy compiles allow and deny host patterns into a Policy. deny
// may be nil/empty, meaning nothing is excluded from Allow's scope.
func NewPolicy(allow, deny []string) (Policy, error) {
	allowSet, err := CompileHostPatterns(allow)
	if err != nil {
		return Policy{}, err
	}
	denySet, err := CompileHostPatterns(deny)
	if err != nil {
		return Policy{}, err
	}
	return Policy{Allow: allowSet, Deny: denySet}, nil
}

// Allowed reports whether name is matched by Allow and not matched by
// Deny. Deny always wins over Allow when both match.
func (p Policy) Allowed(name string) bool {
	if !p.Allow.MatchString(name) {
		return false
	}
	return !p.Deny.MatchString(name)
}
