package cookiestore

import (
	"net"
	"strings"

	"github.com/warpdl/cookiesync/pkg/cookie"
	"golang.org/x/net/publicsuffix"
)

// specialUseDomains are the RFC 6761 special-use top-level domains.
var specialUseDomains = map[string]bool{
	"local":     true,
	"example":   true,
	"invalid":   true,
	"localhost": true,
	"test":      true,
}

// bareSpecialUse lists special-use TLDs that are a valid domain on their own.
var bareSpecialUse = map[string]bool{
	"localhost": true,
	"invalid":   true,
}

// RegistrableDomain returns the public suffix plus one label for domain
// ("a.b.example.co.uk" -> "example.co.uk"). Special-use TLDs are only
// resolved when allowSpecialUseDomain is set, in which case the last two
// labels form the registrable domain. ok is false for IP literals, public
// suffixes and disallowed special-use names.
func RegistrableDomain(domain string, allowSpecialUseDomain bool) (string, bool) {
	domain = cookie.CanonicalDomain(domain)
	if domain == "" || net.ParseIP(domain) != nil {
		return "", false
	}

	labels := strings.Split(domain, ".")
	tld := labels[len(labels)-1]
	if specialUseDomains[tld] {
		if !allowSpecialUseDomain {
			return "", false
		}
		if len(labels) > 1 {
			return labels[len(labels)-2] + "." + tld, true
		}
		if bareSpecialUse[tld] {
			return tld, true
		}
		return "", false
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return "", false
	}
	return etld1, true
}

// PermuteDomain returns domain and each of its parent domains down to the
// registrable domain, shortest first:
//
//	PermuteDomain("a.b.example.com", false) == ["example.com", "b.example.com", "a.b.example.com"]
//
// It returns nil when domain has no registrable domain (see RegistrableDomain).
func PermuteDomain(domain string, allowSpecialUseDomain bool) []string {
	domain = cookie.CanonicalDomain(domain)
	reg, ok := RegistrableDomain(domain, allowSpecialUseDomain)
	if !ok {
		return nil
	}
	if reg == domain {
		return []string{domain}
	}

	prefix := strings.TrimSuffix(domain, "."+reg)
	parts := strings.Split(prefix, ".")
	out := make([]string, 0, len(parts)+1)
	cur := reg
	out = append(out, cur)
	for i := len(parts) - 1; i >= 0; i-- {
		cur = parts[i] + "." + cur
		out = append(out, cur)
	}
	return out
}

// DomainMatch reports whether host domain-matches cookieDomain per
// RFC 6265 §5.1.3: identical, or host ends with "."+cookieDomain and is not
// an IP address.
func DomainMatch(host, cookieDomain string) bool {
	host = cookie.CanonicalDomain(host)
	cookieDomain = cookie.CanonicalDomain(cookieDomain)
	if host == "" || cookieDomain == "" {
		return false
	}
	if host == cookieDomain {
		return true
	}
	if net.ParseIP(host) != nil {
		return false
	}
	return strings.HasSuffix(host, "."+cookieDomain)
}
