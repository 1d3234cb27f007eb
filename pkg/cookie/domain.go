package cookie

import "strings"

// CanonicalDomain lower-cases a cookie domain and strips surrounding
// whitespace and leading or trailing dots, so ".Example.COM." becomes
// "example.com".
func CanonicalDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	domain = strings.Trim(domain, ".")
	return strings.ToLower(domain)
}
