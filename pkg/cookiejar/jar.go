// Package cookiejar implements net/http.CookieJar on top of a
// cookiestore.Store, so an http.Client can read and write a synced store.
package cookiejar

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/warpdl/cookiesync/pkg/cookie"
	"github.com/warpdl/cookiesync/pkg/cookiestore"
	"github.com/warpdl/cookiesync/pkg/logger"
)

// ErrRejected is returned by SetCookiesContext for cookies whose Domain
// attribute the request host may not set.
var ErrRejected = errors.New("cookie rejected")

// Option configures a Jar.
type Option func(*Jar)

// WithLogger sets the logger for store errors that http.CookieJar cannot
// return to the caller.
func WithLogger(l logger.Logger) Option {
	return func(j *Jar) {
		if l != nil {
			j.log = l
		}
	}
}

// WithSpecialUseDomains allows cookies for RFC 6761 special-use domains
// such as .local and .localhost to be shared across subdomains.
func WithSpecialUseDomains() Option {
	return func(j *Jar) { j.allowSpecialUse = true }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(j *Jar) { j.now = now }
}

// Jar is an http.CookieJar backed by a Store.
type Jar struct {
	store           cookiestore.Store
	log             logger.Logger
	now             func() time.Time
	allowSpecialUse bool
}

var _ http.CookieJar = (*Jar)(nil)

// New returns a Jar over store.
func New(store cookiestore.Store, opts ...Option) *Jar {
	j := &Jar{
		store: store,
		log:   logger.NewNopLogger(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// SetCookies implements http.CookieJar. Errors are logged.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	if err := j.SetCookiesContext(context.Background(), u, cookies); err != nil {
		j.log.Warning("set cookies for %s: %v", u.Host, err)
	}
}

// SetCookiesContext stores the cookies received in a response from u.
// Cookies with an expiry in the past delete any stored cookie with the same
// domain, path and name. Rejected cookies are skipped and reported together
// with store errors.
func (j *Jar) SetCookiesContext(ctx context.Context, u *url.URL, cookies []*http.Cookie) error {
	if !isHTTP(u) {
		return nil
	}
	host := canonicalHost(u)
	if host == "" {
		return nil
	}
	now := j.now().UTC()

	var errs []error
	for _, hc := range cookies {
		if hc == nil || hc.Name == "" {
			continue
		}
		c, err := j.newEntry(hc, host, u.Path, now)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if c.Expired(now) {
			if err := j.store.RemoveCookie(ctx, c.Domain, c.Path, c.Key); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		old, err := j.store.FindCookie(c.Domain, c.Path, c.Key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if old != nil {
			c.Creation = old.Creation
			c.CreationIndex = old.CreationIndex
		}
		if err := j.store.UpdateCookie(ctx, old, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (j *Jar) newEntry(hc *http.Cookie, host, reqPath string, now time.Time) (*cookie.Cookie, error) {
	c := cookie.FromHTTP(hc)
	c.Creation, c.LastAccessed = now, now
	// Max-Age is relative to receipt; pin it so a preserved creation time
	// does not shift the expiry.
	if c.MaxAge != nil && *c.MaxAge > 0 {
		c.Expires = cookie.AddSeconds(now, int64(*c.MaxAge))
		c.MaxAge = nil
	}

	if c.HostOnly {
		c.Domain = host
	} else if !j.domainAllowed(host, c.Domain) {
		return nil, fmt.Errorf("%w: %s may not set domain %q", ErrRejected, host, c.Domain)
	}

	if c.Path == "" || c.Path[0] != '/' {
		c.Path = cookiestore.DefaultPath(reqPath)
		c.PathIsDefault = true
	}
	return c, nil
}

// domainAllowed applies the RFC 6265 §5.3 domain checks: the domain must
// domain-match the host and must not be a public suffix unless it is the
// host itself.
func (j *Jar) domainAllowed(host, domain string) bool {
	if domain == host {
		return true
	}
	if net.ParseIP(host) != nil {
		return false
	}
	if _, ok := cookiestore.RegistrableDomain(domain, j.allowSpecialUse); !ok {
		return false
	}
	return cookiestore.DomainMatch(host, domain)
}

// Cookies implements http.CookieJar. Cookies are ordered by longer paths
// first, then by creation.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	if !isHTTP(u) {
		return nil
	}
	host := canonicalHost(u)
	if host == "" {
		return nil
	}
	reqPath := u.EscapedPath()
	if reqPath == "" {
		reqPath = "/"
	}
	https := u.Scheme == "https"
	now := j.now().UTC()

	found, err := j.store.FindCookies(host, reqPath, j.allowSpecialUse)
	if err != nil {
		j.log.Warning("cookies for %s: %v", u.Host, err)
		return nil
	}

	selected := found[:0]
	for _, c := range found {
		switch {
		case c.Expired(now):
			continue
		case c.Secure && !https:
			continue
		case c.HostOnly && c.Domain != host:
			continue
		case !c.HostOnly && !cookiestore.DomainMatch(host, c.Domain):
			continue
		}
		selected = append(selected, c)
	}
	sort.SliceStable(selected, func(a, b int) bool {
		pa, pb := len(selected[a].Path), len(selected[b].Path)
		if pa != pb {
			return pa > pb
		}
		return selected[a].CreationIndex < selected[b].CreationIndex
	})

	out := make([]*http.Cookie, 0, len(selected))
	for _, c := range selected {
		out = append(out, &http.Cookie{Name: c.Key, Value: c.Value})
	}
	return out
}

func isHTTP(u *url.URL) bool {
	return u != nil && (u.Scheme == "http" || u.Scheme == "https")
}

func canonicalHost(u *url.URL) string {
	return strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
}
