// Package cookie defines the cookie value type persisted by cookiesync and its
// stable JSON encoding. The encoding uses the same camelCase field names as
// the tough-cookie serialization so snapshots written by either side can be
// read by the other.
package cookie

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Cookie represents a single HTTP cookie as stored in a cookie jar.
// IMPORTANT: Value is SENSITIVE: it must never be logged or formatted into
// error messages. Only Key, Domain and Path may appear in logs.
type Cookie struct {
	// Key is the cookie name.
	Key string
	// Value is the cookie value. SENSITIVE: never log.
	Value string
	// Domain is the canonical cookie domain (no leading dot).
	Domain string
	// Path is the cookie path scope.
	Path string
	// Expires is the absolute expiry time. The zero value means a session cookie.
	Expires time.Time
	// MaxAge is the Max-Age attribute in seconds, nil when absent.
	MaxAge *int
	Secure bool
	// HTTPOnly indicates the cookie is not accessible via JavaScript.
	HTTPOnly bool
	// SameSite holds the SameSite attribute verbatim ("strict", "lax", "none").
	SameSite string
	// HostOnly marks cookies set without a Domain attribute; they only match
	// the exact host that set them.
	HostOnly bool
	// PathIsDefault is set when Path was derived from the request URI.
	PathIsDefault bool
	// Extensions holds unrecognised Set-Cookie attributes.
	Extensions []string
	Creation     time.Time
	LastAccessed time.Time
	// CreationIndex is a monotonic insertion counter used for stable ordering.
	CreationIndex int64
}

var creationCounter atomic.Int64

// NextCreationIndex returns the next value of the process-wide creation counter.
func NextCreationIndex() int64 {
	return creationCounter.Add(1)
}

// Observe advances the creation counter past idx so cookies created afterwards
// always sort after cookies loaded from a snapshot.
func Observe(idx int64) {
	for {
		cur := creationCounter.Load()
		if idx <= cur {
			return
		}
		if creationCounter.CompareAndSwap(cur, idx) {
			return
		}
	}
}

// New creates a cookie with the creation time and creation index set.
func New(key, value, domain, path string) *Cookie {
	now := time.Now().UTC()
	return &Cookie{
		Key:           key,
		Value:         value,
		Domain:        domain,
		Path:          path,
		Creation:      now,
		LastAccessed:  now,
		CreationIndex: NextCreationIndex(),
	}
}

// Clone returns a deep copy of c. Clone of nil is nil.
func (c *Cookie) Clone() *Cookie {
	if c == nil {
		return nil
	}
	out := *c
	if c.MaxAge != nil {
		v := *c.MaxAge
		out.MaxAge = &v
	}
	if c.Extensions != nil {
		out.Extensions = append([]string(nil), c.Extensions...)
	}
	return &out
}

// MaxExpiry is the latest expiry a cookie can carry. Later times are clamped
// to it so every expiry survives the RFC 3339 four-digit-year encoding.
var MaxExpiry = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// ClampExpiry returns t, or MaxExpiry when t lies beyond it.
func ClampExpiry(t time.Time) time.Time {
	if t.After(MaxExpiry) {
		return MaxExpiry
	}
	return t
}

// AddSeconds returns base plus secs seconds, saturating at MaxExpiry instead
// of overflowing time.Duration.
func AddSeconds(base time.Time, secs int64) time.Time {
	if secs <= 0 {
		return base
	}
	if secs >= int64(MaxExpiry.Sub(base)/time.Second) {
		return MaxExpiry
	}
	return base.Add(time.Duration(secs) * time.Second)
}

// ExpiryTime returns the effective expiry: Max-Age wins over Expires.
// ok is false for session cookies.
func (c *Cookie) ExpiryTime() (t time.Time, ok bool) {
	if c.MaxAge != nil {
		if *c.MaxAge <= 0 {
			return time.Unix(0, 0).UTC(), true
		}
		base := c.Creation
		if base.IsZero() {
			base = time.Now()
		}
		return AddSeconds(base, int64(*c.MaxAge)), true
	}
	if c.Expires.IsZero() {
		return time.Time{}, false
	}
	return c.Expires, true
}

// Expired reports whether the cookie has expired at now.
func (c *Cookie) Expired(now time.Time) bool {
	t, ok := c.ExpiryTime()
	return ok && !t.After(now)
}

// String returns the cookie in "key=value" form suitable for a Cookie header.
func (c *Cookie) String() string {
	return c.Key + "=" + c.Value
}

// ID returns the (domain, path, key) triple as a printable identifier.
// It never includes the value.
func (c *Cookie) ID() string {
	return fmt.Sprintf("%s;%s;%s", c.Domain, c.Path, c.Key)
}

// FromHTTP converts a net/http cookie into a Cookie, assigning a fresh
// creation index. The domain is canonicalised; an empty domain makes the
// cookie host-only, in which case the caller sets Domain to the request host.
func FromHTTP(hc *http.Cookie) *Cookie {
	c := New(hc.Name, hc.Value, CanonicalDomain(hc.Domain), hc.Path)
	c.HostOnly = hc.Domain == ""
	c.Secure = hc.Secure
	c.HTTPOnly = hc.HttpOnly
	if !hc.Expires.IsZero() {
		c.Expires = hc.Expires.UTC()
	}
	switch {
	case hc.MaxAge < 0:
		v := 0
		c.MaxAge = &v
	case hc.MaxAge > 0:
		v := hc.MaxAge
		c.MaxAge = &v
	}
	switch hc.SameSite {
	case http.SameSiteStrictMode:
		c.SameSite = "strict"
	case http.SameSiteLaxMode:
		c.SameSite = "lax"
	case http.SameSiteNoneMode:
		c.SameSite = "none"
	}
	return c
}

// HTTP converts c into a net/http cookie suitable for a request.
func (c *Cookie) HTTP() *http.Cookie {
	hc := &http.Cookie{
		Name:     c.Key,
		Value:    c.Value,
		Path:     c.Path,
		Secure:   c.Secure,
		HttpOnly: c.HTTPOnly,
		Expires:  c.Expires,
	}
	if !c.HostOnly {
		hc.Domain = c.Domain
	}
	switch c.SameSite {
	case "strict":
		hc.SameSite = http.SameSiteStrictMode
	case "lax":
		hc.SameSite = http.SameSiteLaxMode
	case "none":
		hc.SameSite = http.SameSiteNoneMode
	}
	return hc
}
