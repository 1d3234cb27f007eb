package cookies

import (
	"errors"
	"strings"

	"github.com/warpdl/cookiesync/pkg/cookie"
	"github.com/warpdl/cookiesync/pkg/cookiestore"
)

// Format identifies the format of a browser cookie store.
type Format int

const (
	FormatUnknown Format = iota
	// FormatFirefox is the Firefox moz_cookies SQLite schema.
	FormatFirefox
	// FormatChrome is the Chrome cookies SQLite schema. Only unencrypted
	// values are usable.
	FormatChrome
	// FormatNetscape is the tab-separated Netscape text format.
	FormatNetscape
)

func (f Format) String() string {
	switch f {
	case FormatFirefox:
		return "firefox"
	case FormatChrome:
		return "chrome"
	case FormatNetscape:
		return "netscape"
	default:
		return "unknown"
	}
}

// ErrUnsupportedFormat is returned for files that are not a known cookie store.
var ErrUnsupportedFormat = errors.New("unsupported cookie store format")

// Source describes where cookies were imported from.
type Source struct {
	Path    string
	Format  Format
	Browser string
}

// Filter restricts an import to cookies that a request to Domain would see:
// cookies set for Domain, its parent domains, or its subdomains. An empty
// Domain selects everything.
type Filter struct {
	Domain string
}

func (f Filter) match(cookieDomain string) bool {
	if f.Domain == "" {
		return true
	}
	want := cookie.CanonicalDomain(f.Domain)
	got := cookie.CanonicalDomain(cookieDomain)
	return cookiestore.DomainMatch(want, got) || strings.HasSuffix(got, "."+want)
}
