package cookies

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/warpdl/cookiesync/pkg/cookie"
	"github.com/warpdl/cookiesync/pkg/logger"
)

const netscapeFixture = `# Netscape HTTP Cookie File
# comment line

.example.com	TRUE	/	TRUE	1900000000	sid	abc123
www.example.com	FALSE	/docs	FALSE	0	lang	en
#HttpOnly_.example.com	TRUE	/	FALSE	1900000000	token	t0k
.example.com	TRUE	/	FALSE	1000	expired	gone
.other.org	TRUE	/	FALSE	0	other	x
broken line without tabs
.example.com	TRUE	/	FALSE	notanumber	bad	v
`

func TestParseNetscape(t *testing.T) {
	log := logger.NewMockLogger()
	cookies, err := ParseNetscape(strings.NewReader(netscapeFixture), Filter{Domain: "example.com"}, fixtureNow, log)
	if err != nil {
		t.Fatalf("ParseNetscape: %v", err)
	}
	if len(cookies) != 3 {
		t.Fatalf("expected 3 cookies, got %d", len(cookies))
	}

	tests := []struct {
		key      string
		domain   string
		path     string
		hostOnly bool
		secure   bool
		httpOnly bool
		session  bool
	}{
		{"sid", "example.com", "/", false, true, false, false},
		{"lang", "www.example.com", "/docs", true, false, false, true},
		{"token", "example.com", "/", false, false, true, false},
	}
	for i, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			c := cookies[i]
			if c.Key != tt.key || c.Domain != tt.domain || c.Path != tt.path {
				t.Errorf("got %s", c)
			}
			if c.HostOnly != tt.hostOnly || c.Secure != tt.secure || c.HTTPOnly != tt.httpOnly {
				t.Errorf("flags: hostOnly=%v secure=%v httpOnly=%v", c.HostOnly, c.Secure, c.HTTPOnly)
			}
			if c.Expires.IsZero() != tt.session {
				t.Errorf("session = %v, want %v", c.Expires.IsZero(), tt.session)
			}
		})
	}

	if len(log.WarningCalls) != 2 {
		t.Errorf("expected 2 warnings for malformed lines, got %v", log.WarningCalls)
	}
	for _, msg := range log.All() {
		if strings.Contains(msg, "abc123") {
			t.Errorf("cookie value leaked into log: %q", msg)
		}
	}
}

func TestParseNetscape_FarFutureExpiry(t *testing.T) {
	in := ".example.com\tTRUE\t/\tFALSE\t253402300800000\tsid\tabc\n"
	cookies, err := ParseNetscape(strings.NewReader(in), Filter{}, fixtureNow, nil)
	if err != nil {
		t.Fatalf("ParseNetscape: %v", err)
	}
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if !cookies[0].Expires.Equal(cookie.MaxExpiry) {
		t.Errorf("Expires = %v, want %v", cookies[0].Expires, cookie.MaxExpiry)
	}
	if _, err := cookie.FromJSON(mustJSON(t, cookies[0])); err != nil {
		t.Errorf("clamped cookie does not decode: %v", err)
	}
}

func mustJSON(t *testing.T, c *cookie.Cookie) string {
	t.Helper()
	s, err := cookie.ToJSON(c)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParseNetscape_NilLogger(t *testing.T) {
	cookies, err := ParseNetscape(strings.NewReader("bad\n"), Filter{}, fixtureNow, nil)
	if err != nil || len(cookies) != 0 {
		t.Errorf("got %v, %v", cookies, err)
	}
}

func TestWriteNetscape_RoundTrip(t *testing.T) {
	exp := time.Unix(1900000000, 0).UTC()
	a := cookie.New("sid", "abc", "example.com", "/")
	a.Expires = exp
	a.Secure = true
	b := cookie.New("lang", "en", "www.example.com", "/docs")
	b.HostOnly = true
	c := cookie.New("token", "t", "example.com", "/")
	c.HTTPOnly = true
	c.Expires = exp

	var buf bytes.Buffer
	if err := WriteNetscape(&buf, []*cookie.Cookie{b, a, c}); err != nil {
		t.Fatalf("WriteNetscape: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, netscapeHeader+"\n") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "#HttpOnly_.example.com\tTRUE\t/\tFALSE\t1900000000\ttoken\tt\n") {
		t.Errorf("httponly line missing:\n%s", out)
	}
	if strings.Index(out, "\tsid\t") > strings.Index(out, "\ttoken\t") {
		t.Error("expected output sorted by key within a domain")
	}

	got, err := ParseNetscape(strings.NewReader(out), Filter{}, fixtureNow, nil)
	if err != nil {
		t.Fatalf("ParseNetscape: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 cookies, got %d", len(got))
	}
	byKey := map[string]*cookie.Cookie{}
	for _, c := range got {
		byKey[c.Key] = c
	}
	if c := byKey["sid"]; c == nil || !c.Secure || c.HostOnly || !c.Expires.Equal(exp) {
		t.Errorf("sid = %+v", c)
	}
	if c := byKey["lang"]; c == nil || !c.HostOnly || c.Path != "/docs" || !c.Expires.IsZero() {
		t.Errorf("lang = %+v", c)
	}
	if c := byKey["token"]; c == nil || !c.HTTPOnly {
		t.Errorf("token = %+v", c)
	}
}

func TestFilterMatch(t *testing.T) {
	tests := []struct {
		filter string
		domain string
		want   bool
	}{
		{"", "anything.net", true},
		{"example.com", "example.com", true},
		{"example.com", ".example.com", true},
		{"example.com", "sub.example.com", true},
		{"www.example.com", "example.com", true},
		{"example.com", "notexample.com", false},
		{"example.com", "other.org", false},
	}
	for _, tt := range tests {
		t.Run(tt.filter+"/"+tt.domain, func(t *testing.T) {
			if got := (Filter{Domain: tt.filter}).match(tt.domain); got != tt.want {
				t.Errorf("match = %v, want %v", got, tt.want)
			}
		})
	}
}
