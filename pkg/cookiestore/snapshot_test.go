package cookiestore

import (
	"strings"
	"testing"
	"time"

	"github.com/warpdl/cookiesync/pkg/cookie"
)

func TestDecodeSnapshotEmpty(t *testing.T) {
	for _, in := range []string{"", "   \n", "null", " null ", "{}"} {
		idx, err := DecodeSnapshot([]byte(in))
		if err != nil {
			t.Errorf("DecodeSnapshot(%q): %v", in, err)
			continue
		}
		if idx.Len() != 0 {
			t.Errorf("DecodeSnapshot(%q) has %d cookies", in, idx.Len())
		}
	}
}

func TestDecodeSnapshotCorrupt(t *testing.T) {
	tests := map[string]string{
		"not json":         `{not json`,
		"array":            `[]`,
		"path not object":  `{"example.com": "x"}`,
		"key not object":   `{"example.com": {"/": []}}`,
		"leaf not object":  `{"example.com": {"/": {"sid": 1}}}`,
		"leaf null":        `{"example.com": {"/": {"sid": null}}}`,
		"bad expires":      `{"example.com": {"/": {"sid": {"key": "sid", "expires": "tomorrow"}}}}`,
		"domain disagrees": `{"example.com": {"/": {"sid": {"key": "sid", "domain": "other.com"}}}}`,
		"path disagrees":   `{"example.com": {"/": {"sid": {"key": "sid", "path": "/x"}}}}`,
		"key disagrees":    `{"example.com": {"/": {"sid": {"key": "other"}}}}`,
		"one bad leaf":     `{"a.com": {"/": {"ok": {"key": "ok"}}}, "b.com": {"/": {"bad": 5}}}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			idx, err := DecodeSnapshot([]byte(in))
			if err == nil {
				t.Fatalf("expected error, got index with %d cookies", idx.Len())
			}
			if idx != nil {
				t.Error("a failed decode must not return a partial index")
			}
		})
	}
}

func TestDecodeSnapshotFillsCoordinates(t *testing.T) {
	idx, err := DecodeSnapshot([]byte(`{"example.com": {"/app": {"sid": {"value": "abc", "creationIndex": 4}}}}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	c, ok := idx.Find("example.com", "/app", "sid")
	if !ok {
		t.Fatal("cookie not filed under its map keys")
	}
	if c.Domain != "example.com" || c.Path != "/app" || c.Key != "sid" || c.Value != "abc" || c.CreationIndex != 4 {
		t.Errorf("decoded cookie = %+v", c)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	idx := NewIndex()
	idx.Put(mk("example.com", "/", "sid", 1))
	idx.Put(mk("example.com", "/app", "pref", 2))
	secure := mk("shop.example.org", "/", "cart", 3)
	secure.Secure, secure.HTTPOnly, secure.SameSite = true, true, "strict"
	idx.Put(secure)

	data, err := EncodeSnapshot(idx)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	if !strings.HasPrefix(string(data), `{"example.com":{"/":{"sid":{`) {
		t.Errorf("unexpected snapshot shape: %s", data)
	}
	again, err := EncodeSnapshot(idx.Clone())
	if err != nil || string(again) != string(data) {
		t.Errorf("encoding is not deterministic:\n%s\n%s", data, again)
	}

	back, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	assertSameCookies(t, back, idx)
}

func assertSameCookies(t *testing.T, got, want *Index) {
	t.Helper()
	g, w := got.All(), want.All()
	if len(g) != len(w) {
		t.Fatalf("got %d cookies, want %d: %v vs %v", len(g), len(w), ids(g), ids(w))
	}
	for i := range w {
		a, b := g[i], w[i]
		if a.ID() != b.ID() || a.Value != b.Value || a.CreationIndex != b.CreationIndex ||
			a.Secure != b.Secure || a.HTTPOnly != b.HTTPOnly || a.SameSite != b.SameSite {
			t.Errorf("cookie %d = %+v, want %+v", i, a, b)
		}
	}
}

func TestSnapshotClampsFarFutureExpiry(t *testing.T) {
	idx := NewIndex()
	c := mk("example.com", "/", "sid", 1)
	c.Expires = time.Unix(253402300800, 0).UTC()
	idx.Put(c)

	data, err := EncodeSnapshot(idx)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	if !strings.Contains(string(data), `"expires":"9999-12-31T23:59:59Z"`) {
		t.Errorf("expiry not clamped: %s", data)
	}
	back, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	got, ok := back.Find("example.com", "/", "sid")
	if !ok {
		t.Fatal("cookie lost in round trip")
	}
	if !got.Expires.Equal(cookie.MaxExpiry) {
		t.Errorf("Expires = %v, want %v", got.Expires, cookie.MaxExpiry)
	}
}
