package cookiejar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/warpdl/cookiesync/pkg/cookiestore"
	"github.com/warpdl/cookiesync/pkg/logger"
	"github.com/warpdl/cookiesync/pkg/remote"
)

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func names(cs []*http.Cookie) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name + "=" + c.Value
	}
	return out
}

func TestJarSuperDomainAndHostOnly(t *testing.T) {
	store := cookiestore.NewMemoryStore()
	j := New(store)
	j.SetCookies(mustURL(t, "https://www.example.com/login"), []*http.Cookie{
		{Name: "shared", Value: "1", Domain: "example.com", Path: "/"},
		{Name: "host", Value: "2", Path: "/"},
	})

	tests := []struct {
		url  string
		want []string
	}{
		{"https://www.example.com/", []string{"shared=1", "host=2"}},
		{"https://api.example.com/", []string{"shared=1"}},
		{"https://example.com/", []string{"shared=1"}},
		{"https://sub.www.example.com/", []string{"shared=1"}},
		{"https://example.org/", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := names(j.Cookies(mustURL(t, tt.url)))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Cookies(%s) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestJarRejectsForeignAndPublicSuffixDomains(t *testing.T) {
	store := cookiestore.NewMemoryStore()
	j := New(store)
	err := j.SetCookiesContext(context.Background(), mustURL(t, "https://www.example.com/"), []*http.Cookie{
		{Name: "foreign", Value: "x", Domain: "other.com"},
		{Name: "suffix", Value: "x", Domain: "com"},
		{Name: "ok", Value: "x"},
	})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	all, _ := store.GetAllCookies()
	if len(all) != 1 || all[0].Key != "ok" {
		t.Errorf("stored %d cookies, want only the host cookie", len(all))
	}
}

func TestJarDefaultPathAndOrdering(t *testing.T) {
	j := New(cookiestore.NewMemoryStore())
	u := mustURL(t, "http://example.com/docs/page.html")
	j.SetCookies(u, []*http.Cookie{
		{Name: "a", Value: "root", Path: "/"},
		{Name: "b", Value: "default"},
		{Name: "c", Value: "deep", Path: "/docs/api"},
	})
	j.SetCookies(u, []*http.Cookie{{Name: "d", Value: "later", Path: "/"}})

	got := names(j.Cookies(mustURL(t, "http://example.com/docs/api/x")))
	want := []string{"c=deep", "b=default", "a=root", "d=later"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Cookies = %v, want %v", got, want)
	}
	if got := names(j.Cookies(mustURL(t, "http://example.com/other"))); !reflect.DeepEqual(got, []string{"a=root", "d=later"}) {
		t.Errorf("Cookies(/other) = %v", got)
	}
}

func TestJarSecureAndScheme(t *testing.T) {
	j := New(cookiestore.NewMemoryStore())
	j.SetCookies(mustURL(t, "https://example.com/"), []*http.Cookie{
		{Name: "s", Value: "1", Secure: true},
		{Name: "p", Value: "2"},
	})
	if got := names(j.Cookies(mustURL(t, "http://example.com/"))); !reflect.DeepEqual(got, []string{"p=2"}) {
		t.Errorf("http Cookies = %v", got)
	}
	if got := j.Cookies(mustURL(t, "ftp://example.com/")); got != nil {
		t.Errorf("non-http scheme returned %v", names(got))
	}
}

func TestJarExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := now
	store := cookiestore.NewMemoryStore()
	j := New(store, WithClock(func() time.Time { return clock }))
	u := mustURL(t, "https://example.com/")

	j.SetCookies(u, []*http.Cookie{
		{Name: "short", Value: "1", MaxAge: 60},
		{Name: "long", Value: "2", Expires: now.Add(24 * time.Hour)},
	})
	first, _ := store.FindCookie("example.com", "/", "short")

	clock = now.Add(30 * time.Second)
	j.SetCookies(u, []*http.Cookie{{Name: "short", Value: "1b", MaxAge: 60}})
	updated, _ := store.FindCookie("example.com", "/", "short")
	if updated.CreationIndex != first.CreationIndex || !updated.Creation.Equal(first.Creation) {
		t.Error("replacing a cookie should keep its creation time and index")
	}

	clock = now.Add(80 * time.Second)
	if got := names(j.Cookies(u)); !reflect.DeepEqual(got, []string{"short=1b", "long=2"}) {
		t.Errorf("Cookies = %v", got)
	}

	clock = now.Add(2 * time.Hour)
	if got := names(j.Cookies(u)); !reflect.DeepEqual(got, []string{"long=2"}) {
		t.Errorf("Cookies after Max-Age = %v", got)
	}

	j.SetCookies(u, []*http.Cookie{{Name: "long", Value: "", MaxAge: -1}})
	if c, _ := store.FindCookie("example.com", "/", "long"); c != nil {
		t.Error("Max-Age<0 did not delete the stored cookie")
	}
}

func TestJarHugeMaxAge(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := cookiestore.NewMemoryStore()
	j := New(store, WithClock(func() time.Time { return now }))
	u := mustURL(t, "https://example.com/")

	j.SetCookies(u, []*http.Cookie{{Name: "sid", Value: "0"}})
	for _, maxAge := range []int{10_000_000_000, 20_000_000_000} {
		j.SetCookies(u, []*http.Cookie{{Name: "sid", Value: "1", MaxAge: maxAge}})
		c, _ := store.FindCookie("example.com", "/", "sid")
		if c == nil {
			t.Fatalf("Max-Age=%d: cookie not stored", maxAge)
		}
		if exp, _ := c.ExpiryTime(); exp.Before(now.AddDate(100, 0, 0)) {
			t.Errorf("Max-Age=%d: expiry %v wrapped", maxAge, exp)
		}
	}
	if got := names(j.Cookies(u)); !reflect.DeepEqual(got, []string{"sid=1"}) {
		t.Errorf("Cookies = %v", got)
	}
}

func TestJarLogsStoreErrors(t *testing.T) {
	log := logger.NewMockLogger()
	store := cookiestore.NewSyncedStore("/jar.json", remote.NewMemFS())
	j := New(store, WithLogger(log))
	u := mustURL(t, "https://example.com/")

	j.SetCookies(u, []*http.Cookie{{Name: "a", Value: "secret-value"}})
	if got := j.Cookies(u); got != nil {
		t.Errorf("Cookies on an unconnected store = %v", names(got))
	}
	if len(log.WarningCalls) != 2 {
		t.Fatalf("warnings = %v", log.WarningCalls)
	}
}

func TestJarWithHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/set" {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
			return
		}
		c, err := r.Cookie("session")
		if err != nil {
			http.Error(w, "no cookie", http.StatusUnauthorized)
			return
		}
		w.Write([]byte(c.Value))
	}))
	defer srv.Close()

	ctx := context.Background()
	tr := remote.NewMemFS()
	store := cookiestore.NewSyncedStore("/jar.json", tr)
	if err := store.Connect(ctx, remote.Options{}); err != nil {
		t.Fatal(err)
	}
	client := &http.Client{Jar: New(store)}

	resp, err := client.Get(srv.URL + "/set")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = client.Get(srv.URL + "/check")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, cookie was not sent back", resp.StatusCode)
	}

	data, err := remote.ReadAll(ctx, tr, "/jar.json")
	if err != nil || len(data) == 0 {
		t.Errorf("jar was not persisted: %v", err)
	}
}
