package cookiestore

import (
	"context"
	"errors"
	"testing"

	"github.com/warpdl/cookiesync/pkg/cookie"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.PutCookie(ctx, nil); !errors.Is(err, ErrConfig) {
		t.Errorf("PutCookie(nil) = %v, want ErrConfig", err)
	}
	if err := s.PutCookie(ctx, mk("example.com", "/", "a", 2)); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateCookie(ctx, nil, mk("example.com", "/app", "b", 1)); err != nil {
		t.Fatal(err)
	}

	c, err := s.FindCookie("example.com", "/", "a")
	if err != nil || c == nil {
		t.Fatalf("FindCookie = %v, %v", c, err)
	}
	if c, err := s.FindCookie("example.com", "/", "zzz"); c != nil || err != nil {
		t.Errorf("FindCookie(missing) = %v, %v; want nil, nil", c, err)
	}
	matched, _ := s.FindCookies("www.example.com", "/app/x", false)
	if len(matched) != 2 {
		t.Errorf("FindCookies = %v", ids(matched))
	}
	all, _ := s.GetAllCookies()
	if len(all) != 2 || all[0].Key != "b" {
		t.Errorf("GetAllCookies = %v", ids(all))
	}

	s.RemoveCookie(ctx, "example.com", "/", "a")
	s.RemoveCookies(ctx, "example.com", "/app")
	if all, _ := s.GetAllCookies(); len(all) != 0 {
		t.Errorf("store not empty: %v", ids(all))
	}
	if err := s.PutCookies(ctx, []*cookie.Cookie{mk("example.com", "/", "a", 3), nil}); !errors.Is(err, ErrConfig) {
		t.Errorf("PutCookies with nil = %v, want ErrConfig", err)
	}
	if all, _ := s.GetAllCookies(); len(all) != 0 {
		t.Errorf("rejected batch stored %v", ids(all))
	}
	s.PutCookies(ctx, []*cookie.Cookie{mk("example.com", "/", "a", 3), mk("example.com", "/", "b", 4)})
	if all, _ := s.GetAllCookies(); len(all) != 2 {
		t.Errorf("PutCookies stored %v", ids(all))
	}
	s.RemoveAllCookies(ctx)
	if all, _ := s.GetAllCookies(); len(all) != 0 {
		t.Errorf("RemoveAllCookies left %v", ids(all))
	}
}

func TestOpError(t *testing.T) {
	cause := errors.New("boom")
	err := newOpError("put", ErrTransport, cause)
	if got := err.Error(); got != "cookiestore: put: snapshot transfer failed: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrTransport) || !errors.Is(err, cause) {
		t.Error("OpError should match both its kind and its cause")
	}
	if errors.Is(err, ErrConfig) {
		t.Error("OpError matched an unrelated kind")
	}
	if got := newOpError("find", ErrNotConnected, nil).Error(); got != "cookiestore: find: store is not connected" {
		t.Errorf("Error() = %q", got)
	}
}
