// Package cookiestore holds HTTP cookies in a three-level index
// (domain -> path -> key) and provides stores over it: an in-memory store and
// a store whose index is mirrored to a single JSON snapshot on a remote
// transport after every mutation.
package cookiestore

import (
	"context"

	"github.com/warpdl/cookiesync/pkg/cookie"
)

// Store is the capability set shared by cookie store backends.
//
// Lookups never report absence as an error: FindCookie returns (nil, nil)
// when no cookie exists at the triple. Mutations take a context because
// persistent backends perform I/O before returning.
type Store interface {
	FindCookie(domain, path, key string) (*cookie.Cookie, error)
	FindCookies(domain, path string, allowSpecialUseDomain bool) ([]*cookie.Cookie, error)
	PutCookie(ctx context.Context, c *cookie.Cookie) error
	UpdateCookie(ctx context.Context, oldCookie, newCookie *cookie.Cookie) error
	RemoveCookie(ctx context.Context, domain, path, key string) error
	RemoveCookies(ctx context.Context, domain, path string) error
	RemoveAllCookies(ctx context.Context) error
	GetAllCookies() ([]*cookie.Cookie, error)
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SyncedStore)(nil)
)

func checkCookie(op string, c *cookie.Cookie) error {
	if c == nil {
		return newOpError(op, ErrConfig, errNilCookie)
	}
	return nil
}
