package cookiestore

import (
	"context"
	"errors"
	"sync"

	"github.com/warpdl/cookiesync/pkg/cookie"
)

var errNilCookie = errors.New("nil cookie")

// MemoryStore is a Store over an Index with no persistence.
type MemoryStore struct {
	mu  sync.RWMutex
	idx *Index
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{idx: NewIndex()}
}

func (s *MemoryStore) FindCookie(domain, path, key string) (*cookie.Cookie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, _ := s.idx.Find(domain, path, key)
	return c, nil
}

func (s *MemoryStore) FindCookies(domain, path string, allowSpecialUseDomain bool) ([]*cookie.Cookie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx.FindMatching(domain, path, allowSpecialUseDomain), nil
}

func (s *MemoryStore) PutCookie(_ context.Context, c *cookie.Cookie) error {
	if err := checkCookie("put", c); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx.Put(c)
	return nil
}

// PutCookies stores every cookie in cookies. Nil entries are rejected before
// anything is stored.
func (s *MemoryStore) PutCookies(_ context.Context, cookies []*cookie.Cookie) error {
	for _, c := range cookies {
		if err := checkCookie("put", c); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cookies {
		s.idx.Put(c)
	}
	return nil
}

func (s *MemoryStore) UpdateCookie(ctx context.Context, _, newCookie *cookie.Cookie) error {
	return s.PutCookie(ctx, newCookie)
}

func (s *MemoryStore) RemoveCookie(_ context.Context, domain, path, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx.Remove(domain, path, key)
	return nil
}

func (s *MemoryStore) RemoveCookies(_ context.Context, domain, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx.RemoveRange(domain, path)
	return nil
}

func (s *MemoryStore) RemoveAllCookies(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx.RemoveAll()
	return nil
}

func (s *MemoryStore) GetAllCookies() ([]*cookie.Cookie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx.All(), nil
}
