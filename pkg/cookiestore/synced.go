package cookiestore

import (
	"bytes"
	"context"
	"errors"
	"path"
	"sync"

	"github.com/warpdl/cookiesync/pkg/cookie"
	"github.com/warpdl/cookiesync/pkg/logger"
	"github.com/warpdl/cookiesync/pkg/remote"
)

// State is the connection state of a SyncedStore.
type State int32

const (
	Unconnected State = iota
	Connecting
	Ready
	Disconnected
)

func (s State) String() string {
	switch s {
	case Unconnected:
		return "unconnected"
	case Connecting:
		return "connecting"
	case Ready:
		return "ready"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Option configures a SyncedStore.
type Option func(*SyncedStore)

// WithLogger sets the logger used for connect, load and save events.
func WithLogger(l logger.Logger) Option {
	return func(s *SyncedStore) {
		if l != nil {
			s.log = l
		}
	}
}

// SyncedStore is a Store whose index is mirrored to one JSON snapshot file on
// a remote transport. The snapshot is loaded once by Connect; every mutation
// then rewrites the whole file before returning. Reads are served from
// memory and never wait on the network.
//
// Mutations are serialized internally. Two stores writing the same
// destination race, and the last upload wins.
type SyncedStore struct {
	dest string
	tr   remote.Transport
	log  logger.Logger

	// saveMu serializes lifecycle changes and mutate-then-upload sequences.
	saveMu sync.Mutex

	mu       sync.RWMutex
	idx      *Index
	state    State
	desynced bool
}

// NewSyncedStore returns an unconnected store that mirrors its index to the
// file at dest on t.
func NewSyncedStore(dest string, t remote.Transport, opts ...Option) *SyncedStore {
	s := &SyncedStore{
		dest: dest,
		tr:   t,
		log:  logger.NewNopLogger(),
		idx:  NewIndex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the destination path of the snapshot.
func (s *SyncedStore) Path() string {
	return s.dest
}

// State returns the current connection state.
func (s *SyncedStore) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Desynced reports whether the last save failed, leaving the in-memory index
// ahead of the remote snapshot. It is cleared by the next successful save or
// by Reload.
func (s *SyncedStore) Desynced() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.desynced
}

// Connect opens the transport session, ensures the destination directory
// exists and loads the snapshot. On any failure the session is closed and
// the store is left Unconnected with an empty index.
func (s *SyncedStore) Connect(ctx context.Context, opts remote.Options) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	switch {
	case s.state == Connecting || s.state == Ready:
		s.mu.Unlock()
		return newOpError("connect", ErrAlreadyConnected, nil)
	case s.dest == "" || s.tr == nil:
		s.mu.Unlock()
		return newOpError("connect", ErrConfig, errors.New("destination path and transport are required"))
	}
	s.state = Connecting
	s.mu.Unlock()

	fail := func(err *OpError) error {
		_ = s.tr.Close()
		s.mu.Lock()
		s.idx = NewIndex()
		s.state = Unconnected
		s.desynced = false
		s.mu.Unlock()
		s.log.Error("%v", err)
		return err
	}

	if err := s.tr.Connect(ctx, opts); err != nil {
		if errors.Is(err, remote.ErrInvalidOptions) {
			return fail(newOpError("connect", ErrConfig, err))
		}
		return fail(newOpError("connect", ErrConnection, err))
	}
	if err := s.tr.EnsureDir(ctx, path.Dir(s.dest)); err != nil {
		return fail(newOpError("connect", ErrConnection, err))
	}
	idx, err := s.load(ctx, "connect")
	if err != nil {
		return fail(err)
	}

	s.mu.Lock()
	s.idx = idx
	s.state = Ready
	s.desynced = false
	s.mu.Unlock()
	s.log.Info("connected to %s, loaded %d cookies", s.dest, idx.Len())
	return nil
}

// Reload re-reads the snapshot on the live session and replaces the index.
// On failure the current index is kept.
func (s *SyncedStore) Reload(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if s.State() != Ready {
		return newOpError("reload", ErrNotConnected, nil)
	}
	idx, err := s.load(ctx, "reload")
	if err != nil {
		s.log.Error("%v", err)
		return err
	}

	s.mu.Lock()
	s.idx = idx
	s.desynced = false
	s.mu.Unlock()
	s.log.Info("reloaded %d cookies from %s", idx.Len(), s.dest)
	return nil
}

// Disconnect closes the transport session. It does not save: every
// successful mutation has already been uploaded.
func (s *SyncedStore) Disconnect() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.state != Ready {
		s.mu.Unlock()
		return nil
	}
	s.state = Disconnected
	s.mu.Unlock()

	if err := s.tr.Close(); err != nil {
		return newOpError("disconnect", ErrConnection, err)
	}
	s.log.Debug("disconnected from %s", s.dest)
	return nil
}

// load lists the destination directory and decodes the snapshot if present.
func (s *SyncedStore) load(ctx context.Context, op string) (*Index, *OpError) {
	dir, name := path.Dir(s.dest), path.Base(s.dest)
	entries, err := s.tr.List(ctx, dir)
	if err != nil {
		return nil, newOpError(op, ErrTransport, err)
	}
	found := false
	for _, e := range entries {
		if e.Name == name {
			found = true
			break
		}
	}
	if !found {
		s.log.Debug("no snapshot at %s, starting empty", s.dest)
		return NewIndex(), nil
	}

	data, err := remote.ReadAll(ctx, s.tr, s.dest)
	if err != nil {
		return nil, newOpError(op, ErrTransport, err)
	}
	idx, err := DecodeSnapshot(data)
	if err != nil {
		return nil, newOpError(op, ErrCorruptSnapshot, err)
	}
	return idx, nil
}

// mutate applies fn to the index and uploads the resulting snapshot. The
// index lock is released before the upload so readers are not blocked.
func (s *SyncedStore) mutate(ctx context.Context, op string, fn func(*Index)) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.state != Ready {
		s.mu.Unlock()
		return newOpError(op, ErrNotConnected, nil)
	}
	fn(s.idx)
	n := s.idx.Len()
	data, err := EncodeSnapshot(s.idx)
	if err != nil {
		s.desynced = true
		s.mu.Unlock()
		return newOpError(op, ErrTransport, err)
	}
	s.mu.Unlock()

	if err := s.tr.UploadFrom(ctx, bytes.NewReader(data), s.dest); err != nil {
		s.setDesynced(true)
		s.log.Error("%s: save %s failed, remote snapshot is stale: %v", op, s.dest, err)
		return newOpError(op, ErrTransport, err)
	}
	s.setDesynced(false)
	s.log.Debug("%s: saved %d cookies to %s", op, n, s.dest)
	return nil
}

func (s *SyncedStore) setDesynced(v bool) {
	s.mu.Lock()
	s.desynced = v
	s.mu.Unlock()
}

func (s *SyncedStore) read(op string, fn func(*Index)) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != Ready {
		return newOpError(op, ErrNotConnected, nil)
	}
	fn(s.idx)
	return nil
}

// FindCookie returns the cookie at (domain, path, key), or (nil, nil) when
// there is none.
func (s *SyncedStore) FindCookie(domain, path, key string) (*cookie.Cookie, error) {
	var c *cookie.Cookie
	err := s.read("find", func(idx *Index) {
		c, _ = idx.Find(domain, path, key)
	})
	return c, err
}

// FindCookies returns the cookies visible to domain and path. See
// Index.FindMatching.
func (s *SyncedStore) FindCookies(domain, path string, allowSpecialUseDomain bool) ([]*cookie.Cookie, error) {
	var out []*cookie.Cookie
	err := s.read("find", func(idx *Index) {
		out = idx.FindMatching(domain, path, allowSpecialUseDomain)
	})
	return out, err
}

// GetAllCookies returns every cookie in creation order.
func (s *SyncedStore) GetAllCookies() ([]*cookie.Cookie, error) {
	var out []*cookie.Cookie
	err := s.read("list", func(idx *Index) {
		out = idx.All()
	})
	return out, err
}

// PutCookie stores c and saves the snapshot.
func (s *SyncedStore) PutCookie(ctx context.Context, c *cookie.Cookie) error {
	if err := checkCookie("put", c); err != nil {
		return err
	}
	return s.mutate(ctx, "put", func(idx *Index) { idx.Put(c) })
}

// PutCookies stores a batch of cookies with a single snapshot upload. Nil
// entries are rejected before anything is stored.
func (s *SyncedStore) PutCookies(ctx context.Context, cookies []*cookie.Cookie) error {
	for _, c := range cookies {
		if err := checkCookie("put", c); err != nil {
			return err
		}
	}
	return s.mutate(ctx, "put", func(idx *Index) {
		for _, c := range cookies {
			idx.Put(c)
		}
	})
}

// UpdateCookie stores newCookie. oldCookie is not consulted.
func (s *SyncedStore) UpdateCookie(ctx context.Context, _, newCookie *cookie.Cookie) error {
	if err := checkCookie("update", newCookie); err != nil {
		return err
	}
	return s.mutate(ctx, "update", func(idx *Index) { idx.Put(newCookie) })
}

// RemoveCookie deletes the cookie at (domain, path, key) and saves the
// snapshot. A missing cookie is not an error.
func (s *SyncedStore) RemoveCookie(ctx context.Context, domain, path, key string) error {
	return s.mutate(ctx, "remove", func(idx *Index) { idx.Remove(domain, path, key) })
}

// RemoveCookies deletes every cookie under domain and path (all paths when
// path is empty) and saves the snapshot.
func (s *SyncedStore) RemoveCookies(ctx context.Context, domain, path string) error {
	return s.mutate(ctx, "remove", func(idx *Index) { idx.RemoveRange(domain, path) })
}

// RemoveAllCookies empties the store and saves the snapshot.
func (s *SyncedStore) RemoveAllCookies(ctx context.Context) error {
	return s.mutate(ctx, "remove all", func(idx *Index) { idx.RemoveAll() })
}
