package cookiestore

import (
	"sort"

	"github.com/warpdl/cookiesync/pkg/cookie"
)

type (
	keyIndex    map[string]*cookie.Cookie
	pathIndex   map[string]keyIndex
	domainIndex map[string]pathIndex
)

// Index is the in-memory cookie table, keyed domain -> path -> key.
// Index performs no I/O and is not safe for concurrent use; stores wrap it
// with their own locking. Cookies are cloned on the way in and out so
// callers never share state with the index.
type Index struct {
	domains domainIndex
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{domains: make(domainIndex)}
}

// Find returns the cookie filed under (domain, path, key). Absence at any
// level is reported as (nil, false).
func (idx *Index) Find(domain, path, key string) (*cookie.Cookie, bool) {
	c, ok := idx.domains[domain][path][key]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// FindMatching returns the cookies visible to a request for domain and path.
// Candidate domains are domain plus its parent domains (PermuteDomain),
// falling back to domain alone when it has no registrable domain. An empty
// path selects every path; otherwise stored paths must PathMatch path.
// The order of the result is unspecified.
func (idx *Index) FindMatching(domain, path string, allowSpecialUseDomain bool) []*cookie.Cookie {
	if domain == "" {
		return nil
	}

	candidates := PermuteDomain(domain, allowSpecialUseDomain)
	if len(candidates) == 0 {
		candidates = []string{cookie.CanonicalDomain(domain)}
	}

	var out []*cookie.Cookie
	for _, d := range candidates {
		paths, ok := idx.domains[d]
		if !ok {
			continue
		}
		for cookiePath, keys := range paths {
			if path != "" && !PathMatch(path, cookiePath) {
				continue
			}
			for _, c := range keys {
				out = append(out, c.Clone())
			}
		}
	}
	return out
}

// Put files c under its own domain, path and key, replacing any existing
// cookie at that triple.
func (idx *Index) Put(c *cookie.Cookie) {
	paths, ok := idx.domains[c.Domain]
	if !ok {
		paths = make(pathIndex)
		idx.domains[c.Domain] = paths
	}
	keys, ok := paths[c.Path]
	if !ok {
		keys = make(keyIndex)
		paths[c.Path] = keys
	}
	keys[c.Key] = c.Clone()
}

// Remove deletes the cookie at (domain, path, key) and reports whether it
// existed. Emptied levels are pruned.
func (idx *Index) Remove(domain, path, key string) bool {
	keys, ok := idx.domains[domain][path]
	if !ok {
		return false
	}
	if _, ok := keys[key]; !ok {
		return false
	}
	delete(keys, key)
	if len(keys) == 0 {
		delete(idx.domains[domain], path)
	}
	if len(idx.domains[domain]) == 0 {
		delete(idx.domains, domain)
	}
	return true
}

// RemoveRange deletes every cookie under domain and path, or under domain
// alone when path is empty. It returns the number of cookies removed.
func (idx *Index) RemoveRange(domain, path string) int {
	paths, ok := idx.domains[domain]
	if !ok {
		return 0
	}
	if path == "" {
		n := 0
		for _, keys := range paths {
			n += len(keys)
		}
		delete(idx.domains, domain)
		return n
	}
	n := len(paths[path])
	delete(paths, path)
	if len(paths) == 0 {
		delete(idx.domains, domain)
	}
	return n
}

// RemoveAll resets the index to empty.
func (idx *Index) RemoveAll() {
	idx.domains = make(domainIndex)
}

// All returns every cookie ordered by CreationIndex ascending. Ties are
// broken by domain, then path, then key.
func (idx *Index) All() []*cookie.Cookie {
	out := make([]*cookie.Cookie, 0, idx.Len())
	for _, d := range sortedKeys(idx.domains) {
		paths := idx.domains[d]
		for _, p := range sortedKeys(paths) {
			keys := paths[p]
			for _, k := range sortedKeys(keys) {
				out = append(out, keys[k].Clone())
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreationIndex < out[j].CreationIndex
	})
	return out
}

// Len returns the number of cookies in the index.
func (idx *Index) Len() int {
	n := 0
	for _, paths := range idx.domains {
		for _, keys := range paths {
			n += len(keys)
		}
	}
	return n
}

// Domains returns the indexed domains in sorted order.
func (idx *Index) Domains() []string {
	return sortedKeys(idx.domains)
}

// Clone returns a deep copy of the index.
func (idx *Index) Clone() *Index {
	out := NewIndex()
	for _, paths := range idx.domains {
		for _, keys := range paths {
			for _, c := range keys {
				out.Put(c)
			}
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
