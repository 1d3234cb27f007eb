package cookiestore

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/warpdl/cookiesync/pkg/cookie"
)

// EncodeSnapshot serializes the whole index as a JSON object
// domain -> path -> key -> cookie. Map keys are emitted in sorted order so
// equal indexes encode to identical bytes.
func EncodeSnapshot(idx *Index) ([]byte, error) {
	return json.Marshal(idx.domains)
}

// DecodeSnapshot parses snapshot bytes into a new Index. Empty input,
// whitespace and the literal null decode to an empty index. Leaves with an
// empty domain, path or key take it from their map keys; a leaf that names
// different coordinates than the keys it is filed under is rejected. Any
// error means no part of the snapshot was accepted.
func DecodeSnapshot(data []byte) (*Index, error) {
	idx := NewIndex()
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return idx, nil
	}

	var raw map[string]map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for domain, paths := range raw {
		for path, keys := range paths {
			for key, leaf := range keys {
				c, err := cookie.FromJSONBytes(leaf)
				if err != nil {
					return nil, fmt.Errorf("%s;%s;%s: %w", domain, path, key, err)
				}
				if err := fileLeaf(c, domain, path, key); err != nil {
					return nil, err
				}
				idx.Put(c)
			}
		}
	}
	return idx, nil
}

func fileLeaf(c *cookie.Cookie, domain, path, key string) error {
	fill := func(field *string, name, want string) error {
		if *field == "" {
			*field = want
			return nil
		}
		if *field != want {
			return fmt.Errorf("cookie %s %q filed under %q", name, *field, want)
		}
		return nil
	}
	if err := fill(&c.Domain, "domain", domain); err != nil {
		return err
	}
	if err := fill(&c.Path, "path", path); err != nil {
		return err
	}
	return fill(&c.Key, "key", key)
}
