package cookie

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

const infinity = "Infinity"

// wireCookie is the JSON shape of a Cookie.
type wireCookie struct {
	Key           string          `json:"key"`
	Value         string          `json:"value"`
	Expires       string          `json:"expires,omitempty"`
	MaxAge        json.RawMessage `json:"maxAge,omitempty"`
	Domain        string          `json:"domain,omitempty"`
	Path          string          `json:"path,omitempty"`
	Secure        bool            `json:"secure,omitempty"`
	HTTPOnly      bool            `json:"httpOnly,omitempty"`
	Extensions    []string        `json:"extensions,omitempty"`
	HostOnly      *bool           `json:"hostOnly,omitempty"`
	PathIsDefault *bool           `json:"pathIsDefault,omitempty"`
	Creation      string          `json:"creation,omitempty"`
	LastAccessed  string          `json:"lastAccessed,omitempty"`
	SameSite      string          `json:"sameSite,omitempty"`
	CreationIndex int64           `json:"creationIndex,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (c Cookie) MarshalJSON() ([]byte, error) {
	w := wireCookie{
		Key:           c.Key,
		Value:         c.Value,
		Domain:        c.Domain,
		Path:          c.Path,
		Secure:        c.Secure,
		HTTPOnly:      c.HTTPOnly,
		Extensions:    c.Extensions,
		SameSite:      c.SameSite,
		CreationIndex: c.CreationIndex,
		Creation:      formatTime(c.Creation),
		LastAccessed:  formatTime(c.LastAccessed),
	}
	if !c.Expires.IsZero() {
		w.Expires = formatTime(c.Expires)
	}
	if c.MaxAge != nil {
		w.MaxAge = json.RawMessage(fmt.Sprintf("%d", *c.MaxAge))
	}
	if c.HostOnly {
		w.HostOnly = &c.HostOnly
	}
	if c.PathIsDefault {
		w.PathIsDefault = &c.PathIsDefault
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Cookie) UnmarshalJSON(data []byte) error {
	var w wireCookie
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := Cookie{
		Key:           w.Key,
		Value:         w.Value,
		Domain:        w.Domain,
		Path:          w.Path,
		Secure:        w.Secure,
		HTTPOnly:      w.HTTPOnly,
		Extensions:    w.Extensions,
		SameSite:      w.SameSite,
		CreationIndex: w.CreationIndex,
	}
	if w.HostOnly != nil {
		out.HostOnly = *w.HostOnly
	}
	if w.PathIsDefault != nil {
		out.PathIsDefault = *w.PathIsDefault
	}

	var err error
	if out.Expires, err = parseTime("expires", w.Expires); err != nil {
		return err
	}
	if out.Creation, err = parseTime("creation", w.Creation); err != nil {
		return err
	}
	if out.LastAccessed, err = parseTime("lastAccessed", w.LastAccessed); err != nil {
		return err
	}
	if out.MaxAge, err = parseMaxAge(w.MaxAge); err != nil {
		return err
	}

	*c = out
	return nil
}

// ToJSON encodes c using the stable cookie JSON encoding.
func ToJSON(c *Cookie) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FromJSON decodes a cookie from its JSON encoding and advances the creation
// counter past its creation index.
func FromJSON(s string) (*Cookie, error) {
	return FromJSONBytes([]byte(s))
}

// FromJSONBytes is FromJSON over a byte slice.
func FromJSONBytes(b []byte) (*Cookie, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil, fmt.Errorf("cookie: expected JSON object")
	}
	var c Cookie
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("cookie: %w", err)
	}
	Observe(c.CreationIndex)
	return &c, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return ClampExpiry(t).UTC().Format(time.RFC3339Nano)
}

func parseTime(field, s string) (time.Time, error) {
	if s == "" || s == infinity {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return t, nil
}

// parseMaxAge accepts a JSON number or the strings "Infinity"/"-Infinity".
// "Infinity" means no Max-Age; "-Infinity" means already expired.
func parseMaxAge(raw json.RawMessage) (*int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.TrimSpace(s) {
		case infinity:
			return nil, nil
		case "-" + infinity:
			v := 0
			return &v, nil
		}
		return nil, fmt.Errorf("invalid maxAge %q", s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("invalid maxAge: %w", err)
	}
	if f > math.MaxInt32 {
		f = math.MaxInt32
	}
	v := int(f)
	return &v, nil
}
