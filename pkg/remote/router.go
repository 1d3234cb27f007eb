package remote

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnsupportedScheme is returned when no transport is registered for a
// URL scheme.
var ErrUnsupportedScheme = errors.New("unsupported remote scheme")

// Factory creates a fresh, unconnected Transport.
type Factory func() Transport

// SchemeRouter maps remote URL schemes to transport factories.
// The zero value is not usable; use NewSchemeRouter to create one.
type SchemeRouter struct {
	routes map[string]Factory
}

// NewSchemeRouter creates a SchemeRouter with the built-in transports:
// ftp, ftps, sftp, file and mem.
func NewSchemeRouter() *SchemeRouter {
	r := &SchemeRouter{routes: make(map[string]Factory)}
	ftpFactory := func() Transport { return NewFTP() }
	r.routes["ftp"] = ftpFactory
	r.routes["ftps"] = ftpFactory
	r.routes["sftp"] = func() Transport { return NewSFTP() }
	r.routes["file"] = func() Transport { return NewOSFS() }
	r.routes["mem"] = func() Transport { return NewMemFS() }
	return r
}

// Register adds or replaces the factory for the given scheme.
func (r *SchemeRouter) Register(scheme string, factory Factory) {
	r.routes[strings.ToLower(scheme)] = factory
}

// New creates a transport for scheme (case-insensitive).
func (r *SchemeRouter) New(scheme string) (Transport, error) {
	factory, ok := r.routes[strings.ToLower(scheme)]
	if !ok {
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnsupportedScheme, scheme, strings.Join(r.SupportedSchemes(), ", "))
	}
	return factory(), nil
}

// SupportedSchemes returns the registered schemes in sorted order.
func (r *SchemeRouter) SupportedSchemes() []string {
	out := make([]string, 0, len(r.routes))
	for s := range r.routes {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// DefaultPort returns the default port for scheme, or 0 when the scheme has
// no network port.
func DefaultPort(scheme string) int {
	switch strings.ToLower(scheme) {
	case "ftp", "ftps":
		return DefaultFTPPort
	case "sftp":
		return DefaultSFTPPort
	}
	return 0
}
