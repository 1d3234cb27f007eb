// Package config resolves where a cookie snapshot lives and how to reach it.
// Sources, highest precedence first: command-line flags and their
// environment variables, the remote URL, the INI profile, then defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/warpdl/cookiesync/pkg/cookiestore"
	"github.com/warpdl/cookiesync/pkg/credman/keyring"
	"github.com/warpdl/cookiesync/pkg/remote"
)

const (
	// ConfigDirEnv overrides the configuration directory.
	ConfigDirEnv = "COOKIESYNC_CONFIG_DIR"
	// FileName is the profile file inside the configuration directory.
	FileName = "config.ini"
	// DefaultProfile is the profile section used when none is named.
	DefaultProfile = "default"
	// KnownHostsFileName is the TOFU known_hosts file used for SFTP.
	KnownHostsFileName = "known_hosts"
)

// Dir returns the configuration directory: $COOKIESYNC_CONFIG_DIR, or
// "cookiesync" under the user configuration directory.
func Dir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return filepath.Abs(dir)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "cookiesync"), nil
}

// Config is a fully resolved connection: the transport scheme, the snapshot
// path on that transport and the session options.
type Config struct {
	Scheme  string
	Path    string
	Options remote.Options
}

// Overrides carries values from flags or environment variables. Zero values
// defer to lower-precedence sources.
type Overrides struct {
	Remote     string
	User       string
	Password   string
	Secure     bool
	Timeout    time.Duration
	KnownHosts string
	SSHKey     string
}

func configErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", cookiestore.ErrConfig, fmt.Sprintf(format, args...))
}

// ParseRemote parses scheme://[user[:password]@]host[:port]/path into a
// Config. Credentials and port in the URL are kept; defaults are not
// applied.
func ParseRemote(raw string) (*Config, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, configErr("no remote configured")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, configErr("invalid remote %q: %v", redactRaw(raw), err)
	}
	if u.Scheme == "" {
		return nil, configErr("remote %q has no scheme", raw)
	}

	cfg := &Config{
		Scheme: strings.ToLower(u.Scheme),
		Path:   u.Path,
	}
	cfg.Options.Host = u.Hostname()
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return nil, configErr("invalid port %q", p)
		}
		cfg.Options.Port = port
	}
	if u.User != nil {
		cfg.Options.User = u.User.Username()
		cfg.Options.Password, _ = u.User.Password()
	}
	cfg.Options.Secure = cfg.Scheme == "ftps"
	return cfg, nil
}

// Resolve merges overrides, the remote URL and profile p into a validated
// Config. knownHostsDefault is used for SFTP when no known_hosts file is
// configured.
func Resolve(p *Profile, ov Overrides, knownHostsDefault string) (*Config, error) {
	if p == nil {
		p = &Profile{}
	}
	raw := first(ov.Remote, p.Remote)
	cfg, err := ParseRemote(raw)
	if err != nil {
		return nil, err
	}

	o := &cfg.Options
	o.User = first(ov.User, o.User, p.User)
	o.Password = first(ov.Password, o.Password, p.Password)
	o.Secure = ov.Secure || o.Secure || p.Secure
	switch {
	case ov.Timeout > 0:
		o.Timeout = ov.Timeout
	case p.Timeout > 0:
		o.Timeout = p.Timeout
	default:
		o.Timeout = remote.DefaultTimeout
	}
	o.KnownHostsPath = first(ov.KnownHosts, p.KnownHosts, knownHostsDefault)
	o.SSHKeyPath = first(ov.SSHKey, p.SSHKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the scheme is supported, the path names a file and
// network schemes have a host.
func (c *Config) Validate() error {
	if _, err := remote.NewSchemeRouter().New(c.Scheme); err != nil {
		return configErr("%v", err)
	}
	if c.Path == "" || strings.HasSuffix(c.Path, "/") {
		return configErr("remote path %q must name a file", c.Path)
	}
	if c.IsNetwork() && c.Options.Host == "" {
		return configErr("%s remote requires a host", c.Scheme)
	}
	if c.Scheme == "sftp" && c.Options.User == "" {
		return configErr("sftp remote requires a user")
	}
	return nil
}

// IsNetwork reports whether the scheme reaches a server.
func (c *Config) IsNetwork() bool {
	switch c.Scheme {
	case "file", "mem":
		return false
	}
	return true
}

// Account is the keyring account for the remote's password.
func (c *Config) Account() string {
	host := c.Options.Host
	if c.Options.Port > 0 {
		host += ":" + strconv.Itoa(c.Options.Port)
	}
	if c.Options.User == "" {
		return host
	}
	return c.Options.User + "@" + host
}

// FillPassword looks the password up in store when none was configured.
// A missing entry is not an error.
func (c *Config) FillPassword(store keyring.Store) error {
	if c.Options.Password != "" || !c.IsNetwork() || store == nil {
		return nil
	}
	pw, err := store.GetPassword(c.Account())
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("keyring lookup for %s: %w", c.Account(), err)
	}
	c.Options.Password = pw
	return nil
}

// String renders the remote as a URL without the password.
func (c *Config) String() string {
	u := url.URL{Scheme: c.Scheme, Path: c.Path, Host: c.Options.Host}
	if c.Options.Port > 0 {
		u.Host += ":" + strconv.Itoa(c.Options.Port)
	}
	if c.Options.User != "" {
		u.User = url.User(c.Options.User)
	}
	return u.String()
}

func redactRaw(raw string) string {
	at := strings.LastIndex(raw, "@")
	scheme := strings.Index(raw, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return raw
	}
	creds := raw[scheme+3 : at]
	if i := strings.Index(creds, ":"); i >= 0 {
		creds = creds[:i] + ":xxxxx"
	}
	return raw[:scheme+3] + creds + raw[at:]
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
