package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-ini/ini"
)

// Profile is one section of the INI profile file:
//
//	[default]
//	remote      = ftp://ftp.example.com/jars/cookies.json
//	user        = bob
//	secure      = true
//	timeout     = 30s
//	known_hosts = /home/bob/.config/cookiesync/known_hosts
//	ssh_key     = /home/bob/.ssh/id_ed25519
type Profile struct {
	Name       string
	Remote     string
	User       string
	Password   string
	Secure     bool
	Timeout    time.Duration
	KnownHosts string
	SSHKey     string
}

// ErrUnknownProfile is returned when a named profile has no section.
var ErrUnknownProfile = errors.New("unknown profile")

// LoadProfile reads profile name from file. A missing file or a missing
// default section yields an empty profile; a missing named section is an
// error.
func LoadProfile(file, name string) (*Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	p := &Profile{Name: name}

	cfg, err := ini.Load(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if name != DefaultProfile {
				return nil, fmt.Errorf("%w %q: %s does not exist", ErrUnknownProfile, name, file)
			}
			return p, nil
		}
		return nil, fmt.Errorf("load %s: %w", file, err)
	}

	sec, err := cfg.GetSection(name)
	if err != nil {
		if name != DefaultProfile {
			return nil, fmt.Errorf("%w %q in %s", ErrUnknownProfile, name, file)
		}
		return p, nil
	}

	p.Remote = sec.Key("remote").String()
	p.User = sec.Key("user").String()
	p.Password = sec.Key("password").String()
	p.KnownHosts = expandHome(sec.Key("known_hosts").String())
	p.SSHKey = expandHome(sec.Key("ssh_key").String())
	if sec.HasKey("secure") {
		if p.Secure, err = sec.Key("secure").Bool(); err != nil {
			return nil, fmt.Errorf("profile %q: invalid secure: %w", name, err)
		}
	}
	if sec.HasKey("timeout") {
		if p.Timeout, err = parseTimeout(sec.Key("timeout").String()); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
	}
	return p, nil
}

// SaveProfile writes p into file, replacing its section and keeping the
// other profiles. Passwords are never written; they belong in the keyring.
func SaveProfile(file string, p *Profile) error {
	cfg, err := ini.Load(file)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
		cfg = ini.Empty()
	}
	name := p.Name
	if name == "" {
		name = DefaultProfile
	}
	cfg.DeleteSection(name)
	sec, err := cfg.NewSection(name)
	if err != nil {
		return err
	}
	set := func(key, val string) {
		if val != "" {
			sec.Key(key).SetValue(val)
		}
	}
	set("remote", p.Remote)
	set("user", p.User)
	if p.Secure {
		set("secure", "true")
	}
	if p.Timeout > 0 {
		set("timeout", p.Timeout.String())
	}
	set("known_hosts", p.KnownHosts)
	set("ssh_key", p.SSHKey)

	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return err
	}
	return cfg.SaveTo(file)
}

// parseTimeout accepts a Go duration ("45s") or a bare number of
// milliseconds.
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("invalid timeout %q", s)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid timeout %q", s)
	}
	return d, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
