package cookies

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/warpdl/cookiesync/pkg/cookie"
)

// ErrNoBrowser is returned by Detect when no supported browser store exists.
var ErrNoBrowser = errors.New("no supported browser cookie store found (tried Firefox, LibreWolf, Chrome, Chromium, Edge, Brave)")

// browserSpec lists where a browser keeps its cookie database.
type browserSpec struct {
	Name string
	// CookiePaths are direct database candidates (Chromium family); the
	// first that exists is used.
	CookiePaths []string
	// ProfilesIniPaths are profiles.ini candidates (Firefox family).
	ProfilesIniPaths []string
}

// parseProfilesIni returns the default profile directory named by a
// Firefox-style profiles.ini: the Default= key of an [Install*] section, or
// else the [Profile*] section with Default=1. Relative paths resolve against
// the ini file's directory. It returns "" when nothing usable is found.
func parseProfilesIni(iniPath string) string {
	cfg, err := ini.Load(iniPath)
	if err != nil {
		return ""
	}
	root := filepath.Dir(iniPath)
	resolve := func(p string, relative bool) string {
		p = filepath.FromSlash(p)
		if relative || !filepath.IsAbs(p) {
			return filepath.Join(root, p)
		}
		return p
	}

	var profileDefault string
	for _, sec := range cfg.Sections() {
		name := sec.Name()
		switch {
		case strings.HasPrefix(name, "Install"):
			if def := sec.Key("Default").String(); def != "" {
				return resolve(def, true)
			}
		case strings.HasPrefix(name, "Profile"):
			if profileDefault != "" || sec.Key("Default").String() != "1" {
				continue
			}
			if p := sec.Key("Path").String(); p != "" {
				profileDefault = resolve(p, sec.Key("IsRelative").String() != "0")
			}
		}
	}
	return profileDefault
}

// candidates expands specs into existing cookie database paths in priority
// order.
func candidates(specs []browserSpec) []Source {
	var out []Source
	for _, b := range specs {
		if len(b.ProfilesIniPaths) > 0 {
			for _, iniPath := range b.ProfilesIniPaths {
				dir := parseProfilesIni(iniPath)
				if dir == "" {
					continue
				}
				p := filepath.Join(dir, "cookies.sqlite")
				if _, err := os.Stat(p); err == nil {
					out = append(out, Source{Path: p, Format: FormatFirefox, Browser: b.Name})
				}
			}
			continue
		}
		for _, p := range b.CookiePaths {
			if _, err := os.Stat(p); err == nil {
				out = append(out, Source{Path: p, Format: FormatChrome, Browser: b.Name})
				break
			}
		}
	}
	return out
}

// Detect imports from the first readable browser store, in the order
// Firefox, LibreWolf, Chrome, Chromium, Edge, Brave.
func (im *Importer) Detect(ctx context.Context, f Filter) ([]*cookie.Cookie, *Source, error) {
	specs := im.specs
	if specs == nil {
		specs = getBrowserCookiePaths()
	}
	for _, cand := range candidates(specs) {
		cookies, src, err := im.Import(ctx, cand.Path, f)
		if err != nil {
			im.log().Debug("skipping %s store %s: %v", cand.Browser, cand.Path, err)
			continue
		}
		src.Browser = cand.Browser
		return cookies, src, nil
	}
	return nil, nil, ErrNoBrowser
}
