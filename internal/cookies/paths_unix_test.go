//go:build unix

package cookies

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestBrowserSpecsForHome(t *testing.T) {
	for _, goos := range []string{"linux", "darwin"} {
		t.Run(goos, func(t *testing.T) {
			specs := browserSpecsForHome("/home/u", goos)
			var names []string
			for _, s := range specs {
				names = append(names, s.Name)
			}
			if got := strings.Join(names, ","); got != "Firefox,LibreWolf,Chrome,Chromium,Edge,Brave" {
				t.Fatalf("order = %s", got)
			}
			for _, s := range specs[:2] {
				if len(s.ProfilesIniPaths) == 0 || len(s.CookiePaths) != 0 {
					t.Errorf("%s should use profiles.ini", s.Name)
				}
			}
			for _, s := range specs[2:] {
				if len(s.CookiePaths) != 2 || filepath.Base(s.CookiePaths[0]) != "Cookies" ||
					filepath.Base(filepath.Dir(s.CookiePaths[0])) != "Network" {
					t.Errorf("%s cookie paths = %v", s.Name, s.CookiePaths)
				}
			}
			chrome := specs[2].CookiePaths[1]
			if goos == "darwin" && !strings.Contains(chrome, "Application Support") {
				t.Errorf("darwin chrome path = %s", chrome)
			}
			if goos == "linux" && !strings.Contains(chrome, ".config/google-chrome") {
				t.Errorf("linux chrome path = %s", chrome)
			}
		})
	}
}
