//go:build unix

package cookies

import (
	"os"
	"path/filepath"
	"runtime"
)

// chromiumDirs maps Chromium-family browsers to their profile root,
// relative to the Linux config dir and the macOS Application Support dir.
var chromiumDirs = []struct {
	name, linux, darwin string
}{
	{"Chrome", "google-chrome", "Google/Chrome"},
	{"Chromium", "chromium", "Chromium"},
	{"Edge", "microsoft-edge", "Microsoft Edge"},
	{"Brave", "BraveSoftware/Brave-Browser", "BraveSoftware/Brave-Browser"},
}

func browserSpecsForHome(home, goos string) []browserSpec {
	support := filepath.Join(home, "Library", "Application Support")
	var specs []browserSpec
	if goos == "darwin" {
		specs = append(specs,
			browserSpec{Name: "Firefox", ProfilesIniPaths: []string{filepath.Join(support, "Firefox", "profiles.ini")}},
			browserSpec{Name: "LibreWolf", ProfilesIniPaths: []string{filepath.Join(support, "librewolf", "profiles.ini")}},
		)
	} else {
		specs = append(specs,
			browserSpec{Name: "Firefox", ProfilesIniPaths: []string{
				filepath.Join(home, ".mozilla", "firefox", "profiles.ini"),
				filepath.Join(home, "snap", "firefox", "common", ".mozilla", "firefox", "profiles.ini"),
			}},
			browserSpec{Name: "LibreWolf", ProfilesIniPaths: []string{filepath.Join(home, ".librewolf", "profiles.ini")}},
		)
	}

	for _, d := range chromiumDirs {
		base := filepath.Join(home, ".config", filepath.FromSlash(d.linux), "Default")
		if goos == "darwin" {
			base = filepath.Join(support, filepath.FromSlash(d.darwin), "Default")
		}
		specs = append(specs, browserSpec{Name: d.name, CookiePaths: []string{
			filepath.Join(base, "Network", "Cookies"),
			filepath.Join(base, "Cookies"),
		}})
	}
	return specs
}

func getBrowserCookiePaths() []browserSpec {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return browserSpecsForHome(home, runtime.GOOS)
}
