//go:build windows

package cookies

import (
	"os"
	"path/filepath"
)

// browserSpecsForEnv builds the search list from LOCALAPPDATA (Chromium
// family) and APPDATA (Firefox family).
func browserSpecsForEnv(localAppData, appData string) []browserSpec {
	specs := []browserSpec{
		{Name: "Firefox", ProfilesIniPaths: []string{filepath.Join(appData, "Mozilla", "Firefox", "profiles.ini")}},
		{Name: "LibreWolf", ProfilesIniPaths: []string{filepath.Join(appData, "LibreWolf", "profiles.ini")}},
	}
	for _, d := range []struct{ name, dir string }{
		{"Chrome", `Google\Chrome`},
		{"Chromium", "Chromium"},
		{"Edge", `Microsoft\Edge`},
		{"Brave", `BraveSoftware\Brave-Browser`},
	} {
		base := filepath.Join(localAppData, d.dir, "User Data", "Default")
		specs = append(specs, browserSpec{Name: d.name, CookiePaths: []string{
			filepath.Join(base, "Network", "Cookies"),
			filepath.Join(base, "Cookies"),
		}})
	}
	return specs
}

func getBrowserCookiePaths() []browserSpec {
	return browserSpecsForEnv(os.Getenv("LOCALAPPDATA"), os.Getenv("APPDATA"))
}
