package cookies

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDetectFormat(t *testing.T) {
	dir := t.TempDir()
	future := fixtureNow.Add(time.Hour).Unix()
	ff := createFirefoxFixture(t, mkdir(t, filepath.Join(dir, "ff")), []dbRow{{"a", "1", ".a.com", "/", future, 0, 0}})
	chrome := createChromeFixture(t, mkdir(t, filepath.Join(dir, "chrome")), nil)

	tests := []struct {
		name string
		path string
		want Format
	}{
		{"firefox", ff, FormatFirefox},
		{"chrome", chrome, FormatChrome},
		{"netscape header", writeFile(t, filepath.Join(dir, "ns.txt"), netscapeFixture), FormatNetscape},
		{"legacy header", writeFile(t, filepath.Join(dir, "legacy.txt"), "# HTTP Cookie File\n"), FormatNetscape},
		{"headerless", writeFile(t, filepath.Join(dir, "bare.txt"), ".a.com\tTRUE\t/\tFALSE\t0\tk\tv\n"), FormatNetscape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(context.Background(), tt.path)
			if err != nil {
				t.Fatalf("DetectFormat: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDetectFormat_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name        string
		path        string
		unsupported bool
	}{
		{"missing", filepath.Join(dir, "nope"), false},
		{"directory", dir, false},
		{"empty", writeFile(t, filepath.Join(dir, "empty"), ""), false},
		{"json", writeFile(t, filepath.Join(dir, "x.json"), `{"cookies": []}`), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DetectFormat(context.Background(), tt.path)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrUnsupportedFormat) != tt.unsupported {
				t.Errorf("errors.Is(ErrUnsupportedFormat) = %v for %v", !tt.unsupported, err)
			}
		})
	}
}

func TestDetectFormat_UnknownSQLite(t *testing.T) {
	path := createDB(t, filepath.Join(t.TempDir(), "other.db"), `CREATE TABLE history (id INTEGER)`, "", nil, nil)
	if _, err := DetectFormat(context.Background(), path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestSafeCopy(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "Cookies"), "database")
	writeFile(t, src+"-wal", "wal")

	copyPath, cleanup, err := SafeCopy(src)
	if err != nil {
		t.Fatalf("SafeCopy: %v", err)
	}
	if filepath.Dir(copyPath) == dir {
		t.Fatal("copy should live in its own temp dir")
	}
	data, err := os.ReadFile(copyPath)
	if err != nil || string(data) != "database" {
		t.Fatalf("copy content = %q, %v", data, err)
	}
	if data, err := os.ReadFile(copyPath + "-wal"); err != nil || string(data) != "wal" {
		t.Errorf("wal copy = %q, %v", data, err)
	}
	if _, err := os.Stat(copyPath + "-shm"); !os.IsNotExist(err) {
		t.Error("shm should not be created when absent")
	}

	cleanup()
	if _, err := os.Stat(filepath.Dir(copyPath)); !os.IsNotExist(err) {
		t.Error("cleanup should remove the temp dir")
	}
}

func TestSafeCopy_Missing(t *testing.T) {
	if _, _, err := SafeCopy(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing source")
	}
}

func mkdir(t *testing.T, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	return dir
}
