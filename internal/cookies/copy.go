package cookies

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SafeCopy copies a SQLite cookie database, with its -wal and -shm
// companions when present, into a fresh temporary directory so it can be
// read while the browser holds the original open. It returns the path of
// the copy and a cleanup function the caller must run.
func SafeCopy(srcPath string) (copyPath string, cleanup func(), err error) {
	if err := checkCookieFile(srcPath); err != nil {
		return "", nil, err
	}

	tempDir, err := os.MkdirTemp("", "cookiesync-import-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temp directory: %w", err)
	}
	cleanup = func() { os.RemoveAll(tempDir) }

	copyPath = filepath.Join(tempDir, filepath.Base(srcPath))
	if err := copyFile(srcPath, copyPath); err != nil {
		cleanup()
		return "", nil, err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if _, err := os.Stat(srcPath + suffix); err == nil {
			_ = copyFile(srcPath+suffix, copyPath+suffix)
		}
	}
	return copyPath, cleanup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
