package cookies

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// sqliteMagic is the header of every SQLite database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// DetectFormat inspects the file at path and reports its cookie store format.
func DetectFormat(ctx context.Context, path string) (Format, error) {
	if err := checkCookieFile(path); err != nil {
		return FormatUnknown, err
	}
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("open cookie file: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	header, err := br.Peek(len(sqliteMagic))
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("read cookie file: %w", err)
	}
	if bytes.Equal(header, sqliteMagic) {
		return detectSQLiteFormat(ctx, path)
	}

	firstLine, _ := br.ReadString('\n')
	firstLine = strings.TrimRight(firstLine, "\r\n")
	if firstLine == netscapeHeader || firstLine == "# HTTP Cookie File" ||
		len(strings.Split(strings.TrimPrefix(firstLine, httpOnlyPrefix), "\t")) == 7 {
		return FormatNetscape, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// detectSQLiteFormat checks which cookie table the database holds.
func detectSQLiteFormat(ctx context.Context, path string) (Format, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return FormatUnknown, fmt.Errorf("open sqlite database: %w", err)
	}
	defer db.Close()

	for _, probe := range []struct {
		table  string
		format Format
	}{
		{"moz_cookies", FormatFirefox},
		{"cookies", FormatChrome},
	} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, probe.table).Scan(&name)
		if err == nil {
			return probe.format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

func checkCookieFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cookie file not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a cookie file path or 'auto'", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("cookie file at %s is empty", path)
	}
	return nil
}
