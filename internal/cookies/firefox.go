package cookies

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/warpdl/cookiesync/pkg/cookie"
	_ "modernc.org/sqlite"
)

// ParseFirefox reads unexpired cookies from a Firefox cookies.sqlite file.
// dbPath should be a copy (see SafeCopy), not the live database.
func ParseFirefox(ctx context.Context, dbPath string, f Filter, now time.Time) ([]*cookie.Cookie, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open firefox cookie database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
        SELECT name, value, host, path, expiry, isSecure, isHttpOnly
        FROM moz_cookies
        WHERE expiry > ?
        ORDER BY id ASC
    `, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("query firefox cookies: %w", err)
	}
	defer rows.Close()

	var out []*cookie.Cookie
	for rows.Next() {
		var (
			name, value, host, path string
			expiry                  int64
			isSecure, isHTTPOnly    int
		)
		if err := rows.Scan(&name, &value, &host, &path, &expiry, &isSecure, &isHTTPOnly); err != nil {
			return nil, fmt.Errorf("scan firefox cookie row: %w", err)
		}
		if !f.match(host) {
			continue
		}
		c := cookie.New(name, value, cookie.CanonicalDomain(host), path)
		c.HostOnly = len(host) > 0 && host[0] != '.'
		c.Expires = cookie.ClampExpiry(time.Unix(expiry, 0).UTC())
		c.Secure = isSecure != 0
		c.HTTPOnly = isHTTPOnly != 0
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate firefox cookie rows: %w", err)
	}
	return out, nil
}
