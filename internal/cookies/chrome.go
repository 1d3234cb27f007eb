package cookies

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/warpdl/cookiesync/pkg/cookie"
	_ "modernc.org/sqlite"
)

// chromeEpochOffsetSeconds is the number of seconds between 1601-01-01 and
// the Unix epoch.
const chromeEpochOffsetSeconds int64 = 11_644_473_600

func chromeToTime(usec int64) time.Time {
	return cookie.ClampExpiry(time.Unix(usec/1_000_000-chromeEpochOffsetSeconds, 0).UTC())
}

func timeToChrome(t time.Time) int64 {
	return (t.Unix() + chromeEpochOffsetSeconds) * 1_000_000
}

// ParseChrome reads unexpired, unencrypted cookies from a Chrome Cookies
// SQLite file. Rows with expires_utc 0 are session cookies. dbPath should
// be a copy (see SafeCopy), not the live database.
func ParseChrome(ctx context.Context, dbPath string, f Filter, now time.Time) ([]*cookie.Cookie, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open chrome cookie database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
        SELECT name, value, host_key, path, expires_utc, is_secure, is_httponly
        FROM cookies
        WHERE value != ''
          AND (expires_utc = 0 OR expires_utc > ?)
        ORDER BY creation_utc ASC
    `, timeToChrome(now))
	if err != nil {
		return nil, fmt.Errorf("query chrome cookies: %w", err)
	}
	defer rows.Close()

	var out []*cookie.Cookie
	for rows.Next() {
		var (
			name, value, hostKey, path string
			expiresUTC                 int64
			isSecure, isHTTPOnly       int
		)
		if err := rows.Scan(&name, &value, &hostKey, &path, &expiresUTC, &isSecure, &isHTTPOnly); err != nil {
			return nil, fmt.Errorf("scan chrome cookie row: %w", err)
		}
		if !f.match(hostKey) {
			continue
		}
		c := cookie.New(name, value, cookie.CanonicalDomain(hostKey), path)
		c.HostOnly = len(hostKey) > 0 && hostKey[0] != '.'
		if expiresUTC != 0 {
			c.Expires = chromeToTime(expiresUTC)
		}
		c.Secure = isSecure != 0
		c.HTTPOnly = isHTTPOnly != 0
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chrome cookie rows: %w", err)
	}
	return out, nil
}
