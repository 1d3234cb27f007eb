package cookies

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/warpdl/cookiesync/pkg/cookie"
	"github.com/warpdl/cookiesync/pkg/logger"
)

const (
	netscapeHeader = "# Netscape HTTP Cookie File"
	httpOnlyPrefix = "#HttpOnly_"
)

// ParseNetscape reads cookies in the Netscape text format. Lines starting
// with # are comments except for the #HttpOnly_ prefix. Malformed lines are
// skipped with a warning. Cookies already expired at now are dropped.
func ParseNetscape(r io.Reader, f Filter, now time.Time, log logger.Logger) ([]*cookie.Cookie, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	var out []*cookie.Cookie

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = line[len(httpOnlyPrefix):]
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			log.Warning("netscape: line %d: expected 7 fields, got %d", lineNo, len(fields))
			continue
		}
		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			log.Warning("netscape: line %d: invalid expiry %q", lineNo, fields[4])
			continue
		}
		if !f.match(fields[0]) {
			continue
		}

		c := cookie.New(fields[5], fields[6], cookie.CanonicalDomain(fields[0]), fields[2])
		c.HostOnly = !strings.EqualFold(fields[1], "TRUE")
		c.Secure = strings.EqualFold(fields[3], "TRUE")
		c.HTTPOnly = httpOnly
		if expiry > 0 {
			c.Expires = cookie.ClampExpiry(time.Unix(expiry, 0).UTC())
		}
		if c.Expired(now) {
			continue
		}
		out = append(out, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read netscape cookies: %w", err)
	}
	return out, nil
}

// WriteNetscape writes cookies in the Netscape text format, sorted by
// domain, path and name. Session cookies get expiry 0.
func WriteNetscape(w io.Writer, cookies []*cookie.Cookie) error {
	sorted := append([]*cookie.Cookie(nil), cookies...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Domain != b.Domain {
			return a.Domain < b.Domain
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Key < b.Key
	})

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, netscapeHeader)
	fmt.Fprintln(bw, "# Written by cookiesync. Edit at your own risk.")
	fmt.Fprintln(bw)
	for _, c := range sorted {
		domain := c.Domain
		includeSub := "FALSE"
		if !c.HostOnly {
			domain = "." + domain
			includeSub = "TRUE"
		}
		if c.HTTPOnly {
			domain = httpOnlyPrefix + domain
		}
		var expiry int64
		if t, ok := c.ExpiryTime(); ok {
			expiry = t.Unix()
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			domain, includeSub, path, boolField(c.Secure), expiry, c.Key, c.Value)
	}
	return bw.Flush()
}

func boolField(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
