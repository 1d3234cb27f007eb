package cookiestore

import "strings"

// PathMatch reports whether reqPath path-matches cookiePath (RFC 6265 §5.1.4):
// the paths are identical, or cookiePath is a prefix of reqPath and either
// ends with "/" or is followed by "/" in reqPath.
func PathMatch(reqPath, cookiePath string) bool {
	if reqPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	if strings.HasSuffix(cookiePath, "/") {
		return true
	}
	return reqPath[len(cookiePath)] == '/'
}

// DefaultPath computes the default cookie path for a request URI path
// (RFC 6265 §5.1.4): everything up to, but not including, the right-most "/",
// or "/" when that would be empty or the path is not absolute.
func DefaultPath(uriPath string) string {
	if uriPath == "" || uriPath[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(uriPath, "/")
	if i == 0 {
		return "/"
	}
	return uriPath[:i]
}
