// Package cookies moves cookies between browser cookie stores and a
// cookiesync store. It reads Firefox (moz_cookies SQLite), Chrome (cookies
// SQLite, unencrypted values only) and Netscape text files, can locate the
// default profile of installed browsers, and writes Netscape text files.
//
// Cookie values are never logged or formatted into errors.
package cookies
