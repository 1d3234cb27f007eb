package cmd

const DESCRIPTION = `
cookiesync keeps an HTTP cookie jar in a single JSON file on an FTP, FTPS
or SFTP server (or a local file), so several machines and tools can share
one set of cookies. Every change is written back to the server immediately.

The remote is given as a URL, through --remote, $COOKIESYNC_REMOTE or a
profile saved with "cookiesync login":

        ftp://user@ftp.example.com/jars/cookies.json
        sftp://user@host:2222/home/user/cookies.json
        file:///home/user/cookies.json
`

const (
	ListDescription = `The list command prints the stored cookies, optionally
limited to those a request to a domain (and path) would see.
Cookie values are not shown; use "get" for that.

Example:
        cookiesync list
        cookiesync list --path /app www.example.com

`
	GetDescription = `The get command prints the Cookie header a request to a URL
would carry, or the value of a single cookie given its domain,
path and name.

Example:
        cookiesync get https://www.example.com/app
        cookiesync get example.com / session_id

`
	SetDescription = `The set command stores cookies as if they were received in
Set-Cookie headers of a response from a URL. Domain, path,
expiry and secure rules apply as in a browser.

Example:
        cookiesync set https://example.com/ "sid=abc; Path=/; HttpOnly"

`
	RemoveDescription = `The rm command deletes a single cookie, every cookie under a
domain and path, or every cookie under a domain.

Example:
        cookiesync rm example.com / sid
        cookiesync rm example.com /app
        cookiesync rm example.com

`
	PurgeDescription = `The purge command deletes every stored cookie.

Example:
        cookiesync purge --force

`
	ImportDescription = `The import command copies cookies from a browser cookie store
into the jar. Firefox and Chrome SQLite databases and Netscape
cookies.txt files are recognised. Pass "auto" to use the first
browser found on this machine.

Example:
        cookiesync import ~/.mozilla/firefox/abc.default/cookies.sqlite
        cookiesync import --domain example.com auto

`
	ExportDescription = `The export command writes the jar in the Netscape cookies.txt
format, readable by curl, wget and yt-dlp.

Example:
        cookiesync export -o cookies.txt
        cookiesync export --domain example.com

`
	LoginDescription = `The login command checks that the remote is reachable, stores
its password in the system keyring and saves the remote in a
profile so later commands need no flags.

Example:
        cookiesync --remote ftp://bob@ftp.example.com/jar.json login
        cookiesync --profile work --remote sftp://bob@host/jar.json login

`
)
