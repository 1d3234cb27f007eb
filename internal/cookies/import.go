package cookies

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/warpdl/cookiesync/pkg/cookie"
	"github.com/warpdl/cookiesync/pkg/logger"
)

// Importer reads browser cookie stores.
type Importer struct {
	Log logger.Logger
	// Now is the clock used to drop expired cookies.
	Now func() time.Time
	// specs overrides the browser search list in tests.
	specs []browserSpec
}

func (im *Importer) now() time.Time {
	if im.Now != nil {
		return im.Now()
	}
	return time.Now()
}

func (im *Importer) log() logger.Logger {
	if im.Log != nil {
		return im.Log
	}
	return logger.NewNopLogger()
}

// Import reads the cookie store at path, detecting its format. SQLite
// databases are read from a temporary copy.
func (im *Importer) Import(ctx context.Context, path string, f Filter) ([]*cookie.Cookie, *Source, error) {
	format, err := DetectFormat(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	src := &Source{Path: path, Format: format}

	var cookies []*cookie.Cookie
	switch format {
	case FormatFirefox:
		src.Browser = "Firefox"
		cookies, err = im.importSQLite(ctx, path, f, ParseFirefox)
	case FormatChrome:
		src.Browser = "Chrome"
		cookies, err = im.importSQLite(ctx, path, f, ParseChrome)
	case FormatNetscape:
		src.Browser = "Netscape"
		cookies, err = im.importNetscape(path, f)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, nil, err
	}
	im.log().Debug("imported %d cookies from %s (%s)", len(cookies), src.Browser, path)
	return cookies, src, nil
}

type sqliteParser func(context.Context, string, Filter, time.Time) ([]*cookie.Cookie, error)

func (im *Importer) importSQLite(ctx context.Context, path string, f Filter, parse sqliteParser) ([]*cookie.Cookie, error) {
	copyPath, cleanup, err := SafeCopy(path)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return parse(ctx, copyPath, f, im.now())
}

func (im *Importer) importNetscape(path string, f Filter) ([]*cookie.Cookie, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open netscape cookie file: %w", err)
	}
	defer file.Close()
	return ParseNetscape(file, f, im.now(), im.log())
}
