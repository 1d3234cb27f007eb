package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/urfave/cli"
	"github.com/warpdl/cookiesync/cmd/common"
	"github.com/warpdl/cookiesync/pkg/cookie"
	"github.com/warpdl/cookiesync/pkg/cookiejar"
)

func get(ctx *cli.Context) error {
	args := ctx.Args()
	if args.First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if len(args) != 1 && len(args) != 3 {
		return common.PrintErrWithCmdHelp(ctx, errors.New("expected a URL, or a domain, path and cookie name"))
	}
	var u *url.URL
	if len(args) == 1 {
		var err error
		if u, err = parseHTTPURL(args[0]); err != nil {
			return common.PrintErrWithCmdHelp(ctx, err)
		}
	}

	cctx, cancel := commandContext()
	defer cancel()
	store, err := openStore(cctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "get", "connect", err)
		return nil
	}
	defer closeStore(store)

	w := ctx.App.Writer
	if u != nil {
		sent := cookiejar.New(store, cookiejar.WithLogger(appLog)).Cookies(u)
		if len(sent) == 0 {
			fmt.Fprintf(w, "cookiesync: no cookies for %s\n", u.Redacted())
			return nil
		}
		pairs := make([]string, len(sent))
		for i, c := range sent {
			pairs[i] = c.Name + "=" + c.Value
		}
		fmt.Fprintln(w, strings.Join(pairs, "; "))
		return nil
	}

	c, err := store.FindCookie(cookie.CanonicalDomain(args[0]), args[1], args[2])
	if err != nil {
		common.PrintRuntimeErr(ctx, "get", "find", err)
		return nil
	}
	if c == nil {
		fmt.Fprintf(w, "cookiesync: no cookie %q at %s%s\n", args[2], args[0], args[1])
		return nil
	}
	fmt.Fprintln(w, c.Value)
	return nil
}

func parseHTTPURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("url %q must use http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url %q has no host", raw)
	}
	return u, nil
}
