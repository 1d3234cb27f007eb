package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/urfave/cli"
	"github.com/warpdl/cookiesync/cmd/common"
	"github.com/warpdl/cookiesync/pkg/cookiejar"
)

func set(ctx *cli.Context) error {
	args := ctx.Args()
	if args.First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if len(args) < 2 {
		return common.PrintErrWithCmdHelp(ctx, errors.New("expected a URL and at least one Set-Cookie header"))
	}
	u, err := parseHTTPURL(args[0])
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	received := parseSetCookies(args[1:])
	if len(received) == 0 {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no valid Set-Cookie header given"))
	}

	cctx, cancel := commandContext()
	defer cancel()
	store, err := openStore(cctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "set", "connect", err)
		return nil
	}
	defer closeStore(store)

	jar := cookiejar.New(store, cookiejar.WithLogger(appLog))
	if err := jar.SetCookiesContext(cctx, u, received); err != nil {
		common.PrintRuntimeErr(ctx, "set", "store", err)
		return nil
	}
	fmt.Fprintf(ctx.App.Writer, "Stored %d cookie(s) for %s\n", len(received), u.Hostname())
	return nil
}

// parseSetCookies parses header values the way an http.Client would read
// them from a response.
func parseSetCookies(lines []string) []*http.Cookie {
	h := make(http.Header)
	for _, l := range lines {
		h.Add("Set-Cookie", l)
	}
	return (&http.Response{Header: h}).Cookies()
}
