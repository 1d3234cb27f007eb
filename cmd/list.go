package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli"
	"github.com/warpdl/cookiesync/cmd/common"
	"github.com/warpdl/cookiesync/pkg/cookie"
)

var (
	listPath string

	lsFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "path, p",
			Usage:       "only list cookies a request to this path would see",
			Destination: &listPath,
		},
	}
)

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	cctx, cancel := commandContext()
	defer cancel()

	store, err := openStore(cctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "connect", err)
		return nil
	}
	defer closeStore(store)

	var found []*cookie.Cookie
	if domain := ctx.Args().First(); domain != "" {
		found, err = store.FindCookies(domain, listPath, false)
		sort.Slice(found, func(i, j int) bool {
			return found[i].CreationIndex < found[j].CreationIndex
		})
	} else {
		found, err = store.GetAllCookies()
	}
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "find", err)
		return nil
	}

	w := ctx.App.Writer
	if len(found) == 0 {
		fmt.Fprintln(w, "cookiesync: no cookies found")
		return nil
	}
	fmt.Fprintf(w, "%s %s %s %s %s\n",
		common.Fit("Domain", 28), common.Fit("Path", 16), common.Fit("Name", 24), common.Fit("Expires", 20), "Flags")
	for _, c := range found {
		fmt.Fprintf(w, "%s %s %s %s %s\n",
			common.Fit(c.Domain, 28),
			common.Fit(c.Path, 16),
			common.Fit(c.Key, 24),
			common.Fit(expiryString(c), 20),
			flagString(c),
		)
	}
	return nil
}

func expiryString(c *cookie.Cookie) string {
	t, ok := c.ExpiryTime()
	if !ok {
		return "session"
	}
	return t.UTC().Format(time.DateTime)
}

func flagString(c *cookie.Cookie) string {
	var flags []string
	if c.HostOnly {
		flags = append(flags, "host-only")
	}
	if c.Secure {
		flags = append(flags, "secure")
	}
	if c.HTTPOnly {
		flags = append(flags, "httponly")
	}
	if c.SameSite != "" {
		flags = append(flags, "samesite="+c.SameSite)
	}
	return strings.Join(flags, ",")
}
