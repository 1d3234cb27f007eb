package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"
	"github.com/warpdl/cookiesync/cmd/common"
	"github.com/warpdl/cookiesync/pkg/cookie"
)

func remove(ctx *cli.Context) error {
	args := ctx.Args()
	if args.First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if len(args) < 1 || len(args) > 3 {
		return common.PrintErrWithCmdHelp(ctx, errors.New("expected a domain, optionally followed by a path and a cookie name"))
	}

	cctx, cancel := commandContext()
	defer cancel()
	store, err := openStore(cctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "rm", "connect", err)
		return nil
	}
	defer closeStore(store)

	domain, path := cookie.CanonicalDomain(args[0]), args.Get(1)
	w := ctx.App.Writer
	if len(args) == 3 {
		if err := store.RemoveCookie(cctx, domain, path, args[2]); err != nil {
			common.PrintRuntimeErr(ctx, "rm", "remove", err)
			return nil
		}
		fmt.Fprintf(w, "Removed %s from %s%s\n", args[2], domain, path)
		return nil
	}
	if err := store.RemoveCookies(cctx, domain, path); err != nil {
		common.PrintRuntimeErr(ctx, "rm", "remove", err)
		return nil
	}
	fmt.Fprintf(w, "Removed cookies under %s%s\n", domain, path)
	return nil
}
