package cmd

import (
	"fmt"

	"github.com/urfave/cli"
	"github.com/warpdl/cookiesync/cmd/common"
)

var (
	forcePurge bool

	purgeFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "force, f",
			Usage:       "use this flag to purge without confirmation (default: false)",
			Destination: &forcePurge,
		},
	}
)

func purge(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if !common.Confirm(ctx, stdin, "purge", forcePurge) {
		return nil
	}
	cctx, cancel := commandContext()
	defer cancel()
	store, err := openStore(cctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "purge", "connect", err)
		return nil
	}
	defer closeStore(store)

	if err := store.RemoveAllCookies(cctx); err != nil {
		common.PrintRuntimeErr(ctx, "purge", "remove_all", err)
		return nil
	}
	fmt.Fprintln(ctx.App.Writer, "Purged all cookies!")
	return nil
}
