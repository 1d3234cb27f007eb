package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/urfave/cli"
	"github.com/warpdl/cookiesync/cmd/common"
	"github.com/warpdl/cookiesync/internal/cookies"
	"github.com/warpdl/cookiesync/pkg/cookie"
)

var (
	exportOutput string
	exportDomain string

	exportFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "output, o",
			Usage:       "write to this file instead of stdout",
			Destination: &exportOutput,
		},
		cli.StringFlag{
			Name:        "domain, d",
			Usage:       "only export cookies a request to this domain would see",
			Destination: &exportDomain,
		},
	}
)

func export(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	cctx, cancel := commandContext()
	defer cancel()
	store, err := openStore(cctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "export", "connect", err)
		return nil
	}
	defer closeStore(store)

	var found []*cookie.Cookie
	if exportDomain != "" {
		found, err = store.FindCookies(exportDomain, "", false)
	} else {
		found, err = store.GetAllCookies()
	}
	if err != nil {
		common.PrintRuntimeErr(ctx, "export", "find", err)
		return nil
	}

	var buf bytes.Buffer
	if err := cookies.WriteNetscape(&buf, found); err != nil {
		common.PrintRuntimeErr(ctx, "export", "encode", err)
		return nil
	}
	if exportOutput == "" {
		_, err = ctx.App.Writer.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(exportOutput, buf.Bytes(), 0600); err != nil {
		common.PrintRuntimeErr(ctx, "export", "write", err)
		return nil
	}
	fmt.Fprintf(ctx.App.Writer, "Exported %d cookies to %s\n", len(found), exportOutput)
	return nil
}
