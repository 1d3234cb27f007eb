package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"
	"github.com/warpdl/cookiesync/cmd/common"
	"github.com/warpdl/cookiesync/internal/cookies"
	"github.com/warpdl/cookiesync/pkg/cookie"
)

var (
	importDomain string

	importFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "domain, d",
			Usage:       "only import cookies a request to this domain would see",
			Destination: &importDomain,
		},
	}

	newImporter = func() *cookies.Importer {
		return &cookies.Importer{Log: appLog}
	}
)

func importCookies(ctx *cli.Context) error {
	src := ctx.Args().First()
	if src == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if src == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("expected a cookie file path or 'auto'"))
	}

	cctx, cancel := commandContext()
	defer cancel()

	im := newImporter()
	filter := cookies.Filter{Domain: importDomain}
	var (
		found  []*cookie.Cookie
		source *cookies.Source
		err    error
	)
	if src == "auto" {
		found, source, err = im.Detect(cctx, filter)
	} else {
		found, source, err = im.Import(cctx, src, filter)
	}
	if err != nil {
		common.PrintRuntimeErr(ctx, "import", "read", err)
		return nil
	}
	w := ctx.App.Writer
	if len(found) == 0 {
		fmt.Fprintf(w, "cookiesync: no cookies to import from %s\n", source.Path)
		return nil
	}

	store, err := openStore(cctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "import", "connect", err)
		return nil
	}
	defer closeStore(store)

	if err := store.PutCookies(cctx, found); err != nil {
		common.PrintRuntimeErr(ctx, "import", "store", err)
		return nil
	}
	fmt.Fprintf(w, "Imported %d cookies from %s (%s)\n", len(found), source.Browser, source.Path)
	return nil
}
