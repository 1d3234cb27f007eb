package cmd

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"
	"github.com/warpdl/cookiesync/cmd/common"
	"github.com/warpdl/cookiesync/internal/config"
	"github.com/warpdl/cookiesync/pkg/cookiestore"
)

func login(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	cfg, dir, err := resolveConfig(false)
	if err != nil {
		common.PrintRuntimeErr(ctx, "login", "config", err)
		return nil
	}
	w := ctx.App.Writer

	if cfg.IsNetwork() && cfg.Options.Password == "" {
		fmt.Fprintf(w, "Password for %s: ", cfg.Account())
		line, _ := bufio.NewReader(stdin).ReadString('\n')
		cfg.Options.Password = strings.TrimRight(line, "\r\n")
		fmt.Fprintln(w)
	}

	cctx, cancel := commandContext()
	defer cancel()
	tr, err := newRouter().New(cfg.Scheme)
	if err != nil {
		common.PrintRuntimeErr(ctx, "login", "transport", err)
		return nil
	}
	store := cookiestore.NewSyncedStore(cfg.Path, tr, cookiestore.WithLogger(appLog))
	if err := store.Connect(cctx, cfg.Options); err != nil {
		common.PrintRuntimeErr(ctx, "login", "connect", err)
		return nil
	}
	all, _ := store.GetAllCookies()
	closeStore(store)

	if cfg.IsNetwork() && cfg.Options.Password != "" {
		if err := newSecrets(dir).SetPassword(cfg.Account(), cfg.Options.Password); err != nil {
			common.PrintRuntimeErr(ctx, "login", "keyring", err)
			return nil
		}
	}

	file := configFile
	if file == "" {
		file = filepath.Join(dir, config.FileName)
	}
	p := &config.Profile{
		Name:       profileName,
		Remote:     cfg.String(),
		Secure:     cfg.Options.Secure && cfg.Scheme == "ftp",
		Timeout:    timeout,
		KnownHosts: knownHosts,
		SSHKey:     sshKey,
	}
	if err := config.SaveProfile(file, p); err != nil {
		common.PrintRuntimeErr(ctx, "login", "save_profile", err)
		return nil
	}
	fmt.Fprintf(w, "Logged in to %s (%d cookies), saved as profile %q\n", cfg, len(all), p.Name)
	return nil
}
