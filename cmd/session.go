package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/warpdl/cookiesync/internal/config"
	"github.com/warpdl/cookiesync/pkg/cookiestore"
	"github.com/warpdl/cookiesync/pkg/credman/keyring"
	"github.com/warpdl/cookiesync/pkg/remote"
)

var (
	newRouter  = remote.NewSchemeRouter
	newSecrets = func(dir string) keyring.Store {
		return keyring.New(dir, appLog)
	}
	stdin io.Reader = os.Stdin
)

// commandContext is cancelled on interrupt.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// resolveConfig merges global flags, the remote URL and the selected
// profile. When fillPassword is set and no password was given, the keyring
// is consulted.
func resolveConfig(fillPassword bool) (*config.Config, string, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, "", err
	}
	file := configFile
	if file == "" {
		file = filepath.Join(dir, config.FileName)
	}
	p, err := config.LoadProfile(file, profileName)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Resolve(p, config.Overrides{
		Remote:     remoteURL,
		User:       userName,
		Password:   password,
		Secure:     secure,
		Timeout:    timeout,
		KnownHosts: knownHosts,
		SSHKey:     sshKey,
	}, filepath.Join(dir, config.KnownHostsFileName))
	if err != nil {
		return nil, "", err
	}
	if fillPassword && cfg.IsNetwork() && cfg.Options.Password == "" {
		if err := cfg.FillPassword(newSecrets(dir)); err != nil {
			appLog.Warning("%v", err)
		}
	}
	cfg.Options.Debug = debugWriter()
	return cfg, dir, nil
}

// openStore resolves the configuration and connects a SyncedStore.
func openStore(ctx context.Context) (*cookiestore.SyncedStore, error) {
	cfg, _, err := resolveConfig(true)
	if err != nil {
		return nil, err
	}
	tr, err := newRouter().New(cfg.Scheme)
	if err != nil {
		return nil, err
	}
	store := cookiestore.NewSyncedStore(cfg.Path, tr, cookiestore.WithLogger(appLog))
	appLog.Debug("connecting to %s", cfg)
	if err := store.Connect(ctx, cfg.Options); err != nil {
		return nil, err
	}
	return store, nil
}

func closeStore(store *cookiestore.SyncedStore) {
	if err := store.Disconnect(); err != nil {
		appLog.Warning("disconnect: %v", err)
	}
}
