package cmd

import (
	"time"

	"github.com/urfave/cli"
)

var (
	remoteURL   string
	profileName string
	configFile  string
	userName    string
	password    string
	secure      bool
	timeout     time.Duration
	knownHosts  string
	sshKey      string
	debug       bool
	logFile     string

	globalFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "remote, r",
			Usage:       "snapshot location, e.g. ftp://user@host/jar.json",
			EnvVar:      "COOKIESYNC_REMOTE",
			Destination: &remoteURL,
		},
		cli.StringFlag{
			Name:        "profile, p",
			Usage:       "profile section to read from the config file",
			Value:       "default",
			EnvVar:      "COOKIESYNC_PROFILE",
			Destination: &profileName,
		},
		cli.StringFlag{
			Name:        "config",
			Usage:       "profile file (default: <config dir>/cookiesync/config.ini)",
			EnvVar:      "COOKIESYNC_CONFIG",
			Destination: &configFile,
		},
		cli.StringFlag{
			Name:        "user, u",
			Usage:       "login name on the remote",
			EnvVar:      "COOKIESYNC_USER",
			Destination: &userName,
		},
		cli.StringFlag{
			Name:        "password",
			Usage:       "login password (prefer the keyring, see login)",
			EnvVar:      "COOKIESYNC_PASSWORD",
			Destination: &password,
		},
		cli.BoolFlag{
			Name:        "secure",
			Usage:       "use explicit TLS for FTP (default: false)",
			EnvVar:      "COOKIESYNC_SECURE",
			Destination: &secure,
		},
		cli.DurationFlag{
			Name:        "timeout, t",
			Usage:       "dial and transfer timeout (default: 30s)",
			EnvVar:      "COOKIESYNC_TIMEOUT",
			Destination: &timeout,
		},
		cli.StringFlag{
			Name:        "known-hosts",
			Usage:       "known_hosts file for SFTP host keys",
			EnvVar:      "COOKIESYNC_KNOWN_HOSTS",
			Destination: &knownHosts,
		},
		cli.StringFlag{
			Name:        "ssh-key",
			Usage:       "private key for SFTP public-key authentication",
			EnvVar:      "COOKIESYNC_SSH_KEY",
			Destination: &sshKey,
		},
		cli.BoolFlag{
			Name:        "debug, d",
			Usage:       "log debug messages and the FTP control channel (default: false)",
			EnvVar:      "COOKIESYNC_DEBUG",
			Destination: &debug,
		},
		cli.StringFlag{
			Name:        "log-file",
			Usage:       "also append log messages to this file",
			EnvVar:      "COOKIESYNC_LOG_FILE",
			Destination: &logFile,
		},
	}
)
