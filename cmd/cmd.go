package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"
	"github.com/warpdl/cookiesync/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

func newApp(bArgs BuildArgs) *cli.App {
	app := cli.NewApp()
	app.Name = "cookiesync"
	app.HelpName = "cookiesync"
	app.Usage = "An HTTP cookie jar mirrored to an FTP or SFTP server."
	app.Version = fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType)
	app.UsageText = "cookiesync [global options] <command> [arguments...]"
	app.Description = DESCRIPTION
	app.CustomAppHelpTemplate = HELP_TEMPL
	app.OnUsageError = common.UsageErrorCallback
	app.Flags = globalFlags
	app.Before = setupLogger
	app.After = closeLogger
	app.HideHelp = true
	app.HideVersion = true
	app.Commands = []cli.Command{
		{
			Name:                   "list",
			Aliases:                []string{"ls"},
			Usage:                  "list stored cookies",
			ArgsUsage:              "[domain]",
			Action:                 list,
			OnUsageError:           common.UsageErrorCallback,
			CustomHelpTemplate:     CMD_HELP_TEMPL,
			Description:            ListDescription,
			UseShortOptionHandling: true,
			Flags:                  lsFlags,
		},
		{
			Name:               "get",
			Usage:              "print the cookies sent to a URL, or one cookie value",
			ArgsUsage:          "<url> | <domain> <path> <name>",
			Action:             get,
			OnUsageError:       common.UsageErrorCallback,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Description:        GetDescription,
		},
		{
			Name:               "set",
			Usage:              "store cookies from Set-Cookie headers",
			ArgsUsage:          "<url> <set-cookie>...",
			Action:             set,
			OnUsageError:       common.UsageErrorCallback,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Description:        SetDescription,
		},
		{
			Name:               "rm",
			Aliases:            []string{"remove"},
			Usage:              "delete cookies",
			ArgsUsage:          "<domain> [path [name]]",
			Action:             remove,
			OnUsageError:       common.UsageErrorCallback,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Description:        RemoveDescription,
		},
		{
			Name:                   "purge",
			Usage:                  "delete every cookie",
			Action:                 purge,
			OnUsageError:           common.UsageErrorCallback,
			CustomHelpTemplate:     CMD_HELP_TEMPL,
			Description:            PurgeDescription,
			UseShortOptionHandling: true,
			Flags:                  purgeFlags,
		},
		{
			Name:                   "import",
			Usage:                  "import cookies from a browser cookie store",
			ArgsUsage:              "<file | auto>",
			Action:                 importCookies,
			OnUsageError:           common.UsageErrorCallback,
			CustomHelpTemplate:     CMD_HELP_TEMPL,
			Description:            ImportDescription,
			UseShortOptionHandling: true,
			Flags:                  importFlags,
		},
		{
			Name:                   "export",
			Usage:                  "write cookies in the Netscape cookies.txt format",
			Action:                 export,
			OnUsageError:           common.UsageErrorCallback,
			CustomHelpTemplate:     CMD_HELP_TEMPL,
			Description:            ExportDescription,
			UseShortOptionHandling: true,
			Flags:                  exportFlags,
		},
		{
			Name:               "login",
			Usage:              "save the remote in a profile and its password in the keyring",
			Action:             login,
			OnUsageError:       common.UsageErrorCallback,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Description:        LoginDescription,
		},
		{
			Name:    "help",
			Aliases: []string{"h"},
			Usage:   "prints the help message",
			Action:  common.Help,
		},
		{
			Name:               "version",
			Aliases:            []string{"v"},
			Usage:              "prints installed version of cookiesync",
			UsageText:          " ",
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Action:             common.GetVersion,
		},
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app
}

// Execute runs the cookiesync command line with args (os.Args form).
func Execute(args []string, bArgs BuildArgs) error {
	return newApp(bArgs).Run(args)
}
