package install

import (
	"fmt"
	"runtime"

	"github.com/apex/log"
	clilog "github.com/apex/log/handlers/cli"

	"github.com/urfave/cli/v2"

	"github.com/flipyap/ptdl/pkg/acquire"
	"github.com/flipyap/ptdl/pkg/common"
	"github.com/flipyap/ptdl/pkg/config"
	"github.com/flipyap/ptdl/pkg/progress"
	"github.com/flipyap/ptdl/pkg/settings"
)

func Execute(c *cli.Context) error {
	log.SetHandler(clilog.Default)
	log.SetLevel(log.DebugLevel)

	cfg, err := config.New(c.Path("config"))
	if err != nil {
		return err
	}

	if err := cfg.MkdirAll(); err != nil {
		return err
	}

	store, err := settings.Open(cfg.SettingsPath())
	if err != nil {
		return err
	}

	coord := acquire.New(cfg, store, &acquire.Options{
		OS:          c.String("os"),
		GitHubToken: c.String("github-token"),
		Sink:        progress.NewLogSink(),
	})

	target := c.Args().First()

	log.Infof("%s/%s", common.NAME, common.AppVersion.Summary)
	log.Infof(" target: %s", target)
	log.Infof("     os: %s", coord.Platform.Name)
	log.Infof("   data: %s", cfg.DataPath)

	var installed string
	switch target {
	case "flash":
		installed, err = coord.InstallFlash(c.Context)
	case "ruffle":
		installed, err = coord.InstallRuffle(c.Context)
	default:
		installed, err = coord.InstallGame(c.Context, target)
	}
	if err != nil {
		return err
	}

	log.Infof("installed %s", installed)

	return nil
}

func Before(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("no target specified, expected flash, ruffle, or a game id")
	}

	if c.NArg() > 1 {
		return fmt.Errorf("only one target can be specified")
	}

	return common.Before(c)
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "os",
			Usage: "Specify the OS to install for",
			Value: runtime.GOOS,
		},
		&cli.StringFlag{
			Name:     "github-token",
			Usage:    "GitHub token to use for GitHub API requests",
			EnvVars:  []string{"PTDL_GITHUB_TOKEN"},
			Category: "Authentication",
		},
	}
}

func init() {
	cmd := &cli.Command{
		Name:        "install",
		Usage:       "install",
		Description: `download and install a runtime (flash, ruffle) or a game by id`,
		Before:      Before,
		Flags:       append(Flags(), common.Flags()...),
		Action:      Execute,
		Args:        true,
		ArgsUsage:   " flash|ruffle|game-id",
	}

	common.RegisterCommand(cmd)
}
